package perf

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"slices"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/palcube/cmd/util"
	"github.com/ValentinKolb/palcube/lib/common"
	"github.com/ValentinKolb/palcube/lib/cuboid"
	"github.com/ValentinKolb/palcube/lib/store"
	"github.com/ValentinKolb/palcube/lib/value"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	PerfCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Benchmark cuboid operations",
		Long:    "",
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfPaletteSize = 64
	perfNumThreads  = 10
	perfSections    = 100
	perfSkip        = make([]string, 0)
)

func init() {
	key := "skip"
	PerfCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. construct,pack)"))
	key = "threads"
	PerfCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the store benchmark"))
	key = "palette-size"
	PerfCmd.Flags().Int(key, 64, util.WrapString("Number of distinct values in the benchmarked cuboid"))
	key = "sections"
	PerfCmd.Flags().Int(key, 100, util.WrapString("How many different sections the store benchmark updates"))
	key = "csv"
	PerfCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	perfPaletteSize = viper.GetInt("palette-size")
	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfSections = max(viper.GetInt("sections"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func run(_ *cobra.Command, _ []string) error {
	kind, err := util.GetKind()
	if err != nil {
		return err
	}
	conf := util.GetToolConfig()

	fmt.Println("Performance testing tool for palette cuboids")

	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(conf.String())
	fmt.Printf("Kind: %s\n", kind)
	fmt.Printf("Palette size: %d\n", perfPaletteSize)
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	fmt.Println("starting tests...")

	var results map[string]testing.BenchmarkResult
	registry := metrics.NewRegistry()
	if kind == util.KindBiome {
		results, err = benchmarks(conf, registry, util.BiomeValue)
	} else {
		results, err = benchmarks(conf, registry, util.BlockValue)
	}
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Results:")
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		printResult(name, results[name])
	}
	printLatencies(registry)

	if csvPath := viper.GetString("csv"); csvPath != "" {
		if err := writeResultsToCSV(csvPath, results, conf); err != nil {
			return err
		}
		fmt.Printf("\nResults written to %s\n", csvPath)
	}
	return nil
}

func benchmarks[E value.Value[E]](conf *common.ToolConfig, registry metrics.Registry, newValue func(int) E) (map[string]testing.BenchmarkResult, error) {
	base, err := util.RandomCuboid(conf.Edge, perfPaletteSize, 1, newValue)
	if err != nil {
		return nil, err
	}
	values := base.ToSlice()
	packed, err := base.Pack(conf.DataVersion)
	if err != nil {
		return nil, err
	}
	s, err := util.GetSerializer[E](conf)
	if err != nil {
		return nil, err
	}
	encoded, err := s.Serialize(base)
	if err != nil {
		return nil, err
	}
	size := base.Size()
	first, second := newValue(0), newValue(1)

	results := make(map[string]testing.BenchmarkResult)

	results["construct"] = bench("construct", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := cuboid.FromSlice(values); err != nil {
				b.Fatal(err)
			}
		}
	})

	results["get"] = bench("get", func(b *testing.B) {
		r := rand.New(rand.NewPCG(1, 2))
		for i := 0; i < b.N; i++ {
			if _, err := base.GetByRef(r.IntN(size)); err != nil {
				b.Fatal(err)
			}
		}
	})

	results["set"] = bench("set", func(b *testing.B) {
		c, err := base.Clone()
		if err != nil {
			b.Fatal(err)
		}
		r := rand.New(rand.NewPCG(1, 2))
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if err := c.Set(r.IntN(size), values[r.IntN(size)]); err != nil {
				b.Fatal(err)
			}
		}
	})

	results["replace"] = bench("replace", func(b *testing.B) {
		c, err := base.Clone()
		if err != nil {
			b.Fatal(err)
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			swapRound(b, c, i, first, second)
		}
	})

	results["compact"] = bench("compact", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			b.StopTimer()
			c, err := base.Clone()
			if err != nil {
				b.Fatal(err)
			}
			c.Replace(first, second)
			b.StartTimer()
			if _, err := c.OptimizePalette(); err != nil {
				b.Fatal(err)
			}
		}
	})

	results["pack"] = bench("pack", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := base.Pack(conf.DataVersion); err != nil {
				b.Fatal(err)
			}
		}
	})

	results["unpack"] = bench("unpack", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := cuboid.FromPacked(packed, conf.Edge, conf.DataVersion); err != nil {
				b.Fatal(err)
			}
		}
	})

	results["serialize"] = bench("serialize", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := s.Serialize(base); err != nil {
				b.Fatal(err)
			}
		}
	})

	results["deserialize"] = bench("deserialize", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := s.Deserialize(encoded); err != nil {
				b.Fatal(err)
			}
		}
	})

	results["store-update"] = bench("store-update", func(b *testing.B) {
		st, err := store.NewSectionStore[E](&store.Options{Name: "perf", Edge: conf.Edge, DataVersion: conf.DataVersion})
		if err != nil {
			b.Fatal(err)
		}
		timer := metrics.GetOrRegisterTimer("store-update", registry)

		b.SetParallelism(perfNumThreads)
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			r := rand.New(rand.NewPCG(rand.Uint64(), 0))
			for pb.Next() {
				key := store.SectionKey{X: int32(r.IntN(perfSections))}
				start := time.Now()
				err := st.UpdateOrCreate(key, first, func(c *cuboid.Cuboid[E]) error {
					return c.Set(r.IntN(size), values[r.IntN(size)])
				})
				timer.UpdateSince(start)
				if err != nil {
					util.Logger.Errorf("(store-update) - error updating section %s: %v", key, err)
				}
			}
		})
	})

	return results, nil
}

// benchTimer is the part of testing.B used by swapRound
type benchTimer interface {
	StopTimer()
	StartTimer()
	Fatal(args ...any)
}

// swapRound replaces first with second on even rounds and second with first
// on odd rounds, so every round has cells to rewrite. Each replace appends
// the replacement as a new slot, the palette is compacted with the timer
// stopped so it does not grow across rounds.
func swapRound[E value.Value[E]](b benchTimer, c *cuboid.Cuboid[E], round int, first, second E) {
	if round%2 == 0 {
		c.Replace(first, second)
	} else {
		c.Replace(second, first)
	}
	b.StopTimer()
	if _, err := c.OptimizePalette(); err != nil {
		b.Fatal(err)
	}
	b.StartTimer()
}

// bench runs fn with testing.Benchmark unless the test is skipped
func bench(test string, fn func(b *testing.B)) testing.BenchmarkResult {
	if shouldSkip(test) {
		return testing.BenchmarkResult{}
	}
	util.Logger.Debugf("running %s", test)
	return testing.Benchmark(fn)
}

func shouldSkip(test string) bool {
	return slices.Contains(perfSkip, test)
}

func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// printLatencies prints the latency percentiles of all timers in the registry
func printLatencies(registry metrics.Registry) {
	registry.Each(func(name string, i interface{}) {
		t, ok := i.(metrics.Timer)
		if !ok || t.Count() == 0 {
			return
		}
		snap := t.Snapshot()
		ps := snap.Percentiles([]float64{0.5, 0.99, 0.999})
		fmt.Printf("\nLatency %s (%d samples):\n", name, snap.Count())
		fmt.Printf("  mean %s  p50 %s  p99 %s  p999 %s  max %s\n",
			time.Duration(snap.Mean()), time.Duration(ps[0]), time.Duration(ps[1]), time.Duration(ps[2]), time.Duration(snap.Max()))
	})
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, conf *common.ToolConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "AllocsPerOp", "Skipped",
		"Kind", "Edge", "DataVersion", "Serializer", "Compression",
		"PaletteSize", "Threads", "Sections",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if result.NsPerOp() == 0 {
			skipped = "true"
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			strconv.FormatInt(result.AllocsPerOp(), 10),
			skipped,
			viper.GetString("kind"),
			strconv.Itoa(conf.Edge),
			strconv.Itoa(conf.DataVersion),
			conf.Serializer,
			conf.Compression,
			strconv.Itoa(perfPaletteSize),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfSections),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
