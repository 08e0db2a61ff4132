package inspect

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/ValentinKolb/palcube/cmd/util"
	"github.com/ValentinKolb/palcube/lib/common"
	"github.com/ValentinKolb/palcube/lib/cuboid"
	"github.com/ValentinKolb/palcube/lib/store"
	"github.com/ValentinKolb/palcube/lib/value"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	InspectCmd = &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print palette and packing details of a cuboid",
		Long: `Decode a cuboid written with the configured serializer (or a store snapshot
with --snapshot) and print its palette, the packed bit width and how often
every palette value is used. - reads from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: run,
	}
)

func init() {
	key := "snapshot"
	InspectCmd.Flags().Bool(key, false, util.WrapString("The input is a store snapshot written by gen --sections"))
	key = "metrics"
	InspectCmd.Flags().Bool(key, false, util.WrapString("Also print the store metrics in the prometheus text format"))
}

func run(cmd *cobra.Command, args []string) error {
	kind, err := util.GetKind()
	if err != nil {
		return err
	}
	conf := util.GetToolConfig()

	in, err := readInput(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if kind == util.KindBiome {
		return inspect[value.Biome](out, in, conf)
	}
	return inspect[value.BlockState](out, in, conf)
}

func inspect[E value.Value[E]](w io.Writer, in []byte, conf *common.ToolConfig) error {
	st, err := store.NewSectionStore[E](&store.Options{Name: "inspect", Edge: conf.Edge, DataVersion: conf.DataVersion})
	if err != nil {
		return err
	}

	if viper.GetBool("snapshot") {
		if err := st.Load(bytes.NewReader(in)); err != nil {
			return err
		}
		info, err := st.Info()
		if err != nil {
			return err
		}
		fmt.Fprint(w, info.String())
	} else {
		s, err := util.GetSerializer[E](conf)
		if err != nil {
			return err
		}
		c, err := s.Deserialize(in)
		if err != nil {
			return err
		}
		if err := describe(w, c, conf.DataVersion); err != nil {
			return err
		}
		if err := st.Put(store.SectionKey{}, c); err != nil {
			return err
		}
	}

	if viper.GetBool("metrics") {
		fmt.Fprintln(w)
		st.WritePrometheus(w)
	}
	return nil
}

// describe prints the packing details and the palette usage of c
func describe[E value.Value[E]](w io.Writer, c *cuboid.Cuboid[E], dataVersion int) error {
	p, err := c.Pack(dataVersion)
	if err != nil {
		return err
	}
	bitsPerValue := cuboid.BitsPerValue(len(p.Palette))

	fmt.Fprintf(w, "Edge length:     %d (%d cells)\n", c.EdgeLength(), c.Size())
	fmt.Fprintf(w, "Palette length:  %d\n", len(p.Palette))
	fmt.Fprintf(w, "Bits per value:  %d\n", bitsPerValue)
	if bitsPerValue > 0 {
		fmt.Fprintf(w, "Values per word: %d\n", 64/bitsPerValue)
	}
	fmt.Fprintf(w, "Data words:      %d\n", len(p.Data))

	// count by palette entry, the palette is dense after Pack
	counts := make(map[*E]int, len(p.Palette))
	for _, v := range c.AllByRef() {
		counts[v]++
	}
	type usage struct {
		value *E
		count int
	}
	var usages []usage
	for v := range c.Palette() {
		usages = append(usages, usage{value: v, count: counts[v]})
	}
	slices.SortStableFunc(usages, func(a, b usage) int { return b.count - a.count })

	fmt.Fprintln(w, "\nPALETTE")
	for _, u := range usages {
		fmt.Fprintf(w, "  %-6d %5.1f%%  %v\n", u.count, 100*float64(u.count)/float64(c.Size()), *u.value)
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %v", err)
	}
	return data, nil
}
