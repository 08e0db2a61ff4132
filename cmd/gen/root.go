package gen

import (
	"fmt"
	"io"
	"os"

	"github.com/ValentinKolb/palcube/cmd/util"
	"github.com/ValentinKolb/palcube/lib/common"
	"github.com/ValentinKolb/palcube/lib/store"
	libutil "github.com/ValentinKolb/palcube/lib/util"
	"github.com/ValentinKolb/palcube/lib/value"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	GenCmd = &cobra.Command{
		Use:   "gen",
		Short: "Generate a random cuboid",
		Long: `Generate a random cuboid with a given palette size and write it with the
configured serializer. With --sections a store snapshot holding that many
random sections is written instead.`,
		RunE: run,
	}
)

func init() {
	key := "palette-size"
	GenCmd.Flags().Int(key, 16, util.WrapString("Number of distinct values in the palette"))
	key = "seed"
	GenCmd.Flags().Uint64(key, 0, util.WrapString("Seed of the generator, 0 picks a random seed"))
	key = "output"
	GenCmd.Flags().StringP(key, "o", "-", util.WrapString("Output file, - writes to stdout"))
	key = "sections"
	GenCmd.Flags().Int(key, 0, util.WrapString("Write a store snapshot with this many sections instead of a single cuboid"))
}

func run(cmd *cobra.Command, _ []string) (err error) {
	kind, err := util.GetKind()
	if err != nil {
		return err
	}
	conf := util.GetToolConfig()

	seed := viper.GetUint64("seed")
	if seed == 0 {
		seed = libutil.GenerateSeed()
	}
	util.Logger.Infof("generating %s cuboid (seed %d)", kind, seed)
	util.Logger.Debugf("configuration:%s", conf.String())

	out, closeOut, err := openOutput(viper.GetString("output"))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close output file: %v", cerr)
		}
	}()

	if kind == util.KindBiome {
		return generate(out, conf, seed, util.BiomeValue)
	}
	return generate(out, conf, seed, util.BlockValue)
}

func generate[E value.Value[E]](w io.Writer, conf *common.ToolConfig, seed uint64, newValue func(int) E) error {
	paletteSize := viper.GetInt("palette-size")
	sections := viper.GetInt("sections")

	if sections <= 0 {
		c, err := util.RandomCuboid(conf.Edge, paletteSize, seed, newValue)
		if err != nil {
			return err
		}
		s, err := util.GetSerializer[E](conf)
		if err != nil {
			return err
		}
		data, err := s.Serialize(c)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	st, err := store.NewSectionStore[E](&store.Options{Name: "gen", Edge: conf.Edge, DataVersion: conf.DataVersion})
	if err != nil {
		return err
	}
	for i := 0; i < sections; i++ {
		c, err := util.RandomCuboid(conf.Edge, paletteSize, seed+uint64(i), newValue)
		if err != nil {
			return err
		}
		if err := st.Put(store.SectionKey{Y: int32(i)}, c); err != nil {
			return err
		}
	}
	return st.Save(w)
}

// openOutput opens path for writing, - is stdout. The returned close
// function reports errors of the final write to the file.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "-" || path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %v", err)
	}
	return f, f.Close, nil
}
