package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/palcube/cmd/gen"
	"github.com/ValentinKolb/palcube/cmd/inspect"
	"github.com/ValentinKolb/palcube/cmd/perf"
	"github.com/ValentinKolb/palcube/cmd/util"
	"github.com/ValentinKolb/palcube/lib/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "palcube",
		Short: "palette compressed cuboid tool",
		Long: fmt.Sprintf(`palcube (v%s)

Generate, inspect and benchmark palette compressed cuboids, the block
state and biome storage of world sections.`, Version),
		SilenceUsage:      true,
		PersistentPreRunE: initLogging,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of palcube",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("palcube v%s\n", Version)
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(gen.GenCmd)
	RootCmd.AddCommand(inspect.InspectCmd)
	RootCmd.AddCommand(perf.PerfCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("Log level (debug, info, warn, error)"))
	util.SetupCuboidFlags(RootCmd)
}

// initLogging binds the flags of the executed command and sets up the loggers
func initLogging(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	if _, err := common.ParseLogLevel(viper.GetString("log-level")); err != nil {
		return err
	}
	common.InitLoggers(viper.GetString("log-level"))
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
