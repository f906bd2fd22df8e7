package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
)

var flagEffective bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the game config YAML",
	Long: `Print the built-in default config, ready to be copied to
~/.blockfall/configs/tetris.yaml or ./configs/tetris.yaml and edited.

With --effective, print the config a new game would use after the search
order, --config and --difficulty are applied.

Examples:
  blockfall config > ~/.blockfall/configs/tetris.yaml
  blockfall config --effective --difficulty hard`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagEffective, "effective", false, "Print the resolved config instead of the default")
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) {
	if !flagEffective {
		os.Stdout.Write(config.GetDefaultYAML(tetris.IDClassic))
		return
	}

	cfg, err := config.LoadTetris(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	config.ApplyTetrisPreset(&cfg, config.ParsePreset(flagDifficulty))

	data, err := config.MarshalTetris(cfg)
	if err != nil {
		fail("%v", err)
	}
	fmt.Print(string(data))
}
