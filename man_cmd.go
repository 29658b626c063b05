package main

import (
	"fmt"

	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"
)

var manCmd = &cobra.Command{
	Use:                   "man",
	Short:                 "Generates manpages",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Hidden:                true,
	Args:                  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		manPage, err := mcobra.NewManPage(1, rootCmd)
		if err != nil {
			return err
		}

		manPage = manPage.
			WithSection("Options", optionsText()).
			WithSection("Voices", voicesText()).
			WithSection("Files", "Audio is written to ~/kokoro-audio/kokoro_YYYYMMDD_HHMMSS.wav.\n"+
				"Settings are read from kokoro.yml in the user config directory.")
		fmt.Fprintln(cmd.OutOrStdout(), manPage.Build(roff.NewDocument()))
		return nil
	},
}
