// Package main provides the entry point for the kokoro CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/kokoro-tts/internal/app"
	"github.com/dgnsrekt/kokoro-tts/internal/cli"
	"github.com/dgnsrekt/kokoro-tts/tts"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile  string
	environment envConfig

	rootCmd = &cobra.Command{
		Use:   "kokoro [OPTIONS] <text>",
		Short: "Speak text in the terminal with Kokoro voices",
		Long: paragraph(
			fmt.Sprintf("\nTurn text into speech with %s, save it as WAV and play it.", keyword("Kokoro voices")),
		),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printHelp(cmd.OutOrStdout())
			return cli.ErrNoArguments
		},
	}

	// speakCmd receives every invocation that doesn't name a subcommand.
	// Its arguments are parsed by internal/cli, not by cobra.
	speakCmd = &cobra.Command{
		Use:                "speak [OPTIONS] <text>",
		Short:              "Speak text",
		Hidden:             true,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		Args:               cobra.ArbitraryArgs,
		RunE:               speak,
	}
)

func speak(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	opts, err := cli.Parse(args)
	if opts.Help {
		printHelp(out)
		return err
	}
	if err != nil {
		return err
	}
	if opts.Debug {
		log.SetLevel(log.DebugLevel)
	}
	if opts.Version {
		fmt.Fprintln(out, versionString())
		return nil
	}
	if opts.ConfigFile != "" {
		if err := useConfigFile(opts.ConfigFile); err != nil {
			return err
		}
	}

	cfg, err := tts.LoadConfigFromViper()
	if err != nil {
		return err
	}
	cfg.Kokoro.APIKey = environment.APIKey
	cfg = app.Configure(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	a, err := app.New(cfg, out)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("Could not close audio cache", "err", err)
		}
	}()
	_, err = a.Run(cmd.Context(), opts)
	return err
}

// useConfigFile reads path in place of the config file found in the
// default places.
func useConfigFile(path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("failed to expand config path: %w", err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: could not read %s: %w", tts.ErrInvalidConfig, path, err)
	}
	configFile = path
	log.Debug("Using configuration file", "path", path)
	return nil
}

// routeArgs sends anything that doesn't start with a subcommand name to
// the speak command, so text like "config" after a flag is never taken
// for a subcommand.
func routeArgs(args []string) []string {
	if len(args) == 0 || isSubcommand(args[0]) {
		return args
	}
	return append([]string{speakCmd.Name()}, args...)
}

func isSubcommand(name string) bool {
	if name == "help" {
		return true
	}
	for _, c := range rootCmd.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}

func versionString() string {
	v := "kokoro version " + Version
	if len(CommitSHA) >= 7 {
		v += " (" + CommitSHA[0:7] + ")"
	}
	return v
}

func main() {
	closer, err := setupLog(environment)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	rootCmd.SetArgs(routeArgs(os.Args[1:]))
	err = rootCmd.ExecuteContext(ctx)
	stop()
	_ = closer()

	if err != nil {
		if !errors.Is(err, cli.ErrNoArguments) {
			app.ReportError(os.Stdout, err)
		}
		os.Exit(app.ExitCode(err))
	}
}

func init() {
	cfg, err := env.ParseAs[envConfig]()
	if err != nil {
		fmt.Println("Could not read environment:", err)
		os.Exit(1)
	}
	environment = cfg

	tts.SetDefaults()
	tryLoadConfigFromDefaultPlaces()

	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	configCmd.Flags().StringVar(&configFile, "config", configFile, "config file")

	// Root and speak share the hand-written help; subcommands keep cobra's.
	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd == rootCmd || cmd == speakCmd {
			printHelp(cmd.OutOrStdout())
			return
		}
		defaultHelp(cmd, args)
	})

	rootCmd.AddCommand(speakCmd, configCmd, voicesCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "kokoro")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "kokoro")}, dirs...)
	}

	if c := environment.ConfigHome; c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("kokoro")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("kokoro")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", used)
		configFile = used
		return
	}

	// Created on demand by "kokoro config".
	configFile = filepath.Join(dirs[0], "kokoro.yml")
}
