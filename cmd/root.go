package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/maddsua/consolelog"
	"github.com/spf13/cobra"
)

type CliFlags struct {
	Cfg      string
	Debug    bool
	JsonLogs bool

	Route   string
	Tag     string
	Levels  []string
	NoColor bool
	Disable bool
}

func newRootCmd() *cobra.Command {

	var cli CliFlags

	root := &cobra.Command{
		Use:           "consolelog",
		Short:         "Forward browser console output into the dev server log",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(&cli)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cli.Cfg, "cfg", "", "config file location")
	flags.BoolVar(&cli.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&cli.JsonLogs, "json_logs", false, "log in json format")
	flags.StringVar(&cli.Route, "route", "", "ingestion route")
	flags.StringVar(&cli.Tag, "tag", "", "prefix for browser lines")
	flags.StringSliceVar(&cli.Levels, "levels", nil, "console levels to capture")
	flags.BoolVar(&cli.NoColor, "no-color", false, "disable colored browser lines")
	flags.BoolVar(&cli.Disable, "disable", false, "turn console forwarding off")

	root.AddCommand(
		newServeCmd(&cli),
		newScriptCmd(&cli),
		newBuildCmd(&cli),
	)

	return root
}

func setupLogging(cli *CliFlags) {

	if os.Getenv("LOGFMT") == "json" || cli.JsonLogs {
		cli.JsonLogs = true
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	}

	if os.Getenv("DEBUG") == "true" || cli.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		slog.Debug("Enabled")
	}
}

//	loadConfig merges defaults, the config file and command line flags, in that order
func loadConfig(cli *CliFlags) (*FileConfig, error) {

	if cli.Cfg == "" {
		if loc, has := FindConfig(configLocations); has {
			cli.Cfg = loc
		}
	}

	cfg := DefaultFileConfig()
	cfg.ConsoleLog.Colors = colorsSupported(cli.JsonLogs)

	if cli.Cfg != "" {

		loaded, err := LoadConfigFile(cli.Cfg)
		if err != nil {
			return nil, err
		}

		slog.Info("Config location",
			slog.String("file", cli.Cfg))

		cfg = *loaded
		cfg.ConsoleLog.Colors = cfg.ConsoleLog.Colors && colorsSupported(cli.JsonLogs)
	}

	opts := &cfg.ConsoleLog

	if cli.Route != "" {
		opts.Route = cli.Route
	}

	if cli.Tag != "" {
		opts.Tag = cli.Tag
	}

	if len(cli.Levels) > 0 {
		opts.Levels = nil
		for _, val := range cli.Levels {
			opts.Levels = append(opts.Levels, consolelog.Level(strings.TrimSpace(val)))
		}
	}

	if cli.NoColor {
		opts.Colors = false
	}

	if cli.Disable {
		opts.Enabled = false
	}

	if err := opts.Valid(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
