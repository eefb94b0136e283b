package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/maddsua/consolelog/esbuild"
	"github.com/maddsua/consolelog/provider"
	"github.com/spf13/cobra"
)

type BuildFlags struct {
	Entry    string
	Outfile  string
	Mode     string
	Platform string
	Minify   bool
}

func newBuildCmd(cli *CliFlags) *cobra.Command {

	var flags BuildFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Bundle an entry point with esbuild, resolving the console capture module",
		RunE: func(cmd *cobra.Command, args []string) error {

			cfg, err := loadConfig(cli)
			if err != nil {
				return err
			}

			hooks, err := provider.New(cfg.ConsoleLog, nil)
			if err != nil {
				return err
			}

			opts, err := buildOptions(flags, hooks)
			if err != nil {
				return err
			}

			result := api.Build(opts)

			for _, msg := range result.Warnings {
				slog.Warn("BUILD "+msg.Text,
					slog.String("plugin", msg.PluginName))
			}

			for _, msg := range result.Errors {
				slog.Error("BUILD "+msg.Text,
					slog.String("plugin", msg.PluginName))
			}

			if len(result.Errors) > 0 {
				return fmt.Errorf("build failed with %d errors", len(result.Errors))
			}

			slog.Info("BUILD Done",
				slog.String("outfile", flags.Outfile),
				slog.String("mode", flags.Mode),
				slog.String("platform", flags.Platform))

			return nil
		},
	}

	cmd.Flags().StringVar(&flags.Entry, "entry", "", "entry point")
	cmd.Flags().StringVar(&flags.Outfile, "outfile", "dist/bundle.js", "output file")
	cmd.Flags().StringVar(&flags.Mode, "mode", "development", "build mode (development|production)")
	cmd.Flags().StringVar(&flags.Platform, "platform", "browser", "target platform (browser|node)")
	cmd.Flags().BoolVar(&flags.Minify, "minify", false, "minify output")

	return cmd
}

func buildOptions(flags BuildFlags, hooks provider.Hooks) (api.BuildOptions, error) {

	if flags.Entry == "" {
		return api.BuildOptions{}, errors.New("entry point is required")
	}

	var platform api.Platform
	switch flags.Platform {
	case "", "browser":
		platform = api.PlatformBrowser
	case "node":
		platform = api.PlatformNode
	default:
		return api.BuildOptions{}, fmt.Errorf("unsupported platform '%s'", flags.Platform)
	}

	mode, err := json.Marshal(flags.Mode)
	if err != nil {
		return api.BuildOptions{}, err
	}

	return api.BuildOptions{
		EntryPoints:       []string{flags.Entry},
		Outfile:           flags.Outfile,
		Bundle:            true,
		Write:             true,
		Format:            api.FormatESModule,
		Platform:          platform,
		MinifyWhitespace:  flags.Minify,
		MinifySyntax:      flags.Minify,
		MinifyIdentifiers: flags.Minify,
		Define: map[string]string{
			"process.env.NODE_ENV": string(mode),
		},
		Plugins: []api.Plugin{esbuild.Plugin(hooks)},
	}, nil
}
