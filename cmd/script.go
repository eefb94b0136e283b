package main

import (
	"fmt"

	"github.com/maddsua/consolelog/provider"
	"github.com/spf13/cobra"
)

func newScriptCmd(cli *CliFlags) *cobra.Command {

	var ssr bool
	var mode string

	cmd := &cobra.Command{
		Use:   "script",
		Short: "Print the virtual module the way a build would load it",
		RunE: func(cmd *cobra.Command, args []string) error {

			cfg, err := loadConfig(cli)
			if err != nil {
				return err
			}

			hooks, err := provider.New(cfg.ConsoleLog, nil)
			if err != nil {
				return err
			}

			source, ok := renderModule(hooks, provider.LoadContext{SSR: ssr, Mode: mode})
			if !ok {
				return fmt.Errorf("module '%s' was not resolved", provider.PublicID)
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), source)
			return err
		},
	}

	cmd.Flags().BoolVar(&ssr, "ssr", false, "load for a server rendering pass")
	cmd.Flags().StringVar(&mode, "mode", "development", "build mode")

	return cmd
}

func renderModule(hooks provider.Hooks, ctx provider.LoadContext) (string, bool) {

	internalID, ok := hooks.Resolve(provider.PublicID)
	if !ok {
		return "", false
	}

	return hooks.Load(internalID, ctx)
}
