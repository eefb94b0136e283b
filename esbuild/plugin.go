// Package esbuild exposes the consolelog virtual module to esbuild builds.
package esbuild

import (
	"regexp"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/maddsua/consolelog/provider"
)

const (
	PluginName = "consolelog"
	Namespace  = "console-log"
)

var publicFilter = "^" + regexp.QuoteMeta(provider.PublicID) + "$"

func Plugin(hooks provider.Hooks) api.Plugin {
	return api.Plugin{
		Name: PluginName,
		Setup: func(build api.PluginBuild) {

			ctx := LoadContext(build.InitialOptions)

			build.OnResolve(api.OnResolveOptions{Filter: publicFilter},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {

					internalID, ok := hooks.Resolve(args.Path)
					if !ok {
						return api.OnResolveResult{}, nil
					}

					return api.OnResolveResult{
						Path:       args.Path,
						Namespace:  Namespace,
						PluginData: internalID,
					}, nil
				})

			build.OnLoad(api.OnLoadOptions{Filter: ".*", Namespace: Namespace},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {

					internalID, _ := args.PluginData.(string)
					if internalID == "" {
						internalID = provider.InternalID
					}

					source, ok := hooks.Load(internalID, ctx)
					if !ok {
						return api.OnLoadResult{}, nil
					}

					return api.OnLoadResult{
						Contents: &source,
						Loader:   api.LoaderJS,
					}, nil
				})
		},
	}
}

//	LoadContext reads the build target: node platform means server rendering, a
//	production NODE_ENV define or full minification means a production build
func LoadContext(opts *api.BuildOptions) provider.LoadContext {

	var ctx provider.LoadContext
	if opts == nil {
		return ctx
	}

	ctx.SSR = opts.Platform == api.PlatformNode

	if mode := strings.Trim(opts.Define["process.env.NODE_ENV"], `"'`); mode != "" {
		ctx.Mode = mode
	} else if opts.MinifyWhitespace && opts.MinifySyntax && opts.MinifyIdentifiers {
		ctx.Mode = provider.ModeProduction
	}

	return ctx
}
