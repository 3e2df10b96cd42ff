// Package esbuild implements the BuildEngine port with the esbuild Go API.
package esbuild

import (
	"context"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/bundl/internal/core/domain"
	"go.trai.ch/bundl/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	resolvePluginName = "registry-path"
	loadPluginName    = "registry-fetch"

	// maxReportedErrors matches the number of errors esbuild lists in a build failure.
	maxReportedErrors = 5
)

// Engine implements ports.BuildEngine.
type Engine struct {
	minify bool
}

// New creates an Engine.
func New(cfg domain.BuildConfig) *Engine {
	return &Engine{minify: cfg.Minify}
}

// Initialize checks that the engine can transform a trivial module.
func (e *Engine) Initialize(_ context.Context) error {
	result := api.Transform("export {}", api.TransformOptions{
		Loader:   api.LoaderJS,
		LogLevel: api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		return zerr.Wrap(formatFailure(result.Errors), domain.ErrEngineInitFailed.Error())
	}
	return nil
}

// Build bundles entryPoint, routing every resolution and load through hooks.
// JSX compiles against react/jsx-runtime, which is fetched like any other registry module.
func (e *Engine) Build(ctx context.Context, entryPoint string, hooks ports.BuildHooks) (string, error) {
	result := api.Build(api.BuildOptions{
		EntryPoints:       []string{entryPoint},
		Bundle:            true,
		Write:             false,
		Outdir:            "/",
		AllowOverwrite:    true,
		Format:            api.FormatESModule,
		Platform:          api.PlatformBrowser,
		JSX:               api.JSXAutomatic,
		MinifyWhitespace:  e.minify,
		MinifyIdentifiers: e.minify,
		MinifySyntax:      e.minify,
		Define:            map[string]string{"process.env.NODE_ENV": `"production"`},
		LogLevel:          api.LogLevelSilent,
		Plugins: []api.Plugin{
			resolvePlugin(hooks),
			loadPlugin(ctx, hooks),
		},
	})

	if len(result.Errors) > 0 {
		return "", formatFailure(result.Errors)
	}
	if len(result.OutputFiles) == 0 {
		return "", zerr.With(domain.ErrNoOutput, "entry_point", entryPoint)
	}
	return string(result.OutputFiles[0].Contents), nil
}

func resolvePlugin(hooks ports.BuildHooks) api.Plugin {
	return api.Plugin{
		Name: resolvePluginName,
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: ".*"}, func(args api.OnResolveArgs) (api.OnResolveResult, error) {
				kind := domain.ImportKindStatement
				if args.Kind == api.ResolveEntryPoint {
					kind = domain.ImportKindEntryPoint
				}

				id := hooks.Resolve(args.Path, domain.ResolutionContext{
					Kind:       kind,
					ResolveDir: args.ResolveDir,
					Importer:   args.Importer,
				})
				return api.OnResolveResult{Path: id.Path, Namespace: string(id.Namespace)}, nil
			})
		},
	}
}

func loadPlugin(ctx context.Context, hooks ports.BuildHooks) api.Plugin {
	return api.Plugin{
		Name: loadPluginName,
		Setup: func(build api.PluginBuild) {
			for _, ns := range []domain.Namespace{domain.NamespaceVirtual, domain.NamespaceRegistry} {
				build.OnLoad(api.OnLoadOptions{Filter: ".*", Namespace: string(ns)}, func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					res, err := hooks.Load(ctx, domain.ResolvedIdentity{
						Namespace: domain.Namespace(args.Namespace),
						Path:      args.Path,
					})
					if err != nil {
						return api.OnLoadResult{}, err
					}

					contents := res.Contents
					return api.OnLoadResult{
						Contents:   &contents,
						Loader:     toLoader(res.Loader),
						ResolveDir: res.ResolveDir,
					}, nil
				})
			}
		},
	}
}

func toLoader(kind domain.LoaderKind) api.Loader {
	switch kind {
	case domain.LoaderTSX:
		return api.LoaderTSX
	case domain.LoaderTS:
		return api.LoaderTS
	case domain.LoaderJS:
		return api.LoaderJS
	case domain.LoaderCSS:
		return api.LoaderCSS
	case domain.LoaderJSON:
		return api.LoaderJSON
	case domain.LoaderText:
		return api.LoaderText
	default:
		return api.LoaderJSX
	}
}

// formatFailure renders errors the way esbuild reports a failed build:
// a summary line followed by one "file:line:column: ERROR: text" line per error.
func formatFailure(msgs []api.Message) error {
	var b strings.Builder
	b.WriteString("Build failed")
	if n := len(msgs); n > 0 {
		suffix := "s"
		if n == 1 {
			suffix = ""
		}
		fmt.Fprintf(&b, " with %d error%s:", n, suffix)
	}

	for i, msg := range msgs {
		if i == maxReportedErrors {
			b.WriteString("\n...")
			break
		}

		pluginText := ""
		if msg.PluginName != "" {
			pluginText = "[plugin: " + msg.PluginName + "] "
		}

		if msg.Location == nil {
			fmt.Fprintf(&b, "\nerror: %s%s", pluginText, msg.Text)
			continue
		}
		loc := msg.Location
		fmt.Fprintf(&b, "\n%s:%d:%d: ERROR: %s%s", loc.File, loc.Line, loc.Column, pluginText, msg.Text)
	}
	return zerr.New(b.String())
}
