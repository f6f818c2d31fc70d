// cmd/stitch/main.go
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"stitch/internal/builder"
	"stitch/internal/config"
	"stitch/internal/scaffold"
	"stitch/internal/server"
)

type appConfig struct {
	configFile string
	debug      bool
	base       string
	out        string
	unsafe     bool
	drafts     bool
	noClean    bool
	port       int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Operation failed: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	app := &appConfig{}
	root := &cobra.Command{
		Use:   "stitch",
		Short: "stitch - a static site builder for component-based HTML pages",
		Long: `stitch wraps pages in a shared layout, expands data-include components
(with variants and {{placeholder}} values) and writes a deployable site.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if app.debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().StringVarP(&app.configFile, "config", "c", "site.yaml", "Path to the site config file.")
	root.PersistentFlags().BoolVar(&app.debug, "debug", false, "Enable debug logging.")

	root.AddCommand(newBuildCmd(app), newServeCmd(app), newNewCmd(app))
	return root
}

func addBuildFlags(cmd *cobra.Command, app *appConfig) {
	cmd.Flags().StringVar(&app.base, "base", "", "Deployment base path (overrides site.yaml and STITCH_BASE_PATH).")
	cmd.Flags().StringVarP(&app.out, "out", "o", "", "Output directory (overrides site.yaml and STITCH_OUT_DIR).")
	cmd.Flags().BoolVar(&app.unsafe, "unsafe", false, "Disable sanitization of HTML rendered from markdown pages.")
	cmd.Flags().BoolVar(&app.drafts, "drafts", false, "Publish markdown pages marked as drafts.")
}

func newBuildCmd(app *appConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the site into the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := app.siteConfig()
			if err != nil {
				return err
			}
			opts := app.buildOptions()
			opts.CleanDestination = !app.noClean
			return runBuild(site, opts)
		},
	}
	addBuildFlags(cmd, app)
	cmd.Flags().BoolVar(&app.noClean, "no-clean", false, "Keep existing files in the output directory.")
	return cmd
}

func newServeCmd(app *appConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local dev server with auto-rebuild and live reload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := app.siteConfig()
			if err != nil {
				return err
			}
			outDir, err := config.ResolveOutDir(site.OutDir)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Each rebuild reloads the config so edits to site.yaml apply.
			buildFunc := func(opts builder.BuildOptions) error {
				site, err := app.siteConfig()
				if err != nil {
					return err
				}
				return runBuild(site, opts)
			}
			envFile := filepath.Join(filepath.Dir(app.configFile), ".env")
			return server.Run(ctx, server.Config{
				Port:   app.port,
				OutDir: outDir,
				Watch:  []string{site.SrcDir, app.configFile, envFile},
				Logger: slog.Default(),
			}, buildFunc, app.buildOptions())
		},
	}
	addBuildFlags(cmd, app)
	cmd.Flags().IntVarP(&app.port, "port", "p", 1313, "Port for the local development server.")
	return cmd
}

func newNewCmd(app *appConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new site or page",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "site <dir>",
		Short: "Create a new site scaffold",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return scaffold.CreateNewSite(args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "page <title>",
		Short: "Create a new layout-wrapped page from the archetype",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := app.siteConfig()
			if err != nil {
				return err
			}
			_, err = scaffold.CreateNewPage(filepath.Dir(app.configFile), site.SrcDir, args[0])
			return err
		},
	})
	return cmd
}

// siteConfig loads site.yaml and .env, then applies command-line overrides.
func (app *appConfig) siteConfig() (config.SiteConfig, error) {
	site, err := config.LoadSiteConfig(app.configFile)
	if err != nil {
		return config.SiteConfig{}, fmt.Errorf("failed to load site config: %w", err)
	}
	if app.base != "" {
		site.BasePath = config.NormalizeBasePath(app.base)
	}
	if app.out != "" {
		site.OutDir = app.out
	}
	return site, nil
}

func (app *appConfig) buildOptions() builder.BuildOptions {
	return builder.BuildOptions{
		Unsafe: app.unsafe,
		Drafts: app.drafts,
		Logger: slog.Default(),
	}
}

func runBuild(site config.SiteConfig, opts builder.BuildOptions) error {
	fmt.Println("--- Building site ---")
	report, err := builder.BuildSite(site, opts)
	if err != nil {
		return fmt.Errorf("site generation failed: %w", err)
	}
	fmt.Printf("📄 Site: %d pages generated, %d static files copied.\n", report.Pages, report.Assets)
	if report.Drafts > 0 {
		fmt.Printf("📝 %d draft pages skipped.\n", report.Drafts)
	}
	if report.Skipped > 0 {
		fmt.Printf("🚫 %d pages skipped (not valid UTF-8).\n", report.Skipped)
	}
	if report.Warnings > 0 {
		fmt.Printf("⚠️  Build finished with %d warnings.\n", report.Warnings)
	} else {
		fmt.Println("✅ Build successful.")
	}
	return nil
}
