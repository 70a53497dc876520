package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sirdesai22/registration-dashboard/internal/cache"
	"github.com/sirdesai22/registration-dashboard/internal/client"
	"github.com/sirdesai22/registration-dashboard/internal/config"
	"github.com/sirdesai22/registration-dashboard/internal/dashboard"
	"github.com/sirdesai22/registration-dashboard/internal/export"
	"github.com/sirdesai22/registration-dashboard/internal/logger"
)

// app is the state shared by every command once the root pre-run has
// resolved configuration.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg  *config.CLI
	log  *slog.Logger
	dash *dashboard.Dashboard
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "regdash",
		Short:         "Browse, edit and export event registrations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default ~/.config/regdash/config.yaml)")
	flags.String("server", "", "registration API base URL")
	flags.String("cache-file", "", "where the last fetched list is kept")
	flags.Duration("timeout", 0, "per-command network timeout")
	flags.String("log-level", "", "debug, info, warn or error")
	_ = a.v.BindPFlag("server", flags.Lookup("server"))
	_ = a.v.BindPFlag("cache_file", flags.Lookup("cache-file"))
	_ = a.v.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))

	root.AddGroup(
		&cobra.Group{ID: "records", Title: "Registrations:"},
		&cobra.Group{ID: "insights", Title: "Insights:"},
	)
	root.AddCommand(
		newListCmd(a),
		newShowCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newAnalyticsCmd(a),
		newChartCmd(a),
		newExportCmd(a),
		newOptionsCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.LoadCLI(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.New(cfg.LogLevel, "text", cmd.ErrOrStderr())
	fontOpt, err := export.WithPDFFontFile(cfg.PDFFont)
	if err != nil {
		return err
	}
	a.dash = dashboard.New(
		client.NewHTTPClient(cfg.Server, cfg.Timeout),
		cache.New(cfg.CacheFile, a.log),
		dashboard.WithLogger(a.log),
		dashboard.WithExporter(export.NewExporter(export.WithLogger(a.log), fontOpt)),
	)
	return nil
}

func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.cfg.Timeout)
}

// load paints from the cache and refreshes. A failed refresh is reported but
// not fatal as long as a cached copy exists.
func (a *app) load(cmd *cobra.Command) error {
	ctx, cancel := a.context(cmd)
	defer cancel()
	if err := a.dash.Open(ctx); err != nil {
		if len(a.dash.Records()) == 0 {
			return err
		}
		a.warnNotice(cmd)
	}
	return nil
}

func (a *app) warnNotice(cmd *cobra.Command) {
	if n, ok := a.dash.Notice(); ok {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s (showing cached data)\n", n.Kind, n.Message)
		a.dash.DismissNotice()
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
