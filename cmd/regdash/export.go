package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sirdesai22/registration-dashboard/internal/dashboard"
	"github.com/sirdesai22/registration-dashboard/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		vf     viewFlags
		outDir string
		inView bool
	)
	cmd := &cobra.Command{
		Use:       "export <xlsx|pdf|docx>",
		Short:     "Write the registrations to a spreadsheet, PDF or Word file",
		GroupID:   "records",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"xlsx", "pdf", "docx"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(args[0])
			if err != nil {
				return err
			}
			scope := dashboard.ScopeAll
			if inView {
				st, err := vf.state()
				if err != nil {
					return err
				}
				a.dash.SetState(st)
				scope = dashboard.ScopeView
			}
			if outDir == "" {
				outDir = a.cfg.OutDir
			}
			if err := a.load(cmd); err != nil {
				return err
			}

			ctx, cancel := a.context(cmd)
			defer cancel()
			path, art, err := writeArtifact(ctx, a.dash, format, scope, outDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d registrations to %s\n", art.Rows, path)
			return nil
		},
	}
	vf.register(cmd)
	cmd.Flags().BoolVar(&inView, "view", false, "export only rows matching the search and filter flags")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from config)")
	return cmd
}

// writeArtifact encodes into a temp file beside the destination and renames
// it into place, so a failed export never leaves a partial file.
func writeArtifact(ctx context.Context, d *dashboard.Dashboard, f export.Format, scope dashboard.Scope, dir string) (string, export.Artifact, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", export.Artifact{}, fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".regdash-*."+string(f))
	if err != nil {
		return "", export.Artifact{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	art, err := d.Export(ctx, f, scope, tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close temp file: %w", cerr)
	}
	if err != nil {
		return "", export.Artifact{}, err
	}

	path := filepath.Join(dir, art.FileName)
	if err := os.Rename(tmpPath, path); err != nil {
		return "", export.Artifact{}, fmt.Errorf("move export into place: %w", err)
	}
	return path, art, nil
}
