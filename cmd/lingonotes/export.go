package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/csheth/lingonotes/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export notes as a text, Word or PDF document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			ctrl := a.openSession(cmd.Context(), store, nil)

			editor := a.cfg.EditorSettings()
			artifact, err := export.Render(f, export.Document{
				Entries:    ctrl.Snapshot(),
				SourceLang: editor.SourceLang,
				TargetLang: editor.TargetLang,
				ExportedAt: time.Now(),
				Editor:     editor,
			})
			if err != nil {
				return err
			}
			path, err := export.Write(a.cfg.Export.Dir, artifact)
			if err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatText), "export format: txt, doc or pdf")
	cmd.Flags().String("dir", "", "output directory")
	_ = a.v.BindPFlag("export.dir", cmd.Flags().Lookup("dir"))
	return cmd
}
