package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/csheth/lingonotes/internal/notes"
)

type listedEntry struct {
	ID           string       `json:"id"`
	Original     string       `json:"original"`
	Translation  string       `json:"translation"`
	Status       notes.Status `json:"status"`
	Untranslated bool         `json:"untranslated,omitempty"`
}

func newListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			entries := a.openSession(cmd.Context(), store, nil).Snapshot()

			out := cmd.OutOrStdout()
			if asJSON {
				listed := make([]listedEntry, 0, len(entries))
				for _, e := range entries {
					listed = append(listed, listedEntry{ID: e.ID, Original: e.Original, Translation: e.Translation, Status: e.Status, Untranslated: e.Untranslated})
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(listed)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No notes yet.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tORIGINAL\tTRANSLATION")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", shortID(e.ID), e.Status, snippet(e.Original), snippet(e.DisplayTranslation()))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output in JSON format")
	return cmd
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func snippet(s string) string {
	r := []rune(s)
	if len(r) > 40 {
		return string(r[:37]) + "..."
	}
	return s
}
