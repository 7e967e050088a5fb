package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/csheth/lingonotes/internal/translator"
)

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the languages offered in the language pickers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCODE")
			for _, lang := range translator.Languages() {
				fmt.Fprintf(w, "%s\t%s\n", lang.Name, lang.Code)
			}
			return w.Flush()
		},
	}
}
