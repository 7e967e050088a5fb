package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/csheth/lingonotes/internal/session"
)

const addConcurrency = 4

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <phrase>...",
		Short: "Translate phrases and append them to the history",
		Long: `Add submits every argument as a separate note, translates them
concurrently and prints the results in submission order.`,
		Example: `  lingonotes add "Guten Morgen" "Danke schön" --source German --target English`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := a.newTranslator(ctx)
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			ctrl := a.openSession(ctx, store, client)

			editor := a.cfg.EditorSettings()
			var reqs []session.Request
			for _, arg := range args {
				if req, ok := ctrl.Submit(arg, editor.SourceLang, editor.TargetLang); ok {
					reqs = append(reqs, req)
				}
			}

			outcomes := make(chan session.Outcome, len(reqs))
			var g errgroup.Group
			g.SetLimit(addConcurrency)
			for _, req := range reqs {
				g.Go(func() error {
					outcomes <- ctrl.Translate(ctx, req)
					return nil
				})
			}
			_ = g.Wait()
			close(outcomes)

			failed := 0
			for out := range outcomes {
				ctrl.Reconcile(out)
				if out.Err != nil {
					failed++
				}
			}

			w := cmd.OutOrStdout()
			for _, req := range reqs {
				entry, ok := ctrl.Get(req.ID)
				if !ok {
					continue
				}
				fmt.Fprintf(w, "%s -> %s\n", entry.Original, entry.DisplayTranslation())
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d translation(s) failed; see the log for details", failed, len(reqs))
			}
			return nil
		},
	}
}
