package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/csheth/lingonotes/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the translation proxy (POST /api/translate)",
		Long: `Serve exposes the configured provider over HTTP so other LingoNotes
clients can use "--provider proxy --endpoint http://<addr>" without holding
provider credentials themselves.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, err := a.newTranslator(ctx)
			if err != nil {
				return err
			}
			addr := a.cfg.Serve.Addr
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s\n", client.Name(), addr)
			a.logger.Info("starting proxy", zap.String("addr", addr), zap.String("provider", client.Name()))
			handler := server.New(client, a.logger, a.cfg.Translate.Timeout)
			return server.ListenAndServe(ctx, addr, handler, a.logger.Named("http"))
		},
	}
	cmd.Flags().String("addr", "", "listen address (default 127.0.0.1:8787)")
	_ = a.v.BindPFlag("serve.addr", cmd.Flags().Lookup("addr"))
	return cmd
}
