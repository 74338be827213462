package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the milestone reconciliation sweep",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Server == nil {
				return fmt.Errorf("serving is not configured")
			}
			ctx, stop := signal.NotifyContext(app.actorContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Server.Run(ctx)
		},
	}
}
