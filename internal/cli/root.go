package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/bugtrail/internal/domain"
	"github.com/alexanderramin/bugtrail/internal/service"
	"github.com/spf13/cobra"
)

// Server is a long-running process started by the serve command.
type Server interface {
	Run(ctx context.Context) error
}

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects   service.ProjectService
	Issues     service.IssueService
	Milestones service.MilestoneService

	// Actor is the user commands act on behalf of.
	Actor domain.User
	// Plain disables colors and box drawing, e.g. when stdout is not a TTY.
	Plain bool
	// Now defaults to time.Now.
	Now func() time.Time
	// Server is nil when serving is not configured.
	Server Server
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// actorContext returns the command context carrying the acting user.
func (a *App) actorContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return domain.WithActor(ctx, a.Actor)
}

// NewRootCmd creates the top-level "bugtrail" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "bugtrail",
		Short:         "Milestone tracking for issue-driven projects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newIssueCmd(app),
		newMilestoneCmd(app),
		newServeCmd(app),
	)

	return root
}
