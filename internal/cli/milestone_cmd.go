package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/bugtrail/internal/cli/formatter"
	"github.com/alexanderramin/bugtrail/internal/domain"
	"github.com/alexanderramin/bugtrail/internal/service"
	"github.com/spf13/cobra"
)

func newMilestoneCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "milestone",
		Aliases: []string{"ms"},
		Short:   "Manage project milestones",
	}

	cmd.AddCommand(
		newMilestoneAddCmd(app),
		newMilestoneListCmd(app),
		newMilestoneShowCmd(app),
		newMilestoneUpdateCmd(app),
		newMilestoneRemoveCmd(app),
		newMilestoneRefreshCmd(app),
		newMilestoneAccessCmd(app),
	)

	return cmd
}

// loadAccessible loads a milestone and fails with ErrAccessDenied when the
// acting user may not see it.
func loadAccessible(ctx context.Context, app *App, id string) (*domain.Milestone, error) {
	m, err := app.Milestones.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := app.Milestones.HasAccess(ctx, m)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("milestone %s: %w", id, domain.ErrAccessDenied)
	}
	return m, nil
}

func newMilestoneAddCmd(app *App) *cobra.Command {
	var projectRef, name, description string
	var due time.Time

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a milestone in a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.actorContext(cmd)
			p, err := app.Projects.Resolve(ctx, projectRef)
			if err != nil {
				return err
			}

			m, err := app.Milestones.Create(ctx, name, p.ID,
				service.WithDescription(description),
				service.WithScheduledDate(due),
			)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created milestone %s (%s) in %s\n", m.Name(), m.ID(), p.Key)
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectRef, "project", "p", "", "Project key or ID")
	cmd.Flags().StringVar(&name, "name", "", "Milestone name")
	cmd.Flags().StringVar(&description, "description", "", "Milestone description")
	dateVarP(cmd.Flags(), &due, "due", "d", "Scheduled date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newMilestoneListCmd(app *App) *cobra.Command {
	var projectRef string
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the milestones of a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.actorContext(cmd)
			p, err := app.Projects.Resolve(ctx, projectRef)
			if err != nil {
				return err
			}
			milestones, err := app.Milestones.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}

			now := app.now()
			var summaries []service.MilestoneSummary
			for _, m := range milestones {
				if !all && !m.Visible() {
					continue
				}
				ok, err := app.Milestones.HasAccess(ctx, m)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				s, err := service.Summarize(ctx, m, now)
				if err != nil {
					return err
				}
				summaries = append(summaries, s)
			}

			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No milestones found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMilestoneList(summaries, app.Plain))
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectRef, "project", "p", "", "Project key or ID")
	cmd.Flags().BoolVar(&all, "all", false, "Include hidden milestones")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newMilestoneShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show MILESTONE_ID",
		Short: "Show milestone details and schedule status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.actorContext(cmd)
			m, err := loadAccessible(ctx, app, args[0])
			if err != nil {
				return err
			}
			s, err := service.Summarize(ctx, m, app.now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatMilestoneDetail(s, app.Plain))
			return nil
		},
	}
}

func newMilestoneUpdateCmd(app *App) *cobra.Command {
	var name, description string
	var due time.Time

	cmd := &cobra.Command{
		Use:   "update MILESTONE_ID",
		Short: "Rename, describe or reschedule a milestone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.actorContext(cmd)
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("description") && !flags.Changed("due") {
				return fmt.Errorf("nothing to update (use --name, --description or --due)")
			}

			m, err := loadAccessible(ctx, app, args[0])
			if err != nil {
				return err
			}
			if flags.Changed("name") {
				m.SetName(name)
			}
			if flags.Changed("description") {
				m.SetDescription(description)
			}
			if flags.Changed("due") {
				m.SetScheduledDate(due)
				m.SetScheduled(!due.IsZero())
			}
			if err := app.Milestones.Save(ctx, m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated milestone %s\n", m.Name())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	dateVarP(cmd.Flags(), &due, "due", "d", "New scheduled date (YYYY-MM-DD, or none to unschedule)")

	return cmd
}

func newMilestoneRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove MILESTONE_ID",
		Aliases: []string{"rm"},
		Short:   "Delete a milestone and detach its issues",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.actorContext(cmd)
			m, err := loadAccessible(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Milestones.Delete(ctx, m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed milestone %s\n", m.Name())
			return nil
		},
	}
}

func newMilestoneRefreshCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh [MILESTONE_ID]",
		Short: "Mark milestones reached when all their issues are closed",
		Long: "With an ID, re-checks that milestone. Without one, re-checks every " +
			"milestone that has not been reached yet.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.actorContext(cmd)
			if len(args) == 1 {
				m, err := loadAccessible(ctx, app, args[0])
				if err != nil {
					return err
				}
				if m.Reached() {
					fmt.Fprintf(cmd.OutOrStdout(), "Milestone %s was already reached on %s\n",
						m.Name(), m.ReachedDate().Format(formatter.DateLayout))
					return nil
				}
				reached, err := app.Milestones.UpdateStatus(ctx, m)
				if err != nil {
					return err
				}
				if reached {
					fmt.Fprintf(cmd.OutOrStdout(), "Milestone %s reached\n", m.Name())
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Milestone %s still has open issues\n", m.Name())
				}
				return nil
			}

			marked, err := app.Milestones.RefreshUnreached(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d milestone(s) marked reached\n", marked)
			return nil
		},
	}
}

func newMilestoneAccessCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "access MILESTONE_ID",
		Short: "Check whether the current user can access a milestone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.actorContext(cmd)
			m, err := app.Milestones.Load(ctx, args[0])
			if err != nil {
				return err
			}
			ok, err := app.Milestones.HasAccess(ctx, m)
			if err != nil {
				return err
			}
			verdict := "denied"
			if ok {
				verdict = "granted"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Access to %s for %s (group %s): %s\n",
				m.Name(), app.Actor.ID, app.Actor.GroupID, verdict)
			return nil
		},
	}
}
