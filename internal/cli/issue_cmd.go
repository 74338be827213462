package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/bugtrail/internal/cli/formatter"
	"github.com/alexanderramin/bugtrail/internal/domain"
	"github.com/spf13/cobra"
)

func newIssueCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Manage issues",
	}

	cmd.AddCommand(
		newIssueAddCmd(app),
		newIssueStateCmd(app, "close", "Close an issue", domain.IssueClosed),
		newIssueStateCmd(app, "reopen", "Reopen a closed issue", domain.IssueOpen),
		newIssueListCmd(app),
	)

	return cmd
}

func newIssueAddCmd(app *App) *cobra.Command {
	var projectRef, title, milestoneID string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new issue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.actorContext(cmd)
			p, err := app.Projects.Resolve(ctx, projectRef)
			if err != nil {
				return err
			}

			issue := &domain.Issue{ProjectID: p.ID, Title: title}
			if milestoneID != "" {
				m, err := app.Milestones.Load(ctx, milestoneID)
				if err != nil {
					return err
				}
				if m.ProjectID() != p.ID {
					return fmt.Errorf("milestone %s belongs to another project", milestoneID)
				}
				id := m.ID()
				issue.MilestoneID = &id
			}
			if err := app.Issues.Create(ctx, issue); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created issue %s (%s)\n", issue.Title, issue.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectRef, "project", "p", "", "Project key or ID")
	cmd.Flags().StringVar(&title, "title", "", "Issue title")
	cmd.Flags().StringVarP(&milestoneID, "milestone", "m", "", "Milestone ID to attach the issue to")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

// newIssueStateCmd builds close/reopen. Closing the last open issue of a
// milestone marks the milestone reached.
func newIssueStateCmd(app *App, use, short string, state domain.IssueState) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ISSUE_ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.actorContext(cmd)
			var (
				issue *domain.Issue
				err   error
			)
			if state == domain.IssueClosed {
				issue, err = app.Issues.Close(ctx, args[0])
			} else {
				issue, err = app.Issues.Reopen(ctx, args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Issue %s is now %s\n", issue.Title, issue.State)

			if issue.IsClosed() && issue.MilestoneID != nil {
				return refreshMilestone(ctx, cmd, app, *issue.MilestoneID)
			}
			return nil
		},
	}
}

// refreshMilestone re-checks the closed issue's milestone. Milestones that are
// already reached or that the actor cannot access are left to the sweep.
func refreshMilestone(ctx context.Context, cmd *cobra.Command, app *App, id string) error {
	m, err := loadAccessible(ctx, app, id)
	if errors.Is(err, domain.ErrAccessDenied) {
		return nil
	}
	if err != nil {
		return err
	}
	if m.Reached() {
		return nil
	}
	reached, err := app.Milestones.UpdateStatus(ctx, m)
	if err != nil {
		return err
	}
	if reached {
		fmt.Fprintf(cmd.OutOrStdout(), "Milestone %s reached: all issues closed\n", m.Name())
	}
	return nil
}

func newIssueListCmd(app *App) *cobra.Command {
	var projectRef, milestoneID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List issues of a project or milestone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := app.actorContext(cmd)
			if projectRef == "" && milestoneID == "" {
				return fmt.Errorf("one of --project or --milestone is required")
			}

			var (
				issues []*domain.Issue
				err    error
			)
			if milestoneID != "" {
				issues, err = app.Issues.ListByMilestone(ctx, milestoneID)
			} else {
				var p *domain.Project
				if p, err = app.Projects.Resolve(ctx, projectRef); err != nil {
					return err
				}
				issues, err = app.Issues.ListByProject(ctx, p.ID)
			}
			if err != nil {
				return err
			}
			if len(issues) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No issues found.")
				return nil
			}

			names := make(map[string]string)
			for _, i := range issues {
				if i.MilestoneID == nil {
					continue
				}
				if _, seen := names[*i.MilestoneID]; seen {
					continue
				}
				if m, err := app.Milestones.Load(ctx, *i.MilestoneID); err == nil {
					names[m.ID()] = m.Name()
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatIssueList(issues, names, app.Plain))
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectRef, "project", "p", "", "Project key or ID")
	cmd.Flags().StringVarP(&milestoneID, "milestone", "m", "", "Milestone ID")

	return cmd
}
