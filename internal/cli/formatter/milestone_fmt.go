package formatter

import (
	"fmt"

	"github.com/alexanderramin/bugtrail/internal/schedule"
	"github.com/alexanderramin/bugtrail/internal/service"
)

const listBarWidth = 10

// FormatMilestoneList renders milestones as a table.
func FormatMilestoneList(items []service.MilestoneSummary, plain bool) string {
	rows := make([][]string, 0, len(items))
	for _, s := range items {
		name := s.Name
		if !s.Visible {
			name += Dim(" (hidden)", plain)
		}
		rows = append(rows, []string{
			s.ID,
			name,
			DateOrDash(s.ScheduledDate),
			fmt.Sprintf("%d/%d", s.ClosedIssues, s.IssueCount),
			RenderProgress(s.Percent, listBarWidth, plain),
			StatusText(schedule.Status{Tone: s.Tone, Text: s.StatusText}, plain),
		})
	}
	return RenderTable([]string{"ID", "NAME", "DUE", "ISSUES", "PROGRESS", "STATUS"}, rows, plain)
}

// FormatMilestoneDetail renders a single milestone in a box.
func FormatMilestoneDetail(s service.MilestoneSummary, plain bool) string {
	project := s.ProjectKey
	if project == "" {
		project = Dim("(unresolved) "+s.ProjectID, plain)
	}
	desc := s.Description
	if desc == "" {
		desc = Dim("--", plain)
	}
	overdue := "no"
	if s.Overdue {
		overdue = "yes"
		if !plain {
			overdue = StyleRed.Render(overdue)
		}
	}

	body := KeyValue([][2]string{
		{"ID", s.ID},
		{"Project", project},
		{"Description", desc},
		{"Scheduled", DateOrDash(s.ScheduledDate)},
		{"Reached", DateOrDash(s.ReachedDate)},
		{"Issues", fmt.Sprintf("%d closed of %d", s.ClosedIssues, s.IssueCount)},
		{"Progress", RenderProgress(s.Percent, 20, plain)},
		{"Overdue", overdue},
		{"Status", StatusText(schedule.Status{Tone: s.Tone, Text: s.StatusText}, plain)},
	}, plain)
	return RenderBox(s.Name, body, plain)
}
