package formatter

import "github.com/alexanderramin/bugtrail/internal/domain"

// FormatProjectList renders projects as a table.
func FormatProjectList(projects []*domain.Project, plain bool) string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			Bold(p.Key, plain),
			p.Name,
			p.CreatedAt.Local().Format(DateLayout),
		})
	}
	return RenderTable([]string{"KEY", "NAME", "CREATED"}, rows, plain)
}

// FormatIssueList renders issues as a table. milestoneNames maps milestone
// ids to display names; unknown ids fall back to the id.
func FormatIssueList(issues []*domain.Issue, milestoneNames map[string]string, plain bool) string {
	rows := make([][]string, 0, len(issues))
	for _, i := range issues {
		state := "open"
		if i.IsClosed() {
			state = Dim("closed", plain)
		} else if !plain {
			state = StyleGreen.Render(state)
		}
		milestone := Dim("--", plain)
		if i.MilestoneID != nil {
			milestone = *i.MilestoneID
			if name, ok := milestoneNames[milestone]; ok {
				milestone = name
			}
		}
		rows = append(rows, []string{i.ID, i.Title, state, milestone})
	}
	return RenderTable([]string{"ID", "TITLE", "STATE", "MILESTONE"}, rows, plain)
}
