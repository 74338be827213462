package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/bugtrail/internal/domain"
	"github.com/alexanderramin/bugtrail/internal/schedule"
	"github.com/alexanderramin/bugtrail/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestRenderProgress_Plain(t *testing.T) {
	tests := []struct {
		name  string
		pct   float64
		width int
		want  string
	}{
		{"empty", 0, 4, "[----]   0%"},
		{"half", 50, 4, "[##--]  50%"},
		{"full", 100, 4, "[####] 100%"},
		{"clamps high", 150, 4, "[####] 100%"},
		{"clamps low", -3, 4, "[----]   0%"},
		{"tiny width", 50, 1, "[#-]  50%"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RenderProgress(tc.pct, tc.width, true))
		})
	}
}

func TestRenderProgress_Styled(t *testing.T) {
	got := RenderProgress(25, 4, false)
	assert.Contains(t, got, filledBlock)
	assert.Contains(t, got, emptyBlock)
	assert.Contains(t, got, "25%")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"A", "LONGER"}, [][]string{{"xyz", "1"}, {"q"}}, true)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, []string{
		"A    LONGER",
		"---  ------",
		"xyz  1",
		"q    ",
	}, lines)
	assert.Empty(t, RenderTable(nil, nil, true))
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "--", StatusText(schedule.Status{Tone: schedule.ToneNeutral}, true))
	assert.Equal(t, "This milestone is due today",
		StatusText(schedule.Status{Tone: schedule.ToneNeutral, Text: "This milestone is due today"}, true))
	assert.Equal(t, "[late] This milestone is about a day late",
		StatusText(schedule.Status{Tone: schedule.ToneLate, Text: "This milestone is about a day late"}, true))
	assert.Contains(t, StatusText(schedule.Status{Tone: schedule.ToneOnTime, Text: "Reached: Mar 1, 2026"}, false), "Reached: Mar 1, 2026")
}

func TestToneStyle(t *testing.T) {
	assert.Equal(t, StyleFg, ToneStyle(schedule.ToneNeutral))
	assert.NotEqual(t, StyleFg, ToneStyle(schedule.ToneLate))
}

func TestFormatMilestoneList_Plain(t *testing.T) {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	out := FormatMilestoneList([]service.MilestoneSummary{
		{ID: "m1", Name: "Beta", Visible: true, ScheduledDate: &due, IssueCount: 4, ClosedIssues: 1, Percent: 25,
			Tone: schedule.ToneNeutral, StatusText: "This milestone is scheduled for 2 week(s) from today"},
		{ID: "m2", Name: "Someday", Visible: false},
	}, true)

	assert.Contains(t, out, "Apr 1, 2026")
	assert.Contains(t, out, "1/4")
	assert.Contains(t, out, "Someday (hidden)")
	assert.Contains(t, out, "scheduled for 2 week(s) from today")
}

func TestFormatMilestoneDetail_Plain(t *testing.T) {
	out := FormatMilestoneDetail(service.MilestoneSummary{
		ID: "m1", ProjectID: "p1", Name: "Beta", Overdue: true,
		Tone: schedule.ToneLate, StatusText: "This milestone is 3 day(s) late",
	}, true)

	assert.Contains(t, out, "BETA")
	assert.Contains(t, out, "(unresolved) p1")
	assert.Contains(t, out, "Overdue      yes")
	assert.Contains(t, out, "[late] This milestone is 3 day(s) late")
}

func TestFormatIssueList_Plain(t *testing.T) {
	ms := "m1"
	out := FormatIssueList([]*domain.Issue{
		{ID: "i1", Title: "Crash", State: domain.IssueOpen, MilestoneID: &ms},
		{ID: "i2", Title: "Typo", State: domain.IssueClosed},
	}, map[string]string{"m1": "Beta"}, true)

	assert.Contains(t, out, "Beta")
	assert.Contains(t, out, "closed")
	assert.Contains(t, out, "--")
}
