package schedule

import (
	"fmt"
	"time"
)

// Tone classifies a scheduled status for rendering.
type Tone string

const (
	ToneNeutral     Tone = "neutral"
	ToneLate        Tone = "late"
	ToneOnTime      Tone = "on_time"
	ToneReachedLate Tone = "reached_late"
)

// Hex returns the legacy three-digit color code associated with the tone.
func (t Tone) Hex() string {
	switch t {
	case ToneLate:
		return "D55"
	case ToneOnTime:
		return "3A3"
	case ToneReachedLate:
		return "C33"
	default:
		return "000"
	}
}

// Fixed-length buckets used when describing how late a reached milestone was.
const (
	daySeconds   = 86400
	weekSeconds  = 604800
	monthSeconds = 2592000
)

// Bucket search limits, shared by every branch.
const (
	maxDays   = 7
	maxWeeks  = 4
	maxMonths = 12
)

// ReachedDateLayout is the layout used for the reached date in status text.
const ReachedDateLayout = "Jan 2, 2006"

type Input struct {
	ScheduledDate time.Time
	ReachedDate   time.Time
	Scheduled     bool
	Reached       bool
}

type Status struct {
	Tone Tone
	Text string
}

// Classify maps a milestone's schedule onto a tone and a human-readable
// status line. It never looks at the wall clock; now is the reference point
// and its location decides where day boundaries fall.
func Classify(now time.Time, in Input) Status {
	if !in.Scheduled {
		return Status{Tone: ToneNeutral}
	}
	if !in.Reached {
		if in.ScheduledDate.Before(now) {
			return Status{Tone: ToneLate, Text: "This milestone is " + lateText(now, in.ScheduledDate)}
		}
		return Status{Tone: ToneNeutral, Text: "This milestone is " + upcomingText(now, in.ScheduledDate)}
	}

	reached := "Reached: " + in.ReachedDate.Format(ReachedDateLayout)
	if !in.ReachedDate.After(in.ScheduledDate) {
		return Status{Tone: ToneOnTime, Text: reached}
	}
	return Status{
		Tone: ToneReachedLate,
		Text: reached + ", " + reachedLateText(in.ScheduledDate, in.ReachedDate),
	}
}

// midnight returns local midnight of now's calendar day shifted by the given
// number of months and days. Out-of-range values normalize the way time.Date
// does, e.g. March 31 minus one month is March 3 (or 2).
func midnight(now time.Time, months, days int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m+time.Month(months), d+days, 0, 0, 0, 0, now.Location())
}

func lateText(now, sched time.Time) string {
	for d := 1; d <= maxDays; d++ {
		if sched.After(midnight(now, 0, -d)) {
			if d == 1 {
				return "about a day late"
			}
			return fmt.Sprintf("%d day(s) late", d-1)
		}
	}
	for w := 1; w <= maxWeeks; w++ {
		if sched.After(midnight(now, 0, -7*w)) {
			return fmt.Sprintf("about %d week(s) late", w)
		}
	}
	for m := 1; m <= maxMonths; m++ {
		if sched.After(midnight(now, -m, 0)) {
			return fmt.Sprintf("about %d month(s) late", m)
		}
	}
	return "more than a year late"
}

func upcomingText(now, sched time.Time) string {
	for d := 1; d <= maxDays; d++ {
		if sched.Before(midnight(now, 0, d)) {
			if d == 1 {
				return "due today"
			}
			return fmt.Sprintf("scheduled for %d days from today", d-1)
		}
	}
	for w := 1; w <= maxWeeks; w++ {
		if sched.Before(midnight(now, 0, 7*w)) {
			return fmt.Sprintf("scheduled for %d week(s) from today", w)
		}
	}
	for m := 1; m <= maxMonths; m++ {
		if sched.Before(midnight(now, m, 0)) {
			return fmt.Sprintf("scheduled for %d month(s) from today", m)
		}
	}
	return "scheduled for more than a year from today"
}

// reachedLateText measures lateness in fixed-length buckets from the
// scheduled date. Labels are one less than the bucket index.
func reachedLateText(sched, reached time.Time) string {
	late := reached.Unix() - sched.Unix()
	for k := int64(1); k <= maxDays; k++ {
		if late < daySeconds*k {
			return fmt.Sprintf("%d day(s) late", k-1)
		}
	}
	for k := int64(1); k <= maxWeeks; k++ {
		if late < weekSeconds*k {
			return fmt.Sprintf("about %d week(s) late", k-1)
		}
	}
	for k := int64(1); k <= maxMonths; k++ {
		if late < monthSeconds*k {
			return fmt.Sprintf("about %d month(s) late", k-1)
		}
	}
	return "more than a year late"
}
