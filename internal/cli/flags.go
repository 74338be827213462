package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

const dateFlagLayout = "2006-01-02"

// dateValue is a pflag.Value for YYYY-MM-DD dates. "none" clears the date
// and is recorded as the zero time.
type dateValue struct {
	t   *time.Time
	loc *time.Location
}

var _ pflag.Value = (*dateValue)(nil)

func newDateValue(t *time.Time) *dateValue {
	return &dateValue{t: t, loc: time.Local}
}

func (d *dateValue) String() string {
	if d.t == nil || d.t.IsZero() {
		return ""
	}
	return d.t.Format(dateFlagLayout)
}

func (d *dateValue) Set(s string) error {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "none") {
		*d.t = time.Time{}
		return nil
	}
	parsed, err := time.ParseInLocation(dateFlagLayout, s, d.loc)
	if err != nil {
		return fmt.Errorf("invalid date %q (want YYYY-MM-DD or none)", s)
	}
	*d.t = parsed
	return nil
}

func (d *dateValue) Type() string {
	return "date"
}

// dateVarP registers a date flag on fs.
func dateVarP(fs *pflag.FlagSet, p *time.Time, name, shorthand, usage string) {
	fs.VarP(newDateValue(p), name, shorthand, usage)
}
