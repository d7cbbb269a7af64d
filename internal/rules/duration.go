package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// agePattern accepts the rule file's relative date values: "30 days",
// "6 months", "2 years".
var agePattern = regexp.MustCompile(`^(\d+)\s+(days|months|years)$`)

// AgeUnit is the calendar unit of an Age.
type AgeUnit string

const (
	Days   AgeUnit = "days"
	Months AgeUnit = "months"
	Years  AgeUnit = "years"
)

// Age is a relative duration counted backwards from a reference time.
type Age struct {
	Count int
	Unit  AgeUnit
}

// ParseAge parses a relative date value from the rule file. The count must
// be a positive integer.
func ParseAge(s string) (Age, error) {
	m := agePattern.FindStringSubmatch(s)
	if m == nil {
		return Age{}, fmt.Errorf(`%w: date value %q must look like "30 days", "6 months" or "2 years"`, ErrConfig, s)
	}
	count, err := strconv.Atoi(m[1])
	if err != nil {
		return Age{}, fmt.Errorf("%w: date value %q: %w", ErrConfig, s, err)
	}
	if count <= 0 {
		return Age{}, fmt.Errorf("%w: date value %q must count at least one %s", ErrConfig, s, m[2])
	}
	return Age{Count: count, Unit: AgeUnit(m[2])}, nil
}

// Before returns the instant this age ago, using calendar arithmetic so
// month and year offsets land on the matching date rather than a fixed
// number of hours.
func (a Age) Before(now time.Time) time.Time {
	switch a.Unit {
	case Months:
		return now.AddDate(0, -a.Count, 0)
	case Years:
		return now.AddDate(-a.Count, 0, 0)
	default:
		return now.AddDate(0, 0, -a.Count)
	}
}

func (a Age) String() string {
	return fmt.Sprintf("%d %s", a.Count, a.Unit)
}
