package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format used on the API and in exports.
const DateLayout = "2006-01-02"

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: must be YYYY-MM-DD", s)
	}
	return t, nil
}

// Period is an inclusive range of calendar dates.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewPeriod builds a period from two dates, truncating both to calendar dates.
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: DateOf(start), End: DateOf(end)}
	if p.End.Before(p.Start) {
		return Period{}, fmt.Errorf("%w: end %s is before start %s", ErrInvalidPeriod,
			p.End.Format(DateLayout), p.Start.Format(DateLayout))
	}
	return p, nil
}

// MonthPeriod returns the calendar month containing the given year and month.
func MonthPeriod(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, -1)}
}

// QuarterPeriod returns calendar quarter q (1-4) of year.
func QuarterPeriod(year, q int) Period {
	start := time.Date(year, time.Month((q-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 3, -1)}
}

// ParsePeriod accepts "2024-01" (month), "2024-Q1" (quarter) or "2024-01-01..2024-01-31".
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	if from, to, ok := strings.Cut(s, ".."); ok {
		start, err := ParseDate(from)
		if err != nil {
			return Period{}, fmt.Errorf("%w: %v", ErrInvalidPeriod, err)
		}
		end, err := ParseDate(to)
		if err != nil {
			return Period{}, fmt.Errorf("%w: %v", ErrInvalidPeriod, err)
		}
		return NewPeriod(start, end)
	}
	if year, q, ok := strings.Cut(s, "-Q"); ok {
		y, err := strconv.Atoi(year)
		if err != nil || len(year) != 4 {
			return Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
		}
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > 4 {
			return Period{}, fmt.Errorf("%w: quarter must be Q1-Q4 in %q", ErrInvalidPeriod, s)
		}
		return QuarterPeriod(y, n), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q must be YYYY-MM, YYYY-Qn or YYYY-MM-DD..YYYY-MM-DD", ErrInvalidPeriod, s)
	}
	return MonthPeriod(t.Year(), t.Month()), nil
}

// Contains reports whether the calendar date of t falls within the period.
func (p Period) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Split divides the period into [Start, at-1] and [at, End]. at must lie in (Start, End].
func (p Period) Split(at time.Time) (Period, Period, error) {
	at = DateOf(at)
	if !at.After(p.Start) || at.After(p.End) {
		return Period{}, Period{}, fmt.Errorf("%w: split date %s outside (%s, %s]", ErrInvalidPeriod,
			at.Format(DateLayout), p.Start.Format(DateLayout), p.End.Format(DateLayout))
	}
	return Period{Start: p.Start, End: at.AddDate(0, 0, -1)}, Period{Start: at, End: p.End}, nil
}

// Label formats the period for file names and report titles.
func (p Period) Label() string {
	if p.Start.Day() == 1 && p.End.Equal(p.Start.AddDate(0, 1, -1)) {
		return p.Start.Format("2006-01")
	}
	if p.Start.Day() == 1 && (p.Start.Month()-1)%3 == 0 && p.End.Equal(p.Start.AddDate(0, 3, -1)) {
		return fmt.Sprintf("%d-Q%d", p.Start.Year(), (int(p.Start.Month())-1)/3+1)
	}
	return p.Start.Format(DateLayout) + ".." + p.End.Format(DateLayout)
}

// Previous returns the period of equal calendar months immediately before p when p is a month,
// otherwise the period of equal length ending the day before Start.
func (p Period) Previous() Period {
	if p.Start.Day() == 1 && p.End.Equal(p.Start.AddDate(0, 1, -1)) {
		prev := p.Start.AddDate(0, -1, 0)
		return MonthPeriod(prev.Year(), prev.Month())
	}
	days := int(p.End.Sub(p.Start).Hours()/24) + 1
	end := p.Start.AddDate(0, 0, -1)
	return Period{Start: end.AddDate(0, 0, -(days - 1)), End: end}
}
