// Package maintenance checks a requested visit date against the quarterly
// inspection planner.
package maintenance

import (
	"fmt"
	"strings"
	"time"

	"maintenance-agent/internal/domain"
)

// Outcome is the top-level result of a window check.
type Outcome string

const (
	OutcomeYes   Outcome = "Yes"
	OutcomeNo    Outcome = "No"
	OutcomeError Outcome = "Error"
)

// ErrorKind qualifies an OutcomeError verdict.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindParseFailure ErrorKind = "PARSE_FAILURE"
)

// UnknownMonth is reported as the next due month when a row has no
// populated quarter.
const UnknownMonth = "Unknown"

// Verdict is the answer to "is this date inside the maintenance window?".
type Verdict struct {
	Outcome Outcome
	Kind    ErrorKind
	// NextDue is the month name of the first populated quarter; only set on OutcomeNo.
	NextDue       string
	RequestedDate time.Time
	Message       string
}

// Status renders the verdict the way the drafting agent expects it:
// "Yes", "No - Due in <Month>" or "error".
func (v Verdict) Status() string {
	switch v.Outcome {
	case OutcomeYes:
		return "Yes"
	case OutcomeNo:
		return "No - Due in " + v.NextDue
	default:
		return "error"
	}
}

var months = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// MonthNumber resolves an English month name. Unknown names return 0.
func MonthNumber(name string) time.Month {
	return months[strings.ToLower(strings.TrimSpace(name))]
}

// Evaluate checks requested against the first schedule row for equipment and
// company. Only the month of year is compared; the year is ignored.
func Evaluate(equipment, company string, requested time.Time, table domain.ScheduleTable) Verdict {
	row, ok := table.Lookup(equipment, company)
	if !ok {
		return Verdict{
			Outcome: OutcomeError,
			Kind:    KindNotFound,
			Message: fmt.Sprintf("No maintenance record found for '%s' under '%s'.",
				strings.TrimSpace(equipment), strings.TrimSpace(company)),
		}
	}

	var names []string
	scheduled := make(map[time.Month]bool, domain.QuarterCount)
	for _, cell := range row.Quarters {
		if cell == "" {
			continue
		}
		names = append(names, cell)
		if m := MonthNumber(cell); m != 0 {
			scheduled[m] = true
		}
	}

	date := domain.FormatDate(requested)
	if scheduled[requested.Month()] {
		return Verdict{
			Outcome:       OutcomeYes,
			RequestedDate: requested,
			Message:       fmt.Sprintf("The requested date %s is within the maintenance window.", date),
		}
	}

	nextDue := UnknownMonth
	if len(names) > 0 {
		nextDue = names[0]
	}
	return Verdict{
		Outcome:       OutcomeNo,
		NextDue:       nextDue,
		RequestedDate: requested,
		Message:       fmt.Sprintf("The requested date %s is NOT within the maintenance window. Next due: %s.", date, nextDue),
	}
}

// Unparseable is the verdict for a requested date that could not be read.
func Unparseable(raw string) Verdict {
	return Verdict{
		Outcome: OutcomeError,
		Kind:    KindParseFailure,
		Message: fmt.Sprintf("Could not read the requested date %q; use DD/MM/YYYY or YYYY-MM-DD.", raw),
	}
}
