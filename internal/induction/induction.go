// Package induction decides whether engineers hold a valid site induction
// on a proposed maintenance date.
package induction

import (
	"fmt"
	"strings"
	"time"

	"maintenance-agent/internal/domain"
)

// Outcome classifies a single engineer.
type Outcome string

const (
	OutcomeInducted    Outcome = "Inducted"
	OutcomeExpired     Outcome = "Expired"
	OutcomeUnknown     Outcome = "Unknown"
	OutcomeUnparseable Outcome = "Unparseable"
)

// Verdict is the result for one engineer.
type Verdict struct {
	Engineer string
	Outcome  Outcome
	// Expiry is zero unless the engineer's record had a readable expiry date.
	Expiry  time.Time
	Message string
}

// Evaluate returns one verdict per engineer in input order. A missing or
// malformed record only affects that engineer's verdict.
func Evaluate(company string, engineers []string, reference time.Time, table domain.InductionTable) []Verdict {
	reference = domain.DateOf(reference)
	out := make([]Verdict, 0, len(engineers))
	for _, engineer := range engineers {
		out = append(out, evaluateOne(company, strings.TrimSpace(engineer), reference, table))
	}
	return out
}

func evaluateOne(company, engineer string, reference time.Time, table domain.InductionTable) Verdict {
	row, ok := table.Lookup(company, engineer)
	if !ok {
		return Verdict{
			Engineer: engineer,
			Outcome:  OutcomeUnknown,
			Message:  fmt.Sprintf("%s requires an induction.", engineer),
		}
	}

	expiry, err := domain.ParseDate(row.ExpiryDate)
	if err != nil {
		return Verdict{
			Engineer: engineer,
			Outcome:  OutcomeUnparseable,
			Message:  fmt.Sprintf("Could not parse expiry date for %s.", engineer),
		}
	}

	if !expiry.Before(reference) {
		return Verdict{
			Engineer: engineer,
			Outcome:  OutcomeInducted,
			Expiry:   expiry,
			Message:  fmt.Sprintf("%s is inducted and valid through %s.", engineer, domain.FormatDate(expiry)),
		}
	}
	return Verdict{
		Engineer: engineer,
		Outcome:  OutcomeExpired,
		Expiry:   expiry,
		Message: fmt.Sprintf("%s's induction expired on %s and must be redone before the scheduled date.",
			engineer, domain.FormatDate(expiry)),
	}
}
