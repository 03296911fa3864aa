package domain

import (
	"fmt"
	"strings"
)

// QuarterCount is the number of inspection slots per schedule row.
const QuarterCount = 4

// ScheduleRow is one line of the equipment maintenance planner.
type ScheduleRow struct {
	Equipment string
	Company   string
	// Quarters holds the inspection month name for Q1..Q4. An empty cell
	// means no inspection is planned in that quarter.
	Quarters [QuarterCount]string
}

type scheduleEntry struct {
	equipment string
	company   string
	row       ScheduleRow
}

// ScheduleTable is an immutable, pre-normalized snapshot of the planner.
type ScheduleTable struct {
	entries []scheduleEntry
}

// NewScheduleTable validates rows and normalizes their lookup keys once.
// Row order is preserved; duplicate equipment+company pairs are kept and the
// first one wins on lookup.
func NewScheduleTable(rows []ScheduleRow) (ScheduleTable, error) {
	entries := make([]scheduleEntry, 0, len(rows))
	for i, r := range rows {
		equipment, company := Normalize(r.Equipment), Normalize(r.Company)
		if equipment == "" || company == "" {
			return ScheduleTable{}, fmt.Errorf("domain: schedule row %d: equipment and company are required", i+1)
		}
		for q := range r.Quarters {
			r.Quarters[q] = strings.TrimSpace(r.Quarters[q])
		}
		entries = append(entries, scheduleEntry{equipment: equipment, company: company, row: r})
	}
	return ScheduleTable{entries: entries}, nil
}

// Lookup returns the first row whose equipment and company match.
func (t ScheduleTable) Lookup(equipment, company string) (ScheduleRow, bool) {
	equipment, company = Normalize(equipment), Normalize(company)
	for _, e := range t.entries {
		if e.equipment == equipment && e.company == company {
			return e.row, true
		}
	}
	return ScheduleRow{}, false
}

// Len returns the number of rows.
func (t ScheduleTable) Len() int { return len(t.entries) }

// InductionRow records when an engineer's site induction for a company expires.
// ExpiryDate is kept as supplied so a malformed cell only affects its own verdict.
type InductionRow struct {
	Company    string
	Name       string
	ExpiryDate string
}

type inductionEntry struct {
	company string
	name    string
	row     InductionRow
}

// InductionTable is an immutable, pre-normalized snapshot of induction records.
type InductionTable struct {
	entries []inductionEntry
}

// NewInductionTable validates rows and normalizes their lookup keys once.
func NewInductionTable(rows []InductionRow) (InductionTable, error) {
	entries := make([]inductionEntry, 0, len(rows))
	for i, r := range rows {
		company, name := Normalize(r.Company), Normalize(r.Name)
		if company == "" || name == "" {
			return InductionTable{}, fmt.Errorf("domain: induction row %d: company and name are required", i+1)
		}
		r.ExpiryDate = strings.TrimSpace(r.ExpiryDate)
		entries = append(entries, inductionEntry{company: company, name: name, row: r})
	}
	return InductionTable{entries: entries}, nil
}

// Lookup returns the first row matching company and engineer name.
func (t InductionTable) Lookup(company, name string) (InductionRow, bool) {
	company, name = Normalize(company), Normalize(name)
	for _, e := range t.entries {
		if e.company == company && e.name == name {
			return e.row, true
		}
	}
	return InductionRow{}, false
}

// Len returns the number of rows.
func (t InductionTable) Len() int { return len(t.entries) }
