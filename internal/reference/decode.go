// Package reference loads the maintenance planner and induction records
// into typed, pre-normalized tables.
package reference

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"maintenance-agent/internal/domain"
)

type scheduleDoc struct {
	Equipment string `yaml:"equipment"`
	Company   string `yaml:"company"`
	Q1        string `yaml:"q1"`
	Q2        string `yaml:"q2"`
	Q3        string `yaml:"q3"`
	Q4        string `yaml:"q4"`
}

type inductionDoc struct {
	Company    string `yaml:"company"`
	Name       string `yaml:"name"`
	ExpiryDate string `yaml:"expiry_date"`
}

// DecodeSchedule parses a YAML list of planner rows.
func DecodeSchedule(data []byte) (domain.ScheduleTable, error) {
	var docs []scheduleDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return domain.ScheduleTable{}, fmt.Errorf("reference: decode schedule: %w", err)
	}
	rows := make([]domain.ScheduleRow, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, domain.ScheduleRow{
			Equipment: d.Equipment,
			Company:   d.Company,
			Quarters:  [domain.QuarterCount]string{d.Q1, d.Q2, d.Q3, d.Q4},
		})
	}
	table, err := domain.NewScheduleTable(rows)
	if err != nil {
		return domain.ScheduleTable{}, fmt.Errorf("reference: %w", err)
	}
	return table, nil
}

// DecodeInductions parses a YAML list of induction records.
func DecodeInductions(data []byte) (domain.InductionTable, error) {
	var docs []inductionDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return domain.InductionTable{}, fmt.Errorf("reference: decode inductions: %w", err)
	}
	rows := make([]domain.InductionRow, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, domain.InductionRow{Company: d.Company, Name: d.Name, ExpiryDate: d.ExpiryDate})
	}
	table, err := domain.NewInductionTable(rows)
	if err != nil {
		return domain.InductionTable{}, fmt.Errorf("reference: %w", err)
	}
	return table, nil
}
