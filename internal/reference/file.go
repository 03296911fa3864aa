package reference

import (
	"context"
	"fmt"
	"os"

	"maintenance-agent/internal/domain"
)

// FileProvider reads reference tables from local YAML files on every call.
// An empty path yields an empty table.
type FileProvider struct {
	SchedulePath   string
	InductionsPath string
}

func (f FileProvider) ScheduleTable(_ context.Context) (domain.ScheduleTable, error) {
	if f.SchedulePath == "" {
		return domain.ScheduleTable{}, nil
	}
	data, err := os.ReadFile(f.SchedulePath)
	if err != nil {
		return domain.ScheduleTable{}, fmt.Errorf("reference: read schedule: %w", err)
	}
	return DecodeSchedule(data)
}

func (f FileProvider) InductionTable(_ context.Context) (domain.InductionTable, error) {
	if f.InductionsPath == "" {
		return domain.InductionTable{}, nil
	}
	data, err := os.ReadFile(f.InductionsPath)
	if err != nil {
		return domain.InductionTable{}, fmt.Errorf("reference: read inductions: %w", err)
	}
	return DecodeInductions(data)
}
