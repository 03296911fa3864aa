package usecase

import (
	"context"
	"strings"
	"time"

	"maintenance-agent/internal/conversation"
	"maintenance-agent/internal/domain"
	"maintenance-agent/internal/induction"
	"maintenance-agent/internal/maintenance"
)

type MaintenanceInput struct {
	Equipment     string
	Company       string
	RequestedDate string
	// Address, when set, ties the request to the sender's conversation.
	Address string
	// Subject defaults to "<Equipment> request".
	Subject string
}

type MaintenanceOutput struct {
	Verdict maintenance.Verdict
	// Conversation is nil unless the request carried an address.
	Conversation *TrackedConversation
}

type InductionInput struct {
	Company string
	// Engineers may hold single names or comma separated lists.
	Engineers []string
	// MaintenanceDate defaults to today when empty.
	MaintenanceDate string
}

type InductionOutput struct {
	ReferenceDate time.Time
	Results       []induction.Verdict
}

// CheckMaintenance answers whether the requested date falls in a planned
// inspection month. An unreadable date is reported as a verdict, not an error.
// When the request names a sender, the matching conversation is looked up or
// opened and returned alongside the verdict.
func (s *Service) CheckMaintenance(ctx context.Context, in MaintenanceInput) (MaintenanceOutput, error) {
	if strings.TrimSpace(in.Equipment) == "" {
		return MaintenanceOutput{}, newError(ErrorInvalidInput, "missing_equipment", nil)
	}
	if strings.TrimSpace(in.Company) == "" {
		return MaintenanceOutput{}, newError(ErrorInvalidInput, "missing_company", nil)
	}
	if strings.TrimSpace(in.RequestedDate) == "" {
		return MaintenanceOutput{}, newError(ErrorInvalidInput, "missing_requested_date", nil)
	}
	address := strings.TrimSpace(in.Address)
	if address != "" && domain.SenderDomain(address) == "" {
		return MaintenanceOutput{}, newError(ErrorInvalidInput, "invalid_address", nil)
	}

	verdict, err := s.evaluateWindow(ctx, in)
	if err != nil {
		return MaintenanceOutput{}, err
	}
	out := MaintenanceOutput{Verdict: verdict}
	if address == "" {
		return out, nil
	}

	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		subject = strings.TrimSpace(in.Equipment) + " request"
	}
	tracked, err := s.trackConversation(ctx, address, subject)
	if err != nil {
		return MaintenanceOutput{}, err
	}
	out.Conversation = &tracked
	return out, nil
}

func (s *Service) evaluateWindow(ctx context.Context, in MaintenanceInput) (maintenance.Verdict, error) {
	requested, err := domain.ParseDate(in.RequestedDate)
	if err != nil {
		return maintenance.Unparseable(in.RequestedDate), nil
	}
	table, err := s.refs.ScheduleTable(ctx)
	if err != nil {
		return maintenance.Verdict{}, newError(ErrorUpstream, "schedule_load_error", err)
	}
	return maintenance.Evaluate(in.Equipment, in.Company, requested, table), nil
}

// CheckInductions returns one verdict per engineer, in the order supplied.
func (s *Service) CheckInductions(ctx context.Context, in InductionInput) (InductionOutput, error) {
	if strings.TrimSpace(in.Company) == "" {
		return InductionOutput{}, newError(ErrorInvalidInput, "missing_company", nil)
	}
	engineers := conversation.ParseEngineerNames(in.Engineers...)
	if len(engineers) == 0 {
		return InductionOutput{}, newError(ErrorInvalidInput, "missing_engineers", nil)
	}

	reference := domain.DateOf(s.now())
	if strings.TrimSpace(in.MaintenanceDate) != "" {
		parsed, err := domain.ParseDate(in.MaintenanceDate)
		if err != nil {
			return InductionOutput{}, newError(ErrorInvalidInput, "invalid_maintenance_date", err)
		}
		reference = parsed
	}

	table, err := s.refs.InductionTable(ctx)
	if err != nil {
		return InductionOutput{}, newError(ErrorUpstream, "inductions_load_error", err)
	}
	return InductionOutput{
		ReferenceDate: reference,
		Results:       induction.Evaluate(in.Company, engineers, reference, table),
	}, nil
}
