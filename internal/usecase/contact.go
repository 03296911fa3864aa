package usecase

import (
	"context"
	"errors"
	"strings"

	"maintenance-agent/internal/conversation"
	"maintenance-agent/internal/domain"
)

// maxContactAttempts bounds re-reads after a store reports that a concurrent
// request created or removed the record between our read and write.
const maxContactAttempts = 2

type ContactInput struct {
	Address           string
	Subject           string
	AttachmentPresent bool
	// EngineerNames may hold single names or comma separated lists.
	EngineerNames []string
}

type ContactOutput struct {
	Record         domain.ConversationRecord
	PreviousStatus domain.Status
	Created        bool
	EngineerNames  []string
	Instruction    string
}

// HandleContact records one inbound message against its conversation and
// returns the resulting status and the next instruction.
//
// The read-modify-write is not atomic: two messages for the same thread
// processed at once can both read the old status and the later write wins.
func (s *Service) HandleContact(ctx context.Context, in ContactInput) (ContactOutput, error) {
	address := strings.TrimSpace(in.Address)
	subject := strings.TrimSpace(in.Subject)
	if address == "" {
		return ContactOutput{}, newError(ErrorInvalidInput, "missing_address", nil)
	}
	if domain.SenderDomain(address) == "" {
		return ContactOutput{}, newError(ErrorInvalidInput, "invalid_address", nil)
	}
	if subject == "" {
		return ContactOutput{}, newError(ErrorInvalidInput, "missing_subject", nil)
	}

	names := conversation.ParseEngineerNames(in.EngineerNames...)
	ev := domain.Evidence{
		AttachmentPresent:    in.AttachmentPresent,
		EngineerNamesPresent: len(names) > 0,
	}
	key := domain.NewConversationKey(address, subject)

	for attempt := 0; attempt < maxContactAttempts; attempt++ {
		rec, found, err := s.store.FindConversation(ctx, key)
		if err != nil {
			return ContactOutput{}, newError(ErrorInternal, "store_read_error", err)
		}

		if found {
			out, err := s.advance(ctx, rec, ev)
			if errors.Is(err, domain.ErrConversationNotFound) {
				continue
			}
			if err != nil {
				return ContactOutput{}, newError(ErrorInternal, "store_write_error", err)
			}
			out.EngineerNames = names
			return out, nil
		}

		rec = domain.NewConversationRecord(address, subject, conversation.InitialStatus(ev), s.now())
		err = s.store.CreateConversation(ctx, rec)
		if errors.Is(err, domain.ErrConversationExists) {
			continue
		}
		if err != nil {
			return ContactOutput{}, newError(ErrorInternal, "store_write_error", err)
		}
		s.logger.InfoContext(ctx, "conversation created",
			"address", rec.Address, "subject", rec.Subject, "status", rec.Status)
		return ContactOutput{
			Record:        rec,
			Created:       true,
			EngineerNames: names,
			Instruction:   conversation.InstructionFor(string(rec.Status)),
		}, nil
	}
	return ContactOutput{}, newError(ErrorConflict, "conversation_write_conflict", nil)
}

func (s *Service) advance(ctx context.Context, rec domain.ConversationRecord, ev domain.Evidence) (ContactOutput, error) {
	previous := rec.Status
	if _, ok := domain.ParseStatus(string(previous)); !ok {
		s.logger.WarnContext(ctx, "unrecognized stored status, recomputing from evidence",
			"address", rec.Address, "subject", rec.Subject, "status", rec.Status)
	}

	rec.Status = conversation.NextStatus(&previous, ev)
	rec.LastUpdated = domain.FormatDate(s.now())
	if err := s.store.UpdateConversation(ctx, rec); err != nil {
		return ContactOutput{}, err
	}

	s.logger.InfoContext(ctx, "conversation updated",
		"address", rec.Address, "subject", rec.Subject, "previous_status", previous, "status", rec.Status)
	return ContactOutput{
		Record:         rec,
		PreviousStatus: previous,
		Instruction:    conversation.InstructionFor(string(rec.Status)),
	}, nil
}

// TrackedConversation is the conversation a maintenance request belongs to,
// reported without applying any evidence to it.
type TrackedConversation struct {
	Record      domain.ConversationRecord
	Created     bool
	Instruction string
}

// trackConversation returns the conversation for (address, subject), opening
// it in the initial status when none exists yet.
func (s *Service) trackConversation(ctx context.Context, address, subject string) (TrackedConversation, error) {
	key := domain.NewConversationKey(address, subject)
	for attempt := 0; attempt < maxContactAttempts; attempt++ {
		rec, found, err := s.store.FindConversation(ctx, key)
		if err != nil {
			return TrackedConversation{}, newError(ErrorInternal, "store_read_error", err)
		}
		if found {
			return TrackedConversation{
				Record:      rec,
				Instruction: conversation.InstructionFor(string(rec.Status)),
			}, nil
		}

		rec = domain.NewConversationRecord(address, subject, conversation.InitialStatus(domain.Evidence{}), s.now())
		err = s.store.CreateConversation(ctx, rec)
		if errors.Is(err, domain.ErrConversationExists) {
			continue
		}
		if err != nil {
			return TrackedConversation{}, newError(ErrorInternal, "store_write_error", err)
		}
		s.logger.InfoContext(ctx, "conversation created",
			"address", rec.Address, "subject", rec.Subject, "status", rec.Status)
		return TrackedConversation{
			Record:      rec,
			Created:     true,
			Instruction: conversation.InstructionFor(string(rec.Status)),
		}, nil
	}
	return TrackedConversation{}, newError(ErrorConflict, "conversation_write_conflict", nil)
}
