package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"maintenance-agent/internal/domain"
)

// ReferenceProvider supplies read-only snapshots of the reference tables.
type ReferenceProvider interface {
	ScheduleTable(ctx context.Context) (domain.ScheduleTable, error)
	InductionTable(ctx context.Context) (domain.InductionTable, error)
}

// ConversationStore reads and writes conversation records. Create must fail
// with domain.ErrConversationExists when the key is taken and Update with
// domain.ErrConversationNotFound when it is not.
type ConversationStore interface {
	FindConversation(ctx context.Context, key domain.ConversationKey) (domain.ConversationRecord, bool, error)
	CreateConversation(ctx context.Context, rec domain.ConversationRecord) error
	UpdateConversation(ctx context.Context, rec domain.ConversationRecord) error
}

// Service wires the pure evaluators to the reference data and conversation store.
type Service struct {
	refs   ReferenceProvider
	store  ConversationStore
	logger *slog.Logger
	now    func() time.Time
}

func NewService(refs ReferenceProvider, store ConversationStore, logger *slog.Logger) (*Service, error) {
	if refs == nil {
		return nil, errors.New("usecase: reference provider must not be nil")
	}
	if store == nil {
		return nil, errors.New("usecase: conversation store must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		refs:   refs,
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}
