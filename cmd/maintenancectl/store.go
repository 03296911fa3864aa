package main

import (
	"context"

	"maintenance-agent/internal/domain"
	"maintenance-agent/internal/repository"
)

// lazyStore opens the SQLite database on first use, so checks that never
// touch a conversation leave no database file behind.
type lazyStore struct {
	path  string
	store *repository.SQLiteStore
}

func (l *lazyStore) open() (*repository.SQLiteStore, error) {
	if l.store == nil {
		s, err := repository.NewSQLiteStore(l.path)
		if err != nil {
			return nil, err
		}
		l.store = s
	}
	return l.store, nil
}

func (l *lazyStore) FindConversation(ctx context.Context, key domain.ConversationKey) (domain.ConversationRecord, bool, error) {
	s, err := l.open()
	if err != nil {
		return domain.ConversationRecord{}, false, err
	}
	return s.FindConversation(ctx, key)
}

func (l *lazyStore) CreateConversation(ctx context.Context, rec domain.ConversationRecord) error {
	s, err := l.open()
	if err != nil {
		return err
	}
	return s.CreateConversation(ctx, rec)
}

func (l *lazyStore) UpdateConversation(ctx context.Context, rec domain.ConversationRecord) error {
	s, err := l.open()
	if err != nil {
		return err
	}
	return s.UpdateConversation(ctx, rec)
}

func (l *lazyStore) Close() error {
	if l.store == nil {
		return nil
	}
	return l.store.Close()
}
