package domain

import "errors"

var (
	// ErrConversationExists is returned by stores when creating a record whose key is taken.
	ErrConversationExists = errors.New("conversation already exists")
	// ErrConversationNotFound is returned by stores when updating a record that does not exist.
	ErrConversationNotFound = errors.New("conversation not found")
)
