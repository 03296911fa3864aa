// Package conversation decides what a scheduling email thread is still
// missing and which instruction the drafting agent should follow next.
package conversation

import (
	"strings"

	"maintenance-agent/internal/domain"
)

// InitialStatus is the status of a conversation seen for the first time.
func InitialStatus(ev domain.Evidence) domain.Status {
	switch {
	case ev.AttachmentPresent && ev.EngineerNamesPresent:
		return domain.StatusConversationComplete
	case ev.AttachmentPresent:
		return domain.StatusAwaitingEngineerNames
	case ev.EngineerNamesPresent:
		return domain.StatusAwaitingRams
	default:
		return domain.StatusSchedulingRequest
	}
}

// NextStatus applies one inbound message's evidence to current. A nil current
// means no record exists yet and yields InitialStatus, as does a current value
// that names no known status. current is matched case-insensitively and the
// result is always canonical. Evidence only ever closes an outstanding
// requirement; Conversation Complete is absorbing.
func NextStatus(current *domain.Status, ev domain.Evidence) domain.Status {
	if current == nil {
		return InitialStatus(ev)
	}
	st, ok := domain.ParseStatus(string(*current))
	if !ok {
		return InitialStatus(ev)
	}
	both := ev.AttachmentPresent && ev.EngineerNamesPresent

	switch st {
	case domain.StatusSchedulingRequest:
		return domain.StatusAwaitingRamsAndEngineerNames
	case domain.StatusAwaitingRamsAndEngineerNames:
		switch {
		case both:
			return domain.StatusConversationComplete
		case ev.AttachmentPresent:
			return domain.StatusAwaitingEngineerNames
		case ev.EngineerNamesPresent:
			return domain.StatusAwaitingRams
		}
	case domain.StatusAwaitingRams, domain.StatusAwaitingEngineerNames:
		if both {
			return domain.StatusConversationComplete
		}
	}
	return st
}

// ParseEngineerNames splits the free-text engineer field into names.
// Each entry may itself be a comma separated list; blanks and "none" are dropped.
func ParseEngineerNames(entries ...string) []string {
	var names []string
	for _, entry := range entries {
		for _, part := range strings.Split(entry, ",") {
			name := strings.TrimSpace(part)
			if name == "" || strings.EqualFold(name, "none") {
				continue
			}
			names = append(names, name)
		}
	}
	return names
}
