package domain

import (
	"strings"
	"time"
)

// Status is the state of a tracked scheduling conversation.
type Status string

const (
	StatusSchedulingRequest            Status = "Scheduling Request"
	StatusAwaitingRamsAndEngineerNames Status = "Awaiting RAMS and Engineer Names"
	StatusAwaitingRams                 Status = "Awaiting RAMS"
	StatusAwaitingEngineerNames        Status = "Awaiting Engineer Names"
	StatusConversationComplete         Status = "Conversation Complete"
)

// Statuses lists every known status in lifecycle order.
var Statuses = []Status{
	StatusSchedulingRequest,
	StatusAwaitingRamsAndEngineerNames,
	StatusAwaitingRams,
	StatusAwaitingEngineerNames,
	StatusConversationComplete,
}

// ParseStatus resolves s to its canonical Status. Matching ignores case,
// surrounding whitespace and word separators, so "awaiting_rams" and
// "AwaitingRams" both resolve to StatusAwaitingRams.
func ParseStatus(s string) (Status, bool) {
	folded := foldStatus(s)
	if folded == "" {
		return "", false
	}
	for _, st := range Statuses {
		if foldStatus(string(st)) == folded {
			return st, true
		}
	}
	return "", false
}

func foldStatus(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '\t', '_', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Evidence is what a single inbound message supplied.
type Evidence struct {
	AttachmentPresent    bool
	EngineerNamesPresent bool
}

// ConversationKey identifies at most one open conversation.
// Both fields are already normalized; build it with NewConversationKey.
type ConversationKey struct {
	Address string
	Subject string
}

// NewConversationKey normalizes address and subject the same way for reads and writes.
func NewConversationKey(address, subject string) ConversationKey {
	return ConversationKey{Address: Normalize(address), Subject: Normalize(subject)}
}

// ConversationRecord is one tracked email thread.
type ConversationRecord struct {
	Address     string
	Domain      string
	Company     string
	Subject     string
	Status      Status
	LastUpdated string
}

// NewConversationRecord derives domain and company from address and stamps
// LastUpdated with now's calendar date.
func NewConversationRecord(address, subject string, status Status, now time.Time) ConversationRecord {
	address = strings.TrimSpace(address)
	domain := SenderDomain(address)
	return ConversationRecord{
		Address:     address,
		Domain:      domain,
		Company:     CompanyFromDomain(domain),
		Subject:     strings.TrimSpace(subject),
		Status:      status,
		LastUpdated: FormatDate(now),
	}
}

// Key returns the lookup key for the record.
func (r ConversationRecord) Key() ConversationKey {
	return NewConversationKey(r.Address, r.Subject)
}

// SearchKey is the sender domain and subject joined by a space.
func (r ConversationRecord) SearchKey() string {
	return r.Domain + " " + r.Subject
}

// SenderDomain returns the part of address after the last "@", lowercased.
func SenderDomain(address string) string {
	i := strings.LastIndex(address, "@")
	if i < 0 {
		return ""
	}
	return Normalize(address[i+1:])
}

// CompanyFromDomain returns the first label of domain.
func CompanyFromDomain(domain string) string {
	if i := strings.Index(domain, "."); i >= 0 {
		return domain[:i]
	}
	return domain
}

// Normalize trims and case-folds an identifier for comparison.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
