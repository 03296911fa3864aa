package conversation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"maintenance-agent/internal/domain"
)

var (
	evNone       = domain.Evidence{}
	evAttachment = domain.Evidence{AttachmentPresent: true}
	evEngineers  = domain.Evidence{EngineerNamesPresent: true}
	evBoth       = domain.Evidence{AttachmentPresent: true, EngineerNamesPresent: true}
	allEvidence  = []domain.Evidence{evBoth, evAttachment, evEngineers, evNone}
)

func statusPtr(s domain.Status) *domain.Status { return &s }

func TestNextStatus_TransitionTable(t *testing.T) {
	// Columns follow allEvidence: both, attachment only, engineers only, neither.
	table := map[domain.Status][4]domain.Status{
		domain.StatusSchedulingRequest: {
			domain.StatusAwaitingRamsAndEngineerNames,
			domain.StatusAwaitingRamsAndEngineerNames,
			domain.StatusAwaitingRamsAndEngineerNames,
			domain.StatusAwaitingRamsAndEngineerNames,
		},
		domain.StatusAwaitingRamsAndEngineerNames: {
			domain.StatusConversationComplete,
			domain.StatusAwaitingEngineerNames,
			domain.StatusAwaitingRams,
			domain.StatusAwaitingRamsAndEngineerNames,
		},
		domain.StatusAwaitingRams: {
			domain.StatusConversationComplete,
			domain.StatusAwaitingRams,
			domain.StatusAwaitingRams,
			domain.StatusAwaitingRams,
		},
		domain.StatusAwaitingEngineerNames: {
			domain.StatusConversationComplete,
			domain.StatusAwaitingEngineerNames,
			domain.StatusAwaitingEngineerNames,
			domain.StatusAwaitingEngineerNames,
		},
		domain.StatusConversationComplete: {
			domain.StatusConversationComplete,
			domain.StatusConversationComplete,
			domain.StatusConversationComplete,
			domain.StatusConversationComplete,
		},
	}

	require.Len(t, table, len(domain.Statuses))
	for current, row := range table {
		for i, ev := range allEvidence {
			got := NextStatus(statusPtr(current), ev)
			require.Equal(t, row[i], got, "from %q with %+v", current, ev)
		}
	}
}

func TestNextStatus_CompleteIsAbsorbing(t *testing.T) {
	st := domain.StatusConversationComplete
	for i := 0; i < 3; i++ {
		for _, ev := range allEvidence {
			st = NextStatus(&st, ev)
			require.Equal(t, domain.StatusConversationComplete, st)
		}
	}
}

func TestNextStatus_NoCurrentUsesInitialStatus(t *testing.T) {
	for _, ev := range allEvidence {
		require.Equal(t, InitialStatus(ev), NextStatus(nil, ev))
	}
}

func TestNextStatus_MatchesCaseInsensitivelyAndReturnsCanonical(t *testing.T) {
	cases := []struct {
		current domain.Status
		ev      domain.Evidence
		want    domain.Status
	}{
		{current: "awaiting rams", ev: evBoth, want: domain.StatusConversationComplete},
		{current: "AwaitingRams", ev: evBoth, want: domain.StatusConversationComplete},
		{current: "awaiting rams", ev: evNone, want: domain.StatusAwaitingRams},
		{current: "AWAITING RAMS AND ENGINEER NAMES", ev: evAttachment, want: domain.StatusAwaitingEngineerNames},
		{current: "awaiting_engineer_names", ev: evEngineers, want: domain.StatusAwaitingEngineerNames},
		{current: "scheduling request", ev: evNone, want: domain.StatusAwaitingRamsAndEngineerNames},
		{current: "conversation complete", ev: evNone, want: domain.StatusConversationComplete},
	}
	for _, tc := range cases {
		got := NextStatus(statusPtr(tc.current), tc.ev)
		require.Equal(t, tc.want, got, "from %q with %+v", tc.current, tc.ev)
	}
}

func TestNextStatus_UnknownCurrentUsesInitialStatus(t *testing.T) {
	for _, ev := range allEvidence {
		require.Equal(t, InitialStatus(ev), NextStatus(statusPtr("Initial conversation"), ev))
		require.Equal(t, InitialStatus(ev), NextStatus(statusPtr(""), ev))
	}
}

func TestInitialStatus(t *testing.T) {
	require.Equal(t, domain.StatusConversationComplete, InitialStatus(evBoth))
	require.Equal(t, domain.StatusAwaitingEngineerNames, InitialStatus(evAttachment))
	require.Equal(t, domain.StatusAwaitingRams, InitialStatus(evEngineers))
	require.Equal(t, domain.StatusSchedulingRequest, InitialStatus(evNone))
}

func TestAwaitingRams_IdempotentWithoutEvidence(t *testing.T) {
	st := domain.StatusAwaitingRams
	require.Equal(t, domain.StatusAwaitingRams, NextStatus(&st, evNone))
	require.Equal(t, domain.StatusAwaitingRams, NextStatus(&st, evNone))
}

func TestRoundTrip_AttachmentFirstThenEngineers(t *testing.T) {
	first := InitialStatus(evAttachment)
	require.Equal(t, domain.StatusAwaitingEngineerNames, first)

	second := NextStatus(&first, evBoth)
	require.Equal(t, domain.StatusConversationComplete, second)
}

func TestParseEngineerNames(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "nil", in: nil, want: nil},
		{name: "empty string", in: []string{""}, want: nil},
		{name: "none", in: []string{" None "}, want: nil},
		{name: "comma list", in: []string{"Jane Smith, Tom Jones ,,"}, want: []string{"Jane Smith", "Tom Jones"}},
		{name: "list with embedded commas", in: []string{"Jane Smith", "Tom Jones, Ali Khan", "none"}, want: []string{"Jane Smith", "Tom Jones", "Ali Khan"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ParseEngineerNames(tc.in...))
		})
	}
}
