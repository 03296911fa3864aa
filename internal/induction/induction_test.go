package induction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"maintenance-agent/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testTable(t *testing.T) domain.InductionTable {
	t.Helper()
	table, err := domain.NewInductionTable([]domain.InductionRow{
		{Company: "Acme", Name: "Jane Smith", ExpiryDate: "2025-06-01"},
		{Company: "Acme", Name: "Tom Jones", ExpiryDate: "2024-01-01"},
		{Company: "Acme", Name: "Ali Khan", ExpiryDate: "sometime"},
		{Company: "Acme", Name: "Rosa Diaz", ExpiryDate: "01/01/2025"},
		{Company: "Globex", Name: "Jane Smith", ExpiryDate: "2030-01-01"},
	})
	require.NoError(t, err)
	return table
}

func TestEvaluate_Outcomes(t *testing.T) {
	ref := day(2025, time.January, 1)
	got := Evaluate("Acme", []string{"Jane Smith", "Tom Jones", "Nobody Here"}, ref, testTable(t))
	require.Len(t, got, 3)

	require.Equal(t, "Jane Smith", got[0].Engineer)
	require.Equal(t, OutcomeInducted, got[0].Outcome)
	require.Equal(t, day(2025, time.June, 1), got[0].Expiry)
	require.Contains(t, got[0].Message, "valid through 2025-06-01")

	require.Equal(t, OutcomeExpired, got[1].Outcome)
	require.Contains(t, got[1].Message, "expired on 2024-01-01")

	require.Equal(t, OutcomeUnknown, got[2].Outcome)
	require.Equal(t, "Nobody Here requires an induction.", got[2].Message)
	require.True(t, got[2].Expiry.IsZero())
}

func TestEvaluate_ExpiryOnReferenceDateIsValid(t *testing.T) {
	got := Evaluate("Acme", []string{"Rosa Diaz"}, day(2025, time.January, 1), testTable(t))
	require.Equal(t, OutcomeInducted, got[0].Outcome)

	got = Evaluate("Acme", []string{"Rosa Diaz"}, day(2025, time.January, 2), testTable(t))
	require.Equal(t, OutcomeExpired, got[0].Outcome)
}

func TestEvaluate_TimeOfDayOnReferenceIgnored(t *testing.T) {
	ref := time.Date(2025, time.June, 1, 23, 59, 0, 0, time.UTC)
	got := Evaluate("Acme", []string{"Jane Smith"}, ref, testTable(t))
	require.Equal(t, OutcomeInducted, got[0].Outcome)
}

func TestEvaluate_UnparseableDoesNotAbortBatch(t *testing.T) {
	got := Evaluate("Acme", []string{"Ali Khan", "Jane Smith", "Tom Jones"}, day(2025, time.January, 1), testTable(t))
	require.Len(t, got, 3)
	require.Equal(t, OutcomeUnparseable, got[0].Outcome)
	require.Equal(t, "Could not parse expiry date for Ali Khan.", got[0].Message)
	require.Equal(t, OutcomeInducted, got[1].Outcome)
	require.Equal(t, OutcomeExpired, got[2].Outcome)
}

func TestEvaluate_CompanyScopedAndNormalized(t *testing.T) {
	got := Evaluate(" GLOBEX ", []string{" jane smith "}, day(2028, time.January, 1), testTable(t))
	require.Equal(t, "jane smith", got[0].Engineer)
	require.Equal(t, OutcomeInducted, got[0].Outcome)

	got = Evaluate("Initech", []string{"Jane Smith"}, day(2025, time.January, 1), testTable(t))
	require.Equal(t, OutcomeUnknown, got[0].Outcome)
}

func TestEvaluate_PreservesOrderAndDuplicates(t *testing.T) {
	names := []string{"Tom Jones", "Jane Smith", "Tom Jones"}
	got := Evaluate("Acme", names, day(2025, time.January, 1), testTable(t))
	require.Len(t, got, len(names))
	for i, n := range names {
		require.Equal(t, n, got[i].Engineer)
	}
}

func TestEvaluate_Empty(t *testing.T) {
	require.Empty(t, Evaluate("Acme", nil, day(2025, time.January, 1), testTable(t)))
}
