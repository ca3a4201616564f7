/*
ledger_test.go - Unit tests for ledger record normalization

FIRST-PRESENT-WINS CONTRACT:
  delta:  balance > days_delta > delta > amount > days
  source: leave_type > source > type > reason
*/
package leave

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLedgerEntry_FirstDeltaFieldWins(t *testing.T) {
	// GIVEN: A record carrying several legacy delta fields
	// WHEN: Normalizing
	// THEN: "balance" wins over the rest

	entry, err := NormalizeLedgerEntry(map[string]any{
		"employee_id": "emp-1",
		"date":        "2024-03-01",
		"balance":     -2.5,
		"days_delta":  99.0,
		"amount":      7.0,
	})
	require.NoError(t, err)
	assert.Equal(t, "-2.5", entry.DeltaDays.String())
}

func TestNormalizeLedgerEntry_DeltaFieldFallbackOrder(t *testing.T) {
	cases := []struct {
		name  string
		raw   map[string]any
		delta string
	}{
		{"days_delta over delta", map[string]any{"days_delta": 3.0, "delta": 1.0}, "3"},
		{"delta over amount", map[string]any{"delta": -1.0, "amount": 4.0}, "-1"},
		{"amount over days", map[string]any{"amount": 2.0, "days": 9.0}, "2"},
		{"days alone", map[string]any{"days": 1.5}, "1.5"},
		{"string delta parses", map[string]any{"balance": "-0.5"}, "-0.5"},
	}

	for _, tc := range cases {
		tc.raw["employee_id"] = "emp-1"
		tc.raw["date"] = "2024-01-01"
		entry, err := NormalizeLedgerEntry(tc.raw)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.delta, entry.DeltaDays.String(), tc.name)
	}
}

func TestNormalizeLedgerEntry_SourceFieldPriority(t *testing.T) {
	entry, err := NormalizeLedgerEntry(map[string]any{
		"employee_id": "emp-1",
		"date":        "2024-01-01",
		"balance":     1.0,
		"leave_type":  "annual",
		"source":      "import",
		"reason":      "carryover fix",
	})
	require.NoError(t, err)
	assert.Equal(t, "annual", entry.Source)
	assert.Equal(t, "carryover fix", entry.Reason)
}

func TestNormalizeLedgerEntry_Rejections(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]any
	}{
		{"missing employee", map[string]any{"date": "2024-01-01", "balance": 1.0}},
		{"bad date", map[string]any{"employee_id": "emp-1", "date": "01/01/2024", "balance": 1.0}},
		{"no delta field", map[string]any{"employee_id": "emp-1", "date": "2024-01-01", "note": "x"}},
	}
	for _, tc := range cases {
		_, err := NormalizeLedgerEntry(tc.raw)
		assert.Error(t, err, tc.name)
	}
}

func TestNormalizeLedgerEntries_BatchRejectedWhole(t *testing.T) {
	// GIVEN: A batch with one malformed record
	// WHEN: Normalizing
	// THEN: The whole batch is rejected so partial imports never land

	raws := []map[string]any{
		{"employee_id": "emp-1", "date": "2024-01-01", "balance": 1.0},
		{"employee_id": "emp-2", "date": "bogus", "balance": 1.0},
	}

	entries, err := NormalizeLedgerEntries(raws)
	require.Error(t, err)
	assert.Nil(t, entries)
	assert.Contains(t, err.Error(), "record 1")
}
