package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseRecord_Valid tests the three-field happy path.
func TestParseRecord_Valid(t *testing.T) {
	rec := ParseRecord("KM1\tB1\tP1")
	require.NotNil(t, rec)
	assert.Equal(t, "KM1", rec.Item)
	assert.Equal(t, "B1", rec.Box)
	assert.Equal(t, "P1", rec.Pallet)
	assert.Empty(t, rec.ProductionDate)
	assert.Empty(t, rec.ExpiryDate)
}

// TestParseRecord_OptionalDates tests the optional fourth and fifth fields.
func TestParseRecord_OptionalDates(t *testing.T) {
	rec := ParseRecord("KM1\tB1\tP1\t2026-01-01\t2027-01-01")
	require.NotNil(t, rec)
	assert.Equal(t, "2026-01-01", rec.ProductionDate)
	assert.Equal(t, "2027-01-01", rec.ExpiryDate)

	rec = ParseRecord("KM1\tB1\tP1\t2026-01-01")
	require.NotNil(t, rec)
	assert.Equal(t, "2026-01-01", rec.ProductionDate)
	assert.Empty(t, rec.ExpiryDate)
}

// TestParseRecord_Malformed tests rows that must be rejected.
func TestParseRecord_Malformed(t *testing.T) {
	assert.Nil(t, ParseRecord(""), "blank line")
	assert.Nil(t, ParseRecord("   "), "whitespace only")
	assert.Nil(t, ParseRecord("KM1\tB1"), "two fields")
	assert.Nil(t, ParseRecord("KM1 B1 P1"), "space separated")
	assert.Nil(t, ParseRecord("KM1\t\tP1"), "empty box field")
	assert.Nil(t, ParseRecord("\x1d\tB1\tP1"), "item normalizes to empty")
}

// TestParseRecord_CarriageReturn tests CRLF input: the trailing CR must not
// leak into the last field.
func TestParseRecord_CarriageReturn(t *testing.T) {
	rec := ParseRecord("KM1\tB1\tP1\r")
	require.NotNil(t, rec)
	assert.Equal(t, "P1", rec.Pallet)
}

// TestParseRecord_NormalizesFields tests that fields go through the shared
// code normalization.
func TestParseRecord_NormalizesFields(t *testing.T) {
	rec := ParseRecord(" KM\x1d1 \t B1 \t P1 ")
	require.NotNil(t, rec)
	assert.Equal(t, "KM1", rec.Item)
	assert.Equal(t, "B1", rec.Box)
	assert.Equal(t, "P1", rec.Pallet)
}

// TestSplitLines tests CRLF and LF handling.
func TestSplitLines(t *testing.T) {
	lines := SplitLines("a\r\nb\nc")
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}
