package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegister_BuildsHierarchy tests basic three-level registration.
func TestRegister_BuildsHierarchy(t *testing.T) {
	x := New()

	require.True(t, x.Register("KM1", "B1", "P1"))
	require.True(t, x.Register("KM2", "B1", "P1"))

	assert.True(t, x.HasPallet("P1"))
	assert.True(t, x.HasBox("B1"))
	assert.True(t, x.HasItem("KM1"))
	assert.True(t, x.HasItem("KM2"))

	p, err := x.Pallet("P1")
	require.NoError(t, err)
	assert.Len(t, p.Boxes, 1)
	assert.Len(t, p.Items, 2)

	b, err := x.Box("B1")
	require.NoError(t, err)
	assert.Equal(t, "P1", b.OwnerPallet)
	assert.Len(t, b.Items, 2)

	it, err := x.Item("KM1")
	require.NoError(t, err)
	assert.Equal(t, "B1", it.Box)
	assert.Equal(t, "P1", it.Pallet)
}

// TestRegister_DuplicateItemIgnored tests global item dedup: the second
// registration of an item id has no effect, even under a different
// box/pallet.
func TestRegister_DuplicateItemIgnored(t *testing.T) {
	x := New()

	require.True(t, x.Register("KM1", "B1", "P1"))
	require.False(t, x.Register("KM1", "B2", "P2"))

	// The item's recorded location is unchanged.
	it, err := x.Item("KM1")
	require.NoError(t, err)
	assert.Equal(t, "B1", it.Box)
	assert.Equal(t, "P1", it.Pallet)
	assert.Equal(t, 1, x.Stats().Items)

	// But the containers from the duplicate row were still materialized.
	assert.True(t, x.HasPallet("P2"))
	assert.True(t, x.HasBox("B2"))

	// The duplicate row did not link anything.
	p2, err := x.Pallet("P2")
	require.NoError(t, err)
	assert.Empty(t, p2.Boxes)
	assert.Empty(t, p2.Items)
	b2, err := x.Box("B2")
	require.NoError(t, err)
	assert.Empty(t, b2.Items)
}

// TestRegister_BoxOwnershipAnomaly documents the deliberate anomaly: a box
// referenced under a second pallet keeps its first owner but joins the
// second pallet's box set.
func TestRegister_BoxOwnershipAnomaly(t *testing.T) {
	x := New()

	require.True(t, x.Register("KM1", "B1", "P1"))
	require.True(t, x.Register("KM2", "B1", "P2"))

	b, err := x.Box("B1")
	require.NoError(t, err)
	assert.Equal(t, "P1", b.OwnerPallet, "owner fixed at first registration")

	p2, err := x.Pallet("P2")
	require.NoError(t, err)
	assert.Contains(t, p2.Boxes, "B1", "box joined the second pallet's set")
	assert.Contains(t, p2.Items, "KM2")
}

// TestLookups_NotFound tests that getters fail with NotFoundError.
func TestLookups_NotFound(t *testing.T) {
	x := New()

	_, err := x.Pallet("nope")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, KindPallet, nf.Kind)
	assert.Equal(t, "nope", nf.ID)

	_, err = x.Box("nope")
	assert.True(t, IsNotFound(err))
	_, err = x.Item("nope")
	assert.True(t, IsNotFound(err))
}

// TestStats_Counts tests entity counting.
func TestStats_Counts(t *testing.T) {
	x := New()
	x.Register("KM1", "B1", "P1")
	x.Register("KM2", "B2", "P1")
	x.Register("KM3", "B2", "P1")

	assert.Equal(t, Stats{Pallets: 1, Boxes: 2, Items: 3}, x.Stats())
}

// TestClear_EmptiesAll tests that Clear drops everything.
func TestClear_EmptiesAll(t *testing.T) {
	x := New()
	x.Register("KM1", "B1", "P1")

	x.Clear()

	assert.Equal(t, Stats{}, x.Stats())
	assert.False(t, x.HasPallet("P1"))
	assert.False(t, x.HasBox("B1"))
	assert.False(t, x.HasItem("KM1"))
}

// TestNotFoundError_Message tests error formatting.
func TestNotFoundError_Message(t *testing.T) {
	err := &NotFoundError{Kind: KindBox, ID: "B9"}
	assert.Equal(t, `box "B9" not found`, err.Error())
}

// TestIDLists tests the id accessors used by persistence and reports.
func TestIDLists(t *testing.T) {
	x := New()
	x.Register("KM1", "B1", "P1")
	x.Register("KM2", "B2", "P2")

	assert.ElementsMatch(t, []string{"P1", "P2"}, x.PalletIDs())
	assert.ElementsMatch(t, []string{"B1", "B2"}, x.BoxIDs())
	assert.ElementsMatch(t, []string{"KM1", "KM2"}, x.ItemIDs())
}
