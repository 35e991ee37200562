package hierarchy

import "sort"

// PalletRow is the persisted form of one pallet. Boxes is the pallet's box
// membership set - kept explicitly because membership and ownership can
// disagree (see package doc).
type PalletRow struct {
	ID    string
	Boxes []string
}

// BoxRow is the persisted form of one box.
type BoxRow struct {
	ID          string
	OwnerPallet string
}

// ItemRow is the persisted form of one item.
type ItemRow struct {
	ID     string
	Box    string
	Pallet string
}

// Snapshot is a lossless, deterministic flattening of the index. All rows
// and row-internal lists are sorted by id so identical indexes produce
// identical snapshots.
type Snapshot struct {
	Pallets []PalletRow
	Boxes   []BoxRow
	Items   []ItemRow
}

// Snapshot flattens the index for persistence.
func (x *Index) Snapshot() Snapshot {
	snap := Snapshot{
		Pallets: make([]PalletRow, 0, len(x.pallets)),
		Boxes:   make([]BoxRow, 0, len(x.boxes)),
		Items:   make([]ItemRow, 0, len(x.items)),
	}

	for id, p := range x.pallets {
		boxes := make([]string, 0, len(p.Boxes))
		for b := range p.Boxes {
			boxes = append(boxes, b)
		}
		sort.Strings(boxes)
		snap.Pallets = append(snap.Pallets, PalletRow{ID: id, Boxes: boxes})
	}
	sort.Slice(snap.Pallets, func(i, j int) bool { return snap.Pallets[i].ID < snap.Pallets[j].ID })

	for id, b := range x.boxes {
		snap.Boxes = append(snap.Boxes, BoxRow{ID: id, OwnerPallet: b.OwnerPallet})
	}
	sort.Slice(snap.Boxes, func(i, j int) bool { return snap.Boxes[i].ID < snap.Boxes[j].ID })

	for id, it := range x.items {
		snap.Items = append(snap.Items, ItemRow{ID: id, Box: it.Box, Pallet: it.Pallet})
	}
	sort.Slice(snap.Items, func(i, j int) bool { return snap.Items[i].ID < snap.Items[j].ID })

	return snap
}

// FromSnapshot rebuilds an index from a persisted snapshot.
//
// Pallet and box item sets are reconstructed from the item rows; pallet box
// membership comes from the pallet rows. Query results after a rebuild are
// identical to those of the index the snapshot was taken from.
func FromSnapshot(snap Snapshot) *Index {
	x := New()

	for _, row := range snap.Pallets {
		p := &Pallet{
			Boxes: make(map[string]struct{}, len(row.Boxes)),
			Items: make(map[string]struct{}),
		}
		for _, b := range row.Boxes {
			p.Boxes[b] = struct{}{}
		}
		x.pallets[row.ID] = p
	}

	for _, row := range snap.Boxes {
		x.boxes[row.ID] = &Box{
			OwnerPallet: row.OwnerPallet,
			Items:       make(map[string]struct{}),
		}
	}

	for _, row := range snap.Items {
		x.items[row.ID] = Item{Box: row.Box, Pallet: row.Pallet}
		if p, ok := x.pallets[row.Pallet]; ok {
			p.Items[row.ID] = struct{}{}
		}
		if b, ok := x.boxes[row.Box]; ok {
			b.Items[row.ID] = struct{}{}
		}
	}

	return x
}
