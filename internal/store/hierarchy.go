package store

import (
	"context"
	"fmt"

	"github.com/roach88/aggcheck/internal/hierarchy"
)

// SaveHierarchy replaces the persisted hierarchy snapshot wholesale.
// The delete+insert runs in one transaction: either the new snapshot lands
// completely or the old one stays intact.
func (s *Store) SaveHierarchy(ctx context.Context, snap hierarchy.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save hierarchy: begin: %w", err)
	}
	defer tx.Rollback()

	// Children first, foreign keys are ON.
	for _, table := range []string{"items", "pallet_boxes", "boxes", "pallets"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("save hierarchy: clear %s: %w", table, err)
		}
	}

	for _, p := range snap.Pallets {
		if _, err := tx.ExecContext(ctx, "INSERT INTO pallets (id) VALUES (?)", p.ID); err != nil {
			return fmt.Errorf("save hierarchy: insert pallet %s: %w", p.ID, err)
		}
	}

	for _, b := range snap.Boxes {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO boxes (id, owner_pallet) VALUES (?, ?)", b.ID, b.OwnerPallet,
		); err != nil {
			return fmt.Errorf("save hierarchy: insert box %s: %w", b.ID, err)
		}
	}

	for _, p := range snap.Pallets {
		for _, boxID := range p.Boxes {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO pallet_boxes (pallet_id, box_id) VALUES (?, ?)", p.ID, boxID,
			); err != nil {
				return fmt.Errorf("save hierarchy: insert pallet_box %s/%s: %w", p.ID, boxID, err)
			}
		}
	}

	for _, it := range snap.Items {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO items (id, box_id, pallet_id) VALUES (?, ?, ?)", it.ID, it.Box, it.Pallet,
		); err != nil {
			return fmt.Errorf("save hierarchy: insert item %s: %w", it.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save hierarchy: commit: %w", err)
	}
	return nil
}

// LoadHierarchy reads the persisted snapshot. An empty database yields an
// empty snapshot, not an error.
//
// All queries order by id COLLATE BINARY so a load is deterministic and
// matches the sorted order Snapshot produces.
func (s *Store) LoadHierarchy(ctx context.Context) (hierarchy.Snapshot, error) {
	var snap hierarchy.Snapshot

	palletBoxes := make(map[string][]string)
	rows, err := s.db.QueryContext(ctx,
		"SELECT pallet_id, box_id FROM pallet_boxes ORDER BY pallet_id, box_id COLLATE BINARY")
	if err != nil {
		return snap, fmt.Errorf("load hierarchy: pallet_boxes: %w", err)
	}
	for rows.Next() {
		var palletID, boxID string
		if err := rows.Scan(&palletID, &boxID); err != nil {
			rows.Close()
			return snap, fmt.Errorf("load hierarchy: scan pallet_box: %w", err)
		}
		palletBoxes[palletID] = append(palletBoxes[palletID], boxID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return snap, fmt.Errorf("load hierarchy: pallet_boxes: %w", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, "SELECT id FROM pallets ORDER BY id COLLATE BINARY")
	if err != nil {
		return snap, fmt.Errorf("load hierarchy: pallets: %w", err)
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return snap, fmt.Errorf("load hierarchy: scan pallet: %w", err)
		}
		snap.Pallets = append(snap.Pallets, hierarchy.PalletRow{ID: id, Boxes: palletBoxes[id]})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return snap, fmt.Errorf("load hierarchy: pallets: %w", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, "SELECT id, owner_pallet FROM boxes ORDER BY id COLLATE BINARY")
	if err != nil {
		return snap, fmt.Errorf("load hierarchy: boxes: %w", err)
	}
	for rows.Next() {
		var row hierarchy.BoxRow
		if err := rows.Scan(&row.ID, &row.OwnerPallet); err != nil {
			rows.Close()
			return snap, fmt.Errorf("load hierarchy: scan box: %w", err)
		}
		snap.Boxes = append(snap.Boxes, row)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return snap, fmt.Errorf("load hierarchy: boxes: %w", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, "SELECT id, box_id, pallet_id FROM items ORDER BY id COLLATE BINARY")
	if err != nil {
		return snap, fmt.Errorf("load hierarchy: items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var row hierarchy.ItemRow
		if err := rows.Scan(&row.ID, &row.Box, &row.Pallet); err != nil {
			return snap, fmt.Errorf("load hierarchy: scan item: %w", err)
		}
		snap.Items = append(snap.Items, row)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("load hierarchy: items: %w", err)
	}

	return snap, nil
}
