package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/aggcheck/internal/history"
	"github.com/roach88/aggcheck/internal/session"
)

// SaveHistory replaces the persisted history log wholesale in one
// transaction. checks must be newest-first; position 0 is the head.
func (s *Store) SaveHistory(ctx context.Context, checks []history.CheckRecord, lastFile *history.FileMeta) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save history: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM checks"); err != nil {
		return fmt.Errorf("save history: clear checks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM last_file"); err != nil {
		return fmt.Errorf("save history: clear last_file: %w", err)
	}

	for pos, check := range checks {
		itemsJSON, err := marshalItems(check.State.Items)
		if err != nil {
			return fmt.Errorf("save history: check %s: %w", check.ID, err)
		}
		metaJSON, hasMeta, err := marshalFileMeta(check.File)
		if err != nil {
			return fmt.Errorf("save history: check %s: %w", check.ID, err)
		}
		var metaValue any
		if hasMeta {
			metaValue = metaJSON
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO checks
			(position, id, ts, pallet, box, items, file_meta,
			 stat_pallets, stat_boxes, stat_items,
			 sum_items, sum_pallets, sum_boxes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			pos,
			check.ID,
			check.Timestamp.UTC().Format(time.RFC3339Nano),
			check.State.Pallet,
			check.State.Box,
			itemsJSON,
			metaValue,
			check.Stats.Pallets,
			check.Stats.Boxes,
			check.Stats.Items,
			check.Summary.Items,
			check.Summary.Pallets,
			check.Summary.Boxes,
		)
		if err != nil {
			return fmt.Errorf("save history: insert check %s: %w", check.ID, err)
		}
	}

	if lastFile != nil {
		metaJSON, _, err := marshalFileMeta(lastFile)
		if err != nil {
			return fmt.Errorf("save history: last file: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO last_file (id, meta) VALUES (1, ?)", metaJSON,
		); err != nil {
			return fmt.Errorf("save history: insert last_file: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save history: commit: %w", err)
	}
	return nil
}

// LoadHistory reads the persisted history log, newest first.
func (s *Store) LoadHistory(ctx context.Context) ([]history.CheckRecord, *history.FileMeta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ts, pallet, box, items, file_meta,
		       stat_pallets, stat_boxes, stat_items,
		       sum_items, sum_pallets, sum_boxes
		FROM checks
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("load history: checks: %w", err)
	}
	defer rows.Close()

	var checks []history.CheckRecord
	for rows.Next() {
		var (
			check     history.CheckRecord
			tsText    string
			itemsJSON string
			metaJSON  sql.NullString
			state     session.State
		)
		if err := rows.Scan(
			&check.ID, &tsText, &state.Pallet, &state.Box, &itemsJSON, &metaJSON,
			&check.Stats.Pallets, &check.Stats.Boxes, &check.Stats.Items,
			&check.Summary.Items, &check.Summary.Pallets, &check.Summary.Boxes,
		); err != nil {
			return nil, nil, fmt.Errorf("load history: scan check: %w", err)
		}

		check.Timestamp, err = time.Parse(time.RFC3339Nano, tsText)
		if err != nil {
			return nil, nil, fmt.Errorf("load history: parse ts for %s: %w", check.ID, err)
		}
		state.Items, err = unmarshalItems(itemsJSON)
		if err != nil {
			return nil, nil, fmt.Errorf("load history: check %s: %w", check.ID, err)
		}
		check.State = state

		if metaJSON.Valid {
			check.File, err = unmarshalFileMeta(metaJSON.String)
			if err != nil {
				return nil, nil, fmt.Errorf("load history: check %s: %w", check.ID, err)
			}
		}

		checks = append(checks, check)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("load history: checks: %w", err)
	}

	var lastFile *history.FileMeta
	var metaText string
	row := s.db.QueryRowContext(ctx, "SELECT meta FROM last_file WHERE id = 1")
	if err := row.Scan(&metaText); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("load history: last_file: %w", err)
		}
	} else {
		lastFile, err = unmarshalFileMeta(metaText)
		if err != nil {
			return nil, nil, fmt.Errorf("load history: last_file: %w", err)
		}
	}

	return checks, lastFile, nil
}
