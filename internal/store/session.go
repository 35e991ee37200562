package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/aggcheck/internal/session"
)

// SaveSession upserts the singleton session snapshot.
func (s *Store) SaveSession(ctx context.Context, state session.State, savedAt time.Time) error {
	itemsJSON, err := marshalItems(state.Items)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session_snapshot (id, pallet, box, items, saved_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			pallet = excluded.pallet,
			box = excluded.box,
			items = excluded.items,
			saved_at = excluded.saved_at
	`,
		state.Pallet,
		state.Box,
		itemsJSON,
		savedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession reads the persisted session snapshot.
// ok is false when no snapshot has ever been saved.
func (s *Store) LoadSession(ctx context.Context) (state session.State, savedAt time.Time, ok bool, err error) {
	var itemsJSON, savedAtText string
	row := s.db.QueryRowContext(ctx,
		"SELECT pallet, box, items, saved_at FROM session_snapshot WHERE id = 1")
	if err := row.Scan(&state.Pallet, &state.Box, &itemsJSON, &savedAtText); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.State{}, time.Time{}, false, nil
		}
		return session.State{}, time.Time{}, false, fmt.Errorf("load session: %w", err)
	}

	state.Items, err = unmarshalItems(itemsJSON)
	if err != nil {
		return session.State{}, time.Time{}, false, fmt.Errorf("load session: %w", err)
	}

	savedAt, err = time.Parse(time.RFC3339Nano, savedAtText)
	if err != nil {
		return session.State{}, time.Time{}, false, fmt.Errorf("load session: parse saved_at: %w", err)
	}

	return state, savedAt, true, nil
}
