package report

import (
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/aggcheck/internal/hierarchy"
	"github.com/roach88/aggcheck/internal/history"
	"github.com/roach88/aggcheck/internal/session"
)

var generatedAt = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// TestRender_FullReport tests the complete layout: file section, stats,
// latest check with 1-indexed items, and the recent checks list.
func TestRender_FullReport(t *testing.T) {
	meta := &history.FileMeta{
		Name:  "manifest.txt",
		Size:  1024,
		Date:  time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC),
		Lines: 100,
	}
	current := history.CheckRecord{
		ID:        "check-0001",
		Timestamp: time.Date(2026, 3, 15, 11, 30, 0, 0, time.UTC),
		State:     session.State{Pallet: "P1", Box: "B1", Items: []string{"KM1", "KM2"}},
		File:      meta,
		Summary:   history.Summary{Items: 2, Pallets: 1, Boxes: 1},
	}
	earlier := history.CheckRecord{
		ID:        "check-0000",
		Timestamp: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
		State:     session.State{Pallet: "P2"},
		Summary:   history.Summary{Pallets: 1},
	}

	rep := history.Report{
		Current:  &current,
		Stats:    hierarchy.Stats{Pallets: 2, Boxes: 3, Items: 10},
		Recent:   []history.CheckRecord{current, earlier},
		LastFile: meta,
	}

	newGoldie(t).Assert(t, "full_report", []byte(Render(rep, generatedAt)))
}

// TestRender_EmptyReport tests output before any ingestion or checks.
func TestRender_EmptyReport(t *testing.T) {
	rep := history.Report{}
	newGoldie(t).Assert(t, "empty_report", []byte(Render(rep, generatedAt)))
}

// TestFilename tests export name derivation from the manifest name.
func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		meta *history.FileMeta
		want string
	}{
		{
			name: "manifest extension stripped",
			meta: &history.FileMeta{Name: "manifest.txt"},
			want: "report_manifest_2026-03-15.txt",
		},
		{
			name: "multiple dots keep earlier parts",
			meta: &history.FileMeta{Name: "batch.2026.tsv"},
			want: "report_batch.2026_2026-03-15.txt",
		},
		{
			name: "no extension used as-is",
			meta: &history.FileMeta{Name: "manifest"},
			want: "report_manifest_2026-03-15.txt",
		},
		{
			name: "dotfile name kept whole",
			meta: &history.FileMeta{Name: ".manifest"},
			want: "report_.manifest_2026-03-15.txt",
		},
		{
			name: "nil meta falls back",
			meta: nil,
			want: "report_check_2026-03-15.txt",
		},
		{
			name: "empty name falls back",
			meta: &history.FileMeta{},
			want: "report_check_2026-03-15.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.meta, generatedAt))
		})
	}
}
