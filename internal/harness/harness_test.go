package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRun_TraceAndFinal tests that a passing scenario produces a full trace
// and the expected final state.
func TestRun_TraceAndFinal(t *testing.T) {
	sc := &Scenario{
		Name: "inline",
		Records: []Record{
			{Item: "KM1", Box: "B1", Pallet: "P1"},
			{Item: "KM2", Box: "B1", Pallet: "P1"},
		},
		Scans: []ScanStep{
			{Code: "P1", Expect: &Expect{Kind: "pallet_selected"}},
			{Code: "B1", Expect: &Expect{Kind: "box_entered"}},
			{Code: "KM1", Expect: &Expect{Kind: "item_scanned"}},
			{Code: "KM2"},
			{Remove: "KM1"},
		},
		Final: &FinalState{Pallet: "P1", Box: "B1", Items: []string{"KM2"}},
	}

	result, err := Run(sc)
	require.NoError(t, err)
	assert.True(t, result.Pass(), "failures: %v", result.Failures)

	require.Len(t, result.Trace, 5)
	assert.Equal(t, TraceEvent{Step: 1, Code: "P1", Kind: "pallet_selected", Pallet: "P1"}, result.Trace[0])
	assert.Equal(t, TraceEvent{Step: 4, Code: "KM2", Kind: "item_scanned", Pallet: "P1", Box: "B1", Items: 2}, result.Trace[3])
	assert.Equal(t, TraceEvent{Step: 5, Removed: "KM1", Pallet: "P1", Box: "B1", Items: 1}, result.Trace[4])

	assert.Equal(t, "P1", result.Final.Pallet)
	assert.Equal(t, []string{"KM2"}, result.Final.Items)
}

// TestRun_RejectionsLandInTrace tests that scan rejections are trace events,
// not run errors.
func TestRun_RejectionsLandInTrace(t *testing.T) {
	sc := &Scenario{
		Name:    "rejections-inline",
		Records: []Record{{Item: "KM1", Box: "B1", Pallet: "P1"}},
		Scans: []ScanStep{
			{Code: "KM1", Expect: &Expect{Error: "NEED_PALLET"}},
			{Code: "NOPE", Expect: &Expect{Error: "NOT_FOUND"}},
		},
	}

	result, err := Run(sc)
	require.NoError(t, err)
	assert.True(t, result.Pass(), "failures: %v", result.Failures)
	assert.Equal(t, "NEED_PALLET", result.Trace[0].Error)
	assert.Empty(t, result.Trace[0].Kind)
}

// TestRun_ExpectationFailures tests that mismatches are collected, one per
// failed expectation, and the run still completes.
func TestRun_ExpectationFailures(t *testing.T) {
	sc := &Scenario{
		Name:    "failing",
		Records: []Record{{Item: "KM1", Box: "B1", Pallet: "P1"}},
		Scans: []ScanStep{
			{Code: "P1", Expect: &Expect{Kind: "box_entered"}},
			{Code: "NOPE", Expect: &Expect{Kind: "item_scanned"}},
			{Code: "B1", Expect: &Expect{Error: "CONFLICT"}},
		},
		Final: &FinalState{Pallet: "P9", Box: "B1"},
	}

	result, err := Run(sc)
	require.NoError(t, err)
	assert.False(t, result.Pass())
	require.Len(t, result.Failures, 4, "three step mismatches plus the final pallet")
	assert.Contains(t, result.Failures[0], "step 1")
	assert.Contains(t, result.Failures[3], "final")
}

// TestValidate tests the structural rules for scenario files.
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		sc      Scenario
		wantErr string
	}{
		{
			name:    "missing name",
			sc:      Scenario{Scans: []ScanStep{{Code: "X"}}},
			wantErr: "name is required",
		},
		{
			name:    "no scans",
			sc:      Scenario{Name: "x"},
			wantErr: "at least one scan step",
		},
		{
			name:    "empty step",
			sc:      Scenario{Name: "x", Scans: []ScanStep{{}}},
			wantErr: "exactly one of",
		},
		{
			name:    "code and reset together",
			sc:      Scenario{Name: "x", Scans: []ScanStep{{Code: "X", Reset: true}}},
			wantErr: "exactly one of",
		},
		{
			name: "expect with kind and error",
			sc: Scenario{Name: "x", Scans: []ScanStep{
				{Code: "X", Expect: &Expect{Kind: "item_scanned", Error: "CONFLICT"}},
			}},
			wantErr: "both kind and error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sc.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestLoad tests parsing a scenario file from testdata.
func TestLoad(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "scenarios", "basic_flow.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "basic_flow", sc.Name)
	assert.NotEmpty(t, sc.Description)
	assert.NotEmpty(t, sc.Records)
	assert.NotEmpty(t, sc.Scans)
	require.NotNil(t, sc.Final)
}

// TestLoad_Invalid tests that structural errors surface at load time.
func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: bad\nscans:\n  - code: X\n    reset: true\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of")
}

// TestLoad_MissingFile tests the read error path.
func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

// TestFindScenarios tests discovery, extension filtering, sorting, and the
// optional glob filter.
func TestFindScenarios(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt", "c.yaml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o755))

	files, err := FindScenarios(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "c.yaml"),
	}, files)

	files, err = FindScenarios(dir, "b.*")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.yaml")}, files)

	_, err = FindScenarios(filepath.Join(dir, "missing"), "")
	assert.Error(t, err)
}

// TestScenarios_Golden replays every testdata scenario and compares traces
// against their golden files.
func TestScenarios_Golden(t *testing.T) {
	files, err := FindScenarios(filepath.Join("testdata", "scenarios"), "")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, path := range files {
		sc, err := Load(path)
		require.NoError(t, err)
		t.Run(sc.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, sc))
		})
	}
}
