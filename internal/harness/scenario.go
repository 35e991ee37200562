package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. Also the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Records are the manifest rows ingested before scanning starts.
	Records []Record `yaml:"records"`

	// Scans is the scan sequence with per-step expectations.
	Scans []ScanStep `yaml:"scans"`

	// Final optionally asserts the session state after all scans.
	Final *FinalState `yaml:"final,omitempty"`
}

// Record is one manifest row.
type Record struct {
	Item   string `yaml:"item"`
	Box    string `yaml:"box"`
	Pallet string `yaml:"pallet"`
}

// ScanStep is one step of the scan sequence. Exactly one of Code/Remove/
// Reset should be set per step.
type ScanStep struct {
	// Code is scanned through the session.
	Code string `yaml:"code,omitempty"`

	// Remove deletes an item from the scanned list instead of scanning.
	Remove string `yaml:"remove,omitempty"`

	// Reset clears the session (snapshotting is out of harness scope).
	Reset bool `yaml:"reset,omitempty"`

	// Expect validates the step outcome. If nil, the step is assumed to
	// be accepted and only recorded in the trace.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected outcome of a scan step.
type Expect struct {
	// Kind is the expected accepted-scan kind
	// (pallet_selected, box_entered, box_left, item_scanned).
	Kind string `yaml:"kind,omitempty"`

	// Error is the expected rejection code
	// (NOT_FOUND, NEED_PALLET, NEED_BOX, CONFLICT, DUPLICATE_SCAN).
	Error string `yaml:"error,omitempty"`
}

// FinalState asserts the session state after the last step.
type FinalState struct {
	Pallet string   `yaml:"pallet"`
	Box    string   `yaml:"box"`
	Items  []string `yaml:"items"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &sc, nil
}

// Validate checks structural requirements before a scenario runs.
func (sc *Scenario) Validate() error {
	if sc.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if len(sc.Scans) == 0 {
		return fmt.Errorf("scenario needs at least one scan step")
	}
	for i, step := range sc.Scans {
		set := 0
		if step.Code != "" {
			set++
		}
		if step.Remove != "" {
			set++
		}
		if step.Reset {
			set++
		}
		if set != 1 {
			return fmt.Errorf("step %d: exactly one of code, remove, reset must be set", i+1)
		}
		if step.Expect != nil && step.Expect.Kind != "" && step.Expect.Error != "" {
			return fmt.Errorf("step %d: expect cannot set both kind and error", i+1)
		}
	}
	return nil
}

// FindScenarios returns the scenario files under dir (non-recursive),
// sorted by name. filter is an optional glob matched against the base name.
func FindScenarios(dir, filter string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenarios dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if ext := filepath.Ext(name); ext != ".yaml" && ext != ".yml" {
			continue
		}
		if filter != "" {
			ok, err := filepath.Match(filter, name)
			if err != nil {
				return nil, fmt.Errorf("bad filter %q: %w", filter, err)
			}
			if !ok {
				continue
			}
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}
