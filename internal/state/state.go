// Package state persists user preferences between runs.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agusx1211/noisebox/internal/eq"
)

type EQ struct {
	Low  float64 `json:"low"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

type Preferences struct {
	NoiseType string  `json:"noiseType"`
	EQ        EQ      `json:"eq"`
	Volume    float64 `json:"volume"`
	Power     bool    `json:"power"`
}

// Load reads preferences from path. A missing file is not an error; the
// returned ok flag reports whether anything was restored. Band gains are
// clamped to the supported range on the way in.
func Load(path string) (Preferences, bool, error) {
	var p Preferences

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, false, nil
		}
		return p, false, fmt.Errorf("reading state file: %w", err)
	}

	if err := json.Unmarshal(data, &p); err != nil {
		return p, false, fmt.Errorf("parsing state file: %w", err)
	}

	p.EQ.Low = eq.ClampGain(p.EQ.Low)
	p.EQ.Mid = eq.ClampGain(p.EQ.Mid)
	p.EQ.High = eq.ClampGain(p.EQ.High)
	return p, true, nil
}

// Save writes preferences to path, creating parent directories as needed.
func Save(path string, p Preferences) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}
