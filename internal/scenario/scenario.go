// Package scenario loads the demo host's simulation data from YAML.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Wave defines a batch of mobs spawned while the simulation is running.
type Wave struct {
	Name    string  `yaml:"name"`
	Count   int     `yaml:"count"`
	SpeedX  float64 `yaml:"speed_x"`
	SpeedY  float64 `yaml:"speed_y"`
	DelayMS int     `yaml:"delay_ms"` // delay after the previous wave
}

type scenarioFile struct {
	Title string `yaml:"title"`
	Waves []Wave `yaml:"waves"`
}

// Scenario holds the loaded wave table in file order.
type Scenario struct {
	Title string
	waves []Wave
}

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var f scenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	for i, w := range f.Waves {
		if w.Count <= 0 {
			return nil, fmt.Errorf("wave %d (%s): count must be positive", i, w.Name)
		}
	}
	return &Scenario{Title: f.Title, waves: f.Waves}, nil
}

func (s *Scenario) Count() int    { return len(s.waves) }
func (s *Scenario) Waves() []Wave { return s.waves }
