// Package config handles configuration and the .sideline directory layout.
// Every examiner machine gets a .sideline/ folder holding the config file,
// logs, stored results, and administration transcripts.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fieldside/sideline/internal/exam"
)

const (
	// SidelineDir is the dot-directory created under the base directory.
	SidelineDir = ".sideline"
	// ConfigFileName is the YAML file under SidelineDir.
	ConfigFileName = "config.yaml"

	defaultConfirmTimeoutSeconds = 5
)

// BridgeConfig models the bridge: section of config.yaml.
type BridgeConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Host    string `yaml:"host,omitempty"`
	Port    int    `yaml:"port,omitempty"`
}

// DisplayConfig models the display: section.
type DisplayConfig struct {
	ConfirmTimeoutSeconds int `yaml:"confirm_timeout_seconds,omitempty"`
}

// BatteryConfig models the battery: section — the administration content and
// the module order per session type.
type BatteryConfig struct {
	WordList             []string            `yaml:"word_list,omitempty"`
	DigitSequences       []string            `yaml:"digit_sequences,omitempty"`
	OrientationQuestions []string            `yaml:"orientation_questions,omitempty"`
	SymptomItems         []string            `yaml:"symptom_items,omitempty"`
	Stances              []string            `yaml:"stances,omitempty"`
	NeuroItems           []string            `yaml:"neuro_items,omitempty"`
	Orders               map[string][]string `yaml:"orders,omitempty"`
}

// ProjectConfig models .sideline/config.yaml.
type ProjectConfig struct {
	Version int           `yaml:"version"`
	Bridge  BridgeConfig  `yaml:"bridge,omitempty"`
	Display DisplayConfig `yaml:"display,omitempty"`
	Battery BatteryConfig `yaml:"battery,omitempty"`
}

// Config holds the runtime configuration.
type Config struct {
	// BaseDir is the directory the tool was pointed at (usually $HOME).
	BaseDir string
	// SidelineHome is BaseDir/.sideline.
	SidelineHome string

	Project ProjectConfig
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Display: DisplayConfig{ConfirmTimeoutSeconds: defaultConfirmTimeoutSeconds},
		Battery: BatteryConfig{
			WordList:       []string{"finger", "penny", "blanket", "lemon", "insect"},
			DigitSequences: []string{"493", "3814", "62971", "718462"},
			OrientationQuestions: []string{
				"What month is it?",
				"What is the date today?",
				"What is the day of the week?",
				"What year is it?",
				"What time is it right now? (within 1 hour)",
			},
			SymptomItems: []string{
				"Headache", "Pressure in head", "Neck pain", "Nausea or vomiting",
				"Dizziness", "Blurred vision", "Balance problems",
				"Sensitivity to light", "Sensitivity to noise", "Feeling slowed down",
				"Feeling like in a fog", "Don't feel right", "Difficulty concentrating",
				"Difficulty remembering", "Fatigue or low energy", "Confusion",
				"Drowsiness", "More emotional", "Irritability", "Sadness",
				"Nervous or anxious", "Trouble falling asleep",
			},
			Stances: []string{"double-leg", "single-leg", "tandem"},
			NeuroItems: []string{
				"Reads aloud and follows instructions without difficulty",
				"Full pain-free passive neck movement",
				"No double vision on gaze testing",
				"Finger-to-nose accurate both sides",
				"Normal tandem gait",
			},
			Orders: map[string][]string{
				string(exam.SessionTypeFull): {
					string(exam.ModuleSymptom),
					string(exam.ModuleOrientation),
					string(exam.ModuleMemory),
					string(exam.ModuleConcentration),
					string(exam.ModuleNeuro),
					string(exam.ModuleBalance),
					string(exam.ModuleDelayedRecall),
				},
				string(exam.SessionTypeEmergency): {
					string(exam.ModuleOrientation),
					string(exam.ModuleMemory),
					string(exam.ModuleNeuro),
				},
			},
		},
	}
}

// InitSidelineDir creates the .sideline directory structure under baseDir.
//
// Structure created:
//
//	.sideline/
//	├── logs/         <- rotated runtime logs
//	├── results/      <- results.db (SQLite)
//	└── transcripts/  <- per-session administration transcripts
func InitSidelineDir(baseDir string) error {
	home := filepath.Join(baseDir, SidelineDir)
	dirs := []string{
		filepath.Join(home, "logs"),
		filepath.Join(home, "results"),
		filepath.Join(home, "transcripts"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	return nil
}

// Load builds the runtime configuration from defaults overlaid with
// .sideline/config.yaml when present.
func Load(baseDir string) (*Config, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		return nil, fmt.Errorf("config: base directory is required")
	}
	c := &Config{
		BaseDir:      baseDir,
		SidelineHome: filepath.Join(baseDir, SidelineDir),
		Project:      defaultProjectConfig(),
	}
	if err := c.loadProjectConfig(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) loadProjectConfig() error {
	path := filepath.Join(c.SidelineHome, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	overlay := c.Project
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.Project = overlay
	return nil
}

// LogsDir is where rotated runtime logs live.
func (c *Config) LogsDir() string {
	return filepath.Join(c.SidelineHome, "logs")
}

// ResultsDBPath is the SQLite file storing completed results.
func (c *Config) ResultsDBPath() string {
	return filepath.Join(c.SidelineHome, "results", "results.db")
}

// TranscriptsDir is where administration transcripts are written.
func (c *Config) TranscriptsDir() string {
	return filepath.Join(c.SidelineHome, "transcripts")
}

// ConfirmTimeout is the bounded wait for display show/hide confirmations.
func (c *Config) ConfirmTimeout() time.Duration {
	seconds := c.Project.Display.ConfirmTimeoutSeconds
	if seconds <= 0 {
		seconds = defaultConfirmTimeoutSeconds
	}
	return time.Duration(seconds) * time.Second
}

// Protocol assembles the administration content for controllers.
func (c *Config) Protocol() exam.Protocol {
	b := c.Project.Battery
	return exam.Protocol{
		WordList:             append([]string{}, b.WordList...),
		DigitSequences:       append([]string{}, b.DigitSequences...),
		OrientationQuestions: append([]string{}, b.OrientationQuestions...),
		SymptomItems:         append([]string{}, b.SymptomItems...),
		Stances:              append([]string{}, b.Stances...),
		NeuroItems:           append([]string{}, b.NeuroItems...),
	}
}

// ModuleOrder resolves the ordered battery for a session type.
func (c *Config) ModuleOrder(t exam.SessionType) ([]exam.ModuleID, error) {
	raw, ok := c.Project.Battery.Orders[string(t)]
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("config: no module order for session type %q", t)
	}
	order := make([]exam.ModuleID, 0, len(raw))
	for _, id := range raw {
		mid := exam.ModuleID(strings.TrimSpace(id))
		if !mid.IsValid() {
			return nil, fmt.Errorf("config: unknown module %q in %s order", id, t)
		}
		order = append(order, mid)
	}
	return order, nil
}
