package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fieldside/sideline/internal/exam"
)

func TestInitSidelineDirCreatesLayout(t *testing.T) {
	base := t.TempDir()
	if err := InitSidelineDir(base); err != nil {
		t.Fatalf("InitSidelineDir: %v", err)
	}
	for _, dir := range []string{"logs", "results", "transcripts"} {
		path := filepath.Join(base, SidelineDir, dir)
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("missing %s: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("%s is not a directory", path)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	proto := cfg.Protocol()
	if len(proto.WordList) != 5 {
		t.Fatalf("word list = %v", proto.WordList)
	}
	if len(proto.OrientationQuestions) != 5 {
		t.Fatalf("orientation questions = %d", len(proto.OrientationQuestions))
	}
	if len(proto.SymptomItems) != 22 {
		t.Fatalf("symptom items = %d, want 22", len(proto.SymptomItems))
	}
	if cfg.ConfirmTimeout() != 5*time.Second {
		t.Fatalf("confirm timeout = %v", cfg.ConfirmTimeout())
	}

	full, err := cfg.ModuleOrder(exam.SessionTypeFull)
	if err != nil {
		t.Fatalf("full order: %v", err)
	}
	if len(full) != 7 || full[0] != exam.ModuleSymptom || full[6] != exam.ModuleDelayedRecall {
		t.Fatalf("full order = %v", full)
	}
	emergency, err := cfg.ModuleOrder(exam.SessionTypeEmergency)
	if err != nil {
		t.Fatalf("emergency order: %v", err)
	}
	if len(emergency) != 3 {
		t.Fatalf("emergency order = %v", emergency)
	}
}

func TestLoadOverlay(t *testing.T) {
	base := t.TempDir()
	if err := InitSidelineDir(base); err != nil {
		t.Fatalf("InitSidelineDir: %v", err)
	}
	overlay := `
version: 1
display:
  confirm_timeout_seconds: 9
bridge:
  enabled: false
  port: 9911
battery:
  word_list: [candle, paper, sugar, sandwich, wagon]
  orders:
    emergency: [orientation, neuro]
`
	path := filepath.Join(base, SidelineDir, ConfigFileName)
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(base)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ConfirmTimeout() != 9*time.Second {
		t.Fatalf("confirm timeout = %v", cfg.ConfirmTimeout())
	}
	if cfg.Project.Bridge.Enabled == nil || *cfg.Project.Bridge.Enabled {
		t.Fatalf("bridge enabled override lost: %+v", cfg.Project.Bridge)
	}
	if cfg.Project.Bridge.Port != 9911 {
		t.Fatalf("bridge port = %d", cfg.Project.Bridge.Port)
	}
	proto := cfg.Protocol()
	if proto.WordList[0] != "candle" {
		t.Fatalf("word list override lost: %v", proto.WordList)
	}
	// Sections absent from the overlay keep their defaults.
	if len(proto.DigitSequences) != 4 {
		t.Fatalf("digit sequences = %v", proto.DigitSequences)
	}
	emergency, err := cfg.ModuleOrder(exam.SessionTypeEmergency)
	if err != nil {
		t.Fatalf("emergency order: %v", err)
	}
	if len(emergency) != 2 || emergency[1] != exam.ModuleNeuro {
		t.Fatalf("emergency order = %v", emergency)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	base := t.TempDir()
	if err := InitSidelineDir(base); err != nil {
		t.Fatalf("InitSidelineDir: %v", err)
	}
	path := filepath.Join(base, SidelineDir, ConfigFileName)
	if err := os.WriteFile(path, []byte("battery: ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(base); err == nil {
		t.Fatalf("malformed config accepted")
	}
}

func TestModuleOrderRejectsUnknownModule(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Project.Battery.Orders["full"] = []string{"orientation", "juggling"}
	if _, err := cfg.ModuleOrder(exam.SessionTypeFull); err == nil {
		t.Fatalf("unknown module accepted in order")
	}
}

func TestModuleOrderUnknownType(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := cfg.ModuleOrder(exam.SessionType("casual")); err == nil {
		t.Fatalf("unknown session type resolved an order")
	}
}

func TestConfirmTimeoutFallsBackWhenNonPositive(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Project.Display.ConfirmTimeoutSeconds = 0
	if cfg.ConfirmTimeout() != 5*time.Second {
		t.Fatalf("confirm timeout = %v", cfg.ConfirmTimeout())
	}
}
