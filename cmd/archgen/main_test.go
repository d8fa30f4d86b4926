package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writePlanFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write plan file: %v", err)
	}
	return path
}

func TestValidateCompliantPlan(t *testing.T) {
	path := writePlanFile(t, `{
		"config": {
			"plotWidth": 12,
			"plotDepth": 18,
			"requirements": ["master bedroom", "kitchen", "living room"]
		},
		"rooms": [
			{"id": "master", "name": "Master Bedroom", "type": "room", "x": 2, "y": 4, "width": 4, "height": 3},
			{"id": "kitchen", "name": "Kitchen", "type": "room", "x": 6.5, "y": 4, "width": 3, "height": 2},
			{"id": "living", "name": "Living Room", "type": "room", "x": 2, "y": 8, "width": 4, "height": 3}
		]
	}`)

	if err := validate(path); err != nil {
		t.Errorf("validate() error = %v", err)
	}
}

func TestValidateCriticalViolationFails(t *testing.T) {
	// The master bedroom sits at the plot origin, inside the front and
	// left setbacks.
	path := writePlanFile(t, `{
		"config": {
			"plotWidth": 12,
			"plotDepth": 18,
			"requirements": ["master bedroom"]
		},
		"rooms": [
			{"id": "master", "name": "Master Bedroom", "type": "room", "x": 0, "y": 0, "width": 4, "height": 3}
		]
	}`)

	if err := validate(path); err == nil {
		t.Error("expected error for plan with critical violations")
	}
}

func TestValidateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed JSON", `{`},
		{"invalid config", `{"config": {"plotWidth": -1, "plotDepth": 18, "requirements": ["kitchen"]}, "rooms": [{"id": "k", "name": "Kitchen", "type": "room", "x": 3, "y": 4, "width": 3, "height": 2}]}`},
		{"no rooms", `{"config": {"plotWidth": 12, "plotDepth": 18, "requirements": ["kitchen"]}, "rooms": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validate(writePlanFile(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestValidateMissingFile(t *testing.T) {
	if err := validate(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRootCommandWiring(t *testing.T) {
	cmd := rootCmd()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	if !names["version"] {
		t.Error("expected version subcommand")
	}
	if !names["validate"] {
		t.Error("expected validate subcommand")
	}
}
