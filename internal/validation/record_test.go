package validation

import (
	"testing"

	"github.com/steveyegge/bugs/internal/types"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain title", "Login fails", "Login fails", false},
		{"surrounding whitespace trimmed", "  Login fails  ", "Login fails", false},
		{"empty", "", "", true},
		{"whitespace only", "   \t ", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateTitle(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateTitle(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeSteps(t *testing.T) {
	in := []types.ReproStep{
		{StepNumber: 7, Description: "open the app"},
		{StepNumber: 2, Description: "   "},
		{StepNumber: 9, Description: " click login "},
	}
	out := NormalizeSteps(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 steps after filtering, got %d", len(out))
	}
	for i, s := range out {
		if s.StepNumber != i+1 {
			t.Errorf("step %d has number %d, want %d", i, s.StepNumber, i+1)
		}
	}
	if out[1].Description != "click login" {
		t.Errorf("descriptions should be trimmed, got %q", out[1].Description)
	}

	if NormalizeSteps(nil) != nil {
		t.Error("NormalizeSteps(nil) should be nil")
	}
	if NormalizeSteps([]types.ReproStep{{Description: "  "}}) != nil {
		t.Error("all-empty input should normalize to nil")
	}
}

func TestInsertStep(t *testing.T) {
	steps := []types.ReproStep{
		{StepNumber: 1, Description: "open the app"},
		{StepNumber: 2, Description: "click login"},
	}

	out, err := InsertStep(steps, 2, "enter credentials")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"open the app", "enter credentials", "click login"}
	for i, desc := range want {
		if out[i].StepNumber != i+1 || out[i].Description != desc {
			t.Errorf("step %d = {%d %q}, want {%d %q}", i, out[i].StepNumber, out[i].Description, i+1, desc)
		}
	}

	// Position past the end appends
	out, err = InsertStep(steps, 99, "observe error")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[len(out)-1].Description != "observe error" {
		t.Error("expected out-of-range position to append")
	}

	if _, err := InsertStep(steps, 1, "   "); err == nil {
		t.Error("expected error for empty description")
	}
}

func TestRemoveStep(t *testing.T) {
	steps := []types.ReproStep{
		{StepNumber: 1, Description: "a"},
		{StepNumber: 2, Description: "b"},
		{StepNumber: 3, Description: "c"},
	}

	out, err := RemoveStep(steps, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[0].Description != "a" || out[1].Description != "c" {
		t.Fatalf("unexpected result: %+v", out)
	}
	if out[0].StepNumber != 1 || out[1].StepNumber != 2 {
		t.Errorf("steps not renumbered: %+v", out)
	}

	if _, err := RemoveStep(steps, 4); err == nil {
		t.Error("expected error for out-of-range position")
	}
	if _, err := RemoveStep(nil, 1); err == nil {
		t.Error("expected error removing from empty list")
	}
}

func TestParseSeverity(t *testing.T) {
	if sev, err := ParseSeverity(" Blocker "); err != nil || sev != types.SeverityBlocker {
		t.Errorf("ParseSeverity(Blocker) = %v, %v", sev, err)
	}
	if _, err := ParseSeverity("sev1"); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestParsePriority(t *testing.T) {
	if pri, err := ParsePriority("HIGH"); err != nil || pri != types.PriorityHigh {
		t.Errorf("ParsePriority(HIGH) = %v, %v", pri, err)
	}
	if _, err := ParsePriority("p1"); err == nil {
		t.Error("expected error for unknown priority")
	}
}

func TestParseResolution(t *testing.T) {
	tests := []struct {
		input   string
		want    types.Resolution
		wantErr bool
	}{
		{"fixed", types.ResolutionFixed, false},
		{"wont_fix", types.ResolutionWontFix, false},
		{"wont-fix", types.ResolutionWontFix, false},
		{"Cannot-Reproduce", types.ResolutionCannotReproduce, false},
		{"invalid", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseResolution(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseResolution(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseResolution(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus("in-progress"); err != nil || s != types.StatusInProgress {
		t.Errorf("ParseStatus(in-progress) = %v, %v", s, err)
	}
	if _, err := ParseStatus("done"); err == nil {
		t.Error("expected error for unknown status")
	}
}
