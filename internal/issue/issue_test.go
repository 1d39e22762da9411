// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	ids := []Id{
		TargetNotFoundId,
		DuplicateTargetId,
		TargetFailedId,
		ShellCommandFailedId,
		ShellNotFoundId,
		ConfigLoadFailedId,
		InvalidShellModeId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
		if Get(id) == nil {
			t.Errorf("Get(%d) returned nil; every ID needs a catalog entry", id)
		}
	}

	if TargetNotFoundId != 1 {
		t.Errorf("TargetNotFoundId = %d, want 1", TargetNotFoundId)
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{TargetNotFoundId, false, "Target not found"},
		{DuplicateTargetId, false, "Duplicate target"},
		{TargetFailedId, false, "reported failure"},
		{ShellCommandFailedId, false, "Shell command failed"},
		{ShellNotFoundId, false, "Shell not found"},
		{ConfigLoadFailedId, false, "Failed to load configuration"},
		{InvalidShellModeId, false, "Invalid shell mode"},
		{Id(9999), true, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			got := Get(tt.id)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}
			if got == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if !strings.Contains(string(got.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain %q", tt.id, tt.contains)
			}
		})
	}
}

func TestIssue_Render(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	render = func(in string, stylePath string) (string, error) {
		return in, nil
	}

	i := &Issue{id: 42, mdMsg: "# Title"}
	rendered, err := i.Render("notty")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(rendered, "# Title") {
		t.Errorf("Render() should keep the message body, got %q", rendered)
	}
}
