package model

import "testing"

func TestTaskStatus_IsActive(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected bool
	}{
		{TaskStatusPending, false},
		{TaskStatusConverting, true},
		{TaskStatusCancelled, false},
		{TaskStatusCompleted, false},
		{TaskStatusError, false},
	}

	for _, test := range tests {
		result := test.status.IsActive()
		if result != test.expected {
			t.Errorf("TaskStatus(%s).IsActive() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestTaskStatus_IsFinished(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected bool
	}{
		{TaskStatusPending, false},
		{TaskStatusConverting, false},
		{TaskStatusCancelled, true},
		{TaskStatusCompleted, true},
		{TaskStatusError, true},
	}

	for _, test := range tests {
		result := test.status.IsFinished()
		if result != test.expected {
			t.Errorf("TaskStatus(%s).IsFinished() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestMediaEntry_DisplayTitle(t *testing.T) {
	entry := MediaEntry{Title: "My Video"}
	if got := entry.DisplayTitle(); got != "My Video" {
		t.Errorf("DisplayTitle() = %q, expected %q", got, "My Video")
	}

	empty := MediaEntry{}
	if got := empty.DisplayTitle(); got != FallbackTitle {
		t.Errorf("DisplayTitle() = %q, expected %q", got, FallbackTitle)
	}
}

func TestMediaEntry_PlaylistLabel(t *testing.T) {
	entry := MediaEntry{Playlist: "Mix"}
	if got := entry.PlaylistLabel(); got != "Mix" {
		t.Errorf("PlaylistLabel() = %q, expected %q", got, "Mix")
	}

	empty := MediaEntry{}
	if got := empty.PlaylistLabel(); got != DefaultPlaylistLabel {
		t.Errorf("PlaylistLabel() = %q, expected %q", got, DefaultPlaylistLabel)
	}
}
