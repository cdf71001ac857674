package group

import (
	"reflect"
	"testing"
)

func TestBaseName(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{"take1.mp3", "take1"},
		{"take1.flac", "take1"},
		{".hidden", ".hidden"},
		{".hidden.wav", ".hidden"},
		{"a.b.c.wav", "a.b.c"},
		{"noext", "noext"},
		{"trailing.", "trailing"},
	}

	for _, tc := range testCases {
		if got := BaseName(tc.name); got != tc.expected {
			t.Errorf("BaseName(%q) = %q, want %q", tc.name, got, tc.expected)
		}
	}
}

func TestExt(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{"take1.MP3", "mp3"},
		{"take1.flac", "flac"},
		{".hidden", ""},
		{"noext", ""},
		{"a.b.c.WAV", "wav"},
	}

	for _, tc := range testCases {
		if got := Ext(tc.name); got != tc.expected {
			t.Errorf("Ext(%q) = %q, want %q", tc.name, got, tc.expected)
		}
	}
}

func TestGroupNamesOrder(t *testing.T) {
	names := []string{
		"take2.mp3",
		"take1.mp3",
		"take2.flac",
		"take1.wav",
		"take3.ogg",
	}

	groups := GroupNames(names)

	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	// Groups in first-seen order
	bases := []string{groups[0].Base, groups[1].Base, groups[2].Base}
	if !reflect.DeepEqual(bases, []string{"take2", "take1", "take3"}) {
		t.Errorf("unexpected group order: %v", bases)
	}

	// Files keep scan order within a group
	if !reflect.DeepEqual(groups[0].Names, []string{"take2.mp3", "take2.flac"}) {
		t.Errorf("unexpected member order: %v", groups[0].Names)
	}
}

func TestGroupNamesOneGroupPerBase(t *testing.T) {
	names := []string{"take1.mp3", "take1.flac", "take1.wav"}
	groups := GroupNames(names)

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if len(groups[0].Names) != 3 {
		t.Errorf("expected 3 members, got %d", len(groups[0].Names))
	}
}

func TestGroupNamesEmpty(t *testing.T) {
	if groups := GroupNames(nil); len(groups) != 0 {
		t.Errorf("expected no groups, got %d", len(groups))
	}
}
