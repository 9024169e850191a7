package model

import (
	"reflect"
	"testing"
)

func TestMergeTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing []string
		added    []string
		want     []string
	}{
		{"both empty", nil, nil, []string{}},
		{"add to empty", nil, []string{"b", "a"}, []string{"a", "b"}},
		{"duplicates collapse", []string{"a"}, []string{"a", "b"}, []string{"a", "b"}},
		{"empty strings dropped", []string{"a"}, []string{"", "b"}, []string{"a", "b"}},
		{"output sorted", []string{"z", "m"}, []string{"a"}, []string{"a", "m", "z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeTags(tt.existing, tt.added)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeTags(%v, %v) = %v, want %v", tt.existing, tt.added, got, tt.want)
			}
		})
	}
}

func TestSubtractTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing []string
		removed  []string
		want     []string
	}{
		{"remove present", []string{"a", "b", "c"}, []string{"b"}, []string{"a", "c"}},
		{"remove absent is noop", []string{"a"}, []string{"x"}, []string{"a"}},
		{"remove all", []string{"a", "b"}, []string{"a", "b"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SubtractTags(tt.existing, tt.removed)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SubtractTags(%v, %v) = %v, want %v", tt.existing, tt.removed, got, tt.want)
			}
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	t.Parallel()

	got := NormalizeTags([]string{"b", "a", "b", ""})
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeTags = %v, want %v", got, want)
	}
}

func TestCategorySubtree(t *testing.T) {
	t.Parallel()

	if got := CategoryAudio.Subtree(); got != "AUDIO" {
		t.Errorf("AUDIO subtree = %q", got)
	}
	// UNKNOWN rows have no subtree of their own.
	if got := CategoryUnknown.Subtree(); got != "BLOBS" {
		t.Errorf("UNKNOWN subtree = %q, want BLOBS", got)
	}
}

func TestRevisionDeleted(t *testing.T) {
	t.Parallel()

	rev := &Revision{Status: StatusActive}
	if rev.Deleted() {
		t.Error("active revision reported deleted")
	}
	rev.Status = StatusDeleted
	if !rev.Deleted() {
		t.Error("deleted revision not reported deleted")
	}
}
