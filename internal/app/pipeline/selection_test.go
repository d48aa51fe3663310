package pipeline

import (
	"slices"
	"strings"
	"testing"

	"commongames/internal/pkg/errs"
)

func TestValidateCredential(t *testing.T) {
	tests := []struct {
		name       string
		credential string
		valid      bool
	}{
		{name: "exact length", credential: strings.Repeat("A", 32), valid: true},
		{name: "too short", credential: strings.Repeat("A", 31)},
		{name: "too long", credential: strings.Repeat("A", 33)},
		{name: "empty", credential: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredential(tt.credential)
			if tt.valid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tt.valid && !errs.Is(err, errs.ErrInvalidCredential) {
				t.Fatalf("expected ErrInvalidCredential, got %v", err)
			}
		})
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		count int
		want  []int
		code  int
	}{
		{name: "single", raw: "0", count: 1, want: []int{0}},
		{name: "typed order kept", raw: "2 0 1", count: 3, want: []int{2, 0, 1}},
		{name: "extra whitespace", raw: "  1\t 2  ", count: 3, want: []int{1, 2}},
		{name: "duplicates collapse", raw: "1 1 0 1", count: 2, want: []int{1, 0}},
		{name: "empty", raw: "", count: 3, code: errs.ErrEmptySelection},
		{name: "blank", raw: "   ", count: 3, code: errs.ErrEmptySelection},
		{name: "not a number", raw: "1 two", count: 3, code: errs.ErrInvalidSelection},
		{name: "last index plus one", raw: "3", count: 3, code: errs.ErrInvalidSelection},
		{name: "negative", raw: "-1", count: 3, code: errs.ErrInvalidSelection},
		{name: "comma separated", raw: "0,1", count: 3, code: errs.ErrInvalidSelection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSelection(tt.raw, tt.count)
			if tt.code != 0 {
				if !errs.Is(err, tt.code) {
					t.Fatalf("expected code %d, got %v", tt.code, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestStageString(t *testing.T) {
	if StageFoldFriendLibraries.String() != "FoldFriendLibraries" {
		t.Fatalf("unexpected name %q", StageFoldFriendLibraries.String())
	}
	if Stage(-1).String() != "Unknown" || Stage(99).String() != "Unknown" {
		t.Fatal("expected Unknown for out of range stages")
	}
}
