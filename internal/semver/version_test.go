package semver

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Version
		wantErr bool
	}{
		{input: "1.2.3", want: Version{1, 2, 3}},
		{input: "0.0.0", want: Version{0, 0, 0}},
		{input: "  10.20.30\n", want: Version{10, 20, 30}},
		{input: "1.2.3-alpha.1", want: Version{1, 2, 3}},
		{input: "1.2.3+build.7", want: Version{1, 2, 3}},
		{input: "1.2.3-rc.1+build-5", want: Version{1, 2, 3}},
		{input: "1.2.3+build-5", want: Version{1, 2, 3}},
		{input: "1.2", wantErr: true},
		{input: "1.2.3.4", wantErr: true},
		{input: "v1.2.3", wantErr: true},
		{input: "1.x.3", wantErr: true},
		{input: "1..3", wantErr: true},
		{input: "", wantErr: true},
		{input: "-1.2.3", wantErr: true},
		{input: "99999999999999999999999.0.0", wantErr: true},
		{input: strings.Repeat("1", 200), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %v", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidVersion) {
					t.Errorf("Parse(%q) error = %v, want ErrInvalidVersion", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBumpPatch(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1.2.3", "1.2.4"},
		{"0.1.0", "0.1.1"},
		{"0.0.9", "0.0.10"},
		{"2.5.0-rc.1", "2.5.1"},
		{"3.0.0+meta", "3.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := BumpPatch(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("BumpPatch(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBumpPatch_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"two components", "1.2"},
		{"patch at max int", "1.2." + strconv.Itoa(math.MaxInt)},
		{"patch at max int with suffix", "0.0." + strconv.Itoa(math.MaxInt) + "-rc.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BumpPatch(tt.input)
			if !errors.Is(err, ErrInvalidVersion) {
				t.Errorf("BumpPatch(%q) error = %v, want ErrInvalidVersion", tt.input, err)
			}
			if got != "" {
				t.Errorf("BumpPatch(%q) = %q, want empty", tt.input, got)
			}
		})
	}
}

func TestBumpPatch_LargestBumpablePatch(t *testing.T) {
	in := "1.2." + strconv.Itoa(math.MaxInt-1)
	got, err := BumpPatch(in)
	if err != nil {
		t.Fatalf("BumpPatch(%q) error: %v", in, err)
	}
	if want := "1.2." + strconv.Itoa(math.MaxInt); got != want {
		t.Errorf("BumpPatch(%q) = %q, want %q", in, got, want)
	}
}

func TestVersion_BumpPatch_OnlyPatchChanges(t *testing.T) {
	v := Version{Major: 4, Minor: 7, Patch: 1}
	for i := range 5 {
		next := v.BumpPatch()
		if next.Major != 4 || next.Minor != 7 {
			t.Fatalf("iteration %d: major/minor changed: %+v", i, next)
		}
		if next.Patch != v.Patch+1 {
			t.Fatalf("iteration %d: patch = %d, want %d", i, next.Patch, v.Patch+1)
		}
		v = next
	}
	if v.String() != "4.7.6" {
		t.Errorf("after 5 bumps got %s, want 4.7.6", v)
	}
}

func TestVersion_Compare(t *testing.T) {
	tests := []struct {
		a, b Version
		want int
	}{
		{Version{1, 0, 0}, Version{1, 0, 0}, 0},
		{Version{1, 0, 0}, Version{2, 0, 0}, -1},
		{Version{1, 3, 0}, Version{1, 2, 9}, 1},
		{Version{1, 2, 3}, Version{1, 2, 4}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.a.String()+"_vs_"+tt.b.String(), func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("Compare = %d, want %d", got, tt.want)
			}
			if got := tt.a.Equal(tt.b); got != (tt.want == 0) {
				t.Errorf("Equal = %v, want %v", got, tt.want == 0)
			}
		})
	}
}

func TestCompareRaw(t *testing.T) {
	tests := []struct {
		a, b   string
		want   int
		wantOK bool
	}{
		{"0.1.0", "0.2.0", -1, true},
		{"0.2.0", "0.1.0", 1, true},
		{"1.0.0-rc.1", "1.0.0", -1, true},
		{"v1.0.0", "1.0.0", 0, true},
		{"1.0.0.0", "1.0.0", 0, false},
		{"banana", "1.0.0", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			got, ok := CompareRaw(tt.a, tt.b)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("CompareRaw = %d, want %d", got, tt.want)
			}
		})
	}
}
