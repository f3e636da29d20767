// Package semver parses the strict major.minor.patch versions stored in
// package manifests and computes patch bumps.
package semver

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	modsemver "golang.org/x/mod/semver"
)

// Version is a release version reduced to its numeric core.
// Pre-release and build metadata are never carried.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ErrInvalidVersion is returned (wrapped) when a version string does not have
// exactly three dot-separated non-negative integer components.
var ErrInvalidVersion = errors.New("invalid semantic version")

// maxVersionLength bounds the input accepted by Parse.
const maxVersionLength = 128

// String returns the version as "major.minor.patch".
func (v Version) String() string {
	var sb strings.Builder
	sb.Grow(16)
	sb.WriteString(strconv.Itoa(v.Major))
	sb.WriteByte('.')
	sb.WriteString(strconv.Itoa(v.Minor))
	sb.WriteByte('.')
	sb.WriteString(strconv.Itoa(v.Patch))
	return sb.String()
}

// Parse parses s strictly.
//
// Any pre-release ("-rc.1") or build ("+b5") suffix is stripped and
// discarded. What remains must be three dot-separated runs of ASCII digits:
//   - "1.2.3"          -> 1.2.3
//   - "1.2.3-alpha.1"  -> 1.2.3
//   - "1.2.3+build.7"  -> 1.2.3
//   - "1.2", "1.2.3.4", "v1.2.3", "1.x.3" -> error
func Parse(s string) (Version, error) {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) > maxVersionLength {
		return Version{}, fmt.Errorf("%w: %q exceeds maximum length of %d", ErrInvalidVersion, trimmed[:16]+"...", maxVersionLength)
	}

	core := trimmed
	if i := strings.IndexByte(core, '-'); i >= 0 {
		core = core[:i]
	}
	if i := strings.IndexByte(core, '+'); i >= 0 {
		core = core[:i]
	}

	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}

	var nums [3]int
	for i, part := range parts {
		if part == "" || !isAllDigits(part) {
			return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q: %s", ErrInvalidVersion, s, err.Error())
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// BumpPatch returns v with the patch component incremented.
func (v Version) BumpPatch() Version {
	return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
}

// Compare returns -1, 0 or +1 comparing v and other component by component.
func (v Version) Compare(other Version) int {
	if c := compareInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	return compareInt(v.Patch, other.Patch)
}

// Equal reports whether v and other have the same three components.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// BumpPatch parses s and returns the next patch version as a string.
// A patch component that cannot be incremented is an ErrInvalidVersion.
//
//	BumpPatch("1.2.3")       // "1.2.4"
//	BumpPatch("0.1.0-rc.1")  // "0.1.1"
func BumpPatch(s string) (string, error) {
	v, err := Parse(s)
	if err != nil {
		return "", err
	}
	if v.Patch == math.MaxInt {
		return "", fmt.Errorf("%w: %q: patch component overflows", ErrInvalidVersion, s)
	}
	return v.BumpPatch().String(), nil
}

// CompareRaw compares two raw version strings with full SemVer precedence,
// including pre-release ordering. The second result is false when either
// string is not valid SemVer, in which case the comparison is meaningless.
func CompareRaw(a, b string) (int, bool) {
	va, vb := canonical(a), canonical(b)
	if !modsemver.IsValid(va) || !modsemver.IsValid(vb) {
		return 0, false
	}
	return modsemver.Compare(va, vb), true
}

func canonical(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	return s
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
