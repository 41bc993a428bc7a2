package marker

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SupportedMajor is the only trace format major version this decoder reads.
const SupportedMajor = "v1"

// MaxCode is the highest code value used by the reference assignment.
// Tables may use any byte value; MaxCode only documents the observed format.
const MaxCode = 22

// ErrUnsupportedVersion is returned for tables declaring a format major
// version other than SupportedMajor.
var ErrUnsupportedVersion = errors.New("marker: unsupported trace format version")

// Table assigns a one-byte code to every marker name.
type Table struct {
	// FormatVersion is the semantic version of the trace format the
	// assignment belongs to (e.g. "v1.0.0").
	FormatVersion string `yaml:"format_version"`

	// Codes maps marker names to their byte codes.
	Codes map[Name]int `yaml:"codes"`
}

// Default returns the reference runtime's assignment.
//
// Codes run from 1 to MaxCode in the order of Names. Code 0 is left
// unassigned so that zero-filled regions of a damaged file are reported as
// unknown markers instead of being decoded.
func Default() *Table {
	t := &Table{
		FormatVersion: "v1.0.0",
		Codes:         make(map[Name]int, len(Names)),
	}
	for i, n := range Names {
		t.Codes[n] = i + 1
	}
	return t
}

// LoadTable reads a marker table from a YAML file and validates it.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read marker table: %w", err)
	}
	return ParseTable(data)
}

// ParseTable decodes and validates a YAML marker table.
func ParseTable(data []byte) (*Table, error) {
	t := &Table{}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse marker table: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that the table names every marker exactly once, that codes
// fit in a byte and do not collide, and that the format version is supported.
func (t *Table) Validate() error {
	if !semver.IsValid(t.FormatVersion) {
		return fmt.Errorf("marker table: invalid format_version %q", t.FormatVersion)
	}
	if major := semver.Major(t.FormatVersion); major != SupportedMajor {
		return fmt.Errorf("%w: %s (want %s.x.x)", ErrUnsupportedVersion, t.FormatVersion, SupportedMajor)
	}

	owner := make(map[int]Name, len(t.Codes))
	for name, code := range t.Codes {
		if !name.Known() {
			return fmt.Errorf("marker table: unknown marker %q", name)
		}
		if code < 0 || code > 255 {
			return fmt.Errorf("marker table: code %d for %s does not fit in a byte", code, name)
		}
		if prev, dup := owner[code]; dup {
			// Report in a stable order regardless of map iteration.
			a, b := prev, name
			if b < a {
				a, b = b, a
			}
			return fmt.Errorf("marker table: code %d assigned to both %s and %s", code, a, b)
		}
		owner[code] = name
	}
	for _, n := range Names {
		if _, ok := t.Codes[n]; !ok {
			return fmt.Errorf("marker table: missing code for %s", n)
		}
	}
	return nil
}

// Code returns the byte code assigned to n.
func (t *Table) Code(n Name) (byte, bool) {
	c, ok := t.Codes[n]
	if !ok {
		return 0, false
	}
	return byte(c), true
}

// Entry is one row of a table, used for listing.
type Entry struct {
	Code int
	Name Name
}

// Entries returns the table sorted by code.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.Codes))
	for n, c := range t.Codes {
		out = append(out, Entry{Code: c, Name: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Marshal encodes the table as YAML.
func (t *Table) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}
