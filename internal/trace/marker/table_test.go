package marker

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestDefault_Valid checks the built-in assignment passes validation.
func TestDefault_Valid(t *testing.T) {
	tbl := Default()
	if err := tbl.Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
	if len(tbl.Codes) != len(Names) {
		t.Errorf("Default() has %d codes, want %d", len(tbl.Codes), len(Names))
	}
	if _, ok := tbl.Codes[ProcessCreation]; !ok {
		t.Error("Default() missing PROCESS_CREATION")
	}
	for _, e := range tbl.Entries() {
		if e.Code == 0 {
			t.Errorf("Default() assigns code 0 to %s", e.Name)
		}
		if e.Code > MaxCode {
			t.Errorf("Default() code %d for %s exceeds MaxCode", e.Code, e.Name)
		}
	}
}

// TestEntries_Sorted checks Entries is ordered by code.
func TestEntries_Sorted(t *testing.T) {
	entries := Default().Entries()
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Code >= entries[i].Code {
			t.Fatalf("Entries() not sorted at %d: %d >= %d", i, entries[i-1].Code, entries[i].Code)
		}
	}
}

// TestNamePredicates checks the send and scope classifications.
func TestNamePredicates(t *testing.T) {
	tests := []struct {
		name    Name
		turn    bool
		direct  bool
		promise bool
		channel bool
	}{
		{TurnStart, true, false, false, false},
		{TurnEnd, true, false, false, false},
		{MonitorEnter, false, false, false, false},
		{TransactionStart, false, false, false, false},
		{ActorMsgSend, false, true, false, false},
		{PromiseMsgSend, false, false, true, false},
		{PromiseResolution, false, false, true, false},
		{ChannelMsgSend, false, false, false, true},
		{ChannelMsgRcv, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			if got := tt.name.IsTurn(); got != tt.turn {
				t.Errorf("IsTurn() = %v, want %v", got, tt.turn)
			}
			if got := tt.name.IsDirectSend(); got != tt.direct {
				t.Errorf("IsDirectSend() = %v, want %v", got, tt.direct)
			}
			if got := tt.name.IsPromiseSend(); got != tt.promise {
				t.Errorf("IsPromiseSend() = %v, want %v", got, tt.promise)
			}
			if got := tt.name.IsChannelSend(); got != tt.channel {
				t.Errorf("IsChannelSend() = %v, want %v", got, tt.channel)
			}
		})
	}
}

// TestParseTable_RoundTrip checks a marshaled default table parses back.
func TestParseTable_RoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	tbl, err := ParseTable(data)
	if err != nil {
		t.Fatalf("ParseTable() error: %v", err)
	}
	code, ok := tbl.Code(TurnStart)
	want, _ := Default().Code(TurnStart)
	if !ok || code != want {
		t.Errorf("Code(TURN_START) = %d, %v; want %d, true", code, ok, want)
	}
}

// TestValidate_Rejects covers the table shapes Validate must refuse.
func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Table)
		wantErr string
	}{
		{
			name:    "bad version",
			mutate:  func(t *Table) { t.FormatVersion = "1.0" },
			wantErr: "invalid format_version",
		},
		{
			name:    "unsupported major",
			mutate:  func(t *Table) { t.FormatVersion = "v2.1.0" },
			wantErr: "unsupported trace format version",
		},
		{
			name:    "collision",
			mutate:  func(t *Table) { t.Codes[TurnEnd] = t.Codes[TurnStart] },
			wantErr: "assigned to both",
		},
		{
			name:    "out of range",
			mutate:  func(t *Table) { t.Codes[ImplThread] = 300 },
			wantErr: "does not fit in a byte",
		},
		{
			name:    "missing",
			mutate:  func(t *Table) { delete(t.Codes, ThreadJoin) },
			wantErr: "missing code for THREAD_JOIN",
		},
		{
			name:    "unknown",
			mutate:  func(t *Table) { t.Codes["ACTOR_TELEPORT"] = 99 },
			wantErr: "unknown marker",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := Default()
			tt.mutate(tbl)
			err := tbl.Validate()
			if err == nil {
				t.Fatal("Validate() returned nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

// TestValidate_UnsupportedIsSentinel checks version errors match ErrUnsupportedVersion.
func TestValidate_UnsupportedIsSentinel(t *testing.T) {
	tbl := Default()
	tbl.FormatVersion = "v3.0.0"
	if err := tbl.Validate(); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("Validate() = %v, want ErrUnsupportedVersion", err)
	}
}

// TestLoadTable reads a table from disk.
func TestLoadTable(t *testing.T) {
	data, err := Default().Marshal()
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "markers.yaml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	tbl, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable() error: %v", err)
	}
	if len(tbl.Codes) != len(Names) {
		t.Errorf("LoadTable() has %d codes, want %d", len(tbl.Codes), len(Names))
	}

	if _, err := LoadTable(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadTable(missing) returned nil error")
	}
}
