package tracechain_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kolkov/tracechain/internal/trace/marker"
	"github.com/kolkov/tracechain/internal/trace/tracegen"
	"github.com/kolkov/tracechain/tracechain"
)

// scenario is an end-to-end case: a trace written record by record, the
// options to analyze it with, and the expected graph.
type scenario struct {
	// Name identifies the scenario in test output.
	Name string `yaml:"name"`

	// Description explains the behavior under test.
	Description string `yaml:"description"`

	Options scenarioOptions `yaml:"options"`

	// Records are encoded in order with tracegen.
	Records []recordStep `yaml:"records"`

	Expect expectation `yaml:"expect"`
}

type scenarioOptions struct {
	Strict            bool `yaml:"strict"`
	TrackChannelSends bool `yaml:"track_channel_sends"`
	SingleLane        bool `yaml:"single_lane"`
}

// recordStep is one record. Op selects the tracegen method; ID, Target and
// Marker are its arguments. Bytes are appended verbatim by the raw op.
type recordStep struct {
	Op     string `yaml:"op"`
	ID     int64  `yaml:"id"`
	Target int64  `yaml:"target"`
	Marker string `yaml:"marker"`
	Bytes  []int  `yaml:"bytes,flow"`
}

type expectation struct {
	// Error is the expected failure class: format, truncated or duplicate.
	// Empty means the analysis succeeds.
	Error string `yaml:"error"`

	Messages  int             `yaml:"messages"`
	Pending   []int64         `yaml:"pending"`
	Receivers map[int64]int64 `yaml:"receivers"`
	Parents   map[int64]int64 `yaml:"parents"`
	Chains    []chainExpect   `yaml:"chains"`
}

type chainExpect struct {
	Message  int64   `yaml:"message"`
	IDs      []int64 `yaml:"ids"`
	Partial  bool    `yaml:"partial"`
	Cycle    bool    `yaml:"cycle"`
	NotFound bool    `yaml:"not_found"`
}

func loadScenarios(t *testing.T) []scenario {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	out := make([]scenario, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		var s scenario
		require.NoError(t, yaml.Unmarshal(data, &s), p)
		if s.Name == "" {
			s.Name = filepath.Base(p)
		}
		out = append(out, s)
	}
	return out
}

func encode(t *testing.T, steps []recordStep) []byte {
	t.Helper()
	b := tracegen.New(nil)
	for i, s := range steps {
		switch s.Op {
		case "activity":
			b.Activity(s.ID)
		case "current":
			b.Current(s.ID)
		case "lane":
			b.Lane(s.ID)
		case "turn_start":
			b.TurnStart(s.ID)
		case "turn_end":
			b.TurnEnd()
		case "scope":
			b.Scope(marker.Name(s.Marker), s.ID)
		case "scope_end":
			b.ScopeEnd(marker.Name(s.Marker))
		case "send":
			b.Send(s.ID, s.Target)
		case "promise_send":
			b.PromiseSend(s.ID, s.Target)
		case "resolve":
			b.Resolve(s.ID, s.Target)
		case "channel_send":
			b.ChannelSend(s.ID, s.Target)
		case "promise":
			b.Promise(s.ID)
		case "channel":
			b.Channel(s.ID)
		case "receive":
			b.Receive(s.ID)
		case "complete":
			b.Complete()
		case "raw":
			for _, v := range s.Bytes {
				b.Raw(byte(v))
			}
		default:
			t.Fatalf("record %d: unknown op %q", i, s.Op)
		}
	}
	data, err := b.Bytes()
	require.NoError(t, err)
	return data
}

func checkError(t *testing.T, class string, err error) {
	t.Helper()
	var (
		fe *tracechain.FormatError
		te *tracechain.TruncatedError
		de *tracechain.DuplicateError
	)
	switch class {
	case "format":
		assert.True(t, errors.As(err, &fe), "want FormatError, got %v", err)
	case "truncated":
		assert.True(t, errors.As(err, &te), "want TruncatedError, got %v", err)
	case "duplicate":
		assert.True(t, errors.As(err, &de), "want DuplicateError, got %v", err)
	default:
		t.Fatalf("unknown error class %q", class)
	}
}

func TestScenarios(t *testing.T) {
	for _, sc := range loadScenarios(t) {
		t.Run(sc.Name, func(t *testing.T) {
			data := encode(t, sc.Records)
			res, err := tracechain.Analyze(context.Background(), bytes.NewReader(data), tracechain.Options{
				Strict:            sc.Options.Strict,
				TrackChannelSends: sc.Options.TrackChannelSends,
				SingleLane:        sc.Options.SingleLane,
			})

			if sc.Expect.Error != "" {
				require.Error(t, err)
				assert.Nil(t, res, "failed runs return no result")
				checkError(t, sc.Expect.Error, err)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, sc.Expect.Messages, res.Graph.Len(), "message count")

			var pending []int64
			for _, m := range res.Graph.Pending() {
				pending = append(pending, m.ID)
			}
			if diff := cmp.Diff(sc.Expect.Pending, pending); diff != "" {
				t.Errorf("pending mismatch (-want +got):\n%s", diff)
			}

			for id, want := range sc.Expect.Receivers {
				m, ok := res.Graph.Message(id)
				if assert.True(t, ok, "message %d", id) {
					assert.Equal(t, want, m.Receiver, "receiver of %d", id)
				}
			}
			for id, want := range sc.Expect.Parents {
				m, ok := res.Graph.Message(id)
				if assert.True(t, ok, "message %d", id) {
					assert.Equal(t, want, m.Parent, "parent of %d", id)
				}
			}

			for _, ce := range sc.Expect.Chains {
				c, err := res.ChainOf(ce.Message)
				if ce.NotFound {
					assert.ErrorIs(t, err, tracechain.ErrNotFound)
					continue
				}
				require.NoError(t, err, "chain of %d", ce.Message)
				if diff := cmp.Diff(ce.IDs, c.IDs()); diff != "" {
					t.Errorf("ChainOf(%d) ids mismatch (-want +got):\n%s", ce.Message, diff)
				}
				assert.Equal(t, ce.Partial, c.Partial, "partial of %d", ce.Message)
				assert.Equal(t, ce.Cycle, c.Cycle, "cycle of %d", ce.Message)
			}
		})
	}
}
