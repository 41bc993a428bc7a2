package metrics

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/tracechain/internal/causality"
	"github.com/kolkov/tracechain/internal/trace/decoder"
	"github.com/kolkov/tracechain/internal/trace/marker"
	"github.com/kolkov/tracechain/internal/trace/record"
	"github.com/kolkov/tracechain/internal/trace/tracegen"
)

func sampleRun(t *testing.T) (decoder.Stats, *causality.Graph) {
	t.Helper()
	data, err := tracegen.Sample(nil)
	require.NoError(t, err)
	table, err := record.NewDispatchTable(marker.Default())
	require.NoError(t, err)
	dec, err := decoder.New(bytes.NewReader(data), table, decoder.Options{})
	require.NoError(t, err)

	tr := causality.NewTracker(causality.Options{})
	require.NoError(t, dec.Each(tr.Apply))
	return dec.Stats(), tr.Finish()
}

func textfile(t *testing.T, m *Metrics) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracechain.prom")
	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestMetrics_Textfile(t *testing.T) {
	stats, g := sampleRun(t)

	m := New()
	m.ObserveDecode(stats)
	m.ObserveGraph(g)
	m.ObserveDuration(5 * time.Millisecond)

	c, err := g.ChainOf(14)
	m.ObserveChain(c, err)
	_, err = g.ChainOf(999)
	m.ObserveChain(causality.Chain{}, err)

	out := textfile(t, m)
	assert.Contains(t, out, `tracechain_records_decoded_total{kind="SendOp"} 5`)
	assert.Contains(t, out, `tracechain_records_decoded_total{kind="ImplThread"} 3`)
	assert.Contains(t, out, "tracechain_messages 4")
	assert.Contains(t, out, "tracechain_pending_promises 0")
	assert.Contains(t, out, "tracechain_promises_resolved_total 1")
	assert.Contains(t, out, `tracechain_chain_queries_total{outcome="complete"} 1`)
	assert.Contains(t, out, `tracechain_chain_queries_total{outcome="not_found"} 1`)
	assert.Contains(t, out, "tracechain_chain_length_count 1")
	assert.Contains(t, out, "tracechain_analyze_duration_seconds_count 1")
	assert.Contains(t, out, "tracechain_bytes_decoded_total")
}

func TestMetrics_ChainOutcomes(t *testing.T) {
	m := New()
	m.ObserveChain(causality.Chain{Messages: make([]causality.Message, 1), Partial: true}, nil)
	m.ObserveChain(causality.Chain{Messages: make([]causality.Message, 2), Cycle: true}, nil)
	m.ObserveChain(causality.Chain{Messages: make([]causality.Message, 2), Cycle: true}, nil)

	out := textfile(t, m)
	assert.Contains(t, out, `tracechain_chain_queries_total{outcome="partial"} 1`)
	assert.Contains(t, out, `tracechain_chain_queries_total{outcome="cycle"} 2`)
	assert.Contains(t, out, "tracechain_chain_length_count 3")
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.ObserveDuration(time.Second)
	assert.NotSame(t, a.Registry(), b.Registry())
	assert.Contains(t, textfile(t, b), "tracechain_analyze_duration_seconds_count 0")
}

func TestWriteTextfile_BadPath(t *testing.T) {
	m := New()
	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "out.prom"))
	assert.Error(t, err)
}
