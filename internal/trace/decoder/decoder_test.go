package decoder

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/tracechain/internal/trace/marker"
	"github.com/kolkov/tracechain/internal/trace/record"
	"github.com/kolkov/tracechain/internal/trace/stream"
	"github.com/kolkov/tracechain/internal/trace/tracegen"
)

func newDecoder(t *testing.T, src io.Reader, opts Options) *Decoder {
	t.Helper()
	table, err := record.NewDispatchTable(marker.Default())
	require.NoError(t, err)
	d, err := New(src, table, opts)
	require.NoError(t, err)
	return d
}

func decodeAll(t *testing.T, d *Decoder) ([]record.Event, error) {
	t.Helper()
	var out []record.Event
	err := d.Each(func(ev record.Event) error {
		out = append(out, ev)
		return nil
	})
	return out, err
}

// TestNew_Validation checks option validation.
func TestNew_Validation(t *testing.T) {
	table, err := record.NewDispatchTable(marker.Default())
	require.NoError(t, err)

	_, err = New(bytes.NewReader(nil), nil, Options{})
	assert.Error(t, err, "nil table")

	_, err = New(bytes.NewReader(nil), table, Options{LowWater: record.MaxRecordSize - 1})
	assert.Error(t, err, "low-water below largest record")

	_, err = New(bytes.NewReader(nil), table, Options{WindowSize: 16, LowWater: 20})
	assert.Error(t, err, "window smaller than low-water")
}

// TestNext_Empty checks an empty stream ends cleanly.
func TestNext_Empty(t *testing.T) {
	d := newDecoder(t, bytes.NewReader(nil), Options{})
	_, err := d.Next()
	assert.ErrorIs(t, err, io.EOF)
}

// TestNext_Sequence decodes a mixed stream and checks kinds, offsets and fields.
func TestNext_Sequence(t *testing.T) {
	data := tracegen.New(nil).
		Activity(1).
		Current(1).
		TurnStart(100).
		Send(5, 2).
		Receive(7).
		Promise(8).
		TurnEnd().
		MustBytes()

	d := newDecoder(t, bytes.NewReader(data), Options{})
	events, err := decodeAll(t, d)
	require.NoError(t, err)

	wantKinds := []record.Kind{
		record.KindActivityCreation,
		record.KindImplThreadCurrentActivity,
		record.KindDynamicScopeStart,
		record.KindSendOp,
		record.KindReceiveOp,
		record.KindPassiveEntityCreation,
		record.KindDynamicScopeEnd,
	}
	require.Len(t, events, len(wantKinds))

	var offset int64
	for i, ev := range events {
		assert.Equal(t, wantKinds[i], ev.Kind(), "event %d", i)
		assert.Equal(t, offset, ev.Offset(), "offset of event %d", i)
		offset += int64(ev.Kind().Size())
	}

	send := events[3].(record.Send)
	assert.Equal(t, marker.ActorMsgSend, send.Marker())
	assert.Equal(t, int64(5), send.EntityID)
	assert.Equal(t, int64(2), send.TargetID)
	assert.Equal(t, int64(7), events[4].(record.Receive).SourceID)
	assert.Equal(t, int64(8), events[5].(record.EntityCreation).ID)

	stats := d.Stats()
	assert.Equal(t, uint64(7), stats.Total)
	assert.Equal(t, int64(len(data)), stats.Bytes)
	assert.Equal(t, uint64(1), stats.Records[record.KindSendOp])
}

// TestNext_SmallWindow decodes a long stream through a window barely above
// the low-water mark, with one-byte reads, so most records cross a refill.
func TestNext_SmallWindow(t *testing.T) {
	b := tracegen.New(nil).Activity(1).Current(1)
	for i := int64(0); i < 200; i++ {
		b.TurnStart(i).Send(1000+i, 2).Receive(i).TurnEnd()
	}
	data := b.MustBytes()

	d := newDecoder(t, iotest.OneByteReader(bytes.NewReader(data)), Options{WindowSize: 24, LowWater: 20})
	events, err := decodeAll(t, d)
	require.NoError(t, err)
	assert.Len(t, events, 2+200*4)

	last := events[len(events)-2].(record.Receive)
	assert.Equal(t, int64(199), last.SourceID)
	assert.Greater(t, d.Stats().Window.Compacts, uint64(0))
}

// TestNext_UnknownMarker checks an unassigned byte is a terminal format error.
func TestNext_UnknownMarker(t *testing.T) {
	data := tracegen.New(nil).Activity(1).Raw(0x00).Activity(2).MustBytes()
	d := newDecoder(t, bytes.NewReader(data), Options{})

	_, err := d.Next()
	require.NoError(t, err)

	_, err = d.Next()
	var fe *record.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, int64(record.KindActivityCreation.Size()), fe.Offset)

	// Sticky: no resynchronisation.
	_, again := d.Next()
	assert.Equal(t, err, again)
}

// TestNext_Truncated checks a stream cut inside a record.
func TestNext_Truncated(t *testing.T) {
	b := tracegen.New(nil)
	full := b.Send(5, 2).MustBytes()

	tests := []struct {
		name string
		data []byte
	}{
		{"marker only", full[:1]},
		{"partial payload", full[:9]},
		{"one byte short", full[:len(full)-1]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDecoder(t, bytes.NewReader(tt.data), Options{})
			_, err := d.Next()

			var te *TruncatedError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, record.KindSendOp, te.Kind)
			assert.Equal(t, marker.ActorMsgSend, te.Marker)
			assert.Equal(t, 16, te.Need)
			assert.True(t, errors.Is(err, stream.ErrTruncated))
		})
	}
}

// TestNext_MarkerOnlyRecords checks records without payload decode from a single byte.
func TestNext_MarkerOnlyRecords(t *testing.T) {
	data := tracegen.New(nil).TurnEnd().Complete().MustBytes()
	require.Len(t, data, 2)

	d := newDecoder(t, bytes.NewReader(data), Options{})
	events, err := decodeAll(t, d)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.IsType(t, record.ScopeEnd{}, events[0])
	assert.IsType(t, record.ActivityCompletion{}, events[1])
	assert.Equal(t, data[0], events[0].(record.ScopeEnd).Code)
	assert.Equal(t, data[1], events[1].(record.ActivityCompletion).Code)
}

// TestObserver checks the observer sees every event in order.
func TestObserver(t *testing.T) {
	data := tracegen.New(nil).Activity(1).Current(1).Send(3, 4).MustBytes()

	var seen []record.Kind
	d := newDecoder(t, bytes.NewReader(data), Options{
		Observer: ObserverFunc(func(ev record.Event) { seen = append(seen, ev.Kind()) }),
	})
	_, err := decodeAll(t, d)
	require.NoError(t, err)
	assert.Equal(t, []record.Kind{
		record.KindActivityCreation,
		record.KindImplThreadCurrentActivity,
		record.KindSendOp,
	}, seen)
}

// TestEach_StopsOnCallbackError checks Each propagates the callback's error.
func TestEach_StopsOnCallbackError(t *testing.T) {
	data := tracegen.New(nil).Activity(1).Activity(2).MustBytes()
	d := newDecoder(t, bytes.NewReader(data), Options{})

	stop := errors.New("stop")
	calls := 0
	err := d.Each(func(record.Event) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

// TestStats_Isolated checks Stats returns a copy.
func TestStats_Isolated(t *testing.T) {
	data := tracegen.New(nil).Activity(1).MustBytes()
	d := newDecoder(t, bytes.NewReader(data), Options{})
	_, err := decodeAll(t, d)
	require.NoError(t, err)

	s := d.Stats()
	s.Records[record.KindActivityCreation] = 99
	assert.Equal(t, uint64(1), d.Stats().Records[record.KindActivityCreation])
}
