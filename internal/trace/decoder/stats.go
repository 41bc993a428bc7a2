package decoder

import (
	"github.com/kolkov/tracechain/internal/trace/record"
	"github.com/kolkov/tracechain/internal/trace/stream"
)

// Stats tracks decoding counters for monitoring and the stats command.
type Stats struct {
	// Records counts decoded records per kind.
	Records map[record.Kind]uint64

	// Total counts all decoded records.
	Total uint64

	// Bytes is the number of stream bytes consumed.
	Bytes int64

	// Window holds the read window's source counters.
	Window stream.Stats
}

func newStats() Stats {
	return Stats{Records: make(map[record.Kind]uint64)}
}

func (s *Stats) record(k record.Kind) {
	s.Records[k]++
	s.Total++
}

func (s Stats) clone() Stats {
	out := s
	out.Records = make(map[record.Kind]uint64, len(s.Records))
	for k, v := range s.Records {
		out.Records[k] = v
	}
	return out
}
