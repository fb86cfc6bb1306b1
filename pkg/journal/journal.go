// Package journal keeps a bounded history of encoded change batches and
// can archive it to S3 for offline inspection.
//
// The journal is a debugging aid: archived batches are read back by
// `memodom inspect`, never replayed into a driver.
package journal

import (
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"github.com/vango-dev/memodom/pkg/protocol"
)

// DefaultCapacity is the number of batches kept when none is configured.
const DefaultCapacity = 256

// Entry is one recorded batch frame.
type Entry struct {
	Seq        uint64    // Render cycle sequence number
	Frame      []byte    // Encoded FrameChanges frame
	RecordedAt time.Time // When the cycle completed
}

// Journal is a thread-safe ring buffer of batch frames. When full, the
// oldest entry is overwritten.
type Journal struct {
	mu       sync.RWMutex
	entries  []*Entry
	head     int // next write position
	count    int
	capacity int
}

// New creates a journal holding up to capacity batches.
func New(capacity int) *Journal {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Journal{
		entries:  make([]*Entry, capacity),
		capacity: capacity,
	}
}

// Record stores a copy of frame under seq.
func (j *Journal) Record(seq uint64, frame []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries[j.head] = &Entry{
		Seq:        seq,
		Frame:      append([]byte(nil), frame...),
		RecordedAt: time.Now(),
	}
	j.head = (j.head + 1) % j.capacity
	if j.count < j.capacity {
		j.count++
	}
}

// Entries returns the recorded entries, oldest first.
func (j *Journal) Entries() []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]Entry, 0, j.count)
	for i := 0; i < j.count; i++ {
		idx := (j.head - j.count + i + j.capacity) % j.capacity
		out = append(out, *j.entries[idx])
	}
	return out
}

// Since returns the frames recorded after seq, oldest first.
func (j *Journal) Since(seq uint64) [][]byte {
	var frames [][]byte
	for _, e := range j.Entries() {
		if e.Seq > seq {
			frames = append(frames, e.Frame)
		}
	}
	return frames
}

// Count returns the number of entries in the journal.
func (j *Journal) Count() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.count
}

// Clear removes all entries.
func (j *Journal) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	clear(j.entries)
	j.head = 0
	j.count = 0
}

// Bundle concatenates the frames of entries into one blob. Frames are
// self-delimiting, so Split recovers them.
func Bundle(entries []Entry) []byte {
	var buf []byte
	for _, e := range entries {
		buf = append(buf, e.Frame...)
	}
	return buf
}

// ErrCorruptBundle is returned by Split for data that does not end on a
// frame boundary.
var ErrCorruptBundle = errors.New("journal: corrupt bundle")

// Split decodes a bundle into its batches.
func Split(data []byte) ([]protocol.Batch, error) {
	var batches []protocol.Batch
	for len(data) > 0 {
		if len(data) < protocol.FrameHeaderSize {
			return nil, ErrCorruptBundle
		}
		end := protocol.FrameHeaderSize + int(binary.BigEndian.Uint32(data[1:protocol.FrameHeaderSize]))
		if end > len(data) {
			return nil, ErrCorruptBundle
		}
		b, err := protocol.DecodeBatch(data[:end])
		if err != nil {
			return nil, err
		}
		batches = append(batches, b)
		data = data[end:]
	}
	return batches, nil
}
