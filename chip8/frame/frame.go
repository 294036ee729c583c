// Package frame hands finished bitmaps from the code that draws them to the
// code that renders them.
//
// A writer publishes a bitmap and the buffer keeps a private copy of it.
// Readers load the latest copy without locking and may keep using it for a
// whole draw call; it is never written again.
package frame

import (
	"sync"
	"sync/atomic"

	"chip8screen/chip8/bitmap"
)

// Snapshot is an immutable published frame.
type Snapshot struct {
	Bitmap     *bitmap.Bitmap
	Generation uint64
}

type Buffer struct {
	// serialises writers only
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
	changed chan struct{}
}

// NewBuffer returns a buffer holding a blank frame of geometry g.
func NewBuffer(g bitmap.Geometry) *Buffer {
	b := &Buffer{
		changed: make(chan struct{}, 1),
	}
	b.current.Store(&Snapshot{Bitmap: bitmap.New(g)})
	return b
}

// Publish copies bm and makes the copy the current frame. bm may be reused
// by the caller as soon as Publish returns.
func (b *Buffer) Publish(bm *bitmap.Bitmap) {
	snap := bm.Clone()

	b.mu.Lock()
	gen := b.current.Load().Generation + 1
	b.current.Store(&Snapshot{Bitmap: snap, Generation: gen})
	b.mu.Unlock()

	select {
	case b.changed <- struct{}{}:
	default:
	}
}

// Snapshot returns the current frame. Callers must not modify it.
func (b *Buffer) Snapshot() *Snapshot {
	return b.current.Load()
}

// Changed receives after one or more calls to Publish. Notifications are
// coalesced, so a reader should always take the latest Snapshot.
func (b *Buffer) Changed() <-chan struct{} {
	return b.changed
}

// Draw implements display.Drawer.
func (b *Buffer) Draw(bm *bitmap.Bitmap) error {
	b.Publish(bm)
	return nil
}
