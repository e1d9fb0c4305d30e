package hls

import (
	"errors"
	"io"
	"sync"
)

// ErrRingClosed is returned by ring writes after the reader has closed.
var ErrRingClosed = errors.New("ring buffer closed")

// ring is a fixed-capacity byte ring between the segment pipeline and the
// stream handle. Writes block while the ring is full; reads block while it
// is empty. The writer side signals end-of-stream (or a terminal error) with
// closeWrite; the reader side aborts the pipeline with close.
type ring struct {
	mu    sync.Mutex
	cond  *sync.Cond
	buf   []byte
	start int
	size  int

	writeClosed bool
	readClosed  bool
	err         error
}

func newRing(capacity int) *ring {
	r := &ring{buf: make([]byte, capacity)}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// Write copies p into the ring, blocking while the ring is full. It returns
// ErrRingClosed if the reader has gone away.
func (r *ring) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	written := 0
	for written < len(p) {
		for r.size == len(r.buf) && !r.readClosed {
			r.cond.Wait()
		}
		if r.readClosed {
			return written, ErrRingClosed
		}
		if r.writeClosed {
			return written, ErrRingClosed
		}

		n := copy(r.slackSlice(), p[written:])
		r.size += n
		written += n
		r.cond.Broadcast()
	}
	return written, nil
}

// Read copies buffered bytes into p, blocking while the ring is empty. Once
// the writer has closed, Read drains the remaining bytes and then returns
// the writer's terminal error (io.EOF for a normal end of stream).
func (r *ring) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for r.size == 0 {
		if r.readClosed {
			return 0, ErrRingClosed
		}
		if r.writeClosed {
			if r.err != nil {
				return 0, r.err
			}
			return 0, io.EOF
		}
		r.cond.Wait()
	}

	n := 0
	for n < len(p) && r.size > 0 {
		c := copy(p[n:], r.dataSlice())
		r.start = (r.start + c) % len(r.buf)
		r.size -= c
		n += c
	}
	r.cond.Broadcast()
	return n, nil
}

// closeWrite marks the end of the stream. A nil err means a clean end
// (readers see io.EOF after draining); a non-nil err is surfaced to the
// reader instead.
func (r *ring) closeWrite(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.writeClosed {
		r.writeClosed = true
		r.err = err
		r.cond.Broadcast()
	}
}

// close abandons the ring from the reader side, releasing any blocked
// writer.
func (r *ring) close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.readClosed {
		r.readClosed = true
		r.cond.Broadcast()
	}
}

// dataSlice returns the contiguous readable run starting at start.
func (r *ring) dataSlice() []byte {
	end := r.start + r.size
	if end > len(r.buf) {
		end = len(r.buf)
	}
	return r.buf[r.start:end]
}

// slackSlice returns the contiguous writable run after the buffered data.
func (r *ring) slackSlice() []byte {
	pos := (r.start + r.size) % len(r.buf)
	end := len(r.buf)
	if pos < r.start {
		end = r.start
	}
	return r.buf[pos:end]
}
