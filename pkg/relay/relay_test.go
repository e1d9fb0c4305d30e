package relay

import (
	"context"
	"io"
	"sync/atomic"

	"streampipe-hq/streampipe/pkg/backend"
	"streampipe-hq/streampipe/pkg/config"
	"streampipe-hq/streampipe/pkg/routes"
)

// fakeBackend is a scripted resolution backend for relay tests.
type fakeBackend struct {
	variants map[string]backend.Variant
	err      error

	calls    atomic.Int64
	lastURL  string
	lastOpts backend.Options
}

func (f *fakeBackend) Streams(ctx context.Context, url string, opts backend.Options) (map[string]backend.Variant, error) {
	f.calls.Add(1)
	f.lastURL = url
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.variants, nil
}

// fakeVariant opens a scripted handle, or fails, or blocks until the
// request context is cancelled.
type fakeVariant struct {
	reads   [][]byte
	openErr error
	block   bool

	opened atomic.Int64
	handle *fakeHandle
}

func (v *fakeVariant) Open(ctx context.Context) (io.ReadCloser, error) {
	if v.block {
		<-ctx.Done()
		return nil, &backend.StreamError{Op: "open", Err: ctx.Err()}
	}
	if v.openErr != nil {
		return nil, v.openErr
	}
	v.opened.Add(1)
	v.handle = &fakeHandle{reads: v.reads, closed: make(chan struct{})}
	return v.handle, nil
}

// fakeHandle replays scripted reads then returns io.EOF. Close is observable
// and counted so tests can assert the exactly-once release discipline.
type fakeHandle struct {
	reads  [][]byte
	pos    int
	closes atomic.Int64
	closed chan struct{}
}

func (h *fakeHandle) Read(p []byte) (int, error) {
	if h.pos >= len(h.reads) {
		return 0, io.EOF
	}
	n := copy(p, h.reads[h.pos])
	h.pos++
	return n, nil
}

func (h *fakeHandle) Close() error {
	if h.closes.Add(1) == 1 {
		close(h.closed)
	}
	return nil
}

// endlessHandle produces aligned data forever until closed, for disconnect
// tests.
type endlessHandle struct {
	closed chan struct{}
	closes atomic.Int64
}

func newEndlessHandle() *endlessHandle {
	return &endlessHandle{closed: make(chan struct{})}
}

func (h *endlessHandle) Read(p []byte) (int, error) {
	select {
	case <-h.closed:
		return 0, io.EOF
	default:
	}
	n := len(p) - len(p)%PacketSize
	if n == 0 {
		n = len(p)
	}
	for i := 0; i < n; i++ {
		p[i] = 0x47
	}
	return n, nil
}

func (h *endlessHandle) Close() error {
	if h.closes.Add(1) == 1 {
		close(h.closed)
	}
	return nil
}

type endlessVariant struct {
	handle *endlessHandle
}

func (v *endlessVariant) Open(ctx context.Context) (io.ReadCloser, error) {
	return v.handle, nil
}

// testTable builds a routing table for the given name→url pairs.
func testTable(streams map[string]string) *routes.Table {
	cfg := &config.Config{Streams: make(map[string]config.StreamConfig, len(streams))}
	for name, url := range streams {
		cfg.Streams[name] = config.StreamConfig{URL: url}
	}
	config.ApplyDefaults(cfg)
	return routes.NewTable(cfg)
}
