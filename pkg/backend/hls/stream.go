package hls

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/grafov/m3u8"

	"streampipe-hq/streampipe/pkg/backend"
)

// defaultRingSize is used when the caller leaves Options.RingBufferSize
// unset.
const defaultRingSize = 32 * 1024 * 1024

// variant is one rendition of an HLS source, identified by its media
// playlist URL.
type variant struct {
	playlistURL *url.URL
	opts        backend.Options
}

// Open implements backend.Variant. It starts the segment pipeline and
// returns the stream handle reading from its ring buffer.
func (v *variant) Open(ctx context.Context) (io.ReadCloser, error) {
	ringSize := v.opts.RingBufferSize
	if ringSize <= 0 {
		ringSize = defaultRingSize
	}
	threads := v.opts.SegmentThreads
	if threads < 1 {
		threads = 1
	}

	pctx, cancel := context.WithCancel(ctx)

	s := &stream{
		ring:   newRing(ringSize),
		cancel: cancel,
	}

	p := &pipeline{
		client:      newClient(v.opts),
		playlistURL: v.playlistURL,
		userAgent:   v.opts.UserAgent,
		threads:     threads,
		ring:        s.ring,
		cancel:      cancel,
	}

	results := make(chan chan fetchResult, threads)
	go p.schedule(pctx, results)
	go p.deliver(pctx, results)

	return s, nil
}

// stream is the byte-stream handle handed to the relay engine. It is
// exclusively owned by one relay session.
type stream struct {
	ring      *ring
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// Read implements io.Reader, draining the pipeline's ring buffer.
func (s *stream) Read(p []byte) (int, error) {
	return s.ring.Read(p)
}

// Close stops the segment pipeline and releases the ring buffer. It is safe
// to call more than once.
func (s *stream) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.ring.close()
	})
	return nil
}

// fetchResult carries one downloaded segment, or the error that ended the
// pipeline.
type fetchResult struct {
	data []byte
	err  error
}

// pipeline downloads playlist segments with bounded parallelism and feeds
// them, strictly in order, into the ring buffer.
type pipeline struct {
	client      *http.Client
	playlistURL *url.URL
	userAgent   string
	threads     int
	ring        *ring
	cancel      context.CancelFunc
}

// schedule polls the media playlist, tracks the live window by media
// sequence number, and spawns one bounded fetch per new segment. Ordering is
// preserved by enqueueing one result slot per segment: fetches run
// concurrently, delivery consumes slots in enqueue order. The results
// channel capacity bounds the in-flight fetch count.
func (p *pipeline) schedule(ctx context.Context, results chan<- chan fetchResult) {
	defer close(results)

	var nextSeq uint64
	first := true

	for {
		mp, err := p.fetchPlaylist(ctx)
		if err != nil {
			p.emitError(ctx, results, err)
			return
		}

		if first {
			nextSeq = mp.SeqNo
			first = false
		}

		idx := 0
		for _, seg := range mp.Segments {
			if seg == nil {
				continue
			}
			seq := mp.SeqNo + uint64(idx)
			idx++
			if seq < nextSeq {
				continue
			}

			u, err := p.playlistURL.Parse(seg.URI)
			if err != nil {
				p.emitError(ctx, results, &backend.StreamError{
					Op:  "open",
					URL: seg.URI,
					Err: err,
				})
				return
			}

			slot := make(chan fetchResult, 1)
			select {
			case results <- slot:
			case <-ctx.Done():
				return
			}
			go p.fetchSegment(ctx, u, slot)

			nextSeq = seq + 1
		}

		if mp.Closed {
			return
		}

		select {
		case <-time.After(pollInterval(mp)):
		case <-ctx.Done():
			return
		}
	}
}

// deliver drains result slots in order and writes segment bytes into the
// ring. A full ring blocks here, which in turn blocks schedule on the
// results channel: a slow reader throttles downloading.
func (p *pipeline) deliver(ctx context.Context, results <-chan chan fetchResult) {
	for slot := range results {
		var res fetchResult
		select {
		case res = <-slot:
		case <-ctx.Done():
			p.ring.closeWrite(ctx.Err())
			return
		}

		if res.err != nil {
			p.ring.closeWrite(res.err)
			p.cancel()
			return
		}

		if _, err := p.ring.Write(res.data); err != nil {
			// Reader closed the handle; tear down the pipeline.
			p.cancel()
			return
		}
	}

	p.ring.closeWrite(nil)
}

// emitError pushes a terminal error through the results queue so deliver
// surfaces it after all previously scheduled segments.
func (p *pipeline) emitError(ctx context.Context, results chan<- chan fetchResult, err error) {
	slot := make(chan fetchResult, 1)
	slot <- fetchResult{err: err}
	select {
	case results <- slot:
	case <-ctx.Done():
	}
}

// fetchPlaylist fetches and parses the variant's media playlist.
func (p *pipeline) fetchPlaylist(ctx context.Context) (*m3u8.MediaPlaylist, error) {
	body, err := p.get(ctx, p.playlistURL.String())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	playlist, listType, err := m3u8.DecodeFrom(body, true)
	if err != nil {
		return nil, &backend.StreamError{Op: "open", URL: p.playlistURL.String(), Err: err}
	}
	mp, ok := playlist.(*m3u8.MediaPlaylist)
	if !ok || listType != m3u8.MEDIA {
		return nil, &backend.StreamError{
			Op:  "open",
			URL: p.playlistURL.String(),
			Err: fmt.Errorf("expected media playlist"),
		}
	}
	return mp, nil
}

// fetchSegment downloads one segment and posts it to its result slot.
func (p *pipeline) fetchSegment(ctx context.Context, u *url.URL, slot chan<- fetchResult) {
	body, err := p.get(ctx, u.String())
	if err != nil {
		slot <- fetchResult{err: err}
		return
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		slot <- fetchResult{err: &backend.StreamError{Op: "read", URL: u.String(), Err: err}}
		return
	}
	slot <- fetchResult{data: data}
}

// get issues one upstream GET with the configured User-Agent.
func (p *pipeline) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &backend.StreamError{Op: "read", URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &backend.StreamError{Op: "read", URL: rawURL, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &backend.StreamError{
			Op:  "read",
			URL: rawURL,
			Err: fmt.Errorf("unexpected status %s", resp.Status),
		}
	}
	return resp.Body, nil
}

// pollInterval derives the playlist refresh delay from the target duration,
// clamped to a sane live-edge window.
func pollInterval(mp *m3u8.MediaPlaylist) time.Duration {
	d := time.Duration(mp.TargetDuration * float64(time.Second) / 2)
	if d < 500*time.Millisecond {
		return 500 * time.Millisecond
	}
	if d > 10*time.Second {
		return 10 * time.Second
	}
	return d
}
