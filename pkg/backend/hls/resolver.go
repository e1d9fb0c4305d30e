package hls

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/grafov/m3u8"

	"streampipe-hq/streampipe/pkg/backend"
)

// Resolver resolves HLS sources into backend variants. The zero value is
// ready to use; New is provided for symmetry with the rest of the codebase.
type Resolver struct{}

// New creates an HLS resolver.
func New() *Resolver {
	return &Resolver{}
}

// Streams implements backend.Backend. It fetches the playlist at url and
// enumerates its renditions.
func (r *Resolver) Streams(ctx context.Context, rawURL string, opts backend.Options) (map[string]backend.Variant, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, backend.ErrNoPlugin
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, backend.ErrNoPlugin
	}

	client := newClient(opts)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &backend.StreamError{Op: "resolve", URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &backend.StreamError{Op: "resolve", URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &backend.StreamError{
			Op:  "resolve",
			URL: rawURL,
			Err: fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	playlist, listType, err := m3u8.DecodeFrom(resp.Body, true)
	if err != nil {
		// The URL answered but the payload is not an HLS playlist; no
		// adapter applies.
		return nil, backend.ErrNoPlugin
	}

	switch listType {
	case m3u8.MASTER:
		return r.masterVariants(base, playlist.(*m3u8.MasterPlaylist), opts)
	case m3u8.MEDIA:
		v := &variant{playlistURL: base, opts: opts}
		return map[string]backend.Variant{"live": v}, nil
	default:
		return nil, backend.ErrNoPlugin
	}
}

// masterVariants builds the variant map for a master playlist, including the
// "best" and "worst" aliases ranked by declared bandwidth.
func (r *Resolver) masterVariants(base *url.URL, master *m3u8.MasterPlaylist, opts backend.Options) (map[string]backend.Variant, error) {
	type rendition struct {
		name      string
		bandwidth uint32
		v         *variant
	}

	var renditions []rendition
	for _, mv := range master.Variants {
		if mv == nil || mv.URI == "" {
			continue
		}
		u, err := base.Parse(mv.URI)
		if err != nil {
			continue
		}
		renditions = append(renditions, rendition{
			name:      variantName(mv),
			bandwidth: mv.Bandwidth,
			v:         &variant{playlistURL: u, opts: opts},
		})
	}

	if len(renditions) == 0 {
		return nil, backend.ErrNoStreams
	}

	sort.SliceStable(renditions, func(i, j int) bool {
		return renditions[i].bandwidth < renditions[j].bandwidth
	})

	variants := make(map[string]backend.Variant, len(renditions)+2)
	for _, rd := range renditions {
		variants[rd.name] = rd.v
	}
	variants["worst"] = renditions[0].v
	variants["best"] = renditions[len(renditions)-1].v

	return variants, nil
}

// variantName derives a stable name for a rendition: the vertical resolution
// (e.g. "720p") when declared, otherwise the bandwidth in kbit/s
// (e.g. "2500k").
func variantName(v *m3u8.Variant) string {
	if v.Resolution != "" {
		parts := strings.SplitN(strings.ToLower(v.Resolution), "x", 2)
		if len(parts) == 2 && parts[1] != "" {
			return parts[1] + "p"
		}
	}
	return fmt.Sprintf("%dk", v.Bandwidth/1000)
}

// newClient builds the HTTP client for one resolution, bounded by the
// configured upstream timeout.
func newClient(opts backend.Options) *http.Client {
	return &http.Client{Timeout: opts.Timeout}
}
