package asset

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// Resolver errors.
var (
	ErrUnsupportedSource = errors.New("unsupported image source")
	ErrTooLarge          = errors.New("image too large")
	// ErrForbiddenAddress is returned for remote sources whose host resolves
	// to a loopback, private, link-local or otherwise non-public address.
	ErrForbiddenAddress = errors.New("image host not allowed")
)

// sharedAddressSpace is the carrier-grade NAT range, not covered by
// netip.Addr.IsPrivate.
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// Resolver decodes the image sources objects and backgrounds point at:
// data URLs, stored /assets/ files and remote http(s) URLs.
type Resolver struct {
	dir      string
	client   *http.Client
	maxBytes int64
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithHTTPClient replaces the client used for remote sources. The address
// checks of the default client do not apply to it.
func WithHTTPClient(c *http.Client) ResolverOption {
	return func(r *Resolver) { r.client = c }
}

// WithMaxBytes caps the encoded size of any source.
func WithMaxBytes(n int64) ResolverOption {
	return func(r *Resolver) { r.maxBytes = n }
}

// NewResolver resolves /assets/ sources from dir. Remote sources are only
// fetched from public addresses.
func NewResolver(dir string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		dir:      dir,
		client:   publicClient(),
		maxBytes: 20 << 20,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve decodes src.
func (r *Resolver) Resolve(ctx context.Context, src string) (image.Image, error) {
	data, err := r.fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	img, _, err := decode(data)
	return img, err
}

func (r *Resolver) fetch(ctx context.Context, src string) ([]byte, error) {
	switch {
	case strings.HasPrefix(src, "data:"):
		return r.dataURL(src)
	case strings.HasPrefix(src, "/assets/"):
		return r.stored(strings.TrimPrefix(src, "/assets/"))
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return r.remote(ctx, src)
	default:
		return nil, fmt.Errorf("%w: %.32q", ErrUnsupportedSource, src)
	}
}

// dataURL decodes data:[<mediatype>][;base64],<data>.
func (r *Resolver) dataURL(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data URL", ErrUnsupportedSource)
	}
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(meta, ";base64") {
		if int64(base64.StdEncoding.DecodedLen(len(payload))) > r.maxBytes {
			return nil, ErrTooLarge
		}
		data, err = base64.StdEncoding.DecodeString(payload)
	} else {
		var s string
		s, err = url.PathUnescape(payload)
		data = []byte(s)
	}
	if err != nil {
		return nil, fmt.Errorf("data URL: %w", err)
	}
	if int64(len(data)) > r.maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

func (r *Resolver) stored(name string) ([]byte, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	f, err := os.Open(filepath.Join(r.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}
	defer f.Close()
	return r.readLimited(f)
}

func (r *Resolver) remote(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: unexpected status %s", resp.Status)
	}
	if resp.ContentLength > r.maxBytes {
		return nil, ErrTooLarge
	}
	return r.readLimited(resp.Body)
}

// publicClient dials public addresses only. The check runs on every
// resolved address the dialer connects to, redirects included.
func publicClient() *http.Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second, Control: publicOnly}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.Proxy = nil
	tr.DialContext = dialer.DialContext
	return &http.Client{Timeout: 30 * time.Second, Transport: tr}
}

func publicOnly(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrForbiddenAddress, host)
	}
	ip = ip.Unmap()
	if !ip.IsGlobalUnicast() || ip.IsPrivate() || sharedAddressSpace.Contains(ip) {
		return fmt.Errorf("%w: %s", ErrForbiddenAddress, ip)
	}
	return nil
}

func (r *Resolver) readLimited(rd io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(rd, r.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > r.maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}
