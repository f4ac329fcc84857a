// Package shell keeps the client's web shell usable offline. Worker is an
// http.RoundTripper placed in front of the shell's origin: it tries the
// network first, keeps a copy of every successful response and answers
// from that copy (or a fallback page) when the network fails. Caches are
// versioned by the build stamp and stored in the local SQLite database.
package shell

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/wardminutes/internal/buildinfo"
	"github.com/dmitrijs2005/wardminutes/internal/client/models"
	"github.com/dmitrijs2005/wardminutes/internal/client/repositories/shellcache"
	"github.com/dmitrijs2005/wardminutes/internal/common"
	"github.com/dmitrijs2005/wardminutes/internal/logging"
)

const (
	precachePrefix = "wardminutes-shell-"
	runtimePrefix  = "wardminutes-runtime-"

	// MessageSkipWaiting activates a waiting worker.
	MessageSkipWaiting = "SKIP_WAITING"

	// CacheHeader names the cache a response was served from.
	CacheHeader = "X-Shell-Cache"
)

var ErrUnknownMessage = errors.New("unknown message")

// CacheNames returns the precache and runtime cache names of a build.
func CacheNames(stamp string) (precache, runtime string) {
	return precachePrefix + stamp, runtimePrefix + stamp
}

// State is the worker lifecycle stage.
type State string

const (
	StateNew     State = "new"
	StateWaiting State = "waiting"
	StateActive  State = "active"
)

type Options struct {
	// Origin is the only scheme+host the worker intercepts.
	Origin *url.URL
	// Manifest lists the paths precached by Install.
	Manifest []string
	// Fallback is served when neither the network nor the cache can answer.
	Fallback string
	// Transport reaches the network. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
	// Stamp versions the caches. Defaults to buildinfo.Stamp().
	Stamp  string
	Logger logging.Logger
	Clock  func() time.Time
}

type Worker struct {
	cache    shellcache.Repository
	next     http.RoundTripper
	origin   *url.URL
	manifest []string
	fallback string
	precache string
	runtime  string
	log      logging.Logger
	now      func() time.Time

	mu    sync.RWMutex
	state State
}

func NewWorker(cache shellcache.Repository, opts Options) (*Worker, error) {
	if opts.Origin == nil || opts.Origin.Host == "" {
		return nil, errors.New("shell origin is required")
	}
	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}
	if opts.Stamp == "" {
		opts.Stamp = buildinfo.Stamp()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	pre, rt := CacheNames(opts.Stamp)
	return &Worker{
		cache:    cache,
		next:     opts.Transport,
		origin:   opts.Origin,
		manifest: opts.Manifest,
		fallback: opts.Fallback,
		precache: pre,
		runtime:  rt,
		log:      opts.Logger.With("cache", pre),
		now:      opts.Clock,
		state:    StateNew,
	}, nil
}

func (w *Worker) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

func (w *Worker) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// Install precaches the manifest. Assets that fail to load are logged and
// skipped. When caches of another build exist the worker waits for
// Activate or a skip-waiting message; otherwise it activates at once.
func (w *Worker) Install(ctx context.Context) error {
	for _, asset := range w.manifest {
		if err := w.precacheAsset(ctx, asset); err != nil {
			w.log.Warn(ctx, "precache failed", "asset", asset, "error", err)
		}
	}

	names, err := w.cache.CacheNames(ctx)
	if err != nil {
		return fmt.Errorf("install: %w", err)
	}
	for _, n := range names {
		if !w.current(n) {
			w.setState(StateWaiting)
			w.log.Info(ctx, "installed, waiting for older caches to be released")
			return nil
		}
	}
	return w.Activate(ctx)
}

func (w *Worker) precacheAsset(ctx context.Context, asset string) error {
	u := w.origin.ResolveReference(&url.URL{Path: asset})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := w.next.RoundTrip(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return w.store(ctx, w.precache, cacheKey(u), resp, body)
}

// Activate drops every cache that does not belong to this build.
func (w *Worker) Activate(ctx context.Context) error {
	names, err := w.cache.CacheNames(ctx)
	if err != nil {
		return fmt.Errorf("activate: %w", err)
	}
	var stale []string
	for _, n := range names {
		if !w.current(n) {
			stale = append(stale, n)
		}
	}
	if len(stale) > 0 {
		if err := w.cache.DeleteCaches(ctx, stale); err != nil {
			return fmt.Errorf("activate: %w", err)
		}
		w.log.Info(ctx, "deleted old caches", "caches", stale)
	}
	w.setState(StateActive)
	return nil
}

// Message handles a control message sent to the worker.
func (w *Worker) Message(ctx context.Context, msg string) error {
	switch strings.TrimSpace(msg) {
	case MessageSkipWaiting:
		return w.Activate(ctx)
	}
	return fmt.Errorf("%w: %q", ErrUnknownMessage, msg)
}

func (w *Worker) current(name string) bool {
	return name == w.precache || name == w.runtime
}

func (w *Worker) intercepts(req *http.Request) bool {
	return req.Method == http.MethodGet &&
		strings.EqualFold(req.URL.Scheme, w.origin.Scheme) &&
		strings.EqualFold(req.URL.Host, w.origin.Host)
}

// RoundTrip serves same-origin GETs network first, cache second, fallback
// last. Everything else, and every request before activation, goes
// straight to the network.
func (w *Worker) RoundTrip(req *http.Request) (*http.Response, error) {
	if w.State() != StateActive || !w.intercepts(req) {
		return w.next.RoundTrip(req)
	}

	ctx := req.Context()
	key := cacheKey(req.URL)

	resp, err := w.next.RoundTrip(req)
	if err == nil {
		if resp.StatusCode == http.StatusOK {
			resp = w.keepCopy(ctx, key, resp)
		}
		return resp, nil
	}

	w.log.Debug(ctx, "network failed, trying cache", "url", key, "error", err)
	if cached := w.lookup(context.WithoutCancel(ctx), req, key); cached != nil {
		return cached, nil
	}
	if w.fallback != "" {
		fb := cacheKey(w.origin.ResolveReference(&url.URL{Path: w.fallback}))
		if cached := w.lookup(context.WithoutCancel(ctx), req, fb); cached != nil {
			return cached, nil
		}
	}
	return nil, err
}

func (w *Worker) keepCopy(ctx context.Context, key string, resp *http.Response) *http.Response {
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		w.log.Warn(ctx, "reading response failed", "url", key, "error", err)
		return resp
	}
	if err := w.store(ctx, w.runtime, key, resp, body); err != nil {
		w.log.Warn(ctx, "caching response failed", "url", key, "error", err)
	}
	return resp
}

func (w *Worker) store(ctx context.Context, cacheName, key string, resp *http.Response, body []byte) error {
	header, err := json.Marshal(resp.Header)
	if err != nil {
		return err
	}
	return w.cache.Put(ctx, &models.ShellEntry{
		CacheName: cacheName,
		URL:       key,
		Status:    resp.StatusCode,
		Header:    header,
		Body:      body,
		StoredAt:  w.now(),
	})
}

// lookup checks the runtime cache, then the precache.
func (w *Worker) lookup(ctx context.Context, req *http.Request, key string) *http.Response {
	for _, name := range []string{w.runtime, w.precache} {
		e, err := w.cache.Get(ctx, name, key)
		if errors.Is(err, common.ErrorNotFound) {
			continue
		}
		if err != nil {
			w.log.Warn(ctx, "cache read failed", "cache", name, "url", key, "error", err)
			continue
		}
		return cachedResponse(req, e)
	}
	return nil
}

func cachedResponse(req *http.Request, e *models.ShellEntry) *http.Response {
	header := http.Header{}
	if len(e.Header) > 0 {
		_ = json.Unmarshal(e.Header, &header)
	}
	header.Set(CacheHeader, e.CacheName)
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status)),
		StatusCode:    e.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}

// cacheKey is the path and query of u; the origin is implied.
func cacheKey(u *url.URL) string {
	key := u.EscapedPath()
	if key == "" {
		key = "/"
	}
	if u.RawQuery != "" {
		key += "?" + u.RawQuery
	}
	return key
}
