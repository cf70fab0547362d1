package checkout

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	apperrors "github.com/wekeepgrowing/institute-backend/pkg/errors"
)

// ScriptLoader fetches the gateway's checkout script once per URL.
// Every caller after the first gets the cached outcome, including a failure.
type ScriptLoader struct {
	client *http.Client

	mu     sync.Mutex
	url    string
	loaded bool
	script []byte
	err    error
}

func NewScriptLoader(url string, client *http.Client) *ScriptLoader {
	if client == nil {
		client = http.DefaultClient
	}
	return &ScriptLoader{url: url, client: client}
}

// Load blocks until the first load has finished.
func (l *ScriptLoader) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.loaded {
		l.loadLocked(ctx)
	}
	return l.err
}

// Use switches to the script at ref, resolved against the current URL, and
// loads it unless it is the one already loaded. An empty ref keeps the current script.
func (l *ScriptLoader) Use(ctx context.Context, ref string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ref == "" {
		if !l.loaded {
			l.loadLocked(ctx)
		}
		return l.err
	}

	next, err := resolveScriptURL(l.url, ref)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrGatewayUnavailable, "payment gateway unavailable", err)
	}
	if l.loaded && next == l.url {
		return l.err
	}
	l.url = next
	l.loadLocked(ctx)
	return l.err
}

// URL returns the script URL the loader currently serves.
func (l *ScriptLoader) URL() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.url
}

// Script returns the loaded script body, nil until a load has succeeded.
func (l *ScriptLoader) Script() []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil
	}
	return l.script
}

func (l *ScriptLoader) loadLocked(ctx context.Context) {
	script, err := l.fetch(ctx)
	l.loaded = true
	if err != nil {
		l.script = nil
		l.err = apperrors.NewAppError(apperrors.ErrGatewayUnavailable, "payment gateway unavailable", err)
		return
	}
	l.script, l.err = script, nil
}

func (l *ScriptLoader) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("script %s returned %d", l.url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("script %s is empty", l.url)
	}
	return body, nil
}

// resolveScriptURL resolves ref against base. The payment service hands out
// host-relative paths for its own sandbox script.
func resolveScriptURL(base, ref string) (string, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid script url %q: %w", ref, err)
	}
	if r.IsAbs() {
		return r.String(), nil
	}
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return "", fmt.Errorf("cannot resolve script url %q against %q", ref, base)
	}
	return b.ResolveReference(r).String(), nil
}
