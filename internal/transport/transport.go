// Package transport is a process-singleton HTTP client sub-system:
// explicit Init/Shutdown at program boundaries, providers receive a
// borrowed *Transport handle rather than reaching for a global.
package transport

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-musicfox/requests"

	"github.com/cuesmith/cuesmith/internal/types"
)

// Transport is a borrowed handle onto the process-wide HTTP client. It is
// safe for concurrent use by multiple providers.
type Transport struct {
	defaultTimeout time.Duration
}

var (
	mu        sync.Mutex
	singleton *Transport
)

// Init brings up the process-singleton transport. Calling it more than
// once without an intervening Shutdown is a no-op: every caller shares
// the same underlying client rather than paying setup/teardown costs
// per provider.
func Init(defaultTimeout time.Duration) *Transport {
	mu.Lock()
	defer mu.Unlock()
	if singleton == nil {
		singleton = &Transport{defaultTimeout: defaultTimeout}
	}
	return singleton
}

// Shutdown tears down the process singleton. Safe to call when Init was
// never called.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	singleton = nil
}

// Get performs a GET request with the given query parameters and an
// optional timeout override; a non-positive value means reuse the
// transport's default timeout.
func (t *Transport) Get(url string, params map[string]string, timeout time.Duration) (*requests.Response, error) {
	if timeout <= 0 {
		timeout = t.defaultTimeout
	}

	req := requests.Requests()
	req.SetTimeout(timeout)

	var args []interface{}
	if len(params) > 0 {
		args = append(args, requests.Params(params))
	}

	resp, err := req.Get(url, args...)
	if err != nil {
		return nil, classifyError(err)
	}
	if resp.R.StatusCode == http.StatusNotFound {
		return nil, &types.TransportError{Kind: types.TransportNotFound, Err: fmt.Errorf("transport: %s: 404", url)}
	}
	if resp.R.StatusCode == http.StatusTooManyRequests {
		return nil, &types.TransportError{Kind: types.TransportRateLimited, Err: fmt.Errorf("transport: %s: 429", url)}
	}
	if resp.R.StatusCode >= 500 {
		return nil, &types.TransportError{Kind: types.TransportProtocol, Err: fmt.Errorf("transport: %s: status %d", url, resp.R.StatusCode)}
	}
	return resp, nil
}

// classifyError maps the underlying net/http failure into the
// provider-scoped TransportError taxonomy.
func classifyError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &types.TransportError{Kind: types.TransportTimeout, Err: err}
	}
	return &types.TransportError{Kind: types.TransportProtocol, Err: err}
}
