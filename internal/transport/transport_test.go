package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cuesmith/cuesmith/internal/types"
)

func TestInitReturnsSameSingleton(t *testing.T) {
	defer Shutdown()
	a := Init(5 * time.Second)
	b := Init(10 * time.Second)
	require.Same(t, a, b)
}

func TestGetSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()
	defer Shutdown()

	tr := Init(2 * time.Second)
	resp, err := tr.Get(srv.URL, nil, 0)
	require.NoError(t, err)
	require.Equal(t, `{"ok":true}`, resp.Text())
}

func TestGetNotFoundMapsToTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	defer Shutdown()

	tr := Init(2 * time.Second)
	_, err := tr.Get(srv.URL, nil, 0)
	require.Error(t, err)
	var te *types.TransportError
	require.ErrorAs(t, err, &te)
	require.Equal(t, types.TransportNotFound, te.Kind)
}

func TestGetRateLimitedMapsToTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()
	defer Shutdown()

	tr := Init(2 * time.Second)
	_, err := tr.Get(srv.URL, nil, 0)
	require.Error(t, err)
	var te *types.TransportError
	require.ErrorAs(t, err, &te)
	require.Equal(t, types.TransportRateLimited, te.Kind)
}
