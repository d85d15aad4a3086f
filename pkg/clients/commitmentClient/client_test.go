package commitmentClient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/Layr-Labs/sequencer-verifier/pkg/config"
	"github.com/Layr-Labs/sequencer-verifier/pkg/types"
)

func TestNewClient_ValidationErrors(t *testing.T) {
	logger := zaptest.NewLogger(t)

	tests := []struct {
		name        string
		config      *ClientConfig
		expectedErr string
	}{
		{name: "nil config", config: nil, expectedErr: "config cannot be nil"},
		{name: "nil logger", config: &ClientConfig{}, expectedErr: "logger is required"},
		{name: "negative timeout", config: &ClientConfig{Logger: logger, Timeout: -time.Second}, expectedErr: "timeout must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)
			assert.Nil(t, client)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(&ClientConfig{Logger: zap.NewNop()})
	require.NoError(t, err)
	assert.Equal(t, config.DefaultFetchTimeout, client.httpClient.Timeout)

	shared := &http.Client{Timeout: time.Hour}
	client, err = NewClient(&ClientConfig{Logger: zap.NewNop(), HTTPClient: shared, Timeout: 3 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, client.httpClient.Timeout)
	assert.Equal(t, time.Hour, shared.Timeout, "caller's http client must not be mutated")
}

func newTestClient(t *testing.T, timeout time.Duration) *Client {
	client, err := NewClient(&ClientConfig{Logger: zaptest.NewLogger(t), Timeout: timeout})
	require.NoError(t, err)
	return client
}

func TestFetchCommitment_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/latest", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":"0x1234","signature":{"r":"0x01","s":"0x02","yParity":"0x0"}}`))
	}))
	defer server.Close()

	commitment, err := newTestClient(t, time.Second).FetchCommitment(context.Background(), server.URL+"/latest")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x34}, commitment.Data)
	assert.Equal(t, uint8(27), commitment.Signature.V())
}

func TestFetchCommitment_Non2xx(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusBadGateway} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", status)
			}))
			defer server.Close()

			commitment, err := newTestClient(t, time.Second).FetchCommitment(context.Background(), server.URL)
			assert.Nil(t, commitment)
			require.Error(t, err)

			var fetchErr *types.FetchError
			require.True(t, errors.As(err, &fetchErr), "expected FetchError, got %T", err)
			assert.Equal(t, status, fetchErr.StatusCode)
			assert.True(t, errors.Is(err, types.ErrUnexpectedStatus))
		})
	}
}

func TestFetchCommitment_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(t, time.Second).FetchCommitment(context.Background(), url)
	require.Error(t, err)

	var fetchErr *types.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Zero(t, fetchErr.StatusCode)
}

func TestFetchCommitment_InvalidURL(t *testing.T) {
	_, err := newTestClient(t, time.Second).FetchCommitment(context.Background(), "://missing-scheme")
	require.Error(t, err)

	var fetchErr *types.FetchError
	assert.True(t, errors.As(err, &fetchErr))
}

func TestFetchCommitment_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	start := time.Now()
	_, err := newTestClient(t, 100*time.Millisecond).FetchCommitment(context.Background(), server.URL)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	var fetchErr *types.FetchError
	assert.True(t, errors.As(err, &fetchErr))
}

func TestFetchCommitment_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, time.Second).FetchCommitment(ctx, server.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFetchCommitment_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "html", body: "<html>maintenance</html>"},
		{name: "empty object", body: "{}"},
		{name: "missing yParity", body: `{"data":"0x12","signature":{"r":"0x1","s":"0x1"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(t, time.Second).FetchCommitment(context.Background(), server.URL)
			require.Error(t, err)

			var parseErr *types.ParseError
			assert.True(t, errors.As(err, &parseErr), "expected ParseError, got %T", err)

			var fetchErr *types.FetchError
			assert.False(t, errors.As(err, &fetchErr))
		})
	}
}

func TestFetchCommitment_BodyTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":"0x`))
		chunk := strings.Repeat("00", 1<<20)
		for written := 0; written <= MaxResponseBytes; written += len(chunk) {
			if _, err := w.Write([]byte(chunk)); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	_, err := newTestClient(t, 10*time.Second).FetchCommitment(context.Background(), server.URL)
	require.Error(t, err)

	var parseErr *types.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Contains(t, err.Error(), "exceeds")
}
