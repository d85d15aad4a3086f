package commitmentClient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Layr-Labs/sequencer-verifier/pkg/config"
	"github.com/Layr-Labs/sequencer-verifier/pkg/types"
)

const (
	// MaxResponseBytes caps the size of a commitment response body
	MaxResponseBytes = 32 << 20

	userAgent = "sequencer-verifier/1.0"
)

// ICommitmentClient fetches signed sequencer commitments
type ICommitmentClient interface {
	FetchCommitment(ctx context.Context, url string) (*types.Commitment, error)
}

// Compile-time check to ensure Client implements ICommitmentClient
var _ ICommitmentClient = (*Client)(nil)

// ClientConfig holds the configuration for the commitment client
type ClientConfig struct {
	// Timeout bounds a whole request, including reading the body. Defaults to config.DefaultFetchTimeout.
	Timeout time.Duration
	Logger  *zap.Logger

	// HTTPClient is optional; its Timeout is overridden by Timeout.
	HTTPClient *http.Client
}

// Client fetches commitments over HTTP
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new commitment client
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %s", cfg.Timeout)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = config.DefaultFetchTimeout
	}

	httpClient := &http.Client{}
	if cfg.HTTPClient != nil {
		c := *cfg.HTTPClient
		httpClient = &c
	}
	httpClient.Timeout = timeout

	return &Client{
		httpClient: httpClient,
		logger:     cfg.Logger,
	}, nil
}

// FetchCommitment GETs url and decodes the commitment it serves. Transport
// failures and non-2xx answers are returned as *types.FetchError, undecodable
// bodies as *types.ParseError.
func (c *Client) FetchCommitment(ctx context.Context, url string) (*types.Commitment, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	commitment, err := types.ParseCommitmentResponse(body)
	if err != nil {
		c.logger.Sugar().Debugw("Failed to parse commitment response",
			"url", url,
			"body_bytes", len(body),
			"error", err,
		)
		return nil, err
	}

	c.logger.Sugar().Debugw("Fetched commitment",
		"url", url,
		"data_bytes", len(commitment.Data),
		"v", commitment.Signature.V(),
	)
	return commitment, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: errors.Wrap(err, "failed to build request")}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Sugar().Debugw("Commitment endpoint responded",
		"url", url,
		"status_code", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &types.FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        errors.Wrapf(types.ErrUnexpectedStatus, "body: %q", string(snippet)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return nil, &types.FetchError{URL: url, StatusCode: resp.StatusCode, Err: errors.Wrap(err, "failed to read response body")}
	}
	if len(body) > MaxResponseBytes {
		return nil, &types.ParseError{Err: fmt.Errorf("response body exceeds %d bytes", MaxResponseBytes)}
	}
	return body, nil
}
