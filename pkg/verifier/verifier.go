package verifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Layr-Labs/sequencer-verifier/pkg/clients/commitmentClient"
	"github.com/Layr-Labs/sequencer-verifier/pkg/config"
	"github.com/Layr-Labs/sequencer-verifier/pkg/crypto"
	"github.com/Layr-Labs/sequencer-verifier/pkg/payload"
	"github.com/Layr-Labs/sequencer-verifier/pkg/types"
)

// ErrSignerMismatch is reported for a commitment whose signature recovers to
// an address other than the chain's sequencer.
var ErrSignerMismatch = errors.New("recovered signer does not match the sequencer address")

type Status string

const (
	StatusSuccess       Status = "success"
	StatusMismatch      Status = "mismatch"
	StatusFetchError    Status = "fetch-error"
	StatusParseError    Status = "parse-error"
	StatusRecoveryError Status = "recovery-error"
)

// Result is the outcome of verifying one chain
type Result struct {
	Chain  config.ChainConfig
	Status Status

	// ExpectedAddress and RecoveredAddress are EIP-55 checksummed. RecoveredAddress
	// is empty when the pipeline failed before recovery.
	ExpectedAddress  string
	RecoveredAddress string

	MessageHash common.Hash

	// Payload is set when the commitment data could be decoded as an execution payload
	Payload *payload.Header

	// Err is nil only for StatusSuccess
	Err error
}

// OK reports whether the recovered signer matched the sequencer
func (r *Result) OK() bool {
	return r.Status == StatusSuccess
}

// ResultHandler is invoked with each chain's result as soon as it is known
type ResultHandler func(*Result)

type VerifierConfig struct {
	Client commitmentClient.ICommitmentClient
	Logger *zap.Logger
}

// Verifier runs the fetch, hash, recover and compare pipeline for each chain
type Verifier struct {
	client commitmentClient.ICommitmentClient
	logger *zap.Logger
}

func NewVerifier(cfg *VerifierConfig) (*Verifier, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Client == nil {
		return nil, fmt.Errorf("commitment client is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Verifier{
		client: cfg.Client,
		logger: cfg.Logger,
	}, nil
}

// Compare reports whether two addresses are equal by their checksummed form
func Compare(expected, recovered common.Address) bool {
	return crypto.ChecksumAddress(expected) == crypto.ChecksumAddress(recovered)
}

// VerifyAll verifies every chain in order. A failure on one chain never stops
// the others. The returned error aggregates one entry per failed chain.
func (v *Verifier) VerifyAll(ctx context.Context, chains []config.ChainConfig, onResult ResultHandler) ([]*Result, error) {
	results := make([]*Result, 0, len(chains))
	var errs error

	for _, chain := range chains {
		result := v.VerifyChain(ctx, chain)
		results = append(results, result)

		if onResult != nil {
			onResult(result)
		}
		if !result.OK() {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", chain.Name, result.Err))
		}
	}

	v.logger.Sugar().Infow("Verification run complete",
		"chains", len(results),
		"failed", len(multierr.Errors(errs)),
	)
	return results, errs
}

// VerifyChain fetches the chain's latest commitment and verifies it. It never
// returns nil; failures are described by the Result.
func (v *Verifier) VerifyChain(ctx context.Context, chain config.ChainConfig) *Result {
	v.logger.Sugar().Infow("Verifying chain",
		"chain", chain.Name,
		"chain_id", chain.ChainID,
		"url", chain.URL,
	)

	if !chain.HasFeed() {
		result := newResult(chain)
		result.Status = StatusFetchError
		result.Err = fmt.Errorf("%w %s", config.ErrNoCommitmentFeed, chain.Name)
		return result
	}

	commitment, err := v.client.FetchCommitment(ctx, chain.URL)
	if err != nil {
		result := newResult(chain)
		result.Status = statusForError(err)
		result.Err = err
		v.logger.Sugar().Warnw("Failed to fetch commitment",
			"chain", chain.Name,
			"url", chain.URL,
			"status", result.Status,
			"error", err,
		)
		return result
	}

	return v.VerifyCommitment(chain, commitment)
}

// VerifyCommitment checks that commitment was signed by chain's sequencer
func (v *Verifier) VerifyCommitment(chain config.ChainConfig, commitment *types.Commitment) *Result {
	if commitment == nil {
		return NewParseFailure(chain, &types.ParseError{Err: fmt.Errorf("commitment is nil")})
	}
	result := newResult(chain)

	result.MessageHash = crypto.SignatureMessage(commitment.Data, uint64(chain.ChainID))
	result.Payload = v.decodePayload(chain, commitment.Data)

	recovered, err := crypto.RecoverAddress(result.MessageHash, commitment.Signature)
	if err != nil {
		result.Status = statusForError(err)
		result.Err = err
		v.logger.Sugar().Warnw("Failed to recover commitment signer",
			"chain", chain.Name,
			"message_hash", result.MessageHash.Hex(),
			"signature", commitment.Signature.String(),
			"error", err,
		)
		return result
	}
	result.RecoveredAddress = crypto.ChecksumAddress(recovered)

	if !Compare(chain.Sequencer(), recovered) {
		result.Status = StatusMismatch
		result.Err = fmt.Errorf("%w: expected %s, recovered %s", ErrSignerMismatch, result.ExpectedAddress, result.RecoveredAddress)
		v.logger.Sugar().Warnw("Commitment signer mismatch",
			"chain", chain.Name,
			"expected", result.ExpectedAddress,
			"recovered", result.RecoveredAddress,
			"message_hash", result.MessageHash.Hex(),
		)
		return result
	}

	result.Status = StatusSuccess
	v.logger.Sugar().Infow("Commitment signed by sequencer",
		"chain", chain.Name,
		"sequencer", result.RecoveredAddress,
		"message_hash", result.MessageHash.Hex(),
	)
	return result
}

// NewParseFailure is the result for a chain whose commitment could not be
// decoded before verification started.
func NewParseFailure(chain config.ChainConfig, err error) *Result {
	result := newResult(chain)
	result.Status = StatusParseError
	result.Err = err
	return result
}

func newResult(chain config.ChainConfig) *Result {
	return &Result{
		Chain:           chain,
		ExpectedAddress: crypto.ChecksumAddress(chain.Sequencer()),
	}
}

// decodePayload is best effort: commitments whose data is not an execution
// payload are still verified.
func (v *Verifier) decodePayload(chain config.ChainConfig, data []byte) *payload.Header {
	header, err := payload.DecodeHeader(data)
	if err != nil {
		v.logger.Sugar().Debugw("Commitment data is not a decodable execution payload",
			"chain", chain.Name,
			"data_bytes", len(data),
			"error", err,
		)
		return nil
	}
	v.logger.Sugar().Debugw("Decoded execution payload",
		"chain", chain.Name,
		"block_number", header.BlockNumber,
		"block_hash", header.BlockHash.Hex(),
	)
	return header
}

func statusForError(err error) Status {
	var (
		parseErr    *types.ParseError
		recoveryErr *types.RecoveryError
	)
	switch {
	case errors.As(err, &parseErr):
		return StatusParseError
	case errors.As(err, &recoveryErr):
		return StatusRecoveryError
	default:
		return StatusFetchError
	}
}
