package crypto

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Layr-Labs/sequencer-verifier/pkg/types"
)

var (
	ErrInvalidSignatureValues = errors.New("invalid signature values")

	secp256k1N     = crypto.S256().Params().N
	secp256k1HalfN = new(big.Int).Rsh(secp256k1N, 1)
)

// RecoverPublicKey recovers the secp256k1 public key that produced sig over hash.
//
// A high-s signature is folded onto its low-s twin (s' = n - s, parity flipped),
// which recovers the same key. Zero or out-of-range r/s values are rejected.
// All failures are returned as *types.RecoveryError.
func RecoverPublicKey(hash common.Hash, sig types.Signature) (*ecdsa.PublicKey, error) {
	if sig.YParity > 1 {
		return nil, &types.RecoveryError{Err: fmt.Errorf("%w: recovery id %d", ErrInvalidSignatureValues, sig.V())}
	}

	r := new(big.Int).SetBytes(sig.R[:])
	s := new(big.Int).SetBytes(sig.S[:])
	if s.Sign() == 0 || s.Cmp(secp256k1N) >= 0 {
		return nil, &types.RecoveryError{Err: fmt.Errorf("%w: s out of range", ErrInvalidSignatureValues)}
	}

	parity := sig.YParity
	if s.Cmp(secp256k1HalfN) > 0 {
		s.Sub(secp256k1N, s)
		parity ^= 1
	}

	if !crypto.ValidateSignatureValues(parity, r, s, true) {
		return nil, &types.RecoveryError{Err: fmt.Errorf("%w: r=%x", ErrInvalidSignatureValues, sig.R)}
	}

	normalized := types.Signature{YParity: parity}
	copy(normalized.R[:], sig.R[:])
	s.FillBytes(normalized.S[:])

	pub, err := crypto.SigToPub(hash.Bytes(), normalized.Bytes())
	if err != nil {
		return nil, &types.RecoveryError{Err: fmt.Errorf("failed to recover public key: %w", err)}
	}
	return pub, nil
}

// RecoverAddress recovers the Ethereum address that produced sig over hash:
// the last 20 bytes of keccak256 of the uncompressed public key.
func RecoverAddress(hash common.Hash, sig types.Signature) (common.Address, error) {
	pub, err := RecoverPublicKey(hash, sig)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// SignCommitment signs data for chainID the way a sequencer does. It is used
// to produce test fixtures.
func SignCommitment(privateKey *ecdsa.PrivateKey, data []byte, chainID uint64) (*types.Commitment, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("private key is nil")
	}

	hash := SignatureMessage(data, chainID)
	sigBytes, err := crypto.Sign(hash.Bytes(), privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign commitment: %w", err)
	}

	sig, err := types.SignatureFromBytes(sigBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signature: %w", err)
	}

	payload := make([]byte, len(data))
	copy(payload, data)
	return &types.Commitment{Data: payload, Signature: sig}, nil
}
