package types

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// SignatureLength is the length of an r || s || v signature
	SignatureLength = 65

	// LegacyRecoveryIdOffset maps a y-parity bit to the legacy 27/28 recovery id
	LegacyRecoveryIdOffset = 27
)

// Signature is a secp256k1 ECDSA signature in its Ethereum (r, s, yParity) form
type Signature struct {
	R       [32]byte
	S       [32]byte
	YParity uint8
}

// V returns the legacy recovery id, 27 + yParity
func (s Signature) V() uint8 {
	return LegacyRecoveryIdOffset + s.YParity
}

// Bytes returns the 65 byte r || s || yParity encoding expected by go-ethereum's
// recovery routines.
func (s Signature) Bytes() []byte {
	sig := make([]byte, SignatureLength)
	copy(sig[0:32], s.R[:])
	copy(sig[32:64], s.S[:])
	sig[64] = s.YParity
	return sig
}

func (s Signature) String() string {
	return fmt.Sprintf("r=%s s=%s v=%d", hexutil.Encode(s.R[:]), hexutil.Encode(s.S[:]), s.V())
}

// SignatureFromBytes parses a 65 byte r || s || v signature. v may be given
// either as a parity bit (0/1) or as a legacy recovery id (27/28).
func SignatureFromBytes(b []byte) (Signature, error) {
	if len(b) != SignatureLength {
		return Signature{}, fmt.Errorf("invalid signature length: expected %d bytes, got %d", SignatureLength, len(b))
	}

	v := b[64]
	if v >= LegacyRecoveryIdOffset {
		v -= LegacyRecoveryIdOffset
	}
	if v > 1 {
		return Signature{}, fmt.Errorf("invalid recovery id %d", b[64])
	}

	var sig Signature
	copy(sig.R[:], b[0:32])
	copy(sig.S[:], b[32:64])
	sig.YParity = v
	return sig, nil
}

// Commitment is a sequencer commitment: an opaque payload and the sequencer's
// signature over it.
type Commitment struct {
	Data      []byte
	Signature Signature
}

// PayloadHash is keccak256 of the commitment data
func (c *Commitment) PayloadHash() common.Hash {
	return crypto.Keccak256Hash(c.Data)
}
