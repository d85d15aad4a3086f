package crypto

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	wordLength     = 32
	preimageLength = 3 * wordLength
)

// domainSeparator scopes sequencer commitment signatures. It is currently all zeros.
var domainSeparator = [wordLength]byte{}

// SigningPreimage returns the 96 bytes a sequencer signs over:
//
//	domain (32 zero bytes) || chainID (uint256, big-endian) || keccak256(data)
func SigningPreimage(data []byte, chainID uint64) []byte {
	preimage := make([]byte, 0, preimageLength)
	preimage = append(preimage, domainSeparator[:]...)
	preimage = append(preimage, math.U256Bytes(new(big.Int).SetUint64(chainID))...)
	preimage = append(preimage, crypto.Keccak256(data)...)
	return preimage
}

// SignatureMessage is the message hash a sequencer commitment signature is made over
func SignatureMessage(data []byte, chainID uint64) common.Hash {
	return crypto.Keccak256Hash(SigningPreimage(data, chainID))
}
