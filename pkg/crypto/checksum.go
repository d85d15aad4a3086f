package crypto

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// ChecksumAddress returns the EIP-55 mixed-case encoding of addr. A hex letter
// is upper-cased when the matching nibble of keccak256(lowercase hex) is >= 8.
func ChecksumAddress(addr common.Address) string {
	lower := []byte(hex.EncodeToString(addr.Bytes()))

	h := sha3.NewLegacyKeccak256()
	h.Write(lower)
	digest := h.Sum(nil)

	for i, c := range lower {
		if c < 'a' {
			continue
		}
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		} else {
			nibble &= 0x0f
		}
		if nibble >= 8 {
			lower[i] = c - ('a' - 'A')
		}
	}
	return "0x" + string(lower)
}

// ChecksumHex normalizes a hex address string of any case to its EIP-55 form
func ChecksumHex(s string) (string, error) {
	if !common.IsHexAddress(s) {
		return "", fmt.Errorf("invalid hex address %q", s)
	}
	return ChecksumAddress(common.HexToAddress(s)), nil
}
