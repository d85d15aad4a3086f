package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// CommitmentResponse is the JSON body served by a commitment endpoint:
//
//	{"data": "0x...", "signature": {"r": "0x...", "s": "0x...", "yParity": "0x1"}}
type CommitmentResponse struct {
	Data      string             `json:"data"`
	Signature *SignatureResponse `json:"signature"`
}

type SignatureResponse struct {
	R       string `json:"r"`
	S       string `json:"s"`
	YParity string `json:"yParity"`
}

// ParseCommitmentResponse decodes a JSON body into a Commitment. Every failure
// is reported as a *ParseError.
func ParseCommitmentResponse(body []byte) (*Commitment, error) {
	var resp CommitmentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	return resp.ToCommitment()
}

// ToCommitment validates the response fields and decodes them
func (r *CommitmentResponse) ToCommitment() (*Commitment, error) {
	if r.Data == "" {
		return nil, newMissingFieldError("data")
	}
	if r.Signature == nil {
		return nil, newMissingFieldError("signature")
	}
	if r.Signature.R == "" {
		return nil, newMissingFieldError("signature.r")
	}
	if r.Signature.S == "" {
		return nil, newMissingFieldError("signature.s")
	}
	if r.Signature.YParity == "" {
		return nil, newMissingFieldError("signature.yParity")
	}

	data, err := decodeHex(r.Data)
	if err != nil {
		return nil, &ParseError{Field: "data", Err: err}
	}

	var sig Signature
	if err := decodeWord(r.Signature.R, &sig.R); err != nil {
		return nil, &ParseError{Field: "signature.r", Err: err}
	}
	if err := decodeWord(r.Signature.S, &sig.S); err != nil {
		return nil, &ParseError{Field: "signature.s", Err: err}
	}
	parity, err := ParseYParity(r.Signature.YParity)
	if err != nil {
		return nil, &ParseError{Field: "signature.yParity", Err: err}
	}
	sig.YParity = parity

	return &Commitment{Data: data, Signature: sig}, nil
}

// NewCommitmentResponse encodes a commitment in the endpoint's JSON shape
func NewCommitmentResponse(c *Commitment) *CommitmentResponse {
	return &CommitmentResponse{
		Data: hexutil.Encode(c.Data),
		Signature: &SignatureResponse{
			R:       hexutil.Encode(c.Signature.R[:]),
			S:       hexutil.Encode(c.Signature.S[:]),
			YParity: hexutil.EncodeUint64(uint64(c.Signature.YParity)),
		},
	}
}

// ParseYParity parses a hex encoded parity bit ("0x0" or "0x1")
func ParseYParity(s string) (uint8, error) {
	raw := trim0x(strings.TrimSpace(s))
	if raw == "" {
		return 0, fmt.Errorf("invalid yParity %q: empty value", s)
	}
	digits := strings.TrimLeft(raw, "0")
	if digits == "" {
		digits = "0"
	}
	v, err := hexutil.DecodeUint64("0x" + digits)
	if err != nil {
		return 0, fmt.Errorf("invalid yParity %q: %w", s, err)
	}
	if v > 1 {
		return 0, fmt.Errorf("yParity must be 0 or 1, got %d", v)
	}
	return uint8(v), nil
}

// decodeHex decodes a hex string with or without a 0x prefix. An odd number of
// digits is read as if a leading zero were present.
func decodeHex(s string) ([]byte, error) {
	digits := trim0x(strings.TrimSpace(s))
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	return hexutil.Decode("0x" + digits)
}

// decodeWord decodes a big-endian value of at most 32 bytes, left padding it
// into out.
func decodeWord(s string, out *[32]byte) error {
	b, err := decodeHex(s)
	if err != nil {
		return err
	}
	if len(b) > 32 {
		return fmt.Errorf("value is %d bytes, expected at most 32", len(b))
	}
	copy(out[32-len(b):], b)
	return nil
}

func trim0x(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
