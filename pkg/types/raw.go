package types

import (
	"fmt"

	"github.com/golang/snappy"
)

// DecodeRawCommitment decodes a commitment as gossiped by the sequencer: a
// snappy block-compressed buffer holding a 65 byte signature followed by the
// payload.
func DecodeRawCommitment(compressed []byte) (*Commitment, error) {
	if len(compressed) == 0 {
		return nil, &ParseError{Err: fmt.Errorf("raw commitment is empty")}
	}

	decompressed, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("failed to decompress raw commitment: %w", err)}
	}
	if len(decompressed) < SignatureLength {
		return nil, &ParseError{Field: "signature", Err: fmt.Errorf("raw commitment is %d bytes, shorter than a signature", len(decompressed))}
	}

	sig, err := SignatureFromBytes(decompressed[:SignatureLength])
	if err != nil {
		return nil, &ParseError{Field: "signature", Err: err}
	}

	data := make([]byte, len(decompressed)-SignatureLength)
	copy(data, decompressed[SignatureLength:])

	return &Commitment{Data: data, Signature: sig}, nil
}

// EncodeRawCommitment is the inverse of DecodeRawCommitment
func EncodeRawCommitment(c *Commitment) []byte {
	buf := make([]byte, 0, SignatureLength+len(c.Data))
	buf = append(buf, c.Signature.Bytes()...)
	buf = append(buf, c.Data...)
	return snappy.Encode(nil, buf)
}
