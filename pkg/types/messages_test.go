package types

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validResponse = `{
	"data": "0x1234",
	"signature": {
		"r": "0x00000000000000000000000000000000000000000000000000000000000000aa",
		"s": "0xbb",
		"yParity": "0x1"
	}
}`

func TestParseCommitmentResponse(t *testing.T) {
	c, err := ParseCommitmentResponse([]byte(validResponse))
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, []byte{0x12, 0x34}, c.Data)
	assert.Equal(t, byte(0xaa), c.Signature.R[31])
	assert.Equal(t, [31]byte{}, [31]byte(c.Signature.R[:31]))
	assert.Equal(t, byte(0xbb), c.Signature.S[31])
	assert.Equal(t, uint8(1), c.Signature.YParity)
	assert.Equal(t, uint8(28), c.Signature.V())
}

func TestParseCommitmentResponse_Errors(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		expectedField string
		missing       bool
	}{
		{name: "not json", body: "<html>bad gateway</html>"},
		{name: "missing data", body: `{"signature":{"r":"0x1","s":"0x1","yParity":"0x0"}}`, expectedField: "data", missing: true},
		{name: "missing signature", body: `{"data":"0x12"}`, expectedField: "signature", missing: true},
		{name: "missing r", body: `{"data":"0x12","signature":{"s":"0x1","yParity":"0x0"}}`, expectedField: "signature.r", missing: true},
		{name: "missing s", body: `{"data":"0x12","signature":{"r":"0x1","yParity":"0x0"}}`, expectedField: "signature.s", missing: true},
		{name: "missing yParity", body: `{"data":"0x12","signature":{"r":"0x1","s":"0x1"}}`, expectedField: "signature.yParity", missing: true},
		{name: "non hex data", body: `{"data":"0xzz","signature":{"r":"0x1","s":"0x1","yParity":"0x0"}}`, expectedField: "data"},
		{name: "oversized r", body: `{"data":"0x12","signature":{"r":"0x` + strings.Repeat("ab", 33) + `","s":"0x1","yParity":"0x0"}}`, expectedField: "signature.r"},
		{name: "non hex s", body: `{"data":"0x12","signature":{"r":"0x1","s":"0xqq","yParity":"0x0"}}`, expectedField: "signature.s"},
		{name: "yParity out of range", body: `{"data":"0x12","signature":{"r":"0x1","s":"0x1","yParity":"0x2"}}`, expectedField: "signature.yParity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseCommitmentResponse([]byte(tt.body))
			assert.Nil(t, c)
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "expected a ParseError, got %T", err)
			assert.Equal(t, tt.expectedField, parseErr.Field)
			assert.Equal(t, tt.missing, errors.Is(err, ErrMissingField))
		})
	}
}

func TestParseCommitmentResponse_HexWithoutPrefix(t *testing.T) {
	body := `{"data":"1234","signature":{"r":"aa","s":"0XBB","yParity":"1"}}`
	c, err := ParseCommitmentResponse([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x34}, c.Data)
	assert.Equal(t, byte(0xaa), c.Signature.R[31])
	assert.Equal(t, byte(0xbb), c.Signature.S[31])
	assert.Equal(t, uint8(1), c.Signature.YParity)
}

func TestParseCommitmentResponse_OddLengthHex(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected []byte
	}{
		{name: "three digits", data: "0x123", expected: []byte{0x01, 0x23}},
		{name: "single digit", data: "0xf", expected: []byte{0x0f}},
		{name: "no prefix", data: "abcde", expected: []byte{0x0a, 0xbc, 0xde}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"data":"` + tt.data + `","signature":{"r":"0x123","s":"0x1","yParity":"0x0"}}`
			c, err := ParseCommitmentResponse([]byte(body))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c.Data)
			assert.Equal(t, byte(0x01), c.Signature.R[30])
			assert.Equal(t, byte(0x23), c.Signature.R[31])
		})
	}
}

func TestParseCommitmentResponse_EmptyPayload(t *testing.T) {
	body := `{"data":"0x","signature":{"r":"0x1","s":"0x1","yParity":"0x0"}}`
	c, err := ParseCommitmentResponse([]byte(body))
	require.NoError(t, err)
	assert.Empty(t, c.Data)
}

func TestParseYParity(t *testing.T) {
	tests := []struct {
		input    string
		expected uint8
		v        uint8
		wantErr  bool
	}{
		{input: "0x0", expected: 0, v: 27},
		{input: "0x1", expected: 1, v: 28},
		{input: "0x01", expected: 1, v: 28},
		{input: "0", expected: 0, v: 27},
		{input: "0x2", wantErr: true},
		{input: "0x1b", wantErr: true},
		{input: "0x", wantErr: true},
		{input: "true", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			parity, err := ParseYParity(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, parity)
			assert.Equal(t, tt.v, Signature{YParity: parity}.V())
		})
	}
}

func TestNewCommitmentResponse(t *testing.T) {
	c := &Commitment{Data: []byte{0x12, 0x34}}
	c.Signature.R[31] = 0xaa
	c.Signature.S[0] = 0xbb
	c.Signature.YParity = 1

	body, err := json.Marshal(NewCommitmentResponse(c))
	require.NoError(t, err)
	assert.Contains(t, string(body), `"yParity":"0x1"`)
	assert.Contains(t, string(body), `"data":"0x1234"`)

	decoded, err := ParseCommitmentResponse(body)
	require.NoError(t, err)
	assert.Equal(t, c, decoded)
}
