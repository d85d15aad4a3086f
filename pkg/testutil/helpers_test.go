package testutil

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Layr-Labs/sequencer-verifier/pkg/types"
)

func TestServeCommitment(t *testing.T) {
	key, _ := TestKey(t)
	commitment := CreateSignedCommitment(t, key, []byte{0x12, 0x34}, 8453)
	server := ServeCommitment(t, commitment)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	decoded, err := types.ParseCommitmentResponse(body)
	require.NoError(t, err)
	assert.Equal(t, commitment.Data, decoded.Data)
	assert.Equal(t, commitment.Signature, decoded.Signature)
}
