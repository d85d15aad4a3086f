package testutil

import (
	"crypto/ecdsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/Layr-Labs/sequencer-verifier/pkg/config"
	"github.com/Layr-Labs/sequencer-verifier/pkg/crypto"
	"github.com/Layr-Labs/sequencer-verifier/pkg/types"
)

// TestPrivateKeyHex is a fixed secp256k1 key used across package tests
const TestPrivateKeyHex = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

// TestKey returns the key for TestPrivateKeyHex and its address
func TestKey(t *testing.T) (*ecdsa.PrivateKey, common.Address) {
	t.Helper()
	key, err := ethcrypto.HexToECDSA(TestPrivateKeyHex)
	if err != nil {
		t.Fatalf("Failed to parse test key: %v", err)
	}
	return key, ethcrypto.PubkeyToAddress(key.PublicKey)
}

// CreateSignedCommitment signs data for chainID with key
func CreateSignedCommitment(t *testing.T, key *ecdsa.PrivateKey, data []byte, chainID uint64) *types.Commitment {
	t.Helper()
	commitment, err := crypto.SignCommitment(key, data, chainID)
	if err != nil {
		t.Fatalf("Failed to sign commitment: %v", err)
	}
	return commitment
}

// ServeCommitment starts a server that answers every request with c in the
// JSON shape published by commitment endpoints. It is closed on test cleanup.
func ServeCommitment(t *testing.T, c *types.Commitment) *httptest.Server {
	t.Helper()
	body, err := json.Marshal(types.NewCommitmentResponse(c))
	if err != nil {
		t.Fatalf("Failed to marshal commitment: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

// CreateTestChain returns a mainnet chain entry pointing at url
func CreateTestChain(name string, chainID uint64, sequencer common.Address, url string) config.ChainConfig {
	return config.ChainConfig{
		Name:             config.ChainName(name),
		Network:          config.Network_Mainnet,
		ChainID:          config.ChainId(chainID),
		SequencerAddress: sequencer.Hex(),
		URL:              url,
	}
}
