package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/sequencer-verifier/pkg/config"
	"github.com/Layr-Labs/sequencer-verifier/pkg/crypto"
	"github.com/Layr-Labs/sequencer-verifier/pkg/logger"
	"github.com/Layr-Labs/sequencer-verifier/pkg/types"
)

// Produces a signed commitment for local testing: the JSON body served by a
// commitment endpoint and, optionally, the snappy compressed raw form.
func main() {
	l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	app := &cli.App{
		Name:  "sign-commitment",
		Usage: "Sign commitment data with a local key",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "private-key",
				Usage:    "Hex encoded secp256k1 private key",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "chain",
				Usage: "Chain whose id is bound into the signature",
				Value: string(config.ChainName_Base),
			},
			&cli.StringFlag{
				Name:  "data",
				Usage: "Hex encoded commitment data",
				Value: "0x1234",
			},
			&cli.StringFlag{
				Name:  "raw-output",
				Usage: "Also write the snappy compressed raw commitment to this file",
			},
		},
		Action: func(c *cli.Context) error {
			chain, err := config.GetChainConfigByName(c.String("chain"))
			if err != nil {
				return err
			}

			privateKey, err := ethcrypto.HexToECDSA(trim0x(c.String("private-key")))
			if err != nil {
				return fmt.Errorf("failed to parse private key: %w", err)
			}

			data, err := hexutil.Decode(c.String("data"))
			if err != nil {
				return fmt.Errorf("failed to decode data: %w", err)
			}

			commitment, err := crypto.SignCommitment(privateKey, data, uint64(chain.ChainID))
			if err != nil {
				return fmt.Errorf("failed to sign commitment: %w", err)
			}

			body, err := json.MarshalIndent(types.NewCommitmentResponse(commitment), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal commitment: %w", err)
			}

			l.Sugar().Infow("Signed commitment",
				"chain", chain.Name,
				"chain_id", chain.ChainID,
				"signer", crypto.ChecksumAddress(ethcrypto.PubkeyToAddress(privateKey.PublicKey)),
				"message_hash", crypto.SignatureMessage(data, uint64(chain.ChainID)).Hex(),
			)

			if out := c.String("raw-output"); out != "" {
				if err := os.WriteFile(out, types.EncodeRawCommitment(commitment), 0644); err != nil {
					return fmt.Errorf("failed to write raw commitment: %w", err)
				}
				l.Sugar().Infow("Wrote raw commitment", "path", out)
			}

			fmt.Println(string(body))
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		l.Sugar().Fatalw("failed to sign commitment", "error", err)
	}
}

func trim0x(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
