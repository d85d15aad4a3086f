package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Layr-Labs/sequencer-verifier/pkg/clients/commitmentClient"
	"github.com/Layr-Labs/sequencer-verifier/pkg/config"
	"github.com/Layr-Labs/sequencer-verifier/pkg/logger"
	"github.com/Layr-Labs/sequencer-verifier/pkg/report"
	"github.com/Layr-Labs/sequencer-verifier/pkg/types"
	"github.com/Layr-Labs/sequencer-verifier/pkg/verifier"
)

func main() {
	app := &cli.App{
		Name:  "verify-sequencer",
		Usage: "Verify that L2 sequencer commitments are signed by the expected sequencer",
		Description: `Fetches the latest signed commitment published for each supported chain,
recovers the signer from its signature and compares it with the chain's
hardcoded sequencer address.

The message hash is keccak256(bytes32(0) || uint256(chainId) || keccak256(data)).

Supported chains: ` + config.GetSupportedChainNamesString(),
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "network",
				Usage: "Chains to verify: mainnet, sepolia or all",
				Value: string(config.Network_Mainnet),
			},
			&cli.StringSliceFlag{
				Name:  "chain",
				Usage: "Only verify the named chain (repeatable)",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Timeout for each commitment fetch",
				Value: config.DefaultFetchTimeout,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "advisory",
				Usage: "Always exit 0, even when a chain fails verification",
			},
		},
		Action: verifyCommand,
		Commands: []*cli.Command{
			{
				Name:  "verify-raw",
				Usage: "Verify a snappy compressed raw commitment read from a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "chain",
						Usage:    "Chain the commitment belongs to",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the compressed commitment",
						Required: true,
					},
				},
				Action: verifyRawCommand,
			},
			{
				Name:   "list-chains",
				Usage:  "Print the built-in chain table",
				Action: listChainsCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// createVerifier builds the logger, commitment client and verifier from CLI flags
func createVerifier(c *cli.Context) (*verifier.Verifier, *zap.Logger, error) {
	zapLogger, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("debug")})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	zapLogger = zapLogger.With(zap.String("run_id", uuid.New().String()))

	if err := config.ValidateChainConfigs(config.GetChainConfigs()); err != nil {
		return nil, nil, fmt.Errorf("invalid built-in chain table: %w", err)
	}

	client, err := commitmentClient.NewClient(&commitmentClient.ClientConfig{
		Timeout: c.Duration("timeout"),
		Logger:  zapLogger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create commitment client: %w", err)
	}

	v, err := verifier.NewVerifier(&verifier.VerifierConfig{
		Client: client,
		Logger: zapLogger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create verifier: %w", err)
	}
	return v, zapLogger, nil
}

// verifyCommand verifies every selected chain and prints a report block per chain
func verifyCommand(c *cli.Context) error {
	network, err := config.ParseNetwork(c.String("network"))
	if err != nil {
		return err
	}
	chains, err := config.GetChainConfigsForNetwork(network)
	if err != nil {
		return err
	}
	names := c.StringSlice("chain")
	chains, err = config.FilterChainConfigs(chains, names)
	if err != nil {
		return err
	}
	// --network all quietly skips chains that can only be checked with verify-raw
	chains, err = config.SelectFeedChains(chains, network == config.Network_All && len(names) == 0)
	if err != nil {
		return err
	}

	v, zapLogger, err := createVerifier(c)
	if err != nil {
		return err
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reporter := report.NewReporter(os.Stdout)
	results, verifyErr := v.VerifyAll(ctx, chains, reporter.WriteResult)
	reporter.WriteSummary(results)

	return exitStatus(c, verifyErr)
}

// verifyRawCommand verifies a raw commitment as published on the p2p network
func verifyRawCommand(c *cli.Context) error {
	chain, err := config.GetChainConfigByName(c.String("chain"))
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read commitment file: %w", err)
	}

	v, zapLogger, err := createVerifier(c)
	if err != nil {
		return err
	}
	defer func() { _ = zapLogger.Sync() }()

	reporter := report.NewReporter(os.Stdout)

	commitment, err := types.DecodeRawCommitment(raw)
	if err != nil {
		reporter.WriteResult(verifier.NewParseFailure(chain, err))
		return exitStatus(c, fmt.Errorf("%s: %w", chain.Name, err))
	}

	result := v.VerifyCommitment(chain, commitment)
	reporter.WriteResult(result)
	if !result.OK() {
		return exitStatus(c, fmt.Errorf("%s: %w", chain.Name, result.Err))
	}
	return nil
}

// listChainsCommand prints the built-in chain table
func listChainsCommand(c *cli.Context) error {
	return report.NewReporter(os.Stdout).WriteChainTable(config.GetChainConfigs())
}

// exitStatus turns a verification failure into a non-zero exit unless --advisory is set
func exitStatus(c *cli.Context, err error) error {
	if err == nil {
		return nil
	}
	if c.Bool("advisory") {
		return nil
	}
	failed := len(multierr.Errors(err))
	return cli.Exit(fmt.Sprintf("verification failed for %d chain(s): %v", failed, err), 1)
}
