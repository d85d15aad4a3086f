package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/Layr-Labs/sequencer-verifier/pkg/config"
	"github.com/Layr-Labs/sequencer-verifier/pkg/verifier"
)

const separatorWidth = 60

// Reporter renders human readable verification results
type Reporter struct {
	out io.Writer

	success *color.Color
	failure *color.Color
	errored *color.Color
	bold    *color.Color
}

// NewReporter writes to out. Colors follow color.NoColor, which is set when
// stdout is not a terminal.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{
		out:     out,
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
		errored: color.New(color.FgYellow, color.Bold),
		bold:    color.New(color.Bold),
	}
}

// WriteResult prints the block for a single chain
func (r *Reporter) WriteResult(result *verifier.Result) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.bold.Sprintf("/// Verifying %s", strings.ToUpper(result.Chain.Name.String())))
	fmt.Fprintln(r.out, strings.Repeat("-", separatorWidth))
	fmt.Fprintf(r.out, "Chain ID:                     %d\n", result.Chain.ChainID)
	fmt.Fprintf(r.out, "Hardcoded Sequencer Address:  %s\n", result.ExpectedAddress)

	recovered := result.RecoveredAddress
	if recovered == "" {
		recovered = "n/a"
	}
	fmt.Fprintf(r.out, "Recovered Signer Address:     %s\n", recovered)

	if result.Payload != nil {
		fmt.Fprintf(r.out, "Block:                        %d (%s)\n", result.Payload.BlockNumber, result.Payload.BlockHash.Hex())
	}

	switch result.Status {
	case verifier.StatusSuccess:
		fmt.Fprintln(r.out, r.success.Sprint("SUCCESS: commitment is signed by the sequencer"))
	case verifier.StatusMismatch:
		fmt.Fprintln(r.out, r.failure.Sprint("FAILURE: recovered signer does not match the sequencer address"))
	default:
		fmt.Fprintln(r.out, r.errored.Sprintf("ERROR (%s): %v", result.Status, result.Err))
	}
}

// WriteSummary prints how many chains verified successfully
func (r *Reporter) WriteSummary(results []*verifier.Result) {
	ok := 0
	for _, result := range results {
		if result.OK() {
			ok++
		}
	}

	line := fmt.Sprintf("%d/%d chains verified", ok, len(results))
	fmt.Fprintln(r.out)
	if ok == len(results) {
		fmt.Fprintln(r.out, r.success.Sprint(line))
		return
	}
	fmt.Fprintln(r.out, r.failure.Sprint(line))
}

// WriteChainTable prints the chain table as aligned columns
func (r *Reporter) WriteChainTable(chains []config.ChainConfig) error {
	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tNETWORK\tCHAIN ID\tSEQUENCER\tURL")
	for _, c := range chains {
		feed := c.URL
		if !c.HasFeed() {
			feed = "(raw commitments only)"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", c.Name, c.Network, c.ChainID, c.SequencerAddress, feed)
	}
	return w.Flush()
}
