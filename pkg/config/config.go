package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

const (
	// DefaultFetchTimeout bounds a single commitment fetch
	DefaultFetchTimeout = 10 * time.Second
)

// ErrNoCommitmentFeed is returned when a chain with no known commitment
// endpoint is selected for fetching.
var ErrNoCommitmentFeed = errors.New("no commitment feed is known for chain")

type ChainId uint64

const (
	ChainId_OptimismMainnet ChainId = 10
	ChainId_BaseMainnet     ChainId = 8453
	ChainId_OptimismSepolia ChainId = 11155420
	ChainId_BaseSepolia     ChainId = 84532
)

type ChainName string

func (c ChainName) String() string {
	return string(c)
}

const (
	ChainName_Base            ChainName = "base"
	ChainName_Optimism        ChainName = "optimism"
	ChainName_BaseSepolia     ChainName = "base-sepolia"
	ChainName_OptimismSepolia ChainName = "optimism-sepolia"
)

type Network string

const (
	Network_Mainnet Network = "mainnet"
	Network_Sepolia Network = "sepolia"
	Network_All     Network = "all"
)

// ParseNetwork converts a user supplied network name into a Network
func ParseNetwork(s string) (Network, error) {
	switch Network(strings.ToLower(strings.TrimSpace(s))) {
	case Network_Mainnet:
		return Network_Mainnet, nil
	case Network_Sepolia:
		return Network_Sepolia, nil
	case Network_All:
		return Network_All, nil
	default:
		return "", fmt.Errorf("unsupported network %q. Supported: %s, %s, %s", s, Network_Mainnet, Network_Sepolia, Network_All)
	}
}

// ChainConfig describes where a chain publishes its sequencer commitments and
// which address is expected to have signed them.
type ChainConfig struct {
	Name             ChainName `json:"name"`
	Network          Network   `json:"network"`
	ChainID          ChainId   `json:"chain_id"`
	SequencerAddress string    `json:"sequencer_address"`
	URL              string    `json:"url"`
}

// HasFeed reports whether the chain publishes its latest commitment over HTTP.
// Chains without a feed can only be checked from a raw commitment.
func (c ChainConfig) HasFeed() bool {
	return c.URL != ""
}

// Sequencer returns the expected signer as an address
func (c ChainConfig) Sequencer() common.Address {
	return common.HexToAddress(c.SequencerAddress)
}

// Validate validates a single chain configuration
func (c ChainConfig) Validate() error {
	return c.validate(field.NewPath("chain")).ToAggregate()
}

func (c ChainConfig) validate(path *field.Path) field.ErrorList {
	var allErrors field.ErrorList
	if c.Name == "" {
		allErrors = append(allErrors, field.Required(path.Child("name"), "name is required"))
	}
	if c.ChainID == 0 {
		allErrors = append(allErrors, field.Required(path.Child("chainId"), "chainId is required"))
	}
	switch c.Network {
	case Network_Mainnet, Network_Sepolia:
	default:
		allErrors = append(allErrors, field.NotSupported(path.Child("network"), c.Network, []string{string(Network_Mainnet), string(Network_Sepolia)}))
	}
	if !common.IsHexAddress(c.SequencerAddress) {
		allErrors = append(allErrors, field.Invalid(path.Child("sequencerAddress"), c.SequencerAddress, "must be a 20 byte hex address"))
	} else if c.Sequencer() == (common.Address{}) {
		allErrors = append(allErrors, field.Invalid(path.Child("sequencerAddress"), c.SequencerAddress, "must not be the zero address"))
	}
	if c.HasFeed() {
		u, err := url.Parse(c.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			allErrors = append(allErrors, field.Invalid(path.Child("url"), c.URL, "must be an absolute http(s) URL"))
		}
	}
	return allErrors
}

// ValidateChainConfigs validates every entry and checks that names and chain
// IDs are unique across the table.
func ValidateChainConfigs(chains []ChainConfig) error {
	var allErrors field.ErrorList
	root := field.NewPath("chains")

	names := make(map[ChainName]struct{}, len(chains))
	ids := make(map[ChainId]struct{}, len(chains))
	for i, c := range chains {
		path := root.Index(i)
		allErrors = append(allErrors, c.validate(path)...)

		if _, ok := names[c.Name]; ok {
			allErrors = append(allErrors, field.Duplicate(path.Child("name"), c.Name))
		}
		names[c.Name] = struct{}{}

		if _, ok := ids[c.ChainID]; ok {
			allErrors = append(allErrors, field.Duplicate(path.Child("chainId"), c.ChainID))
		}
		ids[c.ChainID] = struct{}{}
	}

	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// GetChainConfigs returns the built-in chain table. A new slice is returned on
// every call so callers can never mutate the table itself.
func GetChainConfigs() []ChainConfig {
	return []ChainConfig{
		{
			Name:             ChainName_Base,
			Network:          Network_Mainnet,
			ChainID:          ChainId_BaseMainnet,
			SequencerAddress: "0xAf6E19BE0F9cE7f8afd49a1824851023A8249e8a",
			URL:              "https://base.operationsolarstorm.org/latest",
		},
		{
			Name:             ChainName_Optimism,
			Network:          Network_Mainnet,
			ChainID:          ChainId_OptimismMainnet,
			SequencerAddress: "0xAAAA45d9549EDA09E70937013520214382Ffc4A2",
			URL:              "https://optimism.operationsolarstorm.org/latest",
		},
		// Testnet sequencers have no HTTP feed; only raw commitments can be checked.
		{
			Name:             ChainName_BaseSepolia,
			Network:          Network_Sepolia,
			ChainID:          ChainId_BaseSepolia,
			SequencerAddress: "0xb830b99c95Ea32300039624Cb567d324D4b1D83C",
		},
		{
			Name:             ChainName_OptimismSepolia,
			Network:          Network_Sepolia,
			ChainID:          ChainId_OptimismSepolia,
			SequencerAddress: "0x57CACBB0d30b01eb2462e5dC940c161aff3230D3",
		},
	}
}

// SelectFeedChains returns the chains that can be fetched. With skipMissing
// chains without a feed are dropped; otherwise any such chain is an error.
func SelectFeedChains(chains []ChainConfig, skipMissing bool) ([]ChainConfig, error) {
	selected := make([]ChainConfig, 0, len(chains))
	var missing []string
	for _, c := range chains {
		if c.HasFeed() {
			selected = append(selected, c)
			continue
		}
		missing = append(missing, string(c.Name))
	}

	if len(missing) > 0 && !skipMissing {
		return nil, fmt.Errorf("%w: %s. Verify a raw commitment with verify-raw instead", ErrNoCommitmentFeed, strings.Join(missing, ", "))
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no selected chain has a commitment feed")
	}
	return selected, nil
}

// GetChainConfigsForNetwork returns the built-in chains belonging to network,
// or all of them for Network_All.
func GetChainConfigsForNetwork(network Network) ([]ChainConfig, error) {
	all := GetChainConfigs()
	if network == Network_All {
		return all, nil
	}
	if network != Network_Mainnet && network != Network_Sepolia {
		return nil, fmt.Errorf("unsupported network: %s", network)
	}

	chains := make([]ChainConfig, 0, len(all))
	for _, c := range all {
		if c.Network == network {
			chains = append(chains, c)
		}
	}
	return chains, nil
}

// GetChainConfigByName looks a chain up in the built-in table
func GetChainConfigByName(name string) (ChainConfig, error) {
	for _, c := range GetChainConfigs() {
		if strings.EqualFold(string(c.Name), name) {
			return c, nil
		}
	}
	return ChainConfig{}, fmt.Errorf("unknown chain %q. Supported: %s", name, GetSupportedChainNamesString())
}

// FilterChainConfigs keeps only the chains whose names are listed, preserving
// table order. An empty filter keeps everything.
func FilterChainConfigs(chains []ChainConfig, names []string) ([]ChainConfig, error) {
	if len(names) == 0 {
		return chains, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[strings.ToLower(strings.TrimSpace(n))] = false
	}

	filtered := make([]ChainConfig, 0, len(names))
	for _, c := range chains {
		key := strings.ToLower(string(c.Name))
		if _, ok := wanted[key]; ok {
			filtered = append(filtered, c)
			wanted[key] = true
		}
	}

	for n, found := range wanted {
		if !found {
			return nil, fmt.Errorf("chain %q is not part of the selected network. Supported: %s", n, GetSupportedChainNamesString())
		}
	}
	return filtered, nil
}

// GetSupportedChainNamesString returns supported chain names for CLI help
func GetSupportedChainNamesString() string {
	chains := GetChainConfigs()
	names := make([]string, 0, len(chains))
	for _, c := range chains {
		names = append(names, fmt.Sprintf("%s (%d)", c.Name, c.ChainID))
	}
	return strings.Join(names, ", ")
}
