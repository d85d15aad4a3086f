package payload

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ssz "github.com/ferranbt/fastssz"
)

// Fixed-part sizes of the SSZ ExecutionPayload across OP stack upgrades. The
// first variable field offset (extra_data) always equals the fixed-part size.
const (
	FixedSizeBedrock = 508 // up to transactions
	FixedSizeCanyon  = 512 // + withdrawals
	FixedSizeEcotone = 528 // + blob_gas_used, excess_blob_gas
	FixedSizeIsthmus = 560 // + withdrawals_root

	parentBeaconBlockRootLength = 32
	maxExtraDataLength          = 32
)

// Header holds the fixed fields of an execution payload carried by a
// sequencer commitment.
type Header struct {
	ParentBeaconBlockRoot common.Hash
	ParentHash            common.Hash
	FeeRecipient          common.Address
	StateRoot             common.Hash
	BlockNumber           uint64
	GasLimit              uint64
	GasUsed               uint64
	Timestamp             uint64
	ExtraData             []byte
	BaseFeePerGas         *big.Int
	BlockHash             common.Hash
}

// DecodeHeader decodes the header fields of a commitment payload laid out as
// parent_beacon_block_root (32 bytes) || ssz(ExecutionPayload).
func DecodeHeader(data []byte) (*Header, error) {
	if len(data) < parentBeaconBlockRootLength+FixedSizeBedrock {
		return nil, fmt.Errorf("payload too short: %d bytes: %w", len(data), ssz.ErrSize)
	}

	h := &Header{
		ParentBeaconBlockRoot: common.BytesToHash(data[:parentBeaconBlockRootLength]),
	}
	buf := data[parentBeaconBlockRootLength:]

	extraOffset := ssz.ReadOffset(buf[436:440])
	switch extraOffset {
	case FixedSizeBedrock, FixedSizeCanyon, FixedSizeEcotone, FixedSizeIsthmus:
	default:
		return nil, fmt.Errorf("unexpected extra_data offset %d: %w", extraOffset, ssz.ErrOffset)
	}
	if uint64(len(buf)) < extraOffset {
		return nil, fmt.Errorf("payload shorter than its fixed part (%d < %d): %w", len(buf), extraOffset, ssz.ErrSize)
	}

	txOffset := ssz.ReadOffset(buf[504:508])
	if txOffset < extraOffset || txOffset > uint64(len(buf)) {
		return nil, fmt.Errorf("invalid transactions offset %d: %w", txOffset, ssz.ErrOffset)
	}
	if txOffset-extraOffset > maxExtraDataLength {
		return nil, fmt.Errorf("extra data is %d bytes, max %d: %w", txOffset-extraOffset, maxExtraDataLength, ssz.ErrBytesLength)
	}

	h.ParentHash = common.BytesToHash(buf[0:32])
	h.FeeRecipient = common.BytesToAddress(buf[32:52])
	h.StateRoot = common.BytesToHash(buf[52:84])
	h.BlockNumber = ssz.UnmarshallUint64(buf[404:412])
	h.GasLimit = ssz.UnmarshallUint64(buf[412:420])
	h.GasUsed = ssz.UnmarshallUint64(buf[420:428])
	h.Timestamp = ssz.UnmarshallUint64(buf[428:436])
	h.BaseFeePerGas = littleEndianUint256(buf[440:472])
	h.BlockHash = common.BytesToHash(buf[472:504])
	h.ExtraData = append([]byte{}, buf[extraOffset:txOffset]...)

	return h, nil
}

func littleEndianUint256(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}
	return new(big.Int).SetBytes(be)
}
