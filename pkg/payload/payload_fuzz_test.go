package payload

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func FuzzDecodeHeader(f *testing.F) {
	f.Add([]byte{})
	f.Add(testPayload{fixedSize: FixedSizeBedrock}.build())
	f.Add(testPayload{fixedSize: FixedSizeIsthmus, extraData: []byte("op"), txs: []byte{0x01}}.build())

	f.Fuzz(func(t *testing.T, data []byte) {
		h, err := DecodeHeader(data)
		if err != nil {
			require.Nil(t, h)
			return
		}
		require.LessOrEqual(t, len(h.ExtraData), maxExtraDataLength)
		require.NotNil(t, h.BaseFeePerGas)
	})
}
