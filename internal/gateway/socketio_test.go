package gateway

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMessage(t *testing.T) {
	t.Parallel()

	want := Message{
		SenderID:    "1001",
		SenderName:  "ada",
		ChannelID:   "general",
		Content:     "n!ping",
		SenderIsBot: false,
	}

	testCases := []struct {
		name string
		raw  any
	}{
		{
			name: "decoded map payload",
			raw: map[string]any{
				"sender_id":   "1001",
				"sender_name": "ada",
				"channel_id":  "general",
				"content":     "n!ping",
			},
		},
		{
			name: "pre-encoded json string",
			raw:  `{"sender_id":"1001","sender_name":"ada","channel_id":"general","content":"n!ping"}`,
		},
		{
			name: "pre-encoded json bytes",
			raw:  []byte(`{"sender_id":"1001","sender_name":"ada","channel_id":"general","content":"n!ping"}`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := decodeMessage(tc.raw)

			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("decoded message mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeMessageRejectsMalformedPayload(t *testing.T) {
	t.Parallel()

	_, err := decodeMessage("not json at all")
	assert.Error(t, err)

	_, err = decodeMessage([]byte{0xff, 0xfe})
	assert.Error(t, err)
}
