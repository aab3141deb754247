package push

import (
	"testing"

	"github.com/go-stomp/stomp/v3/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame_EncodeDecode(t *testing.T) {
	f := frame.New(frame.MESSAGE,
		frame.Destination, "/topic/extensions",
		frame.Subscription, "sub-1",
	)
	f.Body = []byte(`{"type":"delta"}`)

	raw, err := encodeFrame(f)
	require.NoError(t, err)
	assert.Equal(t, byte(0), raw[len(raw)-1])

	got, err := decodeFrame(raw)
	require.NoError(t, err)
	assert.Equal(t, frame.MESSAGE, got.Command)
	assert.Equal(t, "/topic/extensions", got.Header.Get(frame.Destination))
	assert.Equal(t, "sub-1", got.Header.Get(frame.Subscription))
	assert.Equal(t, f.Body, got.Body)
}

func TestDecodeFrame_Heartbeat(t *testing.T) {
	for _, payload := range []string{"", "\n", "\r\n", "\n\n"} {
		_, err := decodeFrame([]byte(payload))
		assert.ErrorIs(t, err, errHeartbeat, "payload %q", payload)
	}
}

func TestDecodeFrame_LeadingHeartbeat(t *testing.T) {
	got, err := decodeFrame([]byte("\nMESSAGE\nsubscription:sub-1\n\n{}\x00"))
	require.NoError(t, err)
	assert.Equal(t, frame.MESSAGE, got.Command)
	assert.Equal(t, "sub-1", got.Header.Get(frame.Subscription))
	assert.Equal(t, "{}", string(got.Body))
}

func TestDecodeFrame_ContentLength(t *testing.T) {
	got, err := decodeFrame([]byte("MESSAGE\ncontent-length:3\n\na\x00b\x00"))
	require.NoError(t, err)
	assert.Equal(t, []byte("a\x00b"), got.Body)
}

func TestDecodeFrame_Truncated(t *testing.T) {
	for _, payload := range []string{"MESSAGE", "MESSAGE\nfoo:1"} {
		_, err := decodeFrame([]byte(payload))
		assert.Error(t, err, "payload %q", payload)
	}
}
