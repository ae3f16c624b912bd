package membercard

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayload(t *testing.T) {
	assert.Equal(t, "MEMBER-7-alice", Payload(7, "alice"))
	assert.Equal(t, "MEMBER-123-Bookworm", Payload(123, "Bookworm"))
}

func TestDataURL(t *testing.T) {
	url, err := DataURL(7, "alice")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	// The payload decodes to a real PNG
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), raw[:4])
}

func TestDataURLDeterministic(t *testing.T) {
	a, err := DataURL(1, "same")
	require.NoError(t, err)
	b, err := DataURL(1, "same")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
