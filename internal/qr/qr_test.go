package qr

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDeterministic(t *testing.T) {
	payloads := []string{
		"bc1qexampleaddress",
		"bitcoin:bcrt1qfakeaddress0001?amount=0.001",
		"fed11qgqrgvnhwden5te0v9k8q6rp9ekh2arfdeukuet595cr2ttpd3jhq6rzve6zuer9wchxvetyd938gcewvdhk6tcqqysptkuvknc7erjgf4em3zfh90kffqf9srujn6q53d6r056e4apze5cw27h75",
		"ünïcødé ⚡",
	}
	for _, p := range payloads {
		first, err := Encode(p)
		require.NoError(t, err)
		require.NotEmpty(t, first)

		second, err := Encode(p)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(first, second), "payload %q", p)
	}
}

func TestEncodeIsSquarePNG(t *testing.T) {
	b, err := Encode("bc1qexampleaddress")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG\r\n\x1a\n")))

	cfg, err := png.DecodeConfig(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, Size, cfg.Width)
	assert.Equal(t, Size, cfg.Height)
}

func TestEncodeDifferentPayloads(t *testing.T) {
	a, err := Encode("bc1qexampleaddress")
	require.NoError(t, err)
	b, err := Encode("bc1qotheraddress")
	require.NoError(t, err)
	assert.False(t, bytes.Equal(a, b))
}

func TestEncodeTooLarge(t *testing.T) {
	// Version 40 at level L holds 2953 bytes in byte mode.
	for _, n := range []int{3000, 4000, 10000} {
		b, err := Encode(strings.Repeat("x", n))
		require.ErrorIs(t, err, ErrPayloadTooLarge, "len %d", n)
		assert.Nil(t, b)
	}
}

func TestEncodeLargeButFits(t *testing.T) {
	b, err := Encode(strings.Repeat("x", 2000))
	require.NoError(t, err)
	assert.NotEmpty(t, b)
}

func TestEncodeEmpty(t *testing.T) {
	b, err := Encode("")
	require.ErrorIs(t, err, ErrEmptyPayload)
	assert.Nil(t, b)
}
