package signature

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign(t *testing.T) {
	t.Run("deterministic for same payload and secret", func(t *testing.T) {
		payload := []byte(`{"order_id": 42}`)

		sig1 := Sign(payload, "topsecret")
		sig2 := Sign(payload, "topsecret")

		assert.Equal(t, sig1, sig2)
		assert.Len(t, sig1, 64) // hex-encoded SHA-256
	})

	t.Run("different secrets produce different signatures", func(t *testing.T) {
		payload := []byte(`{"order_id": 42}`)

		assert.NotEqual(t, Sign(payload, "secret-a"), Sign(payload, "secret-b"))
	})

	t.Run("known vector", func(t *testing.T) {
		// HMAC-SHA256("key", "hello") from independent tooling
		sig := Sign([]byte("hello"), "key")
		assert.Equal(t, "9307b3b915efb5171ff14d8cb55fbcc798c6c0ef1456d66ded1a6aa723a58b7b", sig)
	})
}

func TestHeader(t *testing.T) {
	t.Run("carries the scheme prefix", func(t *testing.T) {
		header := Header([]byte(`{}`), "topsecret")

		require.True(t, strings.HasPrefix(header, Prefix))
		assert.Equal(t, Prefix+Sign([]byte(`{}`), "topsecret"), header)
	})
}

func TestVerify(t *testing.T) {
	payload := []byte(`{"order_id": 42}`)

	t.Run("accepts a valid signature", func(t *testing.T) {
		header := Header(payload, "topsecret")

		assert.True(t, Verify(payload, "topsecret", header))
	})

	t.Run("rejects a tampered payload", func(t *testing.T) {
		header := Header(payload, "topsecret")

		assert.False(t, Verify([]byte(`{"order_id": 43}`), "topsecret", header))
	})

	t.Run("rejects the wrong secret", func(t *testing.T) {
		header := Header(payload, "topsecret")

		assert.False(t, Verify(payload, "other", header))
	})

	t.Run("rejects a missing prefix", func(t *testing.T) {
		assert.False(t, Verify(payload, "topsecret", Sign(payload, "topsecret")))
	})

	t.Run("rejects malformed hex", func(t *testing.T) {
		assert.False(t, Verify(payload, "topsecret", "sha256=not-hex-at-all"))
	})

	t.Run("rejects empty value", func(t *testing.T) {
		assert.False(t, Verify(payload, "topsecret", ""))
	})
}
