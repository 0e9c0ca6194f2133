package payload

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("success - JSON object", func(t *testing.T) {
		err := Validate([]byte(`{"user_id": 123, "action": "created"}`))
		require.NoError(t, err)
	})

	t.Run("success - JSON array", func(t *testing.T) {
		err := Validate([]byte(`[1, 2, 3]`))
		require.NoError(t, err)
	})

	t.Run("success - JSON scalar", func(t *testing.T) {
		err := Validate([]byte(`"just a string"`))
		require.NoError(t, err)
	})

	t.Run("error - empty payload", func(t *testing.T) {
		err := Validate([]byte{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "empty")
	})

	t.Run("error - nil payload", func(t *testing.T) {
		err := Validate(nil)
		require.Error(t, err)
	})

	t.Run("error - truncated JSON", func(t *testing.T) {
		err := Validate([]byte(`{"user_id": 12`))
		require.Error(t, err)
		require.Contains(t, err.Error(), "valid JSON")
	})

	t.Run("error - not JSON at all", func(t *testing.T) {
		err := Validate([]byte(`<xml>nope</xml>`))
		require.Error(t, err)
	})
}

func TestValidateEventType(t *testing.T) {
	t.Run("success - simple type", func(t *testing.T) {
		err := ValidateEventType("user")
		require.NoError(t, err)
	})

	t.Run("success - hierarchical type", func(t *testing.T) {
		err := ValidateEventType("user.created")
		require.NoError(t, err)
	})

	t.Run("success - deeply nested type", func(t *testing.T) {
		err := ValidateEventType("order.item.inventory.updated")
		require.NoError(t, err)
	})

	t.Run("success - with underscores and numbers", func(t *testing.T) {
		err := ValidateEventType("user_v2.profile_123.updated")
		require.NoError(t, err)
	})

	t.Run("success - wildcard suffix", func(t *testing.T) {
		err := ValidateEventType("user.*")
		require.NoError(t, err)
	})

	t.Run("error - empty type", func(t *testing.T) {
		err := ValidateEventType("")
		require.Error(t, err)
	})

	t.Run("error - contains dashes", func(t *testing.T) {
		err := ValidateEventType("user-created")
		require.Error(t, err)
	})

	t.Run("error - contains special characters", func(t *testing.T) {
		err := ValidateEventType("user@created")
		require.Error(t, err)
	})

	t.Run("error - starts with period", func(t *testing.T) {
		err := ValidateEventType(".user.created")
		require.Error(t, err)
	})

	t.Run("error - ends with period (without wildcard)", func(t *testing.T) {
		err := ValidateEventType("user.")
		require.Error(t, err)
	})

	t.Run("error - double periods", func(t *testing.T) {
		err := ValidateEventType("user..created")
		require.Error(t, err)
	})
}
