package users

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword_SetAndCompare(t *testing.T) {
	var p password
	require.NoError(t, p.Set("hunter2"))

	assert.NoError(t, p.Compare("hunter2"))
	assert.Error(t, p.Compare("wrong"))
}

func TestPassword_HashRoundTrip(t *testing.T) {
	var p password
	require.NoError(t, p.Set("hunter2"))

	var restored password
	restored.SetHash(p.Hash())
	assert.NoError(t, restored.Compare("hunter2"))
}

// Users are serialized straight into API responses; no credential or
// token material may appear in the output.
func TestUser_SerializationExposesNoSecrets(t *testing.T) {
	u := &User{ID: 1, AccountType: AccountCustomer, Name: "Jane", Email: "jane@example.com", Phone: "3125550142"}
	require.NoError(t, u.Password.Set("hunter2"))

	raw, err := json.Marshal(u)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	for key := range fields {
		assert.NotContains(t, []string{"password", "hash", "refresh_token"}, key)
	}
	assert.NotContains(t, string(raw), "hunter2")
}
