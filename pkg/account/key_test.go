package account_test

import (
	"testing"

	"github.com/LeJamon/goPyth/pkg/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_Base58(t *testing.T) {
	const mainnetMapping = "AHtgzX45WTKfkPG53L6WYhGEXwQkN1BVknET3sVsLL8J"

	k, err := account.ParseKey(mainnetMapping)
	require.NoError(t, err)
	assert.Equal(t, mainnetMapping, k.String())
	assert.False(t, k.IsZero())

	text, err := k.MarshalText()
	require.NoError(t, err)
	var back account.Key
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, k, back)
}

func TestKey_Invalid(t *testing.T) {
	_, err := account.ParseKey("0OIl")
	assert.Error(t, err, "not base58")

	_, err = account.ParseKey("3yZe7d")
	assert.Error(t, err, "too short")

	assert.Panics(t, func() { account.MustParseKey("") })
}

func TestKey_Zero(t *testing.T) {
	assert.True(t, account.ZeroKey.IsZero())
	assert.Equal(t, "11111111111111111111111111111111", account.ZeroKey.String())
}
