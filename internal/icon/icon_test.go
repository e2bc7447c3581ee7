package icon

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressFormats(t *testing.T) {
	eoa := "hx" + strings.Repeat("a1", 20)
	score := "cx4322ccf1ad0578a8909a162b9154170859c913eb"

	assert.True(t, IsEOA(eoa))
	assert.False(t, IsEOA(score))
	assert.False(t, IsEOA("invalidAddr"))
	assert.False(t, IsEOA("hx"+strings.Repeat("A1", 20)))
	assert.False(t, IsEOA(eoa+"0"))
	assert.False(t, IsEOA(""))

	assert.True(t, IsContract(score))
	assert.False(t, IsContract(eoa))
}

func TestParseBig(t *testing.T) {
	want, _ := new(big.Int).SetString("1000000000000000000", 10)

	n, err := ParseBig("1000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, 0, want.Cmp(n))

	n, err = ParseBig("0xde0b6b3a7640000")
	require.NoError(t, err)
	assert.Equal(t, 0, want.Cmp(n))

	huge := "123456789012345678901234567890123456789012345678901234567890"
	n, err = ParseBig(huge)
	require.NoError(t, err)
	assert.Equal(t, huge, n.String())

	for _, bad := range []string{"", "0x", "1.5", "1e18", "0xzz"} {
		_, err := ParseBig(bad)
		assert.ErrorIs(t, err, ErrInvalidNumber, bad)
	}
}

func TestCallTransactionToRaw(t *testing.T) {
	tx := &CallTransaction{
		Version:   3,
		From:      "hx0000000000000000000000000000000000000001",
		To:        "cx4322ccf1ad0578a8909a162b9154170859c913eb",
		Value:     big.NewInt(0),
		StepLimit: big.NewInt(200000),
		NID:       big.NewInt(3),
		Nonce:     big.NewInt(100),
		Timestamp: 1_600_000_000_000_000,
		Method:    "transfer",
		Params:    map[string]any{"_to": "hx0000000000000000000000000000000000000002", "_value": "0x1"},
	}

	raw := tx.ToRaw()
	assert.Equal(t, "0x3", raw["version"])
	assert.Equal(t, "0x30d40", raw["stepLimit"])
	assert.Equal(t, "0x3", raw["nid"])
	assert.Equal(t, "0x64", raw["nonce"])
	assert.Equal(t, "0x5af3107a40000", raw["timestamp"])
	assert.Equal(t, "call", raw["dataType"])
	_, hasValue := raw["value"]
	assert.False(t, hasValue)

	data := raw["data"].(map[string]any)
	assert.Equal(t, "transfer", data["method"])
	assert.Equal(t, tx.Params, data["params"])
	assert.Equal(t, "icx_sendTransaction", tx.RPCMethod())
}

func TestPayableTransactionCarriesValue(t *testing.T) {
	loop, _ := new(big.Int).SetString("10000000000000000000", 10)
	raw := (&CallTransaction{Version: 3, Value: loop, Method: "join"}).ToRaw()
	assert.Equal(t, "0x8ac7230489e80000", raw["value"])
	_, hasParams := raw["data"].(map[string]any)["params"]
	assert.False(t, hasParams)
}
