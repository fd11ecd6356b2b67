package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONMap_Strings(t *testing.T) {
	var m JSONMap
	require.NoError(t, json.Unmarshal([]byte(`{
		"customer_name": "Asha",
		"ticket_id": 42,
		"amount": 10.5,
		"urgent": true,
		"missing": null,
		"items": ["a", "b"]
	}`), &m))

	assert.Equal(t, map[string]string{
		"customer_name": "Asha",
		"ticket_id":     "42",
		"amount":        "10.5",
		"urgent":        "true",
		"items":         `["a","b"]`,
	}, m.Strings())
	assert.Equal(t, []string{"amount", "customer_name", "items", "missing", "ticket_id", "urgent"}, m.Keys())
}

func TestJSONMap_Getters(t *testing.T) {
	m := JSONMap{"id": float64(7), "code": "12", "name": "x"}

	assert.Equal(t, int64(7), m.GetInt64("id"))
	assert.Equal(t, int64(12), m.GetInt64("code"))
	assert.Equal(t, "x", m.GetString("name"))
	assert.Equal(t, "", m.GetString("nope"))
}

func TestJSONMap_Scan(t *testing.T) {
	var m JSONMap
	require.NoError(t, m.Scan([]byte(`{"a":"b"}`)))
	assert.Equal(t, "b", m.GetString("a"))

	require.NoError(t, m.Scan(nil))
	assert.Empty(t, m)

	assert.ErrorIs(t, m.Scan(12), ErrScanValueNotBytes)

	v, err := JSONMap(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), v)
}
