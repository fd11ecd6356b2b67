// Package valueobject holds small value types shared by transport and storage.
package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"sort"

	"github.com/spf13/cast"
)

// ErrScanValueNotBytes indicates the database value is not a byte slice.
var ErrScanValueNotBytes = errors.New("valueobject: jsonmap scan value is not []byte")

// JSONMap stores arbitrary JSON object data, such as free-form template
// variables sent by upstream systems.
// @swaggertype object
type JSONMap map[string]any

// Value implements driver.Valuer for JSONMap.
func (j JSONMap) Value() (driver.Value, error) {
	if j == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner for JSONMap.
func (j *JSONMap) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*j = JSONMap{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case map[string]any:
		*j = JSONMap(v)
		return nil
	default:
		return ErrScanValueNotBytes
	}

	var result JSONMap
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*j = result
	return nil
}

// GetString returns the value for key rendered as text, "" when missing.
func (j JSONMap) GetString(key string) string {
	v, ok := j[key]
	if !ok || v == nil {
		return ""
	}
	return cast.ToString(v)
}

// GetInt64 returns the value for key as int64. JSON numbers decode as
// float64 and numeric strings are accepted too.
func (j JSONMap) GetInt64(key string) int64 {
	return cast.ToInt64(j[key])
}

// Strings flattens scalar values to text. Nested objects and arrays are
// encoded as JSON; nulls are dropped.
func (j JSONMap) Strings() map[string]string {
	out := make(map[string]string, len(j))
	for k, v := range j {
		switch v.(type) {
		case nil:
			continue
		case map[string]any, []any:
			b, err := json.Marshal(v)
			if err != nil {
				continue
			}
			out[k] = string(b)
		default:
			out[k] = cast.ToString(v)
		}
	}
	return out
}

// Keys returns the sorted keys.
func (j JSONMap) Keys() []string {
	keys := make([]string, 0, len(j))
	for k := range j {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
