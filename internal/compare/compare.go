// Package compare decides whether an actual model output matches the expected
// output of a test case.
//
// Both sides are normalized to a canonical JSON encoding whose object keys are
// sorted at every depth. Equality is byte equality of the canonical forms, so
// key order never matters while array order, value types and every nested
// value do.
package compare

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Result is the outcome of one comparison together with the normalized values
// that were compared.
type Result struct {
	Equal    bool
	Expected interface{}
	Actual   interface{}
}

// Compare normalizes expected and actual and reports whether they match.
func Compare(expected, actual interface{}) Result {
	exp := Normalize(expected)
	act := Normalize(actual)

	expCanon, expErr := Canonical(exp)
	actCanon, actErr := Canonical(act)

	return Result{
		Equal:    expErr == nil && actErr == nil && bytes.Equal(expCanon, actCanon),
		Expected: exp,
		Actual:   act,
	}
}

// Normalize turns a value into its comparable form. Strings are parsed as JSON
// when possible and fall back to their trimmed text. Raw JSON and structured
// values are decoded into generic maps, slices, float64 numbers, strings,
// booleans and nil.
func Normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return normalizeString(val)
	case json.RawMessage:
		return normalizeRaw(val)
	case []byte:
		return normalizeRaw(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return val
		}
		return normalizeRaw(data)
	}
}

func normalizeString(s string) interface{} {
	var decoded interface{}
	if err := json.Unmarshal([]byte(s), &decoded); err == nil {
		return decoded
	}
	return strings.TrimSpace(s)
}

func normalizeRaw(data []byte) interface{} {
	var decoded interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return strings.TrimSpace(string(data))
	}
	if s, ok := decoded.(string); ok {
		return normalizeString(s)
	}
	return decoded
}

// Canonical returns the canonical encoding of a normalized value.
func Canonical(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
