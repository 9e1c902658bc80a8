package cache

import (
	"bytes"
	"encoding/gob"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// Payload tags as they appear in the table files. The "pickle" literal is
// part of the persisted format and kept for compatibility with tables written
// by earlier tooling; in this implementation it marks hex-encoded gob bytes.
const (
	tagJSON   = "json"
	tagBinary = "pickle"
	tagString = "string"
)

// payload is the tagged union stored per fingerprint: the tag picks the codec
// that produced Value and the one that must decode it.
type payload struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

func init() {
	// Common composite shapes that should survive the gob path without the
	// caller having to register them.
	gob.Register(map[string]any{})
	gob.Register([]any{})
}

// RegisterType makes values of the same concrete type as v eligible for
// byte-exact caching. Non-JSON-native values of unregistered types are stored
// as their lossy string form instead.
func RegisterType(v any) {
	gob.Register(v)
}

// serialize runs the codec cascade: JSON-native values are embedded directly,
// gob-encodable values are stored as hex bytes, and everything else becomes
// its string representation. The cascade never fails; the boolean reports
// whether the lossy string fallback was used.
func serialize(v any) (payload, bool) {
	if jsonNative(v) {
		raw, err := json.Marshal(v)
		if err == nil {
			return payload{Type: tagJSON, Value: raw}, false
		}
	}
	if raw, err := gobEncode(v); err == nil {
		return payload{Type: tagBinary, Value: raw}, false
	}
	raw, _ := json.Marshal(fmt.Sprint(v))
	return payload{Type: tagString, Value: raw}, true
}

// deserialize reconstructs the value stored in p. An unknown tag or invalid
// encoded bytes yield a *DeserializationError.
func deserialize(function string, p payload) (any, error) {
	switch p.Type {
	case tagJSON:
		var v any
		if err := json.Unmarshal(p.Value, &v); err != nil {
			return nil, &DeserializationError{Function: function, Tag: p.Type, Err: err}
		}
		return v, nil
	case tagBinary:
		v, err := gobDecode(p.Value)
		if err != nil {
			return nil, &DeserializationError{Function: function, Tag: p.Type, Err: err}
		}
		return v, nil
	case tagString:
		var s string
		if err := json.Unmarshal(p.Value, &s); err != nil {
			return nil, &DeserializationError{Function: function, Tag: p.Type, Err: err}
		}
		return s, nil
	default:
		return nil, &DeserializationError{Function: function, Tag: p.Type}
	}
}

// jsonNative reports whether v round-trips losslessly through a JSON table:
// only the types encoding/json itself produces qualify, so e.g. ints go
// through gob instead of silently coming back as float64.
func jsonNative(v any) bool {
	switch t := v.(type) {
	case nil, bool, string, float64:
		return true
	case []any:
		for _, e := range t {
			if !jsonNative(e) {
				return false
			}
		}
		return true
	case map[string]any:
		for _, e := range t {
			if !jsonNative(e) {
				return false
			}
		}
		return true
	}
	return false
}

func gobEncode(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&v); err != nil {
		return nil, errors.Wrapf(err, "failed to gob-encode %T value", v)
	}
	return json.Marshal(hex.EncodeToString(buf.Bytes()))
}

func gobDecode(raw json.RawMessage) (any, error) {
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, errors.Wrapf(err, "payload value is not a hex string")
	}
	data, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, errors.Wrapf(err, "payload value is not valid hex")
	}
	var v any
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		return nil, errors.Wrapf(err, "failed to gob-decode payload")
	}
	return v, nil
}
