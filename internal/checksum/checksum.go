// Package checksum computes the content digests used for recipe change detection.
package checksum

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Marshal encodes v as compact JSON in struct field order. Unlike
// json.Marshal it leaves <, > and & unescaped, so the bytes match what
// other JSON encoders produce for the same record.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// JSON returns the digest of v's Marshal encoding.
func JSON(v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return Sum(data), nil
}
