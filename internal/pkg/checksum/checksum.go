package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Algorithm is the prefix used on every checksum the platform emits.
const Algorithm = "sha256"

// Canonicalize renders v as compact JSON with deterministically ordered
// object keys, so two independent computations over unchanged content
// always produce identical bytes.
func Canonicalize(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal content: %w", err)
	}
	// Round-trip through a generic value: encoding/json sorts map keys
	// on marshal, which gives a canonical ordering regardless of struct
	// field order in the source type.
	var tmp any
	if err := json.Unmarshal(raw, &tmp); err != nil {
		return nil, fmt.Errorf("canonicalize content: %w", err)
	}
	out, err := json.Marshal(tmp)
	if err != nil {
		return nil, fmt.Errorf("canonicalize content: %w", err)
	}
	return out, nil
}

// Sum returns "sha256:<hex>" over the given bytes.
func Sum(b []byte) string {
	h := sha256.Sum256(b)
	return Algorithm + ":" + hex.EncodeToString(h[:])
}

// SumCanonical canonicalizes v and returns its checksum plus the canonical
// byte length, which doubles as the manifest size_bytes.
func SumCanonical(v any) (string, int64, error) {
	b, err := Canonicalize(v)
	if err != nil {
		return "", 0, err
	}
	return Sum(b), int64(len(b)), nil
}
