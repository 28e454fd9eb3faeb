package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainModel is the domain prefix for whole-model digests. The version
// suffix leaves room for algorithm migration.
const DomainModel = "oced/model/v1"

// Digest computes the content digest of v: SHA-256 over the domain prefix,
// a null separator, and the canonical JSON bytes. The null byte prevents
// domain/data boundary ambiguity.
//
// Equal models produce equal digests regardless of map iteration order or
// source formatting.
func Digest(v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	return digestWithDomain(DomainModel, data), nil
}

// DigestJSON parses standard JSON bytes and digests the parsed value, so
// two documents with the same content but different key order or
// whitespace digest identically.
func DigestJSON(data []byte) (string, error) {
	v, err := FromJSON(data)
	if err != nil {
		return "", fmt.Errorf("digest: parse JSON: %w", err)
	}
	return Digest(v)
}

func digestWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
