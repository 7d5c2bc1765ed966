package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for fingerprints. The version suffix lets the scheme change
// without colliding with older fingerprints; result fingerprints follow
// ResultsVersion.
const (
	DomainResults = "typematrix/results/v" + ResultsVersion
	DomainCheck   = "typematrix/check/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint hashes the canonical encoding of an ordered result sequence.
// Two runs are stable iff their fingerprints are equal.
func Fingerprint(results Array) (string, error) {
	canonical, err := MarshalCanonical(results)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(DomainResults, canonical), nil
}

// CheckID hashes a single result together with its position in the run.
func CheckID(result Object, seq int64) (string, error) {
	canonical, err := MarshalCanonical(Object{
		"result": result,
		"seq":    Int(seq),
	})
	if err != nil {
		return "", fmt.Errorf("check id: %w", err)
	}
	return hashWithDomain(DomainCheck, canonical), nil
}
