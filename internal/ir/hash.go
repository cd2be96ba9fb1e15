package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainProblem = "qaco/problem/v1"
	DomainCWS     = "qaco/cws/v1"
	DomainBinding = "qaco/binding/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func hashCanonical(domain string, v any) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", err
	}
	return hashWithDomain(domain, canonical), nil
}

// ProblemHash computes a content-addressed ID for a problem.
// Equal problems hash equally regardless of how they were constructed.
func ProblemHash(p *QACOProblem) (string, error) {
	h, err := hashCanonical(DomainProblem, p)
	if err != nil {
		return "", fmt.Errorf("ProblemHash: %w", err)
	}
	return h, nil
}

// CWSHash computes a content-addressed ID for a composite service.
func CWSHash(cws *CompositeWebService) (string, error) {
	h, err := hashCanonical(DomainCWS, cws)
	if err != nil {
		return "", fmt.Errorf("CWSHash: %w", err)
	}
	return h, nil
}

// BindingHash computes a content-addressed ID for a binding.
func BindingHash(b Binding) (string, error) {
	h, err := hashCanonical(DomainBinding, b)
	if err != nil {
		return "", fmt.Errorf("BindingHash: %w", err)
	}
	return h, nil
}

// MustProblemHash is like ProblemHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustProblemHash(p *QACOProblem) string {
	h, err := ProblemHash(p)
	if err != nil {
		panic(err)
	}
	return h
}
