// Package hashing computes the content fingerprints that anchor custody
// records. Digests are SHA-256, hex encoded, and deterministic: the same
// bytes always produce the same fingerprint regardless of platform or call
// order.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"veritas/pkg/platform/sentinel"
)

// Engine fingerprints record content. The zero value is ready to use; the
// type exists so services depend on an injectable seam rather than package
// functions.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// DigestBytes streams r through SHA-256 and returns the hex digest. Large
// sources are never buffered whole. A read fault surfaces as
// sentinel.ErrContentUnavailable; callers must not substitute a fabricated
// hash.
func (e *Engine) DigestBytes(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("digest content: %w: %w", sentinel.ErrContentUnavailable, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DigestFile opens path and streams it through DigestBytes. An unreadable
// file surfaces as sentinel.ErrContentUnavailable.
func (e *Engine) DigestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w: %w", path, sentinel.ErrContentUnavailable, err)
	}
	defer f.Close()
	return e.DigestBytes(f)
}

// DigestText hashes a canonical string payload. Pure and infallible.
func (e *Engine) DigestText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
