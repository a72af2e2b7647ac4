// Package fileid fingerprints dataset files so unchanged content can be skipped.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/hyperjump/kluster/internal/models"
)

const prefix = "sha256:"

// Digest returns a stable fingerprint of the content.
func Digest(content []byte) string {
	hash := sha256.Sum256(content)
	return prefix + hex.EncodeToString(hash[:])
}

// FileDigest returns the fingerprint of the file at path.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &models.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", &models.IOError{Op: "read", Path: path, Err: err}
	}
	return prefix + hex.EncodeToString(h.Sum(nil)), nil
}

// Tracker remembers the last seen fingerprint per file. Paths are keyed by
// their absolute form, so "data.txt" and "/cwd/./data.txt" are the same file.
// Safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	digests map[string]string
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{digests: make(map[string]string)}
}

// Changed reports whether the file content differs from the last call for
// the same path, and records the new fingerprint. The first call for a path
// is always a change.
func (t *Tracker) Changed(path string) (bool, error) {
	digest, err := FileDigest(path)
	if err != nil {
		return false, err
	}
	key := trackKey(path)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.digests[key] == digest {
		return false, nil
	}
	t.digests[key] = digest
	return true, nil
}

// Forget drops the recorded fingerprint so the next Changed call reports a change.
func (t *Tracker) Forget(path string) {
	t.mu.Lock()
	delete(t.digests, trackKey(path))
	t.mu.Unlock()
}

func trackKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
