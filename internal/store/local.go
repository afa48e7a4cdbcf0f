// Package store archives canonical record encodings on the local disk so a
// run's exact submission bytes can be inspected or re-submitted later.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SaveEncoded writes an encoded record into dir, named after its config
// key, and returns the written path.
func SaveEncoded(raw []byte, dir, configKey string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create submission store: %w", err)
	}
	name := fmt.Sprintf("record_%s.json", sanitizeKey(configKey))
	dst := filepath.Join(dir, name)
	if err := os.WriteFile(dst, raw, 0o644); err != nil {
		return "", fmt.Errorf("write record: %w", err)
	}
	return dst, nil
}

// EnsureDefaultSubmissionDir creates the default archive location.
func EnsureDefaultSubmissionDir() (string, error) {
	d := filepath.Join(".brc", "submissions")
	if err := os.MkdirAll(d, 0o755); err != nil {
		return "", fmt.Errorf("create local store: %w", err)
	}
	return d, nil
}

func sanitizeKey(configKey string) string {
	return strings.ReplaceAll(configKey, ":", "-")
}
