// Package backup reads and writes flux backup files. Files ending in
// CompressedExt are snappy-compressed JSON; anything else is plain JSON.
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"

	"github.com/example/flux/internal/models"
)

// CompressedExt marks snappy-compressed backup files.
const CompressedExt = ".sz"

// Encode serializes exp as indented JSON, compressed when compress is set.
func Encode(exp *models.Export, compress bool) ([]byte, error) {
	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	data = append(data, '\n')
	if compress {
		return snappy.Encode(nil, data), nil
	}
	return data, nil
}

// Decode returns the JSON document held in data, decompressing it when it
// is not plain JSON.
func Decode(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return trimmed, nil
	}

	decoded, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("backup is neither JSON nor snappy-compressed: %w", err)
	}
	return decoded, nil
}

// IsCompressedPath reports whether path names a compressed backup.
func IsCompressedPath(path string) bool {
	return strings.HasSuffix(path, CompressedExt)
}

// WriteFile writes exp to path. Compression follows the file extension
// unless compress forces it on.
func WriteFile(path string, exp *models.Export, compress bool) error {
	data, err := Encode(exp, compress || IsCompressedPath(path))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create backup directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// ReadFile reads the backup at path and returns its JSON document.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	return Decode(data)
}
