package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"premiere/internal/apperr"

	"github.com/spf13/afero"
)

// LoadJSON reads path and decodes it as a JSON object. Numbers are kept as
// json.Number so integer fields like expires_at round-trip unchanged.
func LoadJSON(fs afero.Fs, path string) (map[string]any, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: file not found: %s", apperr.ErrConfig, path)
		}
		return nil, fmt.Errorf("%w: read %s: %w", apperr.ErrConfig, path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON in %s: %w", apperr.ErrConfig, path, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s does not contain a JSON object", apperr.ErrConfig, path)
	}
	return doc, nil
}

// SaveJSON writes v as indented JSON without HTML or slash escaping. The
// document goes to a sibling temp file first and is renamed over path.
func SaveJSON(fs afero.Fs, path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: encode %s: %w", apperr.ErrPersist, path, err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create %s: %w", apperr.ErrPersist, dir, err)
		}
	}

	tmp := path + ".tmp"
	if err := afero.WriteFile(fs, tmp, bytes.TrimRight(buf.Bytes(), "\n"), 0o600); err != nil {
		return fmt.Errorf("%w: write %s: %w", apperr.ErrPersist, tmp, err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("%w: replace %s: %w", apperr.ErrPersist, path, err)
	}
	return nil
}
