package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	"premiere/internal/apperr"

	"github.com/spf13/afero"
)

// Token is the OAuth token document. Raw keeps every field the provider ever
// returned so a refresh never drops data it does not know about.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
	Raw          map[string]any
}

func LoadToken(fs afero.Fs, path string) (*Token, error) {
	doc, err := LoadJSON(fs, path)
	if err != nil {
		return nil, err
	}
	return TokenFromMap(doc)
}

// TokenFromMap builds a Token from a decoded document. access_token and
// expires_at are required.
func TokenFromMap(doc map[string]any) (*Token, error) {
	tok := &Token{Raw: doc}

	access, ok := doc["access_token"].(string)
	if !ok || access == "" {
		return nil, fmt.Errorf("%w: token is missing access_token", apperr.ErrConfig)
	}
	tok.AccessToken = access
	tok.RefreshToken, _ = doc["refresh_token"].(string)

	expiresAt, err := int64Field(doc, "expires_at")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrConfig, err)
	}
	tok.ExpiresAt = expiresAt
	return tok, nil
}

// Expired reports whether now (epoch seconds) is strictly past expires_at.
func (t *Token) Expired(now int64) bool {
	return now > t.ExpiresAt
}

// Merge overlays a provider payload onto the token and stamps expires_at.
func (t *Token) Merge(payload map[string]any, expiresAt int64) {
	if t.Raw == nil {
		t.Raw = make(map[string]any, len(payload)+1)
	}
	for k, v := range payload {
		t.Raw[k] = v
	}
	t.Raw["expires_at"] = expiresAt
	t.ExpiresAt = expiresAt
	if access, ok := payload["access_token"].(string); ok && access != "" {
		t.AccessToken = access
	}
	if refresh, ok := payload["refresh_token"].(string); ok && refresh != "" {
		t.RefreshToken = refresh
	}
}

func (t *Token) Save(fs afero.Fs, path string) error {
	doc := make(map[string]any, len(t.Raw)+3)
	for k, v := range t.Raw {
		doc[k] = v
	}
	doc["access_token"] = t.AccessToken
	if t.RefreshToken != "" {
		doc["refresh_token"] = t.RefreshToken
	}
	doc["expires_at"] = t.ExpiresAt
	return SaveJSON(fs, path, doc)
}

// Int64Field reads an integer field that may have been decoded as a
// json.Number, a float64 or a numeric string.
func Int64Field(doc map[string]any, key string) (int64, error) {
	return int64Field(doc, key)
}

func int64Field(doc map[string]any, key string) (int64, error) {
	raw, ok := doc[key]
	if !ok || raw == nil {
		return 0, fmt.Errorf("missing %s", key)
	}
	switch v := raw.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%s is not a number: %q", key, v.String())
		}
		return int64(f), nil
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s is not a number: %q", key, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s has unexpected type %T", key, raw)
	}
}
