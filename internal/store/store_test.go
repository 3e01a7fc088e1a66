package store

import (
	"encoding/json"
	"testing"

	"premiere/internal/apperr"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenDoc = `{
    "access_token": "old-access",
    "refresh_token": "old-refresh",
    "expires_at": 1736700000,
    "expires_in": 7776000,
    "scope": "public",
    "token_type": "bearer",
    "created_at": 1728924000
}`

func TestLoadJSONMissingFile(t *testing.T) {
	_, err := LoadJSON(afero.NewMemMapFs(), "/etc/premiere/config.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConfig)
}

func TestLoadJSONInvalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/token.json", []byte(`{"access_token":`), 0o600))

	_, err := LoadJSON(fs, "/token.json")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConfig, apperr.KindOf(err))
}

func TestLoadJSONRejectsNonObject(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/token.json", []byte(`null`), 0o600))

	_, err := LoadJSON(fs, "/token.json")
	assert.ErrorIs(t, err, apperr.ErrConfig)
}

func TestSaveJSONDoesNotEscapeSlashes(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := map[string]any{"url": "https://image.tmdb.org/t/p/w500"}

	require.NoError(t, SaveJSON(fs, "/data/out.json", doc))

	data, err := afero.ReadFile(fs, "/data/out.json")
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"url\": \"https://image.tmdb.org/t/p/w500\"\n}", string(data))

	exists, err := afero.Exists(fs, "/data/out.json.tmp")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSaveJSONEncodeFailure(t *testing.T) {
	err := SaveJSON(afero.NewMemMapFs(), "/out.json", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrPersist)
}

func TestSaveJSONWriteFailure(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	err := SaveJSON(fs, "/out.json", map[string]any{"a": 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrPersist)
}

func TestLoadToken(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/token.json", []byte(tokenDoc), 0o600))

	tok, err := LoadToken(fs, "/token.json")
	require.NoError(t, err)
	assert.Equal(t, "old-access", tok.AccessToken)
	assert.Equal(t, "old-refresh", tok.RefreshToken)
	assert.Equal(t, int64(1736700000), tok.ExpiresAt)
	assert.True(t, tok.Expired(1736700001))
	assert.False(t, tok.Expired(1736700000))
}

func TestLoadTokenRequiresFields(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a.json", []byte(`{"expires_at": 1}`), 0o600))
	require.NoError(t, afero.WriteFile(fs, "/b.json", []byte(`{"access_token": "x"}`), 0o600))
	require.NoError(t, afero.WriteFile(fs, "/c.json", []byte(`{"access_token": "x", "expires_at": "soon"}`), 0o600))

	for _, path := range []string{"/a.json", "/b.json", "/c.json"} {
		_, err := LoadToken(fs, path)
		assert.ErrorIs(t, err, apperr.ErrConfig, path)
	}
}

func TestTokenRoundTripPreservesFields(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/token.json", []byte(tokenDoc), 0o600))

	tok, err := LoadToken(fs, "/token.json")
	require.NoError(t, err)
	tok.Merge(map[string]any{}, 1800000000)
	require.NoError(t, tok.Save(fs, "/token.json"))

	var original, saved map[string]any
	require.NoError(t, json.Unmarshal([]byte(tokenDoc), &original))
	data, err := afero.ReadFile(fs, "/token.json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &saved))

	assert.Equal(t, float64(1800000000), saved["expires_at"])
	delete(original, "expires_at")
	delete(saved, "expires_at")
	assert.Equal(t, original, saved)
}

func TestTokenMergeOverlaysProviderFields(t *testing.T) {
	tok := &Token{
		AccessToken:  "old",
		RefreshToken: "old-refresh",
		ExpiresAt:    10,
		Raw:          map[string]any{"access_token": "old", "refresh_token": "old-refresh", "expires_at": 10, "custom": "keep"},
	}

	tok.Merge(map[string]any{"access_token": "new", "refresh_token": "new-refresh", "expires_in": json.Number("86400")}, 86500)

	assert.Equal(t, "new", tok.AccessToken)
	assert.Equal(t, "new-refresh", tok.RefreshToken)
	assert.Equal(t, int64(86500), tok.ExpiresAt)
	assert.Equal(t, "keep", tok.Raw["custom"])
	assert.Equal(t, json.Number("86400"), tok.Raw["expires_in"])
}

func TestInt64Field(t *testing.T) {
	doc := map[string]any{
		"number": json.Number("42"),
		"float":  float64(7),
		"string": "12",
		"frac":   json.Number("3.0"),
		"bool":   true,
	}
	for key, want := range map[string]int64{"number": 42, "float": 7, "string": 12, "frac": 3} {
		got, err := Int64Field(doc, key)
		require.NoError(t, err, key)
		assert.Equal(t, want, got, key)
	}
	_, err := Int64Field(doc, "bool")
	assert.Error(t, err)
	_, err = Int64Field(doc, "missing")
	assert.Error(t, err)
}
