package storage

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	for in, want := range map[string]string{
		"/manifest.json":          "manifest.json",
		"icons/icon-72x72.png":    "icons/icon-72x72.png",
		"/static/./app.js":        "static/app.js",
		"/icons/../manifest.json": "manifest.json",
	} {
		got, err := normalizeName(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, bad := range []string{"", "/", "..", "../go.mod", "/icons/../../secret"} {
		_, err := normalizeName(bad)
		assert.ErrorIs(t, err, ErrInvalidName, bad)
	}
}

func TestLocalStorageOpen(t *testing.T) {
	fsys := fstest.MapFS{
		"manifest.json":       {Data: []byte(`{"name":"x"}`)},
		"icons/icon.png":      {Data: []byte{0x89, 'P', 'N', 'G'}},
		"static/app.js":       {Data: []byte("console.log(1)")},
		"static/nested/x.css": {Data: []byte("a{}")},
	}
	ls := NewEmbeddedStorage(fsys)
	ctx := context.Background()

	asset, err := ls.Open(ctx, "/manifest.json")
	require.NoError(t, err)
	defer asset.Body.Close()
	assert.Equal(t, "application/manifest+json", asset.ContentType)
	assert.EqualValues(t, 12, asset.Size)

	raw, err := ReadAll(ctx, ls, "icons/icon.png")
	require.NoError(t, err)
	assert.Len(t, raw, 4)

	_, err = ls.Open(ctx, "missing.json")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ls.Open(ctx, "static/nested")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ls.Open(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestGetContentType(t *testing.T) {
	assert.Equal(t, "application/json", getContentType("data/prayers.json"))
	assert.Equal(t, "text/css; charset=utf-8", getContentType("static/style.css"))
	assert.Equal(t, "application/javascript", getContentType("static/app.js"))
	assert.Equal(t, "image/png", getContentType("icons/icon-512x512.PNG"))
	assert.Equal(t, "application/octet-stream", getContentType("blob.bin"))
}

func TestNewSpacesStorage(t *testing.T) {
	ss, err := NewSpacesStorage("https://sgp1.digitaloceanspaces.com", "sgp1", "bucket", "/shalat/", "key", "secret")
	require.NoError(t, err)
	assert.Equal(t, "shalat", ss.prefix)
	assert.Equal(t, "bucket", ss.bucket)
}
