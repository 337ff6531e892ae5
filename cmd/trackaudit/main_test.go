package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagePathFor(t *testing.T) {
	assert.Equal(t, "/jobs/", pagePathFor("site", filepath.Join("site", "jobs", "index.html")))
	assert.Equal(t, "/", pagePathFor("site", filepath.Join("site", "index.html")))
	assert.Equal(t, "/about.html", pagePathFor("site", filepath.Join("site", "about.html")))
	assert.Equal(t, "/other.html", pagePathFor("site", filepath.Join("elsewhere", "other.html")))
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte(`<a class="btn" href="/join">Join</a>`), 0o600))

	doc, err := parseFile(path)
	require.NoError(t, err)
	assert.NotNil(t, doc.FirstChild)

	_, err = parseFile(filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}
