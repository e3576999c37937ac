package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/milk9111/tilefall/levels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckEmbeddedLevels(t *testing.T) {
	src := levels.NewSource(nil, 16)
	names, err := src.Names()
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, check(context.Background(), &out, src, names, options{}))
	assert.Contains(t, out.String(), "ok   meadow.json 16x10 start (8,1) keys 1")
	assert.NotContains(t, out.String(), "FAIL")
	assert.NotContains(t, out.String(), "warn")
}

func TestCheckReportsFailures(t *testing.T) {
	fsys := fstest.MapFS{
		"good.json":    {Data: []byte(`{"size":{"width":2,"height":1},"tiles":[0,5],"start_tile":{"row":0,"column":0}}`)},
		"short.json":   {Data: []byte(`{"size":{"width":2,"height":2},"tiles":[0,5],"start_tile":{"row":0,"column":0}}`)},
		"keyless.json": {Data: []byte(`{"size":{"width":2,"height":1},"tiles":[4,0],"start_tile":{"row":0,"column":0}}`)},
	}
	src := levels.NewSource(fsys, 16)

	var out bytes.Buffer
	err := check(context.Background(), &out, src, []string{"good", "short", "keyless", "missing"}, options{codes: true})
	require.ErrorIs(t, err, errCheckFailed)

	text := out.String()
	assert.Contains(t, text, "ok   good 2x1 start (0,0) keys 1")
	assert.Contains(t, text, "     0 5\n")
	assert.Contains(t, text, "FAIL short:")
	assert.Contains(t, text, "warn keyless: no key tile")
	assert.Contains(t, text, "warn keyless: start tile (0,0) is solid")
	assert.Contains(t, text, "FAIL missing:")
}

func TestCheckExportsJSON(t *testing.T) {
	dir := t.TempDir()
	src := levels.NewSource(nil, 16)

	var out bytes.Buffer
	require.NoError(t, check(context.Background(), &out, src, []string{"tower.tmx"}, options{export: dir}))

	data, err := os.ReadFile(filepath.Join(dir, "tower.json"))
	require.NoError(t, err)
	doc, err := levels.DecodeJSON(data)
	require.NoError(t, err)
	assert.NoError(t, doc.Validate())
	assert.Equal(t, 12, doc.Size.Width)
}
