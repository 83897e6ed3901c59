package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/corvid-labs/magpie/core"
	"github.com/corvid-labs/magpie/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func contextWithLogLevel(t *testing.T, level string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("log-level", level, "")
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestSetupLogger(t *testing.T) {
	t.Run("accepts known levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "INFO"} {
			assert.NoError(t, setupLogger(contextWithLogLevel(t, level)), level)
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		err := setupLogger(contextWithLogLevel(t, "verbose"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestFileConnector_ItemsFromJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	payload := `[
		{"title": "Readme", "source": "github://x/y", "type": "document", "content": "Some text."},
		{"title": "Snippet", "source": "github://x/y/main.go", "type": "code", "content": "package main"},
		{"title": "Untyped", "source": "local", "content": "Defaults to document."}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

	conn := &fileConnector{name: "github", itemsPath: path}
	items, err := conn.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "Readme", items[0].Title)
	assert.Equal(t, core.SourceTypeCode, items[1].Type)
	assert.Equal(t, core.SourceTypeDocument, items[2].Type, "missing type falls back to document")
}

func TestFileConnector_ItemsFromJSONInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	conn := &fileConnector{itemsPath: path}
	_, err := conn.Fetch(context.Background())
	assert.Error(t, err)
}

func TestFileConnector_ItemsFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# Notes"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "todo.txt"), []byte("todo"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "binary.bin"), []byte{0x0}, 0644))

	conn := &fileConnector{dir: dir}
	items, err := conn.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2, "only .md and .txt files are ingested")

	for _, item := range items {
		assert.Equal(t, core.SourceTypeDocument, item.Type)
		assert.Contains(t, item.Source, "file://")
	}
}

func TestFileConnector_Unconfigured(t *testing.T) {
	conn := &fileConnector{}
	_, err := conn.Fetch(context.Background())
	assert.ErrorIs(t, err, ingestion.ErrNotConfigured)
}

func TestFileConnector_DefaultName(t *testing.T) {
	assert.Equal(t, "file", (&fileConnector{}).Name())
	assert.Equal(t, "docs", (&fileConnector{name: "docs"}).Name())
}
