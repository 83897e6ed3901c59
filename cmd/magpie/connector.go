package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/corvid-labs/magpie/core"
	"github.com/corvid-labs/magpie/ingestion"
)

// fileConnector serves content items from the local filesystem, either a
// JSON items file or a directory of text and markdown files. It lets the
// full pipeline run without GitHub/Notion/Slack credentials.
type fileConnector struct {
	name      string
	itemsPath string
	dir       string
}

var _ ingestion.Connector = (*fileConnector)(nil)

func (c *fileConnector) Name() string {
	if c.name != "" {
		return c.name
	}
	return "file"
}

func (c *fileConnector) Priority() int {
	return ingestion.PriorityDefault
}

func (c *fileConnector) Fetch(ctx context.Context) ([]core.ContentItem, error) {
	switch {
	case c.itemsPath != "":
		return itemsFromJSON(c.itemsPath)
	case c.dir != "":
		return itemsFromDir(c.dir)
	default:
		return nil, ingestion.ErrNotConfigured
	}
}

// jsonItem mirrors core.ContentItem with lowercase JSON keys.
type jsonItem struct {
	Title   string `json:"title"`
	Source  string `json:"source"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

func itemsFromJSON(path string) ([]core.ContentItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading items file: %w", err)
	}

	var raw []jsonItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing items file %s: %w", path, err)
	}

	items := make([]core.ContentItem, 0, len(raw))
	for _, item := range raw {
		itemType := core.SourceType(item.Type)
		if item.Type == "" {
			itemType = core.SourceTypeDocument
		}
		items = append(items, core.ContentItem{
			Title:   item.Title,
			Source:  item.Source,
			Type:    itemType,
			Content: item.Content,
		})
	}
	return items, nil
}

func itemsFromDir(dir string) ([]core.ContentItem, error) {
	var items []core.ContentItem

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".md" && ext != ".txt" {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		items = append(items, core.ContentItem{
			Title:   d.Name(),
			Source:  "file://" + path,
			Type:    core.SourceTypeDocument,
			Content: string(content),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return items, nil
}
