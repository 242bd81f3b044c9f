package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blakestevenson/moviedetails/internal/fsutil"
	"github.com/blakestevenson/moviedetails/internal/plugins"
	"go.uber.org/zap"
)

// Document is a markdown note backed by a file in the vault
type Document struct {
	path  string
	rel   string
	vault *Vault

	cursor plugins.Position
}

// Path returns the vault-relative path
func (d *Document) Path() string {
	return d.rel
}

// BaseName returns the file name without extension
func (d *Document) BaseName() string {
	name := filepath.Base(d.path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Cursor returns the current cursor position
func (d *Document) Cursor() plugins.Position {
	d.vault.mu.Lock()
	defer d.vault.mu.Unlock()
	return d.cursor
}

// SetCursor moves the cursor
func (d *Document) SetCursor(pos plugins.Position) {
	d.vault.mu.Lock()
	defer d.vault.mu.Unlock()
	d.cursor = pos
}

// Content reads the note from disk
func (d *Document) Content() (string, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return string(data), nil
}

// InsertAt splices text into the note at pos and saves it. Positions past
// the end of a line or of the note are clamped.
func (d *Document) InsertAt(text string, pos plugins.Position) error {
	d.vault.mu.Lock()
	defer d.vault.mu.Unlock()

	data, err := os.ReadFile(d.path)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	content := string(data)
	offset := offsetOf(content, pos)
	updated := content[:offset] + text + content[offset:]

	if err := fsutil.WriteFileAtomic(d.path, []byte(updated)); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	d.vault.logger.Debug("Inserted text",
		zap.String("path", d.rel),
		zap.Int("line", pos.Line),
		zap.Int("ch", pos.Ch),
		zap.Int("bytes", len(text)))

	return nil
}

// offsetOf converts a line/column position into a byte offset. Columns
// past the end of the line clamp to it.
func offsetOf(content string, pos plugins.Position) int {
	if pos.Line < 0 {
		return 0
	}

	offset := 0
	for line := 0; line < pos.Line; line++ {
		nl := strings.IndexByte(content[offset:], '\n')
		if nl < 0 {
			return len(content)
		}
		offset += nl + 1
	}

	lineEnd := strings.IndexByte(content[offset:], '\n')
	if lineEnd < 0 {
		lineEnd = len(content) - offset
	}

	// Ch counts characters, so walk runes to avoid splitting one
	col := 0
	for i := range content[offset : offset+lineEnd] {
		if col >= pos.Ch {
			return offset + i
		}
		col++
	}

	return offset + lineEnd
}
