// Package vault implements the editor host over a directory of markdown notes.
package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/blakestevenson/moviedetails/internal/plugins"
	"go.uber.org/zap"
)

const maxNotices = 50

var (
	// ErrOutsideVault is returned for paths that escape the vault root
	ErrOutsideVault = errors.New("path is outside the vault")

	// ErrNotMarkdown is returned when opening a non-markdown file
	ErrNotMarkdown = errors.New("not a markdown note")
)

// Notice is a user-facing message shown by the host
type Notice struct {
	Seq     uint64    `json:"seq"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Vault is a directory of notes with at most one active document
type Vault struct {
	root   string
	logger *zap.Logger

	mu        sync.Mutex
	active    *Document
	notices   []Notice
	noticeSeq uint64
}

// Open validates root and returns a vault over it
func Open(root string, logger *zap.Logger) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vault path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault path %s is not a directory", abs)
	}

	return &Vault{
		root:   abs,
		logger: logger.With(zap.String("component", "vault")),
	}, nil
}

// OpenDocument makes the note at relPath the active document
func (v *Vault) OpenDocument(relPath string) (*Document, error) {
	path, err := v.resolve(relPath)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(filepath.Ext(path), ".md") {
		return nil, fmt.Errorf("%w: %s", ErrNotMarkdown, relPath)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotMarkdown, relPath)
	}

	rel, _ := filepath.Rel(v.root, path)
	doc := &Document{path: path, rel: filepath.ToSlash(rel), vault: v}

	v.mu.Lock()
	v.active = doc
	v.mu.Unlock()

	v.logger.Info("Opened document", zap.String("path", doc.rel))
	return doc, nil
}

// CloseDocument clears the active document
func (v *Vault) CloseDocument() {
	v.mu.Lock()
	v.active = nil
	v.mu.Unlock()
}

// Active returns the active document, if any
func (v *Vault) Active() (*Document, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.active, v.active != nil
}

// ActiveDocument implements plugins.Editor
func (v *Vault) ActiveDocument() (plugins.Document, bool) {
	doc, ok := v.Active()
	if !ok {
		return nil, false
	}
	return doc, true
}

// Notify implements plugins.Editor
func (v *Vault) Notify(msg string) {
	v.logger.Info("Notice", zap.String("message", msg))

	v.mu.Lock()
	defer v.mu.Unlock()

	v.noticeSeq++
	v.notices = append(v.notices, Notice{Seq: v.noticeSeq, Message: msg, Time: time.Now()})
	if len(v.notices) > maxNotices {
		v.notices = v.notices[len(v.notices)-maxNotices:]
	}
}

// Notices returns recent notices, oldest first
func (v *Vault) Notices() []Notice {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]Notice, len(v.notices))
	copy(out, v.notices)
	return out
}

// List returns the vault-relative paths of all markdown notes
func (v *Vault) List() ([]string, error) {
	var notes []string

	err := filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != v.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			rel, _ := filepath.Rel(v.root, path)
			notes = append(notes, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	sort.Strings(notes)
	return notes, nil
}

func (v *Vault) resolve(relPath string) (string, error) {
	if relPath == "" || filepath.IsAbs(relPath) {
		return "", fmt.Errorf("%w: %q", ErrOutsideVault, relPath)
	}

	path := filepath.Join(v.root, filepath.FromSlash(relPath))
	rel, err := filepath.Rel(v.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideVault, relPath)
	}

	return path, nil
}
