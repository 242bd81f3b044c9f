package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/blakestevenson/moviedetails/internal/plugins"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sharedEditor struct {
	mu   sync.Mutex
	last string
}

func (e *sharedEditor) ActiveDocument() (plugins.Document, bool) { return nil, false }

func (e *sharedEditor) Notify(msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.last = msg
}

// interleavingRunner makes command "first" finish only after command
// "second" has sent its notice, so the editor's latest notice belongs to
// the other request when "first" responds.
type interleavingRunner struct {
	editor     *sharedEditor
	firstSent  chan struct{}
	secondSent chan struct{}
}

func (r *interleavingRunner) ListPlugins() []*plugins.LoadedPlugin { return nil }
func (r *interleavingRunner) Commands() []plugins.Command { return nil }

func (r *interleavingRunner) Execute(ctx context.Context, id string, _ map[string]string) error {
	switch id {
	case "first":
		plugins.Notify(ctx, r.editor, "first done")
		close(r.firstSent)
		<-r.secondSent
	case "second":
		<-r.firstSent
		plugins.Notify(ctx, r.editor, "second done")
		close(r.secondSent)
	}
	return nil
}

func TestExecuteCommandReturnsItsOwnNotice(t *testing.T) {
	runner := &interleavingRunner{
		editor:     &sharedEditor{},
		firstSent:  make(chan struct{}),
		secondSent: make(chan struct{}),
	}

	h := NewCommandHandler(runner, zap.NewNop())
	router := chi.NewRouter()
	router.Post("/commands/{id}", h.ExecuteCommand)

	notices := make(map[string]string)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, id := range []string{"first", "second"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()

			req := httptest.NewRequest(http.MethodPost, "/commands/"+id, strings.NewReader("{}"))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			var body map[string]interface{}
			if rec.Code == http.StatusOK && json.Unmarshal(rec.Body.Bytes(), &body) == nil {
				mu.Lock()
				notices[id], _ = body["notice"].(string)
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	require.Len(t, notices, 2)
	assert.Equal(t, "first done", notices["first"])
	assert.Equal(t, "second done", notices["second"])
	assert.Equal(t, "second done", runner.editor.last)
}
