package plugins

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingEditor struct {
	mu       sync.Mutex
	messages []string
}

func (e *recordingEditor) ActiveDocument() (Document, bool) { return nil, false }

func (e *recordingEditor) Notify(msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.messages = append(e.messages, msg)
}

func TestNotifyRecordsOnCollector(t *testing.T) {
	editor := &recordingEditor{}

	ctx, collected := CollectNotices(context.Background())
	Notify(ctx, editor, "first")
	Notify(ctx, editor, "second")

	assert.Equal(t, []string{"first", "second"}, collected())
	assert.Equal(t, []string{"first", "second"}, editor.messages)
}

func TestNotifyWithoutCollector(t *testing.T) {
	editor := &recordingEditor{}

	Notify(context.Background(), editor, "shown")

	assert.Equal(t, []string{"shown"}, editor.messages)
}

func TestCollectorsAreIndependent(t *testing.T) {
	editor := &recordingEditor{}

	ctxA, collectedA := CollectNotices(context.Background())
	ctxB, collectedB := CollectNotices(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); Notify(ctxA, editor, "a") }()
		go func() { defer wg.Done(); Notify(ctxB, editor, "b") }()
	}
	wg.Wait()

	for _, m := range collectedA() {
		assert.Equal(t, "a", m)
	}
	for _, m := range collectedB() {
		assert.Equal(t, "b", m)
	}
	assert.Len(t, collectedA(), 20)
	assert.Len(t, collectedB(), 20)
	assert.Len(t, editor.messages, 40)
}
