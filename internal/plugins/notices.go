package plugins

import (
	"context"
	"sync"
)

type noticeCollectorKey struct{}

type noticeCollector struct {
	mu       sync.Mutex
	messages []string
}

// CollectNotices returns a context that records every notice sent through
// Notify with it, and a function returning those notices in order. Each
// command execution gets its own collector, so concurrent executions never
// see each other's notices.
func CollectNotices(ctx context.Context) (context.Context, func() []string) {
	c := &noticeCollector{}
	collected := func() []string {
		c.mu.Lock()
		defer c.mu.Unlock()
		out := make([]string, len(c.messages))
		copy(out, c.messages)
		return out
	}
	return context.WithValue(ctx, noticeCollectorKey{}, c), collected
}

// Notify shows msg through editor and records it on ctx's collector, if any
func Notify(ctx context.Context, editor Editor, msg string) {
	editor.Notify(msg)

	if c, ok := ctx.Value(noticeCollectorKey{}).(*noticeCollector); ok {
		c.mu.Lock()
		c.messages = append(c.messages, msg)
		c.mu.Unlock()
	}
}
