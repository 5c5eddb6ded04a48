package observability

import (
	"context"
	"testing"
	"time"
)

type countingPipelineHooks struct {
	NoopPipelineHooks
	loads, composes, renders int
}

func (h *countingPipelineHooks) OnLoadStart(context.Context, string) { h.loads++ }
func (h *countingPipelineHooks) OnComposeStart(context.Context, string, int) {
	h.composes++
}
func (h *countingPipelineHooks) OnRenderStart(context.Context, []string) { h.renders++ }

func TestHookRegistry(t *testing.T) {
	t.Cleanup(func() {
		SetPipelineHooks(NoopPipelineHooks{})
		SetCacheHooks(NoopCacheHooks{})
		SetServerHooks(NoopServerHooks{})
	})

	ctx := context.Background()

	// Defaults are no-ops and never panic.
	Pipeline().OnLoadStart(ctx, "rack.yaml")
	Pipeline().OnLoadComplete(ctx, "rack.yaml", 3, time.Millisecond, nil)
	Cache().OnCacheHit(ctx, "scene")
	Server().OnRequest(ctx, "GET", "/healthz", 200, time.Millisecond)

	h := &countingPipelineHooks{}
	SetPipelineHooks(h)
	Pipeline().OnLoadStart(ctx, "rack.yaml")
	Pipeline().OnComposeStart(ctx, "row-a-01", 3)
	Pipeline().OnRenderStart(ctx, []string{"svg"})

	if h.loads != 1 || h.composes != 1 || h.renders != 1 {
		t.Errorf("hook counts = %d/%d/%d", h.loads, h.composes, h.renders)
	}

	// Nil registration keeps the previous hooks.
	SetPipelineHooks(nil)
	Pipeline().OnLoadStart(ctx, "rack.yaml")
	if h.loads != 2 {
		t.Errorf("loads = %d after nil registration", h.loads)
	}
}
