package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/countersim/counter"
	"github.com/sarchlab/countersim/sim"
)

// NamedHookable represent something both have a name and can be hooked
type NamedHookable interface {
	sim.Named
	sim.Hookable
	Hooks() []sim.Hook
}

// CollectTrace let the tracer to collect trace from a domain
func CollectTrace(domain NamedHookable, tracer Tracer) {
	for _, hook := range domain.Hooks() {
		hook, ok := hook.(*traceHook)
		if ok && hook.t == tracer {
			panic(fmt.Sprintf(
				"domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(tracer)))
		}
	}

	domain.AcceptHook(&traceHook{t: tracer})
}

// A traceHook forwards the counter hooks to a tracer.
type traceHook struct {
	t Tracer
}

// Func calls the tracer interfaces when the hook is triggered
func (h *traceHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case counter.HookPosClockChanged:
		h.t.ClockChanged(ctx.Now,
			ctx.Item.(counter.Level), ctx.Detail.(counter.EdgeKind))
	case counter.HookPosCounterChanged:
		h.t.CounterChanged(ctx.Item.(counter.Transition))
	}
}
