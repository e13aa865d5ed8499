package sim

// HookPos names a place where hooks are invoked, such as before an event is
// handled or after the counter changes.
type HookPos struct {
	Name string
}

// HookCtx tells a hook where and when it is invoked and what happened.
type HookCtx struct {
	Domain Hookable
	Now    VTimeInSec
	Pos    *HookPos

	// Item is the main subject, for example the event being handled.
	Item any

	// Detail carries extra information that depends on Pos.
	Detail any
}

// Hookable is anything that hooks can be attached to.
type Hookable interface {
	AcceptHook(hook Hook)
}

// The positions an engine invokes hooks at. Item is the event.
var (
	HookPosBeforeEvent = &HookPos{Name: "BeforeEvent"}
	HookPosAfterEvent  = &HookPos{Name: "AfterEvent"}
)

// A Hook observes a Hookable. It must not change what it observes.
type Hook interface {
	Func(ctx HookCtx)
}

// HookableBase keeps a list of hooks. Embed it to implement Hookable.
type HookableBase struct {
	hooks []Hook
}

// NewHookableBase creates a HookableBase without hooks.
func NewHookableBase() *HookableBase {
	return &HookableBase{}
}

// AcceptHook adds a hook. Hooks are invoked in the order they are added.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// Hooks returns the hooks added so far.
func (h *HookableBase) Hooks() []Hook {
	return h.hooks
}

// NumHooks returns how many hooks are added.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}

// InvokeHook calls every hook with ctx.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
