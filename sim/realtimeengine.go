package sim

import (
	"sync"
	"time"
)

// A RealTimeEngine is an Engine that handles each event when the wall clock
// reaches the time of the event. Time zero is the moment the engine is
// created. Events are handled one after another on the goroutine that calls
// Run, while Schedule can be called from any goroutine.
//
// An event that is scheduled in the past, for example because its handler
// ran late, is handled as soon as possible rather than rejected.
type RealTimeEngine struct {
	HookableBase

	start time.Time

	queueLock      sync.Mutex
	queue          EventQueue
	secondaryQueue EventQueue

	wakeup        chan struct{}
	done          chan struct{}
	terminateOnce sync.Once

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex

	simulationEndHandlers []SimulationEndHandler
}

// NewRealTimeEngine creates a RealTimeEngine whose time starts now.
func NewRealTimeEngine() *RealTimeEngine {
	e := new(RealTimeEngine)

	e.start = time.Now()
	e.queue = NewEventQueue()
	e.secondaryQueue = NewEventQueue()
	e.wakeup = make(chan struct{}, 1)
	e.done = make(chan struct{})

	return e
}

// Schedule registers an event to be handled when its time comes.
func (e *RealTimeEngine) Schedule(evt Event) {
	e.queueLock.Lock()
	if evt.IsSecondary() {
		e.secondaryQueue.Push(evt)
	} else {
		e.queue.Push(evt)
	}
	e.queueLock.Unlock()

	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

// CurrentTime returns the wall-clock time elapsed since the engine was
// created.
func (e *RealTimeEngine) CurrentTime() VTimeInSec {
	return VTimeInSec(time.Since(e.start).Seconds())
}

// Run handles events as their time comes until Terminate is called.
func (e *RealTimeEngine) Run() error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for {
		evt := e.peek()
		if evt == nil {
			select {
			case <-e.wakeup:
				continue
			case <-e.done:
				return nil
			}
		}

		wait := e.durationUntil(evt.Time())
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-e.wakeup:
				timer.Stop()
				continue
			case <-e.done:
				timer.Stop()
				return nil
			}
		}

		e.pauseLock.Lock()
		if e.terminated() {
			e.pauseLock.Unlock()
			return nil
		}
		e.runEvent(e.pop())
		e.pauseLock.Unlock()
	}
}

func (e *RealTimeEngine) runEvent(evt Event) {
	hookCtx := HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	e.InvokeHook(hookCtx)

	_ = evt.Handler().Handle(evt)

	hookCtx.Pos = HookPosAfterEvent
	e.InvokeHook(hookCtx)
}

func (e *RealTimeEngine) durationUntil(t VTimeInSec) time.Duration {
	target := e.start.Add(time.Duration(float64(t) * float64(time.Second)))
	return time.Until(target)
}

func (e *RealTimeEngine) peek() Event {
	e.queueLock.Lock()
	defer e.queueLock.Unlock()

	return peekEarliest(e.queue, e.secondaryQueue)
}

func (e *RealTimeEngine) pop() Event {
	e.queueLock.Lock()
	defer e.queueLock.Unlock()

	return popEarliest(e.queue, e.secondaryQueue)
}

func (e *RealTimeEngine) terminated() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// Terminate makes Run return. Events still in the queue are dropped.
func (e *RealTimeEngine) Terminate() {
	e.terminateOnce.Do(func() {
		close(e.done)
	})

	e.Continue()
}

// Pause prevents the RealTimeEngine to trigger more events. Events that
// become due while paused are handled right after Continue.
func (e *RealTimeEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue allows the RealTimeEngine to trigger more events.
func (e *RealTimeEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// RegisterSimulationEndHandler registers a handler that is called by
// Finished.
func (e *RealTimeEngine) RegisterSimulationEndHandler(
	handler SimulationEndHandler,
) {
	e.simulationEndHandlers = append(e.simulationEndHandlers, handler)
}

// Finished calls all the registered SimulationEndHandler.
func (e *RealTimeEngine) Finished() {
	now := e.CurrentTime()
	for _, h := range e.simulationEndHandlers {
		h.Handle(now)
	}
}
