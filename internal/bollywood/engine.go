package bollywood

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Engine owns every running actor's process and routes messages to them by
// PID.
type Engine struct {
	pidCounter uint64
	actors     map[string]*process
	mu         sync.RWMutex
	stopping   atomic.Bool
}

// NewEngine returns an empty, running Engine.
func NewEngine() *Engine {
	return &Engine{actors: make(map[string]*process)}
}

func (e *Engine) nextPID() *PID {
	id := atomic.AddUint64(&e.pidCounter, 1)
	return &PID{ID: fmt.Sprintf("actor-%d", id)}
}

// Spawn starts a new actor from props and returns its PID, or nil if the
// engine is already shutting down.
func (e *Engine) Spawn(props *Props) *PID {
	if e.stopping.Load() {
		log.Printf("bollywood: engine shutting down, refusing to spawn")
		return nil
	}

	pid := e.nextPID()
	proc := newProcess(e, pid, props)

	e.mu.Lock()
	e.actors[pid.ID] = proc
	e.mu.Unlock()

	go proc.run()
	return pid
}

// Send delivers message to pid's mailbox. sender may be nil for messages
// originating outside the actor system.
func (e *Engine) Send(pid *PID, message interface{}, sender *PID) {
	if pid == nil {
		return
	}
	if e.stopping.Load() {
		return
	}

	e.mu.RLock()
	proc, ok := e.actors[pid.ID]
	e.mu.RUnlock()

	if !ok {
		log.Printf("bollywood: actor %s not found, dropping %T", pid.ID, message)
		return
	}
	proc.sendMessage(message, sender)
}

// Stop asks the actor at pid to wind down: it receives Stopping, then
// Stopped, then its goroutine exits.
func (e *Engine) Stop(pid *PID) {
	e.mu.RLock()
	proc, ok := e.actors[pid.ID]
	e.mu.RUnlock()
	if ok {
		proc.sendMessage(Stopping{}, nil)
	}
}

func (e *Engine) remove(pid *PID) {
	e.mu.Lock()
	delete(e.actors, pid.ID)
	e.mu.Unlock()
}

// Shutdown stops every actor and blocks until they've all exited or
// timeout elapses, forcibly clearing the registry either way.
func (e *Engine) Shutdown(timeout time.Duration) {
	if !e.stopping.CompareAndSwap(false, true) {
		return
	}

	e.mu.RLock()
	pids := make([]*PID, 0, len(e.actors))
	for _, proc := range e.actors {
		pids = append(pids, proc.pid)
	}
	e.mu.RUnlock()

	for _, pid := range pids {
		e.Stop(pid)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		e.mu.RLock()
		remaining := len(e.actors)
		e.mu.RUnlock()
		if remaining == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	e.mu.RLock()
	remaining := len(e.actors)
	e.mu.RUnlock()
	if remaining > 0 {
		log.Printf("bollywood: shutdown timeout with %d actors still running", remaining)
		e.mu.Lock()
		e.actors = make(map[string]*process)
		e.mu.Unlock()
	}
}

// Running reports the number of currently registered actors, used by
// callers that want to wait for drain without a fixed sleep.
func (e *Engine) Running() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.actors)
}
