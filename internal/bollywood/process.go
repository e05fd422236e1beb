package bollywood

import (
	"log"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/theoden8/mini-fifa-sub000/internal/metrics"
)

const defaultMailboxSize = 1024

// process is the running instance of one actor: its mailbox, its state,
// and the goroutine driving Receive calls.
type process struct {
	engine  *Engine
	pid     *PID
	actor   Actor
	mailbox chan *messageEnvelope
	props   *Props
	stopCh  chan struct{}
	stopped atomic.Bool
}

func newProcess(engine *Engine, pid *PID, props *Props) *process {
	return &process{
		engine:  engine,
		pid:     pid,
		props:   props,
		mailbox: make(chan *messageEnvelope, defaultMailboxSize),
		stopCh:  make(chan struct{}),
	}
}

// sendMessage enqueues message for delivery. Drops it silently once the
// process has stopped, except for the Stopping/Stopped system messages
// which must still reach a process winding down.
func (p *process) sendMessage(message interface{}, sender *PID) {
	_, isStopping := message.(Stopping)
	_, isStopped := message.(Stopped)
	if p.stopped.Load() && !isStopping && !isStopped {
		return
	}

	envelope := &messageEnvelope{Sender: sender, Message: message}

	select {
	case p.mailbox <- envelope:
	default:
		log.Printf("bollywood: actor %s mailbox full, dropping %T", p.pid.ID, message)
	}
}

// run is the actor goroutine: produce the actor, deliver Started, then
// loop on the mailbox until stopCh closes or the mailbox is told to stop.
func (p *process) run() {
	metrics.IncActorsRunning()
	var stoppingInvoked bool

	defer func() {
		p.stopped.Store(true)
		defer func() {
			if r := recover(); r != nil {
				log.Printf("bollywood: actor %s panicked during Stopped cleanup: %v", p.pid.ID, r)
			}
			p.engine.remove(p.pid)
			metrics.DecActorsRunning()
		}()
		if p.actor != nil {
			p.invokeReceive(Stopped{}, nil)
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("bollywood: actor %s panicked: %v\n%s", p.pid.ID, r, debug.Stack())
			if p.stopped.CompareAndSwap(false, true) {
				closeStopCh(p.stopCh)
				if p.actor != nil && !stoppingInvoked {
					p.invokeReceive(Stopping{}, nil)
					stoppingInvoked = true
				}
			}
		}
	}()

	p.actor = p.props.Produce()
	if p.actor == nil {
		panic("bollywood: producer returned nil actor for " + p.pid.ID)
	}
	p.invokeReceive(Started{}, nil)

	for {
		select {
		case <-p.stopCh:
			if p.stopped.CompareAndSwap(false, true) && !stoppingInvoked {
				p.invokeReceive(Stopping{}, nil)
				stoppingInvoked = true
			}
			return

		case envelope, ok := <-p.mailbox:
			if !ok {
				return
			}
			if _, isStopping := envelope.Message.(Stopping); p.stopped.Load() && !isStopping {
				continue
			}
			if _, isStopping := envelope.Message.(Stopping); isStopping {
				if p.stopped.CompareAndSwap(false, true) {
					if !stoppingInvoked {
						p.invokeReceive(envelope.Message, envelope.Sender)
						stoppingInvoked = true
					}
					closeStopCh(p.stopCh)
				}
				continue
			}
			p.invokeReceive(envelope.Message, envelope.Sender)
		}
	}
}

func closeStopCh(ch chan struct{}) {
	select {
	case <-ch:
	default:
		close(ch)
	}
}

// invokeReceive calls the actor's Receive, recovering a panic so one bad
// message never brings down the process goroutine's caller, and records
// how long the call took so a slow Receive -- which drains the mailbox
// slower than sendMessage fills it -- shows up in actor_message_duration
// before the mailbox starts dropping messages.
func (p *process) invokeReceive(msg interface{}, sender *PID) {
	ctx := &context{engine: p.engine, self: p.pid, sender: sender, message: msg}
	start := time.Now()
	defer func() {
		metrics.RecordActorMessage(time.Since(start))
		if r := recover(); r != nil {
			log.Printf("bollywood: actor %s panicked during Receive(%T): %v\n%s", p.pid.ID, msg, r, debug.Stack())
			p.stopped.Store(true)
			closeStopCh(p.stopCh)
		}
	}()
	p.actor.Receive(ctx)
}
