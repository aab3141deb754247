package syncengine

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/five82/blockext/internal/extapi"
	"github.com/five82/blockext/internal/extension"
	"github.com/five82/blockext/internal/state"
)

// DefaultQuietPeriod is how long the engine waits after the last toggle
// before committing the batch.
const DefaultQuietPeriod = 300 * time.Millisecond

const saveFailedMessage = "Failed to save changes."

const (
	intentBuffer  = 256
	messageBuffer = 64
	eventBuffer   = 64
)

// Committer sends a batch of fixed-extension toggles to the server.
// *extapi.Client satisfies it.
type Committer interface {
	CommitBatch(ctx context.Context, batch extension.Batch) error
}

// Options configure an Engine.
type Options struct {
	QuietPeriod time.Duration // zero uses DefaultQuietPeriod
	DropNetZero bool
	Logger      *slog.Logger
}

type intent struct {
	name    string
	checked bool
	flush   bool
	settled chan struct{}
}

type commitResult struct {
	batch   extension.Batch
	err     error
	elapsed time.Duration
}

// Engine owns the synchronization state of one session: the pending
// accumulator, the quiet-period timer and the reconciler. All of them are
// touched only by the Run loop, which merges user intents, remote responses
// and push messages in arrival order.
type Engine struct {
	remote     Committer
	store      *state.Store
	reconciler *Reconciler
	pending    *Pending
	quiet      time.Duration
	logger     *slog.Logger

	intents  chan intent
	messages chan extension.Message
	results  chan commitResult
	events   chan Event
	outbox   []Event
	done     chan struct{}
	inflight int
	waiters  []chan struct{}
}

// New builds an engine committing through remote and rendering into store.
func New(remote Committer, store *state.Store, opts Options) *Engine {
	quiet := opts.QuietPeriod
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		remote:     remote,
		store:      store,
		reconciler: NewReconciler(store),
		pending:    NewPending(opts.DropNetZero),
		quiet:      quiet,
		logger:     logger.With("component", "syncengine"),
		intents:    make(chan intent, intentBuffer),
		messages:   make(chan extension.Message, messageBuffer),
		results:    make(chan commitResult),
		events:     make(chan Event, eventBuffer),
		done:       make(chan struct{}),
	}
}

// Add records the user's intent to set a fixed extension to checked. The
// change is rendered immediately and committed once no further toggles
// arrive for the quiet period.
func (e *Engine) Add(name string, checked bool) {
	e.sendIntent(intent{name: name, checked: checked})
}

// Flush commits whatever is pending right away instead of waiting for the
// quiet period to elapse.
func (e *Engine) Flush() {
	e.sendIntent(intent{flush: true})
}

// Settle flushes pending toggles and waits until no commit is in flight, or
// until ctx ends. Call it before cancelling Run so queued changes are not
// lost on exit.
func (e *Engine) Settle(ctx context.Context) error {
	settled := make(chan struct{})
	select {
	case e.intents <- intent{flush: true, settled: settled}:
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-settled:
		return nil
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Apply hands a push message to the engine. Messages are applied in the
// order Apply is called.
func (e *Engine) Apply(msg extension.Message) {
	select {
	case e.messages <- msg:
	case <-e.done:
	}
}

// Events returns the channel the engine publishes UI notifications on.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Done is closed once Run has returned.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

func (e *Engine) sendIntent(in intent) {
	select {
	case e.intents <- in:
	case <-e.done:
	}
}

// Run processes intents, remote responses and push messages until ctx is
// cancelled. It must be called exactly once.
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.done)

	var timer *time.Timer
	var timerC <-chan time.Time
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}
	defer stopTimer()

	for {
		var out chan<- Event
		var next Event
		if len(e.outbox) > 0 {
			out = e.events
			next = e.outbox[0]
		}

		select {
		case <-ctx.Done():
			if n := e.pending.Len(); n > 0 {
				e.logger.Warn("discarding pending changes", "count", n)
			}
			return nil

		case in := <-e.intents:
			if in.flush {
				stopTimer()
				e.flush(ctx)
				if in.settled != nil {
					e.waiters = append(e.waiters, in.settled)
					e.notifySettled()
				}
				continue
			}
			if !e.add(in) {
				continue
			}
			stopTimer()
			timer = time.NewTimer(e.quiet)
			timerC = timer.C

		case <-timerC:
			timer = nil
			timerC = nil
			e.flush(ctx)

		case res := <-e.results:
			e.handleResult(res)

		case msg := <-e.messages:
			e.apply(msg)

		case out <- next:
			e.outbox[0] = Event{}
			e.outbox = e.outbox[1:]
		}
	}
}

func (e *Engine) add(in intent) bool {
	if !e.store.Catalog().Contains(in.name) {
		e.logger.Warn("ignoring toggle for unknown fixed extension", "name", in.name)
		return false
	}
	prior := e.store.Checked(in.name)
	e.reconciler.Toggle(in.name, in.checked)
	e.pending.Add(in.name, in.checked, prior)
	e.emit(Event{Kind: EventStateChanged})
	return true
}

// flush drains the accumulator before the request is dispatched, so toggles
// made while the commit is in flight start a new, independent batch.
func (e *Engine) flush(ctx context.Context) {
	batch := e.pending.Drain()
	if batch.Empty() {
		e.logger.Debug("flush skipped, nothing pending")
		return
	}
	e.inflight++
	e.logger.Debug("committing batch",
		"checked", batch.Checked,
		"unchecked", batch.Unchecked,
		"inflight", e.inflight,
	)
	go func() {
		start := time.Now()
		err := e.remote.CommitBatch(ctx, batch)
		res := commitResult{batch: batch, err: err, elapsed: time.Since(start)}
		select {
		case e.results <- res:
		case <-e.done:
		}
	}()
}

func (e *Engine) handleResult(res commitResult) {
	e.inflight--
	defer e.notifySettled()
	if res.err == nil {
		e.logger.Info("batch committed",
			"changes", res.batch.Len(),
			"elapsed", res.elapsed,
		)
		e.emit(Event{Kind: EventCommitted, Batch: res.batch})
		return
	}
	e.logger.Warn("batch commit failed, rolling back",
		"error", res.err,
		"checked", res.batch.Checked,
		"unchecked", res.batch.Unchecked,
	)
	e.reconciler.Rollback(res.batch)
	e.emit(Event{
		Kind:    EventCommitFailed,
		Batch:   res.batch,
		Message: extapi.Message(res.err, saveFailedMessage),
		Err:     res.err,
	})
}

func (e *Engine) notifySettled() {
	if e.inflight > 0 || e.pending.Len() > 0 {
		return
	}
	for _, w := range e.waiters {
		close(w)
	}
	e.waiters = nil
}

func (e *Engine) apply(msg extension.Message) {
	if err := e.reconciler.Apply(msg); err != nil {
		e.logger.Warn("dropping push message", "error", err)
		return
	}
	e.logger.Debug("applied push message", "kind", msg.Kind.String())
	e.emit(Event{Kind: EventStateChanged})
}

// emit queues ev for the UI. Nothing is dropped; a state change directly
// behind another undelivered state change is merged into it.
func (e *Engine) emit(ev Event) {
	if n := len(e.outbox); ev.Kind == EventStateChanged && n > 0 && e.outbox[n-1].Kind == EventStateChanged {
		return
	}
	e.outbox = append(e.outbox, ev)
}
