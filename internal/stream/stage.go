package stream

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/custodia-labs/drive-etl/internal/core/domain"
	"github.com/custodia-labs/drive-etl/internal/core/ports/driven"
)

// State is the lifecycle state of a Stage.
type State int

const (
	// Idle means no item is in flight.
	Idle State = iota
	// Converting means the transformer is running on the current item.
	Converting
	// Closed is terminal: every item was processed without error.
	Closed
	// Errored is terminal: a conversion, listener or producer error occurred.
	Errored
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Converting:
		return "converting"
	case Closed:
		return "closed"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further events can follow.
func (s State) Terminal() bool {
	return s == Closed || s == Errored
}

// Listener observes every emitted result on its own goroutine.
// A non-nil error is fatal to the stage.
type Listener func(ctx context.Context, rec domain.ResultRecord) error

// Stage is a single-slot, ordered object stream.
type Stage struct {
	transform driven.Transformer

	ctx    context.Context
	cancel context.CancelFunc
	// listenCtx is the caller's context. Termination of the stage does not
	// cancel it, so writes for emitted records still complete.
	listenCtx context.Context

	slot    chan domain.InputRecord
	ack     chan error
	results chan domain.ResultRecord
	ended   chan struct{}
	done    chan struct{}

	endOnce sync.Once
	pending sync.WaitGroup

	mu        sync.Mutex
	state     State
	err       error
	writing   bool
	emitted   int
	listeners []Listener
}

// New starts a stage around transform. A nil transform passes records through.
// Cancelling ctx fails the stage with the context error.
func New(ctx context.Context, transform driven.Transformer) *Stage {
	if transform == nil {
		transform = driven.PassthroughTransformer
	}
	listenCtx := ctx
	ctx, cancel := context.WithCancel(ctx)

	s := &Stage{
		transform: transform,
		ctx:       ctx,
		cancel:    cancel,
		listenCtx: listenCtx,
		slot:      make(chan domain.InputRecord, 1),
		ack:       make(chan error, 1),
		results:   make(chan domain.ResultRecord),
		ended:     make(chan struct{}),
		done:      make(chan struct{}),
		state:     Idle,
	}
	go s.run()
	return s
}

// OnData registers a listener for every result emitted after the call.
// Register listeners before the first Write. A listener is started once its
// record has been delivered on Results and runs with the context given to New,
// so it finishes even if a later record fails the stage.
func (s *Stage) OnData(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Write hands one record to the stage and blocks until it has been emitted
// or the stage has terminated. Only one Write may be in flight at a time.
func (s *Stage) Write(ctx context.Context, in domain.InputRecord) error {
	s.mu.Lock()
	switch {
	case s.state.Terminal():
		err := s.writeErrLocked()
		s.mu.Unlock()
		return err
	case s.writing:
		s.mu.Unlock()
		return domain.Wrap(domain.ErrInvalidInput, "stage write", nil, domain.F("reason", "another write is in flight"))
	}
	select {
	case <-s.ended:
		s.mu.Unlock()
		return domain.Wrap(domain.ErrStageClosed, "stage write", nil, domain.F("reason", "end already signalled"))
	default:
	}
	s.writing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.writing = false
		s.mu.Unlock()
	}()

	select {
	case s.slot <- in:
	case <-s.done:
		return s.writeErr()
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-s.ack:
		return err
	case <-s.done:
		return s.writeErr()
	}
}

// End signals that no more records will be written. The stage terminates
// with end once the in-flight item and all listeners have finished.
func (s *Stage) End() {
	s.endOnce.Do(func() { close(s.ended) })
}

// Fail terminates the stage with err unless it already terminated.
// Producers use it to report failures that happen outside the stage.
func (s *Stage) Fail(err error) {
	if err == nil {
		err = errors.New("stage failed without a cause")
	}
	s.terminate(Errored, err)
}

// Context returns a context that is cancelled once the stage terminates.
// Producers use it so in-flight work stops when the run has already failed.
func (s *Stage) Context() context.Context {
	return s.ctx
}

// Results delivers every emitted record in order. It is closed once the
// stage terminates and every listener has returned; check Err afterwards.
func (s *Stage) Results() <-chan domain.ResultRecord {
	return s.results
}

// Done is closed when the stage reaches a terminal state. After an error,
// listeners may still be running; Results closes once they return.
func (s *Stage) Done() <-chan struct{} {
	return s.done
}

// Err returns the terminal error, or nil while running and after a clean end.
func (s *Stage) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// State returns the current lifecycle state.
func (s *Stage) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Emitted returns the number of records emitted so far.
func (s *Stage) Emitted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emitted
}

// Collect drains the stage and returns every result in order together with
// the terminal error. Results emitted before an error are still returned.
func (s *Stage) Collect(ctx context.Context) ([]domain.ResultRecord, error) {
	var out []domain.ResultRecord
	for {
		select {
		case rec, ok := <-s.results:
			if !ok {
				return out, s.Err()
			}
			out = append(out, rec)
		case <-ctx.Done():
			return out, ctx.Err()
		}
	}
}

// Wait drains the stage, discarding results, and returns the terminal error.
// Use it when listeners are the only consumers.
func (s *Stage) Wait(ctx context.Context) error {
	for {
		select {
		case _, ok := <-s.results:
			if !ok {
				return s.Err()
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Stage) run() {
	defer func() {
		s.pending.Wait()
		close(s.results)
	}()
	for {
		select {
		case <-s.done:
			return
		case <-s.ctx.Done():
			s.terminate(Errored, s.ctx.Err())
			return
		case in := <-s.slot:
			s.ack <- s.process(in)
		case <-s.ended:
			// A record written just before End may still sit in the slot.
			select {
			case in := <-s.slot:
				s.ack <- s.process(in)
				continue
			default:
			}
			s.pending.Wait()
			s.terminate(Closed, nil)
			return
		}
	}
}

func (s *Stage) process(in domain.InputRecord) error {
	if !s.setState(Converting) {
		return s.writeErr()
	}

	res, err := s.transform(s.ctx, in)
	if err != nil {
		if ctxErr := s.ctx.Err(); ctxErr != nil {
			s.terminate(Errored, ctxErr)
			return s.writeErr()
		}
		err = annotate(in, err)
		s.terminate(Errored, err)
		return err
	}

	if err := s.emit(res); err != nil {
		return err
	}

	s.setState(Idle)
	return nil
}

func (s *Stage) emit(res domain.ResultRecord) error {
	select {
	case s.results <- res:
		s.mu.Lock()
		s.emitted++
		listeners := slices.Clone(s.listeners)
		s.mu.Unlock()

		for _, l := range listeners {
			s.pending.Add(1)
			go func(l Listener) {
				defer s.pending.Done()
				if err := l(s.listenCtx, res); err != nil {
					s.terminate(Errored, err)
				}
			}(l)
		}
		return nil
	case <-s.done:
		return s.writeErr()
	case <-s.ctx.Done():
		s.terminate(Errored, s.ctx.Err())
		return s.writeErr()
	}
}

// setState moves between non-terminal states. It reports false once terminal.
func (s *Stage) setState(st State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() {
		return false
	}
	s.state = st
	return true
}

func (s *Stage) terminate(st State, err error) {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return
	}
	s.state = st
	s.err = err
	close(s.done)
	s.mu.Unlock()
	s.cancel()
}

func (s *Stage) writeErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeErrLocked()
}

func (s *Stage) writeErrLocked() error {
	if s.err != nil {
		return s.err
	}
	return domain.Wrap(domain.ErrStageClosed, "stage write", nil, domain.F("state", s.state))
}

// annotate makes sure a transformer failure names the file and is a convert error.
func annotate(in domain.InputRecord, err error) error {
	if errors.Is(err, domain.ErrConvert) {
		return err
	}
	return domain.Wrap(domain.ErrConvert, "convert", err, domain.F("fileName", in.Name+in.Ext))
}
