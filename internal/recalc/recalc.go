// Package recalc implements the background recalculator that debounces
// rapid input changes and publishes only the newest plan.
package recalc

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/stockpile/internal/domain"
	"github.com/hammamikhairi/stockpile/internal/logger"
)

// Planner produces a plan for a household and category selection.
// *engine.Engine satisfies it.
type Planner interface {
	Plan(ctx context.Context, h domain.Household, categories []string) (*domain.Plan, error)
}

// Request is one set of inputs to calculate.
type Request struct {
	Household  domain.Household
	Categories []string
}

// Update is a published calculation. Seq is the sequence number the
// request was given by Submit.
type Update struct {
	Seq  uint64
	Plan *domain.Plan
	Err  error
}

// Option configures the recalculator.
type Option func(*Recalculator)

// WithDebounce sets how long input must stay quiet before a calculation runs.
func WithDebounce(d time.Duration) Option {
	return func(r *Recalculator) {
		r.debounce = d
	}
}

type job struct {
	seq uint64
	req Request
}

// Recalculator runs in the background and turns submitted requests into
// plans. Calculations may overlap; a result is published only if its
// sequence number is newer than the last one published.
type Recalculator struct {
	planner  Planner
	log      *logger.Logger
	debounce time.Duration

	mu        sync.Mutex
	running   bool
	cancel    context.CancelFunc
	kick      chan struct{}
	seq       uint64
	pending   *job
	published uint64
	latest    Update
	subs      map[int]chan Update
	nextSub   int
	wg        sync.WaitGroup
}

// New creates a recalculator with the given planner and options.
func New(planner Planner, log *logger.Logger, opts ...Option) *Recalculator {
	r := &Recalculator{
		planner:  planner,
		log:      log,
		debounce: 300 * time.Millisecond,
		subs:     make(map[int]chan Update),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins the background loop. Non-blocking.
func (r *Recalculator) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		r.log.Warn("recalculator already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true
	r.kick = make(chan struct{}, 1)

	r.wg.Add(1)
	go r.loop(childCtx, r.kick)

	r.log.Info("recalculator started (debounce=%s)", r.debounce)
}

// Stop shuts down the loop and waits for in-flight calculations.
// Pending submissions that have not fired yet are discarded.
func (r *Recalculator) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.cancel()
	r.running = false
	r.pending = nil
	r.mu.Unlock()

	r.wg.Wait()
	r.log.Info("recalculator stopped")
}

// Submit queues a request and returns its sequence number. Requests
// submitted within the debounce window replace each other.
func (r *Recalculator) Submit(req Request) (uint64, error) {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return 0, domain.ErrRecalcNotRunning
	}
	r.seq++
	seq := r.seq
	r.pending = &job{seq: seq, req: Request{
		Household:  req.Household,
		Categories: append([]string(nil), req.Categories...),
	}}
	kick := r.kick
	r.mu.Unlock()

	select {
	case kick <- struct{}{}:
	default:
	}
	r.log.Debug("recalc: queued #%d", seq)
	return seq, nil
}

// Latest returns the most recently published update.
func (r *Recalculator) Latest() (Update, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest, r.published > 0
}

// Subscribe returns a channel that receives published updates and a
// function that unsubscribes and closes it. A slow subscriber only
// sees the newest update.
func (r *Recalculator) Subscribe() (<-chan Update, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSub
	r.nextSub++
	ch := make(chan Update, 1)
	r.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.subs, id)
			close(ch)
		})
	}
}

// loop waits for submissions and fires a calculation once the input has
// been quiet for the debounce interval.
func (r *Recalculator) loop(ctx context.Context, kick <-chan struct{}) {
	defer r.wg.Done()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-kick:
			if timer == nil {
				timer = time.NewTimer(r.debounce)
			} else {
				timer.Reset(r.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			r.mu.Lock()
			j := r.pending
			r.pending = nil
			r.mu.Unlock()
			if j == nil {
				continue
			}
			r.wg.Add(1)
			go r.run(ctx, j)
		}
	}
}

func (r *Recalculator) run(ctx context.Context, j *job) {
	defer r.wg.Done()

	start := time.Now()
	plan, err := r.planner.Plan(ctx, j.req.Household, j.req.Categories)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		r.log.Error("recalc: #%d: %v", j.seq, err)
	} else {
		r.log.Debug("recalc: #%d done in %s (%d items)", j.seq, time.Since(start), len(plan.SupplyList))
	}
	r.publish(Update{Seq: j.seq, Plan: plan, Err: err})
}

func (r *Recalculator) publish(u Update) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.Seq <= r.published {
		r.log.Debug("recalc: dropping stale #%d (have #%d)", u.Seq, r.published)
		return
	}
	r.published = u.Seq
	r.latest = u

	for _, ch := range r.subs {
		select {
		case ch <- u:
		default:
			// Replace the unread update.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- u:
			default:
			}
		}
	}
}
