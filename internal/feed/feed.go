package feed

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"hn_reader/internal/domain"
)

// Source fetches the list and item resources. Each call is one request.
type Source interface {
	StoryIDs(ctx context.Context, category domain.Category) ([]domain.StoryID, error)
	Story(ctx context.Context, id domain.StoryID) (*domain.Story, error)
}

// Observer receives pipeline events, e.g. for metrics.
type Observer interface {
	RequestIssued(kind string)
	RequestFailed(kind string, err error)
	Retried()
	Abandoned()
	StaleDiscarded(kind string)
}

const (
	KindList = "list"
	KindItem = "item"
)

type Config struct {
	PageSize      int // 0 keeps the whole list
	MaxConcurrent int // 0 means unbounded
	Retry         RetryPolicy
}

type Option func(*Feed)

// WithClock replaces time.Now for retry scheduling.
func WithClock(now func() time.Time) Option {
	return func(f *Feed) { f.now = now }
}

// WithUpdateFunc registers a callback run after every completed request,
// typically a redraw request. It must not block.
func WithUpdateFunc(fn func()) Option {
	return func(f *Feed) { f.onUpdate = fn }
}

func WithObserver(o Observer) Option {
	return func(f *Feed) { f.observer = o }
}

// Feed owns the story list and its cards. Requests run on their own
// goroutines; the render loop only calls Refresh, Poll and Snapshot, none
// of which block on I/O.
//
// Every refresh starts a new generation. Results carry the generation they
// were issued under and are dropped when it is no longer current.
type Feed struct {
	source   Source
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
	onUpdate func()
	observer Observer
	sem      chan struct{}

	mu         sync.Mutex
	generation uint64
	ctx        context.Context
	cancel     context.CancelFunc
	category   domain.Category
	offset     int
	state      ListState
	err        error
	listed     int
	cards      []*card
	retries    int
	stale      int
	closed     bool
}

func New(source Source, cfg Config, logger *slog.Logger, opts ...Option) *Feed {
	f := &Feed{
		source:   source,
		cfg:      cfg,
		logger:   logger.With("component", "feed"),
		now:      time.Now,
		onUpdate: func() {},
		observer: nopObserver{},
	}
	if cfg.MaxConcurrent > 0 {
		f.sem = make(chan struct{}, cfg.MaxConcurrent)
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Refresh replaces the list with a fresh fetch of category, windowed at
// offset. The previous generation is canceled.
func (f *Feed) Refresh(category domain.Category, offset int) uint64 {
	f.mu.Lock()
	if f.closed {
		gen := f.generation
		f.mu.Unlock()
		return gen
	}
	if f.cancel != nil {
		f.cancel()
	}
	f.generation++
	gen := f.generation
	ctx, cancel := context.WithCancel(context.Background())
	f.ctx, f.cancel = ctx, cancel
	offset = max(offset, 0)
	f.category = category
	f.offset = offset
	f.state = ListLoading
	f.err = nil
	f.listed = 0
	f.cards = nil
	f.retries = 0
	f.stale = 0
	f.mu.Unlock()

	f.logger.Debug("refresh requested", "category", category, "offset", offset, "generation", gen)

	go f.fetchList(ctx, gen, category, offset)
	return gen
}

// Poll re-issues the request of every failed card whose backoff has
// elapsed. It returns the number of requests issued.
func (f *Feed) Poll() int {
	f.mu.Lock()
	if f.closed || f.state != ListReady {
		f.mu.Unlock()
		return 0
	}

	now := f.now()
	ctx, gen := f.ctx, f.generation
	var due []domain.StoryID
	for _, c := range f.cards {
		if c.state != CardFailed || now.Before(c.retryAt) {
			continue
		}
		c.state = CardLoading
		f.retries++
		due = append(due, c.id)
	}
	f.mu.Unlock()

	for _, id := range due {
		f.observer.Retried()
		go f.fetchItem(ctx, gen, id)
	}
	return len(due)
}

// Snapshot copies the current render state.
func (f *Feed) Snapshot() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := View{
		Generation: f.generation,
		Category:   f.category,
		Offset:     f.offset,
		State:      f.state,
		Listed:     f.listed,
		Cards:      make([]CardView, 0, len(f.cards)),
		Retries:    f.retries,
		Stale:      f.stale,
	}
	if f.err != nil {
		v.Error = f.err.Error()
	}
	for _, c := range f.cards {
		v.Cards = append(v.Cards, c.view())
	}
	return v
}

// Generation returns the current generation; 0 before the first refresh.
func (f *Feed) Generation() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generation
}

// Selection returns the category and offset of the current list. ok is
// false until the first refresh.
func (f *Feed) Selection() (category domain.Category, offset int, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.category, f.offset, f.state != ListIdle
}

// Close cancels everything in flight; later results are discarded.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
	}
	f.generation++
	f.closed = true
}

func (f *Feed) fetchList(ctx context.Context, gen uint64, category domain.Category, offset int) {
	defer f.onUpdate()

	var ids []domain.StoryID
	err := f.withSlot(ctx, func() error {
		f.observer.RequestIssued(KindList)
		var err error
		ids, err = f.source.StoryIDs(ctx, category)
		return err
	})

	f.mu.Lock()
	if gen != f.generation {
		f.stale++
		f.mu.Unlock()
		f.observer.StaleDiscarded(KindList)
		f.logger.Debug("discarded stale list", "generation", gen)
		return
	}

	if err != nil {
		f.state = ListFailed
		f.err = err
		f.mu.Unlock()
		f.observer.RequestFailed(KindList, err)
		f.logger.Warn("story list fetch failed", "category", category, "error", err)
		return
	}

	f.listed = len(ids)
	window := page(ids, offset, f.cfg.PageSize)
	f.cards = make([]*card, 0, len(window))
	for _, id := range window {
		f.cards = append(f.cards, newCard(id, gen))
	}
	f.state = ListReady
	f.mu.Unlock()

	f.logger.Info("story list ready",
		"category", category,
		"listed", len(ids),
		"cards", len(window),
		"generation", gen,
	)

	for _, id := range window {
		go f.fetchItem(ctx, gen, id)
	}
}

func (f *Feed) fetchItem(ctx context.Context, gen uint64, id domain.StoryID) {
	defer f.onUpdate()

	var story *domain.Story
	err := f.withSlot(ctx, func() error {
		f.observer.RequestIssued(KindItem)
		var err error
		story, err = f.source.Story(ctx, id)
		return err
	})

	f.mu.Lock()
	if gen != f.generation {
		f.stale++
		f.mu.Unlock()
		f.observer.StaleDiscarded(KindItem)
		return
	}

	c := f.findCard(id)
	if c == nil || c.state != CardLoading {
		f.mu.Unlock()
		return
	}

	if err == nil {
		c.state = CardReady
		c.story = story
		c.err = nil
		f.mu.Unlock()
		return
	}

	c.attempts++
	c.err = err
	abandoned := f.cfg.Retry.Exhausted(c.attempts)
	if abandoned {
		c.state = CardAbandoned
	} else {
		c.state = CardFailed
		c.retryAt = f.now().Add(f.cfg.Retry.Backoff(c.attempts))
	}
	attempts := c.attempts
	f.mu.Unlock()

	f.observer.RequestFailed(KindItem, err)
	if abandoned {
		f.observer.Abandoned()
		f.logger.Warn("story abandoned", "story_id", id, "attempts", attempts, "error", err)
		return
	}
	f.logger.Debug("story fetch failed, retry scheduled", "story_id", id, "attempt", attempts, "error", err)
}

// findCard must be called with f.mu held. IDs within one list are unique in
// practice; the first pending match wins otherwise.
func (f *Feed) findCard(id domain.StoryID) *card {
	var fallback *card
	for _, c := range f.cards {
		if c.id != id {
			continue
		}
		if c.state == CardLoading {
			return c
		}
		if fallback == nil {
			fallback = c
		}
	}
	return fallback
}

// withSlot runs fn while holding a concurrency slot.
func (f *Feed) withSlot(ctx context.Context, fn func() error) error {
	if f.sem == nil {
		return fn()
	}
	select {
	case f.sem <- struct{}{}:
		defer func() { <-f.sem }()
	case <-ctx.Done():
		return ctx.Err()
	}
	return fn()
}

// page returns ids[offset:offset+size], clamped. size <= 0 keeps the tail.
func page(ids []domain.StoryID, offset, size int) []domain.StoryID {
	if offset >= len(ids) {
		return nil
	}
	end := len(ids)
	if size > 0 && offset+size < end {
		end = offset + size
	}
	return ids[offset:end]
}

type nopObserver struct{}

func (nopObserver) RequestIssued(string) {}
func (nopObserver) RequestFailed(string, error) {}
func (nopObserver) Retried() {}
func (nopObserver) Abandoned() {}
func (nopObserver) StaleDiscarded(string) {}
