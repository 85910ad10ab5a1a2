// README: Price watch scheduler; one cancellable polling goroutine per conversation.
package watch

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"taxiwatch/internal/config"
	"taxiwatch/internal/modules/pricing"
	"taxiwatch/internal/types"
)

type Quoter interface {
	FetchQuote(ctx context.Context, origin, destination types.Point) (pricing.Quote, error)
	OrderLink(origin, destination types.Point, q pricing.Quote) string
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// QuoteRecorder receives every observed quote. Optional.
type QuoteRecorder interface {
	Append(ctx context.Context, r *pricing.QuoteRecord) error
}

type Service struct {
	quoter   Quoter
	notifier Notifier
	recorder QuoteRecorder
	cfg      config.WatchConfig
	now      func() time.Time

	mu      sync.Mutex
	watches map[types.ConversationID]*watch
	wg      sync.WaitGroup
}

// watch owns one session and the goroutine polling for it.
type watch struct {
	conv      types.ConversationID
	mu        sync.Mutex
	session   *Session
	route     Route
	cancel    context.CancelFunc
	cancelled bool
	done      chan struct{}
}

func NewService(quoter Quoter, notifier Notifier, recorder QuoteRecorder, cfg config.WatchConfig) *Service {
	return &Service{
		quoter:   quoter,
		notifier: notifier,
		recorder: recorder,
		cfg:      cfg,
		now:      time.Now,
		watches:  make(map[types.ConversationID]*watch),
	}
}

// Start begins a new search for conv. Any running watch for the same
// conversation is replaced and stopped before the new one starts polling. The watch lives
// until Cancel, Stop or cancellation of ctx.
func (s *Service) Start(ctx context.Context, conv types.ConversationID, route Route) error {
	session := NewSession(conv)
	if err := session.Init(route, s.now()); err != nil {
		return err
	}

	wctx, cancel := context.WithCancel(ctx)
	w := &watch{
		conv:    conv,
		session: session,
		route:   route,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	s.mu.Lock()
	old, replaced := s.watches[conv]
	s.watches[conv] = w
	s.wg.Add(1)
	s.mu.Unlock()

	// Stopped outside s.mu: stop waits for the old watch's lock.
	if replaced {
		oldID := old.searchID()
		old.stop()
		slog.Info("replaced running price watch", "conversation", conv, "search_id", oldID)
	}

	slog.Info("price watch started",
		"conversation", conv,
		"search_id", session.SearchID,
		"origin", route.Origin.String(),
		"destination", route.Destination.String())

	go s.run(wctx, w)
	return nil
}

// Cancel stops the watch for conv and clears its session. Once Cancel
// returns no further notifications are started for that watch; a send
// already in progress is not interrupted.
func (s *Service) Cancel(conv types.ConversationID) bool {
	s.mu.Lock()
	w, ok := s.watches[conv]
	if ok {
		delete(s.watches, conv)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}
	w.stop()
	slog.Info("price watch cancelled", "conversation", conv)
	return true
}

func (s *Service) Active(conv types.ConversationID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.watches[conv]
	return ok
}

// Get returns the snapshot of the active watch for conv.
func (s *Service) Get(conv types.ConversationID) (Snapshot, error) {
	s.mu.Lock()
	w, ok := s.watches[conv]
	s.mu.Unlock()
	if !ok {
		return Snapshot{}, types.ErrNotFound
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancelled {
		return Snapshot{}, types.ErrNotFound
	}
	return w.session.Snapshot(), nil
}

// List returns snapshots of all active watches ordered by conversation.
func (s *Service) List() []Snapshot {
	s.mu.Lock()
	watches := make([]*watch, 0, len(s.watches))
	for _, w := range s.watches {
		watches = append(watches, w)
	}
	s.mu.Unlock()

	out := make([]Snapshot, 0, len(watches))
	for _, w := range watches {
		w.mu.Lock()
		if !w.cancelled {
			out = append(out, w.session.Snapshot())
		}
		w.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ConversationID < out[j].ConversationID })
	return out
}

// Stop cancels every watch and waits for the polling goroutines to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	watches := s.watches
	s.watches = make(map[types.ConversationID]*watch)
	s.mu.Unlock()

	for _, w := range watches {
		w.stop()
	}
	s.wg.Wait()
}

func (s *Service) run(ctx context.Context, w *watch) {
	defer s.wg.Done()
	defer close(w.done)
	defer s.forget(w)

	timer := time.NewTimer(s.cfg.FirstDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		s.tick(ctx, w)
		timer.Reset(s.cfg.Interval)
	}
}

// forget drops w from the registry unless it has already been replaced.
func (s *Service) forget(w *watch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watches[w.conv] == w {
		delete(s.watches, w.conv)
	}
}

func (s *Service) tick(ctx context.Context, w *watch) {
	q, fetchErr := s.quoter.FetchQuote(ctx, w.route.Origin, w.route.Destination)

	n, ok := s.observe(ctx, w, q, fetchErr)
	if !ok {
		return
	}
	// w.mu is not held while sending so a slow chat API cannot block Cancel.
	if err := s.notifier.Notify(ctx, n); err != nil {
		slog.Error("sending price notification failed",
			"conversation", n.ConversationID,
			"search_id", n.SearchID,
			"err", err)
	}
}

// observe applies one fetch result to the session and returns the
// notification to send, if any.
func (s *Service) observe(ctx context.Context, w *watch, q pricing.Quote, fetchErr error) (Notification, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancelled {
		slog.Debug("discarding quote for cancelled watch", "conversation", w.conv)
		return Notification{}, false
	}

	if fetchErr != nil {
		w.session.RecordFailure()
		slog.Warn("quote fetch failed; skipping tick",
			"conversation", w.session.ConversationID,
			"search_id", w.session.SearchID,
			"err", fetchErr)
		return Notification{}, false
	}

	now := s.now()
	d := w.session.RecordQuote(q.Price, now)
	s.record(ctx, w.session, q, d)

	if !d.Notify {
		slog.Debug("quote suppressed", "search_id", w.session.SearchID, "price", q.Price)
		return Notification{}, false
	}

	return Notification{
		ConversationID: w.session.ConversationID,
		SearchID:       w.session.SearchID,
		Route:          w.route,
		Price:          q.Price,
		PriceText:      q.PriceText,
		StartPrice:     w.session.StartPrice,
		BestPrice:      w.session.BestPrice,
		MinPrice:       q.MinPrice,
		Currency:       q.Currency,
		DurationText:   q.DurationText,
		OrderURL:       s.quoter.OrderLink(w.route.Origin, w.route.Destination, q),
		Dropped:        d.Dropped,
		Silent:         d.Silent(),
	}, true
}

func (s *Service) record(ctx context.Context, session *Session, q pricing.Quote, d Decision) {
	if s.recorder == nil {
		return
	}
	fetchedAt := q.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = s.now()
	}
	err := s.recorder.Append(ctx, &pricing.QuoteRecord{
		ConversationID: session.ConversationID,
		SearchID:       session.SearchID,
		Origin:         session.Route.Origin,
		Destination:    session.Route.Destination,
		Price:          q.Price,
		MinPrice:       q.MinPrice,
		ClassName:      q.ClassName,
		Notified:       d.Notify,
		FetchedAt:      fetchedAt,
	})
	if err != nil {
		slog.Warn("recording quote failed", "search_id", session.SearchID, "err", err)
	}
}

func (w *watch) searchID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.session.SearchID
}

// stop cancels the polling context and marks the watch cancelled. It waits
// only for a tick that is recording a quote, never for a notification send.
func (w *watch) stop() {
	w.cancel()
	w.mu.Lock()
	w.cancelled = true
	w.session.Clear()
	w.mu.Unlock()
}
