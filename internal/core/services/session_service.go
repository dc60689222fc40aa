package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/comitanigiacomo/kanso-fit/internal/metrics"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// SyncScheduler receives a request to persist one store of one user.
type SyncScheduler interface {
	Enqueue(userID string, store domain.StoreName)
}

type session struct {
	mu       sync.Mutex
	state    *domain.State
	versions map[domain.StoreName]int64
	// seq counts local mutations per store, flushed is the seq last persisted.
	seq         map[domain.StoreName]uint64
	flushed     map[domain.StoreName]uint64
	unsubscribe func()
	lastUsed    time.Time
	// evicted sessions are detached from the service and must be reloaded.
	evicted bool
}

func (s *session) pending(store domain.StoreName) bool {
	return s.seq[store] != s.flushed[store]
}

// SessionService keeps the state of every active user in memory. Mutations
// apply locally first and are persisted in the background.
type SessionService struct {
	docs       domain.DocumentRepository
	activities domain.ActivityRepository
	notifier   domain.ChangeNotifier
	metrics    *metrics.Manager
	origin     string
	now        func() time.Time

	schedulerMu sync.RWMutex
	scheduler   SyncScheduler

	loadMu   sync.Mutex
	mu       sync.RWMutex
	sessions map[string]*session
}

func NewSessionService(docs domain.DocumentRepository, activities domain.ActivityRepository, notifier domain.ChangeNotifier, m *metrics.Manager) *SessionService {
	return &SessionService{
		docs:       docs,
		activities: activities,
		notifier:   notifier,
		metrics:    m,
		origin:     uuid.NewString(),
		now:        time.Now,
		sessions:   make(map[string]*session),
	}
}

// SetScheduler wires the background persister. Without one, mutations stay
// in memory until Flush is called.
func (s *SessionService) SetScheduler(scheduler SyncScheduler) {
	s.schedulerMu.Lock()
	defer s.schedulerMu.Unlock()
	s.scheduler = scheduler
}

// Origin identifies this process in change events.
func (s *SessionService) Origin() string {
	return s.origin
}

func (s *SessionService) lookup(userID string) *session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[userID]
}

func (s *SessionService) get(ctx context.Context, userID string) (*session, error) {
	if sess := s.lookup(userID); sess != nil {
		return sess, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if sess := s.lookup(userID); sess != nil {
		return sess, nil
	}

	sess, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	unsubscribe, err := s.notifier.Subscribe(context.Background(), userID, func(ev domain.ChangeEvent) {
		s.handleRemoteChange(userID, ev)
	})
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("live updates unavailable for session")
		unsubscribe = func() {}
	}
	sess.unsubscribe = unsubscribe

	s.mu.Lock()
	s.sessions[userID] = sess
	s.mu.Unlock()
	s.metrics.GaugeSessions.Inc()

	return sess, nil
}

func (s *SessionService) load(ctx context.Context, userID string) (*session, error) {
	sess := &session{
		state:    domain.NewState(),
		versions: make(map[domain.StoreName]int64),
		seq:      make(map[domain.StoreName]uint64),
		flushed:  make(map[domain.StoreName]uint64),
		lastUsed: s.now(),
	}

	docs, err := s.docs.LoadAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("session: failed to load documents: %w", err)
	}
	for _, doc := range docs {
		if err := sess.state.Restore(doc.Store, doc.Data); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"user_id": userID,
				"store":   doc.Store,
			}).Warn("ignoring unreadable document")
			continue
		}
		sess.versions[doc.Store] = doc.Version
	}

	list, err := s.activities.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("session: failed to load activities: %w", err)
	}
	if len(list) == 0 {
		list = s.seed(ctx, userID)
	}
	sess.state.SetActivities(list)

	return sess, nil
}

// seed creates the example activities for a user with an empty collection.
// Examples that fail to persist are skipped.
func (s *SessionService) seed(ctx context.Context, userID string) []*domain.Activity {
	var seeded []*domain.Activity
	for _, tpl := range domain.ExampleActivities() {
		act, err := domain.NewActivity(userID, tpl.Name, tpl.Description, tpl.Icon, tpl.Category, tpl.Exercises)
		if err != nil {
			logrus.WithError(err).WithField("activity", tpl.Name).Error("invalid example activity")
			continue
		}
		if err := s.activities.Create(ctx, act); err != nil {
			logrus.WithError(err).WithField("user_id", userID).Warn("failed to seed example activity")
			continue
		}
		seeded = append(seeded, act)
	}
	logrus.WithField("user_id", userID).Infof("seeded %d example activities", len(seeded))
	return seeded
}

// acquire returns the live session of userID with its lock held.
func (s *SessionService) acquire(ctx context.Context, userID string) (*session, error) {
	for {
		sess, err := s.get(ctx, userID)
		if err != nil {
			return nil, err
		}
		sess.mu.Lock()
		if !sess.evicted {
			sess.lastUsed = s.now()
			return sess, nil
		}
		sess.mu.Unlock()
	}
}

// Read runs fn against the user's state. fn must not keep references to
// the state after returning.
func (s *SessionService) Read(ctx context.Context, userID string, fn func(st *domain.State) error) error {
	sess, err := s.acquire(ctx, userID)
	if err != nil {
		return err
	}
	defer sess.mu.Unlock()
	return fn(sess.state)
}

// Mutate runs fn against the user's state and, if it succeeds, schedules a
// flush of every named document store. fn must leave the state untouched
// when it returns an error.
func (s *SessionService) Mutate(ctx context.Context, userID string, stores []domain.StoreName, fn func(st *domain.State) error) error {
	dirty, err := s.apply(ctx, userID, stores, fn)
	if err != nil {
		return err
	}

	s.schedulerMu.RLock()
	scheduler := s.scheduler
	s.schedulerMu.RUnlock()

	if scheduler != nil {
		for _, store := range dirty {
			scheduler.Enqueue(userID, store)
		}
	}
	return nil
}

func (s *SessionService) apply(ctx context.Context, userID string, stores []domain.StoreName, fn func(st *domain.State) error) ([]domain.StoreName, error) {
	sess, err := s.acquire(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer sess.mu.Unlock()

	if err := fn(sess.state); err != nil {
		return nil, err
	}
	dirty := make([]domain.StoreName, 0, len(stores))
	for _, store := range stores {
		if store.IsDocument() {
			sess.seq[store]++
			dirty = append(dirty, store)
		}
	}
	return dirty, nil
}

// Flush persists one store of a live session if it has unsaved changes.
func (s *SessionService) Flush(ctx context.Context, userID string, store domain.StoreName) error {
	sess := s.lookup(userID)
	if sess == nil {
		return nil
	}

	sess.mu.Lock()
	if !sess.pending(store) {
		sess.mu.Unlock()
		return nil
	}
	seq := sess.seq[store]
	data, err := sess.state.Snapshot(store)
	sess.mu.Unlock()
	if err != nil {
		return err
	}

	start := time.Now()
	version, err := s.docs.Save(ctx, userID, store, data)
	s.metrics.HistogramFlushDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.CounterFlushFailures.WithLabelValues(string(store)).Inc()
		return fmt.Errorf("session: failed to save %s: %w", store, err)
	}
	s.metrics.CounterFlushes.WithLabelValues(string(store)).Inc()

	sess.mu.Lock()
	if seq > sess.flushed[store] {
		sess.flushed[store] = seq
	}
	if version > sess.versions[store] {
		sess.versions[store] = version
	}
	sess.mu.Unlock()

	s.announce(ctx, domain.ChangeEvent{UserID: userID, Store: store, Version: version})
	return nil
}

// FlushAll persists every dirty store of every live session.
func (s *SessionService) FlushAll(ctx context.Context) error {
	s.mu.RLock()
	users := make([]string, 0, len(s.sessions))
	for userID := range s.sessions {
		users = append(users, userID)
	}
	s.mu.RUnlock()

	var err error
	for _, userID := range users {
		for _, store := range domain.DocumentStores() {
			err = multierr.Append(err, s.Flush(ctx, userID, store))
		}
	}
	return err
}

// EvictIdle flushes and drops the sessions unused for longer than idle,
// ending their change subscriptions. A session that fails to flush or is
// touched meanwhile stays live. It returns the number of evicted sessions.
func (s *SessionService) EvictIdle(ctx context.Context, idle time.Duration) (int, error) {
	cutoff := s.now().Add(-idle)

	s.mu.RLock()
	candidates := make(map[string]*session)
	for userID, sess := range s.sessions {
		candidates[userID] = sess
	}
	s.mu.RUnlock()

	var errs error
	evicted := 0
	for userID, sess := range candidates {
		sess.mu.Lock()
		stale := !sess.lastUsed.After(cutoff)
		sess.mu.Unlock()
		if !stale {
			continue
		}

		var err error
		for _, store := range domain.DocumentStores() {
			err = multierr.Append(err, s.Flush(ctx, userID, store))
		}
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}

		if s.detach(userID, sess, cutoff) {
			sess.unsubscribe()
			s.metrics.GaugeSessions.Dec()
			evicted++
		}
	}

	if evicted > 0 {
		logrus.WithField("count", evicted).Debug("evicted idle sessions")
	}
	return evicted, errs
}

func (s *SessionService) detach(userID string, sess *session, cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if s.sessions[userID] != sess || sess.lastUsed.After(cutoff) {
		return false
	}
	for _, store := range domain.DocumentStores() {
		if sess.pending(store) {
			return false
		}
	}
	sess.evicted = true
	delete(s.sessions, userID)
	return true
}

// NotifyActivities tells other processes that the user's activity
// collection changed.
func (s *SessionService) NotifyActivities(ctx context.Context, userID string) {
	s.announce(ctx, domain.ChangeEvent{UserID: userID, Store: domain.StoreActivities})
}

func (s *SessionService) announce(ctx context.Context, ev domain.ChangeEvent) {
	ev.Origin = s.origin
	if err := s.notifier.Publish(ctx, ev); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": ev.UserID,
			"store":   ev.Store,
		}).Warn("failed to publish change event")
	}
}

func (s *SessionService) handleRemoteChange(userID string, ev domain.ChangeEvent) {
	if ev.Origin == s.origin {
		return
	}
	sess := s.lookup(userID)
	if sess == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log := logrus.WithFields(logrus.Fields{"user_id": userID, "store": ev.Store})

	if ev.Store == domain.StoreActivities {
		list, err := s.activities.ListByUserID(ctx, userID)
		if err != nil {
			log.WithError(err).Warn("failed to reload activities")
			return
		}
		sess.mu.Lock()
		sess.state.SetActivities(list)
		sess.mu.Unlock()
		s.metrics.CounterRemoteApplied.WithLabelValues(string(ev.Store)).Inc()
		return
	}

	if !ev.Store.IsDocument() {
		return
	}

	if reason := s.rejectReason(sess, ev.Store, ev.Version); reason != "" {
		s.metrics.CounterRemoteRejected.WithLabelValues(string(ev.Store), reason).Inc()
		log.WithField("reason", reason).Debug("remote change ignored")
		return
	}

	doc, err := s.docs.Load(ctx, userID, ev.Store)
	if err != nil {
		log.WithError(err).Warn("failed to load remote document")
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if reason := rejectLocked(sess, ev.Store, doc.Version); reason != "" {
		s.metrics.CounterRemoteRejected.WithLabelValues(string(ev.Store), reason).Inc()
		return
	}
	if err := sess.state.Restore(ev.Store, doc.Data); err != nil {
		log.WithError(err).Warn("ignoring unreadable remote document")
		return
	}
	sess.versions[ev.Store] = doc.Version
	s.metrics.CounterRemoteApplied.WithLabelValues(string(ev.Store)).Inc()
}

func (s *SessionService) rejectReason(sess *session, store domain.StoreName, version int64) string {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return rejectLocked(sess, store, version)
}

// rejectLocked applies the race policy: local edits not yet persisted win,
// and snapshots not newer than the one already held are stale.
func rejectLocked(sess *session, store domain.StoreName, version int64) string {
	if sess.pending(store) {
		return "pending_local"
	}
	if version <= sess.versions[store] {
		return "stale"
	}
	return ""
}

// Close stops listening for remote changes.
func (s *SessionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, sess := range s.sessions {
		if sess.unsubscribe != nil {
			sess.unsubscribe()
		}
		delete(s.sessions, userID)
		s.metrics.GaugeSessions.Dec()
	}
}
