package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/estately-cli/internal/core/domain"
	"github.com/custodia-labs/estately-cli/internal/core/ports/driven"
	"github.com/custodia-labs/estately-cli/internal/core/ports/driving"
	"github.com/custodia-labs/estately-cli/internal/logger"
)

// Ensure FavoriteStore implements the interface.
var _ driving.FavoriteService = (*FavoriteStore)(nil)

// FavoriteStore holds the liked set of the signed-in user. Toggles are
// applied optimistically and reconciled against the remote list.
type FavoriteStore struct {
	client   driven.FavoritesClient
	session  driven.SessionProvider
	rollback bool

	// toggleMu serialises toggles; it is never held by listing fetches.
	toggleMu sync.Mutex

	mu     sync.RWMutex
	liked  domain.FavoriteSet
	userID string

	notifyMu  sync.Mutex
	listeners map[int]func(domain.FavoriteSet)
	nextID    int
}

// NewFavoriteStore creates a favourite store.
func NewFavoriteStore(
	client driven.FavoritesClient,
	session driven.SessionProvider,
	settings domain.FavoriteSettings,
) *FavoriteStore {
	return &FavoriteStore{
		client:    client,
		session:   session,
		rollback:  settings.RollbackOnFailure,
		liked:     domain.NewFavoriteSet(),
		listeners: make(map[int]func(domain.FavoriteSet)),
	}
}

// Toggle flips the liked state of a property. The flip is visible to
// Liked and to listeners before the backend is called. On success the set
// is replaced by the authoritative remote list.
func (s *FavoriteStore) Toggle(ctx context.Context, propertyID, propertyName string) error {
	sess := s.session.Current()
	if !sess.IsSignedIn() {
		return domain.ErrUnauthenticated
	}
	if propertyID == "" {
		return fmt.Errorf("%w: property id is required", domain.ErrInvalidInput)
	}

	s.toggleMu.Lock()
	defer s.toggleMu.Unlock()

	s.mu.Lock()
	s.adoptUserLocked(sess.UserID)
	var nowLiked bool
	s.liked, nowLiked = s.liked.Toggled(propertyID)
	s.mu.Unlock()
	s.notify()

	logger.Debug("favorites: %s -> liked=%v", propertyID, nowLiked)
	err := s.client.ToggleFavorite(ctx, sess.UserID, domain.Favorite{
		PropertyID:   propertyID,
		PropertyName: propertyName,
	})
	if err != nil {
		if s.rollback {
			s.restore(propertyID, !nowLiked)
			logger.Warn("favorites: toggle %s failed, rolled back: %v", propertyID, err)
		} else {
			logger.Warn("favorites: toggle %s failed, keeping optimistic state: %v", propertyID, err)
		}
		return fmt.Errorf("toggle favorite: %w", err)
	}

	if err := s.Sync(ctx); err != nil {
		logger.Warn("favorites: reconcile after toggle: %v", err)
	}
	return nil
}

// Sync replaces the liked set with the remote favourites list.
// Signed-out users get an empty set without a network call.
func (s *FavoriteStore) Sync(ctx context.Context) error {
	sess := s.session.Current()
	if !sess.IsSignedIn() {
		s.mu.Lock()
		s.liked = domain.NewFavoriteSet()
		s.userID = ""
		s.mu.Unlock()
		s.notify()
		return nil
	}

	favs, err := s.client.ListFavorites(ctx, sess.UserID)
	if err != nil {
		return fmt.Errorf("list favorites: %w", err)
	}

	ids := make([]string, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.PropertyID)
	}

	s.mu.Lock()
	s.liked = domain.NewFavoriteSet(ids...)
	s.userID = sess.UserID
	s.mu.Unlock()
	s.notify()

	logger.Debug("favorites: synced %d favourites for %s", len(ids), sess.UserID)
	return nil
}

// Liked returns a copy of the liked set. It is empty when no user is signed in.
func (s *FavoriteStore) Liked() domain.FavoriteSet {
	sess := s.session.Current()
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !sess.IsSignedIn() || (s.userID != "" && s.userID != sess.UserID) {
		return domain.NewFavoriteSet()
	}
	return s.liked.Clone()
}

// Subscribe registers fn to receive every liked set change.
func (s *FavoriteStore) Subscribe(fn func(domain.FavoriteSet)) func() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.notifyMu.Lock()
		defer s.notifyMu.Unlock()
		delete(s.listeners, id)
	}
}

// adoptUserLocked drops a set that belongs to a previous user.
func (s *FavoriteStore) adoptUserLocked(userID string) {
	if s.userID != userID {
		s.liked = domain.NewFavoriteSet()
		s.userID = userID
	}
}

// restore sets the membership of one property back to liked.
func (s *FavoriteStore) restore(propertyID string, liked bool) {
	s.mu.Lock()
	if s.liked.Contains(propertyID) != liked {
		s.liked, _ = s.liked.Toggled(propertyID)
	}
	s.mu.Unlock()
	s.notify()
}

func (s *FavoriteStore) notify() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if len(s.listeners) == 0 {
		return
	}
	liked := s.Liked()
	for _, fn := range s.listeners {
		fn(liked)
	}
}
