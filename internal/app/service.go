package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"time"

	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/authpw"
	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/config"
	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/email"
	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/search"
	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/storage"
	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/store"
)

type dataStore interface {
	GetUserByEmail(context.Context, string) (store.User, error)
	CreateUser(context.Context, store.User) error
	GetUserByID(context.Context, string) (store.User, error)
	UpdateUserProfile(context.Context, store.User) error
	UpdateUserAvatar(context.Context, string, string) error
	InsertRide(context.Context, store.Ride) error
	GetRide(context.Context, string) (store.Ride, error)
	FindRides(context.Context, string, string, string) ([]store.Ride, error)
	ListRidesByDriver(context.Context, string) ([]store.Ride, error)
	UpdateRide(context.Context, store.Ride) error
	UpdateRideStatus(context.Context, string, string) error
	InsertRideRequest(context.Context, store.RideRequest) error
	GetRideRequest(context.Context, string) (store.RideRequest, error)
	ListOpenRideRequests(context.Context) ([]store.RideRequest, error)
	ListRideRequestsByRider(context.Context, string) ([]store.RideRequest, error)
	UpdateRideRequestStatus(context.Context, string, string) error
	CreateBooking(context.Context, store.Booking) error
	GetBooking(context.Context, string) (store.Booking, error)
	ListBookingsForUser(context.Context, string) ([]store.Booking, error)
	TransitionBooking(context.Context, string, string, string) (bool, error)
	DeclineBookingWithSeatReturn(context.Context, string, string, int) (bool, error)
	InsertMessage(context.Context, store.Message) error
	ListMessages(context.Context, string) ([]store.Message, error)
	MarkMessagesRead(context.Context, string, string) error
	InsertNotification(context.Context, store.Notification) error
	ListNotifications(context.Context, string) ([]store.Notification, error)
	UnreadNotificationCount(context.Context, string) (int, error)
	MarkNotificationRead(context.Context, string, string) error
	MarkAllNotificationsRead(context.Context, string) error
	InsertRating(context.Context, store.Rating) error
	ListRatingsForUser(context.Context, string) ([]store.Rating, error)
	UserRatingAverage(context.Context, string) (float64, int, error)
	Ping(ctx context.Context) error
}

// sessionStore is satisfied by both the Redis store and the Postgres
// sessions table; main picks one at startup.
type sessionStore interface {
	SaveSession(ctx context.Context, sessionID, userID string, expiresAt time.Time) error
	LookupSession(ctx context.Context, sessionID string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}

type Service struct {
	cfg      config.Config
	store    dataStore
	sessions sessionStore
	auth     *authpw.Service
	search   *search.Service
	avatars  *storage.AvatarStore
	mailer   *email.Service
}

// New wires the service. search and avatars may be nil when the backing
// systems are not configured; the affected endpoints degrade gracefully.
func New(cfg config.Config, dataStore *store.PostgresStore, sessions sessionStore, searchSvc *search.Service, avatars *storage.AvatarStore, mailer *email.Service) *Service {
	return &Service{
		cfg:      cfg,
		store:    dataStore,
		sessions: sessions,
		auth:     authpw.NewService(dataStore),
		search:   searchSvc,
		avatars:  avatars,
		mailer:   mailer,
	}
}

// Bootstrap runs startup work that needs the stores up: pushing the
// location table into Meilisearch so autocomplete is warm from the start.
func (s *Service) Bootstrap(ctx context.Context) error {
	if s.search != nil {
		s.search.ReindexAll(ctx)
	}
	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) PingSessions(ctx context.Context) error {
	return s.sessions.Ping(ctx)
}

// CreateSession mints a session id for the user and persists it with the
// configured TTL.
func (s *Service) CreateSession(ctx context.Context, userID string) (string, time.Time, error) {
	sessionID := newSessionID()
	expiresAt := time.Now().Add(s.cfg.SessionTTL)
	if err := s.sessions.SaveSession(ctx, sessionID, userID, expiresAt); err != nil {
		return "", time.Time{}, err
	}
	return sessionID, expiresAt, nil
}

// UserFromSession resolves a session id to its user. Expired or unknown
// sessions return an error; a session pointing at a deleted user does too.
func (s *Service) UserFromSession(ctx context.Context, sessionID string) (store.User, error) {
	userID, err := s.sessions.LookupSession(ctx, sessionID)
	if err != nil {
		return store.User{}, err
	}
	return s.store.GetUserByID(ctx, userID)
}

func (s *Service) DestroySession(ctx context.Context, sessionID string) error {
	return s.sessions.DeleteSession(ctx, sessionID)
}

func (s *Service) AuthService() *authpw.Service {
	return s.auth
}

// notify inserts a notification and never fails the caller. A lost
// notification is acceptable; a rolled-back booking is not.
func (s *Service) notify(ctx context.Context, notification store.Notification) {
	notification.CreatedAt = time.Now().UTC()
	if err := s.store.InsertNotification(ctx, notification); err != nil {
		log.Printf("notify: insert notification for user %s: %v", notification.UserID, err)
	}
}

func newSessionID() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
