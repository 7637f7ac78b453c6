package app

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/authpw"
	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/config"
	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/store"
)

type fakeStore struct {
	getUserByEmailFn           func(context.Context, string) (store.User, error)
	createUserFn               func(context.Context, store.User) error
	getUserByIDFn              func(context.Context, string) (store.User, error)
	updateUserProfileFn        func(context.Context, store.User) error
	insertRideFn               func(context.Context, store.Ride) error
	getRideFn                  func(context.Context, string) (store.Ride, error)
	findRidesFn                func(context.Context, string, string, string) ([]store.Ride, error)
	listRidesByDriverFn        func(context.Context, string) ([]store.Ride, error)
	updateRideFn               func(context.Context, store.Ride) error
	updateRideStatusFn         func(context.Context, string, string) error
	insertRideRequestFn        func(context.Context, store.RideRequest) error
	getRideRequestFn           func(context.Context, string) (store.RideRequest, error)
	listOpenRideRequestsFn     func(context.Context) ([]store.RideRequest, error)
	updateRideRequestStatusFn  func(context.Context, string, string) error
	createBookingFn            func(context.Context, store.Booking) error
	getBookingFn               func(context.Context, string) (store.Booking, error)
	listBookingsForUserFn      func(context.Context, string) ([]store.Booking, error)
	transitionBookingFn        func(context.Context, string, string, string) (bool, error)
	declineWithSeatReturnFn    func(context.Context, string, string, int) (bool, error)
	insertMessageFn            func(context.Context, store.Message) error
	listMessagesFn             func(context.Context, string) ([]store.Message, error)
	markMessagesReadFn         func(context.Context, string, string) error
	insertNotificationFn       func(context.Context, store.Notification) error
	listNotificationsFn        func(context.Context, string) ([]store.Notification, error)
	unreadCountFn              func(context.Context, string) (int, error)
	markNotificationReadFn     func(context.Context, string, string) error
	markAllNotificationsReadFn func(context.Context, string) error
	insertRatingFn             func(context.Context, store.Rating) error
	listRatingsForUserFn       func(context.Context, string) ([]store.Rating, error)
	userRatingAverageFn        func(context.Context, string) (float64, int, error)
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	if f.getUserByEmailFn != nil {
		return f.getUserByEmailFn(ctx, email)
	}
	return store.User{}, sql.ErrNoRows
}
func (f *fakeStore) CreateUser(ctx context.Context, user store.User) error {
	if f.createUserFn != nil {
		return f.createUserFn(ctx, user)
	}
	return nil
}
func (f *fakeStore) GetUserByID(ctx context.Context, userID string) (store.User, error) {
	if f.getUserByIDFn != nil {
		return f.getUserByIDFn(ctx, userID)
	}
	return store.User{ID: userID}, nil
}
func (f *fakeStore) UpdateUserProfile(ctx context.Context, user store.User) error {
	if f.updateUserProfileFn != nil {
		return f.updateUserProfileFn(ctx, user)
	}
	return nil
}
func (f *fakeStore) UpdateUserAvatar(context.Context, string, string) error { return nil }
func (f *fakeStore) InsertRide(ctx context.Context, ride store.Ride) error {
	if f.insertRideFn != nil {
		return f.insertRideFn(ctx, ride)
	}
	return nil
}
func (f *fakeStore) GetRide(ctx context.Context, rideID string) (store.Ride, error) {
	if f.getRideFn != nil {
		return f.getRideFn(ctx, rideID)
	}
	return store.Ride{}, sql.ErrNoRows
}
func (f *fakeStore) FindRides(ctx context.Context, from, to, date string) ([]store.Ride, error) {
	if f.findRidesFn != nil {
		return f.findRidesFn(ctx, from, to, date)
	}
	return nil, nil
}
func (f *fakeStore) ListRidesByDriver(ctx context.Context, driverID string) ([]store.Ride, error) {
	if f.listRidesByDriverFn != nil {
		return f.listRidesByDriverFn(ctx, driverID)
	}
	return nil, nil
}
func (f *fakeStore) UpdateRide(ctx context.Context, ride store.Ride) error {
	if f.updateRideFn != nil {
		return f.updateRideFn(ctx, ride)
	}
	return nil
}
func (f *fakeStore) UpdateRideStatus(ctx context.Context, rideID, status string) error {
	if f.updateRideStatusFn != nil {
		return f.updateRideStatusFn(ctx, rideID, status)
	}
	return nil
}
func (f *fakeStore) InsertRideRequest(ctx context.Context, request store.RideRequest) error {
	if f.insertRideRequestFn != nil {
		return f.insertRideRequestFn(ctx, request)
	}
	return nil
}
func (f *fakeStore) GetRideRequest(ctx context.Context, requestID string) (store.RideRequest, error) {
	if f.getRideRequestFn != nil {
		return f.getRideRequestFn(ctx, requestID)
	}
	return store.RideRequest{}, sql.ErrNoRows
}
func (f *fakeStore) ListOpenRideRequests(ctx context.Context) ([]store.RideRequest, error) {
	if f.listOpenRideRequestsFn != nil {
		return f.listOpenRideRequestsFn(ctx)
	}
	return nil, nil
}
func (f *fakeStore) ListRideRequestsByRider(context.Context, string) ([]store.RideRequest, error) {
	return nil, nil
}
func (f *fakeStore) UpdateRideRequestStatus(ctx context.Context, requestID, status string) error {
	if f.updateRideRequestStatusFn != nil {
		return f.updateRideRequestStatusFn(ctx, requestID, status)
	}
	return nil
}
func (f *fakeStore) CreateBooking(ctx context.Context, booking store.Booking) error {
	if f.createBookingFn != nil {
		return f.createBookingFn(ctx, booking)
	}
	return nil
}
func (f *fakeStore) GetBooking(ctx context.Context, bookingID string) (store.Booking, error) {
	if f.getBookingFn != nil {
		return f.getBookingFn(ctx, bookingID)
	}
	return store.Booking{}, sql.ErrNoRows
}
func (f *fakeStore) ListBookingsForUser(ctx context.Context, userID string) ([]store.Booking, error) {
	if f.listBookingsForUserFn != nil {
		return f.listBookingsForUserFn(ctx, userID)
	}
	return nil, nil
}
func (f *fakeStore) TransitionBooking(ctx context.Context, bookingID, fromStatus, toStatus string) (bool, error) {
	if f.transitionBookingFn != nil {
		return f.transitionBookingFn(ctx, bookingID, fromStatus, toStatus)
	}
	return true, nil
}
func (f *fakeStore) DeclineBookingWithSeatReturn(ctx context.Context, bookingID, rideID string, seats int) (bool, error) {
	if f.declineWithSeatReturnFn != nil {
		return f.declineWithSeatReturnFn(ctx, bookingID, rideID, seats)
	}
	return true, nil
}
func (f *fakeStore) InsertMessage(ctx context.Context, message store.Message) error {
	if f.insertMessageFn != nil {
		return f.insertMessageFn(ctx, message)
	}
	return nil
}
func (f *fakeStore) ListMessages(ctx context.Context, bookingID string) ([]store.Message, error) {
	if f.listMessagesFn != nil {
		return f.listMessagesFn(ctx, bookingID)
	}
	return nil, nil
}
func (f *fakeStore) MarkMessagesRead(ctx context.Context, bookingID, readerID string) error {
	if f.markMessagesReadFn != nil {
		return f.markMessagesReadFn(ctx, bookingID, readerID)
	}
	return nil
}
func (f *fakeStore) InsertNotification(ctx context.Context, notification store.Notification) error {
	if f.insertNotificationFn != nil {
		return f.insertNotificationFn(ctx, notification)
	}
	return nil
}
func (f *fakeStore) ListNotifications(ctx context.Context, userID string) ([]store.Notification, error) {
	if f.listNotificationsFn != nil {
		return f.listNotificationsFn(ctx, userID)
	}
	return nil, nil
}
func (f *fakeStore) UnreadNotificationCount(ctx context.Context, userID string) (int, error) {
	if f.unreadCountFn != nil {
		return f.unreadCountFn(ctx, userID)
	}
	return 0, nil
}
func (f *fakeStore) MarkNotificationRead(ctx context.Context, notificationID, userID string) error {
	if f.markNotificationReadFn != nil {
		return f.markNotificationReadFn(ctx, notificationID, userID)
	}
	return nil
}
func (f *fakeStore) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	if f.markAllNotificationsReadFn != nil {
		return f.markAllNotificationsReadFn(ctx, userID)
	}
	return nil
}
func (f *fakeStore) InsertRating(ctx context.Context, rating store.Rating) error {
	if f.insertRatingFn != nil {
		return f.insertRatingFn(ctx, rating)
	}
	return nil
}
func (f *fakeStore) ListRatingsForUser(ctx context.Context, userID string) ([]store.Rating, error) {
	if f.listRatingsForUserFn != nil {
		return f.listRatingsForUserFn(ctx, userID)
	}
	return nil, nil
}
func (f *fakeStore) UserRatingAverage(ctx context.Context, userID string) (float64, int, error) {
	if f.userRatingAverageFn != nil {
		return f.userRatingAverageFn(ctx, userID)
	}
	return 0, 0, nil
}
func (f *fakeStore) Ping(context.Context) error { return nil }

// fakeSessions keeps sessions in a map; expiry is not modelled.
type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: make(map[string]string)}
}

func (f *fakeSessions) SaveSession(_ context.Context, sessionID, userID string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[sessionID] = userID
	return nil
}

func (f *fakeSessions) LookupSession(_ context.Context, sessionID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	userID, ok := f.sessions[sessionID]
	if !ok {
		return "", errors.New("session not found or expired")
	}
	return userID, nil
}

func (f *fakeSessions) DeleteSession(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeSessions) Ping(context.Context) error { return nil }

func newTestService(fs *fakeStore) *Service {
	return &Service{
		cfg: config.Config{
			CookieName: "hb_session",
			SessionTTL: time.Hour,
		},
		store:    fs,
		sessions: newFakeSessions(),
		auth:     authpw.NewService(fs),
	}
}

func strPtr(s string) *string { return &s }
