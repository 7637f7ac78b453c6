package app

import (
	"context"
	"errors"
	"testing"

	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/store"
)

func completedBooking() store.Booking {
	return store.Booking{
		ID:       "bkg-1",
		RiderID:  "rider-1",
		DriverID: "driver-1",
		Status:   store.BookingStatusCompleted,
	}
}

func TestSubmitRatingHappyPath(t *testing.T) {
	var inserted store.Rating
	fs := &fakeStore{
		getBookingFn: func(context.Context, string) (store.Booking, error) {
			return completedBooking(), nil
		},
		insertRatingFn: func(_ context.Context, rating store.Rating) error {
			inserted = rating
			return nil
		},
	}
	svc := newTestService(fs)
	rider := store.User{ID: "rider-1", UserType: store.UserTypeRider}

	view, err := svc.SubmitRating(context.Background(), rider, SubmitRatingInput{
		BookingID:   "bkg-1",
		RatedUserID: "driver-1",
		Rating:      5,
		Review:      "Great driver",
	})
	if err != nil {
		t.Fatalf("submit rating: %v", err)
	}
	if inserted.RaterID != "rider-1" || inserted.RatedUserID != "driver-1" || inserted.Rating != 5 {
		t.Fatalf("unexpected rating row %+v", inserted)
	}
	if view.Rating != 5 {
		t.Fatalf("expected rating 5 in view, got %d", view.Rating)
	}
	if inserted.CreatedAt.IsZero() || view.CreatedAt == "" {
		t.Fatalf("rating must carry a timestamp, row=%+v view=%+v", inserted, view)
	}
}

func TestSubmitRatingBounds(t *testing.T) {
	svc := newTestService(&fakeStore{})
	rider := store.User{ID: "rider-1"}

	for _, score := range []int{0, 6, -1} {
		_, err := svc.SubmitRating(context.Background(), rider, SubmitRatingInput{BookingID: "bkg-1", RatedUserID: "driver-1", Rating: score})
		var domainErr *DomainError
		if !errors.As(err, &domainErr) || domainErr.Status != 400 {
			t.Fatalf("rating %d should be rejected with 400, got %v", score, err)
		}
	}
}

func TestSubmitRatingRequiresCompletedBooking(t *testing.T) {
	fs := &fakeStore{
		getBookingFn: func(context.Context, string) (store.Booking, error) {
			b := completedBooking()
			b.Status = store.BookingStatusConfirmed
			return b, nil
		},
	}
	svc := newTestService(fs)
	rider := store.User{ID: "rider-1"}

	_, err := svc.SubmitRating(context.Background(), rider, SubmitRatingInput{BookingID: "bkg-1", RatedUserID: "driver-1", Rating: 4})
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Status != 409 {
		t.Fatalf("expected 409 for unfinished booking, got %v", err)
	}
}

func TestDuplicateRatingMapsToConflict(t *testing.T) {
	fs := &fakeStore{
		getBookingFn: func(context.Context, string) (store.Booking, error) {
			return completedBooking(), nil
		},
		insertRatingFn: func(context.Context, store.Rating) error {
			return store.ErrDuplicateRating
		},
	}
	svc := newTestService(fs)
	rider := store.User{ID: "rider-1"}

	_, err := svc.SubmitRating(context.Background(), rider, SubmitRatingInput{BookingID: "bkg-1", RatedUserID: "driver-1", Rating: 4})
	status, _, _, _ := mapError(err)
	if status != 409 {
		t.Fatalf("duplicate rating should map to 409, got %d", status)
	}
}

func TestUserRatingsAggregates(t *testing.T) {
	fs := &fakeStore{
		listRatingsForUserFn: func(_ context.Context, userID string) ([]store.Rating, error) {
			return []store.Rating{
				{ID: "rat-1", RatedUserID: userID, Rating: 5},
				{ID: "rat-2", RatedUserID: userID, Rating: 4},
			}, nil
		},
		userRatingAverageFn: func(context.Context, string) (float64, int, error) {
			return 4.5, 2, nil
		},
	}
	svc := newTestService(fs)

	response, err := svc.UserRatings(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("user ratings: %v", err)
	}
	if response.Average != 4.5 || response.Count != 2 || len(response.Ratings) != 2 {
		t.Fatalf("unexpected aggregate %+v", response)
	}
}
