package app

import (
	"context"
	"strings"
	"time"

	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/store"
	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/util"
)

type SubmitRatingInput struct {
	BookingID   string `json:"bookingId"`
	RatedUserID string `json:"ratedUserId"`
	Rating      int    `json:"rating"`
	Review      string `json:"review"`
}

type UserRatingsResponse struct {
	Ratings []RatingView `json:"ratings"`
	Average float64      `json:"average"`
	Count   int          `json:"count"`
}

// SubmitRating records a 1 to 5 star rating against a completed booking.
// Ratings are immutable; one per rater per booking.
func (s *Service) SubmitRating(ctx context.Context, actor store.User, input SubmitRatingInput) (RatingView, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return RatingView{}, validationError("Rating must be between 1 and 5")
	}
	if strings.TrimSpace(input.RatedUserID) == "" {
		return RatingView{}, validationError("A rated user id is required")
	}

	booking, err := s.bookingForParticipant(ctx, actor, input.BookingID)
	if err != nil {
		return RatingView{}, err
	}
	if booking.Status != store.BookingStatusCompleted {
		return RatingView{}, conflictError("Only completed bookings can be rated")
	}
	counterpart := booking.RiderID
	if actor.ID == booking.RiderID {
		counterpart = booking.DriverID
	}
	if input.RatedUserID != counterpart {
		return RatingView{}, validationError("You can only rate the other party on the booking")
	}

	rating := store.Rating{
		ID:          util.NewID("rat"),
		BookingID:   booking.ID,
		RaterID:     actor.ID,
		RatedUserID: input.RatedUserID,
		Rating:      input.Rating,
		Review:      input.Review,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.InsertRating(ctx, rating); err != nil {
		return RatingView{}, err
	}
	return toRatingView(rating), nil
}

// UserRatings returns everything said about a user plus the running average.
func (s *Service) UserRatings(ctx context.Context, userID string) (UserRatingsResponse, error) {
	ratings, err := s.store.ListRatingsForUser(ctx, userID)
	if err != nil {
		return UserRatingsResponse{}, err
	}
	average, count, err := s.store.UserRatingAverage(ctx, userID)
	if err != nil {
		return UserRatingsResponse{}, err
	}

	views := make([]RatingView, 0, len(ratings))
	for _, rating := range ratings {
		views = append(views, toRatingView(rating))
	}
	return UserRatingsResponse{Ratings: views, Average: average, Count: count}, nil
}
