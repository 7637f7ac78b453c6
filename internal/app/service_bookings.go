package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/store"
	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/util"
)

type CreateBookingInput struct {
	RideID      string `json:"rideId"`
	SeatsBooked int    `json:"seatsBooked"`
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
}

type CounterOfferInput struct {
	OfferPrice float64 `json:"offerPrice"`
	Message    string  `json:"message"`
}

// CreateBooking books seats on a ride for the acting rider. The seat hold
// and the booking row commit in one transaction; an oversubscribed ride
// fails the whole operation and persists nothing.
func (s *Service) CreateBooking(ctx context.Context, actor store.User, input CreateBookingInput) (BookingView, error) {
	if strings.TrimSpace(input.RideID) == "" {
		return BookingView{}, validationError("A ride id is required")
	}
	if input.SeatsBooked < 1 {
		return BookingView{}, validationError("At least one seat must be booked")
	}

	ride, err := s.store.GetRide(ctx, input.RideID)
	if err != nil {
		return BookingView{}, err
	}
	if ride.Status != store.RideStatusActive {
		return BookingView{}, conflictError("Ride is no longer active")
	}
	if ride.DriverID == actor.ID {
		return BookingView{}, validationError("You cannot book your own ride")
	}
	if input.SeatsBooked > ride.AvailableSeats {
		return BookingView{}, validationError("Not enough seats available")
	}

	rideID := ride.ID
	now := time.Now().UTC()
	booking := store.Booking{
		ID:          util.NewID("bkg"),
		JobID:       util.NewJobRef(),
		RideID:      &rideID,
		RiderID:     actor.ID,
		DriverID:    ride.DriverID,
		CreatedBy:   actor.ID,
		SeatsBooked: input.SeatsBooked,
		PhoneNumber: input.PhoneNumber,
		Message:     input.Message,
		TotalCost:   ride.Price * float64(input.SeatsBooked),
		Status:      store.BookingStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return BookingView{}, err
	}

	s.notify(ctx, store.Notification{
		ID:        util.NewID("ntf"),
		UserID:    ride.DriverID,
		Type:      "booking_request",
		Title:     "New booking request",
		Message:   fmt.Sprintf("%s requested %d seat(s) on your ride from %s to %s", actor.FirstName, input.SeatsBooked, ride.FromLocation, ride.ToLocation),
		RelatedID: booking.ID,
	})
	return toBookingView(booking), nil
}

// CreateCounterOffer answers a rider's request with a priced offer from a
// driver. The offer is a pending booking with no ride attached.
func (s *Service) CreateCounterOffer(ctx context.Context, actor store.User, requestID string, input CounterOfferInput) (BookingView, error) {
	if actor.UserType != store.UserTypeDriver {
		return BookingView{}, authorizationError("Only drivers can make offers")
	}
	if input.OfferPrice < 0 {
		return BookingView{}, validationError("Offer price cannot be negative")
	}

	request, err := s.store.GetRideRequest(ctx, requestID)
	if err != nil {
		return BookingView{}, err
	}
	if request.Status != store.RequestStatusPending {
		return BookingView{}, conflictError("Request is no longer open")
	}

	reqID := request.ID
	now := time.Now().UTC()
	booking := store.Booking{
		ID:          util.NewID("bkg"),
		JobID:       util.NewJobRef(),
		RequestID:   &reqID,
		RiderID:     request.RiderID,
		DriverID:    actor.ID,
		CreatedBy:   actor.ID,
		SeatsBooked: request.Passengers,
		Message:     input.Message,
		TotalCost:   input.OfferPrice,
		Status:      store.BookingStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return BookingView{}, err
	}

	s.notify(ctx, store.Notification{
		ID:        util.NewID("ntf"),
		UserID:    request.RiderID,
		Type:      "counter_offer",
		Title:     "New ride offer",
		Message:   fmt.Sprintf("%s offered to take you from %s to %s for £%.2f", actor.FirstName, request.FromLocation, request.ToLocation, input.OfferPrice),
		RelatedID: booking.ID,
	})
	return toBookingView(booking), nil
}

// UpdateBookingStatus drives the booking state machine. Transitions are
// conditional updates so concurrent actors cannot double-apply one.
func (s *Service) UpdateBookingStatus(ctx context.Context, actor store.User, bookingID, newStatus string) (BookingView, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return BookingView{}, err
	}
	if actor.ID != booking.RiderID && actor.ID != booking.DriverID {
		return BookingView{}, authorizationError("You are not a party to this booking")
	}

	switch newStatus {
	case store.BookingStatusConfirmed:
		if booking.Status != store.BookingStatusPending {
			return BookingView{}, conflictError("Only pending bookings can be confirmed")
		}
		if actor.ID == booking.CreatedBy {
			return BookingView{}, authorizationError("A booking must be confirmed by the other party")
		}
		ok, err := s.store.TransitionBooking(ctx, bookingID, store.BookingStatusPending, store.BookingStatusConfirmed)
		if err != nil {
			return BookingView{}, err
		}
		if !ok {
			return BookingView{}, conflictError("Booking is no longer pending")
		}
		s.afterConfirm(ctx, booking)

	case store.BookingStatusDeclined:
		if booking.Status != store.BookingStatusPending {
			return BookingView{}, conflictError("Only pending bookings can be declined")
		}
		var ok bool
		if booking.RideID != nil {
			ok, err = s.store.DeclineBookingWithSeatReturn(ctx, bookingID, *booking.RideID, booking.SeatsBooked)
		} else {
			ok, err = s.store.TransitionBooking(ctx, bookingID, store.BookingStatusPending, store.BookingStatusDeclined)
		}
		if err != nil {
			return BookingView{}, err
		}
		if !ok {
			return BookingView{}, conflictError("Booking is no longer pending")
		}

	case store.BookingStatusCompleted:
		if booking.Status != store.BookingStatusConfirmed {
			return BookingView{}, conflictError("Only confirmed bookings can be completed")
		}
		ok, err := s.store.TransitionBooking(ctx, bookingID, store.BookingStatusConfirmed, store.BookingStatusCompleted)
		if err != nil {
			return BookingView{}, err
		}
		if !ok {
			return BookingView{}, conflictError("Booking is no longer confirmed")
		}

	default:
		return BookingView{}, validationError(fmt.Sprintf("Unknown booking status %q", newStatus))
	}

	updated, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return BookingView{}, err
	}
	return toBookingView(updated), nil
}

func (s *Service) MyBookings(ctx context.Context, userID string) ([]BookingView, error) {
	bookings, err := s.store.ListBookingsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]BookingView, 0, len(bookings))
	for _, booking := range bookings {
		views = append(views, toBookingView(booking))
	}
	return views, nil
}

// afterConfirm runs the confirmation side effects. All of them are
// best-effort; the status change has already committed.
func (s *Service) afterConfirm(ctx context.Context, booking store.Booking) {
	from, to := s.bookingRoute(ctx, booking)
	s.notify(ctx, store.Notification{
		ID:        util.NewID("ntf"),
		UserID:    booking.RiderID,
		Type:      "booking_confirmed",
		Title:     "Booking confirmed",
		Message:   fmt.Sprintf("Your booking %s from %s to %s has been confirmed", booking.JobID, from, to),
		RelatedID: booking.ID,
	})

	if booking.RequestID != nil {
		if err := s.store.UpdateRideRequestStatus(ctx, *booking.RequestID, store.RequestStatusMatched); err != nil {
			log.Printf("bookings: mark request %s matched: %v", *booking.RequestID, err)
		}
	}

	if s.mailer != nil && s.mailer.IsConfigured() {
		rider, err := s.store.GetUserByID(ctx, booking.RiderID)
		if err != nil {
			log.Printf("bookings: load rider for confirmation email: %v", err)
			return
		}
		if err := s.mailer.SendBookingConfirmed(rider.Email, rider.FirstName, booking.JobID, from, to); err != nil {
			log.Printf("bookings: send confirmation email: %v", err)
		}
	}
}

// bookingRoute resolves the from/to pair behind a booking, whichever of the
// ride or the request it was created against.
func (s *Service) bookingRoute(ctx context.Context, booking store.Booking) (string, string) {
	if booking.RideID != nil {
		if ride, err := s.store.GetRide(ctx, *booking.RideID); err == nil {
			return ride.FromLocation, ride.ToLocation
		}
	}
	if booking.RequestID != nil {
		if request, err := s.store.GetRideRequest(ctx, *booking.RequestID); err == nil {
			return request.FromLocation, request.ToLocation
		}
	}
	return "", ""
}

// bookingForParticipant loads a booking and checks the actor is one of its
// two parties.
func (s *Service) bookingForParticipant(ctx context.Context, actor store.User, bookingID string) (store.Booking, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return store.Booking{}, err
	}
	if actor.ID != booking.RiderID && actor.ID != booking.DriverID {
		return store.Booking{}, authorizationError("You are not a party to this booking")
	}
	return booking, nil
}
