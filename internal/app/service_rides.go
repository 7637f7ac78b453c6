package app

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/store"
	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/util"
)

type CreateRideInput struct {
	FromLocation   string          `json:"fromLocation"`
	ToLocation     string          `json:"toLocation"`
	DepartureDate  string          `json:"departureDate"`
	DepartureTime  string          `json:"departureTime"`
	AvailableSeats int             `json:"availableSeats"`
	Price          float64         `json:"price"`
	VehicleInfo    string          `json:"vehicleInfo"`
	Notes          string          `json:"notes"`
	IsRecurring    bool            `json:"isRecurring"`
	RecurringData  json.RawMessage `json:"recurringData"`
}

type UpdateRideInput struct {
	DepartureDate  string  `json:"departureDate"`
	DepartureTime  string  `json:"departureTime"`
	AvailableSeats int     `json:"availableSeats"`
	Price          float64 `json:"price"`
	VehicleInfo    string  `json:"vehicleInfo"`
	Notes          string  `json:"notes"`
}

type CreateRideRequestInput struct {
	FromLocation  string  `json:"fromLocation"`
	ToLocation    string  `json:"toLocation"`
	DepartureDate string  `json:"departureDate"`
	DepartureTime string  `json:"departureTime"`
	Passengers    int     `json:"passengers"`
	MaxPrice      float64 `json:"maxPrice"`
	Notes         string  `json:"notes"`
}

// CreateRide posts a new trip offering for a driver.
func (s *Service) CreateRide(ctx context.Context, actor store.User, input CreateRideInput) (RideView, error) {
	if actor.UserType != store.UserTypeDriver {
		return RideView{}, authorizationError("Only drivers can post rides")
	}
	if strings.TrimSpace(input.FromLocation) == "" || strings.TrimSpace(input.ToLocation) == "" {
		return RideView{}, validationError("From and to locations are required")
	}
	if strings.TrimSpace(input.DepartureDate) == "" {
		return RideView{}, validationError("Departure date is required")
	}
	if input.AvailableSeats < 1 {
		return RideView{}, validationError("A ride needs at least one available seat")
	}
	if input.Price < 0 {
		return RideView{}, validationError("Price cannot be negative")
	}
	if input.IsRecurring && len(input.RecurringData) == 0 {
		return RideView{}, validationError("Recurring rides need a recurrence schedule")
	}

	now := time.Now().UTC()
	ride := store.Ride{
		ID:             util.NewID("ride"),
		DriverID:       actor.ID,
		FromLocation:   strings.TrimSpace(input.FromLocation),
		ToLocation:     strings.TrimSpace(input.ToLocation),
		DepartureDate:  input.DepartureDate,
		DepartureTime:  input.DepartureTime,
		AvailableSeats: input.AvailableSeats,
		Price:          input.Price,
		VehicleInfo:    input.VehicleInfo,
		Notes:          input.Notes,
		IsRecurring:    input.IsRecurring,
		RecurringData:  string(input.RecurringData),
		Status:         store.RideStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.InsertRide(ctx, ride); err != nil {
		return RideView{}, err
	}

	if s.search != nil {
		s.search.RecordLocation(ctx, ride.FromLocation)
		s.search.RecordLocation(ctx, ride.ToLocation)
	}
	return toRideView(ride), nil
}

// FindRides returns active rides with seats left, optionally filtered.
func (s *Service) FindRides(ctx context.Context, from, to, date string) ([]RideView, error) {
	rides, err := s.store.FindRides(ctx, from, to, date)
	if err != nil {
		return nil, err
	}
	views := make([]RideView, 0, len(rides))
	for _, ride := range rides {
		views = append(views, toRideView(ride))
	}
	return views, nil
}

func (s *Service) MyRides(ctx context.Context, driverID string) ([]RideView, error) {
	rides, err := s.store.ListRidesByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	views := make([]RideView, 0, len(rides))
	for _, ride := range rides {
		views = append(views, toRideView(ride))
	}
	return views, nil
}

// UpdateRide lets the owning driver adjust an active ride.
func (s *Service) UpdateRide(ctx context.Context, actor store.User, rideID string, input UpdateRideInput) (RideView, error) {
	ride, err := s.store.GetRide(ctx, rideID)
	if err != nil {
		return RideView{}, err
	}
	if ride.DriverID != actor.ID {
		return RideView{}, authorizationError("Only the ride's driver can modify it")
	}
	if ride.Status != store.RideStatusActive {
		return RideView{}, conflictError("Only active rides can be modified")
	}
	if input.AvailableSeats < 1 {
		return RideView{}, validationError("A ride needs at least one available seat")
	}
	if input.Price < 0 {
		return RideView{}, validationError("Price cannot be negative")
	}

	ride.DepartureDate = input.DepartureDate
	ride.DepartureTime = input.DepartureTime
	ride.AvailableSeats = input.AvailableSeats
	ride.Price = input.Price
	ride.VehicleInfo = input.VehicleInfo
	ride.Notes = input.Notes
	if err := s.store.UpdateRide(ctx, ride); err != nil {
		return RideView{}, err
	}
	return toRideView(ride), nil
}

// CancelRide retires an active ride from search results.
func (s *Service) CancelRide(ctx context.Context, actor store.User, rideID string) error {
	ride, err := s.store.GetRide(ctx, rideID)
	if err != nil {
		return err
	}
	if ride.DriverID != actor.ID {
		return authorizationError("Only the ride's driver can cancel it")
	}
	if ride.Status != store.RideStatusActive {
		return conflictError("Ride is not active")
	}
	return s.store.UpdateRideStatus(ctx, rideID, store.RideStatusCancelled)
}

// CreateRideRequest posts a trip wanted by a rider, browsable by drivers.
func (s *Service) CreateRideRequest(ctx context.Context, actor store.User, input CreateRideRequestInput) (RideRequestView, error) {
	if actor.UserType != store.UserTypeRider {
		return RideRequestView{}, authorizationError("Only riders can post ride requests")
	}
	if strings.TrimSpace(input.FromLocation) == "" || strings.TrimSpace(input.ToLocation) == "" {
		return RideRequestView{}, validationError("From and to locations are required")
	}
	if strings.TrimSpace(input.DepartureDate) == "" {
		return RideRequestView{}, validationError("Departure date is required")
	}
	if input.Passengers < 1 {
		return RideRequestView{}, validationError("At least one passenger is required")
	}
	if input.MaxPrice < 0 {
		return RideRequestView{}, validationError("Max price cannot be negative")
	}

	now := time.Now().UTC()
	request := store.RideRequest{
		ID:            util.NewID("req"),
		RiderID:       actor.ID,
		FromLocation:  strings.TrimSpace(input.FromLocation),
		ToLocation:    strings.TrimSpace(input.ToLocation),
		DepartureDate: input.DepartureDate,
		DepartureTime: input.DepartureTime,
		Passengers:    input.Passengers,
		MaxPrice:      input.MaxPrice,
		Notes:         input.Notes,
		Status:        store.RequestStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.InsertRideRequest(ctx, request); err != nil {
		return RideRequestView{}, err
	}

	if s.search != nil {
		s.search.RecordLocation(ctx, request.FromLocation)
		s.search.RecordLocation(ctx, request.ToLocation)
	}
	return toRideRequestView(request), nil
}

// OpenRideRequests lists pending requests for drivers to browse.
func (s *Service) OpenRideRequests(ctx context.Context, actor store.User) ([]RideRequestView, error) {
	if actor.UserType != store.UserTypeDriver {
		return nil, authorizationError("Only drivers can browse ride requests")
	}
	requests, err := s.store.ListOpenRideRequests(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]RideRequestView, 0, len(requests))
	for _, request := range requests {
		views = append(views, toRideRequestView(request))
	}
	return views, nil
}

func (s *Service) MyRideRequests(ctx context.Context, riderID string) ([]RideRequestView, error) {
	requests, err := s.store.ListRideRequestsByRider(ctx, riderID)
	if err != nil {
		return nil, err
	}
	views := make([]RideRequestView, 0, len(requests))
	for _, request := range requests {
		views = append(views, toRideRequestView(request))
	}
	return views, nil
}

// CancelRideRequest withdraws a pending request.
func (s *Service) CancelRideRequest(ctx context.Context, actor store.User, requestID string) error {
	request, err := s.store.GetRideRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if request.RiderID != actor.ID {
		return authorizationError("Only the request's rider can cancel it")
	}
	if request.Status != store.RequestStatusPending {
		return conflictError("Request is no longer pending")
	}
	return s.store.UpdateRideRequestStatus(ctx, requestID, store.RequestStatusCancelled)
}
