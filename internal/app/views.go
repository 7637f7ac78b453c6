package app

import (
	"encoding/json"
	"time"

	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/store"
)

type UserView struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Phone       string `json:"phone,omitempty"`
	UserType    string `json:"userType"`
	AddressLine string `json:"addressLine,omitempty"`
	City        string `json:"city,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

type RideView struct {
	ID             string          `json:"id"`
	DriverID       string          `json:"driverId"`
	FromLocation   string          `json:"fromLocation"`
	ToLocation     string          `json:"toLocation"`
	DepartureDate  string          `json:"departureDate"`
	DepartureTime  string          `json:"departureTime"`
	AvailableSeats int             `json:"availableSeats"`
	Price          float64         `json:"price"`
	VehicleInfo    string          `json:"vehicleInfo,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	IsRecurring    bool            `json:"isRecurring"`
	RecurringData  json.RawMessage `json:"recurringData,omitempty"`
	Status         string          `json:"status"`
	CreatedAt      string          `json:"createdAt"`
}

type RideRequestView struct {
	ID            string  `json:"id"`
	RiderID       string  `json:"riderId"`
	FromLocation  string  `json:"fromLocation"`
	ToLocation    string  `json:"toLocation"`
	DepartureDate string  `json:"departureDate"`
	DepartureTime string  `json:"departureTime"`
	Passengers    int     `json:"passengers"`
	MaxPrice      float64 `json:"maxPrice"`
	Notes         string  `json:"notes,omitempty"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt"`
}

type BookingView struct {
	ID          string  `json:"id"`
	JobID       string  `json:"jobId"`
	RideID      *string `json:"rideId"`
	RequestID   *string `json:"requestId,omitempty"`
	RiderID     string  `json:"riderId"`
	DriverID    string  `json:"driverId"`
	CreatedBy   string  `json:"createdBy"`
	SeatsBooked int     `json:"seatsBooked"`
	PhoneNumber string  `json:"phoneNumber,omitempty"`
	Message     string  `json:"message,omitempty"`
	TotalCost   float64 `json:"totalCost"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type MessageView struct {
	ID        string `json:"id"`
	BookingID string `json:"bookingId"`
	SenderID  string `json:"senderId"`
	Text      string `json:"text"`
	IsRead    bool   `json:"isRead"`
	ReadAt    string `json:"readAt,omitempty"`
	CreatedAt string `json:"createdAt"`
}

type NotificationView struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	RelatedID string `json:"relatedId,omitempty"`
	IsRead    bool   `json:"isRead"`
	Tab       string `json:"tab"`
	CreatedAt string `json:"createdAt"`
}

type RatingView struct {
	ID          string `json:"id"`
	BookingID   string `json:"bookingId"`
	RaterID     string `json:"raterId"`
	RatedUserID string `json:"ratedUserId"`
	Rating      int    `json:"rating"`
	Review      string `json:"review,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

func toUserView(u store.User) UserView {
	return UserView{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		UserType:    u.UserType,
		AddressLine: u.AddressLine,
		City:        u.City,
		Postcode:    u.Postcode,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   formatTime(u.CreatedAt),
	}
}

func toRideView(r store.Ride) RideView {
	var recurring json.RawMessage
	if r.RecurringData != "" {
		recurring = json.RawMessage(r.RecurringData)
	}
	return RideView{
		ID:             r.ID,
		DriverID:       r.DriverID,
		FromLocation:   r.FromLocation,
		ToLocation:     r.ToLocation,
		DepartureDate:  r.DepartureDate,
		DepartureTime:  r.DepartureTime,
		AvailableSeats: r.AvailableSeats,
		Price:          r.Price,
		VehicleInfo:    r.VehicleInfo,
		Notes:          r.Notes,
		IsRecurring:    r.IsRecurring,
		RecurringData:  recurring,
		Status:         r.Status,
		CreatedAt:      formatTime(r.CreatedAt),
	}
}

func toRideRequestView(r store.RideRequest) RideRequestView {
	return RideRequestView{
		ID:            r.ID,
		RiderID:       r.RiderID,
		FromLocation:  r.FromLocation,
		ToLocation:    r.ToLocation,
		DepartureDate: r.DepartureDate,
		DepartureTime: r.DepartureTime,
		Passengers:    r.Passengers,
		MaxPrice:      r.MaxPrice,
		Notes:         r.Notes,
		Status:        r.Status,
		CreatedAt:     formatTime(r.CreatedAt),
	}
}

func toBookingView(b store.Booking) BookingView {
	return BookingView{
		ID:          b.ID,
		JobID:       b.JobID,
		RideID:      b.RideID,
		RequestID:   b.RequestID,
		RiderID:     b.RiderID,
		DriverID:    b.DriverID,
		CreatedBy:   b.CreatedBy,
		SeatsBooked: b.SeatsBooked,
		PhoneNumber: b.PhoneNumber,
		Message:     b.Message,
		TotalCost:   b.TotalCost,
		Status:      b.Status,
		CreatedAt:   formatTime(b.CreatedAt),
		UpdatedAt:   formatTime(b.UpdatedAt),
	}
}

func toMessageView(m store.Message) MessageView {
	view := MessageView{
		ID:        m.ID,
		BookingID: m.BookingID,
		SenderID:  m.SenderID,
		Text:      m.Text,
		IsRead:    m.IsRead,
		CreatedAt: formatTime(m.CreatedAt),
	}
	if m.ReadAt != nil {
		view.ReadAt = formatTime(*m.ReadAt)
	}
	return view
}

func toNotificationView(n store.Notification) NotificationView {
	return NotificationView{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		RelatedID: n.RelatedID,
		IsRead:    n.IsRead,
		Tab:       notificationTab(n.Type),
		CreatedAt: formatTime(n.CreatedAt),
	}
}

func toRatingView(r store.Rating) RatingView {
	return RatingView{
		ID:          r.ID,
		BookingID:   r.BookingID,
		RaterID:     r.RaterID,
		RatedUserID: r.RatedUserID,
		Rating:      r.Rating,
		Review:      r.Review,
		CreatedAt:   formatTime(r.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
