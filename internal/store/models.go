package store

import "time"

// Status values are closed sets; the service layer rejects anything else.
const (
	RideStatusActive    = "active"
	RideStatusCancelled = "cancelled"

	RequestStatusPending   = "pending"
	RequestStatusMatched   = "matched"
	RequestStatusCancelled = "cancelled"

	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusDeclined  = "declined"
	BookingStatusCompleted = "completed"

	UserTypeRider  = "rider"
	UserTypeDriver = "driver"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	UserType     string
	AddressLine  string
	City         string
	Postcode     string
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Ride struct {
	ID             string
	DriverID       string
	FromLocation   string
	ToLocation     string
	DepartureDate  string
	DepartureTime  string
	AvailableSeats int
	Price          float64
	VehicleInfo    string
	Notes          string
	IsRecurring    bool
	RecurringData  string // JSON: {"frequency": "...", "daysOfWeek": [...]}
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type RideRequest struct {
	ID            string
	RiderID       string
	FromLocation  string
	ToLocation    string
	DepartureDate string
	DepartureTime string
	Passengers    int
	MaxPrice      float64
	Notes         string
	Status        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Booking struct {
	ID          string
	JobID       string
	RideID      *string
	RequestID   *string
	RiderID     string
	DriverID    string
	CreatedBy   string // user id of the party who created the booking
	SeatsBooked int
	PhoneNumber string
	Message     string
	TotalCost   float64
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Message struct {
	ID        string
	BookingID string
	SenderID  string
	Text      string
	IsRead    bool
	ReadAt    *time.Time
	CreatedAt time.Time
}

// Notification.RelatedID is a weak reference resolved by the consumer,
// never an enforced foreign key; the referent varies by Type.
type Notification struct {
	ID        string
	UserID    string
	Type      string
	Title     string
	Message   string
	RelatedID string
	IsRead    bool
	ReadAt    *time.Time
	CreatedAt time.Time
}

type Rating struct {
	ID          string
	BookingID   string
	RaterID     string
	RatedUserID string
	Rating      int
	Review      string
	CreatedAt   time.Time
}
