package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNoSeats is returned when a booking asks for more seats than the ride
// has left. The conditional seat-hold update is the only seat accounting;
// there is no separate read-then-write window.
var ErrNoSeats = errors.New("not enough seats available")

const bookingColumns = `id, job_id, ride_id, request_id, rider_id, driver_id, created_by, seats_booked, phone_number, message, total_cost, status, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (Booking, error) {
	var item Booking
	err := row.Scan(
		&item.ID,
		&item.JobID,
		&item.RideID,
		&item.RequestID,
		&item.RiderID,
		&item.DriverID,
		&item.CreatedBy,
		&item.SeatsBooked,
		&item.PhoneNumber,
		&item.Message,
		&item.TotalCost,
		&item.Status,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}

// CreateBooking inserts a booking. When the booking references a ride, the
// seat decrement and the insert commit or fail together: the decrement is a
// conditional update and zero affected rows aborts with ErrNoSeats.
func (s *PostgresStore) CreateBooking(ctx context.Context, booking Booking) error {
	if booking.RideID == nil {
		return s.insertBooking(ctx, s.db, booking)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		UPDATE rides
		SET available_seats = available_seats - $2, updated_at=NOW()
		WHERE id=$1 AND available_seats >= $2 AND status=$3
	`, *booking.RideID, booking.SeatsBooked, RideStatusActive)
	if err != nil {
		return fmt.Errorf("hold ride seats: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("hold ride seats rows: %w", err)
	}
	if affected == 0 {
		return ErrNoSeats
	}

	if err := s.insertBooking(ctx, tx, booking); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit booking tx: %w", err)
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) insertBooking(ctx context.Context, runner execer, booking Booking) error {
	_, err := runner.ExecContext(ctx, `
		INSERT INTO bookings (id, job_id, ride_id, request_id, rider_id, driver_id, created_by, seats_booked, phone_number, message, total_cost, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, booking.ID, booking.JobID, booking.RideID, booking.RequestID, booking.RiderID, booking.DriverID, booking.CreatedBy, booking.SeatsBooked, booking.PhoneNumber, booking.Message, booking.TotalCost, booking.Status, booking.CreatedAt, booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetBooking(ctx context.Context, bookingID string) (Booking, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, bookingID)
	return scanBooking(row)
}

func (s *PostgresStore) ListBookingsForUser(ctx context.Context, userID string) ([]Booking, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE rider_id=$1 OR driver_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	items := make([]Booking, 0)
	for rows.Next() {
		item, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return items, nil
}

// TransitionBooking moves a booking from one status to another. The WHERE
// clause carries the expected current status so a lost race reports false
// instead of silently rewriting history.
func (s *PostgresStore) TransitionBooking(ctx context.Context, bookingID, fromStatus, toStatus string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE bookings SET status=$3, updated_at=NOW()
		WHERE id=$1 AND status=$2
	`, bookingID, fromStatus, toStatus)
	if err != nil {
		return false, fmt.Errorf("transition booking: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("transition booking rows: %w", err)
	}
	return affected > 0, nil
}

// DeclineBookingWithSeatReturn declines a pending ride-backed booking and
// gives its seats back to the ride in the same transaction.
func (s *PostgresStore) DeclineBookingWithSeatReturn(ctx context.Context, bookingID, rideID string, seats int) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin decline tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		UPDATE bookings SET status=$2, updated_at=NOW()
		WHERE id=$1 AND status=$3
	`, bookingID, BookingStatusDeclined, BookingStatusPending)
	if err != nil {
		return false, fmt.Errorf("decline booking: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("decline booking rows: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE rides SET available_seats = available_seats + $2, updated_at=NOW()
		WHERE id=$1
	`, rideID, seats); err != nil {
		return false, fmt.Errorf("return ride seats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit decline tx: %w", err)
	}
	return true, nil
}
