package store

import (
	"context"
	"fmt"
)

const rideColumns = `id, driver_id, from_location, to_location, departure_date, departure_time, available_seats, price, vehicle_info, notes, is_recurring, COALESCE(recurring_data::text, ''), status, created_at, updated_at`

func scanRide(row interface{ Scan(...any) error }) (Ride, error) {
	var item Ride
	err := row.Scan(
		&item.ID,
		&item.DriverID,
		&item.FromLocation,
		&item.ToLocation,
		&item.DepartureDate,
		&item.DepartureTime,
		&item.AvailableSeats,
		&item.Price,
		&item.VehicleInfo,
		&item.Notes,
		&item.IsRecurring,
		&item.RecurringData,
		&item.Status,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}

func (s *PostgresStore) InsertRide(ctx context.Context, ride Ride) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rides (id, driver_id, from_location, to_location, departure_date, departure_time, available_seats, price, vehicle_info, notes, is_recurring, recurring_data, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, '')::jsonb, $13, $14, $15)
	`, ride.ID, ride.DriverID, ride.FromLocation, ride.ToLocation, ride.DepartureDate, ride.DepartureTime, ride.AvailableSeats, ride.Price, ride.VehicleInfo, ride.Notes, ride.IsRecurring, ride.RecurringData, ride.Status, ride.CreatedAt, ride.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert ride: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetRide(ctx context.Context, rideID string) (Ride, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+rideColumns+` FROM rides WHERE id=$1`, rideID)
	return scanRide(row)
}

// FindRides lists active rides with seats left, optionally filtered by
// origin/destination substring and exact departure date.
func (s *PostgresStore) FindRides(ctx context.Context, from, to, date string) ([]Ride, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+rideColumns+`
		FROM rides
		WHERE status=$1
		  AND available_seats > 0
		  AND ($2='' OR from_location ILIKE '%' || $2 || '%')
		  AND ($3='' OR to_location ILIKE '%' || $3 || '%')
		  AND ($4='' OR departure_date=$4)
		ORDER BY departure_date ASC, departure_time ASC
	`, RideStatusActive, from, to, date)
	if err != nil {
		return nil, fmt.Errorf("find rides: %w", err)
	}
	defer rows.Close()

	items := make([]Ride, 0)
	for rows.Next() {
		item, err := scanRide(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ride: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rides: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) ListRidesByDriver(ctx context.Context, driverID string) ([]Ride, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+rideColumns+`
		FROM rides
		WHERE driver_id=$1
		ORDER BY created_at DESC
	`, driverID)
	if err != nil {
		return nil, fmt.Errorf("list rides by driver: %w", err)
	}
	defer rows.Close()

	items := make([]Ride, 0)
	for rows.Next() {
		item, err := scanRide(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ride: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rides: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) UpdateRide(ctx context.Context, ride Ride) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE rides
		SET from_location=$2, to_location=$3, departure_date=$4, departure_time=$5, available_seats=$6, price=$7, vehicle_info=$8, notes=$9, is_recurring=$10, recurring_data=NULLIF($11, '')::jsonb, updated_at=NOW()
		WHERE id=$1
	`, ride.ID, ride.FromLocation, ride.ToLocation, ride.DepartureDate, ride.DepartureTime, ride.AvailableSeats, ride.Price, ride.VehicleInfo, ride.Notes, ride.IsRecurring, ride.RecurringData)
	if err != nil {
		return fmt.Errorf("update ride: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateRideStatus(ctx context.Context, rideID, status string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE rides SET status=$2, updated_at=NOW() WHERE id=$1`, rideID, status)
	if err != nil {
		return fmt.Errorf("update ride status: %w", err)
	}
	return nil
}
