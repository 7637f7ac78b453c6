package store

import (
	"context"
	"fmt"
)

const requestColumns = `id, rider_id, from_location, to_location, departure_date, departure_time, passengers, max_price, notes, status, created_at, updated_at`

func scanRideRequest(row interface{ Scan(...any) error }) (RideRequest, error) {
	var item RideRequest
	err := row.Scan(
		&item.ID,
		&item.RiderID,
		&item.FromLocation,
		&item.ToLocation,
		&item.DepartureDate,
		&item.DepartureTime,
		&item.Passengers,
		&item.MaxPrice,
		&item.Notes,
		&item.Status,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}

func (s *PostgresStore) InsertRideRequest(ctx context.Context, request RideRequest) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ride_requests (id, rider_id, from_location, to_location, departure_date, departure_time, passengers, max_price, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, request.ID, request.RiderID, request.FromLocation, request.ToLocation, request.DepartureDate, request.DepartureTime, request.Passengers, request.MaxPrice, request.Notes, request.Status, request.CreatedAt, request.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert ride request: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetRideRequest(ctx context.Context, requestID string) (RideRequest, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM ride_requests WHERE id=$1`, requestID)
	return scanRideRequest(row)
}

func (s *PostgresStore) ListOpenRideRequests(ctx context.Context) ([]RideRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+requestColumns+`
		FROM ride_requests
		WHERE status=$1
		ORDER BY departure_date ASC, departure_time ASC
	`, RequestStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list open ride requests: %w", err)
	}
	defer rows.Close()

	items := make([]RideRequest, 0)
	for rows.Next() {
		item, err := scanRideRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ride request: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ride requests: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) ListRideRequestsByRider(ctx context.Context, riderID string) ([]RideRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+requestColumns+`
		FROM ride_requests
		WHERE rider_id=$1
		ORDER BY created_at DESC
	`, riderID)
	if err != nil {
		return nil, fmt.Errorf("list ride requests by rider: %w", err)
	}
	defer rows.Close()

	items := make([]RideRequest, 0)
	for rows.Next() {
		item, err := scanRideRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ride request: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ride requests: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) UpdateRideRequestStatus(ctx context.Context, requestID, status string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE ride_requests SET status=$2, updated_at=NOW() WHERE id=$1`, requestID, status)
	if err != nil {
		return fmt.Errorf("update ride request status: %w", err)
	}
	return nil
}
