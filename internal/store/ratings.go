package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateRating is returned on a second rating for the same
// (booking, rater) pair; ratings are immutable once written.
var ErrDuplicateRating = errors.New("rating already submitted for this booking")

func (s *PostgresStore) InsertRating(ctx context.Context, rating Rating) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ratings (id, booking_id, rater_id, rated_user_id, rating, review, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, rating.ID, rating.BookingID, rating.RaterID, rating.RatedUserID, rating.Rating, rating.Review, rating.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRating
		}
		return fmt.Errorf("insert rating: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRatingsForUser(ctx context.Context, userID string) ([]Rating, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, booking_id, rater_id, rated_user_id, rating, COALESCE(review, ''), created_at
		FROM ratings
		WHERE rated_user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	items := make([]Rating, 0)
	for rows.Next() {
		var item Rating
		if err := rows.Scan(
			&item.ID,
			&item.BookingID,
			&item.RaterID,
			&item.RatedUserID,
			&item.Rating,
			&item.Review,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) UserRatingAverage(ctx context.Context, userID string) (float64, int, error) {
	var average float64
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM ratings
		WHERE rated_user_id=$1
	`, userID).Scan(&average, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("average rating: %w", err)
	}
	return average, count, nil
}
