package store

import (
	"context"
	"fmt"
)

func (s *PostgresStore) InsertMessage(ctx context.Context, message Message) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, booking_id, sender_id, body, is_read, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
	`, message.ID, message.BookingID, message.SenderID, message.Text, message.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListMessages(ctx context.Context, bookingID string) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, booking_id, sender_id, body, is_read, read_at, created_at
		FROM messages
		WHERE booking_id=$1
		ORDER BY created_at ASC
	`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	items := make([]Message, 0)
	for rows.Next() {
		var item Message
		if err := rows.Scan(
			&item.ID,
			&item.BookingID,
			&item.SenderID,
			&item.Text,
			&item.IsRead,
			&item.ReadAt,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return items, nil
}

// MarkMessagesRead marks every unread message in the booking that was NOT
// sent by the reader. Already-read rows are untouched, so repeat calls are
// no-ops.
func (s *PostgresStore) MarkMessagesRead(ctx context.Context, bookingID, readerID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE messages
		SET is_read=TRUE, read_at=NOW()
		WHERE booking_id=$1 AND sender_id <> $2 AND is_read=FALSE
	`, bookingID, readerID)
	if err != nil {
		return fmt.Errorf("mark messages read: %w", err)
	}
	return nil
}
