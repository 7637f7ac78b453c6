package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/store"
	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/util"
)

type SendMessageInput struct {
	BookingID string `json:"bookingId"`
	Message   string `json:"message"`
}

// SendMessage posts a message on a booking's thread and notifies the
// other party.
func (s *Service) SendMessage(ctx context.Context, actor store.User, input SendMessageInput) (MessageView, error) {
	if strings.TrimSpace(input.Message) == "" {
		return MessageView{}, validationError("Message text is required")
	}

	booking, err := s.bookingForParticipant(ctx, actor, input.BookingID)
	if err != nil {
		return MessageView{}, err
	}

	message := store.Message{
		ID:        util.NewID("msg"),
		BookingID: booking.ID,
		SenderID:  actor.ID,
		Text:      input.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.InsertMessage(ctx, message); err != nil {
		return MessageView{}, err
	}

	recipient := booking.RiderID
	if actor.ID == booking.RiderID {
		recipient = booking.DriverID
	}
	s.notify(ctx, store.Notification{
		ID:        util.NewID("ntf"),
		UserID:    recipient,
		Type:      "message",
		Title:     "New message",
		Message:   fmt.Sprintf("%s sent you a message about booking %s", actor.FirstName, booking.JobID),
		RelatedID: booking.ID,
	})
	return toMessageView(message), nil
}

// Messages returns a booking's thread in chronological order.
func (s *Service) Messages(ctx context.Context, actor store.User, bookingID string) ([]MessageView, error) {
	if _, err := s.bookingForParticipant(ctx, actor, bookingID); err != nil {
		return nil, err
	}

	messages, err := s.store.ListMessages(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	views := make([]MessageView, 0, len(messages))
	for _, message := range messages {
		views = append(views, toMessageView(message))
	}
	return views, nil
}

// MarkMessagesRead marks the counterpart's messages on the thread as read.
// Re-reading an already-read thread is a no-op.
func (s *Service) MarkMessagesRead(ctx context.Context, actor store.User, bookingID string) error {
	if _, err := s.bookingForParticipant(ctx, actor, bookingID); err != nil {
		return err
	}
	return s.store.MarkMessagesRead(ctx, bookingID, actor.ID)
}
