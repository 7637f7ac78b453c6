package app

import (
	"context"
	"errors"
	"testing"

	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/store"
)

func messageBooking() store.Booking {
	return store.Booking{
		ID:       "bkg-1",
		JobID:    "HB-000001",
		RiderID:  "rider-1",
		DriverID: "driver-1",
		Status:   store.BookingStatusConfirmed,
	}
}

func TestSendMessageNotifiesOtherParty(t *testing.T) {
	var inserted store.Message
	var notified store.Notification
	fs := &fakeStore{
		getBookingFn: func(context.Context, string) (store.Booking, error) {
			return messageBooking(), nil
		},
		insertMessageFn: func(_ context.Context, message store.Message) error {
			inserted = message
			return nil
		},
		insertNotificationFn: func(_ context.Context, notification store.Notification) error {
			notified = notification
			return nil
		},
	}
	svc := newTestService(fs)
	rider := store.User{ID: "rider-1", FirstName: "Jess", UserType: store.UserTypeRider}

	view, err := svc.SendMessage(context.Background(), rider, SendMessageInput{BookingID: "bkg-1", Message: "Running 5 minutes late"})
	if err != nil {
		t.Fatalf("send message: %v", err)
	}
	if inserted.SenderID != "rider-1" || inserted.Text != "Running 5 minutes late" {
		t.Fatalf("unexpected message row %+v", inserted)
	}
	if view.IsRead {
		t.Fatalf("new messages start unread")
	}
	if inserted.CreatedAt.IsZero() || view.CreatedAt == "" {
		t.Fatalf("sent message must carry a timestamp, row=%+v view=%+v", inserted, view)
	}
	if notified.UserID != "driver-1" || notified.Type != "message" {
		t.Fatalf("expected message notification to driver, got %+v", notified)
	}
}

func TestSendMessageFromDriverNotifiesRider(t *testing.T) {
	var notified store.Notification
	fs := &fakeStore{
		getBookingFn: func(context.Context, string) (store.Booking, error) {
			return messageBooking(), nil
		},
		insertNotificationFn: func(_ context.Context, notification store.Notification) error {
			notified = notification
			return nil
		},
	}
	svc := newTestService(fs)
	driver := store.User{ID: "driver-1", FirstName: "Sam", UserType: store.UserTypeDriver}

	if _, err := svc.SendMessage(context.Background(), driver, SendMessageInput{BookingID: "bkg-1", Message: "No problem"}); err != nil {
		t.Fatalf("send message: %v", err)
	}
	if notified.UserID != "rider-1" {
		t.Fatalf("driver's message should notify the rider, got %s", notified.UserID)
	}
}

func TestNonParticipantCannotMessage(t *testing.T) {
	fs := &fakeStore{
		getBookingFn: func(context.Context, string) (store.Booking, error) {
			return messageBooking(), nil
		},
	}
	svc := newTestService(fs)
	stranger := store.User{ID: "user-99", UserType: store.UserTypeRider}

	_, err := svc.SendMessage(context.Background(), stranger, SendMessageInput{BookingID: "bkg-1", Message: "hello"})
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Status != 403 {
		t.Fatalf("expected 403 for non-participant, got %v", err)
	}

	if _, err := svc.Messages(context.Background(), stranger, "bkg-1"); err == nil {
		t.Fatalf("non-participant must not read the thread")
	}
}

func TestMarkMessagesReadUsesReaderID(t *testing.T) {
	var gotBooking, gotReader string
	fs := &fakeStore{
		getBookingFn: func(context.Context, string) (store.Booking, error) {
			return messageBooking(), nil
		},
		markMessagesReadFn: func(_ context.Context, bookingID, readerID string) error {
			gotBooking = bookingID
			gotReader = readerID
			return nil
		},
	}
	svc := newTestService(fs)
	driver := store.User{ID: "driver-1", UserType: store.UserTypeDriver}

	if err := svc.MarkMessagesRead(context.Background(), driver, "bkg-1"); err != nil {
		t.Fatalf("mark messages read: %v", err)
	}
	if gotBooking != "bkg-1" || gotReader != "driver-1" {
		t.Fatalf("expected bkg-1/driver-1, got %s/%s", gotBooking, gotReader)
	}
}
