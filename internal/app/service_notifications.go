package app

import "context"

type NotificationsResponse struct {
	Notifications []NotificationView `json:"notifications"`
	UnreadCount   int                `json:"unreadCount"`
}

// Notifications returns the user's notifications, newest first, with the
// unread count computed as a separate aggregate.
func (s *Service) Notifications(ctx context.Context, userID string) (NotificationsResponse, error) {
	notifications, err := s.store.ListNotifications(ctx, userID)
	if err != nil {
		return NotificationsResponse{}, err
	}
	unread, err := s.store.UnreadNotificationCount(ctx, userID)
	if err != nil {
		return NotificationsResponse{}, err
	}

	views := make([]NotificationView, 0, len(notifications))
	for _, notification := range notifications {
		views = append(views, toNotificationView(notification))
	}
	return NotificationsResponse{Notifications: views, UnreadCount: unread}, nil
}

// MarkNotificationRead is idempotent; marking a read notification again
// succeeds without effect. The update is scoped to the caller's own rows.
func (s *Service) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	return s.store.MarkNotificationRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	return s.store.MarkAllNotificationsRead(ctx, userID)
}

// notificationTab maps a notification type to the dashboard tab the client
// should open. The mapping is total; unknown types land on the overview.
func notificationTab(notificationType string) string {
	switch notificationType {
	case "booking_request", "counter_offer", "booking_confirmed":
		return "rides"
	case "message":
		return "messages"
	case "trip_request":
		return "requests"
	default:
		return "overview"
	}
}
