package email

import (
	"strings"
	"testing"
)

func TestIsConfigured(t *testing.T) {
	svc := NewService(Config{})
	if svc.IsConfigured() {
		t.Error("empty config should not be configured")
	}

	svc = NewService(Config{Host: "smtp.example.com", Port: "587", From: "no-reply@example.com"})
	if !svc.IsConfigured() {
		t.Error("full config should be configured")
	}
}

func TestSendEmailUnconfigured(t *testing.T) {
	svc := NewService(Config{})
	if err := svc.SendEmail([]string{"a@b.com"}, "subject", "body"); err == nil {
		t.Error("expected error when email not configured")
	}
}

func TestBookingConfirmedBody(t *testing.T) {
	body := BookingConfirmedBody("Sam", "HB-123456", "Leeds", "Manchester")
	for _, want := range []string{"Hi Sam", "HB-123456", "Leeds", "Manchester"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}

	body = BookingConfirmedBody("  ", "HB-000001", "A", "B")
	if !strings.Contains(body, "Hi there") {
		t.Errorf("expected fallback greeting, got:\n%s", body)
	}
}
