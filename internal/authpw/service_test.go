package authpw

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/samiUK/hitchbuddy-connect-uk-sub001/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	users map[string]store.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]store.User)}
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	user, ok := f.users[email]
	if !ok {
		return store.User{}, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserStore) CreateUser(_ context.Context, user store.User) error {
	f.users[user.Email] = user
	return nil
}

func TestSignUpAndSignIn(t *testing.T) {
	fs := newFakeUserStore()
	svc := NewService(fs)
	ctx := context.Background()

	user, err := svc.SignUp(ctx, SignUpRequest{
		Email:     "Jess@Example.com",
		Password:  "supersecret",
		FirstName: "Jess",
		LastName:  "Doe",
		UserType:  store.UserTypeRider,
	})
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if user.Email != "jess@example.com" {
		t.Errorf("expected lowercased email, got %q", user.Email)
	}
	if user.PasswordHash == "supersecret" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("supersecret")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}

	got, err := svc.SignIn(ctx, "jess@example.com", "supersecret")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, got.ID)
	}
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	fs := newFakeUserStore()
	svc := NewService(fs)
	ctx := context.Background()

	req := SignUpRequest{
		Email:     "dup@example.com",
		Password:  "supersecret",
		FirstName: "First",
		UserType:  store.UserTypeDriver,
	}
	if _, err := svc.SignUp(ctx, req); err != nil {
		t.Fatalf("first SignUp failed: %v", err)
	}
	if _, err := svc.SignUp(ctx, req); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignUpValidation(t *testing.T) {
	fs := newFakeUserStore()
	svc := NewService(fs)
	ctx := context.Background()

	cases := []struct {
		name string
		req  SignUpRequest
	}{
		{"short password", SignUpRequest{Email: "a@b.com", Password: "short", FirstName: "A", UserType: store.UserTypeRider}},
		{"missing email", SignUpRequest{Password: "supersecret", FirstName: "A", UserType: store.UserTypeRider}},
		{"bad user type", SignUpRequest{Email: "a@b.com", Password: "supersecret", FirstName: "A", UserType: "admin"}},
	}
	for _, tc := range cases {
		if _, err := svc.SignUp(ctx, tc.req); err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
	}
	if len(fs.users) != 0 {
		t.Errorf("expected no users persisted, got %d", len(fs.users))
	}
}

func TestSignInWrongPassword(t *testing.T) {
	fs := newFakeUserStore()
	svc := NewService(fs)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, SignUpRequest{
		Email:     "who@example.com",
		Password:  "supersecret",
		FirstName: "Who",
		UserType:  store.UserTypeRider,
	}); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	if _, err := svc.SignIn(ctx, "who@example.com", "wrongpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.SignIn(ctx, "nobody@example.com", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
