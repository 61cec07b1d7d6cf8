// ABOUTME: Tests for stored profile decoding
// ABOUTME: Table-driven checks of required fields and malformed input

package session

import (
	"errors"
	"testing"
)

func TestDecodeUser(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		wantID  int
	}{
		{"valid", `{"id":1,"email":"a@b.com","is_admin":false,"created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z"}`, false, 1},
		{"valid without timestamps", `{"id":3,"email":"x@y.z","is_admin":true}`, false, 3},
		{"extra fields ignored", `{"id":4,"email":"x@y.z","is_admin":true,"theme":"dark"}`, false, 4},
		{"empty", ``, true, 0},
		{"null", `null`, true, 0},
		{"array", `[1,2]`, true, 0},
		{"truncated", `{"id":1,"email":`, true, 0},
		{"missing id", `{"email":"a@b.com","is_admin":false}`, true, 0},
		{"zero id", `{"id":0,"email":"a@b.com","is_admin":false}`, true, 0},
		{"string id", `{"id":"1","email":"a@b.com","is_admin":false}`, true, 0},
		{"missing email", `{"id":1,"is_admin":false}`, true, 0},
		{"empty email", `{"id":1,"email":"","is_admin":false}`, true, 0},
		{"missing is_admin", `{"id":1,"email":"a@b.com"}`, true, 0},
		{"string is_admin", `{"id":1,"email":"a@b.com","is_admin":"true"}`, true, 0},
		{"bad timestamp", `{"id":1,"email":"a@b.com","is_admin":false,"created_at":"yesterday"}`, true, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			user, err := DecodeUser([]byte(tc.input))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got user %+v", user)
				}
				if !errors.Is(err, ErrInvalidProfile) {
					t.Errorf("expected ErrInvalidProfile, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.ID != tc.wantID {
				t.Errorf("expected id %d, got %d", tc.wantID, user.ID)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	user := testUser()
	user.IsAdmin = true

	data, err := EncodeUser(user)
	if err != nil {
		t.Fatalf("EncodeUser() error: %v", err)
	}
	got, err := DecodeUser(data)
	if err != nil {
		t.Fatalf("DecodeUser() error: %v", err)
	}
	if got != user {
		t.Errorf("expected %+v, got %+v", user, got)
	}
}
