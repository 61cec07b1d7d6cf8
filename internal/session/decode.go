// ABOUTME: Schema-checked decoding of the stored user profile
// ABOUTME: Returns an explicit error instead of coercing malformed data

package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/markalston/todoctl/internal/models"
)

// ErrInvalidProfile is returned when stored profile bytes fail validation
var ErrInvalidProfile = errors.New("invalid stored user profile")

// storedUser uses pointers so missing fields can be told apart from zero values
type storedUser struct {
	ID        *int    `json:"id"`
	Email     *string `json:"email"`
	IsAdmin   *bool   `json:"is_admin"`
	CreatedAt *string `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

// DecodeUser validates and decodes a serialized user profile.
// id (> 0), email (non-empty) and is_admin are required; timestamps are
// optional but must be RFC 3339 when present.
func DecodeUser(data []byte) (models.User, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return models.User{}, fmt.Errorf("%w: not a JSON object", ErrInvalidProfile)
	}

	var raw storedUser
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	if raw.ID == nil || *raw.ID <= 0 {
		return models.User{}, fmt.Errorf("%w: missing or invalid id", ErrInvalidProfile)
	}
	if raw.Email == nil || *raw.Email == "" {
		return models.User{}, fmt.Errorf("%w: missing email", ErrInvalidProfile)
	}
	if raw.IsAdmin == nil {
		return models.User{}, fmt.Errorf("%w: missing is_admin", ErrInvalidProfile)
	}

	user := models.User{
		ID:      *raw.ID,
		Email:   *raw.Email,
		IsAdmin: *raw.IsAdmin,
	}

	var err error
	if user.CreatedAt, err = parseTimestamp("created_at", raw.CreatedAt); err != nil {
		return models.User{}, err
	}
	if user.UpdatedAt, err = parseTimestamp("updated_at", raw.UpdatedAt); err != nil {
		return models.User{}, err
	}

	return user, nil
}

// EncodeUser serializes a profile in the shape DecodeUser accepts
func EncodeUser(user models.User) ([]byte, error) {
	return json.Marshal(user)
}

func parseTimestamp(field string, value *string) (time.Time, error) {
	if value == nil || *value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, *value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrInvalidProfile, field, err)
	}
	return t, nil
}
