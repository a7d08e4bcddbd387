// Package domain holds identifier types shared across modules. Keeping them
// in one place prevents services from passing bare strings for IDs.
package domain

import "github.com/google/uuid"

// UserID identifies a submitting farmer.
type UserID uuid.UUID

// ActivityID identifies a persisted activity record.
type ActivityID uuid.UUID

// NewActivityID generates a random activity ID.
func NewActivityID() ActivityID {
	return ActivityID(uuid.New())
}

// ParseUserID parses the canonical UUID string form.
func ParseUserID(s string) (UserID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(u), nil
}

// IsNil reports whether the ID is the zero value.
func (u UserID) IsNil() bool {
	return uuid.UUID(u) == uuid.Nil
}

func (u UserID) String() string {
	return uuid.UUID(u).String()
}

func (a ActivityID) IsNil() bool {
	return uuid.UUID(a) == uuid.Nil
}

func (a ActivityID) String() string {
	return uuid.UUID(a).String()
}

// Text marshaling keeps the canonical UUID form in JSON and stores; without
// these the underlying [16]byte would encode as a number array.

func (u UserID) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *UserID) UnmarshalText(b []byte) error {
	parsed, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*u = UserID(parsed)
	return nil
}

func (a ActivityID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *ActivityID) UnmarshalText(b []byte) error {
	parsed, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*a = ActivityID(parsed)
	return nil
}
