// Package uuid wraps github.com/google/uuid so that IDs can be bound
// from URI and query parameters by gin.
package uuid

import (
	"errors"

	google_uuid "github.com/google/uuid"
)

var ErrInvalidUUID = errors.New("the specified resource ID is not a valid UUID")

type UUID struct {
	google_uuid.UUID
}

var Nil UUID

func New() UUID {
	return UUID{google_uuid.New()}
}

func NewString() string {
	return google_uuid.NewString()
}

// UnmarshalParam parses a path or query parameter into a UUID.
//
// An empty parameter is the Nil UUID, anything that google/uuid cannot
// parse is ErrInvalidUUID.
func (u *UUID) UnmarshalParam(p string) error {
	if p == "" {
		*u = Nil
		return nil
	}

	parsed, err := google_uuid.Parse(p)
	if err != nil {
		return ErrInvalidUUID
	}

	*u = UUID{parsed}
	return nil
}
