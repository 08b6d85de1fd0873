package models

import "github.com/google/uuid"

// newID returns a fresh primary key for models keyed by UUID strings.
func newID() string {
	return uuid.NewString()
}
