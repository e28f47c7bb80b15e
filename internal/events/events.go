package events

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const TopicUserCreated = "user.created"

// UserCreated is the wire payload published once per persisted user. Delivery
// is at-least-once; consumers must tolerate seeing the same event again.
type UserCreated struct {
	UserID    string    `json:"userId" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Email     string    `json:"email" validate:"required,email"`
	CreatedAt time.Time `json:"createdAt" validate:"required"`
}

var validate = validator.New()

func (e UserCreated) Validate() error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("invalid %s payload: %w", TopicUserCreated, err)
	}
	return nil
}
