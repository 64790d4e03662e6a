package domain

import (
	"time"

	"github.com/google/uuid"
)

// Claims is the token payload. Times are Unix seconds on the wire.
type Claims struct {
	Subject   string `json:"sub"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// SubjectID parses the subject as an account id.
func (c *Claims) SubjectID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrMalformedToken
	}
	return id, nil
}

// ExpiresAtTime returns the expiry as a time.Time.
func (c *Claims) ExpiresAtTime() time.Time {
	return time.Unix(c.ExpiresAt, 0).UTC()
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	TokenType string
	ExpiresIn time.Duration
	Account   AccountSummary
}
