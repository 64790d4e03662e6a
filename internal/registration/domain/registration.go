// Package domain defines lead registrations submitted from the public site
// and the rules for triaging them.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the triage state of a registration.
type Status string

const (
	StatusPending   Status = "pending"
	StatusContacted Status = "contacted"
	StatusSucceeded Status = "succeeded"
	StatusRejected  Status = "rejected"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusContacted, StatusRejected},
	StatusContacted: {StatusSucceeded, StatusRejected},
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusContacted, StatusSucceeded, StatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is allowed.
// succeeded and rejected are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Registration is a lead captured by the public registration form.
// The phone number is only ever stored encrypted.
type Registration struct {
	ID             uuid.UUID
	FullName       string
	PhoneEncrypted string // "hex(iv):hex(ciphertext)" envelope
	PhoneLookup    string // keyed hash of the normalized phone
	Email          string
	BusinessModel  string
	Message        string
	Source         string
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RegistrationView is a registration with its phone decrypted for privileged
// readers. When the envelope cannot be opened Phone is empty and
// PhoneUnavailable is set; a partial value is never shown.
type RegistrationView struct {
	Registration
	Phone            string
	PhoneUnavailable bool
}

// SubmitInput is a public registration submission.
type SubmitInput struct {
	FullName      string
	Phone         string
	Email         string
	BusinessModel string
	Message       string
	Source        string
}

// ListFilter selects a page of registrations, optionally by status.
type ListFilter struct {
	Status *Status
	Offset int
	Limit  int
}
