package booking

import "errors"

var (
	ErrNotFound             = errors.New("booking not found")
	ErrTherapistNotFound    = errors.New("therapist not found")
	ErrTherapistUnavailable = errors.New("therapist is not accepting bookings")
	ErrKindNotOffered       = errors.New("therapist does not offer this session format")
	ErrNotParticipant       = errors.New("you are not a participant of this booking")
	ErrNotTherapist         = errors.New("only the therapist can perform this action")
	ErrInvalidTransition    = errors.New("booking is not pending")
	ErrStartsInPast         = errors.New("booking start time is in the past")
)
