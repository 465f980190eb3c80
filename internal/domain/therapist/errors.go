package therapist

import "errors"

var (
	ErrProfileNotFound   = errors.New("therapist profile not found")
	ErrAlreadyRegistered = errors.New("user already has a therapist profile")
	ErrNotProfileOwner   = errors.New("you can only edit your own profile")
	ErrProfileSuspended  = errors.New("therapist profile is suspended")
	ErrInvalidAvatar     = errors.New("invalid avatar image")
)
