package barter

import (
	"errors"
	"fmt"
)

// NotFoundError represents a missing member, asset or task.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is matches ErrNotFound for any resource, and a specific resource otherwise.
func (e NotFoundError) Is(target error) bool {
	var t NotFoundError
	switch v := target.(type) {
	case NotFoundError:
		t = v
	case *NotFoundError:
		t = *v
	default:
		return false
	}
	return t.Resource == "" || t.Resource == e.Resource
}

var (
	ErrNotFound       = NotFoundError{}
	ErrMemberNotFound = NotFoundError{Resource: "member"}
	ErrOwnerNotFound  = NotFoundError{Resource: "owner"}
	ErrAssetNotFound  = NotFoundError{Resource: "asset"}
	ErrTaskNotFound   = NotFoundError{Resource: "task"}
)

var (
	ErrInvalidCredential   = errors.New("invalid credentials")
	ErrDailyQuotaExceeded  = errors.New("daily assignment quota reached")
	ErrDuplicateUsername   = errors.New("username already taken")
	ErrPhoneMismatch       = errors.New("phone number does not match")
	ErrInsufficientCredits = errors.New("insufficient credits")

	ErrInvalidTransition   = errors.New("invalid task status transition")
	ErrContentLinkRequired = errors.New("content link required")
	ErrRatingRequired      = errors.New("rating required")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrNotAssignee         = errors.New("only the assignee may submit content")
	ErrNotAssetOwner       = errors.New("only the asset owner may do this")
	ErrAssetLocked         = errors.New("asset is still locked")
	ErrAssetInUse          = errors.New("asset has open tasks")
	ErrInvalidInput        = errors.New("invalid input")
)
