package dedupe

import (
	"errors"
	"strings"
)

var (
	// ErrGroupKeyRequired is a client error: the merge target is missing.
	ErrGroupKeyRequired = errors.New("group key is required")
	// ErrMergeNotImplemented is returned for every well-formed merge request.
	ErrMergeNotImplemented = errors.New("merging duplicate users is not implemented")
)

// MergeRequest asks to fold a group into one primary account.
type MergeRequest struct {
	GroupKey      string `json:"groupKey"`
	PrimaryUserID string `json:"primaryUserId"`
}

// Merge validates req and reports that merging is not available yet.
// It never has side effects.
func Merge(req MergeRequest) error {
	if strings.TrimSpace(req.GroupKey) == "" {
		return ErrGroupKeyRequired
	}
	return ErrMergeNotImplemented
}
