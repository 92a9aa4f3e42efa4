package dedupe

import (
	"errors"
	"fmt"
	"strings"
)

// SignalPolicy decides which activity row represents a user when several exist.
type SignalPolicy string

const (
	// PolicyFirstSeen keeps the first row in source order.
	PolicyFirstSeen SignalPolicy = "first_seen"
	// PolicyMostRecent keeps the row with the latest SeenAt; ties keep the first.
	PolicyMostRecent SignalPolicy = "most_recent"
)

var ErrUnknownPolicy = errors.New("unknown signal policy")

// ParsePolicy maps user input to a policy. Blank input means PolicyFirstSeen.
func ParsePolicy(raw string) (SignalPolicy, error) {
	switch SignalPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PolicyFirstSeen:
		return PolicyFirstSeen, nil
	case PolicyMostRecent:
		return PolicyMostRecent, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, raw)
	}
}

// IndexSignals builds the user -> signal mapping. Rows without a user id are
// ignored. An empty IP address is still a value and takes part in keying.
func IndexSignals(signals []ActivitySignal, policy SignalPolicy) map[string]ActivitySignal {
	index := make(map[string]ActivitySignal, len(signals))
	for _, s := range signals {
		if s.UserID == "" {
			continue
		}
		prev, seen := index[s.UserID]
		if !seen {
			index[s.UserID] = s
			continue
		}
		if policy == PolicyMostRecent && newer(s, prev) {
			index[s.UserID] = s
		}
	}
	return index
}

func newer(candidate, current ActivitySignal) bool {
	if candidate.SeenAt == nil {
		return false
	}
	if current.SeenAt == nil {
		return true
	}
	return candidate.SeenAt.After(*current.SeenAt)
}
