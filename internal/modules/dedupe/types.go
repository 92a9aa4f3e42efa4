// Package dedupe groups user accounts that share an identity signal
// (IP address plus device fingerprint) and ranks each group's members by
// how worth keeping they are. Everything here is pure and in-memory.
package dedupe

import "time"

// UserRecord is the read-only view of a user the resolver works on.
type UserRecord struct {
	UserID              string     `json:"user_id" yaml:"user_id"`
	IsAnonymous         bool       `json:"is_anonymous" yaml:"is_anonymous"`
	PaidGenerationCount int        `json:"total_paid_generation" yaml:"total_paid_generation"`
	LastUsed            *time.Time `json:"last_used" yaml:"last_used"`
}

// ActivitySignal is one activity row reduced to its identity signal.
type ActivitySignal struct {
	UserID            string
	IPAddress         string
	DeviceFingerprint *string
	SeenAt            *time.Time
}

// DuplicateGroup is a reported group of two or more users.
type DuplicateGroup struct {
	GroupKey          string       `json:"groupKey" yaml:"group_key"`
	IPAddress         string       `json:"ipAddress" yaml:"ip_address"`
	DeviceFingerprint *string      `json:"deviceFingerprint" yaml:"device_fingerprint"`
	UserCount         int          `json:"userCount" yaml:"user_count"`
	PrimaryUser       UserRecord   `json:"primaryUser" yaml:"primary_user"`
	DuplicateUsers    []UserRecord `json:"duplicateUsers" yaml:"duplicate_users"`
}

// Report is the full detection result.
type Report struct {
	DuplicateGroups []DuplicateGroup `json:"duplicateGroups" yaml:"duplicate_groups"`
	TotalGroups     int              `json:"totalGroups" yaml:"total_groups"`
	TotalDuplicates int              `json:"totalDuplicates" yaml:"total_duplicates"`
}
