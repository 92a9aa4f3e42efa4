package supabase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	userrepo "github.com/yash1900/Fraterny-Nextjs-sub005/internal/data/repos/user"
	types "github.com/yash1900/Fraterny-Nextjs-sub005/internal/domain"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/ctxutil"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/dbctx"
)

var (
	userDataQuery = Query{
		Table:   "user_data",
		Columns: []string{"user_id", "is_anonymous", "total_paid_generation", "last_used", "created_at"},
		OrderBy: []string{"created_at", "user_id"},
	}
	activityQuery = Query{
		Table:   "user_activity",
		Columns: []string{"id", "user_id", "ip_address", "device_fingerprint", "created_at"},
		NotNull: []string{"ip_address", "user_id"},
		OrderBy: []string{"created_at", "id"},
	}
)

// Timestamp accepts both timestamptz and timestamp renderings from PostgREST.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", raw)
}

type userDataRow struct {
	UserID              string     `json:"user_id"`
	IsAnonymous         *bool      `json:"is_anonymous"`
	TotalPaidGeneration *int       `json:"total_paid_generation"`
	LastUsed            *Timestamp `json:"last_used"`
	CreatedAt           *Timestamp `json:"created_at"`
}

type activityRow struct {
	ID                string     `json:"id"`
	UserID            *string    `json:"user_id"`
	IPAddress         *string    `json:"ip_address"`
	DeviceFingerprint *string    `json:"device_fingerprint"`
	CreatedAt         *Timestamp `json:"created_at"`
}

func (r userDataRow) toDomain() (*types.UserData, error) {
	id, err := uuid.Parse(strings.TrimSpace(r.UserID))
	if err != nil {
		return nil, fmt.Errorf("user_data.user_id %q: %w", r.UserID, err)
	}
	out := &types.UserData{UserID: id}
	if r.IsAnonymous != nil {
		out.IsAnonymous = *r.IsAnonymous
	}
	if r.TotalPaidGeneration != nil {
		out.TotalPaidGeneration = *r.TotalPaidGeneration
	}
	if r.LastUsed != nil && !r.LastUsed.IsZero() {
		lu := r.LastUsed.Time
		out.LastUsed = &lu
	}
	if r.CreatedAt != nil {
		out.CreatedAt = r.CreatedAt.Time
	}
	return out, nil
}

func (r activityRow) toDomain() (*types.UserActivity, error) {
	out := &types.UserActivity{
		IPAddress:         r.IPAddress,
		DeviceFingerprint: r.DeviceFingerprint,
	}
	if id, err := uuid.Parse(strings.TrimSpace(r.ID)); err == nil {
		out.ID = id
	}
	if r.UserID != nil {
		uid, err := uuid.Parse(strings.TrimSpace(*r.UserID))
		if err != nil {
			return nil, fmt.Errorf("user_activity.user_id %q: %w", *r.UserID, err)
		}
		out.UserID = &uid
	}
	if r.CreatedAt != nil {
		out.CreatedAt = r.CreatedAt.Time
	}
	return out, nil
}

// UserSource lists user_data through PostgREST. dbc.Tx is ignored.
type UserSource struct {
	c *Client
}

func NewUserSource(c *Client) *UserSource { return &UserSource{c: c} }

func (s *UserSource) ListAll(dbc dbctx.Context) ([]*types.UserData, error) {
	rows, err := fetchAll[userDataRow](ctxutil.Default(dbc.Ctx), s.c, userDataQuery)
	if err != nil {
		return nil, err
	}
	out := make([]*types.UserData, 0, len(rows))
	for _, r := range rows {
		u, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

// SignalSource lists user_activity rows with an IP through PostgREST.
type SignalSource struct {
	c *Client
}

func NewSignalSource(c *Client) *SignalSource { return &SignalSource{c: c} }

func (s *SignalSource) ListWithIP(dbc dbctx.Context) ([]*types.UserActivity, error) {
	rows, err := fetchAll[activityRow](ctxutil.Default(dbc.Ctx), s.c, activityQuery)
	if err != nil {
		return nil, err
	}
	out := make([]*types.UserActivity, 0, len(rows))
	for _, r := range rows {
		if r.IPAddress == nil || r.UserID == nil {
			continue
		}
		a, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

var (
	_ userrepo.UserSource   = (*UserSource)(nil)
	_ userrepo.SignalSource = (*SignalSource)(nil)
)
