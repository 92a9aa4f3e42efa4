package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yash1900/Fraterny-Nextjs-sub005/internal/domain"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/modules/dedupe"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/apierr"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/dbctx"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/logger"
)

type fakeUsers struct {
	rows  []*types.UserData
	err   error
	calls atomic.Int32
}

func (f *fakeUsers) ListAll(dbctx.Context) ([]*types.UserData, error) {
	f.calls.Add(1)
	return f.rows, f.err
}

type fakeSignals struct {
	rows  []*types.UserActivity
	err   error
	calls atomic.Int32
}

func (f *fakeSignals) ListWithIP(dbctx.Context) ([]*types.UserActivity, error) {
	f.calls.Add(1)
	return f.rows, f.err
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func strp(s string) *string { return &s }

func activity(user uuid.UUID, ip string, fp *string, at time.Time) *types.UserActivity {
	return &types.UserActivity{ID: uuid.New(), UserID: &user, IPAddress: &ip, DeviceFingerprint: fp, CreatedAt: at}
}

// Three users share one signal, one user is alone.
func fixture() (*fakeUsers, *fakeSignals, []uuid.UUID) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := base.Add(48 * time.Hour)
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	users := &fakeUsers{rows: []*types.UserData{
		{UserID: ids[0], IsAnonymous: true},
		{UserID: ids[1], TotalPaidGeneration: 2, LastUsed: &base},
		{UserID: ids[2], TotalPaidGeneration: 2, LastUsed: &recent},
		{UserID: ids[3]},
	}}
	signals := &fakeSignals{rows: []*types.UserActivity{
		activity(ids[0], "10.0.0.1", strp("fp-a"), base),
		activity(ids[1], "10.0.0.1", strp("fp-a"), base),
		activity(ids[2], "10.0.0.1", strp("fp-a"), base),
		activity(ids[3], "10.0.0.9", nil, base),
		activity(ids[0], "10.0.0.7", nil, recent),
	}}
	return users, signals, ids
}

func TestDetectBuildsReport(t *testing.T) {
	users, signals, ids := fixture()
	svc := NewDuplicateUserService(testLogger(t), users, signals, "")

	report, err := svc.Detect(context.Background(), DetectOptions{})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if report.TotalGroups != 1 || report.TotalDuplicates != 2 {
		t.Fatalf("unexpected totals: groups=%d duplicates=%d", report.TotalGroups, report.TotalDuplicates)
	}
	g := report.DuplicateGroups[0]
	if g.GroupKey != "ip:10.0.0.1:fp-a" || g.UserCount != 3 {
		t.Fatalf("unexpected group: %+v", g)
	}
	if g.PrimaryUser.UserID != ids[2].String() {
		t.Fatalf("expected most recently used paid user as primary, got %s", g.PrimaryUser.UserID)
	}
	if g.DuplicateUsers[0].UserID != ids[1].String() || g.DuplicateUsers[1].UserID != ids[0].String() {
		t.Fatalf("unexpected duplicate order: %s, %s", g.DuplicateUsers[0].UserID, g.DuplicateUsers[1].UserID)
	}
}

func TestDetectMostRecentPolicyMovesUser(t *testing.T) {
	users, signals, _ := fixture()
	svc := NewDuplicateUserService(testLogger(t), users, signals, dedupe.PolicyFirstSeen)

	report, err := svc.Detect(context.Background(), DetectOptions{Policy: dedupe.PolicyMostRecent})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if report.TotalGroups != 1 || report.DuplicateGroups[0].UserCount != 2 {
		t.Fatalf("expected the anonymous user to move to its newer signal, got %+v", report)
	}
}

func TestDetectEmptySources(t *testing.T) {
	svc := NewDuplicateUserService(testLogger(t), &fakeUsers{}, &fakeSignals{}, "")
	report, err := svc.Detect(context.Background(), DetectOptions{})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if report.DuplicateGroups == nil || len(report.DuplicateGroups) != 0 || report.TotalGroups != 0 {
		t.Fatalf("expected empty non-nil report, got %+v", report)
	}
}

func TestDetectRejectsUnknownPolicy(t *testing.T) {
	users, signals, _ := fixture()
	svc := NewDuplicateUserService(testLogger(t), users, signals, "")
	if _, err := svc.Detect(context.Background(), DetectOptions{Policy: "bogus"}); !errors.Is(err, dedupe.ErrUnknownPolicy) {
		t.Fatalf("expected ErrUnknownPolicy, got %v", err)
	}
	if _, err := svc.GetGroup(context.Background(), "ip:10.0.0.1:fp-a", DetectOptions{Policy: "bogus"}); !errors.Is(err, dedupe.ErrUnknownPolicy) {
		t.Fatalf("GetGroup: expected ErrUnknownPolicy, got %v", err)
	}
	if users.calls.Load() != 0 || signals.calls.Load() != 0 {
		t.Fatalf("sources must not be read for an unknown policy")
	}
}

func TestDetectPropagatesFetchFailure(t *testing.T) {
	boom := errors.New("relation user_activity does not exist")
	for name, tc := range map[string]struct {
		users   *fakeUsers
		signals *fakeSignals
	}{
		"users":   {&fakeUsers{err: boom}, &fakeSignals{}},
		"signals": {&fakeUsers{}, &fakeSignals{err: boom}},
	} {
		t.Run(name, func(t *testing.T) {
			svc := NewDuplicateUserService(testLogger(t), tc.users, tc.signals, "")
			report, err := svc.Detect(context.Background(), DetectOptions{})
			if report != nil {
				t.Fatalf("expected no partial report")
			}
			if !errors.Is(err, boom) {
				t.Fatalf("expected underlying error, got %v", err)
			}
			if apierr.StatusCode(err) != http.StatusBadGateway || apierr.Code(err) != "upstream_fetch_failed" {
				t.Fatalf("unexpected classification: %d %s", apierr.StatusCode(err), apierr.Code(err))
			}
			if tc.users.calls.Load() != 1 || tc.signals.calls.Load() != 1 {
				t.Fatalf("expected one fetch attempt per source")
			}
		})
	}
}

func TestGetGroup(t *testing.T) {
	users, signals, _ := fixture()
	svc := NewDuplicateUserService(testLogger(t), users, signals, "")
	ctx := context.Background()

	if _, err := svc.GetGroup(ctx, "  ", DetectOptions{}); !errors.Is(err, ErrGroupKeyRequired) {
		t.Fatalf("blank key: got %v", err)
	}
	if users.calls.Load() != 0 {
		t.Fatalf("blank key should not fetch")
	}
	if _, err := svc.GetGroup(ctx, "ip:10.0.0.9:unknown", DetectOptions{}); !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("singleton key: got %v", err)
	}
	g, err := svc.GetGroup(ctx, "ip:10.0.0.1:fp-a", DetectOptions{})
	if err != nil {
		t.Fatalf("GetGroup: %v", err)
	}
	if g.UserCount != 3 {
		t.Fatalf("unexpected group size %d", g.UserCount)
	}
}

func TestMergeNeverTouchesSources(t *testing.T) {
	users, signals, _ := fixture()
	svc := NewDuplicateUserService(testLogger(t), users, signals, "")

	if err := svc.Merge(context.Background(), dedupe.MergeRequest{}); !errors.Is(err, ErrGroupKeyRequired) {
		t.Fatalf("missing key: got %v", err)
	}
	err := svc.Merge(context.Background(), dedupe.MergeRequest{GroupKey: "ip:10.0.0.1:fp-a", PrimaryUserID: "x"})
	if !errors.Is(err, ErrMergeNotImplemented) {
		t.Fatalf("well-formed request: got %v", err)
	}
	if users.calls.Load() != 0 || signals.calls.Load() != 0 {
		t.Fatalf("merge must not read storage")
	}
}
