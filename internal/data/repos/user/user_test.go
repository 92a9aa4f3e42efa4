package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/data/repos/testutil"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/dbctx"
)

func TestUserDataRepoListAllInInsertionOrder(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	second := testutil.SeedUserData(t, ctx, tx, true, 0, nil, base.Add(time.Minute))
	first := testutil.SeedUserData(t, ctx, tx, false, 3, &base, base)

	repo := NewUserDataRepo(db, testutil.Logger(t))
	rows, err := repo.ListAll(dbctx.Context{Ctx: ctx, Tx: tx})
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ListAll: expected 2 rows, got %d", len(rows))
	}
	if rows[0].UserID != first.UserID || rows[1].UserID != second.UserID {
		t.Fatalf("ListAll: unexpected order %s, %s", rows[0].UserID, rows[1].UserID)
	}
	if rows[0].TotalPaidGeneration != 3 || rows[0].IsAnonymous {
		t.Fatalf("ListAll: fields not loaded: %+v", rows[0])
	}
	if rows[0].LastUsed == nil || !rows[0].LastUsed.Equal(base) {
		t.Fatalf("ListAll: last_used not loaded: %v", rows[0].LastUsed)
	}
	if rows[1].LastUsed != nil {
		t.Fatalf("ListAll: expected nil last_used, got %v", rows[1].LastUsed)
	}
}

func TestUserActivityRepoListWithIPFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	u := uuid.New()
	other := uuid.New()
	testutil.SeedActivity(t, ctx, tx, &u, testutil.Str("10.0.0.2"), nil, base.Add(2*time.Minute))
	testutil.SeedActivity(t, ctx, tx, &u, nil, testutil.Str("fp"), base.Add(3*time.Minute))
	testutil.SeedActivity(t, ctx, tx, nil, testutil.Str("10.0.0.3"), nil, base.Add(4*time.Minute))
	testutil.SeedActivity(t, ctx, tx, &other, testutil.Str("10.0.0.1"), testutil.Str("fp"), base)

	repo := NewUserActivityRepo(db, testutil.Logger(t))
	rows, err := repo.ListWithIP(dbctx.Context{Ctx: ctx, Tx: tx})
	if err != nil {
		t.Fatalf("ListWithIP: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ListWithIP: expected 2 rows, got %d", len(rows))
	}
	if rows[0].UserID == nil || *rows[0].UserID != other {
		t.Fatalf("ListWithIP: expected oldest row first, got %+v", rows[0])
	}
	if rows[1].IPAddress == nil || *rows[1].IPAddress != "10.0.0.2" || rows[1].DeviceFingerprint != nil {
		t.Fatalf("ListWithIP: unexpected second row %+v", rows[1])
	}
}

func TestCreateEmptyIsNoop(t *testing.T) {
	db := testutil.DB(t)
	repo := NewUserDataRepo(db, testutil.Logger(t))
	rows, err := repo.Create(dbctx.Context{Ctx: context.Background()}, nil)
	if err != nil || len(rows) != 0 {
		t.Fatalf("Create(nil): rows=%v err=%v", rows, err)
	}
}

func TestTransientClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"deadline", context.DeadlineExceeded, true},
		{"connection", &pgconn.PgError{Code: "08006"}, true},
		{"serialization", &pgconn.PgError{Code: "40001"}, true},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, false},
		{"plain", errors.New("boom"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Transient(c.err); got != c.want {
				t.Fatalf("Transient: want=%v got=%v", c.want, got)
			}
		})
	}
	if got := SQLState(&pgconn.PgError{Code: "42P01"}); got != "42P01" {
		t.Fatalf("SQLState: got %q", got)
	}
}
