package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/data/repos"
	types "github.com/yash1900/Fraterny-Nextjs-sub005/internal/domain"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/modules/dedupe"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/observability"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/apierr"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/ctxutil"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/dbctx"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/logger"
)

var (
	ErrGroupKeyRequired    = dedupe.ErrGroupKeyRequired
	ErrMergeNotImplemented = dedupe.ErrMergeNotImplemented
	ErrGroupNotFound       = errors.New("duplicate group not found")
)

type DetectOptions struct {
	Policy dedupe.SignalPolicy
}

type DuplicateUserService interface {
	Detect(ctx context.Context, opts DetectOptions) (*dedupe.Report, error)
	GetGroup(ctx context.Context, groupKey string, opts DetectOptions) (*dedupe.DuplicateGroup, error)
	Merge(ctx context.Context, req dedupe.MergeRequest) error
}

type duplicateUserService struct {
	log           *logger.Logger
	users         repos.UserSource
	signals       repos.SignalSource
	defaultPolicy dedupe.SignalPolicy
}

func NewDuplicateUserService(log *logger.Logger, users repos.UserSource, signals repos.SignalSource, defaultPolicy dedupe.SignalPolicy) DuplicateUserService {
	if defaultPolicy == "" {
		defaultPolicy = dedupe.PolicyFirstSeen
	}
	return &duplicateUserService{
		log:           log.With("service", "DuplicateUserService"),
		users:         users,
		signals:       signals,
		defaultPolicy: defaultPolicy,
	}
}

// Detect fetches users and signals concurrently and resolves them into a
// report. Either fetch failing aborts the whole run. An unknown policy is
// rejected with dedupe.ErrUnknownPolicy before anything is fetched.
func (s *duplicateUserService) Detect(ctx context.Context, opts DetectOptions) (*dedupe.Report, error) {
	ctx = ctxutil.Default(ctx)
	policy := opts.Policy
	if policy == "" {
		policy = s.defaultPolicy
	}
	policy, err := dedupe.ParsePolicy(string(policy))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	metrics := observability.Current()

	ctx, span := otel.Tracer("dedupe").Start(ctx, "DuplicateUserService.Detect")
	defer span.End()
	span.SetAttributes(attribute.String("dedupe.policy", string(policy)))

	var (
		userRows     []*types.UserData
		activityRows []*types.UserActivity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.users.ListAll(dbctx.Context{Ctx: gctx})
		if err != nil {
			return fmt.Errorf("fetch users: %w", err)
		}
		userRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.signals.ListWithIP(dbctx.Context{Ctx: gctx})
		if err != nil {
			return fmt.Errorf("fetch activity signals: %w", err)
		}
		activityRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		metrics.ObserveDetect(string(policy), "error", time.Since(start), 0, 0)
		s.log.Error("duplicate detection aborted", "error", err)
		return nil, apierr.New(http.StatusBadGateway, "upstream_fetch_failed", err)
	}

	report := dedupe.Resolve(toUserRecords(userRows), toSignals(activityRows), policy)
	span.SetAttributes(
		attribute.Int("dedupe.users", len(userRows)),
		attribute.Int("dedupe.signals", len(activityRows)),
		attribute.Int("dedupe.groups", report.TotalGroups),
		attribute.Int("dedupe.duplicates", report.TotalDuplicates),
	)
	metrics.ObserveDetect(string(policy), "ok", time.Since(start), report.TotalGroups, report.TotalDuplicates)
	s.log.Info("duplicate detection finished",
		"policy", string(policy),
		"users", len(userRows),
		"signals", len(activityRows),
		"groups", report.TotalGroups,
		"duplicates", report.TotalDuplicates,
	)
	return &report, nil
}

func (s *duplicateUserService) GetGroup(ctx context.Context, groupKey string, opts DetectOptions) (*dedupe.DuplicateGroup, error) {
	groupKey = strings.TrimSpace(groupKey)
	if groupKey == "" {
		return nil, ErrGroupKeyRequired
	}
	report, err := s.Detect(ctx, opts)
	if err != nil {
		return nil, err
	}
	g, ok := dedupe.Find(*report, groupKey)
	if !ok {
		return nil, ErrGroupNotFound
	}
	return &g, nil
}

func (s *duplicateUserService) Merge(ctx context.Context, req dedupe.MergeRequest) error {
	err := dedupe.Merge(req)
	if errors.Is(err, ErrMergeNotImplemented) {
		s.log.Info("merge requested", "group_key", req.GroupKey, "primary_user_id", req.PrimaryUserID)
	}
	return err
}

func toUserRecords(rows []*types.UserData) []dedupe.UserRecord {
	out := make([]dedupe.UserRecord, 0, len(rows))
	for _, r := range rows {
		if r == nil {
			continue
		}
		out = append(out, dedupe.UserRecord{
			UserID:              r.UserID.String(),
			IsAnonymous:         r.IsAnonymous,
			PaidGenerationCount: r.TotalPaidGeneration,
			LastUsed:            r.LastUsed,
		})
	}
	return out
}

func toSignals(rows []*types.UserActivity) []dedupe.ActivitySignal {
	out := make([]dedupe.ActivitySignal, 0, len(rows))
	for _, r := range rows {
		if r == nil || r.UserID == nil || r.IPAddress == nil {
			continue
		}
		sig := dedupe.ActivitySignal{
			UserID:            r.UserID.String(),
			IPAddress:         *r.IPAddress,
			DeviceFingerprint: r.DeviceFingerprint,
		}
		if !r.CreatedAt.IsZero() {
			seen := r.CreatedAt
			sig.SeenAt = &seen
		}
		out = append(out, sig)
	}
	return out
}
