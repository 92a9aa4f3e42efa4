package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/http/response"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/modules/dedupe"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/apierr"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/logger"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/services"
)

type fakeDuplicateService struct {
	report    *dedupe.Report
	err       error
	gotOpts   services.DetectOptions
	gotKey    string
	mergeReqs []dedupe.MergeRequest
}

func (f *fakeDuplicateService) Detect(_ context.Context, opts services.DetectOptions) (*dedupe.Report, error) {
	f.gotOpts = opts
	return f.report, f.err
}

func (f *fakeDuplicateService) GetGroup(ctx context.Context, key string, opts services.DetectOptions) (*dedupe.DuplicateGroup, error) {
	f.gotKey = key
	if strings.TrimSpace(key) == "" {
		return nil, services.ErrGroupKeyRequired
	}
	report, err := f.Detect(ctx, opts)
	if err != nil {
		return nil, err
	}
	g, ok := dedupe.Find(*report, key)
	if !ok {
		return nil, services.ErrGroupNotFound
	}
	return &g, nil
}

func (f *fakeDuplicateService) Merge(_ context.Context, req dedupe.MergeRequest) error {
	f.mergeReqs = append(f.mergeReqs, req)
	return dedupe.Merge(req)
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func sampleReport() *dedupe.Report {
	fp := "fp-1"
	return &dedupe.Report{
		DuplicateGroups: []dedupe.DuplicateGroup{{
			GroupKey:          "ip:10.0.0.1:fp-1",
			IPAddress:         "10.0.0.1",
			DeviceFingerprint: &fp,
			UserCount:         2,
			PrimaryUser:       dedupe.UserRecord{UserID: "a"},
			DuplicateUsers:    []dedupe.UserRecord{{UserID: "b", IsAnonymous: true}},
		}},
		TotalGroups:     1,
		TotalDuplicates: 1,
	}
}

func newRouter(t *testing.T, svc services.DuplicateUserService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewDuplicateUserHandler(newTestLogger(t), svc)
	r := gin.New()
	r.GET("/dup", h.List)
	r.GET("/dup/group", h.GetGroup)
	r.POST("/dup/merge", h.Merge)
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.APIError {
	t.Helper()
	var env response.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, rec.Body.String())
	}
	return env.Error
}

func TestListReturnsReportShape(t *testing.T) {
	svc := &fakeDuplicateService{report: sampleReport()}
	rec := do(newRouter(t, svc), http.MethodGet, "/dup", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"duplicateGroups", "totalGroups", "totalDuplicates"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("missing key %q in %s", key, rec.Body.String())
		}
	}
	if !strings.Contains(rec.Body.String(), `"primaryUser":{"user_id":"a"`) {
		t.Fatalf("unexpected group encoding: %s", rec.Body.String())
	}
	if svc.gotOpts.Policy != "" {
		t.Fatalf("expected default policy, got %q", svc.gotOpts.Policy)
	}
}

func TestListPolicyParam(t *testing.T) {
	svc := &fakeDuplicateService{report: sampleReport()}
	r := newRouter(t, svc)

	if rec := do(r, http.MethodGet, "/dup?policy=most_recent", ""); rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if svc.gotOpts.Policy != dedupe.PolicyMostRecent {
		t.Fatalf("policy not forwarded: %q", svc.gotOpts.Policy)
	}

	rec := do(r, http.MethodGet, "/dup?policy=loudest", "")
	if rec.Code != http.StatusBadRequest || decodeError(t, rec).Code != "invalid_policy" {
		t.Fatalf("expected invalid_policy, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestListSurfacesUpstreamError(t *testing.T) {
	upstream := errors.New(`relation "user_activity" does not exist`)
	svc := &fakeDuplicateService{err: apierr.New(http.StatusBadGateway, "upstream_fetch_failed", fmt.Errorf("fetch activity signals: %w", upstream))}
	rec := do(newRouter(t, svc), http.MethodGet, "/dup", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	e := decodeError(t, rec)
	if e.Code != "upstream_fetch_failed" || !strings.Contains(e.Message, upstream.Error()) {
		t.Fatalf("unexpected error body: %+v", e)
	}
	if strings.Contains(rec.Body.String(), "duplicateGroups") {
		t.Fatalf("no partial report expected")
	}
}

func TestGetGroup(t *testing.T) {
	svc := &fakeDuplicateService{report: sampleReport()}
	r := newRouter(t, svc)

	cases := []struct {
		target string
		status int
		code   string
	}{
		{"/dup/group?key=ip:10.0.0.1:fp-1", http.StatusOK, ""},
		{"/dup/group", http.StatusBadRequest, "group_key_required"},
		{"/dup/group?key=ip:10.0.0.2:unknown", http.StatusNotFound, "group_not_found"},
	}
	for _, tc := range cases {
		rec := do(r, http.MethodGet, tc.target, "")
		if rec.Code != tc.status {
			t.Fatalf("%s: status=%d want=%d", tc.target, rec.Code, tc.status)
		}
		if tc.code != "" && decodeError(t, rec).Code != tc.code {
			t.Fatalf("%s: unexpected body %s", tc.target, rec.Body.String())
		}
	}
}

func TestMergeStub(t *testing.T) {
	svc := &fakeDuplicateService{}
	r := newRouter(t, svc)

	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"no body", "", http.StatusBadRequest, "group_key_required"},
		{"blank key", `{"groupKey":"  "}`, http.StatusBadRequest, "group_key_required"},
		{"malformed", `{"groupKey":`, http.StatusBadRequest, "invalid_request"},
		{"well formed", `{"groupKey":"ip:10.0.0.1:fp-1","primaryUserId":"a"}`, http.StatusNotImplemented, "merge_not_implemented"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(r, http.MethodPost, "/dup/merge", tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status=%d want=%d body=%s", rec.Code, tc.status, rec.Body.String())
			}
			if got := decodeError(t, rec).Code; got != tc.code {
				t.Fatalf("code=%q want=%q", got, tc.code)
			}
		})
	}
	last := svc.mergeReqs[len(svc.mergeReqs)-1]
	if last.PrimaryUserID != "a" {
		t.Fatalf("primaryUserId not decoded: %+v", last)
	}
}

func TestHealthAndReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	down := NewHealthHandler(func(context.Context) error { return errors.New("db down") })
	r.GET("/healthcheck", down.HealthCheck)
	r.GET("/readyz", down.Ready)

	if rec := do(r, http.MethodGet, "/healthcheck", ""); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: %d %q", rec.Code, rec.Body.String())
	}
	if rec := do(r, http.MethodGet, "/readyz", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz: expected 503, got %d", rec.Code)
	}
}
