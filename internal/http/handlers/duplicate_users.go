package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/http/response"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/modules/dedupe"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/logger"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/services"
)

type DuplicateUserHandler struct {
	log *logger.Logger
	svc services.DuplicateUserService
}

func NewDuplicateUserHandler(log *logger.Logger, svc services.DuplicateUserService) *DuplicateUserHandler {
	return &DuplicateUserHandler{log: log.With("handler", "DuplicateUserHandler"), svc: svc}
}

// GET /api/admin/duplicate-users?policy=first_seen|most_recent
func (h *DuplicateUserHandler) List(c *gin.Context) {
	opts, ok := detectOptions(c)
	if !ok {
		return
	}
	report, err := h.svc.Detect(c.Request.Context(), opts)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, report)
}

// GET /api/admin/duplicate-users/group?key=ip:...
func (h *DuplicateUserHandler) GetGroup(c *gin.Context) {
	opts, ok := detectOptions(c)
	if !ok {
		return
	}
	group, err := h.svc.GetGroup(c.Request.Context(), c.Query("key"), opts)
	switch {
	case err == nil:
		response.RespondOK(c, group)
	case errors.Is(err, services.ErrGroupKeyRequired):
		response.RespondError(c, http.StatusBadRequest, "group_key_required", err)
	case errors.Is(err, services.ErrGroupNotFound):
		response.RespondError(c, http.StatusNotFound, "group_not_found", err)
	default:
		response.RespondAPIError(c, err)
	}
}

// POST /api/admin/duplicate-users/merge
// body: { "groupKey": "...", "primaryUserId": "..." }
func (h *DuplicateUserHandler) Merge(c *gin.Context) {
	var req dedupe.MergeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
			return
		}
	}
	err := h.svc.Merge(c.Request.Context(), req)
	switch {
	case errors.Is(err, services.ErrGroupKeyRequired):
		response.RespondError(c, http.StatusBadRequest, "group_key_required", err)
	case errors.Is(err, services.ErrMergeNotImplemented):
		response.RespondError(c, http.StatusNotImplemented, "merge_not_implemented", err)
	case err != nil:
		response.RespondAPIError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func detectOptions(c *gin.Context) (services.DetectOptions, bool) {
	raw, present := c.GetQuery("policy")
	if !present || strings.TrimSpace(raw) == "" {
		return services.DetectOptions{}, true
	}
	policy, err := dedupe.ParsePolicy(raw)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_policy", err)
		return services.DetectOptions{}, false
	}
	return services.DetectOptions{Policy: policy}, true
}
