package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/carelink/internal/usecase"
)

func (h *Handler) RunProfileAuditJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunProfileAuditJob")
	defer span.End()

	if h.auditService == nil {
		writeError(ctx, w, fmt.Errorf("%w: profile audit is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req profileAuditRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.auditService.Run(ctx, usecase.ProfileAuditInput{
		MaxWorkers: req.MaxWorkers,
		DryRun:     req.DryRun,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "run profile audit job failed",
			"dry_run", req.DryRun,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "profile audit job finished",
		"scanned", result.ScannedCount,
		"repaired", result.RepairedCount,
		"failed", result.FailedCount,
		"dry_run", result.DryRun,
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}
