package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/carelink/internal/domain/listing"
	"github.com/riskibarqy/carelink/internal/domain/profile"
	"github.com/riskibarqy/carelink/internal/usecase"
)

func (h *Handler) ListCaregivers(w http.ResponseWriter, r *http.Request) {
	h.browse(w, r, profile.RoleCaregiver)
}

func (h *Handler) ListCareseekers(w http.ResponseWriter, r *http.Request) {
	h.browse(w, r, profile.RoleCareseeker)
}

func (h *Handler) browse(w http.ResponseWriter, r *http.Request, role profile.Role) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Browse")
	defer span.End()

	query, err := parseListingQuery(r, role)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	page, err := h.listingService.Browse(ctx, query)
	if err != nil {
		h.logger.WarnContext(ctx, "browse listings failed", "role", string(role), "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]listingCardDTO, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, listingCardToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, listingPageDTO{
		Items:      items,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	})
}

func parseListingQuery(r *http.Request, role profile.Role) (listing.Query, error) {
	values := r.URL.Query()
	query := listing.Query{
		Role:     role,
		Search:   values.Get("q"),
		Category: values.Get("category"),
		Location: values.Get("location"),
	}

	var err error
	if query.Page, err = parseOptionalInt(values.Get("page"), "page"); err != nil {
		return listing.Query{}, err
	}
	if query.PageSize, err = parseOptionalInt(values.Get("page_size"), "page_size"); err != nil {
		return listing.Query{}, err
	}
	return query, nil
}

func parseOptionalInt(raw, field string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", usecase.ErrInvalidInput, field)
	}
	return v, nil
}
