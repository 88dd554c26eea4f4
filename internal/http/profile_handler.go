package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/room-booking/internal/application"
)

type profileService interface {
	GetUser(ctx context.Context) (application.UserProfile, error)
	ReduceStrikes(ctx context.Context, asOf time.Time) (application.UserProfile, error)
}

type ProfileHandler struct {
	service   profileService
	responder responder
	logger    *slog.Logger
}

func NewProfileHandler(service profileService, logger *slog.Logger) *ProfileHandler {
	base := defaultLogger(logger)
	return &ProfileHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ProfileHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ProfileHandler", operation, attrs...)
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "Get")

	profile, err := h.service.GetUser(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "profile fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, profileResponse{Profile: toProfileDTO(profile)})
}

func (h *ProfileHandler) ReduceStrikes(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	asOf, asOfErr := decodeAsOfBody(r)
	if asOfErr != nil {
		h.log(r.Context(), "ReduceStrikes", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid as_of field", "error", asOfErr)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAsOf)
		return
	}

	logger := h.log(r.Context(), "ReduceStrikes")

	profile, err := h.service.ReduceStrikes(r.Context(), asOf)
	if err != nil {
		logger.ErrorContext(r.Context(), "strike reduction failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("strikes", profile.Strikes).InfoContext(r.Context(), "strike reduction processed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, profileResponse{Profile: toProfileDTO(profile)})
}

type profileResponse struct {
	Profile profileDTO `json:"profile"`
}

type profileDTO struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	Strikes             int    `json:"strikes"`
	CanBook             bool   `json:"can_book"`
	LastStrikeReduction string `json:"last_strike_reduction,omitempty"`
}

func toProfileDTO(profile application.UserProfile) profileDTO {
	dto := profileDTO{
		ID:      profile.ID,
		Name:    profile.Name,
		Email:   profile.Email,
		Strikes: profile.Strikes,
		CanBook: profile.CanBook,
	}
	if profile.LastStrikeReduction != nil {
		dto.LastStrikeReduction = profile.LastStrikeReduction.UTC().Format(time.RFC3339)
	}
	return dto
}
