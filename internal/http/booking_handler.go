package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/booking"
)

type bookingService interface {
	CreateBooking(ctx context.Context, params application.CreateBookingParams) (booking.Booking, error)
	ListBookings(ctx context.Context, asOf time.Time) ([]application.BookingView, error)
	CheckIn(ctx context.Context, bookingID string, asOf time.Time) (bool, error)
	Cancel(ctx context.Context, bookingID string, asOf time.Time) (application.CancelResult, error)
	ReconcileMissedCheckIns(ctx context.Context, asOf time.Time) (int, error)
	ResolveRoomToken(ctx context.Context, token string, asOf time.Time) (booking.Booking, error)
}

type BookingHandler struct {
	service   bookingService
	responder responder
	logger    *slog.Logger
}

func NewBookingHandler(service bookingService, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	return &BookingHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookingHandler", operation, attrs...)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	params, vErr := req.toParams()
	if vErr.HasErrors() {
		h.log(r.Context(), "Create", "error_kind", "validation").ErrorContext(r.Context(), "booking request failed validation")
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	logger := h.log(r.Context(), "Create", "room_id", params.RoomID, "slot_id", params.SlotID.String())

	created, err := h.service.CreateBooking(r.Context(), params)
	if err != nil {
		logger.ErrorContext(r.Context(), "booking creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booking_id", created.ID).InfoContext(r.Context(), "booking created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, bookingResponse{Booking: toBookingDTO(created, "")})
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	asOf, err := parseAsOfQuery(r)
	if err != nil {
		h.log(r.Context(), "List", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid as_of parameter", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAsOf)
		return
	}

	logger := h.log(r.Context(), "List")

	views, err := h.service.ListBookings(r.Context(), asOf)
	if err != nil {
		logger.ErrorContext(r.Context(), "booking list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(views)).InfoContext(r.Context(), "bookings listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listBookingsResponse{Bookings: toBookingDTOs(views)})
}

func (h *BookingHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.log(r.Context(), "CheckIn", "error_kind", "bad_request").ErrorContext(r.Context(), "missing booking id for check-in")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	asOf, asOfErr := decodeAsOfBody(r)
	if asOfErr != nil {
		h.log(r.Context(), "CheckIn", "booking_id", bookingID, "error_kind", "bad_request").ErrorContext(r.Context(), "invalid as_of field", "error", asOfErr)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAsOf)
		return
	}

	logger := h.log(r.Context(), "CheckIn", "booking_id", bookingID)

	ok, err := h.service.CheckIn(r.Context(), bookingID, asOf)
	if err != nil {
		logger.ErrorContext(r.Context(), "check-in failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("success", ok).InfoContext(r.Context(), "check-in processed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, checkInResponse{Success: ok})
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.log(r.Context(), "Cancel", "error_kind", "bad_request").ErrorContext(r.Context(), "missing booking id for cancellation")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	asOf, asOfErr := decodeAsOfBody(r)
	if asOfErr != nil {
		h.log(r.Context(), "Cancel", "booking_id", bookingID, "error_kind", "bad_request").ErrorContext(r.Context(), "invalid as_of field", "error", asOfErr)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAsOf)
		return
	}

	logger := h.log(r.Context(), "Cancel", "booking_id", bookingID)

	result, err := h.service.Cancel(r.Context(), bookingID, asOf)
	if err != nil {
		logger.ErrorContext(r.Context(), "cancellation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("success", result.Success, "penalty_applied", result.PenaltyApplied).InfoContext(r.Context(), "cancellation processed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, cancelResponse{
		Success:        result.Success,
		PenaltyApplied: result.PenaltyApplied,
	})
}

func (h *BookingHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	asOf, asOfErr := decodeAsOfBody(r)
	if asOfErr != nil {
		h.log(r.Context(), "Reconcile", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid as_of field", "error", asOfErr)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAsOf)
		return
	}

	logger := h.log(r.Context(), "Reconcile")

	count, err := h.service.ReconcileMissedCheckIns(r.Context(), asOf)
	if err != nil {
		logger.ErrorContext(r.Context(), "reconciliation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("missed_count", count).InfoContext(r.Context(), "reconciliation processed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, reconcileResponse{Count: count})
}

// Scan resolves a scanned room token to the eligible booking and checks it in
// as a single step.
func (h *BookingHandler) Scan(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Scan", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode scan request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	token := strings.TrimSpace(req.Token)
	if token == "" {
		vErr := &application.ValidationError{FieldErrors: map[string]string{"token": "token is required"}}
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	asOf, asOfErr := parseAsOfField(req.AsOf)
	if asOfErr != nil {
		h.log(r.Context(), "Scan", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid as_of field", "error", asOfErr)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAsOf)
		return
	}

	logger := h.log(r.Context(), "Scan")

	resolved, err := h.service.ResolveRoomToken(r.Context(), token, asOf)
	if err != nil {
		logger.ErrorContext(r.Context(), "token resolution failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	ok, err := h.service.CheckIn(r.Context(), resolved.ID, asOf)
	if err != nil {
		logger.ErrorContext(r.Context(), "check-in failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booking_id", resolved.ID, "success", ok).InfoContext(r.Context(), "scan processed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, scanResponse{
		Success:   ok,
		BookingID: resolved.ID,
		RoomName:  resolved.RoomName,
	})
}

type createBookingRequest struct {
	RoomID string `json:"room_id"`
	Date   string `json:"date"`
	SlotID string `json:"slot_id"`
	AsOf   string `json:"as_of"`
}

func (r createBookingRequest) toParams() (application.CreateBookingParams, *application.ValidationError) {
	vErr := &application.ValidationError{FieldErrors: map[string]string{}}
	params := application.CreateBookingParams{RoomID: strings.TrimSpace(r.RoomID)}

	if params.RoomID == "" {
		vErr.FieldErrors["room_id"] = "room_id is required"
	}

	date, err := parseDate(r.Date)
	if err != nil {
		vErr.FieldErrors["date"] = "date must be formatted as YYYY-MM-DD"
	} else {
		params.Date = date
	}

	slotID, err := uuid.Parse(strings.TrimSpace(r.SlotID))
	if err != nil {
		vErr.FieldErrors["slot_id"] = "slot_id must be a valid UUID"
	} else {
		params.SlotID = slotID
	}

	asOf, err := parseAsOfField(r.AsOf)
	if err != nil {
		vErr.FieldErrors["as_of"] = "as_of must be an RFC 3339 timestamp"
	} else {
		params.AsOf = asOf
	}

	return params, vErr
}

type asOfRequest struct {
	AsOf string `json:"as_of"`
}

// decodeAsOfBody tolerates an empty body so clients without a pinned instant
// can POST without a payload.
func decodeAsOfBody(r *http.Request) (time.Time, error) {
	var req asOfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return time.Time{}, err
	}
	return parseAsOfField(req.AsOf)
}

type scanRequest struct {
	Token string `json:"token"`
	AsOf  string `json:"as_of"`
}

type bookingResponse struct {
	Booking bookingDTO `json:"booking"`
}

type listBookingsResponse struct {
	Bookings []bookingDTO `json:"bookings"`
}

type checkInResponse struct {
	Success bool `json:"success"`
}

type cancelResponse struct {
	Success        bool `json:"success"`
	PenaltyApplied bool `json:"penalty_applied"`
}

type reconcileResponse struct {
	Count int `json:"count"`
}

type scanResponse struct {
	Success   bool   `json:"success"`
	BookingID string `json:"booking_id"`
	RoomName  string `json:"room_name,omitempty"`
}

type bookingDTO struct {
	ID            string `json:"id"`
	RoomID        string `json:"room_id"`
	RoomName      string `json:"room_name"`
	Date          string `json:"date"`
	Start         string `json:"start"`
	End           string `json:"end"`
	CheckedIn     bool   `json:"checked_in"`
	CheckedInAt   string `json:"checked_in_at,omitempty"`
	MissedCheckIn bool   `json:"missed_check_in"`
	Cancelled     bool   `json:"cancelled"`
	Status        string `json:"status,omitempty"`
}

func toBookingDTO(b booking.Booking, status booking.Status) bookingDTO {
	dto := bookingDTO{
		ID:            b.ID,
		RoomID:        b.RoomID,
		RoomName:      b.RoomName,
		Date:          b.Date.UTC().Format(dateLayout),
		Start:         b.Start.UTC().Format(time.RFC3339),
		End:           b.End.UTC().Format(time.RFC3339),
		CheckedIn:     b.CheckedIn,
		MissedCheckIn: b.MissedCheckIn,
		Cancelled:     b.Cancelled,
		Status:        string(status),
	}
	if b.CheckedInAt != nil {
		dto.CheckedInAt = b.CheckedInAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func toBookingDTOs(views []application.BookingView) []bookingDTO {
	if len(views) == 0 {
		return nil
	}
	out := make([]bookingDTO, 0, len(views))
	for _, view := range views {
		out = append(out, toBookingDTO(view.Booking, view.Status))
	}
	return out
}
