package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/booking"
)

type roomService interface {
	ListRooms(ctx context.Context) ([]booking.Room, error)
	GetAvailableSlots(ctx context.Context, roomID string, date time.Time, asOf time.Time) ([]booking.TimeSlot, error)
}

type RoomHandler struct {
	service   roomService
	responder responder
	logger    *slog.Logger
}

func NewRoomHandler(service roomService, logger *slog.Logger) *RoomHandler {
	base := defaultLogger(logger)
	return &RoomHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RoomHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RoomHandler", operation, attrs...)
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")
	rooms, err := h.service.ListRooms(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "room list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(rooms)).InfoContext(r.Context(), "rooms listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomsResponse{Rooms: toRoomDTOs(rooms)})
}

func (h *RoomHandler) Slots(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(roomID) == "" {
		h.log(r.Context(), "Slots", "error_kind", "bad_request").ErrorContext(r.Context(), "missing room id for slot listing")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.log(r.Context(), "Slots", "room_id", roomID, "error_kind", "bad_request").ErrorContext(r.Context(), "invalid date parameter", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return
	}

	asOf, err := parseAsOfQuery(r)
	if err != nil {
		h.log(r.Context(), "Slots", "room_id", roomID, "error_kind", "bad_request").ErrorContext(r.Context(), "invalid as_of parameter", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidAsOf)
		return
	}

	logger := h.log(r.Context(), "Slots", "room_id", roomID, "date", date.Format(dateLayout))

	slots, err := h.service.GetAvailableSlots(r.Context(), roomID, date, asOf)
	if err != nil {
		logger.ErrorContext(r.Context(), "slot listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(slots)).InfoContext(r.Context(), "slots listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listSlotsResponse{Slots: toSlotDTOs(slots)})
}

type listRoomsResponse struct {
	Rooms []roomDTO `json:"rooms"`
}

type listSlotsResponse struct {
	Slots []slotDTO `json:"slots"`
}

type roomDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Building  string   `json:"building"`
	Floor     int      `json:"floor"`
	Capacity  int      `json:"capacity"`
	Amenities []string `json:"amenities"`
	Location  string   `json:"location"`
	ImageRef  string   `json:"image_ref,omitempty"`
}

type slotDTO struct {
	ID        string `json:"id"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

func toRoomDTO(room booking.Room) roomDTO {
	amenities := make([]string, 0, len(room.Amenities))
	for _, a := range room.Amenities {
		amenities = append(amenities, string(a))
	}
	return roomDTO{
		ID:        room.ID,
		Name:      room.Name,
		Building:  room.Building,
		Floor:     room.Floor,
		Capacity:  room.Capacity,
		Amenities: amenities,
		Location:  room.Location(),
		ImageRef:  room.ImageRef,
	}
}

func toRoomDTOs(rooms []booking.Room) []roomDTO {
	if len(rooms) == 0 {
		return nil
	}
	out := make([]roomDTO, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toRoomDTO(room))
	}
	return out
}

func toSlotDTOs(slots []booking.TimeSlot) []slotDTO {
	if len(slots) == 0 {
		return nil
	}
	out := make([]slotDTO, 0, len(slots))
	for _, slot := range slots {
		out = append(out, slotDTO{
			ID:        slot.ID.String(),
			Start:     slot.Start.UTC().Format(time.RFC3339),
			End:       slot.End.UTC().Format(time.RFC3339),
			Available: slot.Available,
		})
	}
	return out
}
