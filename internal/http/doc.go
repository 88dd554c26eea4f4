// Package http provides HTTP handlers and middleware for the room booking API.
//
// The router exposes the following endpoints:
//   - GET /rooms: the bookable room catalog exchanging the `roomDTO` payload
//     defined in room_handler.go.
//   - GET /rooms/{id}/slots?date=YYYY-MM-DD: the hourly availability grid for a
//     room on a calendar day. Fourteen slots are always returned; taken slots
//     carry available=false.
//   - POST /bookings: reserves a slot. Body: {"room_id","date","slot_id"}.
//     Returns 409 with error_code SLOT_UNAVAILABLE when the slot is taken and
//     409 with error_code BOOKING_BLOCKED when the strike ledger forbids new
//     bookings.
//   - GET /bookings: every booking annotated with its derived status.
//   - POST /bookings/{id}/checkin: confirms occupancy. Responds {"success":false}
//     outside the check-in window rather than an error status.
//   - POST /bookings/{id}/cancel: cancels a booking; the response carries
//     penalty_applied so clients can surface the strike.
//   - POST /reconcile: sweeps missed check-ins; the response carries the number
//     of bookings newly flagged.
//   - GET /profile, POST /profile/strike-reduction: the strike ledger surface.
//   - POST /checkin/scan: resolves a scanned room token to the eligible booking
//     and checks it in. Body: {"token"}.
//
// Time-sensitive endpoints accept an optional as_of parameter (query on GETs,
// body field on POSTs, RFC 3339) that pins the evaluation instant; when absent
// the server clock is used.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
