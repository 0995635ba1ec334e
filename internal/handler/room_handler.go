/*
Package handler provides HTTP handler functions for inspecting active rooms and
sharing room invites.
*/
package handler

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"triviaroom/internal/app/game"
	"triviaroom/internal/app/player"
	"triviaroom/internal/app/session"
	"triviaroom/internal/pkg/errs"
	"triviaroom/internal/pkg/logx"
	"triviaroom/internal/pkg/resp"
)

// RoomSummary is one entry of the room list.
type RoomSummary struct {
	Room            string `json:"room"`
	NumberOfPlayers int    `json:"numberOfPlayers"`
}

// RoomDetail is a room's membership plus its game state.
type RoomDetail struct {
	session.RoomInfo
	Game game.Snapshot `json:"game"`
}

// HandleListRooms creates an HTTP HandlerFunc that lists rooms with at least one player.
func HandleListRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms := deps.Registry.Rooms()

		summaries := make([]RoomSummary, 0, len(rooms))
		for _, room := range rooms {
			summaries = append(summaries, RoomSummary{
				Room:            room,
				NumberOfPlayers: len(deps.Registry.ListRoom(room)),
			})
		}

		resp.RespondSuccess(w, r, map[string]any{
			"rooms": summaries,
		})
	}
}

// HandleGetRoom creates an HTTP HandlerFunc that describes one room.
// The correct answer is never part of the response.
func HandleGetRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room := player.Normalize(chi.URLParam(r, "room"))
		if room == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		players := deps.Registry.ListRoom(room)
		if len(players) == 0 {
			resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
			return
		}

		resp.RespondSuccess(w, r, RoomDetail{
			RoomInfo: session.NewRoomInfo(room, players),
			Game:     deps.Tracker.Snapshot(room),
		})
	}
}

// InviteQRSize is the edge length in pixels of invite QR codes.
const InviteQRSize = 320

// HandleRoomInviteQR creates an HTTP HandlerFunc that renders a PNG QR code
// pointing at the game page with the room preselected.
func HandleRoomInviteQR(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room := player.Normalize(chi.URLParam(r, "room"))
		if room == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		png, err := qrcode.Encode(InviteURL(r, room), qrcode.Medium, InviteQRSize)
		if err != nil {
			logx.Error(err, "QR generation failed", "room", room)
			resp.RespondError(w, r, errs.Wrap(errs.ErrUnknown, err))
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		if _, err := w.Write(png); err != nil {
			logx.Warn("Failed to write invite QR", "room", room, "error", err.Error())
		}
	}
}

// InviteURL is the address players open to join room. The scheme respects TLS
// and X-Forwarded-Proto.
func InviteURL(r *http.Request, room string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     "/",
		RawQuery: url.Values{"room": {room}}.Encode(),
	}

	return u.String()
}
