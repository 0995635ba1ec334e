/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate limiting,
upgrading the HTTP connection to WebSocket, and handing the connection to the session Hub.
Players pick their name and room later with a join event.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"triviaroom/internal/app/session"
	"triviaroom/internal/pkg/errs"
	"triviaroom/internal/pkg/limiter"
	"triviaroom/internal/pkg/logx"
	"triviaroom/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rateLimiter.Allow(r) {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", logx.AnonymizeIP(limiter.ClientIP(r)))
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := session.NewClient(deps.Hub, conn)

		if !deps.Hub.Register(client) {
			logx.Warn("WebSocket connection rejected: Hub is shutting down.", "client_id", client.ID())
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			_ = conn.Close()
			return
		}

		go client.WritePump()

		logx.Info("WebSocket connection established and client registered", "client_id", client.ID())

		client.ReadPump()
	}
}
