package handler

import (
	"triviaroom/internal/app/game"
	"triviaroom/internal/app/player"
	"triviaroom/internal/app/session"
	"triviaroom/internal/configs"
)

type AppDeps struct {
	Hub      *session.Hub
	Registry *player.Registry
	Tracker  *game.Tracker
	Config   *configs.AppConfig
}

// NewAppDeps wires the handler dependencies around a running hub.
func NewAppDeps(hub *session.Hub, cfg *configs.AppConfig) *AppDeps {
	return &AppDeps{
		Hub:      hub,
		Registry: hub.Registry(),
		Tracker:  hub.Tracker(),
		Config:   cfg,
	}
}
