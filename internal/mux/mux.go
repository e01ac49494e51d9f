package mux

import (
	"net/http"

	gmux "github.com/gorilla/mux"

	"holdempoker-server/pkg/room"
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	lobby   *room.Lobby
}

// NewMux returns a new HTTP mux
func NewMux(version string, lobby *room.Lobby) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		lobby:   lobby,
	}

	r := this.Router
	r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	r.Methods(http.MethodGet).Path("/room").Handler(this.getRooms())
	r.Methods(http.MethodPost).Path("/room").Handler(this.postRoom())
	r.Methods(http.MethodGet).Path("/room/{code:[A-Za-z0-9]{6}}/ws").Handler(this.getRoomCodeWS())

	return this
}
