package mux

import (
	"errors"
	"net/http"
	"strings"
)

const maxRoomNameLength = 50

type createRoomRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type createRoomResponse struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	HasPassword bool   `json:"hasPassword"`
}

func (m *Mux) getRooms() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, m.lobby.List())
	}
}

func (m *Mux) postRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createRoomRequest
		if !decodeRequest(w, r, &payload) {
			return
		}

		name := strings.TrimSpace(payload.Name)
		if name == "" {
			writeJSONError(w, http.StatusBadRequest, errors.New("room name is required"))
			return
		}

		if len(name) > maxRoomNameLength {
			writeJSONError(w, http.StatusBadRequest, errors.New("room name is too long"))
			return
		}

		session, err := m.lobby.CreateRoom(name, payload.Password)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusCreated, createRoomResponse{
			Code:        session.Code(),
			Name:        session.Name(),
			HasPassword: session.HasPassword(),
		})
	}
}
