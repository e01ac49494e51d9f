package room

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"holdempoker-server/internal/rng"
)

const roomCodeLength = 6

// ambiguous characters are left out of join codes
const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Lobby is responsible for dispatching players to sessions
type Lobby struct {
	options    Options
	lock       sync.RWMutex
	sessions   map[string]*Session
	connect    chan *Client
	disconnect chan *Client
	codeRNG    rng.Generator
	playerID   int64
}

// NewLobby returns a new dispatch object
func NewLobby(options Options) *Lobby {
	return &Lobby{
		options:    options,
		sessions:   make(map[string]*Session),
		connect:    make(chan *Client, 256),
		disconnect: make(chan *Client, 256),
		codeRNG:    rng.Crypto{},
	}
}

// StartShift starts the lobby run loop
func (l *Lobby) StartShift() {
	go l.runLoop()
}

func (l *Lobby) runLoop() {
	for {
		select {
		case client := <-l.connect:
			logrus.WithField("player", client.String()).Debug("client connected")
			client.session.AddClient(client)
		case client := <-l.disconnect:
			logrus.WithField("player", client.String()).Debug("client disconnected")
			session := client.session
			if session == nil {
				continue
			}

			if session.RemoveClient(client) {
				// drop the room from the registry before stopping its run
				// loop so a concurrent List() never waits on a dead session
				l.lock.Lock()
				delete(l.sessions, session.Code())
				l.lock.Unlock()

				session.EndShift()
				logrus.WithField("room", session.Code()).Debug("room closed")
			}
		}
	}
}

// ClientConnected is called when a client connects to the server
func (l *Lobby) ClientConnected(session *Session, client *Client) {
	client.session = session
	l.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (l *Lobby) ClientDisconnected(client *Client) {
	l.disconnect <- client
}

// NextPlayerID hands out seat identities for humans and bots alike
func (l *Lobby) NextPlayerID() int64 {
	return atomic.AddInt64(&l.playerID, 1)
}

// CreateRoom registers a new session under a fresh join code
func (l *Lobby) CreateRoom(name, password string) (*Session, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	code := l.newCode()
	for {
		if _, taken := l.sessions[code]; !taken {
			break
		}

		code = l.newCode()
	}

	session, err := NewSession(code, name, password, l.options, l.NextPlayerID)
	if err != nil {
		return nil, err
	}

	session.StartShift()
	l.sessions[code] = session

	logrus.WithFields(logrus.Fields{
		"room": code,
		"name": name,
	}).Info("room created")

	return session, nil
}

func (l *Lobby) newCode() string {
	var sb strings.Builder
	for i := 0; i < roomCodeLength; i++ {
		sb.WriteByte(roomCodeAlphabet[l.codeRNG.Intn(len(roomCodeAlphabet))])
	}

	return sb.String()
}

// Authorize resolves a join code and checks the password
func (l *Lobby) Authorize(code, password string) (*Session, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	session, ok := l.sessions[strings.ToUpper(code)]
	if !ok {
		return nil, ErrRoomNotFound
	}

	if !session.checkPassword(password) {
		return nil, ErrInvalidPassword
	}

	return session, nil
}

// RoomSummary is a lobby listing of one room
type RoomSummary struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Occupied    int    `json:"occupied"`
	MaxSeats    int    `json:"maxSeats"`
	HasPassword bool   `json:"hasPassword"`
}

// List returns every open room, ordered by code
func (l *Lobby) List() []RoomSummary {
	l.lock.RLock()
	defer l.lock.RUnlock()

	summaries := make([]RoomSummary, 0, len(l.sessions))
	for code, session := range l.sessions {
		summaries = append(summaries, RoomSummary{
			Code:        code,
			Name:        session.Name(),
			Occupied:    session.Occupancy(),
			MaxSeats:    session.options.MaxSeats,
			HasPassword: session.HasPassword(),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Code < summaries[j].Code
	})

	return summaries
}
