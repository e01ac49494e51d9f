package room

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/thoas/go-funk"
	"github.com/weedbox/timebank"

	"holdempoker-server/internal/util"
	"holdempoker-server/pkg/holdem"
	"holdempoker-server/pkg/poker"
)

type state int

const (
	stateClientEvent state = iota
	stateGameEvent
)

// Options configures a session
type Options struct {
	Game          holdem.Options
	StartingStack int
	MaxSeats      int
	EquityTrials  int

	// pacing
	BotThinkTime   time.Duration
	ShowdownDelay  time.Duration
	FoldedWinDelay time.Duration
}

// DefaultOptions returns the standard table configuration
func DefaultOptions() Options {
	return Options{
		Game:           holdem.DefaultOptions(),
		StartingStack:  1000,
		MaxSeats:       8,
		EquityTrials:   poker.DefaultEquityTrials,
		BotThinkTime:   time.Second,
		ShowdownDelay:  time.Second * 5,
		FoldedWinDelay: time.Second * 3,
	}
}

// Session is one poker table: a game, its connected clients, and the run loop
// that owns all mutation
type Session struct {
	code     string
	name     string
	password string
	options  Options
	nextID   func() int64

	clients map[*Client]bool
	lock    sync.RWMutex

	// owned by the run loop
	game      *holdem.Game
	hostID    int64
	paused    bool
	waiting   []*holdem.Player
	bestHands map[int64]*poker.Result

	logMessages []*LogMessage
	scheduler   *timebank.TimeBank

	execInRunLoop chan func()
	stateChanged  chan state
	close         chan bool
	closeOnce     sync.Once
}

// NewSession creates a new session object
// This is called from a blocking state, so it needs to return quickly
func NewSession(code, name, password string, options Options, nextID func() int64) (*Session, error) {
	game, err := holdem.NewGame(logrus.WithField("room", code), options.Game)
	if err != nil {
		return nil, err
	}

	return &Session{
		code:          code,
		name:          name,
		password:      password,
		options:       options,
		nextID:        nextID,
		clients:       make(map[*Client]bool),
		game:          game,
		bestHands:     make(map[int64]*poker.Result),
		scheduler:     timebank.NewTimeBank(),
		execInRunLoop: make(chan func(), 256),
		stateChanged:  make(chan state, 256),
		close:         make(chan bool),
	}, nil
}

// Code returns the join code for the room
func (s *Session) Code() string {
	return s.code
}

// Name returns the room's display name
func (s *Session) Name() string {
	return s.name
}

// HasPassword returns true if the room requires a password to join
func (s *Session) HasPassword() bool {
	return s.password != ""
}

func (s *Session) checkPassword(password string) bool {
	return s.password == "" || s.password == password
}

// Occupancy returns how many seats are taken, waiting players included.
// An ended session reports zero instead of waiting on a run loop that will
// never answer.
func (s *Session) Occupancy() int {
	result := make(chan int, 1)
	select {
	case s.execInRunLoop <- func() {
		result <- len(s.game.Players()) + len(s.waiting)
	}:
	case <-s.close:
		return 0
	}

	select {
	case n := <-result:
		return n
	case <-s.close:
		return 0
	}
}

// Clients will return a slice of connected (at the time) clients
func (s *Session) Clients() []*Client {
	s.lock.RLock()
	defer s.lock.RUnlock()

	clients := make([]*Client, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (s *Session) StartShift() {
	go s.runLoop()
}

func (s *Session) runLoop() {
	log := logrus.WithFields(logrus.Fields{
		"room": s.code,
		"name": s.name,
	})

	log.Debug("creating session run loop")
	for {
		select {
		case st := <-s.stateChanged:
			switch st {
			case stateClientEvent:
				s.sendClientData()
				s.sendGameData()
			case stateGameEvent:
				s.sendGameData()
			}
		case fn := <-s.execInRunLoop:
			fn()
		case <-s.close:
			log.Debug("terminating session run loop")
			s.scheduler.Cancel()
			return
		}
	}
}

// AddClient adds a client
// This method must return quickly
func (s *Session) AddClient(client *Client) {
	s.lock.Lock()
	client.session = s
	s.clients[client] = true
	s.lock.Unlock()

	s.execInRunLoop <- func() {
		s.seatPlayer(client)
	}
	s.stateChanged <- stateClientEvent
}

// RemoveClient removes a client and reports whether it was the last one
// This method must return quickly
func (s *Session) RemoveClient(client *Client) (lastClient bool) {
	s.lock.Lock()
	delete(s.clients, client)
	nClients := len(s.clients)
	s.lock.Unlock()

	if nClients == 0 {
		return true
	}

	s.execInRunLoop <- func() {
		s.unseatPlayer(client)
	}
	s.stateChanged <- stateClientEvent

	return false
}

// EndShift is called when the session is no longer needed. Safe to call
// more than once.
func (s *Session) EndShift() {
	s.closeOnce.Do(func() {
		close(s.close)
	})
}

// NOTE: must only be called from the run loop
func (s *Session) seatPlayer(c *Client) {
	c.Send(&Response{Key: "logs", Data: s.logMessages})

	if len(s.game.Players())+len(s.waiting) >= s.options.MaxSeats {
		c.Send(newErrorResponse("", ErrRoomFull))
		return
	}

	player := holdem.NewPlayer(c.PlayerID, c.Name, s.options.StartingStack, holdem.ControllerHuman)
	if s.game.HandInProgress() {
		s.waiting = append(s.waiting, player)
		s.addLogMessages(newLogMessage(c.PlayerID, "%s is waiting for the next hand", c.Name))
	} else {
		if err := s.game.AddPlayer(player); err != nil {
			c.Send(newErrorResponse("", err))
			return
		}

		s.addLogMessages(newLogMessage(c.PlayerID, "%s joined the table", c.Name))
	}

	if s.hostID == 0 {
		s.hostID = c.PlayerID
		s.addLogMessages(newLogMessage(c.PlayerID, "%s is the host", c.Name))
	}
}

// NOTE: must only be called from the run loop
func (s *Session) unseatPlayer(c *Client) {
	for i, p := range s.waiting {
		if p.ID == c.PlayerID {
			s.waiting = append(s.waiting[:i], s.waiting[i+1:]...)
			s.addLogMessages(newLogMessage(0, "%s left the table", c.Name))
			s.migrateHost(c.PlayerID)
			return
		}
	}

	inHand := s.game.HandInProgress()
	if inHand {
		s.game.CancelHand()
		s.cancelScheduled()
		s.addLogMessages(newLogMessage(0, "hand abandoned"))
	}

	if err := s.game.RemovePlayer(c.PlayerID); err != nil {
		logrus.WithError(err).WithField("client", c.String()).Warn("could not unseat player")
	} else {
		s.addLogMessages(newLogMessage(0, "%s left the table", c.Name))
	}

	s.migrateHost(c.PlayerID)

	if inHand {
		// redeal if the table still has a game, otherwise wait for the host
		if err := s.startHand(); err != nil {
			s.pause()
		}
	}

	s.stateChanged <- stateGameEvent
}

// NOTE: must only be called from the run loop
func (s *Session) migrateHost(departedID int64) {
	if s.hostID != departedID {
		return
	}

	s.hostID = 0
	for _, p := range s.game.Players() {
		if p.Controller == holdem.ControllerHuman {
			s.hostID = p.ID
			s.addLogMessages(newLogMessage(p.ID, "%s is now the host", p.Name))
			return
		}
	}

	for _, p := range s.waiting {
		if p.Controller == holdem.ControllerHuman {
			s.hostID = p.ID
			s.addLogMessages(newLogMessage(p.ID, "%s is now the host", p.Name))
			return
		}
	}
}

// startHand merges the waiting list into the table and deals
// NOTE: must only be called from the run loop
func (s *Session) startHand() error {
	for _, p := range s.waiting {
		if err := s.game.AddPlayer(p); err != nil {
			logrus.WithError(err).WithField("player", p.Name).Warn("could not seat waiting player")
			continue
		}

		s.addLogMessages(newLogMessage(p.ID, "%s sat down", p.Name))
	}
	s.waiting = nil

	if err := s.game.StartHand(); err != nil {
		return err
	}

	s.paused = false
	s.addLogMessages(newLogMessage(0, "hand #%d dealt", s.game.HandCount()))
	s.stateChanged <- stateGameEvent
	s.afterGameEvent()

	return nil
}

// NOTE: must only be called from the run loop
func (s *Session) pause() {
	s.paused = true
	s.cancelScheduled()
	s.addLogMessages(newLogMessage(0, "not enough players; waiting on the host"))
}

// a timebank only holds one task, so cancelling means rebuilding it
func (s *Session) cancelScheduled() {
	s.scheduler.Cancel()
	s.scheduler = timebank.NewTimeBank()
}

// afterGameEvent runs the follow-up to any successful game mutation: either
// the hand is over and the next one gets scheduled, or a scripted player may
// be up
// NOTE: must only be called from the run loop
func (s *Session) afterGameEvent() {
	if !s.game.HandInProgress() {
		s.handFinished()
		return
	}

	s.maybeScheduleBot()
}

// NOTE: must only be called from the run loop
func (s *Session) handFinished() {
	payouts := s.game.Payouts()
	if len(payouts) == 0 {
		// the hand was aborted, not resolved
		return
	}

	showdown := s.game.Phase() == holdem.PhaseShowdown
	if showdown {
		s.recordBestHands()
	}

	for _, payout := range payouts {
		name := s.playerName(payout.PlayerID)
		s.addLogMessages(newLogMessage(payout.PlayerID, "%s wins %d (%s)", name, payout.Amount, payout.HandName))
	}

	delay := s.options.FoldedWinDelay
	if showdown {
		delay = s.options.ShowdownDelay
	}

	s.scheduleNextHand(delay)
}

// NOTE: must only be called from the run loop
func (s *Session) scheduleNextHand(delay time.Duration) {
	generation := s.game.HandCount()
	_ = s.scheduler.NewTask(delay, func(isCancelled bool) {
		if isCancelled {
			return
		}

		s.execInRunLoop <- func() {
			if s.paused || s.game.HandInProgress() || s.game.HandCount() != generation {
				return
			}

			if err := s.startHand(); err != nil {
				s.pause()
				s.stateChanged <- stateGameEvent
			}
		}
	})
}

// NOTE: must only be called from the run loop
func (s *Session) maybeScheduleBot() {
	seat := s.game.ActiveSeat()
	if seat < 0 {
		return
	}

	p := s.game.Players()[seat]
	if p.Controller != holdem.ControllerScripted {
		return
	}

	generation := s.game.HandCount()
	_ = s.scheduler.NewTask(s.options.BotThinkTime, func(isCancelled bool) {
		if isCancelled {
			return
		}

		s.execInRunLoop <- func() {
			if !s.game.HandInProgress() || s.game.HandCount() != generation || s.game.ActiveSeat() != seat {
				return
			}

			action := botAction(s.game, seat, s.options.EquityTrials)
			if err := s.game.Act(seat, action); err != nil {
				logrus.WithError(err).WithField("player", p.Name).Error("bot played an illegal action")
				action = holdem.Action{Type: holdem.ActionFold}
				if err := s.game.Act(seat, action); err != nil {
					return
				}
			}

			s.addLogMessages(newLogMessage(p.ID, "%s %s", p.Name, describeAction(action, s.game)))
			s.stateChanged <- stateGameEvent
			s.afterGameEvent()
		}
	})
}

// recordBestHands upgrades each live player's personal best. Only a strictly
// higher category counts as an upgrade.
// NOTE: must only be called from the run loop
func (s *Session) recordBestHands() {
	community := s.game.Community()
	for _, p := range s.game.Players() {
		if len(p.HoleCards) != 2 || p.Folded {
			continue
		}

		result, err := poker.Evaluate(p.HoleCards, community)
		if err != nil {
			logrus.WithError(err).WithField("player", p.Name).Error("could not evaluate hand")
			continue
		}

		if s.recordBest(p.ID, result) {
			s.addLogMessages(newLogMessage(p.ID, "%s made a new personal best: %s", p.Name, result.Name()))
		}
	}
}

// recordBest stores the result if it strictly beats the player's best category.
// It returns true when the record changed, the first showdown included.
func (s *Session) recordBest(playerID int64, result *poker.Result) bool {
	best, ok := s.bestHands[playerID]
	if ok && result.Category <= best.Category {
		return false
	}

	s.bestHands[playerID] = result

	return true
}

// ReceivedMessage is called when a client sends a message to the server
func (s *Session) ReceivedMessage(c *Client, msg *PayloadIn) {
	switch msg.Action {
	case "startHand":
		s.execInRunLoop <- func() {
			if !s.isHost(c) {
				c.Send(newErrorResponse(msg.Context, ErrNotHost))
				return
			}

			if s.game.HandInProgress() {
				c.Send(newErrorResponse(msg.Context, holdem.ErrHandInProgress))
				return
			}

			if err := s.startHand(); err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			c.Send(OK(msg.Context))
		}
	case "addBot":
		s.execInRunLoop <- func() {
			if !s.isHost(c) {
				c.Send(newErrorResponse(msg.Context, ErrNotHost))
				return
			}

			if err := s.addBot(); err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			c.Send(OK(msg.Context))
			s.stateChanged <- stateClientEvent
		}
	case "fold", "check", "call", "raise", "allIn":
		s.execInRunLoop <- func() {
			s.handleAction(c, msg)
		}
	default:
		logrus.WithField("msg", msg).Warn("unknown message")
	}
}

// NOTE: must only be called from the run loop
func (s *Session) isHost(c *Client) bool {
	return s.hostID != 0 && s.hostID == c.PlayerID
}

// NOTE: must only be called from the run loop
func (s *Session) addBot() error {
	if len(s.game.Players())+len(s.waiting) >= s.options.MaxSeats {
		return ErrRoomFull
	}

	name := util.GetRandomName() + " (bot)"
	bot := holdem.NewPlayer(s.nextID(), name, s.options.StartingStack, holdem.ControllerScripted)

	if s.game.HandInProgress() {
		s.waiting = append(s.waiting, bot)
		s.addLogMessages(newLogMessage(bot.ID, "%s is waiting for the next hand", name))
		return nil
	}

	if err := s.game.AddPlayer(bot); err != nil {
		return err
	}

	s.addLogMessages(newLogMessage(bot.ID, "%s joined the table", name))

	return nil
}

// NOTE: must only be called from the run loop
func (s *Session) handleAction(c *Client, msg *PayloadIn) {
	amount, _ := msg.AdditionalData.GetInt("amount")
	action, err := holdem.ActionFromString(msg.Action, amount)
	if err != nil {
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	seat, ok := s.seatOf(c.PlayerID)
	if !ok {
		c.Send(newErrorResponse(msg.Context, ErrNotSeated))
		return
	}

	if err := s.game.Act(seat, action); err != nil {
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	c.Send(OK(msg.Context))
	s.addLogMessages(newLogMessage(c.PlayerID, "%s %s", c.Name, describeAction(action, s.game)))
	s.stateChanged <- stateGameEvent
	s.afterGameEvent()
}

// NOTE: must only be called from the run loop
func (s *Session) seatOf(playerID int64) (int, bool) {
	for seat, p := range s.game.Players() {
		if p.ID == playerID {
			return seat, true
		}
	}

	return 0, false
}

// NOTE: must only be called from the run loop
func (s *Session) playerName(playerID int64) string {
	if seat, ok := s.seatOf(playerID); ok {
		return s.game.Players()[seat].Name
	}

	return fmt.Sprintf("player %d", playerID)
}

func describeAction(action holdem.Action, g *holdem.Game) string {
	switch action.Type {
	case holdem.ActionFold:
		return "folds"
	case holdem.ActionCheck:
		return "checks"
	case holdem.ActionCall:
		return "calls"
	case holdem.ActionRaise:
		return fmt.Sprintf("raises to %d", g.CurrentHighBet())
	case holdem.ActionAllIn:
		return "is all-in"
	}

	return string(action.Type)
}

type clientStatePlayer struct {
	PlayerID    int64  `json:"playerId"`
	Name        string `json:"name"`
	IsConnected bool   `json:"isConnected"`
	IsSeated    bool   `json:"isSeated"`
	IsBot       bool   `json:"isBot"`
}

// NOTE: must only be called from the run loop
func (s *Session) sendClientData() {
	connected := make(map[int64]bool)
	for _, client := range s.Clients() {
		connected[client.PlayerID] = true
	}

	csPlayers := make(map[int64]*clientStatePlayer)
	for _, p := range s.game.Players() {
		csPlayers[p.ID] = &clientStatePlayer{
			PlayerID:    p.ID,
			Name:        p.Name,
			IsConnected: connected[p.ID] || p.Controller == holdem.ControllerScripted,
			IsSeated:    true,
			IsBot:       p.Controller == holdem.ControllerScripted,
		}
	}

	for _, p := range s.waiting {
		csPlayers[p.ID] = &clientStatePlayer{
			PlayerID:    p.ID,
			Name:        p.Name,
			IsConnected: connected[p.ID] || p.Controller == holdem.ControllerScripted,
			IsSeated:    false,
			IsBot:       p.Controller == holdem.ControllerScripted,
		}
	}

	for _, client := range s.Clients() {
		client.Send(&Response{
			Key:  "clientState",
			Data: csPlayers,
		})
	}
}

type playerView struct {
	*holdem.Snapshot
	HostID    int64            `json:"hostId"`
	Paused    bool             `json:"paused"`
	HandCount int              `json:"handCount"`
	Waiting   []string         `json:"waiting"`
	BestHands map[int64]string `json:"bestHands"`
}

// NOTE: must only be called from the run loop
func (s *Session) sendGameData() {
	waiting := funk.Map(s.waiting, func(p *holdem.Player) string {
		return p.Name
	}).([]string)

	bestHands := make(map[int64]string)
	for id, result := range s.bestHands {
		bestHands[id] = result.Name()
	}

	for _, client := range s.Clients() {
		client.Send(&Response{
			Key: "game",
			Data: &playerView{
				Snapshot:  s.game.Snapshot(client.PlayerID),
				HostID:    s.hostID,
				Paused:    s.paused,
				HandCount: s.game.HandCount(),
				Waiting:   waiting,
				BestHands: bestHands,
			},
		})
	}
}

const logMessageLimit = 25

// addLogMessages appends to the activity feed and pushes the new lines out
// NOTE: must only be called from the run loop
func (s *Session) addLogMessages(messages ...*LogMessage) {
	m := append(s.logMessages, messages...)
	if count := len(m); count > logMessageLimit {
		m = m[count-logMessageLimit:]
	}
	s.logMessages = m

	for _, client := range s.Clients() {
		client.Send(&Response{Key: "logs", Data: messages})
	}
}
