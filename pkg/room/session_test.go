package room

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holdempoker-server/pkg/deck"
	"holdempoker-server/pkg/holdem"
	"holdempoker-server/pkg/poker"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Game.Seed = 1
	opts.EquityTrials = 50
	opts.BotThinkTime = time.Millisecond
	opts.ShowdownDelay = time.Millisecond * 10
	opts.FoldedWinDelay = time.Millisecond * 5

	return opts
}

func testSession(t *testing.T, opts Options) *Session {
	t.Helper()

	var nextID int64
	s, err := NewSession("ABC234", "test room", "", opts, func() int64 {
		return atomic.AddInt64(&nextID, 1) + 100
	})
	require.NoError(t, err)

	s.StartShift()
	t.Cleanup(s.EndShift)

	return s
}

// onLoop runs fn on the session's run loop and waits for it
func onLoop(s *Session, fn func()) {
	done := make(chan bool)
	s.execInRunLoop <- func() {
		fn()
		done <- true
	}
	<-done
}

func addTestClient(s *Session, playerID int64, name string) *Client {
	c := NewClient(nil, fmt.Sprintf("client-%d", playerID), playerID, name)
	s.AddClient(c)
	onLoop(s, func() {})

	return c
}

func sendAndWait(s *Session, c *Client, msg *PayloadIn) {
	s.ReceivedMessage(c, msg)
	onLoop(s, func() {})
}

func TestSession_joinAndHost(t *testing.T) {
	a := assert.New(t)
	s := testSession(t, testOptions())

	addTestClient(s, 1, "alice")
	addTestClient(s, 2, "bob")

	onLoop(s, func() {
		a.Equal(2, len(s.game.Players()))
		a.Equal(int64(1), s.hostID)
	})

	a.Equal(2, s.Occupancy())
}

func TestSession_occupancyAfterEndShift(t *testing.T) {
	s := testSession(t, testOptions())

	s.EndShift()

	// must answer even though the run loop is gone
	result := make(chan int, 1)
	go func() {
		result <- s.Occupancy()
	}()

	select {
	case n := <-result:
		assert.Equal(t, 0, n)
	case <-time.After(time.Second * 2):
		t.Fatal("occupancy blocked on an ended session")
	}
}

func TestSession_onlyHostStartsHand(t *testing.T) {
	a := assert.New(t)
	s := testSession(t, testOptions())

	host := addTestClient(s, 1, "alice")
	guest := addTestClient(s, 2, "bob")

	sendAndWait(s, guest, &PayloadIn{Action: "startHand", Context: "c1"})
	onLoop(s, func() {
		a.False(s.game.HandInProgress())
	})

	sendAndWait(s, host, &PayloadIn{Action: "startHand", Context: "c2"})
	onLoop(s, func() {
		a.True(s.game.HandInProgress())
		a.Equal(1, s.game.HandCount())
	})
}

func TestSession_joinMidHandGoesToWaitingList(t *testing.T) {
	a := assert.New(t)
	s := testSession(t, testOptions())

	host := addTestClient(s, 1, "alice")
	addTestClient(s, 2, "bob")
	sendAndWait(s, host, &PayloadIn{Action: "startHand"})

	addTestClient(s, 3, "carol")
	onLoop(s, func() {
		a.Equal(2, len(s.game.Players()))
		a.Equal(1, len(s.waiting))
	})
	a.Equal(3, s.Occupancy())
}

func TestSession_waitingPlayersMergeAtNextHand(t *testing.T) {
	s := testSession(t, testOptions())

	host := addTestClient(s, 1, "alice")
	addTestClient(s, 2, "bob")
	sendAndWait(s, host, &PayloadIn{Action: "startHand"})
	addTestClient(s, 3, "carol")

	// alice folds; bob wins uncontested, and the next hand is scheduled
	sendAndWait(s, host, &PayloadIn{Action: "fold"})

	require.Eventually(t, func() bool {
		var merged bool
		onLoop(s, func() {
			merged = len(s.game.Players()) == 3 && s.game.HandCount() == 2
		})
		return merged
	}, time.Second*5, time.Millisecond*5)
}

func TestSession_roomFull(t *testing.T) {
	a := assert.New(t)

	opts := testOptions()
	opts.MaxSeats = 2
	s := testSession(t, opts)

	addTestClient(s, 1, "alice")
	addTestClient(s, 2, "bob")
	carol := addTestClient(s, 3, "carol")

	onLoop(s, func() {
		a.Equal(2, len(s.game.Players()))
		a.Equal(0, len(s.waiting))
	})

	sawError := false
	for done := false; !done; {
		select {
		case msg := <-carol.SendChan():
			if res, ok := msg.(*Response); ok && res.Key == "error" && res.Value == ErrRoomFull.Error() {
				sawError = true
			}
		default:
			done = true
		}
	}
	a.True(sawError)
}

func TestSession_hostMigratesWhenHostLeaves(t *testing.T) {
	a := assert.New(t)
	s := testSession(t, testOptions())

	host := addTestClient(s, 1, "alice")
	addTestClient(s, 2, "bob")

	a.False(s.RemoveClient(host))
	onLoop(s, func() {
		a.Equal(int64(2), s.hostID)
		a.Equal(1, len(s.game.Players()))
	})
}

func TestSession_leaveMidHandRedeals(t *testing.T) {
	a := assert.New(t)
	s := testSession(t, testOptions())

	host := addTestClient(s, 1, "alice")
	bob := addTestClient(s, 2, "bob")
	addTestClient(s, 3, "carol")
	sendAndWait(s, host, &PayloadIn{Action: "startHand"})

	a.False(s.RemoveClient(bob))
	onLoop(s, func() {
		a.True(s.game.HandInProgress(), "two players remain, so a fresh hand is dealt")
		a.Equal(2, s.game.HandCount())
		a.Equal(2, len(s.game.Players()))
		a.False(s.paused)
	})
}

func TestSession_leaveMidHandPausesWhenShortHanded(t *testing.T) {
	a := assert.New(t)
	s := testSession(t, testOptions())

	host := addTestClient(s, 1, "alice")
	bob := addTestClient(s, 2, "bob")
	sendAndWait(s, host, &PayloadIn{Action: "startHand"})

	a.False(s.RemoveClient(bob))
	onLoop(s, func() {
		a.False(s.game.HandInProgress())
		a.True(s.paused)
	})

	// a new joiner lets the host resume
	addTestClient(s, 3, "carol")
	sendAndWait(s, host, &PayloadIn{Action: "startHand"})
	onLoop(s, func() {
		a.True(s.game.HandInProgress())
		a.False(s.paused)
	})
}

func TestSession_lastClientIsReported(t *testing.T) {
	a := assert.New(t)
	s := testSession(t, testOptions())

	alice := addTestClient(s, 1, "alice")
	bob := addTestClient(s, 2, "bob")

	a.False(s.RemoveClient(alice))
	a.True(s.RemoveClient(bob))
}

func TestSession_addBotRequiresHost(t *testing.T) {
	a := assert.New(t)
	s := testSession(t, testOptions())

	addTestClient(s, 1, "alice")
	bob := addTestClient(s, 2, "bob")

	sendAndWait(s, bob, &PayloadIn{Action: "addBot"})
	onLoop(s, func() {
		a.Equal(2, len(s.game.Players()))
	})
}

func TestSession_botsPlayScheduledActions(t *testing.T) {
	s := testSession(t, testOptions())

	host := addTestClient(s, 1, "alice")
	sendAndWait(s, host, &PayloadIn{Action: "addBot"})
	sendAndWait(s, host, &PayloadIn{Action: "addBot"})
	sendAndWait(s, host, &PayloadIn{Action: "startHand"})

	// alice opens the action; fold and let the bots play each other out
	sendAndWait(s, host, &PayloadIn{Action: "fold"})

	require.Eventually(t, func() bool {
		var resolved bool
		onLoop(s, func() {
			resolved = s.game.HandCount() >= 2
		})
		return resolved
	}, time.Second*10, time.Millisecond*10, "bots should finish the hand and the next one should auto-deal")
}

func TestSession_actionsAreValidatedAndBroadcast(t *testing.T) {
	a := assert.New(t)
	s := testSession(t, testOptions())

	host := addTestClient(s, 1, "alice")
	bob := addTestClient(s, 2, "bob")
	carol := addTestClient(s, 3, "carol")
	sendAndWait(s, host, &PayloadIn{Action: "startHand"})

	// dealer is seat 0, so alice opens preflop
	sendAndWait(s, bob, &PayloadIn{Action: "call", Context: "oops"})
	onLoop(s, func() {
		a.Equal(0, s.game.ActiveSeat(), "acting out of turn changes nothing")
	})

	sendAndWait(s, host, &PayloadIn{Action: "call"})
	sendAndWait(s, bob, &PayloadIn{Action: "call"})
	sendAndWait(s, carol, &PayloadIn{Action: "raise", AdditionalData: AdditionalData{"amount": float64(20)}})

	onLoop(s, func() {
		a.Equal(holdem.PhasePreFlop, s.game.Phase())
		a.Equal(30, s.game.CurrentHighBet())
	})
}

func TestSession_recordBest(t *testing.T) {
	a := assert.New(t)
	s := testSession(t, testOptions())

	pairOfAces := evaluate(t, "14c,14d", "2h,7s,9d,10c,3s")
	pairOfKings := evaluate(t, "13c,13d", "2h,7s,9d,10c,3s")
	flush := evaluate(t, "14c,2c", "9c,10c,3c,5d,6h")

	onLoop(s, func() {
		a.True(s.recordBest(1, pairOfAces), "first record counts")
		a.False(s.recordBest(1, pairOfKings), "same category does not upgrade")
		a.True(s.recordBest(1, flush))
		a.Equal("Flush", s.bestHands[1].Name())
	})
}

func evaluate(t *testing.T, hole, community string) *poker.Result {
	t.Helper()

	result, err := poker.Evaluate(deck.CardsFromString(hole), deck.CardsFromString(community))
	require.NoError(t, err)

	return result
}
