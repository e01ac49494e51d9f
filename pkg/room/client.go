package room

import (
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a player connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// ID identifies the connection for tracing
	ID string

	// PlayerID is the seat identity this connection plays as
	PlayerID int64

	// Name is the player's display name
	Name string

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	send    chan interface{}
	session *Session
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, id string, playerID int64, name string) *Client {
	return &Client{
		Conn:     conn,
		ID:       id,
		PlayerID: playerID,
		Name:     name,
		Close:    make(chan string),
		send:     make(chan interface{}, 256),
	}
}

// Send sends a message to the web client. It returns false if the client's
// buffer is full and the message was dropped.
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel of outgoing messages
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the player and room
func (c *Client) String() string {
	code := ""
	if c.session != nil {
		code = c.session.Code()
	}

	return fmt.Sprintf("%s:%s", c.Name, code)
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *PayloadIn) {
	if c.session == nil {
		logrus.WithField("msg", msg).Warn("received message, but session not found")
		return
	}

	c.session.ReceivedMessage(c, msg)
}
