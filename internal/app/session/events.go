/*
Package session routes player events between websocket connections, the player
registry and the game tracker.

This file defines the wire frames exchanged with clients and the payloads of
every inbound and outbound event.
*/
package session

import (
	"encoding/json"
	"time"

	"triviaroom/internal/app/player"
	"triviaroom/internal/pkg/errs"
)

// EventName names an inbound or outbound event.
type EventName string

// Inbound events (client to server).
const (
	EventJoin             EventName = "join"
	EventSendMessage      EventName = "sendMessage"
	EventGetQuestion      EventName = "getQuestion"
	EventSendAnswer       EventName = "sendAnswer"
	EventGetCorrectAnswer EventName = "getCorrectAnswer"
)

// Outbound events (server to client).
const (
	EventAck               EventName = "ack"
	EventMessage           EventName = "message"
	EventRoom              EventName = "room"
	EventSendQuestion      EventName = "sendQuestion"
	EventReceiveAnswer     EventName = "receiveAnswer"
	EventSendCorrectAnswer EventName = "sendCorrectAnswer"
)

// AdminName is the sender shown on server-generated chat lines.
const AdminName = "Admin"

// InboundFrame is the envelope of every frame a client sends.
// A non-empty AckID asks the server to answer with an ack frame.
type InboundFrame struct {
	Event   EventName       `json:"event"`
	AckID   string          `json:"ackId,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// OutboundFrame is the envelope of every event the server emits.
type OutboundFrame struct {
	Event   EventName `json:"event"`
	ID      string    `json:"id"`
	Payload any       `json:"payload"`
}

// AckFrame answers an inbound frame. Error is absent on success; it is a string
// or an ErrorObject depending on the event being acknowledged.
type AckFrame struct {
	Event EventName `json:"event"`
	AckID string    `json:"ackId"`
	Error any       `json:"error,omitempty"`
}

// ErrorObject is the structured error carried by some acks.
type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// JoinPayload is the body of a join event.
type JoinPayload struct {
	PlayerName string `json:"playerName"`
	Room       string `json:"room"`
}

// ChatMessage is the body of a message event.
type ChatMessage struct {
	PlayerName string `json:"playerName"`
	Text       string `json:"text"`
	CreatedAt  int64  `json:"createdAt"`
}

// RoomInfo is the body of a room event.
type RoomInfo struct {
	Room            string          `json:"room"`
	Players         []player.Player `json:"players"`
	NumberOfPlayers int             `json:"numberOfPlayers"`
}

// QuestionPayload is the body of a sendQuestion event.
type QuestionPayload struct {
	PlayerName string   `json:"playerName"`
	Question   string   `json:"question"`
	Answers    []string `json:"answers"`
	CreatedAt  int64    `json:"createdAt"`
}

// AnswerReceivedPayload is the body of a receiveAnswer event.
type AnswerReceivedPayload struct {
	PlayerName  string `json:"playerName"`
	Text        string `json:"text"`
	CreatedAt   int64  `json:"createdAt"`
	IsRoundOver bool   `json:"isRoundOver"`
}

// CorrectAnswerPayload is the body of a sendCorrectAnswer event.
type CorrectAnswerPayload struct {
	CorrectAnswer string `json:"correctAnswer"`
}

// FormatMessage builds a chat line stamped with now in Unix milliseconds.
func FormatMessage(playerName, text string, now time.Time) ChatMessage {
	return ChatMessage{
		PlayerName: playerName,
		Text:       text,
		CreatedAt:  now.UnixMilli(),
	}
}

// NewRoomInfo summarizes the members of a room.
func NewRoomInfo(room string, players []player.Player) RoomInfo {
	return RoomInfo{
		Room:            room,
		Players:         players,
		NumberOfPlayers: len(players),
	}
}

// ackError renders err in the shape the event's acknowledgment expects.
// join, sendMessage and getQuestion carry a plain message; the answer events carry an object.
func ackError(event EventName, err error) any {
	if err == nil {
		return nil
	}

	customErr := errs.From(err)

	switch event {
	case EventSendAnswer, EventGetCorrectAnswer:
		return ErrorObject{Code: customErr.Code, Message: customErr.Message}
	default:
		return customErr.Message
	}
}

// decodeText reads a JSON string payload. A missing payload is the empty string.
func decodeText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", errs.Wrap(errs.ErrInvalidEventFormat, err)
	}

	return text, nil
}
