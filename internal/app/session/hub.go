/*
Package session routes player events between websocket connections, the player
registry and the game tracker.

This file defines the Hub, the single dispatch loop that owns every live client.
Registrations, inbound frames, disconnects and finished question fetches are all
queued on one channel and handled one at a time in arrival order.
*/
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"triviaroom/internal/app/game"
	"triviaroom/internal/app/player"
	"triviaroom/internal/pkg/errs"
	"triviaroom/internal/pkg/logx"
	"triviaroom/internal/pkg/randx"
)

const (
	eventQueueBuffer = 1024

	// MaxContentBytes is the maximum allowed size (in bytes) of a chat message.
	MaxContentBytes = 5000
)

type hubEventKind int

const (
	kindRegister hubEventKind = iota
	kindUnregister
	kindInbound
	kindQuestionReady
)

type hubEvent struct {
	kind   hubEventKind
	client *Client
	frame  InboundFrame
	result questionResult
}

type questionResult struct {
	asker player.Player
	round game.Round
	err   error
}

// Hub coordinates every connected client.
type Hub struct {
	registry *player.Registry
	tracker  *game.Tracker

	// owned by the Run goroutine
	clients map[string]*Client

	events   chan hubEvent
	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	// mu guards stopped so nothing is queued after the loop drains.
	mu      sync.RWMutex
	stopped bool

	ctx    context.Context
	cancel context.CancelFunc

	now    func() time.Time
	logger zerolog.Logger
}

// NewHub constructs a Hub over the given registry and tracker. Call Run to start it.
func NewHub(registry *player.Registry, tracker *game.Tracker) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		registry: registry,
		tracker:  tracker,
		clients:  make(map[string]*Client),
		events:   make(chan hubEvent, eventQueueBuffer),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
		now:      time.Now,
		logger:   logx.Component("Hub"),
	}
}

// Registry returns the player registry the hub mutates.
func (h *Hub) Registry() *player.Registry {
	return h.registry
}

// Tracker returns the game tracker the hub drives.
func (h *Hub) Tracker() *game.Tracker {
	return h.tracker
}

// enqueue hands ev to the loop. It reports false once the hub has stopped.
func (h *Hub) enqueue(ev hubEvent) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.stopped {
		return false
	}

	select {
	case h.events <- ev:
		return true
	case <-h.stopChan:
		return false
	}
}

// Register adds a client to the hub. It reports false if the hub has stopped,
// in which case the caller owns closing the connection.
func (h *Hub) Register(c *Client) bool {
	return h.enqueue(hubEvent{kind: kindRegister, client: c})
}

// Unregister removes a client and the player bound to it.
func (h *Hub) Unregister(c *Client) {
	h.enqueue(hubEvent{kind: kindUnregister, client: c})
}

// Inbound queues a frame received from c.
func (h *Hub) Inbound(c *Client, frame InboundFrame) {
	h.enqueue(hubEvent{kind: kindInbound, client: c, frame: frame})
}

// Shutdown stops the loop, closes every client queue and waits for the loop to exit.
func (h *Hub) Shutdown() {
	h.logger.Info().Msg("Shutting down Hub...")

	h.stopOnce.Do(func() {
		h.cancel()
		close(h.stopChan)
	})
	<-h.done

	h.logger.Info().Msg("Hub shutdown complete.")
}

// Run is the dispatch loop. It returns after Shutdown.
func (h *Hub) Run() {
	defer h.drain()

	h.logger.Info().Msg("Hub Run loop started.")

	for {
		select {
		case ev := <-h.events:
			h.handle(ev)

		case <-h.stopChan:
			return
		}
	}
}

// drain refuses further events, closes the queue of every client, including
// ones whose registration was still pending, and marks the hub done.
func (h *Hub) drain() {
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()

pending:
	for {
		select {
		case ev := <-h.events:
			if ev.kind == kindRegister {
				close(ev.client.send)
			}
		default:
			break pending
		}
	}

	for id, c := range h.clients {
		close(c.send)
		delete(h.clients, id)
	}

	close(h.done)
	h.logger.Info().Msg("Hub Run loop finished.")
}

func (h *Hub) handle(ev hubEvent) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error().
				Interface("panic", r).
				Str("event", string(ev.frame.Event)).
				Msg("Recovered from panic in Hub dispatch.")
		}
	}()

	switch ev.kind {
	case kindRegister:
		h.clients[ev.client.id] = ev.client
		h.logger.Info().
			Str("client_id", ev.client.id).
			Int("total_clients", len(h.clients)).
			Msg("Client connected.")

	case kindUnregister:
		h.disconnect(ev.client)

	case kindInbound:
		if !h.isLive(ev.client) {
			return
		}
		h.dispatch(ev.client, ev.frame)

	case kindQuestionReady:
		h.finishQuestion(ev.client, ev.frame, ev.result)
	}
}

func (h *Hub) isLive(c *Client) bool {
	current, ok := h.clients[c.id]
	return ok && current == c
}

// dispatch runs the handler for one inbound frame. Handlers acknowledge success
// themselves so the ack lands where the event contract puts it; failures are
// acknowledged here.
func (h *Hub) dispatch(c *Client, frame InboundFrame) {
	var err error

	switch frame.Event {
	case EventJoin:
		err = h.handleJoin(c, frame)
	case EventSendMessage:
		err = h.handleSendMessage(c, frame)
	case EventGetQuestion:
		err = h.handleGetQuestion(c, frame)
	case EventSendAnswer:
		err = h.handleSendAnswer(c, frame)
	case EventGetCorrectAnswer:
		err = h.handleGetCorrectAnswer(c, frame)
	default:
		err = errs.NewError(errs.ErrUnsupportedEvent, frame.Event)
	}

	if err != nil {
		h.logRejected(c, frame, err)
		h.ack(c, frame, err)
	}
}

// logRejected logs player mistakes at debug level and server-side failures louder.
func (h *Hub) logRejected(c *Client, frame InboundFrame, err error) {
	event := h.logger.Debug()
	switch errs.From(err).Kind() {
	case errs.KindProvider:
		event = h.logger.Warn()
	case errs.KindInternal:
		event = h.logger.Error()
	}

	event.Err(err).
		Str("client_id", c.id).
		Str("event", string(frame.Event)).
		Msg("Event rejected.")
}

func (h *Hub) handleJoin(c *Client, frame InboundFrame) error {
	if _, err := h.registry.Get(c.id); err == nil {
		return errs.NewError(errs.ErrAlreadyJoined)
	}

	var payload JoinPayload
	if len(frame.Payload) > 0 {
		if err := json.Unmarshal(frame.Payload, &payload); err != nil {
			return errs.Wrap(errs.ErrInvalidEventFormat, err)
		}
	}

	newPlayer, err := h.registry.Add(c.id, payload.PlayerName, payload.Room)
	if err != nil {
		return err
	}

	h.ack(c, frame, nil)

	h.logger.Info().
		Str("client_id", c.id).
		Str("player_name", newPlayer.PlayerName).
		Str("room", newPlayer.Room).
		Msg("Player joined room.")

	h.emit(c, EventMessage, FormatMessage(AdminName, "Welcome!", h.now()))
	h.broadcastExcept(newPlayer.Room, c.id, EventMessage,
		FormatMessage(AdminName, fmt.Sprintf("%s has joined the game!", newPlayer.PlayerName), h.now()))
	h.broadcastRoomInfo(newPlayer.Room)

	return nil
}

func (h *Hub) handleSendMessage(c *Client, frame InboundFrame) error {
	p, err := h.registry.Get(c.id)
	if err != nil {
		return err
	}

	text, err := decodeText(frame.Payload)
	if err != nil {
		return err
	}

	if len(text) > MaxContentBytes {
		return errs.NewError(errs.ErrMessageContentTooLong)
	}

	h.broadcast(p.Room, EventMessage, FormatMessage(p.PlayerName, text, h.now()))
	h.ack(c, frame, nil)

	return nil
}

// handleGetQuestion starts the provider call off the loop. The fetched round comes
// back as a kindQuestionReady event and is only committed there, so room state
// changes in the same order players see them.
func (h *Hub) handleGetQuestion(c *Client, frame InboundFrame) error {
	p, err := h.registry.Get(c.id)
	if err != nil {
		return err
	}

	go func() {
		round, err := h.tracker.FetchQuestion(h.ctx, p.Room)
		h.enqueue(hubEvent{
			kind:   kindQuestionReady,
			client: c,
			frame:  frame,
			result: questionResult{asker: p, round: round, err: err},
		})
	}()

	return nil
}

func (h *Hub) finishQuestion(c *Client, frame InboundFrame, res questionResult) {
	if res.err != nil {
		h.logRejected(c, frame, res.err)
		h.ack(c, frame, res.err)
		return
	}

	room := res.asker.Room
	if len(h.registry.ListRoom(room)) == 0 {
		h.logger.Debug().Str("room", room).Msg("Dropping question fetched for a room that emptied.")
		return
	}

	prompt := h.tracker.StartRound(room, res.round)

	h.broadcast(room, EventSendQuestion, QuestionPayload{
		PlayerName: res.asker.PlayerName,
		Question:   prompt.Question,
		Answers:    prompt.Answers,
		CreatedAt:  h.now().UnixMilli(),
	})
	h.ack(c, frame, nil)
}

func (h *Hub) handleSendAnswer(c *Client, frame InboundFrame) error {
	p, err := h.registry.Get(c.id)
	if err != nil {
		return err
	}

	answer, err := decodeText(frame.Payload)
	if err != nil {
		return err
	}

	roomSize := len(h.registry.ListRoom(p.Room))
	isRoundOver := h.tracker.SubmitAnswer(p.Room, p.ID, answer, roomSize)

	msg := FormatMessage(AdminName, fmt.Sprintf("Player %s submits an answer.", p.PlayerName), h.now())
	h.broadcast(p.Room, EventReceiveAnswer, AnswerReceivedPayload{
		PlayerName:  msg.PlayerName,
		Text:        msg.Text,
		CreatedAt:   msg.CreatedAt,
		IsRoundOver: isRoundOver,
	})
	h.ack(c, frame, nil)

	return nil
}

func (h *Hub) handleGetCorrectAnswer(c *Client, frame InboundFrame) error {
	p, err := h.registry.Get(c.id)
	if err != nil {
		return err
	}

	correctAnswer, err := h.tracker.RevealCorrectAnswer(p.Room)
	if err != nil {
		return err
	}

	h.broadcast(p.Room, EventSendCorrectAnswer, CorrectAnswerPayload{CorrectAnswer: correctAnswer})
	h.ack(c, frame, nil)

	return nil
}

// disconnect drops the client, then the player bound to it, and tells the room.
func (h *Hub) disconnect(c *Client) {
	if !h.isLive(c) {
		h.logger.Debug().Str("client_id", c.id).Msg("Ignoring unregister for unknown or stale client.")
		return
	}

	delete(h.clients, c.id)
	close(c.send)

	h.logger.Info().
		Str("client_id", c.id).
		Int("total_clients", len(h.clients)).
		Msg("Client disconnected.")

	left, ok := h.registry.Remove(c.id)
	if !ok {
		return
	}

	h.broadcast(left.Room, EventMessage,
		FormatMessage(AdminName, fmt.Sprintf("Player %s has left!", left.PlayerName), h.now()))

	remaining := h.registry.ListRoom(left.Room)
	if len(remaining) == 0 {
		h.tracker.Forget(left.Room)
		h.logger.Info().Str("room", left.Room).Msg("Room is empty. Game state dropped.")
		return
	}

	h.broadcastRoomInfo(left.Room)
}

func (h *Hub) broadcastRoomInfo(room string) {
	h.broadcast(room, EventRoom, NewRoomInfo(room, h.registry.ListRoom(room)))
}

func (h *Hub) ack(c *Client, frame InboundFrame, err error) {
	if frame.AckID == "" {
		return
	}

	h.queue(c, AckFrame{
		Event: EventAck,
		AckID: frame.AckID,
		Error: ackError(frame.Event, err),
	})
}

// emit sends one event to a single client.
func (h *Hub) emit(c *Client, event EventName, payload any) {
	h.queue(c, OutboundFrame{Event: event, ID: randx.MessageID(), Payload: payload})
}

// broadcast sends one event to every client in room.
func (h *Hub) broadcast(room string, event EventName, payload any) {
	h.broadcastExcept(room, "", event, payload)
}

// broadcastExcept sends one event to every client in room other than skipID.
func (h *Hub) broadcastExcept(room, skipID string, event EventName, payload any) {
	frameBytes, err := json.Marshal(OutboundFrame{Event: event, ID: randx.MessageID(), Payload: payload})
	if err != nil {
		h.logger.Error().Err(err).Str("event", string(event)).Msg("Error marshaling event for broadcast.")
		return
	}

	var slow []*Client
	for _, p := range h.registry.ListRoom(room) {
		if p.ID == skipID {
			continue
		}

		c, ok := h.clients[p.ID]
		if !ok {
			continue
		}

		if !c.enqueue(frameBytes) {
			slow = append(slow, c)
		}
	}

	for _, c := range slow {
		h.logger.Warn().Str("client_id", c.id).Msg("Client send queue full. Disconnecting.")
		h.disconnect(c)
	}
}

// queue marshals v and puts it on c's send queue if c is still live.
func (h *Hub) queue(c *Client, v any) {
	if !h.isLive(c) {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error().Err(err).Str("client_id", c.id).Msg("Error marshaling data for client.")
		return
	}

	if !c.enqueue(data) {
		h.logger.Warn().Str("client_id", c.id).Msg("Client send queue full. Disconnecting.")
		h.disconnect(c)
	}
}
