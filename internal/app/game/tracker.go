/*
Package game tracks the question, answer and reveal cycle of every room.

Each room moves through three states: idle with no question, awaiting answers
once a question has been fetched, and round over once the round policy is
satisfied. Requesting a new question is allowed in any state and discards
the unfinished round.
*/
package game

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"triviaroom/internal/app/question"
	"triviaroom/internal/pkg/errs"
	"triviaroom/internal/pkg/logx"
)

// DefaultProviderTimeout bounds a single provider call.
const DefaultProviderTimeout = 10 * time.Second

// RoundPolicy decides when a round counts as over.
type RoundPolicy string

const (
	// PolicyFirstAnswer ends the round as soon as any answer arrives.
	PolicyFirstAnswer RoundPolicy = "first"

	// PolicyAllPlayers ends the round once every current room member has answered.
	PolicyAllPlayers RoundPolicy = "all"
)

// ParseRoundPolicy maps a configuration value onto a RoundPolicy.
func ParseRoundPolicy(s string) (RoundPolicy, bool) {
	switch RoundPolicy(s) {
	case PolicyFirstAnswer, "":
		return PolicyFirstAnswer, true
	case PolicyAllPlayers:
		return PolicyAllPlayers, true
	}
	return "", false
}

// Prompt is the part of a question players may see before the reveal.
type Prompt struct {
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
}

// Status is the game state of one room.
type Status struct {
	current          Prompt
	correctAnswer    string
	submittedAnswers map[string]string
	isRoundOver      bool
}

// Snapshot is a read-only copy of a room's Status without the correct answer.
type Snapshot struct {
	HasQuestion      bool              `json:"hasQuestion"`
	Question         *Prompt           `json:"question,omitempty"`
	SubmittedAnswers map[string]string `json:"submittedAnswers"`
	IsRoundOver      bool              `json:"isRoundOver"`
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithTimeout sets the provider call timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// WithPolicy sets the round-over policy.
func WithPolicy(p RoundPolicy) Option {
	return func(t *Tracker) {
		t.policy = p
	}
}

// Tracker owns the Status of every room.
type Tracker struct {
	provider question.Provider
	timeout  time.Duration
	policy   RoundPolicy

	mu    sync.Mutex
	rooms map[string]*Status

	logger zerolog.Logger
}

// NewTracker returns a tracker that draws questions from provider.
func NewTracker(provider question.Provider, opts ...Option) *Tracker {
	t := &Tracker{
		provider: provider,
		timeout:  DefaultProviderTimeout,
		policy:   PolicyFirstAnswer,
		rooms:    make(map[string]*Status),
		logger:   logx.Component("GameTracker"),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Policy returns the configured round-over policy.
func (t *Tracker) Policy() RoundPolicy {
	return t.policy
}

// Round is a fetched question that has not started yet.
type Round struct {
	prompt        Prompt
	correctAnswer string
}

// Prompt returns a copy of the round's player-visible question.
func (r Round) Prompt() Prompt {
	return Prompt{Question: r.prompt.Question, Answers: slices.Clone(r.prompt.Answers)}
}

// FetchQuestion asks the provider for a playable question without touching
// any room state. Provider failures and timeouts return ErrQuestionUnavailable.
func (t *Tracker) FetchQuestion(ctx context.Context, room string) (Round, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	item, err := t.provider.FetchPrompt(ctx)
	if err != nil {
		t.logger.Warn().Err(err).Str("room", room).Msg("Question provider failed.")
		return Round{}, errs.Wrap(errs.ErrQuestionUnavailable, err)
	}

	if err := item.Validate(); err != nil {
		t.logger.Warn().Err(err).Str("room", room).Msg("Question provider returned an unplayable item.")
		return Round{}, errs.Wrap(errs.ErrQuestionUnavailable, err)
	}

	return Round{
		prompt: Prompt{
			Question: item.Question,
			Answers:  slices.Clone(item.Answers),
		},
		correctAnswer: item.CorrectAnswer,
	}, nil
}

// StartRound makes round the room's current question, discarding any
// unfinished round, and returns the prompt to broadcast.
func (t *Tracker) StartRound(room string, round Round) Prompt {
	t.mu.Lock()
	t.rooms[room] = &Status{
		current:          round.Prompt(),
		correctAnswer:    round.correctAnswer,
		submittedAnswers: make(map[string]string),
	}
	t.mu.Unlock()

	t.logger.Debug().Str("room", room).Str("question", round.prompt.Question).Msg("New question started.")

	return round.Prompt()
}

// RequestQuestion fetches a new question for room and starts it right away.
// On failure the room's current round is left untouched.
func (t *Tracker) RequestQuestion(ctx context.Context, room string) (Prompt, error) {
	round, err := t.FetchQuestion(ctx, room)
	if err != nil {
		return Prompt{}, err
	}

	return t.StartRound(room, round), nil
}

// SubmitAnswer records answer for playerID, replacing any earlier answer from the
// same player, and returns whether the round is over. roomSize is the number of
// players currently in the room and only matters under PolicyAllPlayers.
func (t *Tracker) SubmitAnswer(room, playerID, answer string, roomSize int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	status, ok := t.rooms[room]
	if !ok {
		status = &Status{submittedAnswers: make(map[string]string)}
		t.rooms[room] = status
	}

	status.submittedAnswers[playerID] = answer

	switch t.policy {
	case PolicyAllPlayers:
		status.isRoundOver = len(status.submittedAnswers) >= max(roomSize, 1)
	default:
		status.isRoundOver = len(status.submittedAnswers) >= 1
	}

	return status.isRoundOver
}

// RevealCorrectAnswer returns the correct answer of the room's current question.
func (t *Tracker) RevealCorrectAnswer(room string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	status, ok := t.rooms[room]
	if !ok || status.correctAnswer == "" {
		return "", errs.NewError(errs.ErrNoActiveQuestion)
	}

	return status.correctAnswer, nil
}

// Snapshot copies the room's state. Rooms without state report the idle zero value.
func (t *Tracker) Snapshot(room string) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := Snapshot{SubmittedAnswers: map[string]string{}}

	status, ok := t.rooms[room]
	if !ok {
		return snap
	}

	snap.SubmittedAnswers = maps.Clone(status.submittedAnswers)
	snap.IsRoundOver = status.isRoundOver

	if status.correctAnswer != "" {
		snap.HasQuestion = true
		snap.Question = &Prompt{
			Question: status.current.Question,
			Answers:  slices.Clone(status.current.Answers),
		}
	}

	return snap
}

// Forget drops the room's state.
func (t *Tracker) Forget(room string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.rooms, room)
}
