package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triviaroom/internal/app/question"
	"triviaroom/internal/pkg/errs"
)

func staticProvider(items ...question.Item) question.Provider {
	next := 0
	return question.ProviderFunc(func(context.Context) (question.Item, error) {
		it := items[next%len(items)]
		next++
		return it, nil
	})
}

var capitalQuestion = question.Item{
	Question:      "Capital of France?",
	Answers:       []string{"Lyon", "Paris", "Nice"},
	CorrectAnswer: "Paris",
}

var planetQuestion = question.Item{
	Question:      "Red planet?",
	Answers:       []string{"Mars", "Venus"},
	CorrectAnswer: "Mars",
}

func TestRequestQuestionStartsFreshRound(t *testing.T) {
	tr := NewTracker(staticProvider(capitalQuestion, planetQuestion))

	_, err := tr.RequestQuestion(context.Background(), "lobby")
	require.NoError(t, err)
	assert.True(t, tr.SubmitAnswer("lobby", "c1", "Lyon", 3))

	prompt, err := tr.RequestQuestion(context.Background(), "lobby")
	require.NoError(t, err)
	assert.Equal(t, Prompt{Question: "Red planet?", Answers: []string{"Mars", "Venus"}}, prompt)

	snap := tr.Snapshot("lobby")
	assert.True(t, snap.HasQuestion)
	assert.Empty(t, snap.SubmittedAnswers)
	assert.False(t, snap.IsRoundOver)
}

func TestFetchQuestionLeavesRoomUntouched(t *testing.T) {
	tr := NewTracker(staticProvider(capitalQuestion, planetQuestion))

	_, err := tr.RequestQuestion(context.Background(), "lobby")
	require.NoError(t, err)
	tr.SubmitAnswer("lobby", "c1", "Lyon", 2)

	round, err := tr.FetchQuestion(context.Background(), "lobby")
	require.NoError(t, err)
	assert.Equal(t, Prompt{Question: "Red planet?", Answers: []string{"Mars", "Venus"}}, round.Prompt())

	snap := tr.Snapshot("lobby")
	assert.Equal(t, "Capital of France?", snap.Question.Question)
	assert.Equal(t, map[string]string{"c1": "Lyon"}, snap.SubmittedAnswers)

	answer, err := tr.RevealCorrectAnswer("lobby")
	require.NoError(t, err)
	assert.Equal(t, "Paris", answer)

	prompt := tr.StartRound("lobby", round)
	assert.Equal(t, "Red planet?", prompt.Question)

	snap = tr.Snapshot("lobby")
	assert.Empty(t, snap.SubmittedAnswers)
	assert.False(t, snap.IsRoundOver)

	answer, err = tr.RevealCorrectAnswer("lobby")
	require.NoError(t, err)
	assert.Equal(t, "Mars", answer)
}

func TestFetchQuestionDoesNotCreateRoomState(t *testing.T) {
	tr := NewTracker(staticProvider(capitalQuestion))

	_, err := tr.FetchQuestion(context.Background(), "lobby")
	require.NoError(t, err)

	assert.False(t, tr.Snapshot("lobby").HasQuestion)
	_, err = tr.RevealCorrectAnswer("lobby")
	assert.True(t, errs.Is(err, errs.ErrNoActiveQuestion))
}

func TestFirstAnswerEndsRound(t *testing.T) {
	tr := NewTracker(staticProvider(capitalQuestion))
	_, err := tr.RequestQuestion(context.Background(), "lobby")
	require.NoError(t, err)

	assert.True(t, tr.SubmitAnswer("lobby", "c1", "Paris", 10))
	assert.True(t, tr.Snapshot("lobby").IsRoundOver)
}

func TestSubmitAnswerLastWriteWins(t *testing.T) {
	tr := NewTracker(staticProvider(capitalQuestion))
	_, err := tr.RequestQuestion(context.Background(), "lobby")
	require.NoError(t, err)

	tr.SubmitAnswer("lobby", "c1", "Lyon", 2)
	tr.SubmitAnswer("lobby", "c1", "Paris", 2)
	tr.SubmitAnswer("lobby", "c2", "", 2)

	assert.Equal(t, map[string]string{"c1": "Paris", "c2": ""}, tr.Snapshot("lobby").SubmittedAnswers)
}

func TestAllPlayersPolicy(t *testing.T) {
	tr := NewTracker(staticProvider(capitalQuestion), WithPolicy(PolicyAllPlayers))
	_, err := tr.RequestQuestion(context.Background(), "lobby")
	require.NoError(t, err)

	assert.False(t, tr.SubmitAnswer("lobby", "c1", "Paris", 2))
	assert.False(t, tr.SubmitAnswer("lobby", "c1", "Lyon", 2))
	assert.True(t, tr.SubmitAnswer("lobby", "c2", "Paris", 2))
}

func TestRevealBeforeQuestionFails(t *testing.T) {
	tr := NewTracker(staticProvider(capitalQuestion))

	_, err := tr.RevealCorrectAnswer("lobby")
	assert.True(t, errs.Is(err, errs.ErrNoActiveQuestion), "got %v", err)
	assert.Equal(t, errs.KindState, errs.From(err).Kind())

	// answers without a question do not make a reveal possible
	tr.SubmitAnswer("lobby", "c1", "Paris", 1)
	_, err = tr.RevealCorrectAnswer("lobby")
	assert.True(t, errs.Is(err, errs.ErrNoActiveQuestion), "got %v", err)
}

func TestRevealReturnsProviderAnswer(t *testing.T) {
	tr := NewTracker(staticProvider(capitalQuestion))
	_, err := tr.RequestQuestion(context.Background(), "lobby")
	require.NoError(t, err)

	answer, err := tr.RevealCorrectAnswer("lobby")
	require.NoError(t, err)
	assert.Equal(t, "Paris", answer)

	// revealing does not mutate the round
	again, err := tr.RevealCorrectAnswer("lobby")
	require.NoError(t, err)
	assert.Equal(t, "Paris", again)
}

func TestRoomsAreIsolated(t *testing.T) {
	tr := NewTracker(staticProvider(capitalQuestion, planetQuestion))

	_, err := tr.RequestQuestion(context.Background(), "lobby")
	require.NoError(t, err)
	_, err = tr.RequestQuestion(context.Background(), "kitchen")
	require.NoError(t, err)

	tr.SubmitAnswer("lobby", "c1", "Paris", 1)

	lobbyAnswer, _ := tr.RevealCorrectAnswer("lobby")
	kitchenAnswer, _ := tr.RevealCorrectAnswer("kitchen")
	assert.Equal(t, "Paris", lobbyAnswer)
	assert.Equal(t, "Mars", kitchenAnswer)
	assert.False(t, tr.Snapshot("kitchen").IsRoundOver)
}

func TestProviderErrorKeepsPreviousRound(t *testing.T) {
	calls := 0
	provider := question.ProviderFunc(func(context.Context) (question.Item, error) {
		calls++
		if calls > 1 {
			return question.Item{}, question.ErrBankEmpty
		}
		return capitalQuestion, nil
	})
	tr := NewTracker(provider)

	_, err := tr.RequestQuestion(context.Background(), "lobby")
	require.NoError(t, err)
	tr.SubmitAnswer("lobby", "c1", "Paris", 1)

	_, err = tr.RequestQuestion(context.Background(), "lobby")
	assert.True(t, errs.Is(err, errs.ErrQuestionUnavailable), "got %v", err)
	assert.ErrorIs(t, err, question.ErrBankEmpty)

	answer, err := tr.RevealCorrectAnswer("lobby")
	require.NoError(t, err)
	assert.Equal(t, "Paris", answer)
	assert.True(t, tr.Snapshot("lobby").IsRoundOver)
}

func TestProviderTimeout(t *testing.T) {
	provider := question.ProviderFunc(func(ctx context.Context) (question.Item, error) {
		<-ctx.Done()
		return question.Item{}, ctx.Err()
	})
	tr := NewTracker(provider, WithTimeout(20*time.Millisecond))

	started := time.Now()
	_, err := tr.RequestQuestion(context.Background(), "lobby")

	assert.True(t, errs.Is(err, errs.ErrQuestionUnavailable), "got %v", err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(started), 2*time.Second)
}

func TestUnplayableItemIsProviderError(t *testing.T) {
	tr := NewTracker(staticProvider(question.Item{Question: "q", Answers: []string{"a"}, CorrectAnswer: "a"}))

	_, err := tr.RequestQuestion(context.Background(), "lobby")
	assert.True(t, errs.Is(err, errs.ErrQuestionUnavailable), "got %v", err)
	assert.False(t, tr.Snapshot("lobby").HasQuestion)
}

func TestSnapshotHidesCorrectAnswerAndCopies(t *testing.T) {
	tr := NewTracker(staticProvider(capitalQuestion))
	_, err := tr.RequestQuestion(context.Background(), "lobby")
	require.NoError(t, err)

	snap := tr.Snapshot("lobby")
	require.NotNil(t, snap.Question)
	snap.Question.Answers[0] = "mutated"
	snap.SubmittedAnswers["c9"] = "x"

	fresh := tr.Snapshot("lobby")
	assert.Equal(t, "Lyon", fresh.Question.Answers[0])
	assert.Empty(t, fresh.SubmittedAnswers)
}

func TestForget(t *testing.T) {
	tr := NewTracker(staticProvider(capitalQuestion))
	_, err := tr.RequestQuestion(context.Background(), "lobby")
	require.NoError(t, err)

	tr.Forget("lobby")

	_, err = tr.RevealCorrectAnswer("lobby")
	assert.True(t, errs.Is(err, errs.ErrNoActiveQuestion))
	assert.Equal(t, Snapshot{SubmittedAnswers: map[string]string{}}, tr.Snapshot("lobby"))
}

func TestParseRoundPolicy(t *testing.T) {
	p, ok := ParseRoundPolicy("")
	assert.True(t, ok)
	assert.Equal(t, PolicyFirstAnswer, p)

	p, ok = ParseRoundPolicy("all")
	assert.True(t, ok)
	assert.Equal(t, PolicyAllPlayers, p)

	_, ok = ParseRoundPolicy("most")
	assert.False(t, ok)
}
