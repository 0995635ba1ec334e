/*
Package question supplies trivia prompts to the game tracker.

A Provider returns one Item per call. The package ships an in-memory Bank
(embedded default, a local JSON file, or a document from object storage) and an
OpenTDB client for the remote Open Trivia DB API.
*/
package question

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrBankEmpty is returned when a bank holds no items.
var ErrBankEmpty = errors.New("question bank is empty")

// Item is one trivia question with its options and the accepted answer.
type Item struct {
	Question      string   `json:"question"`
	Answers       []string `json:"answers"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// Provider fetches the next trivia item.
type Provider interface {
	FetchPrompt(ctx context.Context) (Item, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (Item, error)

// FetchPrompt calls f(ctx).
func (f ProviderFunc) FetchPrompt(ctx context.Context) (Item, error) {
	return f(ctx)
}

// Validate checks that the item can be played: a question, at least two
// options, and a correct answer that is one of the options.
func (it Item) Validate() error {
	if strings.TrimSpace(it.Question) == "" {
		return errors.New("question text is empty")
	}

	if len(it.Answers) < 2 {
		return fmt.Errorf("question %q needs at least 2 answers, got %d", it.Question, len(it.Answers))
	}

	if strings.TrimSpace(it.CorrectAnswer) == "" {
		return fmt.Errorf("question %q has no correct answer", it.Question)
	}

	if !slices.Contains(it.Answers, it.CorrectAnswer) {
		return fmt.Errorf("question %q: correct answer %q is not among the answers", it.Question, it.CorrectAnswer)
	}

	return nil
}

func (it Item) clone() Item {
	it.Answers = slices.Clone(it.Answers)
	return it
}
