package question

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"math/rand/v2"
	"net/http"
	"time"
)

// DefaultOpenTDBURL asks for a single multiple-choice question.
const DefaultOpenTDBURL = "https://opentdb.com/api.php?amount=1&type=multiple"

// OpenTDB fetches questions from an Open Trivia DB compatible endpoint.
type OpenTDB struct {
	url    string
	client *http.Client
}

// NewOpenTDB returns a client for url. A nil client gets a default with a 15s timeout.
func NewOpenTDB(url string, client *http.Client) *OpenTDB {
	if url == "" {
		url = DefaultOpenTDBURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &OpenTDB{url: url, client: client}
}

var (
	_ Provider = (*OpenTDB)(nil)
	_ Provider = (*Bank)(nil)
)

type openTDBResponse struct {
	ResponseCode int             `json:"response_code"`
	Results      []openTDBResult `json:"results"`
}

type openTDBResult struct {
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// FetchPrompt requests one question and shuffles the correct answer in with the
// incorrect ones. Text arrives HTML-escaped and is unescaped here.
func (o *OpenTDB) FetchPrompt(ctx context.Context) (Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.url, nil)
	if err != nil {
		return Item{}, fmt.Errorf("build opentdb request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := o.client.Do(req)
	if err != nil {
		return Item{}, fmt.Errorf("opentdb request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return Item{}, fmt.Errorf("opentdb returned HTTP %d", res.StatusCode)
	}

	var body openTDBResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return Item{}, fmt.Errorf("decode opentdb response: %w", err)
	}

	if body.ResponseCode != 0 {
		return Item{}, fmt.Errorf("opentdb response code %d", body.ResponseCode)
	}
	if len(body.Results) == 0 {
		return Item{}, fmt.Errorf("opentdb returned no results")
	}

	result := body.Results[0]

	correct := html.UnescapeString(result.CorrectAnswer)
	answers := make([]string, 0, len(result.IncorrectAnswers)+1)
	for _, a := range result.IncorrectAnswers {
		answers = append(answers, html.UnescapeString(a))
	}
	answers = append(answers, correct)
	rand.Shuffle(len(answers), func(i, j int) {
		answers[i], answers[j] = answers[j], answers[i]
	})

	it := Item{
		Question:      html.UnescapeString(result.Question),
		Answers:       answers,
		CorrectAnswer: correct,
	}

	if err := it.Validate(); err != nil {
		return Item{}, fmt.Errorf("opentdb item: %w", err)
	}

	return it, nil
}
