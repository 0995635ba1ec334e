package question

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"
)

//go:embed default_bank.json
var defaultBank []byte

// Bank serves items from memory in shuffled order, reshuffling each time every
// item has been served once.
type Bank struct {
	mu    sync.Mutex
	items []Item
	order []int
	next  int
}

// NewBank returns a bank over a copy of items.
func NewBank(items []Item) *Bank {
	copied := make([]Item, len(items))
	for i, it := range items {
		copied[i] = it.clone()
	}

	return &Bank{items: copied}
}

// DefaultBank returns a bank over the embedded question set.
func DefaultBank() (*Bank, error) {
	items, err := ParseBank(defaultBank)
	if err != nil {
		return nil, fmt.Errorf("embedded bank: %w", err)
	}
	return NewBank(items), nil
}

// LoadBankFile reads and validates a bank document from path.
func LoadBankFile(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank file: %w", err)
	}

	items, err := ParseBank(data)
	if err != nil {
		return nil, fmt.Errorf("bank file %s: %w", path, err)
	}

	return NewBank(items), nil
}

// Downloader fetches a raw object by key.
type Downloader interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// LoadBank downloads and validates a bank document stored under key.
func LoadBank(ctx context.Context, store Downloader, key string) (*Bank, error) {
	data, err := store.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("download bank %s: %w", key, err)
	}

	items, err := ParseBank(data)
	if err != nil {
		return nil, fmt.Errorf("bank object %s: %w", key, err)
	}

	return NewBank(items), nil
}

// ParseBank decodes a JSON array of items and validates every entry.
func ParseBank(data []byte) ([]Item, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var items []Item
	if err := decoder.Decode(&items); err != nil {
		return nil, fmt.Errorf("decode bank: %w", err)
	}

	if len(items) == 0 {
		return nil, ErrBankEmpty
	}

	for i, it := range items {
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}

	return items, nil
}

// Len returns the number of items in the bank.
func (b *Bank) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// FetchPrompt returns the next item.
func (b *Bank) FetchPrompt(ctx context.Context) (Item, error) {
	if err := ctx.Err(); err != nil {
		return Item{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.items) == 0 {
		return Item{}, ErrBankEmpty
	}

	if b.next >= len(b.order) {
		b.order = rand.Perm(len(b.items))
		b.next = 0
	}

	it := b.items[b.order[b.next]]
	b.next++

	return it.clone(), nil
}
