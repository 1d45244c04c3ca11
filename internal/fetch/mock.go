package fetch

import (
	"context"
	"sync/atomic"

	"tonepulse/internal/chunker"
)

// MockFetcher returns controllable fixed data for development and testing.
// Results is consulted by range string; a missing entry yields Err if set,
// else an empty batch. Calls counts Fetch invocations across goroutines.
type MockFetcher struct {
	Name    string
	Results map[string]*RawBatch
	Err     error
	Invalid bool

	Calls atomic.Int64
}

func (m *MockFetcher) Source() string {
	if m.Name == "" {
		return "mock"
	}
	return m.Name
}

func (m *MockFetcher) Fetch(_ context.Context, r chunker.DateRange) (*RawBatch, error) {
	m.Calls.Add(1)
	if batch, ok := m.Results[r.String()]; ok {
		return batch, nil
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &RawBatch{Source: m.Source()}, nil
}

func (m *MockFetcher) Validate(b *RawBatch) bool {
	return !m.Invalid && b != nil
}
