package mocks

import (
	"github.com/irisgate/irisgate/internal/dependencies/random"
)

// MockRandom is a queue-backed Random for testing
type MockRandom struct {
	intnResults   []int
	stringResults []string
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 when the queue is empty
func (r *MockRandom) Intn(n int) int {
	if len(r.intnResults) == 0 {
		return 0
	}
	v := r.intnResults[0]
	r.intnResults = r.intnResults[1:]
	return v
}

// String returns the next queued result, or "" when the queue is empty
func (r *MockRandom) String(length int, alphabet string) string {
	if len(r.stringResults) == 0 {
		return ""
	}
	v := r.stringResults[0]
	r.stringResults = r.stringResults[1:]
	return v
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.intnResults = append(r.intnResults, values...)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.stringResults = append(r.stringResults, values...)
}
