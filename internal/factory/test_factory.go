package factory

import (
	"time"

	"github.com/mcoot/wordgrid-go/internal/dependencies/mocks"
	"github.com/mcoot/wordgrid-go/internal/services/auth"
	"github.com/mcoot/wordgrid-go/internal/storage/memory"
	"github.com/mcoot/wordgrid-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, auth.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// LoadTestDictionary loads a small dictionary for testing
func (t *TestApp) LoadTestDictionary() error {
	words := []string{
		// 3-letter words
		"ace", "act", "and", "ant", "art", "bad", "bat", "bed", "cab", "can",
		"cat", "dab", "dog", "ear", "eat", "god", "sat", "sea", "set", "tab",
		"tan", "tea", "ten", "toe", "ton",
		// 4-letter words
		"cats", "dogs", "east", "seat", "star", "stop", "tape", "team",
		// 5-letter words
		"beach", "cabin", "cadet", "dance", "tests",
	}
	return t.DictionaryService.LoadWords(words)
}
