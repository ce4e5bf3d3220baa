package assist

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"songsmith/backend/models"
	"songsmith/backend/store"
)

type fakeSuggester struct {
	mu    sync.Mutex
	calls []string
	block chan struct{}
	err   error
}

func (f *fakeSuggester) Suggestions(ctx context.Context, song *models.Song, blockID string) ([]models.LyricSuggestion, error) {
	b, _ := song.Block(blockID)
	f.mu.Lock()
	f.calls = append(f.calls, b.Content)
	f.mu.Unlock()
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return []models.LyricSuggestion{{ID: blockID + "-continue-0", Continuation: "for " + b.Content}}, nil
}

func (f *fakeSuggester) Autocomplete(ctx context.Context, textBefore, genre string) (string, error) {
	return genre + ":" + textBefore, nil
}

func (f *fakeSuggester) contents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeRhymer struct {
	mu    sync.Mutex
	words []string
}

func (f *fakeRhymer) Rhymes(ctx context.Context, word string) []models.RhymeSuggestion {
	f.mu.Lock()
	f.words = append(f.words, word)
	f.mu.Unlock()
	return []models.RhymeSuggestion{{Word: word + "-rhyme", Type: models.RhymePerfect, Syllables: 1}}
}

func (f *fakeRhymer) asked() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.words...)
}

func newAssistantFixture(t *testing.T, sug *fakeSuggester) (*store.Store, *Assistant, *fakeRhymer) {
	t.Helper()
	s := store.New()
	rh := &fakeRhymer{}
	a := NewAssistant(s, sug, rh, 30*time.Millisecond, 10*time.Millisecond, nil)
	t.Cleanup(a.Close)
	s.Subscribe(a.Observe)
	s.CreateNewSong("Assist", "", "Country")
	s.AddBlock(models.BlockVerse)
	return s, a, rh
}

func TestAssistant_DebouncesSuggestions(t *testing.T) {
	sug := &fakeSuggester{}
	s, a, _ := newAssistantFixture(t, sug)
	id := s.ActiveBlockID()

	s.UpdateBlock(id, "Dusty roads and")
	s.UpdateBlock(id, "Dusty roads and open")
	s.UpdateBlock(id, "Dusty roads and open skies")

	require.Eventually(t, func() bool {
		return len(a.State().Suggestions) == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, []string{"Dusty roads and open skies"}, sug.contents())
	st := a.State()
	assert.Equal(t, id, st.BlockID)
	assert.Equal(t, "for Dusty roads and open skies", st.Suggestions[0].Continuation)
	assert.False(t, st.SuggestionsLoading)
}

func TestAssistant_ShortContentClearsSuggestions(t *testing.T) {
	sug := &fakeSuggester{}
	s, a, _ := newAssistantFixture(t, sug)
	id := s.ActiveBlockID()

	s.UpdateBlock(id, "long enough content")
	require.Eventually(t, func() bool { return len(a.State().Suggestions) == 1 }, time.Second, 5*time.Millisecond)

	s.UpdateBlock(id, "short")
	assert.Empty(t, a.State().Suggestions)
	time.Sleep(60 * time.Millisecond)
	assert.Len(t, sug.contents(), 1)
}

func TestAssistant_StaleResultDiscarded(t *testing.T) {
	sug := &fakeSuggester{block: make(chan struct{})}
	s, a, _ := newAssistantFixture(t, sug)
	id := s.ActiveBlockID()

	s.UpdateBlock(id, "first version of the line")
	require.Eventually(t, func() bool { return a.State().SuggestionsLoading }, time.Second, 5*time.Millisecond)

	s.UpdateBlock(id, "second version of the line")
	require.Eventually(t, func() bool { return len(sug.contents()) == 2 }, time.Second, 5*time.Millisecond)
	close(sug.block)

	require.Eventually(t, func() bool { return len(a.State().Suggestions) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "for second version of the line", a.State().Suggestions[0].Continuation)
}

func TestAssistant_SuggestionError(t *testing.T) {
	sug := &fakeSuggester{err: context.DeadlineExceeded}
	s, a, _ := newAssistantFixture(t, sug)
	s.UpdateBlock(s.ActiveBlockID(), "this will fail to load")

	require.Eventually(t, func() bool { return a.State().Error != "" }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Failed to generate suggestions", a.State().Error)
	assert.False(t, a.State().SuggestionsLoading)
}

func TestAssistant_RhymeTarget(t *testing.T) {
	s, a, rh := newAssistantFixture(t, &fakeSuggester{})
	id := s.ActiveBlockID()

	s.UpdateBlock(id, "We danced beneath the moonlight,\nholding on so tight!")
	require.Eventually(t, func() bool { return a.State().TargetWord == "tight" && len(a.State().Rhymes) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, RhymeFromContent, a.State().RhymeSource)

	a.SetSelection(id, 22, 31)
	require.Eventually(t, func() bool { return a.State().TargetWord == "moonlight" }, time.Second, 5*time.Millisecond)
	st := a.State()
	assert.Equal(t, RhymeFromSelection, st.RhymeSource)
	assert.Equal(t, "moonlight-rhyme", st.Rhymes[0].Word)

	a.SetSelection(id, 0, 0)
	require.Eventually(t, func() bool { return a.State().TargetWord == "tight" }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"tight", "moonlight", "tight"}, rh.asked())
}

func TestAssistant_ClearsWhenNoActiveBlock(t *testing.T) {
	s, a, _ := newAssistantFixture(t, &fakeSuggester{})
	id := s.ActiveBlockID()
	s.UpdateBlock(id, "a line that is long enough")
	require.Eventually(t, func() bool { return len(a.State().Suggestions) == 1 }, time.Second, 5*time.Millisecond)

	s.SetActiveBlock("")
	st := a.State()
	assert.Empty(t, st.BlockID)
	assert.Empty(t, st.Suggestions)
	assert.Empty(t, st.Rhymes)
}

func TestAssistant_AutocompleteUsesSongGenre(t *testing.T) {
	_, a, _ := newAssistantFixture(t, &fakeSuggester{})
	got, err := a.Autocomplete(context.Background(), "Take me home")
	require.NoError(t, err)
	assert.Equal(t, "Country:Take me home", got)
}
