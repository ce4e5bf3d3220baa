package assist

import (
	"context"
	"strings"
	"sync"
	"time"

	"songsmith/backend/debounce"
	"songsmith/backend/logger"
	"songsmith/backend/lyrics"
	"songsmith/backend/models"
	"songsmith/backend/store"
)

// RhymeSource tells whether the rhyme target came from a selection or was
// picked from the end of the block.
type RhymeSource string

const (
	RhymeFromSelection RhymeSource = "selected"
	RhymeFromContent   RhymeSource = "auto"
)

const suggestionsFailed = "Failed to generate suggestions"

// Suggester produces lyric suggestions for a block.
type Suggester interface {
	Suggestions(ctx context.Context, song *models.Song, blockID string) ([]models.LyricSuggestion, error)
	Autocomplete(ctx context.Context, textBefore, genre string) (string, error)
}

// Rhymer looks up rhymes for a word.
type Rhymer interface {
	Rhymes(ctx context.Context, word string) []models.RhymeSuggestion
}

// SongView is the read side of the song store.
type SongView interface {
	Snapshot() *models.Song
	ActiveBlockID() string
}

// State is the transient assistant panel. It is never persisted.
type State struct {
	BlockID            string                   `json:"blockId,omitempty"`
	Suggestions        []models.LyricSuggestion `json:"suggestions"`
	SuggestionsLoading bool                     `json:"suggestionsLoading"`
	Error              string                   `json:"error,omitempty"`
	Rhymes             []models.RhymeSuggestion `json:"rhymes"`
	RhymesLoading      bool                     `json:"rhymesLoading"`
	TargetWord         string                   `json:"targetWord"`
	RhymeSource        RhymeSource              `json:"rhymeSource"`
}

type selection struct {
	blockID    string
	start, end int
}

// Assistant watches the store and refreshes suggestions and rhymes for the
// active block once its content settles. A newer edit always wins over an
// older request still in flight.
type Assistant struct {
	view      SongView
	suggester Suggester
	rhymer    Rhymer
	log       logger.ILogger

	suggestDeb *debounce.Debouncer
	rhymeDeb   *debounce.Debouncer

	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	state         State
	content       string
	contentSeen   bool
	pendingTarget string
	sel           *selection
}

func NewAssistant(view SongView, suggester Suggester, rhymer Rhymer, suggestDelay, rhymeDelay time.Duration, log logger.ILogger) *Assistant {
	if log == nil {
		log = logger.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Assistant{
		view:       view,
		suggester:  suggester,
		rhymer:     rhymer,
		log:        log,
		suggestDeb: debounce.New(suggestDelay),
		rhymeDeb:   debounce.New(rhymeDelay),
		ctx:        ctx,
		cancel:     cancel,
		state: State{
			Suggestions: []models.LyricSuggestion{},
			Rhymes:      []models.RhymeSuggestion{},
			RhymeSource: RhymeFromContent,
		},
	}
}

// Close stops pending work and cancels in-flight requests.
func (a *Assistant) Close() {
	a.suggestDeb.Cancel()
	a.rhymeDeb.Cancel()
	a.cancel()
}

// State returns a copy of the panel state.
func (a *Assistant) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.state
	st.Suggestions = append([]models.LyricSuggestion{}, a.state.Suggestions...)
	st.Rhymes = append([]models.RhymeSuggestion{}, a.state.Rhymes...)
	return st
}

// Observe is a store.Observer.
func (a *Assistant) Observe(c store.Change) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.refreshLocked(c.Song, c.ActiveBlockID)
}

// SetSelection records a selection inside block blockID. start == end clears it.
func (a *Assistant) SetSelection(blockID string, start, end int) {
	song, active := a.view.Snapshot(), a.view.ActiveBlockID()

	a.mu.Lock()
	defer a.mu.Unlock()
	if start == end {
		a.sel = nil
	} else {
		a.sel = &selection{blockID: blockID, start: start, end: end}
	}
	a.refreshLocked(song, active)
}

// Autocomplete completes textBefore in the current song's genre.
func (a *Assistant) Autocomplete(ctx context.Context, textBefore string) (string, error) {
	genre := ""
	if song := a.view.Snapshot(); song != nil {
		genre = song.Genre
	}
	return a.suggester.Autocomplete(ctx, textBefore, genre)
}

func (a *Assistant) refreshLocked(song *models.Song, activeID string) {
	var block models.SongBlock
	found := false
	if song != nil && activeID != "" {
		block, found = song.Block(activeID)
	}
	if !found {
		a.resetLocked()
		return
	}

	if block.ID != a.state.BlockID {
		a.state.BlockID = block.ID
		a.state.Suggestions = []models.LyricSuggestion{}
		a.state.Error = ""
		a.contentSeen = false
		if a.sel != nil && a.sel.blockID != block.ID {
			a.sel = nil
		}
	}

	if !a.contentSeen || block.Content != a.content {
		a.content = block.Content
		a.contentSeen = true
		a.scheduleSuggestionsLocked(song, block)
	}
	a.scheduleRhymesLocked(block)
}

func (a *Assistant) resetLocked() {
	a.suggestDeb.Cancel()
	a.rhymeDeb.Cancel()
	a.sel = nil
	a.content = ""
	a.contentSeen = false
	a.pendingTarget = ""
	a.state = State{
		Suggestions: []models.LyricSuggestion{},
		Rhymes:      []models.RhymeSuggestion{},
		RhymeSource: RhymeFromContent,
	}
}

func (a *Assistant) scheduleSuggestionsLocked(song *models.Song, block models.SongBlock) {
	if strings.TrimSpace(block.Content) == "" || len(block.Content) < minSuggestLen {
		a.suggestDeb.Cancel()
		a.state.Suggestions = []models.LyricSuggestion{}
		a.state.SuggestionsLoading = false
		return
	}

	blockID := block.ID
	a.suggestDeb.Trigger(a.ctx, func(ctx context.Context, gen uint64) {
		a.mu.Lock()
		if !a.suggestDeb.IsCurrent(gen) {
			a.mu.Unlock()
			return
		}
		a.state.SuggestionsLoading = true
		a.state.Error = ""
		a.mu.Unlock()

		items, err := a.suggester.Suggestions(ctx, song, blockID)

		a.mu.Lock()
		defer a.mu.Unlock()
		if !a.suggestDeb.IsCurrent(gen) {
			return
		}
		a.state.SuggestionsLoading = false
		if err != nil {
			a.state.Error = suggestionsFailed
			a.log.Error(logModule, "suggestion fetch failed", map[string]interface{}{
				"error":    err,
				"block_id": blockID,
			})
			return
		}
		a.state.Suggestions = items
	})
}

// rhymeTargetLocked prefers the selected word and falls back to the last
// rhymable word of the block.
func (a *Assistant) rhymeTargetLocked(block models.SongBlock) (string, RhymeSource) {
	if a.sel != nil && a.sel.blockID == block.ID {
		if w := lyrics.SelectedWord(block.Content, a.sel.start, a.sel.end); w != "" {
			return w, RhymeFromSelection
		}
	}
	return lyrics.ExtractRhymableWord(block.Content), RhymeFromContent
}

func (a *Assistant) scheduleRhymesLocked(block models.SongBlock) {
	target, source := a.rhymeTargetLocked(block)
	a.state.RhymeSource = source
	if target == a.pendingTarget {
		return
	}
	a.pendingTarget = target

	if len(target) < minRhymeWordLen {
		a.rhymeDeb.Cancel()
		a.state.TargetWord = target
		a.state.Rhymes = []models.RhymeSuggestion{}
		a.state.RhymesLoading = false
		return
	}

	a.rhymeDeb.Trigger(a.ctx, func(ctx context.Context, gen uint64) {
		a.mu.Lock()
		if !a.rhymeDeb.IsCurrent(gen) {
			a.mu.Unlock()
			return
		}
		a.state.TargetWord = target
		a.state.RhymesLoading = true
		a.mu.Unlock()

		rhymes := a.rhymer.Rhymes(ctx, target)

		a.mu.Lock()
		defer a.mu.Unlock()
		if !a.rhymeDeb.IsCurrent(gen) {
			return
		}
		a.state.Rhymes = rhymes
		a.state.RhymesLoading = false
	})
}
