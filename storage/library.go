package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"songsmith/backend/logger"
	"songsmith/backend/models"
)

var ErrSongNotFound = errors.New("song not found")

// SortBy selects the library ordering.
type SortBy string

const (
	SortByDate  SortBy = "date"  // most recently updated first
	SortByTitle SortBy = "title" // alphabetical
)

const logModule = "storage"

// Library is the saved-song list: one JSON array under one backend key.
type Library struct {
	mu      sync.Mutex
	backend Backend
	key     string
	log     logger.ILogger
}

func NewLibrary(backend Backend, key string, log logger.ILogger) *Library {
	if log == nil {
		log = logger.NewNop()
	}
	return &Library{backend: backend, key: key, log: log}
}

// load reads the whole list. An unparseable payload is logged and treated as empty.
func (l *Library) load(ctx context.Context) ([]*models.Song, error) {
	data, err := l.backend.Load(ctx, l.key)
	if err != nil {
		return nil, fmt.Errorf("load library: %w", err)
	}
	if len(data) == 0 {
		return []*models.Song{}, nil
	}
	var songs []*models.Song
	if err := json.Unmarshal(data, &songs); err != nil {
		l.log.Warn(logModule, "malformed library payload, starting empty", map[string]interface{}{
			"key":   l.key,
			"error": err.Error(),
		})
		return []*models.Song{}, nil
	}
	out := songs[:0]
	for _, s := range songs {
		if s != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func (l *Library) store(ctx context.Context, songs []*models.Song) error {
	data, err := json.Marshal(songs)
	if err != nil {
		return fmt.Errorf("encode library: %w", err)
	}
	if err := l.backend.Store(ctx, l.key, data); err != nil {
		return fmt.Errorf("store library: %w", err)
	}
	return nil
}

// Save inserts song or replaces the saved song with the same id.
func (l *Library) Save(ctx context.Context, song *models.Song) error {
	if song == nil {
		return errors.New("save: nil song")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	songs, err := l.load(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i, s := range songs {
		if s.ID == song.ID {
			songs[i] = song
			replaced = true
			break
		}
	}
	if !replaced {
		songs = append(songs, song)
	}
	if err := l.store(ctx, songs); err != nil {
		return err
	}
	l.log.Debug(logModule, "song saved", map[string]interface{}{"song_id": song.ID, "replaced": replaced})
	return nil
}

// List returns saved songs whose title, artist or genre contains query
// (case-insensitive), ordered by sortBy. Unknown orderings fall back to date.
func (l *Library) List(ctx context.Context, query string, sortBy SortBy) ([]*models.Song, error) {
	l.mu.Lock()
	songs, err := l.load(ctx)
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*models.Song, 0, len(songs))
	for _, s := range songs {
		if q == "" ||
			strings.Contains(strings.ToLower(s.Title), q) ||
			strings.Contains(strings.ToLower(s.Artist), q) ||
			strings.Contains(strings.ToLower(s.Genre), q) {
			out = append(out, s)
		}
	}

	if sortBy == SortByTitle {
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	} else {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		})
	}
	return out, nil
}

func (l *Library) Get(ctx context.Context, id string) (*models.Song, error) {
	l.mu.Lock()
	songs, err := l.load(ctx)
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, s := range songs {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSongNotFound, id)
}

// Delete removes the song with id. Deleting an unknown id is not an error.
func (l *Library) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	songs, err := l.load(ctx)
	if err != nil {
		return err
	}
	kept := songs[:0]
	for _, s := range songs {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	return l.store(ctx, kept)
}
