package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"songsmith/backend/debounce"
	"songsmith/backend/logger"
	"songsmith/backend/models"
	"songsmith/backend/store"
)

// FlushTimeout bounds the final save made when the autosaver stops.
const FlushTimeout = 5 * time.Second

// SongSource yields the song to persist.
type SongSource interface {
	Snapshot() *models.Song
}

// SongSaver persists a song.
type SongSaver interface {
	Save(ctx context.Context, song *models.Song) error
}

// Autosaver saves the current song once change events stop arriving for the
// debounce period. Active-block moves are not document edits and are ignored.
// Unsaved edits are flushed when the subscription ends.
type Autosaver struct {
	bus    *Bus
	source SongSource
	saver  SongSaver
	deb    *debounce.Debouncer
	log    logger.ILogger

	mu     sync.Mutex
	dirty  bool
	saveMu sync.Mutex
	done   chan struct{}
}

func NewAutosaver(bus *Bus, source SongSource, saver SongSaver, delay time.Duration, log logger.ILogger) *Autosaver {
	if log == nil {
		log = logger.NewNop()
	}
	return &Autosaver{
		bus:    bus,
		source: source,
		saver:  saver,
		deb:    debounce.New(delay),
		log:    log,
		done:   make(chan struct{}),
	}
}

// Run subscribes and consumes in the background until ctx is done, then
// flushes any pending save and closes Done.
func (a *Autosaver) Run(ctx context.Context) error {
	messages, err := a.bus.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		defer close(a.done)
		for msg := range messages {
			a.handle(ctx, msg.Payload)
			msg.Ack()
		}
		a.deb.Cancel()

		flushCtx, cancel := context.WithTimeout(context.Background(), FlushTimeout)
		defer cancel()
		a.save(flushCtx)
	}()
	return nil
}

// Done is closed once the final flush has finished.
func (a *Autosaver) Done() <-chan struct{} {
	return a.done
}

func (a *Autosaver) handle(ctx context.Context, payload []byte) {
	var evt SongChanged
	if err := json.Unmarshal(payload, &evt); err != nil {
		a.log.Warn(logModule, "dropping malformed change event", map[string]interface{}{"error": err.Error()})
		return
	}
	if evt.Kind == store.ChangeActiveBlock || evt.SongID == "" {
		return
	}
	a.mu.Lock()
	a.dirty = true
	a.mu.Unlock()
	a.deb.Trigger(ctx, func(ctx context.Context, _ uint64) {
		a.save(ctx)
	})
}

// save persists the current song if an edit arrived since the last successful
// save. Saves never overlap; a failed save leaves the autosaver dirty.
func (a *Autosaver) save(ctx context.Context) {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	dirty := a.dirty
	a.dirty = false
	a.mu.Unlock()
	if !dirty {
		return
	}

	song := a.source.Snapshot()
	if song == nil {
		return
	}
	if err := a.saver.Save(ctx, song); err != nil {
		a.mu.Lock()
		a.dirty = true
		a.mu.Unlock()
		a.log.Error(logModule, "autosave failed", map[string]interface{}{
			"error":   err,
			"song_id": song.ID,
		})
		return
	}
	a.log.Debug(logModule, "autosaved", map[string]interface{}{"song_id": song.ID})
}
