package events

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"songsmith/backend/models"
	"songsmith/backend/store"
)

type recordingSaver struct {
	mu    sync.Mutex
	saved []*models.Song
}

func (r *recordingSaver) Save(_ context.Context, song *models.Song) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, song)
	return nil
}

func (r *recordingSaver) snapshot() []*models.Song {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.Song(nil), r.saved...)
}

func TestBus_ObservePublishesChange(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := bus.Subscribe(ctx)
	require.NoError(t, err)

	s := store.New()
	s.Subscribe(bus.Observe)
	s.CreateNewSong("Evented", "", "")

	select {
	case msg := <-messages:
		var evt SongChanged
		require.NoError(t, json.Unmarshal(msg.Payload, &evt))
		msg.Ack()
		assert.Equal(t, store.ChangeSongCreated, evt.Kind)
		assert.Equal(t, uint64(1), evt.Revision)
		assert.Equal(t, s.Snapshot().ID, evt.SongID)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestAutosaver_SavesOnceAfterBurst(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := store.New()
	saver := &recordingSaver{}
	auto := NewAutosaver(bus, s, saver, 40*time.Millisecond, nil)
	require.NoError(t, auto.Run(ctx))
	s.Subscribe(bus.Observe)

	s.CreateNewSong("Draft", "", "Folk")
	s.AddBlock(models.BlockVerse)
	s.UpdateBlock(s.ActiveBlockID(), "a quiet road")

	require.Eventually(t, func() bool { return len(saver.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(80 * time.Millisecond)

	saved := saver.snapshot()
	require.Len(t, saved, 1)
	assert.Equal(t, "Draft", saved[0].Title)
	require.Len(t, saved[0].Blocks, 1)
	assert.Equal(t, "a quiet road", saved[0].Blocks[0].Content)
}

func TestAutosaver_IgnoresActiveBlockMoves(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := store.New()
	s.CreateNewSong("Still", "", "")
	saver := &recordingSaver{}
	require.NoError(t, NewAutosaver(bus, s, saver, 10*time.Millisecond, nil).Run(ctx))
	s.Subscribe(bus.Observe)

	s.SetActiveBlock("anything")
	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, saver.snapshot())
}

func TestAutosaver_FlushesPendingEditOnShutdown(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()
	ctx, cancel := context.WithCancel(context.Background())

	s := store.New()
	saver := &recordingSaver{}
	auto := NewAutosaver(bus, s, saver, 200*time.Millisecond, nil)
	require.NoError(t, auto.Run(ctx))
	s.Subscribe(bus.Observe)

	s.CreateNewSong("Late Night", "", "")
	s.AddBlock(models.BlockChorus)
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-auto.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("autosaver did not finish after shutdown")
	}

	saved := saver.snapshot()
	require.Len(t, saved, 1)
	assert.Equal(t, "Late Night", saved[0].Title)
	assert.Len(t, saved[0].Blocks, 1)
}

func TestAutosaver_NoFlushWhenClean(t *testing.T) {
	bus := NewBus(nil)
	defer bus.Close()
	ctx, cancel := context.WithCancel(context.Background())

	s := store.New()
	saver := &recordingSaver{}
	auto := NewAutosaver(bus, s, saver, 10*time.Millisecond, nil)
	require.NoError(t, auto.Run(ctx))
	s.Subscribe(bus.Observe)

	s.CreateNewSong("Settled", "", "")
	require.Eventually(t, func() bool { return len(saver.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-auto.Done()
	assert.Len(t, saver.snapshot(), 1)
}
