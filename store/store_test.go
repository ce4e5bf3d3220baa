package store

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"songsmith/backend/models"
	"songsmith/backend/theory"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	n := 0
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return New(
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
		WithClock(func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}),
	)
}

func blockIDs(song *models.Song) []string {
	ids := make([]string, len(song.Blocks))
	for i, b := range song.Blocks {
		ids[i] = b.ID
	}
	return ids
}

func assertDenseOrder(t *testing.T, song *models.Song) {
	t.Helper()
	for i, b := range song.Blocks {
		assert.Equal(t, i, b.Order, "block %s", b.ID)
	}
}

func TestCreateNewSong(t *testing.T) {
	s := newTestStore(t)
	s.CreateNewSong("Test", "Me", "Pop")

	song := s.Snapshot()
	require.NotNil(t, song)
	assert.Equal(t, "Test", song.Title)
	assert.Equal(t, "Pop", song.Genre)
	assert.Empty(t, song.Blocks)
	assert.Empty(t, song.History)
	assert.Equal(t, -1, song.HistoryIndex)
	assert.Equal(t, "", s.ActiveBlockID())
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
}

func TestMutationsWithoutSongAreNoops(t *testing.T) {
	s := newTestStore(t)
	s.AddBlock(models.BlockVerse)
	s.UpdateBlock("x", "hi")
	s.Undo()
	s.Redo()
	assert.Nil(t, s.Snapshot())
}

func TestEditUndoRedoScenario(t *testing.T) {
	s := newTestStore(t)
	s.CreateNewSong("Test", "", "Pop")
	s.AddBlock(models.BlockVerse)
	id := s.ActiveBlockID()
	require.NotEmpty(t, id)

	s.UpdateBlock(id, "hello world")
	b, ok := s.Snapshot().Block(id)
	require.True(t, ok)
	assert.Equal(t, 2, b.WordCount)
	assert.Equal(t, 3, b.SyllableCount)

	s.Undo()
	b, _ = s.Snapshot().Block(id)
	assert.Equal(t, "", b.Content)
	assert.Equal(t, 0, b.WordCount)
	assert.True(t, s.CanRedo())

	s.Redo()
	b, _ = s.Snapshot().Block(id)
	assert.Equal(t, "hello world", b.Content)
	assert.False(t, s.CanRedo())
}

func TestAddBlockLabels(t *testing.T) {
	s := newTestStore(t)
	s.CreateNewSong("Labels", "", "")
	s.AddBlock(models.BlockVerse)
	s.AddBlock(models.BlockChorus)
	s.AddBlock(models.BlockVerse)
	s.AddBlock(models.BlockPreChorus)

	song := s.Snapshot()
	labels := []string{}
	for _, b := range song.Blocks {
		labels = append(labels, b.Label)
	}
	assert.Equal(t, []string{"Verse 1", "Chorus 1", "Verse 2", "Pre-chorus 1"}, labels)
	assertDenseOrder(t, song)
	assert.Equal(t, song.Blocks[3].ID, s.ActiveBlockID())
}

func TestLabelsAreNotRenumberedOnDelete(t *testing.T) {
	s := newTestStore(t)
	s.CreateNewSong("Labels", "", "")
	s.AddBlock(models.BlockVerse)
	first := s.ActiveBlockID()
	s.AddBlock(models.BlockVerse)
	s.DeleteBlock(first)
	s.AddBlock(models.BlockVerse)

	song := s.Snapshot()
	require.Len(t, song.Blocks, 2)
	assert.Equal(t, "Verse 2", song.Blocks[0].Label)
	assert.Equal(t, "Verse 2", song.Blocks[1].Label)
}

func TestAddBlocksFromTemplate(t *testing.T) {
	s := newTestStore(t)
	s.CreateNewSong("Tpl", "", "")
	s.AddBlock(models.BlockVerse)

	s.AddBlocksFromTemplate([]models.BlockType{models.BlockVerse, models.BlockChorus, models.BlockVerse})
	song := s.Snapshot()
	require.Len(t, song.Blocks, 4)
	assert.Equal(t, "Verse 1", song.Blocks[1].Label)
	assert.Equal(t, "Chorus 1", song.Blocks[2].Label)
	assert.Equal(t, "Verse 2", song.Blocks[3].Label)
	assert.Equal(t, song.Blocks[1].ID, s.ActiveBlockID())
	assertDenseOrder(t, song)
	assert.Len(t, song.History, 2, "batch is one history entry")

	s.AddBlocksFromTemplate(nil)
	assert.Len(t, s.Snapshot().History, 2)
}

func TestDuplicateBlock(t *testing.T) {
	s := newTestStore(t)
	s.CreateNewSong("Dup", "", "")
	s.AddBlock(models.BlockChorus)
	src := s.ActiveBlockID()
	s.AddBlock(models.BlockVerse)
	s.UpdateBlock(src, "sing it loud")
	prog, err := theory.BuildProgression([]int{1, 4, 5}, "Rock", "E", models.ModeMajor)
	require.NoError(t, err)
	s.SetBlockChordProgression(src, prog)

	s.DuplicateBlock(src)
	song := s.Snapshot()
	require.Len(t, song.Blocks, 3)
	dup := song.Blocks[2]
	assert.NotEqual(t, src, dup.ID)
	assert.Equal(t, "Chorus 2", dup.Label)
	assert.Equal(t, 2, dup.Order)
	assert.Equal(t, "sing it loud", dup.Content)
	assert.Equal(t, prog, dup.ChordProgression)
	assert.NotSame(t, song.Blocks[0].ChordProgression, dup.ChordProgression)
	assert.Equal(t, dup.ID, s.ActiveBlockID())

	before := len(song.History)
	s.DuplicateBlock("missing")
	assert.Len(t, s.Snapshot().History, before)
}

func TestUpdateUnknownBlockIsNoop(t *testing.T) {
	s := newTestStore(t)
	s.CreateNewSong("x", "", "")
	s.AddBlock(models.BlockVerse)
	s.UpdateBlock("missing", "words")
	assert.Len(t, s.Snapshot().History, 1)
}

func TestDeleteBlock(t *testing.T) {
	s := newTestStore(t)
	s.CreateNewSong("Del", "", "")
	for i := 0; i < 4; i++ {
		s.AddBlock(models.BlockVerse)
	}
	ids := blockIDs(s.Snapshot())

	s.SetActiveBlock(ids[1])
	s.DeleteBlock(ids[1])
	song := s.Snapshot()
	assert.Equal(t, []string{ids[0], ids[2], ids[3]}, blockIDs(song))
	assertDenseOrder(t, song)
	assert.Equal(t, "", s.ActiveBlockID())

	s.SetActiveBlock(ids[0])
	s.DeleteBlock(ids[3])
	assert.Equal(t, ids[0], s.ActiveBlockID())
}

func TestReorderBlocks(t *testing.T) {
	s := newTestStore(t)
	s.CreateNewSong("Order", "", "")
	for i := 0; i < 3; i++ {
		s.AddBlock(models.BlockVerse)
	}
	ids := blockIDs(s.Snapshot())

	s.ReorderBlocks([]string{ids[2], ids[0], ids[1]})
	song := s.Snapshot()
	assert.Equal(t, []string{ids[2], ids[0], ids[1]}, blockIDs(song))
	assertDenseOrder(t, song)

	s.ReorderBlocks([]string{ids[1], "ghost", ids[0]})
	song = s.Snapshot()
	assert.Equal(t, []string{ids[1], ids[0]}, blockIDs(song), "unlisted and unknown ids are dropped")
	assertDenseOrder(t, song)
}

func TestSetActiveBlockNotInHistory(t *testing.T) {
	s := newTestStore(t)
	s.CreateNewSong("x", "", "")
	s.AddBlock(models.BlockVerse)
	id := s.ActiveBlockID()
	s.SetActiveBlock("")
	assert.Equal(t, "", s.ActiveBlockID())
	s.SetActiveBlock(id)
	assert.Equal(t, id, s.ActiveBlockID())
	assert.Len(t, s.Snapshot().History, 1)
}

func TestChordProgressions(t *testing.T) {
	s := newTestStore(t)
	s.CreateNewSong("Chords", "", "Pop")
	s.AddBlock(models.BlockVerse)
	s.AddBlock(models.BlockChorus)
	ids := blockIDs(s.Snapshot())
	prog, err := theory.BuildProgression([]int{1, 5, 6, 4}, "Pop", "G", models.ModeMajor)
	require.NoError(t, err)

	s.SetChordProgression(prog)
	song := s.Snapshot()
	assert.Equal(t, prog, song.ChordProgression)
	assert.Len(t, song.History, 3)

	s.ApplyChordProgressionToBlocks([]string{ids[0], "ghost", ids[1]}, prog)
	song = s.Snapshot()
	assert.Len(t, song.History, 4)
	for _, b := range song.Blocks {
		assert.Equal(t, prog, b.ChordProgression)
	}

	s.SetBlockChordProgression(ids[1], nil)
	song = s.Snapshot()
	assert.Nil(t, song.Blocks[1].ChordProgression)
	assert.NotNil(t, song.Blocks[0].ChordProgression)

	s.Undo()
	song = s.Snapshot()
	assert.NotNil(t, song.Blocks[1].ChordProgression)

	// The global progression is outside the undo scope.
	s.Undo()
	s.Undo()
	assert.Equal(t, prog, s.Snapshot().ChordProgression)
}

func TestUpdateMetaSkipsHistory(t *testing.T) {
	s := newTestStore(t)
	s.CreateNewSong("Old", "A", "Pop")
	s.AddBlock(models.BlockVerse)
	before := s.Snapshot()

	title := "New"
	s.UpdateMeta(&title, nil, nil)
	after := s.Snapshot()
	assert.Equal(t, "New", after.Title)
	assert.Equal(t, "A", after.Artist)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	assert.Len(t, after.History, 1)

	s.AddBlock(models.BlockChorus)
	s.Undo()
	assert.Equal(t, "New", s.Snapshot().Title)
}

func TestNewEditAfterUndoTruncatesRedo(t *testing.T) {
	s := newTestStore(t)
	s.CreateNewSong("x", "", "")
	s.AddBlock(models.BlockVerse)
	id := s.ActiveBlockID()
	s.UpdateBlock(id, "one")
	s.UpdateBlock(id, "two")
	s.Undo()
	s.Undo()
	require.True(t, s.CanRedo())

	s.UpdateBlock(id, "three")
	song := s.Snapshot()
	assert.False(t, s.CanRedo())
	assert.Len(t, song.History, 2)
	assert.Equal(t, 1, song.HistoryIndex)
}

func TestHistoryCap(t *testing.T) {
	s := newTestStore(t)
	s.CreateNewSong("cap", "", "")
	s.AddBlock(models.BlockVerse)
	id := s.ActiveBlockID()
	for i := 0; i < 80; i++ {
		s.UpdateBlock(id, fmt.Sprintf("line %d", i))
	}
	song := s.Snapshot()
	assert.Len(t, song.History, MaxHistory)
	assert.Equal(t, MaxHistory-1, song.HistoryIndex)
	assert.Equal(t, "line 79", song.History[song.HistoryIndex].Blocks[0].Content)
	assert.Equal(t, "line 30", song.History[0].Blocks[0].Content)

	for s.CanUndo() {
		s.Undo()
	}
	b, _ := s.Snapshot().Block(id)
	assert.Equal(t, "line 30", b.Content)
}

func TestHistoryDoesNotAliasLiveBlocks(t *testing.T) {
	s := newTestStore(t)
	s.CreateNewSong("alias", "", "")
	s.AddBlock(models.BlockVerse)
	id := s.ActiveBlockID()
	prog, _ := theory.BuildProgression([]int{2, 5, 1}, "Jazz", "C", models.ModeMajor)
	s.SetBlockChordProgression(id, prog)

	snap := s.Snapshot()
	snap.Blocks[0].Content = "mutated"
	snap.Blocks[0].ChordProgression.Chords[0].Extensions[0] = "13"
	snap.History[0].Blocks[0].Content = "mutated"

	fresh := s.Snapshot()
	assert.Equal(t, "", fresh.Blocks[0].Content)
	assert.Equal(t, "7", fresh.Blocks[0].ChordProgression.Chords[0].Extensions[0])
	assert.Equal(t, "", fresh.History[0].Blocks[0].Content)

	s.Undo()
	s.Redo()
	assert.Equal(t, prog, s.Snapshot().Blocks[0].ChordProgression)
}

func TestUndoRedoRoundTripProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	s := newTestStore(t)
	s.CreateNewSong("prop", "", "")

	for step := 0; step < 300; step++ {
		song := s.Snapshot()
		switch op := rng.IntN(4); {
		case op == 0 || len(song.Blocks) == 0:
			s.AddBlock(models.BlockTypes[rng.IntN(len(models.BlockTypes))])
		case op == 1:
			b := song.Blocks[rng.IntN(len(song.Blocks))]
			s.UpdateBlock(b.ID, fmt.Sprintf("words %d here", step))
		case op == 2:
			s.DeleteBlock(song.Blocks[rng.IntN(len(song.Blocks))].ID)
		default:
			ids := blockIDs(song)
			rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
			s.ReorderBlocks(ids)
			assert.Equal(t, ids, blockIDs(s.Snapshot()))
		}

		song = s.Snapshot()
		require.LessOrEqual(t, len(song.History), MaxHistory)
		require.GreaterOrEqual(t, song.HistoryIndex, -1)
		require.Less(t, song.HistoryIndex, len(song.History))
		assertDenseOrder(t, song)

		if s.CanUndo() {
			before := song.Blocks
			s.Undo()
			s.Redo()
			assert.Equal(t, before, s.Snapshot().Blocks)
		}
	}
}

func TestLoadSong(t *testing.T) {
	s := newTestStore(t)
	s.CreateNewSong("orig", "", "")
	s.AddBlock(models.BlockVerse)
	saved := s.Snapshot()

	s.CreateNewSong("other", "", "")
	saved.HistoryIndex = 10
	s.LoadSong(saved)

	got := s.Snapshot()
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, 0, got.HistoryIndex)
	assert.Equal(t, "", s.ActiveBlockID())

	s.LoadSong(&models.Song{ID: "bare", Title: "bare"})
	got = s.Snapshot()
	assert.Equal(t, -1, got.HistoryIndex)
	assert.NotNil(t, got.Blocks)
}

func TestObservers(t *testing.T) {
	s := newTestStore(t)
	var mu sync.Mutex
	var changes []Change
	unsubscribe := s.Subscribe(func(c Change) {
		mu.Lock()
		defer mu.Unlock()
		changes = append(changes, c)
	})

	s.CreateNewSong("obs", "", "")
	s.AddBlock(models.BlockVerse)
	s.UpdateBlock("missing", "x")
	s.Undo()

	require.Len(t, changes, 2)
	assert.Equal(t, ChangeSongCreated, changes[0].Kind)
	assert.Equal(t, ChangeBlocks, changes[1].Kind)
	assert.Equal(t, uint64(2), changes[1].Revision)
	assert.Equal(t, changes[1].Song.Blocks[0].ID, changes[1].ActiveBlockID)

	changes[1].Song.Blocks[0].Content = "mine"
	assert.Equal(t, "", s.Snapshot().Blocks[0].Content)

	unsubscribe()
	s.AddBlock(models.BlockChorus)
	assert.Len(t, changes, 2)
}

func TestObserverMaySubscribeAndUnsubscribe(t *testing.T) {
	s := newTestStore(t)
	var late []ChangeKind
	var unsubscribeSelf func()
	unsubscribeSelf = s.Subscribe(func(c Change) {
		s.Subscribe(func(c Change) { late = append(late, c.Kind) })
		unsubscribeSelf()
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.CreateNewSong("reentrant", "", "")
		s.AddBlock(models.BlockVerse)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("mutation blocked on an observer that subscribed")
	}

	assert.Equal(t, []ChangeKind{ChangeBlocks}, late)
}

func TestConcurrentEdits(t *testing.T) {
	s := New()
	s.CreateNewSong("race", "", "")
	s.AddBlock(models.BlockVerse)
	id := s.ActiveBlockID()

	var last uint64
	var mu sync.Mutex
	ordered := true
	s.Subscribe(func(c Change) {
		mu.Lock()
		defer mu.Unlock()
		if c.Revision <= last {
			ordered = false
		}
		last = c.Revision
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				s.UpdateBlock(id, fmt.Sprintf("%d-%d", i, j))
				_ = s.Snapshot()
			}
		}(i)
	}
	wg.Wait()

	assert.True(t, ordered)
	assert.Len(t, s.Snapshot().History, MaxHistory)
}
