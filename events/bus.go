// Package events carries store change notifications over an in-process
// watermill pub/sub and persists the current song when edits settle.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"songsmith/backend/logger"
	"songsmith/backend/store"
)

const TopicSongChanged = "song.changed"

const logModule = "events"

// SongChanged is the payload published for every store change.
type SongChanged struct {
	Kind          store.ChangeKind `json:"kind"`
	Revision      uint64           `json:"revision"`
	SongID        string           `json:"songId"`
	ActiveBlockID string           `json:"activeBlockId,omitempty"`
	At            time.Time        `json:"at"`
}

type Bus struct {
	pubSub *gochannel.GoChannel
	log    logger.ILogger
}

func NewBus(log logger.ILogger) *Bus {
	if log == nil {
		log = logger.NewNop()
	}
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NopLogger{},
	)
	return &Bus{pubSub: pubSub, log: log}
}

// Observe is a store.Observer that republishes changes on TopicSongChanged.
func (b *Bus) Observe(c store.Change) {
	evt := SongChanged{
		Kind:          c.Kind,
		Revision:      c.Revision,
		ActiveBlockID: c.ActiveBlockID,
		At:            time.Now(),
	}
	if c.Song != nil {
		evt.SongID = c.Song.ID
	}
	if err := b.Publish(evt); err != nil {
		b.log.Error(logModule, "failed to publish song change", map[string]interface{}{
			"error":    err,
			"revision": c.Revision,
		})
	}
}

func (b *Bus) Publish(evt SongChanged) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return b.pubSub.Publish(TopicSongChanged, msg)
}

func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, TopicSongChanged)
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}
