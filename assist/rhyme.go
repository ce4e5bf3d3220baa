package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"songsmith/backend/logger"
	"songsmith/backend/lyrics"
	"songsmith/backend/models"
)

const (
	perfectRhymeMax = 20
	nearRhymeMax    = 15
	rhymeLimit      = 30
	minRhymeWordLen = 2
)

// RhymeClient queries a Datamuse-compatible word API for perfect and near rhymes.
type RhymeClient struct {
	baseURL string
	client  *http.Client
	cache   *cache.Cache
	log     logger.ILogger
}

func NewRhymeClient(baseURL string, client *http.Client, ttl time.Duration, log logger.ILogger) *RhymeClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &RhymeClient{
		baseURL: baseURL,
		client:  client,
		cache:   cache.New(ttl, 2*ttl),
		log:     log,
	}
}

type datamuseWord struct {
	Word string `json:"word"`
}

// Rhymes returns perfect rhymes followed by near rhymes not already listed,
// at most thirty. Lookup failures are logged and yield an empty list.
func (r *RhymeClient) Rhymes(ctx context.Context, word string) []models.RhymeSuggestion {
	word = strings.ToLower(strings.TrimSpace(word))
	if len(word) < minRhymeWordLen {
		return []models.RhymeSuggestion{}
	}
	if cached, ok := r.cache.Get(word); ok {
		return append([]models.RhymeSuggestion(nil), cached.([]models.RhymeSuggestion)...)
	}

	var perfect, near []datamuseWord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		perfect, err = r.query(gctx, "rel_rhy", word, perfectRhymeMax)
		return err
	})
	g.Go(func() (err error) {
		near, err = r.query(gctx, "rel_nry", word, nearRhymeMax)
		return err
	})
	if err := g.Wait(); err != nil {
		r.log.Warn(logModule, "rhyme lookup failed", map[string]interface{}{
			"word":  word,
			"error": err.Error(),
		})
		return []models.RhymeSuggestion{}
	}

	seen := make(map[string]bool, len(perfect))
	out := make([]models.RhymeSuggestion, 0, len(perfect)+len(near))
	for _, p := range perfect {
		seen[p.Word] = true
		out = append(out, models.RhymeSuggestion{Word: p.Word, Type: models.RhymePerfect, Syllables: lyrics.SyllableCount(p.Word)})
	}
	for _, n := range near {
		if seen[n.Word] {
			continue
		}
		out = append(out, models.RhymeSuggestion{Word: n.Word, Type: models.RhymeNear, Syllables: lyrics.SyllableCount(n.Word)})
	}
	if len(out) > rhymeLimit {
		out = out[:rhymeLimit]
	}

	r.cache.SetDefault(word, out)
	return append([]models.RhymeSuggestion(nil), out...)
}

func (r *RhymeClient) query(ctx context.Context, relation, word string, max int) ([]datamuseWord, error) {
	q := url.Values{}
	q.Set(relation, word)
	q.Set("max", fmt.Sprint(max))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", relation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: status %d", relation, resp.StatusCode)
	}
	var words []datamuseWord
	if err := json.NewDecoder(resp.Body).Decode(&words); err != nil {
		return nil, fmt.Errorf("decode %s: %w", relation, err)
	}
	return words, nil
}
