package assist

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"songsmith/backend/logger"
	"songsmith/backend/lyrics"
	"songsmith/backend/models"
)

const (
	logModule = "assist"

	// NoSuggestionsText stands in when generation produced no usable line.
	NoSuggestionsText = "Unable to generate suggestions"

	maxSuggestionLines = 5
	continueCount      = 3
	nextCount          = 2
	minSuggestLen      = 10
	minAutocompleteLen = 3
	defaultGenre       = "Pop"
)

var ErrBlockNotFound = errors.New("block not found")

var (
	numberedPrefix   = regexp.MustCompile(`^\s*(?:\d+[.)]|[*•])\s+`)
	explanationLevel = regexp.MustCompile(`(?i)(BASIC|INTERMEDIATE|ADVANCED):`)
)

// Service builds prompts from song context and shapes model output.
type Service struct {
	provider Provider
	log      logger.ILogger
}

func NewService(provider Provider, log logger.ILogger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{provider: provider, log: log}
}

// songContext renders every block with the current one marked.
func songContext(song *models.Song, current models.SongBlock) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Song: %q", song.Title)
	if song.Artist != "" {
		fmt.Fprintf(&sb, " by %s", song.Artist)
	}
	fmt.Fprintf(&sb, "\nGenre: %s\n\nFull Song Structure:\n", song.Genre)

	for _, b := range song.Blocks {
		label := b.Label
		if label == "" {
			label = string(b.Type)
		}
		content := strings.TrimSpace(b.Content)
		if content == "" {
			content = "[empty]"
		}
		marker := ""
		if b.ID == current.ID {
			marker = " <-- CURRENT BLOCK"
		}
		fmt.Fprintf(&sb, "[%s]%s\n%s\n\n", label, marker, content)
	}
	return sb.String()
}

func blockName(b models.SongBlock) string {
	if b.Label != "" {
		return b.Label
	}
	return string(b.Type)
}

func lyricPrompts(song *models.Song, block models.SongBlock, kind models.SuggestionKind) (system, prompt string) {
	system = fmt.Sprintf("You are a songwriting assistant who writes %s lyrics. "+
		"Keep suggestions emotionally honest, consistent with the song's themes, "+
		"and aware of its structure, rhyme scheme and meter.", song.Genre)

	ctx := songContext(song, block)
	if kind == models.SuggestContinueLine {
		last := lyrics.LastLine(block.Content)
		if last == "" {
			last = block.Content
		}
		prompt = fmt.Sprintf(`%s
Task: finish the line currently being written in the %s.

Unfinished line: %q

Write 5 alternative endings for this line. Each should complete the thought in 3 to 8 words,
rhyme with earlier lines where a scheme exists, and keep the rhythm of the song.

Reply with the ending text only, one per line, no numbering and no commentary.`, ctx, blockName(block), last)
		return system, prompt
	}

	prompt = fmt.Sprintf(`%s
Task: write the line that comes next in the %s.

The %s so far:
%s

Write 5 alternative next lines that follow on naturally, respect any rhyme scheme,
move the story or feeling forward and keep a consistent meter for %s.

Reply with the lines only, one per line, no numbering and no commentary.`,
		ctx, blockName(block), blockName(block), block.Content, song.Genre)
	return system, prompt
}

// parseLines keeps the first non-empty lines of raw output with list markers removed.
func parseLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(numberedPrefix.ReplaceAllString(strings.TrimSpace(line), ""))
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == maxSuggestionLines {
			break
		}
	}
	if len(out) == 0 {
		return []string{NoSuggestionsText}
	}
	return out
}

// Suggest asks for up to five lines of the given kind for block.
func (s *Service) Suggest(ctx context.Context, song *models.Song, block models.SongBlock, kind models.SuggestionKind) ([]string, error) {
	system, prompt := lyricPrompts(song, block, kind)
	raw, err := Complete(ctx, s.provider, system, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", kind, err)
	}
	return parseLines(raw), nil
}

// Suggestions fetches continue-line and next-line suggestions for a block in
// parallel and combines them: three continuations, then two next lines.
// Blocks with less than ten characters of content yield nothing.
func (s *Service) Suggestions(ctx context.Context, song *models.Song, blockID string) ([]models.LyricSuggestion, error) {
	block, ok := song.Block(blockID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
	}
	if strings.TrimSpace(block.Content) == "" || len(block.Content) < minSuggestLen {
		return []models.LyricSuggestion{}, nil
	}

	var continueLines, nextLines []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		continueLines, err = s.Suggest(gctx, song, block, models.SuggestContinueLine)
		return err
	})
	g.Go(func() error {
		var err error
		nextLines, err = s.Suggest(gctx, song, block, models.SuggestNextLine)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lastLine := lyrics.LastLine(block.Content)
	if lastLine == "" {
		lastLine = block.Content
	}

	out := make([]models.LyricSuggestion, 0, continueCount+nextCount)
	for i, text := range head(continueLines, continueCount) {
		out = append(out, models.LyricSuggestion{
			ID:           fmt.Sprintf("%s-continue-%d", blockID, i),
			Text:         lastLine,
			Continuation: text,
			FullLine:     strings.TrimSpace(lastLine) + " " + text,
			Type:         models.SuggestContinueLine,
		})
	}
	for i, text := range head(nextLines, nextCount) {
		out = append(out, models.LyricSuggestion{
			ID:           fmt.Sprintf("%s-next-%d", blockID, i),
			Text:         block.Content,
			Continuation: text,
			FullLine:     text,
			Type:         models.SuggestNextLine,
		})
	}
	return out, nil
}

func head(lines []string, n int) []string {
	if len(lines) > n {
		return lines[:n]
	}
	return lines
}

// Autocomplete returns a short completion for the phrase before the cursor.
// Input under three characters is not sent.
func (s *Service) Autocomplete(ctx context.Context, textBefore, genre string) (string, error) {
	if len(strings.TrimSpace(textBefore)) < minAutocompleteLen {
		return "", nil
	}
	if genre == "" {
		genre = defaultGenre
	}
	system := fmt.Sprintf("You autocomplete song lyrics in the %s style. Finish the phrase naturally and briefly.", genre)
	prompt := fmt.Sprintf(`Finish this lyric phrase: %q

Reply with 3 to 8 words that complete it. Do not repeat the given text.
Keep it emotionally resonant and right for %s.`, textBefore, genre)

	raw, err := Complete(ctx, s.provider, system, prompt)
	if err != nil {
		return "", fmt.Errorf("autocomplete: %w", err)
	}
	first, _, _ := strings.Cut(strings.TrimSpace(raw), "\n")
	return strings.TrimSpace(first), nil
}

// ExplainProgression describes a progression at three levels. Any level the
// model fails to produce, or every level on error, gets a generic sentence.
func (s *Service) ExplainProgression(ctx context.Context, chords []string, key models.Key, mode models.Mode, genre string) models.ChordExplanation {
	system := "You are a music theory teacher who explains chord progressions to beginners, working musicians and experts."
	prompt := fmt.Sprintf(`Explain this chord progression in %s %s for %s music:
Chords: %s

Give three explanations:
1. BASIC: for beginners, 2-3 plain sentences
2. INTERMEDIATE: for musicians, 3-4 sentences using theory terms
3. ADVANCED: for experts, 4-5 sentences of detailed analysis

Format:
BASIC: [explanation]
INTERMEDIATE: [explanation]
ADVANCED: [explanation]`, key, mode, genre, strings.Join(chords, " - "))

	raw, err := Complete(ctx, s.provider, system, prompt)
	if err != nil {
		s.log.Warn(logModule, "chord explanation failed", map[string]interface{}{"error": err.Error()})
		raw = ""
	}
	fallback := fmt.Sprintf("This is a %s progression in %s, commonly used in %s music.", mode, key, genre)
	pick := func(level string) string {
		if text := explanationSection(raw, level); text != "" {
			return text
		}
		return fallback
	}
	return models.ChordExplanation{
		Basic:        pick("BASIC"),
		Intermediate: pick("INTERMEDIATE"),
		Advanced:     pick("ADVANCED"),
	}
}

// explanationSection returns the text after "<level>:" up to the next level
// marker that starts a line.
func explanationSection(raw, level string) string {
	marks := explanationLevel.FindAllStringSubmatchIndex(raw, -1)
	for i, m := range marks {
		if !strings.EqualFold(raw[m[2]:m[3]], level) {
			continue
		}
		end := len(raw)
		for _, next := range marks[i+1:] {
			if next[0] > 0 && raw[next[0]-1] == '\n' {
				end = next[0]
				break
			}
		}
		return strings.TrimSpace(raw[m[1]:end])
	}
	return ""
}
