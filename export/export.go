// Package export renders a song as plain text or a paginated PDF.
package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"songsmith/backend/data"
	"songsmith/backend/models"
)

type Format string

const (
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ParseFormat accepts "txt", "text" and "pdf"; empty means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "txt", "text":
		return FormatText, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/plain; charset=utf-8"
}

// Filename is the song title with whitespace runs replaced by underscores.
func Filename(song *models.Song, f Format) string {
	return whitespaceRun.ReplaceAllString(song.Title, "_") + "." + string(f)
}

// Write renders song in format f.
func Write(w io.Writer, song *models.Song, f Format) error {
	if f == FormatPDF {
		return WritePDF(w, song)
	}
	_, err := io.WriteString(w, Text(song))
	return err
}

func blockLabel(b models.SongBlock) string {
	if b.Label != "" {
		return b.Label
	}
	return data.BlockLabel(b.Type)
}

func chordLine(p *models.ChordProgression) string {
	return strings.Join(p.Symbols(), " - ")
}

// Text renders the title header, the song-wide chords if any, then every block
// as "[Label]", an optional chord line and its content.
func Text(song *models.Song) string {
	var sb strings.Builder
	sb.WriteString(song.Title + "\n")
	if song.Artist != "" {
		sb.WriteString("by " + song.Artist + "\n")
	}
	sb.WriteString("Genre: " + song.Genre + "\n\n")

	if p := song.ChordProgression; p != nil {
		fmt.Fprintf(&sb, "Global Chords: %s\n", chordLine(p))
		fmt.Fprintf(&sb, "Key: %s %s\n\n", p.Key, p.Mode)
	}

	for _, b := range song.Blocks {
		fmt.Fprintf(&sb, "[%s]\n", blockLabel(b))
		if b.ChordProgression != nil {
			fmt.Fprintf(&sb, "Chords: %s\n", chordLine(b.ChordProgression))
		}
		sb.WriteString(b.Content + "\n\n")
	}
	return sb.String()
}
