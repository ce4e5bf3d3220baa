// Package midi renders chord symbols to a Standard MIDI File with a choice of
// accompaniment patterns.
package midi

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"songsmith/backend/models"
	"songsmith/backend/theory"
)

const (
	ticksPerQuarter = 480

	DefaultTempo   = 120
	DefaultOctave  = 4
	DefaultBeats   = 4
	DefaultPattern = "quarter"

	minOctave = 2
	maxOctave = 6
	channel   = 0
)

// qualityIntervals maps the suffix after the root to semitone intervals.
var qualityIntervals = map[string][]int{
	"":      {0, 4, 7},
	"m":     {0, 3, 7},
	"7":     {0, 4, 7, 10},
	"9":     {0, 4, 7, 10, 14},
	"maj7":  {0, 4, 7, 11},
	"m7":    {0, 3, 7, 10},
	"dim":   {0, 3, 6},
	"dim7":  {0, 3, 6, 9},
	"aug":   {0, 4, 8},
	"sus2":  {0, 2, 7},
	"sus4":  {0, 5, 7},
	"6":     {0, 4, 7, 9},
	"m6":    {0, 3, 7, 9},
	"add9":  {0, 4, 7, 14},
	"madd9": {0, 3, 7, 14},
}

// WithDefaults fills zero or out-of-range fields of req.
func WithDefaults(req models.MidiRequest) models.MidiRequest {
	if req.Tempo <= 0 {
		req.Tempo = DefaultTempo
	}
	if req.Octave < minOctave || req.Octave > maxOctave {
		req.Octave = DefaultOctave
	}
	if req.Beats <= 0 {
		req.Beats = DefaultBeats
	}
	if req.Pattern == "" {
		req.Pattern = DefaultPattern
	}
	return req
}

// fretsToMidi converts fret positions plus open-string tuning to a sorted,
// de-duplicated note list. Muted strings ("x") and notes above 127 are skipped.
func fretsToMidi(frets []string, openMidi []int) []uint8 {
	var pitches []int
	for i, fv := range frets {
		if fv == "x" || i >= len(openMidi) {
			continue
		}
		fret, err := strconv.Atoi(fv)
		if err != nil {
			continue
		}
		if p := openMidi[i] + fret; p >= 0 && p <= 127 {
			pitches = append(pitches, p)
		}
	}
	sort.Ints(pitches)

	var out []uint8
	seen := map[int]bool{}
	for _, p := range pitches {
		if !seen[p] {
			seen[p] = true
			out = append(out, uint8(p))
		}
	}
	return out
}

// chordToMidi voices a chord symbol upward from its root in baseOctave
// (C4 = 60). Unknown roots fall back to C and unknown suffixes to a major triad.
func chordToMidi(chord string, baseOctave int) []uint8 {
	root := theory.RootIndex(chord)
	if root == -1 {
		root = 0
	}
	intervals, ok := qualityIntervals[theory.Suffix(chord)]
	if !ok {
		intervals = qualityIntervals[""]
	}

	base := 12*(baseOctave+1) + root
	notes := make([]uint8, len(intervals))
	for i, iv := range intervals {
		n := base + iv
		for n > 127 {
			n -= 12
		}
		notes[i] = uint8(n)
	}
	return notes
}

type timedNote struct {
	key   uint8
	vel   uint8
	start uint32
	dur   uint32
}

type event struct {
	tick uint32
	on   bool
	key  uint8
	vel  uint8
}

// Build renders req, after WithDefaults, to a single-track SMF.
func Build(req models.MidiRequest) (*smf.SMF, error) {
	req = WithDefaults(req)
	pat, ok := patterns[req.Pattern]
	if !ok {
		return nil, fmt.Errorf("unknown pattern %q", req.Pattern)
	}

	beatTicks := uint32(ticksPerQuarter)
	chordTicks := beatTicks * uint32(req.Beats)

	var notes []timedNote
	for ci, name := range req.Chords {
		var voicing []uint8
		if ci < len(req.Frets) && len(req.OpenMidi) > 0 {
			voicing = fretsToMidi(req.Frets[ci], req.OpenMidi)
		}
		if len(voicing) == 0 {
			voicing = chordToMidi(name, req.Octave)
		}
		offset := uint32(ci) * chordTicks
		for _, n := range pat(voicing, beatTicks, req.Beats) {
			n.start += offset
			notes = append(notes, n)
		}
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(float64(req.Tempo)))
	tr.Add(0, smf.MetaMeter(uint8(req.Beats), 4))

	var last uint32
	for _, ev := range schedule(notes) {
		if ev.on {
			tr.Add(ev.tick-last, gomidi.NoteOn(channel, ev.key, ev.vel))
		} else {
			tr.Add(ev.tick-last, gomidi.NoteOff(channel, ev.key))
		}
		last = ev.tick
	}
	end := uint32(len(req.Chords)) * chordTicks
	if end < last {
		end = last
	}
	tr.Close(end - last)

	if err := s.Add(tr); err != nil {
		return nil, fmt.Errorf("add track: %w", err)
	}
	return s, nil
}

// schedule flattens notes to on/off events in time order, releasing before
// striking at the same tick so repeated keys retrigger cleanly.
func schedule(notes []timedNote) []event {
	events := make([]event, 0, 2*len(notes))
	for _, n := range notes {
		events = append(events,
			event{tick: n.start, on: true, key: n.key, vel: n.vel},
			event{tick: n.start + n.dur, on: false, key: n.key},
		)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return !events[i].on && events[j].on
	})
	return events
}

// Write renders req and writes the file to w.
func Write(w io.Writer, req models.MidiRequest) error {
	s, err := Build(req)
	if err != nil {
		return err
	}
	_, err = s.WriteTo(w)
	return err
}
