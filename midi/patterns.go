package midi

import "sort"

// pattern lays out one chord's notes relative to the chord's first tick.
type pattern func(notes []uint8, beatTicks uint32, beats int) []timedNote

var patterns = map[string]pattern{
	"whole":             whole,
	"half":              half,
	"quarter":           quarter,
	"arpeggio-up":       arpeggioUp,
	"arpeggio-down":     arpeggioDown,
	"boom-chick":        boomChick,
	"pop-strum":         popStrum,
	"travis-picking":    travisPicking,
	"alberti-bass":      albertiBass,
	"rock-8th":          rock8th,
	"pima-arpeggio":     pimaArpeggio,
	"four-on-the-floor": fourOnTheFloor,
}

// Patterns lists the available pattern names in alphabetical order.
func Patterns() []string {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidPattern reports whether name is a known pattern.
func ValidPattern(name string) bool {
	_, ok := patterns[name]
	return ok
}

// noteAt indexes notes cyclically; negative indices count from the end.
func noteAt(notes []uint8, i int) uint8 {
	n := len(notes)
	return notes[((i%n)+n)%n]
}

// lowerOctave drops a note by an octave unless that would leave the MIDI range.
func lowerOctave(n uint8) uint8 {
	if n < 12 {
		return n
	}
	return n - 12
}

func block(notes []uint8, start, dur uint32, vel uint8) []timedNote {
	out := make([]timedNote, len(notes))
	for i, n := range notes {
		out[i] = timedNote{key: n, vel: vel, start: start, dur: dur}
	}
	return out
}

func whole(notes []uint8, beatTicks uint32, beats int) []timedNote {
	return block(notes, 0, beatTicks*uint32(beats), 100)
}

func half(notes []uint8, beatTicks uint32, beats int) []timedNote {
	halfTicks := beatTicks * uint32(beats) / 2
	return append(block(notes, 0, halfTicks, 100), block(notes, halfTicks, halfTicks, 100)...)
}

func quarter(notes []uint8, beatTicks uint32, beats int) []timedNote {
	var out []timedNote
	for b := 0; b < beats; b++ {
		out = append(out, block(notes, uint32(b)*beatTicks, beatTicks, 100)...)
	}
	return out
}

func arpeggio(notes []uint8, beatTicks uint32, beats int, down bool) []timedNote {
	step := beatTicks * uint32(beats) / uint32(len(notes))
	out := make([]timedNote, len(notes))
	for i := range notes {
		idx := i
		if down {
			idx = len(notes) - 1 - i
		}
		out[i] = timedNote{key: notes[idx], vel: 100, start: uint32(i) * step, dur: step}
	}
	return out
}

func arpeggioUp(notes []uint8, beatTicks uint32, beats int) []timedNote {
	return arpeggio(notes, beatTicks, beats, false)
}

func arpeggioDown(notes []uint8, beatTicks uint32, beats int) []timedNote {
	return arpeggio(notes, beatTicks, beats, true)
}

// boomChick plays the root an octave down on beat one and the upper voices on
// the remaining beats.
func boomChick(notes []uint8, beatTicks uint32, beats int) []timedNote {
	out := []timedNote{{key: lowerOctave(notes[0]), vel: 100, start: 0, dur: beatTicks}}
	upper := notes[1:]
	if len(upper) == 0 {
		upper = notes
	}
	for b := 1; b < beats; b++ {
		out = append(out, block(upper, uint32(b)*beatTicks, beatTicks, 90)...)
	}
	return out
}

// popStrum is D D U D U followed by three eighths of rest, repeated.
func popStrum(notes []uint8, beatTicks uint32, beats int) []timedNote {
	strums := []struct {
		active, up bool
		vel        uint8
	}{
		{true, false, 100}, {true, false, 90}, {true, true, 80}, {true, false, 100}, {true, true, 80},
		{}, {}, {},
	}
	eighth := beatTicks / 2
	reversed := make([]uint8, len(notes))
	for i := range notes {
		reversed[i] = notes[len(notes)-1-i]
	}

	var out []timedNote
	for e := 0; e < beats*2; e++ {
		s := strums[e%len(strums)]
		if !s.active {
			continue
		}
		voicing := notes
		if s.up {
			voicing = reversed
		}
		out = append(out, block(voicing, uint32(e)*eighth, eighth, s.vel)...)
	}
	return out
}

// travisPicking alternates a thumb bass on the downbeats with the top voice
// on the offbeats.
func travisPicking(notes []uint8, beatTicks uint32, beats int) []timedNote {
	eighth := beatTicks / 2
	var out []timedNote
	for e := 0; e < beats*2; e++ {
		n, vel := noteAt(notes, -1), uint8(80)
		if e%2 == 0 {
			vel = 100
			n = notes[0]
			if (e/2)%2 == 1 && len(notes) > 1 {
				n = notes[1]
			}
		}
		out = append(out, timedNote{key: n, vel: vel, start: uint32(e) * eighth, dur: eighth})
	}
	return out
}

// albertiBass is the classic 1-5-3-5 figure in eighths.
func albertiBass(notes []uint8, beatTicks uint32, beats int) []timedNote {
	eighth := beatTicks / 2
	order := []int{0, 2, 1, 2}
	var out []timedNote
	for e := 0; e < beats*2; e++ {
		idx := order[e%4]
		if idx >= len(notes) {
			idx = len(notes) - 1
		}
		out = append(out, timedNote{key: notes[idx], vel: 90, start: uint32(e) * eighth, dur: eighth})
	}
	return out
}

// rock8th drives root-and-fifth power chords in straight eighths, accenting beats.
func rock8th(notes []uint8, beatTicks uint32, beats int) []timedNote {
	eighth := beatTicks / 2
	power := []uint8{lowerOctave(notes[0])}
	if len(notes) > 2 {
		power = append(power, lowerOctave(notes[2]))
	}
	var out []timedNote
	for e := 0; e < beats*2; e++ {
		vel := uint8(85)
		if e%2 == 0 {
			vel = 105
		}
		out = append(out, block(power, uint32(e)*eighth, eighth, vel)...)
	}
	return out
}

// pimaArpeggio is the fingerstyle p-i-m-a-m-i-p-i figure in eighths.
func pimaArpeggio(notes []uint8, beatTicks uint32, beats int) []timedNote {
	eighth := beatTicks / 2
	order := []int{0, 1, 2, len(notes) - 1, 2, 1, 0, 1}
	var out []timedNote
	for e := 0; e < beats*2; e++ {
		idx := order[e%len(order)]
		if idx >= len(notes) {
			idx = len(notes) - 1
		}
		out = append(out, timedNote{key: notes[idx], vel: 100, start: uint32(e) * eighth, dur: eighth})
	}
	return out
}

// fourOnTheFloor strikes every beat, louder on the odd beats.
func fourOnTheFloor(notes []uint8, beatTicks uint32, beats int) []timedNote {
	var out []timedNote
	for b := 0; b < beats; b++ {
		vel := uint8(90)
		if b%2 == 0 {
			vel = 110
		}
		out = append(out, block(notes, uint32(b)*beatTicks, beatTicks, vel)...)
	}
	return out
}
