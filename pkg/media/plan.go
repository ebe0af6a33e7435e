package media

// Streams is the stream composition of one media file.
type Streams struct {
	Video bool
	Audio bool
}

func (s Streams) usable() bool {
	return s.Video || s.Audio
}

// Input is one probed file offered to the planner.
type Input struct {
	Path string
	Streams
}

// Entry is one file in a concat plan. AddSilence marks video-only inputs
// that need a silent audio track synthesized before concatenation, so
// every concatenated part carries the same stream layout.
type Entry struct {
	Path       string
	Filler     bool
	AddSilence bool
}

// Plan is an ordered concatenation plan.
type Plan struct {
	Entries []Entry
}

// Clips counts non-filler entries.
func (p *Plan) Clips() int {
	n := 0
	for _, e := range p.Entries {
		if !e.Filler {
			n++
		}
	}
	return n
}

// Fillers counts filler entries.
func (p *Plan) Fillers() int {
	return len(p.Entries) - p.Clips()
}

// BuildConcatPlan interleaves question clips with the filler clip:
// clip[0], filler, clip[1], filler, ... clip[n-1], with no filler after the
// last clip. Inputs with neither stream are dropped. Pure function: no
// I/O, same inputs always give the same plan, input order is preserved.
func BuildConcatPlan(clips []Input, filler Input) *Plan {
	usable := []Input{}
	for _, c := range clips {
		if c.usable() {
			usable = append(usable, c)
		}
	}

	plan := &Plan{Entries: []Entry{}}
	for i, c := range usable {
		plan.Entries = append(plan.Entries, Entry{
			Path:       c.Path,
			AddSilence: c.Video && !c.Audio,
		})
		if i < len(usable)-1 {
			plan.Entries = append(plan.Entries, Entry{
				Path:       filler.Path,
				Filler:     true,
				AddSilence: filler.Video && !filler.Audio,
			})
		}
	}
	return plan
}
