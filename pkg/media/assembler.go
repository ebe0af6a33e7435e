package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Shubhamxshah/arora-the-interview-app/pkg/errors"
)

const (
	// the filler ("nodding") clip: a short cut from the avatar's base
	// video, looped to cover the candidate's thinking time
	defFillerSegmentSeconds = 10
	defFillerLoopCount      = 3

	downloadTimeout = 5 * time.Minute
)

// Options shape the filler clip.
type Options struct {
	// FillerSegmentSeconds is the length of the cut taken from the base
	// video.
	FillerSegmentSeconds int

	// FillerLoopCount is how many times the segment is looped.
	FillerLoopCount int
}

func (o *Options) SetDefaults() {
	if o.FillerSegmentSeconds <= 0 {
		o.FillerSegmentSeconds = defFillerSegmentSeconds
	}
	if o.FillerLoopCount <= 0 {
		o.FillerLoopCount = defFillerLoopCount
	}
}

// Assembler probes, downloads and concatenates clips by driving ffmpeg /
// ffprobe. It never re-encodes streams it doesn't have to (-c copy).
type Assembler struct {
	opts *Options
	run  Runner
	log  *slog.Logger
	web  *http.Client
}

func NewAssembler(log *slog.Logger, opts *Options) *Assembler {
	return NewAssemblerWithRunner(log, opts, &execRunner{})
}

// NewAssemblerWithRunner lets tests (or odd deployments) swap the
// command runner.
func NewAssemblerWithRunner(log *slog.Logger, opts *Options, run Runner) *Assembler {
	if log == nil {
		log = slog.Default()
	}
	if opts == nil {
		opts = &Options{}
	}
	opts.SetDefaults()
	return &Assembler{
		opts: opts,
		run:  run,
		log:  log,
		web:  &http.Client{Timeout: downloadTimeout},
	}
}

// Probe returns the stream composition of one file.
func (a *Assembler) Probe(ctx context.Context, path string) (Streams, error) {
	out, err := a.run.Run(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "stream=codec_type",
		"-of", "csv=p=0",
		path,
	)
	if err != nil {
		return Streams{}, fmt.Errorf("probe %s: %w", path, err)
	}

	st := Streams{}
	for _, line := range strings.Split(string(out), "\n") {
		switch strings.TrimSpace(line) {
		case "video":
			st.Video = true
		case "audio":
			st.Audio = true
		}
	}
	return st, nil
}

// PrepareFiller cuts a short segment from the avatar's base video at the
// given HH:MM:SS offset and loops it into the long filler clip.
func (a *Assembler) PrepareFiller(ctx context.Context, baseVideo, timestamp, dir string) (string, error) {
	segment := filepath.Join(dir, "filler_segment.mp4")
	_, err := a.run.Run(ctx, "ffmpeg",
		"-y",
		"-ss", timestamp,
		"-i", baseVideo,
		"-t", fmt.Sprintf("%d", a.opts.FillerSegmentSeconds),
		"-c", "copy",
		segment,
	)
	if err != nil {
		return "", fmt.Errorf("extract filler segment: %w", err)
	}

	lines := make([]string, a.opts.FillerLoopCount)
	for i := range lines {
		lines[i] = concatLine(segment)
	}
	list := filepath.Join(dir, "filler_concat.txt")
	if err := os.WriteFile(list, []byte(strings.Join(lines, "\n")+"\n"), 0600); err != nil {
		return "", err
	}

	out := filepath.Join(dir, "filler.mp4")
	_, err = a.run.Run(ctx, "ffmpeg",
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", list,
		"-c", "copy",
		out,
	)
	if err != nil {
		return "", fmt.Errorf("loop filler segment: %w", err)
	}
	return out, nil
}

// Encode runs the plan through ffmpeg's concat demuxer into one output
// file. Video-only entries first get a silent audio track so all parts
// share a stream layout. Any failure wraps ErrEncodeFailed, which the
// caller treats as recoverable (single-clip fallback), not fatal.
func (a *Assembler) Encode(ctx context.Context, plan *Plan, dir, out string) error {
	if len(plan.Entries) == 0 {
		return fmt.Errorf("%w: empty concat plan", errors.ErrEncodeFailed)
	}

	// synthesize silent audio where needed; the same file (the filler,
	// usually) only gets silenced once
	silenced := map[string]string{}
	lines := []string{}
	for _, e := range plan.Entries {
		path := e.Path
		if e.AddSilence {
			done, ok := silenced[e.Path]
			if !ok {
				done = filepath.Join(dir, fmt.Sprintf("silenced_%d.mp4", len(silenced)))
				_, err := a.run.Run(ctx, "ffmpeg",
					"-y",
					"-i", e.Path,
					"-f", "lavfi",
					"-i", "anullsrc=channel_layout=stereo:sample_rate=44100",
					"-shortest",
					"-c:v", "copy",
					"-c:a", "aac",
					done,
				)
				if err != nil {
					return fmt.Errorf("%w: add silent audio to %s: %v", errors.ErrEncodeFailed, e.Path, err)
				}
				silenced[e.Path] = done
			}
			path = done
		}
		lines = append(lines, concatLine(path))
	}

	list := filepath.Join(dir, "concat_list.txt")
	if err := os.WriteFile(list, []byte(strings.Join(lines, "\n")+"\n"), 0600); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrEncodeFailed, err)
	}

	_, err := a.run.Run(ctx, "ffmpeg",
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", list,
		"-c", "copy",
		out,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrEncodeFailed, err)
	}
	return nil
}

// Download fetches a rendered clip to a scratch path.
func (a *Assembler) Download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrDownloadFailed, err)
	}
	resp, err := a.web.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned %d", errors.ErrDownloadFailed, url, resp.StatusCode)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrDownloadFailed, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrDownloadFailed, err)
	}
	return nil
}

func concatLine(path string) string {
	// concat demuxer syntax; single quotes in paths are escaped the
	// ffmpeg way ('\'')
	return fmt.Sprintf("file '%s'", strings.ReplaceAll(path, "'", `'\''`))
}
