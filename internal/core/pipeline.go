package core

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/Shubhamxshah/arora-the-interview-app/internal/utils"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/database"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/errors"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/llm"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/media"
	"github.com/Shubhamxshah/arora-the-interview-app/pkg/structs"
)

var extensionPattern = regexp.MustCompile(`\.[^/.]+$`)

// runGenerate is the interview generation pipeline: questions, clips,
// merge, upload. Any stage error parks the interview in FAILED; there is
// no automatic retry or resume, recovery is re-creating the interview.
//
// Each stage re-reads the interview so its patch + transition lands on
// the etag the previous stage wrote. Intermediate artifacts (clip urls,
// scratch files) stay out of the database; only stage outputs are stored.
func (s *Service) runGenerate(id string) {
	defer func() {
		if r := recover(); r != nil {
			s.fail(id, fmt.Errorf("pipeline panic: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), defStageTimeout)
	defer cancel()

	in, err := s.db.Get(id)
	if err != nil {
		s.fail(id, err)
		return
	}
	if in.State != structs.CREATED {
		s.log.Warn("generate run skipped, interview already started", "interview", id, "state", in.State)
		return
	}
	if err = s.update(in, &database.Update{State: structs.GENERATING_QUESTIONS}); err != nil {
		s.fail(id, err)
		return
	}

	fresh := func(stage func(context.Context, *structs.Interview) error) error {
		in, err := s.db.Get(id)
		if err != nil {
			return err
		}
		return stage(ctx, in)
	}

	err = fresh(s.stageQuestions)
	if err == nil {
		err = fresh(s.stageSubmitRenders)
	}

	var urls []string
	if err == nil {
		err = fresh(func(ctx context.Context, in *structs.Interview) error {
			urls, err = s.stageAwaitRenders(ctx, in)
			return err
		})
	}

	var video string
	if err == nil {
		err = fresh(func(ctx context.Context, in *structs.Interview) error {
			video, err = s.stageMerge(ctx, in, urls)
			return err
		})
	}

	if err == nil {
		err = fresh(func(ctx context.Context, in *structs.Interview) error {
			return s.stageUpload(ctx, in, video)
		})
	}

	if err != nil {
		s.fail(id, err)
		return
	}
	s.log.Info("interview ready", "interview", id)
}

func (s *Service) stageQuestions(ctx context.Context, in *structs.Interview) error {
	content, err := s.llm.Complete(ctx, llm.QuestionPrompt(in.ResumeText, in.JobDescription), true)
	if err != nil {
		return err
	}
	questions, err := llm.ParseQuestions(content)
	if err != nil {
		return err
	}
	return s.update(in, &database.Update{
		State:     structs.GENERATING_VIDEOS,
		Questions: questions,
	})
}

func (s *Service) stageSubmitRenders(ctx context.Context, in *structs.Interview) error {
	renderIDs := make([]string, 0, len(in.Questions))
	for i, q := range in.Questions {
		rid, err := s.render.Submit(ctx, in.AvatarID, fmt.Sprintf("%s-q%d", in.ID, i+1), q)
		if err != nil {
			return err
		}
		renderIDs = append(renderIDs, rid)
	}
	return s.update(in, &database.Update{
		State:     structs.PROCESSING_VIDEOS,
		RenderIDs: renderIDs,
	})
}

// stageAwaitRenders polls the render service until every clip is done or
// the attempt budget runs out. Returned clip urls are ordered to match
// RenderIDs (and so Questions).
func (s *Service) stageAwaitRenders(ctx context.Context, in *structs.Interview) ([]string, error) {
	for attempt := 0; attempt < s.opts.MaxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.opts.PollInterval):
		}

		inferences, err := s.render.List(ctx)
		if err != nil {
			s.log.Warn("render poll failed", "interview", in.ID, "attempt", attempt+1, "error", err)
			continue
		}
		byID := map[string]*structs.Inference{}
		for _, inf := range inferences {
			byID[inf.ID] = inf
		}

		urls := make([]string, 0, len(in.RenderIDs))
		for _, rid := range in.RenderIDs {
			inf, ok := byID[rid]
			if !ok || !inf.Done() {
				break
			}
			urls = append(urls, inf.Video)
		}
		if len(urls) == len(in.RenderIDs) {
			return urls, s.update(in, &database.Update{State: structs.MERGING_VIDEOS})
		}
	}
	return nil, fmt.Errorf("%w: %d render polls exhausted waiting on %d clips", errors.ErrTimeout, s.opts.MaxPollAttempts, len(in.RenderIDs))
}

// stageMerge downloads the clips, cuts & loops the filler, and concats
// the lot into one interview video. Returns the merged file, parked
// outside the run's scratch dir so it survives cleanup until uploaded.
func (s *Service) stageMerge(ctx context.Context, in *structs.Interview, urls []string) (string, error) {
	dir := filepath.Join(s.scratchDir(), "run-"+utils.NewRandomID())
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	defer s.cleanup(dir)

	clips := make([]string, 0, len(urls))
	for i, url := range urls {
		path := filepath.Join(dir, fmt.Sprintf("question_%02d.mp4", i))
		if err := s.media.Download(ctx, url, path); err != nil {
			return "", err
		}
		clips = append(clips, path)
	}

	baseVideo, err := s.cfg.BaseVideo(in.AvatarID)
	if err != nil {
		return "", err
	}
	filler, err := s.media.PrepareFiller(ctx, baseVideo, in.Timestamp, dir)
	if err != nil {
		return "", err
	}

	inputs := make([]media.Input, 0, len(clips))
	for _, path := range clips {
		st, err := s.media.Probe(ctx, path)
		if err != nil {
			return "", err
		}
		inputs = append(inputs, media.Input{Path: path, Streams: st})
	}
	fillerStreams, err := s.media.Probe(ctx, filler)
	if err != nil {
		return "", err
	}

	out := filepath.Join(dir, "final.mp4")
	plan := media.BuildConcatPlan(inputs, media.Input{Path: filler, Streams: fillerStreams})
	err = s.media.Encode(ctx, plan, dir, out)
	if stderrors.Is(err, errors.ErrEncodeFailed) && len(clips) > 0 {
		// merging is best effort; a broken concat ships the first question
		// clip alone rather than failing the interview
		s.log.Warn("concat failed, falling back to first clip", "interview", in.ID, "error", err)
		out = clips[0]
	} else if err != nil {
		return "", err
	}

	video := filepath.Join(s.scratchDir(), in.ID+".mp4")
	if err := copyFile(out, video); err != nil {
		return "", err
	}
	return video, s.update(in, &database.Update{State: structs.UPLOADING_VIDEO})
}

func (s *Service) stageUpload(ctx context.Context, in *structs.Interview, video string) error {
	defer s.cleanup(video)

	up, err := s.store.Upload(ctx, video, "interviews")
	if err != nil {
		return err
	}
	return s.update(in, &database.Update{
		State:        structs.READY_FOR_CANDIDATE,
		VideoURL:     up.URL,
		ThumbnailURL: thumbnailURL(up.URL),
	})
}

// thumbnailURL swaps the video extension for .jpg; the upload service
// serves a frame grab at that path.
func thumbnailURL(videoURL string) string {
	if !extensionPattern.MatchString(videoURL) {
		return videoURL + ".jpg"
	}
	return extensionPattern.ReplaceAllString(videoURL, ".jpg")
}

func (s *Service) cleanup(path string) {
	if err := os.RemoveAll(path); err != nil {
		s.log.Warn("scratch cleanup failed", "path", path, "error", err)
	}
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0600)
}
