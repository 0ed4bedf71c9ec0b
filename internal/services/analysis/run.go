package analysis

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/killallgit/minewatch-api/internal/models"
	"github.com/killallgit/minewatch-api/internal/services/classifier"
	"github.com/killallgit/minewatch-api/internal/services/filename"
	"github.com/killallgit/minewatch-api/internal/services/frames"
	"github.com/killallgit/minewatch-api/internal/services/pacing"
	"github.com/killallgit/minewatch-api/internal/services/taxonomy"
)

type pairKey struct {
	frame int
	kind  string
}

// unit is one frame handed to the classifier. image is nil for text-only units.
type unit struct {
	frameNumber int
	timestamp   float64
	image       []byte
}

// run holds the state of a single analysis
type run struct {
	*Service
	ctx     context.Context
	logger  *zap.Logger
	machine *machine
	upload  Upload
	video   *models.Video
	start   time.Time
	spool   string
	record  *models.AnalysisRun

	candidates []models.Violation
	frames     map[int]bool
	pairs      map[pairKey]bool
	paths      []string
	analyzed   int
}

func (r *run) execute() (*Outcome, error) {
	r.step(models.RunStateFilenameCheck)
	r.save()

	if hint := r.deps.Parser.Parse(r.upload.Filename); hint != nil {
		r.step(models.RunStateFilenameDerived)
		r.fromFilename(hint)
		r.paths = append(r.paths, PathFilename)
	} else {
		if r.opts.Strategy != StrategyPrompt {
			r.fromGeometry()
		}
		if r.opts.Strategy != StrategyGeometric {
			r.fromPrompt()
		} else {
			r.step(models.RunStateClassify)
		}
	}

	r.step(models.RunStateRecorded)
	recorded, failures := r.persist()
	r.step(models.RunStateDone)

	finished := r.deps.Clock()
	r.record.Path = r.path()
	r.record.FramesAnalyzed = r.analyzed
	r.record.ViolationsCount = len(recorded)
	r.record.WriteFailures = failures
	r.record.FinishedAt = &finished
	r.save()
	r.deps.Metrics.RunFinished(models.RunStateDone)

	r.logger.Info("analysis run finished",
		zap.String("run_id", r.record.UUID),
		zap.String("path", r.record.Path),
		zap.Int("frames_analyzed", r.analyzed),
		zap.Int("violations", len(recorded)),
		zap.Int("write_failures", failures),
		zap.Duration("elapsed", finished.Sub(r.start)))

	return &Outcome{
		Success:         true,
		RunID:           r.record.UUID,
		ViolationsCount: len(recorded),
		Details:         recorded,
		Video:           r.video,
		Path:            r.record.Path,
		WriteFailures:   failures,
	}, nil
}

func (r *run) step(state string) {
	if err := r.machine.to(state); err != nil {
		// Transitions are driven by execute alone, so this is a programming error.
		panic(err)
	}
	r.record.State = state
	r.logger.Debug("run state", zap.String("state", state))
}

func (r *run) save() {
	if err := r.deps.Videos.SaveRun(r.ctx, r.record); err != nil {
		r.logger.Warn("failed to save analysis run", zap.Error(err))
	}
}

func (r *run) path() string {
	if len(r.paths) == 0 {
		return PathNone
	}
	return strings.Join(r.paths, "+")
}

// offset converts a frame number into a time relative to the run start
func (r *run) offset(frame int) time.Time {
	return r.start.Add(time.Duration(float64(frame) / float64(r.opts.FPS) * float64(time.Second)))
}

func (r *run) violation(frame int, kind string, confidence float64, severity models.Severity, method models.DetectionMethod) models.Violation {
	return models.Violation{
		RunID:           r.record.UUID,
		VideoID:         r.video.ID,
		VideoName:       r.video.SanitizedName,
		VideoURL:        r.video.PublicURL,
		ViolationType:   kind,
		Category:        taxonomy.Categorize(kind),
		Confidence:      truncate(confidence),
		FrameNumber:     frame,
		DetectedAt:      r.offset(frame),
		Severity:        severity,
		DetectionMethod: method,
		UploadedBy:      r.upload.UploadedBy,
	}
}

// add queues a candidate unless the run already holds one at the same frame.
// Geometric candidates are keyed by frame and type so several rules may fire
// on one frame.
func (r *run) add(v models.Violation) bool {
	if v.DetectionMethod == models.MethodGeometric {
		key := pairKey{v.FrameNumber, v.ViolationType}
		if r.pairs[key] {
			return false
		}
		r.pairs[key] = true
		r.frames[v.FrameNumber] = true
	} else {
		if r.frames[v.FrameNumber] {
			return false
		}
		r.frames[v.FrameNumber] = true
	}
	r.candidates = append(r.candidates, v)
	return true
}

// fromFilename emits the hinted frame and its two neighbours
func (r *run) fromFilename(hint *filename.Hint) {
	base := hint.TimestampSeconds * r.opts.FPS
	for _, frame := range []int{base - 1, base, base + 1} {
		if frame < 0 {
			continue
		}
		confidence := filenameConfidenceMin + r.deps.Random.Float64()*(filenameConfidenceMax-filenameConfidenceMin)
		r.add(r.violation(frame, hint.Label, confidence, models.SeverityCritical, models.MethodFilename))
	}
	r.logger.Info("violation derived from filename",
		zap.String("label", hint.Label),
		zap.Int("timestamp_seconds", hint.TimestampSeconds),
		zap.String("pattern", hint.Pattern))
}

func (r *run) fromGeometry() {
	if len(r.upload.Detections) == 0 {
		return
	}
	r.paths = append(r.paths, PathGeometric)
	r.analyzed += len(r.upload.Detections)
	for _, c := range r.deps.Geometry.EvaluateAll(r.upload.Detections) {
		r.add(r.violation(c.FrameNumber, c.Label, c.Confidence, c.Severity, models.MethodGeometric))
	}
}

func (r *run) fromPrompt() {
	if r.deps.Classifier == nil {
		r.logger.Warn("classifier unavailable, skipping prompt classification")
		r.step(models.RunStateClassify)
		return
	}

	r.step(models.RunStateFrameSampling)
	units, path := r.sample()
	r.paths = append(r.paths, path)

	r.step(models.RunStateClassify)
	hint := r.trainingHint()
	pacer := pacing.New(r.opts.CallInterval)
	for _, u := range units {
		if r.frames[u.frameNumber] {
			continue
		}
		if err := pacer.Wait(r.ctx); err != nil {
			r.logger.Warn("pacing interrupted", zap.Error(err))
			return
		}
		r.analyzed++
		r.classify(u, hint)
	}
}

// sample prefers frames supplied with the upload, then decoded frames, then
// synthetic frame numbers for text-only prompts.
func (r *run) sample() ([]unit, string) {
	if len(r.upload.Frames) > 0 {
		return r.toUnits(r.upload.Frames), PathSampled
	}

	if r.deps.Sampler != nil {
		count := r.opts.FrameCount
		if r.upload.FrameCount > 0 {
			count = frames.NormalizeCount(r.upload.FrameCount)
		}
		sampled, err := r.deps.Sampler.Sample(r.ctx, r.spool, count)
		if err == nil && len(sampled) > 0 {
			return r.toUnits(sampled), PathSampled
		}
		r.deps.Metrics.FrameExtractionFailure()
		r.logger.Warn("frame sampling failed, falling back to synthetic frames", zap.Error(err))
	}
	return r.synthetic(), PathSynthetic
}

func (r *run) toUnits(sampled []frames.Frame) []unit {
	units := make([]unit, 0, len(sampled))
	seen := make(map[int]bool, len(sampled))
	for _, f := range sampled {
		frame := int(math.Round(f.TimestampSeconds * float64(r.opts.FPS)))
		if frame < 0 || seen[frame] {
			continue
		}
		seen[frame] = true
		units = append(units, unit{frameNumber: frame, timestamp: f.TimestampSeconds, image: f.JPEG})
	}
	return units
}

// synthetic picks distinct random frame numbers inside the configured window
func (r *run) synthetic() []unit {
	span := int(r.opts.SyntheticRangeSeconds * float64(r.opts.FPS))
	if span <= 0 {
		return nil
	}
	count := r.opts.SyntheticMin + r.deps.Random.IntN(r.opts.SyntheticMax-r.opts.SyntheticMin+1)
	count = min(count, span)

	used := make(map[int]bool, count)
	units := make([]unit, 0, count)
	for attempts := 0; len(units) < count && attempts < count*20; attempts++ {
		frame := r.deps.Random.IntN(span)
		if used[frame] || r.frames[frame] {
			continue
		}
		used[frame] = true
		units = append(units, unit{frameNumber: frame, timestamp: float64(frame) / float64(r.opts.FPS)})
	}
	return units
}

func (r *run) trainingHint() string {
	if r.deps.Hints == nil || r.upload.UploadedBy == "" {
		return ""
	}
	hint, err := r.deps.Hints.TrainingHint(r.ctx, r.upload.UploadedBy)
	if err != nil {
		r.logger.Warn("failed to load training hint", zap.Error(err))
		return ""
	}
	return hint
}

func (r *run) classify(u unit, hint string) {
	logger := r.logger.With(zap.Int("frame", u.frameNumber))
	res, err := r.deps.Classifier.Classify(r.ctx, classifier.Request{
		Image:            u.image,
		FrameNumber:      u.frameNumber,
		TimestampSeconds: u.timestamp,
		LabelSet:         r.labelSet,
		TrainingHint:     hint,
	})
	if err != nil {
		r.deps.Metrics.ClassifierCall("error")
		if errors.Is(err, classifier.ErrMalformedReply) {
			logger.Warn("discarding malformed classifier reply", zap.Error(err))
		} else {
			logger.Warn("classifier call failed", zap.Error(err))
		}
		return
	}

	entry, ok := r.labelSet.Lookup(res.ViolationType)
	if !res.HasViolation || !ok || !r.labelSet.Accepts(res.Confidence) {
		r.deps.Metrics.ClassifierCall("rejected")
		logger.Debug("classifier reply not accepted",
			zap.Bool("has_violation", res.HasViolation),
			zap.String("violation_type", res.ViolationType),
			zap.Float64("confidence", res.Confidence))
		return
	}
	r.deps.Metrics.ClassifierCall("accepted")

	severity := res.Severity
	if !severity.Valid() {
		severity = entry.Severity
	}
	method := models.MethodPromptVision
	if u.image == nil {
		method = models.MethodPromptText
	}
	v := r.violation(u.frameNumber, entry.Type, res.Confidence, severity, method)
	if entry.Category != "" {
		v.Category = entry.Category
	}
	r.add(v)
}

// persist writes each candidate independently. A failed write is logged and
// counted; it never aborts the rest.
func (r *run) persist() ([]models.Violation, int) {
	recorded := make([]models.Violation, 0, len(r.candidates))
	failures := 0
	for i := range r.candidates {
		v := r.candidates[i]
		if err := r.deps.Recorder.Record(r.ctx, &v); err != nil {
			failures++
			r.deps.Metrics.RecorderFailure()
			r.logger.Error("failed to record violation",
				zap.String("violation_type", v.ViolationType),
				zap.Int("frame", v.FrameNumber),
				zap.Error(err))
			continue
		}
		recorded = append(recorded, v)
	}
	return recorded, failures
}
