// Package pipeline orchestrates a submission end to end: audio heuristics,
// transcription, content gating, extraction, parallel fraud checks,
// aggregation, credit award, and persistence. Rejected submissions are never
// persisted; flagged ones are persisted with their reasons for review.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"agrilog/internal/activity/config"
	"agrilog/internal/activity/metrics"
	"agrilog/internal/activity/models"
	"agrilog/internal/activity/ports"
	"agrilog/internal/activity/service/audio"
	"agrilog/internal/activity/service/content"
	"agrilog/internal/activity/service/credit"
	"agrilog/internal/activity/service/extract"
	"agrilog/internal/activity/service/fraud"
	"agrilog/internal/activity/service/frequency"
	"agrilog/internal/activity/service/geo"
	"agrilog/internal/activity/service/pattern"
	id "agrilog/pkg/domain"
	dErrors "agrilog/pkg/domain-errors"
	"agrilog/pkg/requestcontext"
)

const checksTimeout = 10 * time.Second

// Pipeline wires the sub-checks together. Construct with New.
type Pipeline struct {
	history     ports.HistoryStore
	audioStore  ports.AudioStore
	transcriber ports.Transcriber
	extractor   ports.Extractor

	content   *content.Scorer
	audio     *audio.Analyzer
	geo       *geo.Verifier
	frequency *frequency.Guard
	pattern   *pattern.Verifier
	credit    *credit.Calculator

	cfg     config.Config
	metrics *metrics.Metrics
	logger  *slog.Logger
}

type Option func(*Pipeline)

// WithTranscriber sets the speech-to-text collaborator. Without one, audio
// submissions fall back to their typed text or are rejected.
func WithTranscriber(t ports.Transcriber) Option {
	return func(p *Pipeline) {
		p.transcriber = t
	}
}

// WithExtractor replaces the default rule-based extractor.
func WithExtractor(e ports.Extractor) Option {
	return func(p *Pipeline) {
		p.extractor = e
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

func WithConfig(cfg config.Config) Option {
	return func(p *Pipeline) {
		p.cfg = cfg
	}
}

// New constructs the pipeline and its sub-checks.
func New(history ports.HistoryStore, audioStore ports.AudioStore, opts ...Option) (*Pipeline, error) {
	if history == nil {
		return nil, fmt.Errorf("history store is required")
	}
	if audioStore == nil {
		return nil, fmt.Errorf("audio store is required")
	}

	p := &Pipeline{
		history:    history,
		audioStore: audioStore,
		extractor:  extract.New(),
		cfg:        config.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.content = content.New(content.WithConfig(p.cfg.Content))
	p.audio = audio.New(audio.WithConfig(p.cfg.Audio))
	p.credit = credit.New(credit.WithConfig(p.cfg.Credit))

	var err error
	if p.geo, err = geo.New(history, geo.WithConfig(p.cfg.Geo), geo.WithLogger(p.logger)); err != nil {
		return nil, err
	}
	if p.frequency, err = frequency.New(history, frequency.WithConfig(p.cfg.Frequency), frequency.WithLogger(p.logger)); err != nil {
		return nil, err
	}
	if p.pattern, err = pattern.New(history, pattern.WithConfig(p.cfg.Pattern), pattern.WithLogger(p.logger)); err != nil {
		return nil, err
	}
	return p, nil
}

// Result is the outcome of an accepted submission.
type Result struct {
	Record       *models.ActivityRecord
	Verification models.VerificationOutcome
	Audio        *models.AudioCheckResult
	QualityScore int
}

// Submit runs the full pipeline for one submission. Rejections come back as
// validation errors; infrastructure failures as dependency errors. The audio
// blob, if any, is deleted exactly once on every exit path.
func (p *Pipeline) Submit(ctx context.Context, sub models.Submission) (*Result, error) {
	start := time.Now()
	defer func() {
		p.metrics.ObserveSubmitLatency(time.Since(start))
	}()

	// Registered before any validation so the blob is cleaned up even when
	// the submission itself is malformed.
	if sub.AudioRef != "" {
		defer p.cleanupAudio(ctx, sub.AudioRef)
	}

	if sub.UserID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}
	if strings.TrimSpace(sub.Text) == "" && sub.AudioRef == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "either text or audio is required")
	}

	if !sub.SubmittedAt.IsZero() {
		ctx = requestcontext.WithTime(ctx, sub.SubmittedAt)
	}
	now := requestcontext.Now(ctx)

	text := strings.TrimSpace(sub.Text)
	var audioResult *models.AudioCheckResult
	if sub.AudioRef != "" {
		var err error
		audioResult, text, err = p.processAudio(ctx, sub.AudioRef, text)
		if err != nil {
			return nil, err
		}
	}

	quality, contentOK := p.content.Evaluate(text)
	if !contentOK {
		ports.LogAudit(ctx, p.logger, "activity.rejected",
			"user_id", sub.UserID,
			"reason", "content quality too low",
			"quality_score", quality,
		)
		return nil, dErrors.New(dErrors.CodeValidation, "description does not look like a real activity report")
	}

	extracted, err := p.extractor.Extract(ctx, text)
	if err != nil || extracted == nil {
		if p.logger != nil {
			p.logger.WarnContext(ctx, "extraction failed, using fallback",
				"user_id", sub.UserID,
				"error", err,
			)
		}
		extracted = extract.Fallback(text)
	}

	checks, err := p.runChecks(ctx, sub, extracted)
	if err != nil {
		return nil, err
	}

	verdict := fraud.Aggregate(p.cfg.Fraud, fraud.Input{
		Geo:              checks.geo,
		Frequency:        checks.frequency,
		Pattern:          checks.pattern,
		Audio:            audioResult,
		LocationProvided: sub.Location != nil,
	})
	p.metrics.ObserveFraudScore(verdict.Score)

	if verdict.Rejected(p.cfg.Fraud) {
		p.metrics.IncrementOutcome("rejected", extracted.Category.String())
		ports.LogAudit(ctx, p.logger, "activity.rejected",
			"user_id", sub.UserID,
			"fraud_score", verdict.RawScore,
			"reasons", verdict.Reasons,
		)
		return nil, dErrors.Newf(dErrors.CodeValidation,
			"submission rejected: %s", strings.Join(verdict.Reasons, "; "))
	}

	credits := p.credit.Calculate(credit.Input{
		Category:     extracted.Category,
		Crop:         extracted.Crop,
		Area:         extracted.Area,
		Description:  extracted.Description,
		QualityScore: &quality,
	})
	if credits == 0 {
		p.metrics.IncrementOutcome("rejected", extracted.Category.String())
		ports.LogAudit(ctx, p.logger, "activity.rejected",
			"user_id", sub.UserID,
			"reason", "zero credit award",
		)
		return nil, dErrors.New(dErrors.CodeValidation, "activity does not qualify for credits")
	}

	status := models.StatusVerified
	if verdict.Flagged {
		status = models.StatusFlagged
	}
	record := &models.ActivityRecord{
		ID:         id.NewActivityID(),
		UserID:     sub.UserID,
		Category:   extracted.Category,
		Crop:       extracted.Crop,
		Area:       extracted.Area,
		Location:   sub.Location,
		CreatedAt:  now,
		Credits:    credits,
		Status:     status,
		FraudScore: verdict.Score,
		Reasons:    verdict.Reasons,
		Flagged:    verdict.Flagged,
	}
	if err := p.history.Append(ctx, record); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependency, "failed to persist activity")
	}

	p.metrics.IncrementOutcome(string(status), extracted.Category.String())
	p.metrics.ObserveCreditsAwarded(credits)
	ports.LogAudit(ctx, p.logger, "activity.recorded",
		"user_id", sub.UserID,
		"activity_id", record.ID,
		"category", record.Category,
		"credits", credits,
		"status", status,
		"fraud_score", verdict.Score,
	)

	return &Result{
		Record:       record,
		Verification: verdict.VerificationOutcome,
		Audio:        audioResult,
		QualityScore: quality,
	}, nil
}

// processAudio runs the size heuristics and produces the text to score. Audio
// that fails the heuristics hard is rejected before the transcription call is
// ever made; its score still feeds the aggregate afterwards.
func (p *Pipeline) processAudio(ctx context.Context, ref, typedText string) (*models.AudioCheckResult, string, error) {
	size, err := p.audioStore.Size(ctx, ref)
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInvalidInput, "audio not found")
	}

	result := p.audio.Analyze(size, 0)
	if result.Score >= p.cfg.Fraud.AudioRejectScore {
		ports.LogAudit(ctx, p.logger, "activity.rejected",
			"reason", "audio failed authenticity checks",
			"audio_score", result.Score,
		)
		return nil, "", dErrors.Newf(dErrors.CodeValidation,
			"audio failed authenticity checks: %s", strings.Join(result.Reasons, "; "))
	}
	if result.Score >= p.cfg.Fraud.AudioWarnScore && p.logger != nil {
		p.logger.WarnContext(ctx, "suspicious audio accepted for processing",
			"audio_score", result.Score,
			"reasons", result.Reasons,
		)
	}

	if p.transcriber == nil {
		if typedText != "" {
			return result, typedText, nil
		}
		return nil, "", dErrors.New(dErrors.CodeDependency, "transcription is not available")
	}

	transcribed, err := p.transcriber.Transcribe(ctx, ref)
	if err != nil || strings.TrimSpace(transcribed) == "" {
		if p.logger != nil {
			p.logger.WarnContext(ctx, "transcription failed",
				"audio_ref", ref,
				"error", err,
			)
		}
		// Typed text is the fallback; without it there is nothing to verify.
		if typedText != "" {
			return result, typedText, nil
		}
		return nil, "", dErrors.New(dErrors.CodeValidation, "could not transcribe audio and no text was provided")
	}
	return result, strings.TrimSpace(transcribed), nil
}

type checkResults struct {
	geo       *models.CheckResult
	frequency *models.CheckResult
	pattern   *models.CheckResult
}

// runChecks gathers the history-based checks in parallel with shared context
// cancellation.
func (p *Pipeline) runChecks(ctx context.Context, sub models.Submission, extracted *models.ExtractedActivity) (*checkResults, error) {
	ctx, cancel := context.WithTimeout(ctx, checksTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	results := &checkResults{}

	if sub.Location != nil {
		loc := *sub.Location
		g.Go(func() error {
			start := time.Now()
			result, err := p.geo.Check(ctx, sub.UserID, loc)
			p.metrics.ObserveCheckLatency("geo", time.Since(start))
			if err != nil {
				return err
			}
			results.geo = result
			return nil
		})
	}

	g.Go(func() error {
		start := time.Now()
		result, err := p.frequency.Check(ctx, sub.UserID, extracted.Category)
		p.metrics.ObserveCheckLatency("frequency", time.Since(start))
		if err != nil {
			return err
		}
		results.frequency = result
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		result, err := p.pattern.Check(ctx, sub.UserID, extracted.Category, extracted.Crop)
		p.metrics.ObserveCheckLatency("pattern", time.Since(start))
		if err != nil {
			return err
		}
		results.pattern = result
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Pipeline) cleanupAudio(ctx context.Context, ref string) {
	if err := p.audioStore.Delete(ctx, ref); err != nil && p.logger != nil {
		p.logger.WarnContext(ctx, "audio cleanup failed",
			"audio_ref", ref,
			"error", err,
		)
	}
}
