package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"cvscreen/internal/analyzer"
	"cvscreen/internal/domain"
	"cvscreen/internal/extractor"
	"cvscreen/internal/port"
)

// WorkerConfig holds settings for the processing worker.
type WorkerConfig struct {
	Bucket      string
	Concurrency int
	JobTimeout  time.Duration
}

// ProcessingWorker consumes file jobs and runs extraction, analysis and persistence for each.
type ProcessingWorker struct {
	queue       port.JobQueue
	storage     port.ObjectStorage
	submissions port.SubmissionRepository
	extractor   extractor.Extractor
	analyzer    analyzer.Analyzer
	persister   ResultPersister
	tracker     *BatchTracker
	cfg         WorkerConfig
	wg          sync.WaitGroup
}

// NewProcessingWorker creates a new ProcessingWorker.
func NewProcessingWorker(
	queue port.JobQueue,
	storage port.ObjectStorage,
	submissions port.SubmissionRepository,
	ext extractor.Extractor,
	an analyzer.Analyzer,
	persister ResultPersister,
	tracker *BatchTracker,
	cfg WorkerConfig,
) *ProcessingWorker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 5 * time.Minute
	}
	return &ProcessingWorker{
		queue:       queue,
		storage:     storage,
		submissions: submissions,
		extractor:   ext,
		analyzer:    an,
		persister:   persister,
		tracker:     tracker,
		cfg:         cfg,
	}
}

// Start consumes jobs until ctx is canceled or the queue closes. It blocks until all in-flight
// jobs have finished.
func (w *ProcessingWorker) Start(ctx context.Context) error {
	deliveries, err := w.queue.Consume(ctx)
	if err != nil {
		return err
	}

	sem := make(chan struct{}, w.cfg.Concurrency)
	log.Info().Int("concurrency", w.cfg.Concurrency).Dur("job_timeout", w.cfg.JobTimeout).Msg("processingWorker: started")

	defer func() {
		log.Info().Msg("processingWorker: shutting down, waiting for in-flight jobs...")
		w.wg.Wait()
		log.Info().Msg("processingWorker: shutdown complete")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}

			select {
			case sem <- struct{}{}: // acquire
			case <-ctx.Done():
				_ = d.Nack(true)
				return nil
			}

			w.wg.Add(1)
			go func() {
				defer w.wg.Done()
				defer func() { <-sem }() // release

				// Fresh context so in-flight jobs complete during shutdown.
				jobCtx, cancel := context.WithTimeout(context.Background(), w.cfg.JobTimeout)
				defer cancel()

				w.ProcessJob(jobCtx, d.Job)
				if err := d.Ack(); err != nil {
					log.Warn().Err(err).Str("submission_id", d.Job.SubmissionID.String()).Msg("processingWorker: ack failed")
				}
			}()
		}
	}
}

// ProcessJob runs one file through the pipeline. Every outcome, including failure, counts the
// file as processed.
func (w *ProcessingWorker) ProcessJob(ctx context.Context, job domain.FileJob) {
	logger := log.With().
		Str("submission_id", job.SubmissionID.String()).
		Str("file", job.FileName).
		Int("index", job.Index).
		Logger()

	defer w.tracker.FileDone(ctx, job.SubmissionID)

	if err := w.submissions.MarkProcessing(ctx, job.SubmissionID); err != nil {
		logger.Warn().Err(err).Msg("processingWorker: failed to mark submission processing")
	}

	data, err := w.storage.Download(ctx, w.cfg.Bucket, job.StorageKey)
	if err != nil {
		logger.Error().Err(err).Msg("processingWorker: download failed, file skipped")
		return
	}

	start := time.Now()
	text, ok := w.extractor.Extract(ctx, data, job.MediaType)
	if !ok {
		logger.Info().Str("media_type", job.MediaType).Msg("processingWorker: no text extracted, file skipped")
		return
	}

	analysis, ok := w.analyzer.Analyze(ctx, text, job.Keywords)
	if !ok {
		logger.Info().Msg("processingWorker: analysis unavailable, file skipped")
		return
	}

	resultID, ok := w.persister.Persist(ctx, job.SubmissionID, job.FileName, analysis, text)
	if !ok {
		return
	}

	logger.Info().
		Str("cv_result_id", resultID.String()).
		Int("score", analysis.Score()).
		Dur("elapsed", time.Since(start)).
		Msg("processingWorker: file processed")
}
