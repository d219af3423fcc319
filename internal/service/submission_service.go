package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"cvscreen/internal/domain"
	"cvscreen/internal/export"
	"cvscreen/internal/port"
)

// SubmitInput is the DTO for a batch analysis request.
type SubmitInput struct {
	Files []*multipart.FileHeader
	// Keywords is either a comma separated string or a JSON array of strings.
	Keywords      string
	KeywordListID *uuid.UUID
	// CallerID is nil for anonymous callers.
	CallerID *uuid.UUID
}

// SubmissionConfig holds the limits and storage settings of the orchestrator.
type SubmissionConfig struct {
	Bucket           string
	MaxFiles         int
	MaxFileSizeBytes int64
	CacheTTL         time.Duration
}

// SubmissionService accepts batches and serves their results.
type SubmissionService interface {
	Submit(ctx context.Context, input SubmitInput) (*domain.Submission, error)
	GetResults(ctx context.Context, submissionID uuid.UUID, callerID *uuid.UUID, includeDetails bool) (*domain.SubmissionResults, error)
	GetCvResult(ctx context.Context, submissionID, resultID uuid.UUID, callerID *uuid.UUID) (*domain.CvResultWithDetails, error)
	ListSubmissions(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Submission, int, error)
	Export(ctx context.Context, submissionID uuid.UUID, callerID *uuid.UUID, format domain.ExportFormat, w io.Writer) error
	// Wait blocks until every background dispatch started by Submit has finished.
	Wait()
}

type submissionService struct {
	submissions  port.SubmissionRepository
	results      port.CvResultRepository
	details      port.CvDetailRepository
	users        port.UserRepository
	keywordLists port.KeywordListRepository
	storage      port.ObjectStorage
	queue        port.JobQueue
	cache        port.ResultsCache
	tracker      *BatchTracker
	cfg          SubmissionConfig
	wg           sync.WaitGroup
}

// NewSubmissionService creates a new SubmissionService implementation.
func NewSubmissionService(
	submissions port.SubmissionRepository,
	results port.CvResultRepository,
	details port.CvDetailRepository,
	users port.UserRepository,
	keywordLists port.KeywordListRepository,
	storage port.ObjectStorage,
	queue port.JobQueue,
	cache port.ResultsCache,
	tracker *BatchTracker,
	cfg SubmissionConfig,
) SubmissionService {
	return &submissionService{
		submissions:  submissions,
		results:      results,
		details:      details,
		users:        users,
		keywordLists: keywordLists,
		storage:      storage,
		queue:        queue,
		cache:        cache,
		tracker:      tracker,
		cfg:          cfg,
	}
}

// uploadedFile is a request file read into memory before the request ends.
type uploadedFile struct {
	name      string
	mediaType string
	data      []byte
}

func (s *submissionService) Submit(ctx context.Context, input SubmitInput) (*domain.Submission, error) {
	if len(input.Files) == 0 {
		return nil, domain.ErrNoFiles
	}
	if s.cfg.MaxFiles > 0 && len(input.Files) > s.cfg.MaxFiles {
		return nil, domain.ErrTooManyFiles
	}
	for _, fh := range input.Files {
		if s.cfg.MaxFileSizeBytes > 0 && fh.Size > s.cfg.MaxFileSizeBytes {
			return nil, domain.ErrFileTooLarge
		}
	}

	keywords, err := s.resolveKeywords(ctx, input)
	if err != nil {
		return nil, err
	}

	files, err := readFiles(input.Files)
	if err != nil {
		return nil, err
	}

	if input.CallerID != nil {
		if err := s.users.ConsumeCredit(ctx, *input.CallerID); err != nil {
			if errors.Is(err, domain.ErrInsufficientCredits) {
				return nil, err
			}
			return nil, fmt.Errorf("submission.Submit consume credit: %w", err)
		}
	}

	sub := &domain.Submission{
		Keywords:   keywords,
		UserID:     input.CallerID,
		Status:     domain.SubmissionStatusPending,
		FilesTotal: len(files),
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		if input.CallerID != nil {
			if refundErr := s.users.RefundCredit(ctx, *input.CallerID); refundErr != nil {
				log.Error().Err(refundErr).Str("user_id", input.CallerID.String()).Msg("submissionService.Submit: credit refund failed")
			}
		}
		return nil, fmt.Errorf("submission.Submit: %w", err)
	}

	log.Info().
		Str("submission_id", sub.ID.String()).
		Int("files", len(files)).
		Bool("anonymous", input.CallerID == nil).
		Msg("submissionService.Submit: batch accepted")

	s.wg.Add(1)
	go s.dispatch(sub.ID, keywords, files)

	return sub, nil
}

// dispatch stores each file and hands it to the worker queue. It runs after the response has
// been sent, so every file gets its own context.
func (s *submissionService) dispatch(submissionID uuid.UUID, keywords string, files []uploadedFile) {
	defer s.wg.Done()

	for i, f := range files {
		s.dispatchFile(submissionID, keywords, i, f)
	}
}

func (s *submissionService) dispatchFile(submissionID uuid.UUID, keywords string, index int, f uploadedFile) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	key := fmt.Sprintf("submissions/%s/%d-%s", submissionID, index, storageName(f.name))
	logger := log.With().Str("submission_id", submissionID.String()).Str("file", f.name).Logger()

	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(f.data),
		ContentType: f.mediaType,
		Size:        int64(len(f.data)),
	})
	if err != nil {
		logger.Error().Err(err).Msg("submissionService.dispatch: upload failed, file skipped")
		s.tracker.FileDone(ctx, submissionID)
		return
	}

	err = s.queue.Publish(ctx, domain.FileJob{
		SubmissionID: submissionID,
		Index:        index,
		FileName:     f.name,
		MediaType:    f.mediaType,
		StorageKey:   key,
		Keywords:     keywords,
	})
	if err != nil {
		logger.Error().Err(err).Msg("submissionService.dispatch: publish failed, file skipped")
		s.tracker.FileDone(ctx, submissionID)
	}
}

func (s *submissionService) Wait() {
	s.wg.Wait()
}

func (s *submissionService) resolveKeywords(ctx context.Context, input SubmitInput) (string, error) {
	if input.KeywordListID != nil {
		if input.CallerID == nil {
			return "", domain.ErrUnauthorized
		}
		list, err := loadOwnedKeywordList(ctx, s.keywordLists, *input.CallerID, *input.KeywordListID)
		if err != nil {
			return "", err
		}
		keywords := domain.JoinKeywords(list.Keywords)
		if keywords == "" {
			return "", domain.ErrMissingKeywords
		}
		return keywords, nil
	}

	keywords := ParseKeywords(input.Keywords)
	if keywords == "" {
		return "", domain.ErrMissingKeywords
	}
	return keywords, nil
}

// ParseKeywords normalizes a keywords field that is either a JSON array of strings or a comma
// separated string into ", " separated form.
func ParseKeywords(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "[") {
		var arr []string
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			return domain.JoinKeywords(arr)
		}
	}
	return domain.JoinKeywords([]string{raw})
}

func readFiles(headers []*multipart.FileHeader) ([]uploadedFile, error) {
	files := make([]uploadedFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", fh.Filename, err)
		}
		files = append(files, uploadedFile{
			name:      filepath.Base(fh.Filename),
			mediaType: domain.ResolveMediaType(fh.Header.Get("Content-Type"), fh.Filename),
			data:      data,
		})
	}
	return files, nil
}

func storageName(name string) string {
	ext := filepath.Ext(name)
	base := export.SanitizeFilename(strings.TrimSuffix(name, ext))
	if base == "" {
		base = "file"
	}
	return base + strings.ToLower(ext)
}

// loadVisible fetches a submission and hides it from callers who do not own it.
func (s *submissionService) loadVisible(ctx context.Context, submissionID uuid.UUID, callerID *uuid.UUID) (*domain.Submission, error) {
	sub, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, domain.ErrSubmissionNotFound) || errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("submission.loadVisible: %w", err)
	}
	if !sub.VisibleTo(callerID) {
		return nil, domain.ErrSubmissionNotFound
	}
	return sub, nil
}

func (s *submissionService) GetResults(ctx context.Context, submissionID uuid.UUID, callerID *uuid.UUID, includeDetails bool) (*domain.SubmissionResults, error) {
	sub, err := s.loadVisible(ctx, submissionID, callerID)
	if err != nil {
		return nil, err
	}

	cacheable := sub.Status == domain.SubmissionStatusComplete && !includeDetails
	if cacheable {
		cached, err := s.cache.Get(ctx, submissionID)
		if err != nil {
			log.Warn().Err(err).Str("submission_id", submissionID.String()).Msg("submissionService.GetResults: cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	results, err := s.results.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("submission.GetResults: %w", err)
	}
	if len(results) == 0 && sub.Status != domain.SubmissionStatusComplete {
		return nil, domain.ErrSubmissionProcessing
	}

	var details map[uuid.UUID]*domain.CvDetails
	if includeDetails && len(results) > 0 {
		ids := make([]uuid.UUID, len(results))
		for i := range results {
			ids[i] = results[i].ID
		}
		details, err = s.details.ListByResults(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("submission.GetResults details: %w", err)
		}
	}

	out := &domain.SubmissionResults{
		SubmissionID:     sub.ID,
		SubmissionStatus: sub.Status,
		FilesTotal:       sub.FilesTotal,
		FilesProcessed:   sub.FilesProcessed,
		TotalCVs:         len(results),
		AnalysisKeywords: domain.SplitKeywords(sub.Keywords),
		Results:          make([]domain.ResultSummary, 0, len(results)),
	}
	for i := range results {
		summary := domain.ResultSummary{
			ID:              results[i].ID,
			FileName:        results[i].OriginalFilename,
			MatchPercentage: domain.ParseScore(results[i].ATSScore),
		}
		if details != nil {
			summary.Details = details[results[i].ID]
		}
		out.Results = append(out.Results, summary)
	}

	if cacheable {
		if err := s.cache.Set(ctx, out, s.cfg.CacheTTL); err != nil {
			log.Warn().Err(err).Str("submission_id", submissionID.String()).Msg("submissionService.GetResults: cache write failed")
		}
	}
	return out, nil
}

func (s *submissionService) GetCvResult(ctx context.Context, submissionID, resultID uuid.UUID, callerID *uuid.UUID) (*domain.CvResultWithDetails, error) {
	if _, err := s.loadVisible(ctx, submissionID, callerID); err != nil {
		return nil, err
	}

	result, err := s.results.GetByID(ctx, submissionID, resultID)
	if err != nil {
		return nil, err
	}

	details, err := s.details.ListByResults(ctx, []uuid.UUID{result.ID})
	if err != nil {
		return nil, fmt.Errorf("submission.GetCvResult details: %w", err)
	}

	out := &domain.CvResultWithDetails{CvResult: *result}
	if d, ok := details[result.ID]; ok && d != nil {
		out.CvDetails = *d
	}
	return out, nil
}

func (s *submissionService) ListSubmissions(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Submission, int, error) {
	return s.submissions.ListByUser(ctx, userID, offset, limit)
}

func (s *submissionService) Export(ctx context.Context, submissionID uuid.UUID, callerID *uuid.UUID, format domain.ExportFormat, w io.Writer) error {
	if format != domain.ExportFormatCSV && format != domain.ExportFormatXLSX {
		return domain.ErrUnsupportedExportFormat
	}

	sub, err := s.loadVisible(ctx, submissionID, callerID)
	if err != nil {
		return err
	}

	results, err := s.results.ListBySubmission(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("submission.Export: %w", err)
	}
	if len(results) == 0 && sub.Status != domain.SubmissionStatusComplete {
		return domain.ErrSubmissionProcessing
	}
	export.SortByMatch(results)

	if format == domain.ExportFormatXLSX {
		return export.WriteXLSX(w, results)
	}
	return export.WriteCSV(w, results)
}
