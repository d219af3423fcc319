package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"cvscreen/internal/domain"
	"cvscreen/internal/port"
)

// ResultPersister writes the analysis of one file. The second return value is false when the
// primary row could not be written; detail rows are never attempted in that case.
type ResultPersister interface {
	Persist(ctx context.Context, submissionID uuid.UUID, fileName string, analysis *domain.Analysis, text string) (uuid.UUID, bool)
}

type resultPersister struct {
	results port.CvResultRepository
	details port.CvDetailRepository
	policy  domain.DetailPolicy
}

// NewResultPersister creates a ResultPersister that writes detail rows when policy allows.
func NewResultPersister(results port.CvResultRepository, details port.CvDetailRepository, policy domain.DetailPolicy) ResultPersister {
	return &resultPersister{
		results: results,
		details: details,
		policy:  policy,
	}
}

func (p *resultPersister) Persist(ctx context.Context, submissionID uuid.UUID, fileName string, analysis *domain.Analysis, text string) (uuid.UUID, bool) {
	result := &domain.CvResult{
		SubmissionID:     submissionID,
		OriginalFilename: cleanText(fileName),
		ATSScore:         cleanText(analysis.ATS),
		CandidateName:    optional(analysis.Name),
		CandidateEmail:   optional(analysis.Mail),
		CandidatePhone:   optional(analysis.Phone),
		FullText:         cleanText(text),
	}
	if err := p.results.Create(ctx, result); err != nil {
		log.Error().Err(err).
			Str("submission_id", submissionID.String()).
			Str("file", fileName).
			Msg("resultPersister: failed to write cv result, skipping file")
		return uuid.Nil, false
	}

	score := analysis.Score()
	if !p.policy.Allows(score) {
		return result.ID, true
	}

	logger := log.With().
		Str("submission_id", submissionID.String()).
		Str("cv_result_id", result.ID.String()).
		Logger()

	if rows := educationRows(result.ID, analysis.Education); len(rows) > 0 {
		if err := p.details.CreateEducation(ctx, rows); err != nil {
			logger.Warn().Err(err).Msg("resultPersister: failed to write education details")
		}
	}
	if rows := experienceRows(result.ID, analysis.Experience); len(rows) > 0 {
		if err := p.details.CreateExperience(ctx, rows); err != nil {
			logger.Warn().Err(err).Msg("resultPersister: failed to write experience details")
		}
	}
	if rows := skillRows(result.ID, analysis.Skills); len(rows) > 0 {
		if err := p.details.CreateSkills(ctx, rows); err != nil {
			logger.Warn().Err(err).Msg("resultPersister: failed to write skill details")
		}
	}

	return result.ID, true
}

func educationRows(resultID uuid.UUID, entries []string) []domain.EducationDetail {
	rows := make([]domain.EducationDetail, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, domain.EducationDetail{CvResultID: resultID, Institution: cleanText(e)})
	}
	return rows
}

func experienceRows(resultID uuid.UUID, entries []string) []domain.ExperienceDetail {
	rows := make([]domain.ExperienceDetail, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, domain.ExperienceDetail{CvResultID: resultID, Description: cleanText(e)})
	}
	return rows
}

func skillRows(resultID uuid.UUID, skills []domain.Skill) []domain.SkillDetail {
	rows := make([]domain.SkillDetail, 0, len(skills))
	for _, s := range skills {
		rows = append(rows, domain.SkillDetail{CvResultID: resultID, Category: cleanText(s.Category), Details: cleanText(s.Details)})
	}
	return rows
}

func optional(s string) *string {
	s = strings.TrimSpace(cleanText(s))
	if s == "" {
		return nil
	}
	return &s
}

// cleanText drops NUL bytes and invalid UTF-8, both of which Postgres text columns reject.
func cleanText(s string) string {
	return strings.ToValidUTF8(strings.ReplaceAll(s, "\x00", ""), "")
}
