package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"cvscreen/internal/domain"
	"cvscreen/internal/port"
)

type cvDetailRepo struct {
	db *sqlx.DB
}

// NewCvDetailRepo creates a new PostgreSQL-backed CvDetailRepository.
func NewCvDetailRepo(db *sqlx.DB) port.CvDetailRepository {
	return &cvDetailRepo{db: db}
}

func (r *cvDetailRepo) CreateEducation(ctx context.Context, rows []domain.EducationDetail) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].ID = uuid.New()
	}
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO education_details (id, cv_result_id, institution)
		 VALUES (:id, :cv_result_id, :institution)`, rows)
	if err != nil {
		return fmt.Errorf("cvDetailRepo.CreateEducation: %w", err)
	}
	return nil
}

func (r *cvDetailRepo) CreateExperience(ctx context.Context, rows []domain.ExperienceDetail) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].ID = uuid.New()
	}
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO experience_details (id, cv_result_id, description)
		 VALUES (:id, :cv_result_id, :description)`, rows)
	if err != nil {
		return fmt.Errorf("cvDetailRepo.CreateExperience: %w", err)
	}
	return nil
}

func (r *cvDetailRepo) CreateSkills(ctx context.Context, rows []domain.SkillDetail) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].ID = uuid.New()
	}
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO skill_details (id, cv_result_id, category, details)
		 VALUES (:id, :cv_result_id, :category, :details)`, rows)
	if err != nil {
		return fmt.Errorf("cvDetailRepo.CreateSkills: %w", err)
	}
	return nil
}

func (r *cvDetailRepo) ListByResults(ctx context.Context, resultIDs []uuid.UUID) (map[uuid.UUID]*domain.CvDetails, error) {
	out := make(map[uuid.UUID]*domain.CvDetails, len(resultIDs))
	if len(resultIDs) == 0 {
		return out, nil
	}
	for _, id := range resultIDs {
		out[id] = &domain.CvDetails{
			Education:  []domain.EducationDetail{},
			Experience: []domain.ExperienceDetail{},
			Skills:     []domain.SkillDetail{},
		}
	}
	ids := uuidArray(resultIDs)

	var education []domain.EducationDetail
	if err := r.db.SelectContext(ctx, &education,
		"SELECT id, cv_result_id, institution FROM education_details WHERE cv_result_id = ANY($1::uuid[]) ORDER BY seq", ids); err != nil {
		return nil, fmt.Errorf("cvDetailRepo.ListByResults education: %w", err)
	}
	for _, row := range education {
		out[row.CvResultID].Education = append(out[row.CvResultID].Education, row)
	}

	var experience []domain.ExperienceDetail
	if err := r.db.SelectContext(ctx, &experience,
		"SELECT id, cv_result_id, description FROM experience_details WHERE cv_result_id = ANY($1::uuid[]) ORDER BY seq", ids); err != nil {
		return nil, fmt.Errorf("cvDetailRepo.ListByResults experience: %w", err)
	}
	for _, row := range experience {
		out[row.CvResultID].Experience = append(out[row.CvResultID].Experience, row)
	}

	var skills []domain.SkillDetail
	if err := r.db.SelectContext(ctx, &skills,
		"SELECT id, cv_result_id, category, details FROM skill_details WHERE cv_result_id = ANY($1::uuid[]) ORDER BY seq", ids); err != nil {
		return nil, fmt.Errorf("cvDetailRepo.ListByResults skills: %w", err)
	}
	for _, row := range skills {
		out[row.CvResultID].Skills = append(out[row.CvResultID].Skills, row)
	}

	return out, nil
}
