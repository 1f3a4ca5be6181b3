package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"vellum/contexts/editorial/review-service/domain/entities"
	domainerrors "vellum/contexts/editorial/review-service/domain/errors"
)

type reviewModel struct {
	ReviewID       string    `gorm:"column:review_id;primaryKey"`
	AssignmentID   string    `gorm:"column:assignment_id;uniqueIndex:idx_reviews_identity"`
	ReviewerID     string    `gorm:"column:reviewer_id;uniqueIndex:idx_reviews_identity"`
	Recommendation string    `gorm:"column:recommendation"`
	Scores         []byte    `gorm:"column:scores;type:jsonb"`
	Comments       string    `gorm:"column:comments"`
	SubmittedAt    time.Time `gorm:"column:submitted_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (reviewModel) TableName() string {
	return "content_reviews"
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) UpsertReview(ctx context.Context, review entities.Review) (bool, error) {
	row, err := reviewModelFromEntity(review)
	if err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Model(&reviewModel{}).
		Where("assignment_id = ? AND reviewer_id = ?", row.AssignmentID, row.ReviewerID).
		Updates(map[string]any{
			"recommendation": row.Recommendation,
			"scores":         row.Scores,
			"comments":       row.Comments,
			"updated_at":     row.UpdatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		// Lost a race against a concurrent first submission; retry as update.
		if isUniqueViolation(err) {
			return r.UpsertReview(ctx, review)
		}
		return false, err
	}
	return false, nil
}

func (r *Repository) GetReviewByIdentity(ctx context.Context, assignmentID, reviewerID string) (entities.Review, error) {
	var row reviewModel
	err := r.db.WithContext(ctx).
		Where("assignment_id = ? AND reviewer_id = ?", strings.TrimSpace(assignmentID), strings.TrimSpace(reviewerID)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Review{}, domainerrors.ErrReviewNotFound
		}
		return entities.Review{}, err
	}
	return row.toEntity()
}

func (r *Repository) ListByAssignment(ctx context.Context, assignmentID string) ([]entities.Review, error) {
	var rows []reviewModel
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", strings.TrimSpace(assignmentID)).
		Order("submitted_at ASC, reviewer_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	reviews := make([]entities.Review, 0, len(rows))
	for _, row := range rows {
		review, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

func reviewModelFromEntity(review entities.Review) (reviewModel, error) {
	scores, err := json.Marshal(review.Scores)
	if err != nil {
		return reviewModel{}, err
	}
	return reviewModel{
		ReviewID:       review.ReviewID,
		AssignmentID:   review.AssignmentID,
		ReviewerID:     review.ReviewerID,
		Recommendation: string(review.Recommendation),
		Scores:         scores,
		Comments:       review.Comments,
		SubmittedAt:    review.SubmittedAt.UTC(),
		UpdatedAt:      review.UpdatedAt.UTC(),
	}, nil
}

func (m reviewModel) toEntity() (entities.Review, error) {
	var scores map[string]float64
	if len(m.Scores) > 0 {
		if err := json.Unmarshal(m.Scores, &scores); err != nil {
			return entities.Review{}, err
		}
	}
	return entities.Review{
		ReviewID:       m.ReviewID,
		AssignmentID:   m.AssignmentID,
		ReviewerID:     m.ReviewerID,
		Recommendation: entities.Recommendation(m.Recommendation),
		Scores:         scores,
		Comments:       m.Comments,
		SubmittedAt:    m.SubmittedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
