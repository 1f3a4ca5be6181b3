package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"vellum/contexts/editorial/reviewer-registry/domain/entities"
	domainerrors "vellum/contexts/editorial/reviewer-registry/domain/errors"
	"vellum/contexts/editorial/reviewer-registry/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CreateReviewer(ctx context.Context, reviewer entities.Reviewer) error {
	row := reviewerModelFromEntity(reviewer)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidReviewerInput
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateReviewer(ctx context.Context, reviewer entities.Reviewer) error {
	row := reviewerModelFromEntity(reviewer)
	result := r.db.WithContext(ctx).
		Model(&reviewerModel{}).
		Where("reviewer_id = ?", row.ReviewerID).
		Updates(map[string]any{
			"display_name":      row.DisplayName,
			"expertise":         row.Expertise,
			"available":         row.Available,
			"rating":            row.Rating,
			"completed_reviews": row.CompletedReviews,
			"rejected_reviews":  row.RejectedReviews,
			"last_active_at":    row.LastActiveAt,
			"updated_at":        row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrReviewerNotFound
	}
	return nil
}

func (r *Repository) GetReviewer(ctx context.Context, reviewerID string) (entities.Reviewer, error) {
	var row reviewerModel
	err := r.db.WithContext(ctx).
		Where("reviewer_id = ?", strings.TrimSpace(reviewerID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Reviewer{}, domainerrors.ErrReviewerNotFound
		}
		return entities.Reviewer{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListReviewers(ctx context.Context, filter ports.ReviewerFilter) ([]entities.Reviewer, error) {
	tx := r.db.WithContext(ctx).Model(&reviewerModel{})
	if filter.AvailableOnly {
		tx = tx.Where("available = ?", true)
	}
	if filter.MaxWorkload >= 0 {
		tx = tx.Where("workload <= ?", filter.MaxWorkload)
	}
	if expertise := strings.ToLower(strings.TrimSpace(filter.Expertise)); expertise != "" {
		tx = tx.Where("? = ANY(expertise)", expertise)
	}

	var rows []reviewerModel
	if err := tx.Order("workload ASC, rating DESC, reviewer_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Reviewer, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// AdjustWorkload relies on a guarded UPDATE so concurrent assignments mutate
// a reviewer's counter atomically.
func (r *Repository) AdjustWorkload(ctx context.Context, reviewerID string, delta int, ceiling int) (entities.Reviewer, error) {
	reviewerID = strings.TrimSpace(reviewerID)
	now := time.Now().UTC()

	var result *gorm.DB
	if delta >= 0 {
		result = r.db.WithContext(ctx).
			Model(&reviewerModel{}).
			Where("reviewer_id = ?", reviewerID).
			Where("available = ?", true).
			Where("workload + ? <= ?", delta, ceiling).
			Updates(map[string]any{
				"workload":   gorm.Expr("workload + ?", delta),
				"updated_at": now,
			})
	} else {
		result = r.db.WithContext(ctx).
			Model(&reviewerModel{}).
			Where("reviewer_id = ?", reviewerID).
			Updates(map[string]any{
				"workload":   gorm.Expr("GREATEST(workload + ?, 0)", delta),
				"updated_at": now,
			})
	}
	if result.Error != nil {
		return entities.Reviewer{}, result.Error
	}
	if result.RowsAffected == 0 {
		// Either the reviewer is unknown or the guarded update rejected the
		// delta; disambiguate with a lookup.
		reviewer, err := r.GetReviewer(ctx, reviewerID)
		if err != nil {
			return entities.Reviewer{}, err
		}
		if !reviewer.Available {
			return entities.Reviewer{}, domainerrors.ErrReviewerUnavailable
		}
		return entities.Reviewer{}, domainerrors.ErrCapacityExceeded
	}
	return r.GetReviewer(ctx, reviewerID)
}

type reviewerModel struct {
	ReviewerID       string    `gorm:"column:reviewer_id;primaryKey"`
	DisplayName      string    `gorm:"column:display_name"`
	Expertise        []string  `gorm:"column:expertise;type:text[]"`
	Available        bool      `gorm:"column:available"`
	Workload         int       `gorm:"column:workload"`
	Rating           float64   `gorm:"column:rating"`
	CompletedReviews int       `gorm:"column:completed_reviews"`
	RejectedReviews  int       `gorm:"column:rejected_reviews"`
	LastActiveAt     time.Time `gorm:"column:last_active_at"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (reviewerModel) TableName() string {
	return "reviewers"
}

func reviewerModelFromEntity(item entities.Reviewer) reviewerModel {
	return reviewerModel{
		ReviewerID:       strings.TrimSpace(item.ReviewerID),
		DisplayName:      strings.TrimSpace(item.DisplayName),
		Expertise:        append([]string(nil), item.Expertise...),
		Available:        item.Available,
		Workload:         item.Workload,
		Rating:           item.Rating,
		CompletedReviews: item.CompletedReviews,
		RejectedReviews:  item.RejectedReviews,
		LastActiveAt:     item.LastActiveAt.UTC(),
		CreatedAt:        item.CreatedAt.UTC(),
		UpdatedAt:        item.UpdatedAt.UTC(),
	}
}

func (m reviewerModel) toEntity() entities.Reviewer {
	return entities.Reviewer{
		ReviewerID:       m.ReviewerID,
		DisplayName:      m.DisplayName,
		Expertise:        append([]string(nil), m.Expertise...),
		Available:        m.Available,
		Workload:         m.Workload,
		Rating:           m.Rating,
		CompletedReviews: m.CompletedReviews,
		RejectedReviews:  m.RejectedReviews,
		LastActiveAt:     m.LastActiveAt.UTC(),
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
