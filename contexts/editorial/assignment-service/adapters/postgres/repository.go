package postgresadapter

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"vellum/contexts/editorial/assignment-service/domain/entities"
	domainerrors "vellum/contexts/editorial/assignment-service/domain/errors"
	"vellum/contexts/editorial/assignment-service/ports"
)

type assignmentModel struct {
	AssignmentID string     `gorm:"column:assignment_id;primaryKey"`
	ContentID    string     `gorm:"column:content_id"`
	ReviewerIDs  []string   `gorm:"column:reviewer_ids;type:text[]"`
	Notes        string     `gorm:"column:notes"`
	Deadline     time.Time  `gorm:"column:deadline"`
	Status       string     `gorm:"column:status"`
	Overdue      bool       `gorm:"column:overdue"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
	ReleasedAt   *time.Time `gorm:"column:released_at"`
}

func (assignmentModel) TableName() string {
	return "review_assignments"
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateAssignment(ctx context.Context, assignment entities.Assignment) error {
	row := assignmentModelFromEntity(assignment)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		// A partial unique index on (content_id) WHERE status = 'active'
		// enforces the one-active-assignment rule at the database level.
		if isUniqueViolation(err) {
			return domainerrors.ErrActiveAssignmentExists
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateAssignment(ctx context.Context, assignment entities.Assignment) error {
	row := assignmentModelFromEntity(assignment)
	result := r.db.WithContext(ctx).
		Model(&assignmentModel{}).
		Where("assignment_id = ?", row.AssignmentID).
		Updates(map[string]any{
			"reviewer_ids": row.ReviewerIDs,
			"notes":        row.Notes,
			"deadline":     row.Deadline,
			"status":       row.Status,
			"overdue":      row.Overdue,
			"updated_at":   row.UpdatedAt,
			"released_at":  row.ReleasedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAssignmentNotFound
	}
	return nil
}

func (r *Repository) GetAssignment(ctx context.Context, assignmentID string) (entities.Assignment, error) {
	var row assignmentModel
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", strings.TrimSpace(assignmentID)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Assignment{}, domainerrors.ErrAssignmentNotFound
		}
		return entities.Assignment{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetActiveByContent(ctx context.Context, contentID string) (entities.Assignment, bool, error) {
	var row assignmentModel
	err := r.db.WithContext(ctx).
		Where("content_id = ? AND status = ?", strings.TrimSpace(contentID), string(entities.StatusActive)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Assignment{}, false, nil
		}
		return entities.Assignment{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListAssignments(ctx context.Context, filter ports.AssignmentFilter) ([]entities.Assignment, error) {
	tx := r.db.WithContext(ctx).Model(&assignmentModel{})
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if !filter.DueFrom.IsZero() {
		tx = tx.Where("deadline >= ?", filter.DueFrom)
	}
	if !filter.DueTo.IsZero() {
		tx = tx.Where("deadline <= ?", filter.DueTo)
	}
	if filter.OverdueOnly {
		tx = tx.Where("overdue = ?", true)
	}

	var rows []assignmentModel
	if err := tx.Order("deadline ASC, assignment_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.Assignment, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func assignmentModelFromEntity(item entities.Assignment) assignmentModel {
	return assignmentModel{
		AssignmentID: item.AssignmentID,
		ContentID:    item.ContentID,
		ReviewerIDs:  append([]string(nil), item.ReviewerIDs...),
		Notes:        item.Notes,
		Deadline:     item.Deadline.UTC(),
		Status:       string(item.Status),
		Overdue:      item.Overdue,
		CreatedAt:    item.CreatedAt.UTC(),
		UpdatedAt:    item.UpdatedAt.UTC(),
		ReleasedAt:   item.ReleasedAt,
	}
}

func (m assignmentModel) toEntity() entities.Assignment {
	return entities.Assignment{
		AssignmentID: m.AssignmentID,
		ContentID:    m.ContentID,
		ReviewerIDs:  append([]string(nil), m.ReviewerIDs...),
		Notes:        m.Notes,
		Deadline:     m.Deadline.UTC(),
		Status:       entities.AssignmentStatus(m.Status),
		Overdue:      m.Overdue,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
		ReleasedAt:   m.ReleasedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
