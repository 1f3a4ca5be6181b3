package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vellum/contexts/editorial/workflow-service/domain/entities"
	domainerrors "vellum/contexts/editorial/workflow-service/domain/errors"
	"vellum/contexts/editorial/workflow-service/ports"
	"vellum/internal/shared/events"
)

type contentModel struct {
	ContentID           string     `gorm:"column:content_id;primaryKey"`
	Title               string     `gorm:"column:title"`
	ContentType         string     `gorm:"column:content_type"`
	Category            string     `gorm:"column:category"`
	AuthorID            string     `gorm:"column:author_id"`
	Priority            string     `gorm:"column:priority"`
	State               string     `gorm:"column:state"`
	EditorialNotes      string     `gorm:"column:editorial_notes"`
	SubmittedAt         time.Time  `gorm:"column:submitted_at"`
	ApprovedAt          *time.Time `gorm:"column:approved_at"`
	ApprovedByUserID    string     `gorm:"column:approved_by_user_id"`
	ApprovalNotes       string     `gorm:"column:approval_notes"`
	RejectedAt          *time.Time `gorm:"column:rejected_at"`
	RejectedByUserID    string     `gorm:"column:rejected_by_user_id"`
	RejectionNotes      string     `gorm:"column:rejection_notes"`
	RevisionRequestedAt *time.Time `gorm:"column:revision_requested_at"`
	RevisionCount       int        `gorm:"column:revision_count"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (contentModel) TableName() string {
	return "workflow_content_items"
}

type contentOutboxModel struct {
	OutboxID    string     `gorm:"column:outbox_id;primaryKey"`
	EventType   string     `gorm:"column:event_type"`
	Payload     []byte     `gorm:"column:payload;type:jsonb"`
	Published   bool       `gorm:"column:published"`
	PublishedAt *time.Time `gorm:"column:published_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
}

func (contentOutboxModel) TableName() string {
	return "workflow_content_outbox"
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateContent(ctx context.Context, item entities.ContentItem) error {
	row := toContentModel(item)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidContentInput
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateContent(ctx context.Context, item entities.ContentItem) error {
	row := toContentModel(item)
	result := r.db.WithContext(ctx).
		Model(&contentModel{}).
		Where("content_id = ?", row.ContentID).
		Updates(&row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrContentNotFound
	}
	return nil
}

func (r *Repository) GetContent(ctx context.Context, contentID string) (entities.ContentItem, error) {
	var row contentModel
	err := r.db.WithContext(ctx).
		Where("content_id = ?", contentID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ContentItem{}, domainerrors.ErrContentNotFound
		}
		return entities.ContentItem{}, err
	}
	return toContentEntity(row), nil
}

func (r *Repository) ListContent(ctx context.Context, filter ports.ContentFilter) ([]entities.ContentItem, error) {
	query := r.db.WithContext(ctx).Model(&contentModel{})
	if filter.State != "" {
		query = query.Where("state = ?", string(filter.State))
	}
	if filter.ContentType != "" {
		query = query.Where("content_type = ?", filter.ContentType)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if !filter.SubmittedFrom.IsZero() {
		query = query.Where("submitted_at >= ?", filter.SubmittedFrom)
	}
	if !filter.SubmittedTo.IsZero() {
		query = query.Where("submitted_at <= ?", filter.SubmittedTo)
	}

	var rows []contentModel
	if err := query.Order("submitted_at ASC, content_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.ContentItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, toContentEntity(row))
	}
	return items, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope events.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := contentOutboxModel{
		OutboxID:  envelope.EventID,
		EventType: envelope.EventType,
		Payload:   payload,
		CreatedAt: envelope.OccurredAtUTC,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var rows []contentOutboxModel
	err := r.db.WithContext(ctx).
		Where("published = ?", false).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	pending := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		pending = append(pending, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt,
		})
	}
	return pending, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&contentOutboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"published":    true,
			"published_at": publishedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrContentNotFound
	}
	return nil
}

func toContentModel(item entities.ContentItem) contentModel {
	return contentModel{
		ContentID:           item.ContentID,
		Title:               item.Title,
		ContentType:         string(item.ContentType),
		Category:            item.Category,
		AuthorID:            item.AuthorID,
		Priority:            string(item.Priority),
		State:               string(item.State),
		EditorialNotes:      item.EditorialNotes,
		SubmittedAt:         item.SubmittedAt,
		ApprovedAt:          item.ApprovedAt,
		ApprovedByUserID:    item.ApprovedByUserID,
		ApprovalNotes:       item.ApprovalNotes,
		RejectedAt:          item.RejectedAt,
		RejectedByUserID:    item.RejectedByUserID,
		RejectionNotes:      item.RejectionNotes,
		RevisionRequestedAt: item.RevisionRequestedAt,
		RevisionCount:       item.RevisionCount,
		CreatedAt:           item.CreatedAt,
		UpdatedAt:           item.UpdatedAt,
	}
}

func toContentEntity(row contentModel) entities.ContentItem {
	return entities.ContentItem{
		ContentID:           row.ContentID,
		Title:               row.Title,
		ContentType:         entities.ContentType(row.ContentType),
		Category:            row.Category,
		AuthorID:            row.AuthorID,
		Priority:            entities.Priority(row.Priority),
		State:               entities.ContentState(row.State),
		EditorialNotes:      row.EditorialNotes,
		SubmittedAt:         row.SubmittedAt,
		ApprovedAt:          row.ApprovedAt,
		ApprovedByUserID:    row.ApprovedByUserID,
		ApprovalNotes:       row.ApprovalNotes,
		RejectedAt:          row.RejectedAt,
		RejectedByUserID:    row.RejectedByUserID,
		RejectionNotes:      row.RejectionNotes,
		RevisionRequestedAt: row.RevisionRequestedAt,
		RevisionCount:       row.RevisionCount,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
