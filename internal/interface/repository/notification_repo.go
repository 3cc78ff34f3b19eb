package repository

import (
	"context"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormNotificationRepository implements the NotificationRepository interface
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM notification event repository
func NewGormNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &GormNotificationRepository{
		db: db,
	}
}

// NotificationEvents GORM model for database mapping
type NotificationEvents struct {
	ID            string `gorm:"primaryKey"`
	FlightID      string `gorm:"column:flight_id;index"`
	Recipient     string
	Type          string
	OldPrice      float64
	NewPrice      float64
	ChangePercent float64
	Subject       string
	Message       string
	Sent          bool `gorm:"index"`
	SentAt        *time.Time
	LastError     string
	CreatedAt     time.Time
}

// TableName overrides the default table name
func (NotificationEvents) TableName() string {
	return "notification_events"
}

func (m *NotificationEvents) toEntity() *entity.NotificationEvent {
	return &entity.NotificationEvent{
		ID:            m.ID,
		FlightID:      m.FlightID,
		Recipient:     m.Recipient,
		Type:          entity.NotificationType(m.Type),
		OldPrice:      m.OldPrice,
		NewPrice:      m.NewPrice,
		ChangePercent: m.ChangePercent,
		Subject:       m.Subject,
		Message:       m.Message,
		Sent:          m.Sent,
		SentAt:        m.SentAt,
		LastError:     m.LastError,
		CreatedAt:     m.CreatedAt,
	}
}

// Create persists a new notification event
func (r *GormNotificationRepository) Create(ctx context.Context, event *entity.NotificationEvent) error {
	row := NotificationEvents{
		ID:            event.ID,
		FlightID:      event.FlightID,
		Recipient:     event.Recipient,
		Type:          string(event.Type),
		OldPrice:      event.OldPrice,
		NewPrice:      event.NewPrice,
		ChangePercent: event.ChangePercent,
		Subject:       event.Subject,
		Message:       event.Message,
		Sent:          false,
		CreatedAt:     event.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// GetByID finds a notification event by its identifier
func (r *GormNotificationRepository) GetByID(ctx context.Context, id string) (*entity.NotificationEvent, error) {
	var row NotificationEvents
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	return row.toEntity(), nil
}

// MarkSent flips the sent flag only while it is still false. The
// conditional update makes delivery at-most-once even when two
// dispatchers race on the same event.
func (r *GormNotificationRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&NotificationEvents{}).
		Where("id = ? AND sent = ?", id, false).
		Updates(map[string]interface{}{
			"sent":       true,
			"sent_at":    sentAt,
			"last_error": "",
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SetLastError records why the latest delivery attempt failed
func (r *GormNotificationRepository) SetLastError(ctx context.Context, id string, reason string) error {
	return r.db.WithContext(ctx).
		Model(&NotificationEvents{}).
		Where("id = ?", id).
		Update("last_error", reason).Error
}

// FindUnsent returns undelivered events, oldest first
func (r *GormNotificationRepository) FindUnsent(ctx context.Context, limit int) ([]*entity.NotificationEvent, error) {
	var rows []NotificationEvents
	result := r.db.WithContext(ctx).
		Where("sent = ?", false).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	events := make([]*entity.NotificationEvent, 0, len(rows))
	for i := range rows {
		events = append(events, rows[i].toEntity())
	}
	return events, nil
}
