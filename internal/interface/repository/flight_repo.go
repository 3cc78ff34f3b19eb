package repository

import (
	"context"
	"strings"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormFlightRepository implements the FlightRepository interface
type GormFlightRepository struct {
	db *gorm.DB
}

// NewGormFlightRepository creates a new GORM watched flight repository
func NewGormFlightRepository(db *gorm.DB) repository.FlightRepository {
	return &GormFlightRepository{
		db: db,
	}
}

// WatchedFlights GORM model for database mapping
type WatchedFlights struct {
	ID                  string `gorm:"primaryKey"`
	Description         string `gorm:"column:description"`
	Origin              string `gorm:"column:origin"`
	Destination         string `gorm:"column:destination"`
	DepartureDate       time.Time
	ReturnDate          *time.Time
	Airline             string
	FlightNumbers       string `gorm:"column:flight_numbers"` // comma separated
	OriginalPrice       float64
	CurrentPrice        float64
	LowestPrice         float64
	MonitoringEnabled   bool
	NotifyEnabled       bool
	DecreaseThreshold   float64
	IncreaseThreshold   float64
	CheckFrequencyHours int
	LastChecked         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName overrides the default table name
func (WatchedFlights) TableName() string {
	return "watched_flights"
}

func (m *WatchedFlights) toEntity() *entity.WatchedFlight {
	var numbers []string
	if m.FlightNumbers != "" {
		numbers = strings.Split(m.FlightNumbers, ",")
	}
	return &entity.WatchedFlight{
		ID:                  m.ID,
		Description:         m.Description,
		Origin:              m.Origin,
		Destination:         m.Destination,
		DepartureDate:       m.DepartureDate,
		ReturnDate:          m.ReturnDate,
		Airline:             m.Airline,
		FlightNumbers:       numbers,
		OriginalPrice:       m.OriginalPrice,
		CurrentPrice:        m.CurrentPrice,
		LowestPrice:         m.LowestPrice,
		MonitoringEnabled:   m.MonitoringEnabled,
		NotifyEnabled:       m.NotifyEnabled,
		DecreaseThreshold:   m.DecreaseThreshold,
		IncreaseThreshold:   m.IncreaseThreshold,
		CheckFrequencyHours: m.CheckFrequencyHours,
		LastChecked:         m.LastChecked,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// GetByID finds a watched flight by its identifier
func (r *GormFlightRepository) GetByID(ctx context.Context, id string) (*entity.WatchedFlight, error) {
	var flight WatchedFlights
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&flight)
	if result.Error != nil {
		return nil, result.Error
	}
	return flight.toEntity(), nil
}

// ListEligible returns enabled flights due for a check, oldest first.
// A flight's own check frequency wins over the passed cooldown when set.
func (r *GormFlightRepository) ListEligible(ctx context.Context, cooldown time.Duration, limit int) ([]*entity.WatchedFlight, error) {
	var rows []WatchedFlights
	result := r.db.WithContext(ctx).
		Where("monitoring_enabled = ?", true).
		Where("last_checked IS NULL OR last_checked < NOW() - make_interval(secs => CASE WHEN check_frequency_hours > 0 THEN check_frequency_hours * 3600.0 ELSE ? END)", cooldown.Seconds()).
		Order("last_checked ASC NULLS FIRST").
		Limit(limit).
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return toEntities(rows), nil
}

// ListAll returns every watched flight
func (r *GormFlightRepository) ListAll(ctx context.Context) ([]*entity.WatchedFlight, error) {
	var rows []WatchedFlights
	result := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return toEntities(rows), nil
}

// UpdatePrices commits the engine-owned fields in a single write so the
// price and checked timestamp land together or not at all.
func (r *GormFlightRepository) UpdatePrices(ctx context.Context, id string, currentPrice, lowestPrice float64, checkedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&WatchedFlights{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_price": currentPrice,
			"lowest_price":  lowestPrice,
			"last_checked":  checkedAt,
			"updated_at":    time.Now(),
		}).Error
}

// MarkChecked stamps the last check time without touching prices
func (r *GormFlightRepository) MarkChecked(ctx context.Context, id string, checkedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&WatchedFlights{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_checked": checkedAt,
			"updated_at":   time.Now(),
		}).Error
}

// ListCompleted returns enabled flights whose travel window ended before the given date
func (r *GormFlightRepository) ListCompleted(ctx context.Context, before time.Time) ([]*entity.WatchedFlight, error) {
	var rows []WatchedFlights
	result := r.db.WithContext(ctx).
		Where("monitoring_enabled = ?", true).
		Where("COALESCE(return_date, departure_date) < ?", before).
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return toEntities(rows), nil
}

// DisableMonitoring turns off monitoring for a flight
func (r *GormFlightRepository) DisableMonitoring(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&WatchedFlights{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"monitoring_enabled": false,
			"updated_at":         time.Now(),
		}).Error
}

func toEntities(rows []WatchedFlights) []*entity.WatchedFlight {
	flights := make([]*entity.WatchedFlight, 0, len(rows))
	for i := range rows {
		flights = append(flights, rows[i].toEntity())
	}
	return flights
}
