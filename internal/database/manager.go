package database

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmalinin/dutywatch/pkg/model"
)

type DatabaseManager struct {
	db     *gorm.DB
	logger *slog.Logger
}

func New(db *gorm.DB) *DatabaseManager {
	m := &DatabaseManager{
		db:     db,
		logger: slog.With("logger", "dbm"),
	}

	return m
}

func (mm *DatabaseManager) Migrate() error {
	if mm == nil || mm.db == nil {
		return nil
	}

	return mm.db.AutoMigrate(
		&model.Alert{},
		&model.SosRecord{},
		&model.Incident{},
		&model.Assignment{},
	)
}

func (mm *DatabaseManager) Create(s any) error {
	if mm == nil || mm.db == nil {
		return nil
	}

	err := mm.db.Create(s).Error

	if err != nil {
		mm.logger.Error("error create object", slog.Any("error", err))
	}

	return err
}

func (mm *DatabaseManager) Save(s any) error {
	if mm == nil || mm.db == nil {
		return nil
	}

	err := mm.db.Save(s).Error

	if err != nil {
		mm.logger.Error("error saving object", slog.Any("error", err))
	}

	return err
}

func (mm *DatabaseManager) AlertQuery() *AlertQuery {
	if mm == nil || mm.db == nil {
		return nil
	}

	return NewAlertQuery(mm.db)
}

func (mm *DatabaseManager) SosQuery() *SosQuery {
	if mm == nil || mm.db == nil {
		return nil
	}

	return NewSosQuery(mm.db)
}

func (mm *DatabaseManager) IncidentQuery() *IncidentQuery {
	if mm == nil || mm.db == nil {
		return nil
	}

	return NewIncidentQuery(mm.db)
}

func (mm *DatabaseManager) AssignmentQuery() *AssignmentQuery {
	if mm == nil || mm.db == nil {
		return nil
	}

	return NewAssignmentQuery(mm.db)
}

// OpenAlert creates a new active alert unless one of the same kind is
// already open for the device.
func (mm *DatabaseManager) OpenAlert(deviceID, unitUID, kind, severity, msg string, payload map[string]any) (*model.Alert, error) {
	if a := mm.AlertQuery().Device(deviceID).Kind(kind).Active().One(); a != nil {
		return a, nil
	}

	a := &model.Alert{
		PublicID: uuid.NewString(),
		DeviceID: deviceID,
		UnitUID:  unitUID,
		Kind:     kind,
		Severity: severity,
		Message:  msg,
		Payload:  payload,
		IsActive: true,
	}

	if err := mm.Create(a); err != nil {
		return nil, err
	}

	return a, nil
}

func (mm *DatabaseManager) AckAlert(id, user string, t time.Time) error {
	return mm.AlertQuery().Id(id).Update(map[string]any{
		"acked_at": t,
		"acked_by": user,
	})
}

func (mm *DatabaseManager) CloseAlert(id, user string, t time.Time) error {
	return mm.AlertQuery().Id(id).Active().Update(map[string]any{
		"is_active": false,
		"closed_at": t,
		"closed_by": user,
	})
}

// CloseAlertsByKind closes every active alert of a kind for a device,
// used by the checker when the condition clears on its own.
func (mm *DatabaseManager) CloseAlertsByKind(deviceID, kind string, t time.Time) {
	q := mm.AlertQuery().Device(deviceID).Kind(kind).Active()

	if q.Count() == 0 {
		return
	}

	if err := q.Update(map[string]any{"is_active": false, "closed_at": t}); err != nil {
		mm.logger.Error("error closing alerts", slog.Any("error", err))
	}
}

// OpenSos records an emergency signal, reusing the active record if the
// unit already has one.
func (mm *DatabaseManager) OpenSos(unitUID string, lat, lon float64) (*model.SosRecord, error) {
	if s := mm.SosQuery().Unit(unitUID).Active().One(); s != nil {
		return s, nil
	}

	s := &model.SosRecord{
		PublicID: uuid.NewString(),
		UnitUID:  unitUID,
		Lat:      lat,
		Lon:      lon,
		Status:   model.SosOpen,
	}

	if err := mm.Create(s); err != nil {
		return nil, err
	}

	return s, nil
}

func (mm *DatabaseManager) AckSos(id, user string, t time.Time) error {
	return mm.SosQuery().Id(id).Update(map[string]any{
		"status":   model.SosAcked,
		"acked_at": t,
		"acked_by": user,
	})
}

func (mm *DatabaseManager) CloseSos(id, user string, t time.Time) error {
	return mm.SosQuery().Id(id).Update(map[string]any{
		"status":    model.SosClosed,
		"closed_at": t,
		"closed_by": user,
	})
}
