package database

import (
	"gorm.io/gorm"

	"github.com/kmalinin/dutywatch/pkg/model"
)

type AlertQuery struct {
	Query[model.Alert]
	id       string
	deviceID string
	unitUID  string
	kind     string
	active   bool
}

func NewAlertQuery(db *gorm.DB) *AlertQuery {
	return &AlertQuery{
		Query: Query[model.Alert]{
			db:     db,
			limit:  100,
			offset: 0,
			order:  "alerts.created_at DESC",
		},
	}
}

func (q *AlertQuery) Order(s string) *AlertQuery {
	q.order = s
	return q
}

func (q *AlertQuery) Limit(n int) *AlertQuery {
	q.limit = n
	return q
}

func (q *AlertQuery) Offset(n int) *AlertQuery {
	q.offset = n
	return q
}

func (q *AlertQuery) Id(id string) *AlertQuery {
	q.id = id
	return q
}

func (q *AlertQuery) Device(deviceID string) *AlertQuery {
	q.deviceID = deviceID
	return q
}

func (q *AlertQuery) Unit(uid string) *AlertQuery {
	q.unitUID = uid
	return q
}

func (q *AlertQuery) Kind(kind string) *AlertQuery {
	q.kind = kind
	return q
}

func (q *AlertQuery) Active() *AlertQuery {
	q.active = true
	return q
}

func (q *AlertQuery) where() *gorm.DB {
	tx := q.db

	if q.id != "" {
		tx = tx.Where("public_id = ?", q.id)
	}

	if q.deviceID != "" {
		tx = tx.Where("device_id = ?", q.deviceID)
	}

	if q.unitUID != "" {
		tx = tx.Where("unit_uid = ?", q.unitUID)
	}

	if q.kind != "" {
		tx = tx.Where("kind = ?", q.kind)
	}

	if q.active {
		tx = tx.Where("is_active = ?", true)
	}

	return tx
}

func (q *AlertQuery) Get() []*model.Alert {
	return q.get(q.where().Model(&model.Alert{}))
}

func (q *AlertQuery) One() *model.Alert {
	return q.one(q.where().Model(&model.Alert{}))
}

func (q *AlertQuery) Count() int64 {
	return q.count(q.where().Model(&model.Alert{}))
}

func (q *AlertQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.Alert{}), updates)
}
