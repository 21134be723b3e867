package database

import (
	"gorm.io/gorm"

	"github.com/kmalinin/dutywatch/pkg/model"
)

type SosQuery struct {
	Query[model.SosRecord]
	id      string
	unitUID string
	active  bool
}

func NewSosQuery(db *gorm.DB) *SosQuery {
	return &SosQuery{
		Query: Query[model.SosRecord]{
			db:     db,
			limit:  100,
			offset: 0,
			order:  "sos_records.created_at DESC",
		},
	}
}

func (q *SosQuery) Limit(n int) *SosQuery {
	q.limit = n
	return q
}

func (q *SosQuery) Id(id string) *SosQuery {
	q.id = id
	return q
}

func (q *SosQuery) Unit(uid string) *SosQuery {
	q.unitUID = uid
	return q
}

// Active selects records still requiring attention, open or acked.
func (q *SosQuery) Active() *SosQuery {
	q.active = true
	return q
}

func (q *SosQuery) where() *gorm.DB {
	tx := q.db

	if q.id != "" {
		tx = tx.Where("public_id = ?", q.id)
	}

	if q.unitUID != "" {
		tx = tx.Where("unit_uid = ?", q.unitUID)
	}

	if q.active {
		tx = tx.Where("status in ?", []string{model.SosOpen, model.SosAcked})
	}

	return tx
}

func (q *SosQuery) Get() []*model.SosRecord {
	return q.get(q.where().Model(&model.SosRecord{}))
}

func (q *SosQuery) One() *model.SosRecord {
	return q.one(q.where().Model(&model.SosRecord{}))
}

func (q *SosQuery) Count() int64 {
	return q.count(q.where().Model(&model.SosRecord{}))
}

func (q *SosQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.SosRecord{}), updates)
}
