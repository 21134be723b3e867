package database

import (
	"gorm.io/gorm"

	"github.com/kmalinin/dutywatch/pkg/model"
)

type IncidentQuery struct {
	Query[model.Incident]
	id     uint
	status string
}

func NewIncidentQuery(db *gorm.DB) *IncidentQuery {
	return &IncidentQuery{
		Query: Query[model.Incident]{
			db:     db,
			limit:  100,
			offset: 0,
			order:  "incidents.created_at DESC",
		},
	}
}

func (q *IncidentQuery) Limit(n int) *IncidentQuery {
	q.limit = n
	return q
}

func (q *IncidentQuery) Id(id uint) *IncidentQuery {
	q.id = id
	return q
}

func (q *IncidentQuery) Status(status string) *IncidentQuery {
	q.status = status
	return q
}

func (q *IncidentQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("id = ?", q.id)
	}

	if q.status != "" {
		tx = tx.Where("status = ?", q.status)
	}

	return tx
}

func (q *IncidentQuery) Get() []*model.Incident {
	return q.get(q.where().Model(&model.Incident{}))
}

func (q *IncidentQuery) One() *model.Incident {
	return q.one(q.where().Model(&model.Incident{}))
}

func (q *IncidentQuery) Count() int64 {
	return q.count(q.where().Model(&model.Incident{}))
}

func (q *IncidentQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.Incident{}), updates)
}
