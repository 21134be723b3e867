package database

import (
	"gorm.io/gorm"

	"github.com/kmalinin/dutywatch/pkg/model"
)

type AssignmentQuery struct {
	Query[model.Assignment]
	id         uint
	incidentID uint
	unitUID    string
	open       bool
}

func NewAssignmentQuery(db *gorm.DB) *AssignmentQuery {
	return &AssignmentQuery{
		Query: Query[model.Assignment]{
			db:     db,
			limit:  100,
			offset: 0,
			order:  "assignments.assigned_at DESC",
		},
	}
}

func (q *AssignmentQuery) Limit(n int) *AssignmentQuery {
	q.limit = n
	return q
}

func (q *AssignmentQuery) Id(id uint) *AssignmentQuery {
	q.id = id
	return q
}

func (q *AssignmentQuery) Incident(id uint) *AssignmentQuery {
	q.incidentID = id
	return q
}

func (q *AssignmentQuery) Unit(uid string) *AssignmentQuery {
	q.unitUID = uid
	return q
}

// Open selects assignments not yet closed.
func (q *AssignmentQuery) Open() *AssignmentQuery {
	q.open = true
	return q
}

func (q *AssignmentQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("id = ?", q.id)
	}

	if q.incidentID != 0 {
		tx = tx.Where("incident_id = ?", q.incidentID)
	}

	if q.unitUID != "" {
		tx = tx.Where("unit_uid = ?", q.unitUID)
	}

	if q.open {
		tx = tx.Where("closed_at is null")
	}

	return tx
}

func (q *AssignmentQuery) Get() []*model.Assignment {
	return q.get(q.where().Model(&model.Assignment{}))
}

func (q *AssignmentQuery) One() *model.Assignment {
	return q.one(q.where().Model(&model.Assignment{}))
}

func (q *AssignmentQuery) Count() int64 {
	return q.count(q.where().Model(&model.Assignment{}))
}

func (q *AssignmentQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.Assignment{}), updates)
}
