package pagination

import "gorm.io/gorm"

// Params holds offset pagination inputs from controllers or services.
// A zero Limit means unlimited; Offset defaults to 0; results are ordered
// by id ascending unless Descending is set.
type Params struct {
	Offset     int
	Limit      int
	Descending bool
}

// Normalize clamps negative inputs back to their defaults.
func (p Params) Normalize() Params {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit < 0 {
		p.Limit = 0
	}
	return p
}

// OrderClause renders the id ordering for the configured direction.
func (p Params) OrderClause() string {
	if p.Descending {
		return "id DESC"
	}
	return "id ASC"
}

// Apply attaches ordering, offset and limit to the query.
func (p Params) Apply(q *gorm.DB) *gorm.DB {
	p = p.Normalize()
	q = q.Order(p.OrderClause())
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	return q
}
