package repos

import (
	"craftbazaar/internal/domain"

	"github.com/jmoiron/sqlx"
)

// OrderRepo serves the admin dashboard rollups. Order creation belongs to the
// checkout service; Create exists for seeding and tests.
type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// RecentOrderRow is an order joined with its purchaser's name.
type RecentOrderRow struct {
	domain.Order
	PurchaserName string `db:"purchaser_name" json:"purchaserName"`
}

func (r *OrderRepo) Create(o *domain.Order) error {
	paidAt := any(nil)
	if o.PaidAt != "" {
		paidAt = o.PaidAt
	}
	_, err := r.db.Exec(`
		INSERT INTO orders(id,account_id,total_price,is_paid,paid_at,status)
		VALUES(?,?,?,?,?,?)
	`, o.ID, o.AccountID, o.TotalPrice, o.IsPaid, paidAt, o.Status)
	return err
}

func (r *OrderRepo) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM orders`)
	return n, err
}

// Revenue sums total_price over paid orders only.
func (r *OrderRepo) Revenue() (float64, error) {
	var total float64
	err := r.db.Get(&total, `SELECT COALESCE(SUM(total_price),0) FROM orders WHERE is_paid=1`)
	return total, err
}

func (r *OrderRepo) Recent(limit int) ([]RecentOrderRow, error) {
	out := []RecentOrderRow{}
	err := r.db.Select(&out, `
		SELECT o.id, o.account_id, o.total_price, o.is_paid, COALESCE(o.paid_at,'') AS paid_at,
		       o.status, o.created_at, COALESCE(u.name,'') AS purchaser_name
		FROM orders o
		LEFT JOIN users u ON u.id = o.account_id
		ORDER BY datetime(o.created_at) DESC, o.id
		LIMIT ?`, limit)
	return out, err
}
