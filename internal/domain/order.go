package domain

// Order exists to back the admin dashboard rollups; checkout orchestration
// lives outside this service.
type Order struct {
	ID         string  `db:"id" json:"id"`
	AccountID  string  `db:"account_id" json:"accountId"`
	TotalPrice float64 `db:"total_price" json:"totalPrice"`
	IsPaid     bool    `db:"is_paid" json:"isPaid"`
	PaidAt     string  `db:"paid_at" json:"paidAt,omitempty"`
	Status     string  `db:"status" json:"status"`
	CreatedAt  string  `db:"created_at" json:"createdAt"`
}
