package repos

import (
	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

// CartLineRow is a cart line joined with live product data; price and stock
// reflect the product at read time, not at add time.
type CartLineRow struct {
	ProductID  string  `db:"product_id" json:"productId"`
	Name       string  `db:"name" json:"name"`
	Price      float64 `db:"price" json:"price"`
	ImagesJSON string  `db:"images_json" json:"images"`
	Stock      int     `db:"stock" json:"countInStock"`
	SellerName string  `db:"seller_name" json:"sellerName"`
	Qty        int     `db:"qty" json:"quantity"`
	Subtotal   float64 `db:"subtotal" json:"subtotal"`
}

// CartID resolves the cart for an account; sql.ErrNoRows when none exists.
func (r *CartRepo) CartID(accountID string) (string, error) {
	var id string
	err := r.db.Get(&id, `SELECT id FROM carts WHERE account_id = ?`, accountID)
	return id, err
}

// EnsureCart returns the account's cart id, creating an empty cart on first
// access.
func (r *CartRepo) EnsureCart(accountID string) (string, error) {
	if id, err := r.CartID(accountID); err == nil {
		return id, nil
	}
	_, err := r.db.Exec(`
		INSERT INTO carts(id,account_id,updated_at) VALUES(?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(account_id) DO NOTHING
	`, accountID, accountID)
	if err != nil {
		return "", err
	}
	return r.CartID(accountID)
}

// SetItem writes the line quantity outright. The primary key on
// (cart_id, product_id) keeps product refs unique per cart, and the upsert
// replaces rather than increments: adding an existing product is a "set".
func (r *CartRepo) SetItem(cartID, productID string, qty int) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(cart_id,product_id,qty,created_at)
		VALUES(?,?,?,CURRENT_TIMESTAMP)
		ON CONFLICT(cart_id,product_id) DO UPDATE
		SET qty = excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, cartID, productID, qty)
	return err
}

// UpdateQty overwrites an existing line; reports whether the line existed.
func (r *CartRepo) UpdateQty(cartID, productID string, qty int) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE cart_items SET qty=?, updated_at=CURRENT_TIMESTAMP
		WHERE cart_id=? AND product_id=?
	`, qty, cartID, productID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *CartRepo) RemoveItem(cartID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id=? AND product_id=?`, cartID, productID)
	return err
}

func (r *CartRepo) Clear(cartID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID)
	return err
}

// Lines re-populates every line from current product state.
func (r *CartRepo) Lines(cartID string) ([]CartLineRow, error) {
	rows := []CartLineRow{}
	err := r.db.Select(&rows, `
	  SELECT ci.product_id, p.name, p.price, p.images_json, p.stock, u.name AS seller_name,
	         ci.qty, (ci.qty * p.price) AS subtotal
	  FROM cart_items ci
	  JOIN products p ON p.id = ci.product_id
	  JOIN users u ON u.id = p.seller_id
	  WHERE ci.cart_id = ?
	  ORDER BY datetime(ci.created_at), ci.product_id
	`, cartID)
	return rows, err
}
