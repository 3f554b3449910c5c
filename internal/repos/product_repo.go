package repos

import (
	"craftbazaar/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `p.id, p.seller_id, p.category_id, p.name, p.description, p.price, p.images_json,
  p.stock, p.craft_type, p.region, p.tags_json, p.materials_json, p.dimensions_json, p.weight_json,
  p.rating, p.num_reviews, p.is_featured, p.is_active, p.created_at, COALESCE(p.updated_at,'') AS updated_at`

// ProductRow is a product joined with its seller and category names for
// API output.
type ProductRow struct {
	domain.Product
	SellerName   string `db:"seller_name" json:"sellerName"`
	CategoryName string `db:"category_name" json:"categoryName"`
}

const productJoin = `
  FROM products p
  JOIN users u ON u.id = p.seller_id
  JOIN categories c ON c.id = p.category_id`

// Filter holds the optional, AND-combined list predicates. The active-only
// predicate is applied unconditionally and is not part of the filter.
type Filter struct {
	Keyword    string
	CategoryID string
	PriceMin   *float64
	PriceMax   *float64
	MinRating  *float64
	CraftType  string
	Region     string
	SortBy     string // validated column name
	Desc       bool
}

func (f Filter) where() (string, []any) {
	where := `p.is_active = 1`
	args := []any{}
	if f.Keyword != "" {
		where += ` AND (LOWER(p.name) LIKE ? OR LOWER(p.description) LIKE ? OR LOWER(p.tags_json) LIKE ?)`
		kw := "%" + f.Keyword + "%"
		args = append(args, kw, kw, kw)
	}
	if f.CategoryID != "" {
		where += ` AND p.category_id = ?`
		args = append(args, f.CategoryID)
	}
	if f.PriceMin != nil {
		where += ` AND p.price >= ?`
		args = append(args, *f.PriceMin)
	}
	if f.PriceMax != nil {
		where += ` AND p.price <= ?`
		args = append(args, *f.PriceMax)
	}
	if f.MinRating != nil {
		where += ` AND p.rating >= ?`
		args = append(args, *f.MinRating)
	}
	if f.CraftType != "" {
		where += ` AND p.craft_type = ?`
		args = append(args, f.CraftType)
	}
	if f.Region != "" {
		where += ` AND p.region = ?`
		args = append(args, f.Region)
	}
	return where, args
}

func (f Filter) orderBy() string {
	col := f.SortBy
	switch col {
	case "price", "rating", "name":
	case "created_at", "":
		col = "datetime(p.created_at)"
	default:
		col = "datetime(p.created_at)"
	}
	dir := " ASC"
	if f.Desc {
		dir = " DESC"
	}
	return " ORDER BY " + col + dir + ", p.id"
}

// CountAll counts every product row, active or not (dashboard rollup).
func (r *ProductRepo) CountAll() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products`)
	return n, err
}

func (r *ProductRepo) Count(f Filter) (int, error) {
	where, args := f.where()
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*)`+productJoin+` WHERE `+where, args...)
	return n, err
}

func (r *ProductRepo) List(f Filter, limit, offset int) ([]ProductRow, error) {
	where, args := f.where()
	q := `SELECT ` + productCols + `, u.name AS seller_name, c.name AS category_name` +
		productJoin + ` WHERE ` + where + f.orderBy() + ` LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	out := []ProductRow{}
	err := r.db.Select(&out, q, args...)
	return out, err
}

// Get returns a product regardless of its active flag; visibility rules live
// in the service layer.
func (r *ProductRepo) Get(id string) (*ProductRow, error) {
	var p ProductRow
	err := r.db.Get(&p, `
		SELECT `+productCols+`, u.name AS seller_name, c.name AS category_name`+productJoin+`
		WHERE p.id = ?`, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) Featured(limit int) ([]ProductRow, error) {
	out := []ProductRow{}
	err := r.db.Select(&out, `
		SELECT `+productCols+`, u.name AS seller_name, c.name AS category_name`+productJoin+`
		WHERE p.is_active = 1 AND p.is_featured = 1
		ORDER BY datetime(p.created_at) DESC, p.id
		LIMIT ?`, limit)
	return out, err
}

func (r *ProductRepo) Top(limit int) ([]ProductRow, error) {
	out := []ProductRow{}
	err := r.db.Select(&out, `
		SELECT `+productCols+`, u.name AS seller_name, c.name AS category_name`+productJoin+`
		WHERE p.is_active = 1
		ORDER BY p.rating DESC, p.id
		LIMIT ?`, limit)
	return out, err
}

// BySeller includes inactive products so sellers can still see their own
// soft-deleted listings.
func (r *ProductRepo) BySeller(sellerID string, limit, offset int) ([]ProductRow, error) {
	out := []ProductRow{}
	err := r.db.Select(&out, `
		SELECT `+productCols+`, u.name AS seller_name, c.name AS category_name`+productJoin+`
		WHERE p.seller_id = ?
		ORDER BY datetime(p.created_at) DESC, p.id
		LIMIT ? OFFSET ?`, sellerID, limit, offset)
	return out, err
}

func (r *ProductRepo) CountBySeller(sellerID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE seller_id=?`, sellerID)
	return n, err
}

func (r *ProductRepo) Create(p *domain.Product) error {
	_, err := r.db.Exec(`
		INSERT INTO products(id,seller_id,category_id,name,description,price,images_json,stock,
		  craft_type,region,tags_json,materials_json,dimensions_json,weight_json)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`, p.ID, p.SellerID, p.CategoryID, p.Name, p.Description, p.Price, p.ImagesJSON, p.Stock,
		p.CraftType, p.Region, p.TagsJSON, p.MaterialsJSON, p.DimensionsJSON, p.WeightJSON)
	return err
}

func (r *ProductRepo) Update(p *domain.Product) error {
	_, err := r.db.Exec(`
		UPDATE products SET category_id=?, name=?, description=?, price=?, images_json=?, stock=?,
		  craft_type=?, region=?, tags_json=?, materials_json=?, dimensions_json=?, weight_json=?,
		  updated_at=CURRENT_TIMESTAMP
		WHERE id=?
	`, p.CategoryID, p.Name, p.Description, p.Price, p.ImagesJSON, p.Stock,
		p.CraftType, p.Region, p.TagsJSON, p.MaterialsJSON, p.DimensionsJSON, p.WeightJSON, p.ID)
	return err
}

// SoftDelete marks a product inactive; rows are never removed because carts
// and orders may still reference them.
func (r *ProductRepo) SoftDelete(id string) error {
	_, err := r.db.Exec(`UPDATE products SET is_active=0, updated_at=CURRENT_TIMESTAMP WHERE id=?`, id)
	return err
}

func (r *ProductRepo) SetFeatured(id string, featured bool) error {
	_, err := r.db.Exec(`UPDATE products SET is_featured=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, featured, id)
	return err
}

// CountInCategory counts every product referencing a category, active or
// not; soft-deleted products still pin the category row.
func (r *ProductRepo) CountInCategory(categoryID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE category_id=?`, categoryID)
	return n, err
}
