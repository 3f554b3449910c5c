package repos

import (
	"craftbazaar/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

const categoryCols = `id, name, description, image, COALESCE(parent_id,'') AS parent_id,
  is_active, created_at, COALESCE(updated_at,'') AS updated_at`

func (r *CategoryRepo) ListActive() ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.Select(&out, `SELECT `+categoryCols+` FROM categories WHERE is_active=1 ORDER BY name`)
	return out, err
}

func (r *CategoryRepo) Get(id string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT `+categoryCols+` FROM categories WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) NameTaken(name string) (bool, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM categories WHERE LOWER(name)=LOWER(?)`, name); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *CategoryRepo) Create(c *domain.Category) error {
	parent := any(nil)
	if c.ParentID != "" {
		parent = c.ParentID
	}
	_, err := r.db.Exec(`
		INSERT INTO categories(id,name,description,image,parent_id)
		VALUES(?,?,?,?,?)
	`, c.ID, c.Name, c.Description, c.Image, parent)
	return err
}

func (r *CategoryRepo) Update(c *domain.Category) error {
	parent := any(nil)
	if c.ParentID != "" {
		parent = c.ParentID
	}
	_, err := r.db.Exec(`
		UPDATE categories SET name=?, description=?, image=?, parent_id=?, is_active=?, updated_at=CURRENT_TIMESTAMP
		WHERE id=?
	`, c.Name, c.Description, c.Image, parent, c.IsActive, c.ID)
	return err
}

func (r *CategoryRepo) MarkInactive(id string) error {
	_, err := r.db.Exec(`UPDATE categories SET is_active=0, updated_at=CURRENT_TIMESTAMP WHERE id=?`, id)
	return err
}

// Delete physically removes a category; callers must ensure no products
// reference it.
func (r *CategoryRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM categories WHERE id=?`, id)
	return err
}
