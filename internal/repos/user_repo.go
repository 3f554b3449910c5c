package repos

import (
	"craftbazaar/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const accountCols = `id,email,name,phone,password_hash,role,business_name,business_address,profile_image,
  is_approved,is_active,created_at,COALESCE(updated_at,'') AS updated_at`

func (r *UserRepo) ByEmail(email string) (*domain.Account, error) {
	var a domain.Account
	err := r.DB.Get(&a, `SELECT `+accountCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *UserRepo) ByID(id string) (*domain.Account, error) {
	var a domain.Account
	err := r.DB.Get(&a, `SELECT `+accountCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *UserRepo) EmailTaken(email string) (bool, error) {
	var n int
	if err := r.DB.Get(&n, `SELECT COUNT(*) FROM users WHERE LOWER(email)=LOWER(?)`, email); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepo) Create(a *domain.Account) error {
	_, err := r.DB.Exec(`
		INSERT INTO users(id,email,name,phone,password_hash,role,business_name,business_address,is_approved,is_active)
		VALUES(?,?,?,?,?,?,?,?,?,1)
	`, a.ID, a.Email, a.Name, a.Phone, a.Hash, a.Role, a.BusinessName, a.BusinessAddress, a.IsApproved)
	return err
}

func (r *UserRepo) UpdateProfile(a *domain.Account) error {
	_, err := r.DB.Exec(`
		UPDATE users SET name=?, email=?, phone=?, profile_image=?, password_hash=?, updated_at=CURRENT_TIMESTAMP
		WHERE id=?
	`, a.Name, a.Email, a.Phone, a.ProfileImage, a.Hash, a.ID)
	return err
}

// AdminUpdate lets an admin edit identity, role and both status flags.
func (r *UserRepo) AdminUpdate(a *domain.Account) error {
	_, err := r.DB.Exec(`
		UPDATE users SET name=?, email=?, phone=?, role=?, is_approved=?, is_active=?, updated_at=CURRENT_TIMESTAMP
		WHERE id=?
	`, a.Name, a.Email, a.Phone, a.Role, a.IsApproved, a.IsActive, a.ID)
	return err
}

// Deactivate is the soft delete for accounts.
func (r *UserRepo) Deactivate(id string) error {
	_, err := r.DB.Exec(`UPDATE users SET is_active=0, updated_at=CURRENT_TIMESTAMP WHERE id=?`, id)
	return err
}

func (r *UserRepo) SetApproval(id string, approved bool) error {
	_, err := r.DB.Exec(`UPDATE users SET is_approved=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, approved, id)
	return err
}

func (r *UserRepo) List(limit, offset int) ([]domain.Account, error) {
	var out []domain.Account
	err := r.DB.Select(&out, `
		SELECT `+accountCols+` FROM users
		ORDER BY datetime(created_at) DESC, id
		LIMIT ? OFFSET ?
	`, limit, offset)
	return out, err
}

func (r *UserRepo) Count() (int, error) {
	var n int
	err := r.DB.Get(&n, `SELECT COUNT(*) FROM users`)
	return n, err
}

func (r *UserRepo) CountByRole(role string) (int, error) {
	var n int
	err := r.DB.Get(&n, `SELECT COUNT(*) FROM users WHERE role=?`, role)
	return n, err
}

func (r *UserRepo) PendingSellers() ([]domain.Account, error) {
	var out []domain.Account
	err := r.DB.Select(&out, `
		SELECT `+accountCols+` FROM users
		WHERE role='seller' AND is_approved=0 AND is_active=1
		ORDER BY datetime(created_at)
	`)
	return out, err
}

// ---------- Addresses ----------

func (r *UserRepo) Addresses(accountID string) ([]domain.Address, error) {
	out := []domain.Address{}
	err := r.DB.Select(&out, `
		SELECT id,account_id,street,city,state,postal_code,country,is_default,created_at
		FROM addresses WHERE account_id=? ORDER BY datetime(created_at), id
	`, accountID)
	return out, err
}

func (r *UserRepo) AddressByID(accountID, addressID string) (*domain.Address, error) {
	var a domain.Address
	err := r.DB.Get(&a, `
		SELECT id,account_id,street,city,state,postal_code,country,is_default,created_at
		FROM addresses WHERE account_id=? AND id=?
	`, accountID, addressID)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// AddAddress inserts an address. Setting a new default clears any previous
// default in the same transaction so at most one row stays default.
func (r *UserRepo) AddAddress(a *domain.Address) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if a.IsDefault {
		if _, err := tx.Exec(`UPDATE addresses SET is_default=0 WHERE account_id=?`, a.AccountID); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`
		INSERT INTO addresses(id,account_id,street,city,state,postal_code,country,is_default)
		VALUES(?,?,?,?,?,?,?,?)
	`, a.ID, a.AccountID, a.Street, a.City, a.State, a.PostalCode, a.Country, a.IsDefault); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateAddress overwrites an address under the same single-default rule.
func (r *UserRepo) UpdateAddress(a *domain.Address) error {
	tx, err := r.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if a.IsDefault {
		if _, err := tx.Exec(`UPDATE addresses SET is_default=0 WHERE account_id=?`, a.AccountID); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`
		UPDATE addresses SET street=?, city=?, state=?, postal_code=?, country=?, is_default=?
		WHERE account_id=? AND id=?
	`, a.Street, a.City, a.State, a.PostalCode, a.Country, a.IsDefault, a.AccountID, a.ID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *UserRepo) DeleteAddress(accountID, addressID string) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM addresses WHERE account_id=? AND id=?`, accountID, addressID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
