package domain

const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

// Account is polymorphic over role; business fields are meaningful only for
// sellers, addresses only for customers. The password hash never serializes.
type Account struct {
	ID              string `db:"id" json:"id"`
	Email           string `db:"email" json:"email"`
	Name            string `db:"name" json:"name"`
	Phone           string `db:"phone" json:"phone"`
	Hash            string `db:"password_hash" json:"-"`
	Role            string `db:"role" json:"role"`
	BusinessName    string `db:"business_name" json:"businessName,omitempty"`
	BusinessAddress string `db:"business_address" json:"businessAddress,omitempty"`
	ProfileImage    string `db:"profile_image" json:"profileImage,omitempty"`
	IsApproved      bool   `db:"is_approved" json:"isApproved"`
	IsActive        bool   `db:"is_active" json:"isActive"`
	CreatedAt       string `db:"created_at" json:"createdAt"`
	UpdatedAt       string `db:"updated_at" json:"updatedAt,omitempty"`
}

type Address struct {
	ID         string `db:"id" json:"id"`
	AccountID  string `db:"account_id" json:"-"`
	Street     string `db:"street" json:"street"`
	City       string `db:"city" json:"city"`
	State      string `db:"state" json:"state"`
	PostalCode string `db:"postal_code" json:"postalCode"`
	Country    string `db:"country" json:"country"`
	IsDefault  bool   `db:"is_default" json:"isDefault"`
	CreatedAt  string `db:"created_at" json:"createdAt"`
}
