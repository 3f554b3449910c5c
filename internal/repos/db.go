package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Baseline data so a fresh install is browsable (idempotent; safe to run
	// on every start).
	if err := seedAccounts(db); err != nil {
		return nil, err
	}
	if err := seedCatalog(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Accounts (customers, sellers, admins)
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  phone TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('customer','seller','admin')),
  business_name TEXT NOT NULL DEFAULT '',
  business_address TEXT NOT NULL DEFAULT '',
  profile_image TEXT NOT NULL DEFAULT '',
  is_approved INTEGER NOT NULL DEFAULT 1,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_nocase ON users(LOWER(email));
CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);

-- Addresses (embedded collection of an account)
CREATE TABLE IF NOT EXISTS addresses(
  id TEXT PRIMARY KEY,
  account_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  street TEXT NOT NULL,
  city TEXT NOT NULL,
  state TEXT NOT NULL,
  postal_code TEXT NOT NULL,
  country TEXT NOT NULL,
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_addresses_account ON addresses(account_id);

-- Categories (self-referential tree, soft-deletable)
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  image TEXT NOT NULL DEFAULT '',
  parent_id TEXT REFERENCES categories(id),
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_nocase ON categories(LOWER(name));

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL REFERENCES users(id),
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL CHECK (price >= 0),
  images_json TEXT NOT NULL DEFAULT '[]',
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  craft_type TEXT NOT NULL,
  region TEXT NOT NULL,
  tags_json TEXT NOT NULL DEFAULT '[]',
  materials_json TEXT NOT NULL DEFAULT '[]',
  dimensions_json TEXT NOT NULL DEFAULT '',
  weight_json TEXT NOT NULL DEFAULT '',
  rating NUMERIC NOT NULL DEFAULT 0,
  num_reviews INTEGER NOT NULL DEFAULT 0,
  is_featured INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category   ON products(category_id);
CREATE INDEX IF NOT EXISTS idx_products_seller     ON products(seller_id);
CREATE INDEX IF NOT EXISTS idx_products_name       ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_rating     ON products(rating);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Carts (one per account, created lazily)
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  account_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS cart_items(
  cart_id    TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  created_at TEXT,
  updated_at TEXT,
  PRIMARY KEY (cart_id, product_id)
);

-- Orders (read by the admin dashboard; written by the checkout service)
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  account_id TEXT REFERENCES users(id),
  total_price NUMERIC NOT NULL,
  is_paid INTEGER NOT NULL DEFAULT 0,
  paid_at TEXT,
  status TEXT NOT NULL DEFAULT 'PLACED',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

CREATE TABLE IF NOT EXISTS order_items(
  order_id  TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id),
  qty INTEGER NOT NULL,
  price NUMERIC NOT NULL,
  PRIMARY KEY (order_id, product_id)
);
`
	_, err := db.Exec(schema)
	return err
}

// seedAccounts ensures one admin, one approved demo seller and one customer
// exist (idempotent).
func seedAccounts(db *sqlx.DB) error {
	type acct struct {
		ID, Email, Name, Role, Hash   string
		BusinessName, BusinessAddress string
		Approved                      int
	}
	mk := func(id, email, name, role, raw, bizName, bizAddr string, approved int) acct {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return acct{ID: id, Email: email, Name: name, Role: role, Hash: string(h),
			BusinessName: bizName, BusinessAddress: bizAddr, Approved: approved}
	}

	accounts := []acct{
		mk("a-admin", "admin@craftbazaar.test", "Admin", "admin", "Passw0rd!", "", "", 1),
		mk("a-mira", "mira@craftbazaar.test", "Mira", "customer", "Passw0rd!", "", "", 1),
		mk("a-odisha-crafts", "studio@craftbazaar.test", "Odisha Craft Studio", "seller", "Passw0rd!",
			"Odisha Craft Studio", "Bhubaneswar, Odisha", 1),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, a := range accounts {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role,business_name,business_address,is_approved)
			VALUES(?,?,?,?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, a.ID, a.Email, a.Name, a.Hash, a.Role, a.BusinessName, a.BusinessAddress, a.Approved); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// seedCatalog inserts demo categories and products if missing (idempotent).
func seedCatalog(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo categories/products")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO categories(id,name,description) VALUES
	  ('cat-textiles','Handloom Textiles','Sambalpuri and ikat weaves'),
	  ('cat-pattachitra','Pattachitra','Traditional scroll paintings'),
	  ('cat-stone','Stone Carving','Khondalite and soapstone work'),
	  ('cat-metal','Dhokra Metalwork','Lost-wax brass casting')`)

	tx.MustExec(`INSERT INTO products(id,seller_id,category_id,name,description,price,images_json,stock,craft_type,region,tags_json,rating,num_reviews,is_featured) VALUES
	  ('p-saree-001','a-odisha-crafts','cat-textiles','Sambalpuri Silk Saree','Handwoven double-ikat silk saree',249.00,'["products/p-saree-001/main.jpg"]',6,'handloom','Sambalpur','["saree","ikat","silk"]',4.8,23,1),
	  ('p-patta-001','a-odisha-crafts','cat-pattachitra','Jagannath Pattachitra Scroll','Natural-dye scroll painting on treated cloth',89.00,'["products/p-patta-001/main.jpg"]',12,'painting','Raghurajpur','["scroll","folk-art"]',4.6,11,1),
	  ('p-stone-001','a-odisha-crafts','cat-stone','Konark Wheel Replica','Hand-carved khondalite stone wheel',140.00,'["products/p-stone-001/main.jpg"]',3,'stone-carving','Puri','["konark","decor"]',4.9,7,0)`)

	return tx.Commit()
}
