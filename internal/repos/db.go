package repos

import (
	"log"

	"github.com/google/uuid"
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
	// Seed the listings blob and accounts if the DB is empty (idempotent;
	// safe to run every start).
	if err := seedListingsIfEmpty(db); err != nil {
		return nil, err
	}
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- The whole listings collection is one CSV blob guarded by a version token.
-- name is the blob key ('listings'); writes go through compare-and-swap on
-- version_id, never through timestamps.
CREATE TABLE IF NOT EXISTS blobs(
  name TEXT PRIMARY KEY,
  body TEXT NOT NULL,
  version_id TEXT NOT NULL,
  updated_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Dashboard accounts & sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('EDITOR','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Contact-form submissions, kept for audit alongside the email relay.
CREATE TABLE IF NOT EXISTS contact_messages(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT NOT NULL,
  subject TEXT NOT NULL,
  message TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_contact_created ON contact_messages(created_at);
`
	_, err := db.Exec(schema)
	return err
}

const seedCSV = `id,propertyType,lot,address,suburb,availability,frontage,landSize,buildSize,bed,bath,garage,registrationConstructionStatus,price,media,remark,description,updated_at,propertyCustomerVisibility,priceCustomerVisibility
p-1001,House,Lot 12,2 McAlister Road,Galston,Available,15,700,240,4,2,2,Registered,"$1,250,000","[""media/p-1001/front.jpg""]",,Family home on a quiet street,2026-08-01,1,1
p-1002,Townhouse,Lot 3,3-9 Nimbus Close,Kellyville,Available,9,280,180,3,2,2,Completed,"$950,000",,,Low-maintenance corner townhouse,2026-08-10,1,1
p-1003,Home & Land,Lot 44,44 Peebles Road,Arcadia,Under Offer,18,1200,,4,3,3,Under Construction,"$2,100,000",,,Build underway on acreage,2026-08-15,1,0
`

func seedListingsIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM blobs WHERE name='listings'`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo listings blob")
	_, err := db.Exec(`INSERT INTO blobs(name, body, version_id) VALUES('listings', ?, ?)`,
		seedCSV, uuid.NewString())
	return err
}

// seedUsers ensures one EDITOR and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-agent", "agent@auzlandre.test", "Agent", "EDITOR", "Passw0rd!"),
		mk("u-admin", "admin@auzlandre.test", "Admin", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
