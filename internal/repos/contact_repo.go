package repos

import (
	"auzland/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ContactRepo struct{ DB *sqlx.DB }

func NewContactRepo(db *sqlx.DB) *ContactRepo { return &ContactRepo{DB: db} }

func (r *ContactRepo) Insert(m *domain.ContactMessage) error {
	_, err := r.DB.Exec(`INSERT INTO contact_messages(id,name,email,phone,subject,message)
	                     VALUES(?,?,?,?,?,?)`,
		m.ID, m.Name, m.Email, m.Phone, m.Subject, m.Message)
	return err
}

// Latest returns recent submissions for the admin view.
func (r *ContactRepo) Latest(limit int) ([]domain.ContactMessage, error) {
	var out []domain.ContactMessage
	err := r.DB.Select(&out, `SELECT id,name,email,phone,subject,message,created_at
	                          FROM contact_messages ORDER BY created_at DESC LIMIT ?`, limit)
	return out, err
}
