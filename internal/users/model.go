package users

import "time"

// User is the persisted credential record. The password hash never leaves
// this package except through the stored column.
type User struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Email        string    `gorm:"column:email;size:320;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;size:255;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime;not null"`
}

// TableName exposes the table backing user credentials.
func (User) TableName() string {
	return "users"
}

// PublicUser is the subset of a User record safe to return to clients.
type PublicUser struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Public projects the record into its client-facing view.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
