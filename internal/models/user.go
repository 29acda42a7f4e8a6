package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password"` // never rendered
	BusinessName string    `db:"business_name"`
	Address      string    `db:"address"`
	Phone        string    `db:"phone"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Row returns the user keyed by column name, without the password hash.
func (u *User) Row() map[string]any {
	return map[string]any{
		"id":            u.ID,
		"name":          u.Name,
		"email":         u.Email,
		"business_name": u.BusinessName,
		"address":       u.Address,
		"phone":         u.Phone,
		"created_at":    u.CreatedAt,
		"updated_at":    u.UpdatedAt,
	}
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{Name: u.Name, Email: u.Email}
}

// ProfilePatch carries a profile update. Empty strings are treated as "not supplied".
type ProfilePatch struct {
	Name         string `json:"name"`
	BusinessName string `json:"businessName"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
}

// Fields returns the non-empty fields keyed by their API names.
func (p ProfilePatch) Fields() map[string]any {
	fields := map[string]any{}
	if p.Name != "" {
		fields["name"] = p.Name
	}
	if p.BusinessName != "" {
		fields["businessName"] = p.BusinessName
	}
	if p.Address != "" {
		fields["address"] = p.Address
	}
	if p.Phone != "" {
		fields["phone"] = p.Phone
	}
	return fields
}
