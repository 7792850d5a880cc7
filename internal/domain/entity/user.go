package entity

import "time"

// Roles de usuario del back-office.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cajero"
	RoleBarista = "barista"
)

// User representa un usuario del sistema (login del back-office).
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string // admin | cajero | barista
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
