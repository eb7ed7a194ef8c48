package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleRecepcion = "recepcion"
	RoleDoctor    = "doctor"
)

// User representa un miembro del personal de la clínica.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, recepcion, doctor
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
