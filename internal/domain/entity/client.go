package entity

import "time"

// Client representa un paciente/cliente de la clínica. El expediente completo
// vive en otro módulo; aquí solo se guarda lo necesario para facturar y buscar.
type Client struct {
	ID         string
	Name       string
	SearchName string // nombre normalizado (minúsculas, sin tildes) para búsqueda
	Email      string
	Phone      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
