package models

import "time"

// Movement types
const (
	MovementRegister = "Cadastro"
	MovementWithdraw = "Baixa"
)

// Movement is one row of the stock ledger. ProductID keeps pointing at the
// product that moved even after the product row is removed.
type Movement struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	ProductID    uint      `json:"id" gorm:"index"`
	Type         string    `json:"tipo" gorm:"index"`
	Code         string    `json:"codigo,omitempty"`
	Name         string    `json:"nome"`
	PartNumber   string    `json:"pn,omitempty"`
	SerialNumber string    `json:"sn,omitempty"`
	Category     string    `json:"categoria"`
	Sector       string    `json:"setor"`
	WeightValue  *float64  `json:"peso_valor,omitempty"`
	WeightUnit   string    `json:"peso_tipo,omitempty"`
	Quantity     int       `json:"quantidade"`
	MinQuantity  *int      `json:"quantidade_minima,omitempty"`
	RecordedAt   time.Time `json:"data" gorm:"autoCreateTime;index"`
}
