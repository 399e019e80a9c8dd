package models

import "gorm.io/gorm"

type Product struct {
	gorm.Model
	Code         string   `json:"codigo"`
	Name         string   `json:"nome"`
	PartNumber   string   `json:"pn"`
	SerialNumber string   `json:"sn"`
	Category     string   `json:"categoria"`
	Sector       string   `json:"setor"`
	Quantity     int      `json:"quantidade"`
	WeightValue  *float64 `json:"peso_valor,omitempty"`
	WeightUnit   string   `json:"peso_tipo,omitempty"`
	MinQuantity  *int     `json:"quantidade_minima,omitempty"`
}
