package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tecnotooling/estoque/backend/database"
	"github.com/tecnotooling/estoque/backend/models"

	"gorm.io/gorm"
)

func writeStoreError(w http.ResponseWriter, context string, err error) {
	slog.Error(context, "source", "products", "error", err.Error())
	writeJSON(w, http.StatusInternalServerError, map[string]string{"erro": "Erro no banco"})
}

func ListProducts(w http.ResponseWriter, r *http.Request) {
	var products []models.Product
	if err := database.DB.Find(&products).Error; err != nil {
		writeStoreError(w, "failed to list products", err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func SearchProducts(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if len(term) < 2 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"erro": "Termo de busca muito curto"})
		return
	}

	type match struct {
		ID         uint   `json:"id"`
		Name       string `json:"nome"`
		Code       string `json:"codigo"`
		PartNumber string `json:"pn"`
		Quantity   int    `json:"quantidade"`
	}

	like := "%" + term + "%"
	var rows []match
	err := database.DB.Model(&models.Product{}).
		Select("id, name, code, part_number, quantity").
		Where("id = ? OR name LIKE ? OR part_number LIKE ? OR code LIKE ?", term, like, like, like).
		Limit(10).
		Scan(&rows).Error
	if err != nil {
		writeStoreError(w, "product search failed", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

type registerProductRequest struct {
	Code         string   `json:"codigo"`
	Name         string   `json:"nome"`
	PartNumber   string   `json:"pn"`
	SerialNumber string   `json:"sn"`
	Category     string   `json:"categoria"`
	Sector       string   `json:"setor"`
	Quantity     *int     `json:"quantidade"`
	WeightValue  *float64 `json:"peso_valor"`
	WeightUnit   string   `json:"peso_tipo"`
	MinQuantity  *int     `json:"qtyMin"`
}

// RegisterProduct adds stock. An existing product (matched by name or part
// number) has its quantity topped up; otherwise a new product row is
// created. Either way the ledger gets a "Cadastro" entry.
func RegisterProduct(w http.ResponseWriter, r *http.Request) {
	var req registerProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.Name == "" || req.Category == "" || req.Sector == "" || req.Quantity == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"erro": "Dados inválidos"})
		return
	}

	query := database.DB.Where("name = ?", req.Name)
	if req.PartNumber != "" {
		query = database.DB.Where("name = ? OR part_number = ?", req.Name, req.PartNumber)
	}

	var existing []models.Product
	if err := query.Find(&existing).Error; err != nil {
		writeStoreError(w, "product lookup failed", err)
		return
	}

	if len(existing) > 0 {
		product := existing[0]
		// Prefer an exact part-number match when several rows came back.
		if req.PartNumber != "" && len(existing) > 1 {
			for _, p := range existing {
				if p.PartNumber == req.PartNumber {
					product = p
					break
				}
			}
		}

		minQty := product.MinQuantity
		if req.MinQuantity != nil {
			minQty = req.MinQuantity
		}

		err := database.DB.Model(&models.Product{}).Where("id = ?", product.ID).
			Updates(map[string]any{
				"quantity":      gorm.Expr("quantity + ?", *req.Quantity),
				"category":      req.Category,
				"sector":        req.Sector,
				"part_number":   req.PartNumber,
				"serial_number": req.SerialNumber,
				"weight_value":  req.WeightValue,
				"weight_unit":   req.WeightUnit,
				"code":          req.Code,
				"min_quantity":  minQty,
			}).Error
		if err != nil {
			writeStoreError(w, "product update failed", err)
			return
		}

		recordMovement(product.ID, models.MovementRegister, req, *req.Quantity, minQty)
		writeJSON(w, http.StatusOK, map[string]string{"mensagem": "Produto atualizado (cadastro) com sucesso."})
		return
	}

	product := models.Product{
		Code:         req.Code,
		Name:         req.Name,
		PartNumber:   req.PartNumber,
		SerialNumber: req.SerialNumber,
		Category:     req.Category,
		Sector:       req.Sector,
		Quantity:     *req.Quantity,
		WeightValue:  req.WeightValue,
		WeightUnit:   req.WeightUnit,
		MinQuantity:  req.MinQuantity,
	}
	if err := database.DB.Create(&product).Error; err != nil {
		writeStoreError(w, "product insert failed", err)
		return
	}

	recordMovement(product.ID, models.MovementRegister, req, *req.Quantity, req.MinQuantity)
	writeJSON(w, http.StatusOK, map[string]string{"mensagem": "Produto cadastrado com sucesso."})
}

func recordMovement(productID uint, movementType string, req registerProductRequest, quantity int, minQty *int) {
	entry := models.Movement{
		ProductID:    productID,
		Type:         movementType,
		Code:         req.Code,
		Name:         req.Name,
		PartNumber:   req.PartNumber,
		SerialNumber: req.SerialNumber,
		Category:     req.Category,
		Sector:       req.Sector,
		WeightValue:  req.WeightValue,
		WeightUnit:   req.WeightUnit,
		Quantity:     quantity,
		MinQuantity:  minQty,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		slog.Warn("failed to record movement", "source", "products", "product_id", productID, "error", err.Error())
	}
}

// WithdrawProduct removes stock against a destination. The decrement is a
// single conditional statement, so concurrent withdrawals cannot drive the
// quantity negative.
func WithdrawProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"nome"`
		Quantity *int   `json:"quantidade"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Quantity == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"erro": "Dados inválidos"})
		return
	}

	var product models.Product
	if err := database.DB.Where("name = ?", req.Name).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"erro": "Produto não encontrado"})
			return
		}
		writeStoreError(w, "product lookup failed", err)
		return
	}

	res := database.DB.Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", product.ID, *req.Quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", *req.Quantity))
	if res.Error != nil {
		writeStoreError(w, "withdraw failed", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"erro": "Estoque insuficiente"})
		return
	}

	entry := models.Movement{
		ProductID:    product.ID,
		Type:         models.MovementWithdraw,
		Name:         product.Name,
		PartNumber:   product.PartNumber,
		SerialNumber: product.SerialNumber,
		Category:     product.Category,
		Sector:       product.Sector,
		WeightValue:  product.WeightValue,
		WeightUnit:   product.WeightUnit,
		Quantity:     *req.Quantity,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		slog.Warn("failed to record movement", "source", "products", "product_id", product.ID, "error", err.Error())
	}

	writeJSON(w, http.StatusOK, map[string]string{"mensagem": "Baixa registrada com sucesso."})
}

func GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"erro": "Dados inválidos"})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"erro": "Produto não encontrado"})
			return
		}
		writeStoreError(w, "product lookup failed", err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// RemoveProduct deletes the product outright and records the remaining
// quantity as a withdrawal in the ledger.
func RemoveProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"erro": "Dados inválidos"})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"erro": "Produto não encontrado"})
			return
		}
		writeStoreError(w, "product lookup failed", err)
		return
	}

	if err := database.DB.Delete(&models.Product{}, product.ID).Error; err != nil {
		writeStoreError(w, "product delete failed", err)
		return
	}

	entry := models.Movement{
		ProductID:    product.ID,
		Type:         models.MovementWithdraw,
		Name:         product.Name,
		PartNumber:   product.PartNumber,
		SerialNumber: product.SerialNumber,
		Category:     product.Category,
		Sector:       product.Sector,
		WeightValue:  product.WeightValue,
		WeightUnit:   product.WeightUnit,
		Quantity:     product.Quantity,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		slog.Warn("failed to record movement", "source", "products", "product_id", product.ID, "error", err.Error())
	}

	writeJSON(w, http.StatusOK, map[string]string{"mensagem": "Produto removido com sucesso."})
}

func ListMovements(w http.ResponseWriter, r *http.Request) {
	var movements []models.Movement
	if err := database.DB.Order("recorded_at DESC").Find(&movements).Error; err != nil {
		writeStoreError(w, "failed to list movements", err)
		return
	}
	writeJSON(w, http.StatusOK, movements)
}
