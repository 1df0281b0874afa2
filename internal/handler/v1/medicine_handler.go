package v1

import (
	"net/http"

	"github.com/clinicore/clinicore/internal/domain/medicine"
	"github.com/clinicore/clinicore/internal/service"
	"github.com/gin-gonic/gin"
)

type MedicineHandler struct {
	svc *service.MedicineService
}

func NewMedicineHandler(svc *service.MedicineService) *MedicineHandler {
	return &MedicineHandler{svc: svc}
}

func (h *MedicineHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.PATCH("/:id/stock", h.adjustStock)
	rg.DELETE("/:id", h.delete)
}

// medicineView augments the entity with the computed low-stock flag.
type medicineView struct {
	*medicine.Medicine
	LowStock bool `json:"low_stock"`
}

func viewOf(m *medicine.Medicine) medicineView {
	return medicineView{Medicine: m, LowStock: m.LowStock()}
}

func (h *MedicineHandler) list(c *gin.Context) {
	q := &medicine.ListMedicinesQuery{
		Search:       c.Query("search"),
		Category:     c.Query("category"),
		LowStockOnly: c.Query("low_stock") == "true",
	}

	items, err := h.svc.ListMedicines(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	views := make([]medicineView, len(items))
	for i, m := range items {
		views[i] = viewOf(m)
	}
	respondOK(c, views)
}

func (h *MedicineHandler) get(c *gin.Context) {
	m, err := h.svc.GetMedicine(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewOf(m))
}

type createMedicineRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Stock    int     `json:"stock"`
	MinStock int     `json:"min_stock"`
	Unit     string  `json:"unit"`
	Price    float64 `json:"price"`
}

func (h *MedicineHandler) create(c *gin.Context) {
	var req createMedicineRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := caller(c)
	m, err := h.svc.CreateMedicine(c.Request.Context(), &medicine.CreateMedicineCommand{
		Name:     req.Name,
		Category: req.Category,
		Stock:    req.Stock,
		MinStock: req.MinStock,
		Unit:     req.Unit,
		Price:    req.Price,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, viewOf(m))
}

type updateMedicineRequest struct {
	Name     *string  `json:"name"`
	Category *string  `json:"category"`
	MinStock *int     `json:"min_stock"`
	Unit     *string  `json:"unit"`
	Price    *float64 `json:"price"`
}

func (h *MedicineHandler) update(c *gin.Context) {
	var req updateMedicineRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := caller(c)
	m, err := h.svc.UpdateMedicine(c.Request.Context(), c.Param("id"), &medicine.UpdateMedicineCommand{
		Name:     req.Name,
		Category: req.Category,
		MinStock: req.MinStock,
		Unit:     req.Unit,
		Price:    req.Price,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewOf(m))
}

type adjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func (h *MedicineHandler) adjustStock(c *gin.Context) {
	var req adjustStockRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := caller(c)
	m, err := h.svc.AdjustStock(c.Request.Context(), c.Param("id"), req.Delta, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, viewOf(m))
}

func (h *MedicineHandler) delete(c *gin.Context) {
	claims := caller(c)
	if err := h.svc.DeleteMedicine(c.Request.Context(), c.Param("id"), claims.UserID, string(claims.Role), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
