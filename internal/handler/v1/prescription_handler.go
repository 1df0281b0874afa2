package v1

import (
	"time"

	"github.com/clinicore/clinicore/internal/domain/prescription"
	"github.com/clinicore/clinicore/internal/service"
	"github.com/gin-gonic/gin"
)

type PrescriptionHandler struct {
	svc *service.PrescriptionService
}

func NewPrescriptionHandler(svc *service.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{svc: svc}
}

func (h *PrescriptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id/process", h.startProcessing)
	rg.PATCH("/:id/ready", h.markReady)
	rg.PATCH("/:id/dispense", h.dispense)
	rg.PATCH("/:id/cancel", h.cancel)
	rg.POST("/batch/process", h.batchProcess)
}

func (h *PrescriptionHandler) list(c *gin.Context) {
	claims := caller(c)

	q := &prescription.ListPrescriptionsQuery{
		PatientID: c.Query("patient_id"),
	}
	if raw := c.Query("status"); raw != "" {
		status, err := prescription.ParseStatus(raw)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		q.Status = &status
	}
	if raw := c.Query("date_from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			q.DateFrom = &t
		}
	}
	if raw := c.Query("date_to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			q.DateTo = &t
		}
	}

	items, err := h.svc.ListPrescriptions(c.Request.Context(), q, string(claims.Role), claims.PatientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, items)
}

func (h *PrescriptionHandler) get(c *gin.Context) {
	claims := caller(c)
	p, err := h.svc.GetPrescription(c.Request.Context(), c.Param("id"), string(claims.Role), claims.PatientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

type prescriptionItemRequest struct {
	MedicineID   string `json:"medicine_id" binding:"required"`
	Amount       int    `json:"amount" binding:"required"`
	Instructions string `json:"instructions"`
}

type createPrescriptionRequest struct {
	PatientID   string                    `json:"patient_id"`
	PatientName string                    `json:"patient_name"`
	DoctorName  string                    `json:"doctor_name"`
	Items       []prescriptionItemRequest `json:"items" binding:"required"`
	Status      string                    `json:"status"`
}

func (h *PrescriptionHandler) create(c *gin.Context) {
	var req createPrescriptionRequest
	if !bindJSON(c, &req) {
		return
	}

	var initial prescription.Status
	if req.Status != "" {
		parsed, err := prescription.ParseStatus(req.Status)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		initial = parsed
	}

	items := make([]prescription.CreateItemCommand, len(req.Items))
	for i, it := range req.Items {
		items[i] = prescription.CreateItemCommand{
			MedicineID:   it.MedicineID,
			Amount:       it.Amount,
			Instructions: it.Instructions,
		}
	}

	claims := caller(c)
	p, err := h.svc.CreatePrescription(c.Request.Context(), &prescription.CreatePrescriptionCommand{
		PatientID:     req.PatientID,
		PatientName:   req.PatientName,
		DoctorName:    req.DoctorName,
		Items:         items,
		InitialStatus: initial,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, p)
}

type processRequest struct {
	ProcessedBy string `json:"processed_by"`
}

func (h *PrescriptionHandler) startProcessing(c *gin.Context) {
	var req processRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := caller(c)
	p, err := h.svc.StartProcessing(c.Request.Context(), c.Param("id"), req.ProcessedBy, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

func (h *PrescriptionHandler) markReady(c *gin.Context) {
	claims := caller(c)
	p, err := h.svc.MarkReady(c.Request.Context(), c.Param("id"), claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

type dispenseRequest struct {
	DispensedBy string `json:"dispensed_by"`
}

func (h *PrescriptionHandler) dispense(c *gin.Context) {
	var req dispenseRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := caller(c)
	p, err := h.svc.Dispense(c.Request.Context(), c.Param("id"), req.DispensedBy, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *PrescriptionHandler) cancel(c *gin.Context) {
	var req cancelRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := caller(c)
	p, err := h.svc.Cancel(c.Request.Context(), c.Param("id"), req.Reason, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, p)
}

type batchProcessRequest struct {
	IDs         []string `json:"ids" binding:"required"`
	ProcessedBy string   `json:"processed_by"`
}

func (h *PrescriptionHandler) batchProcess(c *gin.Context) {
	var req batchProcessRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := caller(c)
	results, err := h.svc.BatchProcess(c.Request.Context(), req.IDs, req.ProcessedBy, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, results)
}
