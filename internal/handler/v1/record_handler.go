package v1

import (
	"time"

	"github.com/clinicore/clinicore/internal/domain/record"
	"github.com/clinicore/clinicore/internal/service"
	"github.com/gin-gonic/gin"
)

type RecordHandler struct {
	svc *service.RecordService
}

func NewRecordHandler(svc *service.RecordService) *RecordHandler {
	return &RecordHandler{svc: svc}
}

func (h *RecordHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:id", h.get)
}

func (h *RecordHandler) list(c *gin.Context) {
	claims := caller(c)

	q := &record.ListRecordsQuery{PatientID: c.Query("patient_id")}
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

	items, err := h.svc.ListRecords(c.Request.Context(), q, string(claims.Role), claims.PatientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, items)
}

func (h *RecordHandler) get(c *gin.Context) {
	claims := caller(c)
	r, err := h.svc.GetRecord(c.Request.Context(), c.Param("id"), claims.UserID, string(claims.Role), claims.PatientID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, r)
}

type createRecordRequest struct {
	PatientID  string         `json:"patient_id" binding:"required"`
	DoctorName string         `json:"doctor_name"`
	VisitID    *string        `json:"visit_id"`
	Diagnosis  string         `json:"diagnosis" binding:"required"`
	Treatment  string         `json:"treatment"`
	Vitals     *record.Vitals `json:"vitals"`
	Notes      string         `json:"notes"`
}

func (h *RecordHandler) create(c *gin.Context) {
	var req createRecordRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := caller(c)
	r, err := h.svc.CreateRecord(c.Request.Context(), &record.CreateRecordCommand{
		PatientID:  req.PatientID,
		DoctorName: req.DoctorName,
		VisitID:    req.VisitID,
		Diagnosis:  req.Diagnosis,
		Treatment:  req.Treatment,
		Vitals:     req.Vitals,
		Notes:      req.Notes,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, r)
}
