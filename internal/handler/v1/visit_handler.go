package v1

import (
	"time"

	"github.com/clinicore/clinicore/internal/domain/visit"
	"github.com/clinicore/clinicore/internal/service"
	"github.com/gin-gonic/gin"
)

type VisitHandler struct {
	svc *service.VisitService
}

func NewVisitHandler(svc *service.VisitService) *VisitHandler {
	return &VisitHandler{svc: svc}
}

func (h *VisitHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("/checkin", h.checkIn)
	rg.PATCH("/:id/start", h.startExam)
	rg.PATCH("/:id/finish", h.finishExam)
	rg.PATCH("/:id/skip", h.skip)
}

func (h *VisitHandler) list(c *gin.Context) {
	claims := caller(c)

	q := &visit.ListVisitsQuery{PatientID: c.Query("patient_id")}
	if raw := c.Query("status"); raw != "" {
		status := visit.Status(raw)
		q.Status = &status
	}
	if raw := c.Query("date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			q.Date = &t
		}
	}

	items, err := h.svc.ListVisits(c.Request.Context(), q, string(claims.Role), claims.PatientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, items)
}

type checkInRequest struct {
	PatientID string `json:"patient_id" binding:"required"`
	Complaint string `json:"complaint"`
}

func (h *VisitHandler) checkIn(c *gin.Context) {
	var req checkInRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := caller(c)
	v, err := h.svc.CheckIn(c.Request.Context(), &visit.CheckInCommand{
		PatientID: req.PatientID,
		Complaint: req.Complaint,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, v)
}

type startExamRequest struct {
	DoctorName string `json:"doctor_name"`
}

func (h *VisitHandler) startExam(c *gin.Context) {
	var req startExamRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := caller(c)
	v, err := h.svc.StartExam(c.Request.Context(), c.Param("id"), req.DoctorName, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, v)
}

func (h *VisitHandler) finishExam(c *gin.Context) {
	claims := caller(c)
	v, err := h.svc.FinishExam(c.Request.Context(), c.Param("id"), claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, v)
}

func (h *VisitHandler) skip(c *gin.Context) {
	claims := caller(c)
	v, err := h.svc.Skip(c.Request.Context(), c.Param("id"), claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, v)
}
