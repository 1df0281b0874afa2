package v1

import (
	"net/http"
	"time"

	"github.com/clinicore/clinicore/internal/domain/patient"
	"github.com/clinicore/clinicore/internal/service"
	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	svc *service.PatientService
}

func NewPatientHandler(svc *service.PatientService) *PatientHandler {
	return &PatientHandler{svc: svc}
}

func (h *PatientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.register)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.deactivate)
}

// patientView adds the computed age to the entity.
type patientView struct {
	*patient.Patient
	Age int `json:"age"`
}

func patientViewOf(p *patient.Patient) patientView {
	return patientView{Patient: p, Age: p.Age()}
}

func (h *PatientHandler) list(c *gin.Context) {
	claims := caller(c)

	q := &patient.ListPatientsQuery{Search: c.Query("search")}
	if raw := c.Query("status"); raw != "" {
		status := patient.Status(raw)
		q.Status = &status
	}

	items, err := h.svc.ListPatients(c.Request.Context(), q, string(claims.Role))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	views := make([]patientView, len(items))
	for i, p := range items {
		views[i] = patientViewOf(p)
	}
	respondOK(c, views)
}

func (h *PatientHandler) get(c *gin.Context) {
	claims := caller(c)
	p, err := h.svc.GetPatient(c.Request.Context(), c.Param("id"), claims.UserID, string(claims.Role), claims.PatientID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, patientViewOf(p))
}

type registerPatientRequest struct {
	Name        string   `json:"name" binding:"required"`
	DateOfBirth string   `json:"date_of_birth" binding:"required"`
	Gender      string   `json:"gender" binding:"required"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	Address     string   `json:"address"`
	Allergies   []string `json:"allergies"`
	BloodType   string   `json:"blood_type"`
	Notes       string   `json:"notes"`
}

func (h *PatientHandler) register(c *gin.Context) {
	var req registerPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "date_of_birth must be formatted as YYYY-MM-DD"})
		return
	}

	claims := caller(c)
	p, err := h.svc.RegisterPatient(c.Request.Context(), &patient.CreatePatientCommand{
		Name:        req.Name,
		DateOfBirth: dob,
		Gender:      patient.Gender(req.Gender),
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		Allergies:   req.Allergies,
		BloodType:   req.BloodType,
		Notes:       req.Notes,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, patientViewOf(p))
}

type updatePatientRequest struct {
	Name      *string         `json:"name"`
	Gender    *patient.Gender `json:"gender"`
	Phone     *string         `json:"phone"`
	Email     *string         `json:"email"`
	Address   *string         `json:"address"`
	Allergies *[]string       `json:"allergies"`
	BloodType *string         `json:"blood_type"`
	Notes     *string         `json:"notes"`
}

func (h *PatientHandler) update(c *gin.Context) {
	var req updatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := caller(c)
	p, err := h.svc.UpdatePatient(c.Request.Context(), c.Param("id"), &patient.UpdatePatientCommand{
		Name:      req.Name,
		Gender:    req.Gender,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		Allergies: req.Allergies,
		BloodType: req.BloodType,
		Notes:     req.Notes,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, patientViewOf(p))
}

func (h *PatientHandler) deactivate(c *gin.Context) {
	claims := caller(c)
	if err := h.svc.DeactivatePatient(c.Request.Context(), c.Param("id"), claims.UserID, string(claims.Role), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
