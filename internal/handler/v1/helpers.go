package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/clinicore/clinicore/internal/domain"
	"github.com/clinicore/clinicore/internal/domain/medicine"
	"github.com/clinicore/clinicore/internal/domain/patient"
	"github.com/clinicore/clinicore/internal/domain/prescription"
	"github.com/clinicore/clinicore/internal/domain/record"
	"github.com/clinicore/clinicore/internal/domain/staff"
	"github.com/clinicore/clinicore/internal/domain/visit"
	"github.com/clinicore/clinicore/internal/service"
	"github.com/gin-gonic/gin"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	var stockErr *prescription.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: stockErr.Error(),
			Code:  "INSUFFICIENT_STOCK",
			Details: map[string]string{
				"medicine_id": stockErr.MedicineID,
				"requested":   strconv.Itoa(stockErr.Requested),
				"available":   strconv.Itoa(stockErr.Available),
			},
		})
		return
	}

	switch {
	case errors.Is(err, medicine.ErrMedicineNotFound),
		errors.Is(err, prescription.ErrPrescriptionNotFound),
		errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, visit.ErrVisitNotFound),
		errors.Is(err, record.ErrRecordNotFound),
		errors.Is(err, staff.ErrStaffNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, medicine.ErrMedicineInUse),
		errors.Is(err, visit.ErrAlreadyQueued),
		errors.Is(err, staff.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, prescription.ErrInvalidStatus),
		errors.Is(err, prescription.ErrInvalidStatusTransition),
		errors.Is(err, prescription.ErrNoItems),
		errors.Is(err, prescription.ErrInvalidAmount),
		errors.Is(err, visit.ErrInvalidStatusTransition),
		errors.Is(err, patient.ErrPatientInactive),
		errors.Is(err, patient.ErrInvalidGender),
		errors.Is(err, patient.ErrInvalidDateOfBirth),
		errors.Is(err, record.ErrDiagnosisMissing),
		errors.Is(err, staff.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})

	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})

	case errors.Is(err, service.ErrAccountInactive):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "account is inactive"})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}
	return true
}

// caller returns the authenticated claims set by the auth middleware.
func caller(c *gin.Context) *domain.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return &domain.Claims{}
	}
	claims, ok := v.(*domain.Claims)
	if !ok {
		return &domain.Claims{}
	}
	return claims
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}
