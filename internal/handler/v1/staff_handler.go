package v1

import (
	"net/http"

	"github.com/clinicore/clinicore/internal/domain"
	"github.com/clinicore/clinicore/internal/domain/staff"
	"github.com/clinicore/clinicore/internal/service"
	"github.com/gin-gonic/gin"
)

type StaffHandler struct {
	svc *service.StaffService
}

func NewStaffHandler(svc *service.StaffService) *StaffHandler {
	return &StaffHandler{svc: svc}
}

func (h *StaffHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("", h.create)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.deactivate)
}

func (h *StaffHandler) list(c *gin.Context) {
	claims := caller(c)

	q := &staff.ListStaffQuery{ActiveOnly: c.Query("active") == "true"}
	if raw := c.Query("role"); raw != "" {
		role := domain.Role(raw)
		q.Role = &role
	}

	items, err := h.svc.ListStaff(c.Request.Context(), q, string(claims.Role))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, items)
}

func (h *StaffHandler) get(c *gin.Context) {
	claims := caller(c)
	m, err := h.svc.GetStaff(c.Request.Context(), c.Param("id"), string(claims.Role))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, m)
}

type createStaffRequest struct {
	Name      string `json:"name" binding:"required"`
	Role      string `json:"role" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
	Password  string `json:"password" binding:"required"`
}

func (h *StaffHandler) create(c *gin.Context) {
	var req createStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := caller(c)
	m, err := h.svc.CreateStaff(c.Request.Context(), &staff.CreateStaffCommand{
		Name:      req.Name,
		Role:      domain.Role(req.Role),
		Email:     req.Email,
		Phone:     req.Phone,
		Specialty: req.Specialty,
		Password:  req.Password,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, m)
}

type updateStaffRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	Specialty *string `json:"specialty"`
}

func (h *StaffHandler) update(c *gin.Context) {
	var req updateStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	claims := caller(c)
	m, err := h.svc.UpdateStaff(c.Request.Context(), c.Param("id"), &staff.UpdateStaffCommand{
		Name:      req.Name,
		Phone:     req.Phone,
		Specialty: req.Specialty,
	}, claims.UserID, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, m)
}

func (h *StaffHandler) deactivate(c *gin.Context) {
	claims := caller(c)
	if err := h.svc.DeactivateStaff(c.Request.Context(), c.Param("id"), claims.UserID, string(claims.Role), c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
