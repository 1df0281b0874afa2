package v1

import (
	"github.com/clinicore/clinicore/internal/service"
	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	svc *service.AuditService
}

func NewAuditHandler(svc *service.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.recent)
}

func (h *AuditHandler) recent(c *gin.Context) {
	claims := caller(c)
	limit := parseQueryInt(c, "limit", 100)

	entries, err := h.svc.Recent(c.Request.Context(), limit, string(claims.Role))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, entries)
}
