package v1

import (
	"net/http"

	"github.com/clinicore/clinicore/internal/config"
	"github.com/clinicore/clinicore/internal/domain"
	"github.com/clinicore/clinicore/internal/service"
	"github.com/clinicore/clinicore/pkg/auth"
	"github.com/clinicore/clinicore/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies carries everything the router needs wired together.
type Dependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *metrics.Collector
	JWTManager *auth.JWTManager

	AuthService         *service.AuthService
	PatientService      *service.PatientService
	VisitService        *service.VisitService
	RecordService       *service.RecordService
	MedicineService     *service.MedicineService
	PrescriptionService *service.PrescriptionService
	StaffService        *service.StaffService
	AuditService        *service.AuditService
}

// NewRouter assembles the gin engine with middleware and all v1 routes.
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(deps.Logger))
	r.Use(Metrics(deps.Metrics))
	if deps.Config.Tracing.Enabled {
		r.Use(Tracing(deps.Config.Tracing.ServiceName))
	}
	r.Use(CORS(
		deps.Config.CORS.AllowedOrigins,
		deps.Config.CORS.AllowedMethods,
		deps.Config.CORS.AllowedHeaders,
		deps.Config.CORS.MaxAge,
	))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": deps.Config.App.Version,
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")

	NewAuthHandler(deps.AuthService).RegisterRoutes(api.Group("/auth"))

	authed := api.Group("")
	authed.Use(Authenticate(deps.JWTManager))

	// Role checks on writes live in the services; route-level guards only
	// fence off whole surfaces from patient accounts.
	staffOnly := RequireRoles(
		domain.RoleAdmin, domain.RoleDoctor, domain.RoleNurse,
		domain.RolePharmacist, domain.RoleOwner,
	)

	NewPatientHandler(deps.PatientService).RegisterRoutes(authed.Group("/patients"))
	NewRecordHandler(deps.RecordService).RegisterRoutes(authed.Group("/records"))
	NewPrescriptionHandler(deps.PrescriptionService).RegisterRoutes(authed.Group("/prescriptions"))

	queue := authed.Group("/queue")
	queue.Use(staffOnly)
	NewVisitHandler(deps.VisitService).RegisterRoutes(queue)

	medicines := authed.Group("/medicines")
	medicines.Use(staffOnly)
	NewMedicineHandler(deps.MedicineService).RegisterRoutes(medicines)

	staffRoutes := authed.Group("/staff")
	staffRoutes.Use(staffOnly)
	NewStaffHandler(deps.StaffService).RegisterRoutes(staffRoutes)

	audit := authed.Group("/audit")
	audit.Use(RequireRoles(domain.RoleAdmin, domain.RoleOwner))
	NewAuditHandler(deps.AuditService).RegisterRoutes(audit)

	return r
}
