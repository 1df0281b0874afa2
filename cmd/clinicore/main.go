package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinicore/clinicore/internal/config"
	v1 "github.com/clinicore/clinicore/internal/handler/v1"
	"github.com/clinicore/clinicore/internal/repository/memory"
	"github.com/clinicore/clinicore/internal/seed"
	"github.com/clinicore/clinicore/internal/service"
	"github.com/clinicore/clinicore/pkg/auth"
	"github.com/clinicore/clinicore/pkg/logger"
	"github.com/clinicore/clinicore/pkg/metrics"
	"github.com/clinicore/clinicore/pkg/tracer"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "clinicore: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	log.Info("starting clinicore",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracer: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	collector := metrics.NewCollector("clinicore")

	// In-memory stores. All state is lost on restart; the seed repopulates
	// the admin account and optional demo data.
	userStore := memory.NewUserStore()
	patientStore := memory.NewPatientStore()
	visitStore := memory.NewVisitStore()
	recordStore := memory.NewRecordStore()
	medicineStore := memory.NewMedicineStore()
	prescriptionStore := memory.NewPrescriptionStore()
	staffStore := memory.NewStaffStore()
	auditStore := memory.NewAuditStore()

	jwtManager := auth.NewJWTManager(cfg.JWT)

	auditSvc := service.NewAuditService(auditStore, log, collector)
	defer auditSvc.Shutdown()

	authSvc := service.NewAuthService(userStore, jwtManager, auditSvc, log)
	patientSvc := service.NewPatientService(patientStore, auditSvc, collector, log)
	visitSvc := service.NewVisitService(visitStore, patientStore, auditSvc, collector, log)
	recordSvc := service.NewRecordService(recordStore, patientStore, auditSvc, log)
	medicineSvc := service.NewMedicineService(medicineStore, prescriptionStore, auditSvc, collector, log)
	prescriptionSvc := service.NewPrescriptionService(prescriptionStore, medicineStore, patientStore, auditSvc, collector, log)
	staffSvc := service.NewStaffService(staffStore, userStore, auditSvc, log)

	if err := seed.Bootstrap(context.Background(), seed.Stores{
		Users:     userStore,
		Patients:  patientStore,
		Medicines: medicineStore,
		Staff:     staffStore,
	}, cfg.Seed, log); err != nil {
		return fmt.Errorf("seeding: %w", err)
	}

	router := v1.NewRouter(v1.Dependencies{
		Config:              cfg,
		Logger:              log,
		Metrics:             collector,
		JWTManager:          jwtManager,
		AuthService:         authSvc,
		PatientService:      patientSvc,
		VisitService:        visitSvc,
		RecordService:       recordSvc,
		MedicineService:     medicineSvc,
		PrescriptionService: prescriptionSvc,
		StaffService:        staffSvc,
		AuditService:        auditSvc,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	return nil
}
