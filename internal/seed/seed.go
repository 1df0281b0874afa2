// Package seed bootstraps the in-memory stores at startup. Without it the
// API would come up empty after every restart, with no account able to log in.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/clinicore/clinicore/internal/config"
	"github.com/clinicore/clinicore/internal/domain"
	"github.com/clinicore/clinicore/internal/domain/medicine"
	"github.com/clinicore/clinicore/internal/domain/patient"
	"github.com/clinicore/clinicore/internal/domain/staff"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserCreator interface {
	Create(ctx context.Context, u *domain.User) error
}

type Stores struct {
	Users     UserCreator
	Patients  patient.Repository
	Medicines medicine.Repository
	Staff     staff.Repository
}

// Bootstrap creates the admin login and, when enabled, a small demo data set.
func Bootstrap(ctx context.Context, stores Stores, cfg config.SeedConfig, log *zap.Logger) error {
	password := cfg.AdminPassword
	if password == "" {
		// Development fallback. Config validation rejects an empty password
		// outside development.
		password = uuid.NewString()
		log.Warn("SEED_ADMIN_PASSWORD not set, generated one-time admin password",
			zap.String("email", cfg.AdminEmail),
			zap.String("password", password),
		)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	admin := &domain.User{
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		Name:         "Administrator",
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := stores.Users.Create(ctx, admin); err != nil {
		return fmt.Errorf("creating admin account: %w", err)
	}
	log.Info("admin account seeded", zap.String("email", admin.Email))

	if !cfg.DemoData {
		return nil
	}
	return demoData(ctx, stores, log)
}

func demoData(ctx context.Context, stores Stores, log *zap.Logger) error {
	medicines := []*medicine.Medicine{
		{Name: "Paracetamol 500mg", Category: "analgesic", Stock: 200, MinStock: 50, Unit: "tablet", Price: 0.15},
		{Name: "Amoxicillin 250mg", Category: "antibiotic", Stock: 120, MinStock: 30, Unit: "capsule", Price: 0.45},
		{Name: "Cetirizine 10mg", Category: "antihistamine", Stock: 80, MinStock: 20, Unit: "tablet", Price: 0.25},
		{Name: "Omeprazole 20mg", Category: "antacid", Stock: 15, MinStock: 25, Unit: "capsule", Price: 0.60},
	}
	for _, m := range medicines {
		if err := stores.Medicines.Create(ctx, m); err != nil {
			return fmt.Errorf("seeding medicine %q: %w", m.Name, err)
		}
	}

	patients := []*patient.Patient{
		{
			Name:        "Jane Cooper",
			DateOfBirth: time.Date(1987, 4, 12, 0, 0, 0, 0, time.UTC),
			Gender:      patient.GenderFemale,
			Phone:       "+1-202-555-0114",
			Status:      patient.StatusActive,
		},
		{
			Name:        "Ronald Richards",
			DateOfBirth: time.Date(1962, 11, 3, 0, 0, 0, 0, time.UTC),
			Gender:      patient.GenderMale,
			Allergies:   []string{"penicillin"},
			BloodType:   "O+",
			Status:      patient.StatusActive,
		},
	}
	for _, p := range patients {
		if err := stores.Patients.Create(ctx, p); err != nil {
			return fmt.Errorf("seeding patient %q: %w", p.Name, err)
		}
	}

	members := []*staff.Staff{
		{Name: "Dr. Leslie Alexander", Role: domain.RoleDoctor, Email: "leslie@clinicore.local", Specialty: "general practice", IsActive: true},
		{Name: "Esther Howard", Role: domain.RoleNurse, Email: "esther@clinicore.local", IsActive: true},
		{Name: "Cameron Williamson", Role: domain.RolePharmacist, Email: "cameron@clinicore.local", IsActive: true},
	}
	for _, m := range members {
		if err := stores.Staff.Create(ctx, m); err != nil {
			return fmt.Errorf("seeding staff %q: %w", m.Name, err)
		}
	}

	log.Info("demo data seeded",
		zap.Int("medicines", len(medicines)),
		zap.Int("patients", len(patients)),
		zap.Int("staff", len(members)),
	)
	return nil
}
