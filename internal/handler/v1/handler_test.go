package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clinicore/clinicore/internal/config"
	"github.com/clinicore/clinicore/internal/domain"
	"github.com/clinicore/clinicore/internal/repository/memory"
	"github.com/clinicore/clinicore/internal/service"
	"github.com/clinicore/clinicore/pkg/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type testAPI struct {
	engine     *gin.Engine
	jwtManager *auth.JWTManager
	users      *memory.UserStore
}

// newTestAPI wires real services over in-memory stores behind the normal
// route surface, minus the metrics and tracing middleware.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auditSvc := service.NewAuditService(memory.NewAuditStore(), zap.NewNop(), nil)
	t.Cleanup(auditSvc.Shutdown)

	users := memory.NewUserStore()
	patients := memory.NewPatientStore()
	visits := memory.NewVisitStore()
	records := memory.NewRecordStore()
	medicines := memory.NewMedicineStore()
	prescriptions := memory.NewPrescriptionStore()
	staffMembers := memory.NewStaffStore()

	jwtManager := auth.NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-test-secret-test-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "clinicore-test",
	})

	log := zap.NewNop()
	authSvc := service.NewAuthService(users, jwtManager, auditSvc, log)
	patientSvc := service.NewPatientService(patients, auditSvc, nil, log)
	visitSvc := service.NewVisitService(visits, patients, auditSvc, nil, log)
	recordSvc := service.NewRecordService(records, patients, auditSvc, log)
	medicineSvc := service.NewMedicineService(medicines, prescriptions, auditSvc, nil, log)
	prescriptionSvc := service.NewPrescriptionService(prescriptions, medicines, patients, auditSvc, nil, log)
	staffSvc := service.NewStaffService(staffMembers, users, auditSvc, log)

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewAuthHandler(authSvc).RegisterRoutes(api.Group("/auth"))

	authed := api.Group("")
	authed.Use(Authenticate(jwtManager))

	staffOnly := RequireRoles(
		domain.RoleAdmin, domain.RoleDoctor, domain.RoleNurse,
		domain.RolePharmacist, domain.RoleOwner,
	)

	NewPatientHandler(patientSvc).RegisterRoutes(authed.Group("/patients"))
	NewRecordHandler(recordSvc).RegisterRoutes(authed.Group("/records"))
	NewPrescriptionHandler(prescriptionSvc).RegisterRoutes(authed.Group("/prescriptions"))

	queue := authed.Group("/queue")
	queue.Use(staffOnly)
	NewVisitHandler(visitSvc).RegisterRoutes(queue)

	meds := authed.Group("/medicines")
	meds.Use(staffOnly)
	NewMedicineHandler(medicineSvc).RegisterRoutes(meds)

	staffRoutes := authed.Group("/staff")
	staffRoutes.Use(staffOnly)
	NewStaffHandler(staffSvc).RegisterRoutes(staffRoutes)

	audit := authed.Group("/audit")
	audit.Use(RequireRoles(domain.RoleAdmin, domain.RoleOwner))
	NewAuditHandler(auditSvc).RegisterRoutes(audit)

	return &testAPI{engine: engine, jwtManager: jwtManager, users: users}
}

func (a *testAPI) tokenFor(t *testing.T, role domain.Role) string {
	t.Helper()
	pair, err := a.jwtManager.GenerateTokenPair(&domain.Claims{
		UserID: uuid.New(),
		Email:  string(role) + "@clinicore.local",
		Role:   role,
	})
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return pair.AccessToken
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding envelope: %v (body %s)", err, w.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decoding data: %v (body %s)", err, w.Body.String())
	}
}

func TestAuthRequired(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/v1/medicines", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}

	w = api.do(t, http.MethodGet, "/api/v1/medicines", "not-a-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token status = %d, want 401", w.Code)
	}
}

func TestPatientRoleFencedOffPharmacy(t *testing.T) {
	api := newTestAPI(t)
	token := api.tokenFor(t, domain.RolePatient)

	for _, path := range []string{"/api/v1/medicines", "/api/v1/queue", "/api/v1/staff", "/api/v1/audit"} {
		w := api.do(t, http.MethodGet, path, token, nil)
		if w.Code != http.StatusForbidden {
			t.Errorf("GET %s as patient: status = %d, want 403", path, w.Code)
		}
	}
}

func TestLoginEndpoint(t *testing.T) {
	api := newTestAPI(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22hunter22"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing: %v", err)
	}
	if err := api.users.Create(context.Background(), &domain.User{
		Email:        "admin@clinicore.local",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}); err != nil {
		t.Fatalf("seeding user: %v", err)
	}

	w := api.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "admin@clinicore.local", "password": "hunter22hunter22",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var pair domain.TokenPair
	decodeData(t, w, &pair)
	if pair.AccessToken == "" {
		t.Fatal("empty access token")
	}

	// The issued token works against a protected route.
	w = api.do(t, http.MethodGet, "/api/v1/medicines", pair.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("authed request status = %d, body %s", w.Code, w.Body.String())
	}

	w = api.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "admin@clinicore.local", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password status = %d, want 401", w.Code)
	}
}

func TestMedicineEndpoints(t *testing.T) {
	api := newTestAPI(t)
	token := api.tokenFor(t, domain.RolePharmacist)

	w := api.do(t, http.MethodPost, "/api/v1/medicines", token, gin.H{
		"name": "Paracetamol 500mg", "unit": "tablet", "stock": 10, "min_stock": 20, "price": 0.15,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}

	var created struct {
		ID       string `json:"id"`
		Stock    int    `json:"stock"`
		LowStock bool   `json:"low_stock"`
	}
	decodeData(t, w, &created)
	if created.ID != "M001" {
		t.Errorf("id = %q, want M001", created.ID)
	}
	if !created.LowStock {
		t.Error("stock 10 with min 20 should report low_stock")
	}

	// Stock adjustment clamps at zero.
	w = api.do(t, http.MethodPatch, "/api/v1/medicines/M001/stock", token, gin.H{"delta": -25})
	if w.Code != http.StatusOK {
		t.Fatalf("adjust status = %d, body %s", w.Code, w.Body.String())
	}
	decodeData(t, w, &created)
	if created.Stock != 0 {
		t.Errorf("stock = %d, want 0", created.Stock)
	}

	w = api.do(t, http.MethodGet, "/api/v1/medicines/M999", token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", w.Code)
	}

	// Validation failures list the offending fields.
	w = api.do(t, http.MethodPost, "/api/v1/medicines", token, gin.H{
		"name": "", "unit": "", "price": -1,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid create status = %d, want 400", w.Code)
	}
}

func TestPrescriptionFlowOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	doctor := api.tokenFor(t, domain.RoleDoctor)
	pharmacist := api.tokenFor(t, domain.RolePharmacist)

	w := api.do(t, http.MethodPost, "/api/v1/medicines", pharmacist, gin.H{
		"name": "Amoxicillin", "unit": "capsule", "stock": 30, "price": 0.45,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("medicine create: %d %s", w.Code, w.Body.String())
	}

	w = api.do(t, http.MethodPost, "/api/v1/prescriptions", doctor, gin.H{
		"patient_name": "Jane Cooper",
		"doctor_name":  "Dr. Alexander",
		"items":        []gin.H{{"medicine_id": "M001", "amount": 10}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("prescription create: %d %s", w.Code, w.Body.String())
	}

	var p struct {
		ID         string  `json:"id"`
		Status     string  `json:"status"`
		TotalPrice float64 `json:"total_price"`
	}
	decodeData(t, w, &p)
	if p.ID != "RX001" || p.Status != "pending" {
		t.Fatalf("created = %+v", p)
	}
	if p.TotalPrice != 4.5 {
		t.Errorf("total = %v, want 4.5", p.TotalPrice)
	}

	// Doctors cannot run the pharmacy side.
	w = api.do(t, http.MethodPatch, "/api/v1/prescriptions/RX001/process", doctor, gin.H{})
	if w.Code != http.StatusForbidden {
		t.Errorf("doctor process status = %d, want 403", w.Code)
	}

	w = api.do(t, http.MethodPatch, "/api/v1/prescriptions/RX001/process", pharmacist, gin.H{"processed_by": "Cameron"})
	if w.Code != http.StatusOK {
		t.Fatalf("process: %d %s", w.Code, w.Body.String())
	}
	w = api.do(t, http.MethodPatch, "/api/v1/prescriptions/RX001/ready", pharmacist, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("ready: %d %s", w.Code, w.Body.String())
	}

	// A repeated ready is an invalid transition, not a second deduction.
	w = api.do(t, http.MethodPatch, "/api/v1/prescriptions/RX001/ready", pharmacist, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("repeat ready status = %d, want 400", w.Code)
	}

	w = api.do(t, http.MethodGet, "/api/v1/medicines/M001", pharmacist, nil)
	var med struct {
		Stock int `json:"stock"`
	}
	decodeData(t, w, &med)
	if med.Stock != 20 {
		t.Errorf("stock = %d, want 20", med.Stock)
	}

	w = api.do(t, http.MethodPatch, "/api/v1/prescriptions/RX001/dispense", pharmacist, gin.H{"dispensed_by": "Cameron"})
	if w.Code != http.StatusOK {
		t.Fatalf("dispense: %d %s", w.Code, w.Body.String())
	}
	decodeData(t, w, &p)
	if p.Status != "dispensed" {
		t.Errorf("status = %q, want dispensed", p.Status)
	}
}

func TestInsufficientStockConflictPayload(t *testing.T) {
	api := newTestAPI(t)
	doctor := api.tokenFor(t, domain.RoleDoctor)
	pharmacist := api.tokenFor(t, domain.RolePharmacist)

	w := api.do(t, http.MethodPost, "/api/v1/medicines", pharmacist, gin.H{
		"name": "Cetirizine", "unit": "tablet", "stock": 3, "price": 0.25,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("medicine create: %d", w.Code)
	}

	w = api.do(t, http.MethodPost, "/api/v1/prescriptions", doctor, gin.H{
		"patient_name": "Jane",
		"items":        []gin.H{{"medicine_id": "M001", "amount": 10}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("prescription create: %d %s", w.Code, w.Body.String())
	}

	w = api.do(t, http.MethodPatch, "/api/v1/prescriptions/RX001/process", pharmacist, gin.H{})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", w.Code, w.Body.String())
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Code != "INSUFFICIENT_STOCK" {
		t.Errorf("code = %q", resp.Code)
	}
	if resp.Details["requested"] != "10" || resp.Details["available"] != "3" {
		t.Errorf("details = %v", resp.Details)
	}
}

func TestLegacyStatusAliasAccepted(t *testing.T) {
	api := newTestAPI(t)
	pharmacist := api.tokenFor(t, domain.RolePharmacist)

	w := api.do(t, http.MethodPost, "/api/v1/medicines", pharmacist, gin.H{
		"name": "Ibuprofen", "unit": "tablet", "stock": 50, "price": 0.2,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("medicine create: %d", w.Code)
	}

	// Older clients send "processed" for the ready state.
	w = api.do(t, http.MethodPost, "/api/v1/prescriptions", pharmacist, gin.H{
		"patient_name": "Walk-in",
		"status":       "processed",
		"items":        []gin.H{{"medicine_id": "M001", "amount": 5}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}

	var p struct {
		Status string `json:"status"`
	}
	decodeData(t, w, &p)
	if p.Status != "ready" {
		t.Errorf("status = %q, want ready", p.Status)
	}
}
