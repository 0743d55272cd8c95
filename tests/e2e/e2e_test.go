//go:build integration

package e2e

// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Covered flows:
//   - Gate intake → work order → en_progreso → pause/resume → completado
//   - Spare part stock: create with initial ledger entry, salida, conflict on
//     insufficient stock
//   - Request + delivery against a work order, public stock check endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fleetmaint/internal/config"
	"fleetmaint/internal/infra"
	"fleetmaint/internal/middleware"
	"fleetmaint/internal/model"
	"fleetmaint/internal/router"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

const testSecret = "test-secret-key"

type testEnv struct {
	server     *httptest.Server
	token      string // jefe_taller JWT
	vehicleID  string
	workshopID string
	userID     uuid.UUID
}

// mintToken signs a token the way the identity service would; this API only
// validates.
func mintToken(t *testing.T, userID uuid.UUID, rol string) string {
	t.Helper()
	claims := middleware.JWTClaims{
		UserID: userID.String(),
		Email:  "jefe@e2e.test",
		Rol:    rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("fleetmaint_test"),
		tcPostgres.WithUsername("fleetmaint"),
		tcPostgres.WithPassword("fleetmaint"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          testSecret,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		RateLimitPerMinute: 1000,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed the actor, a workshop, and a vehicle.
	user := &model.Usuario{
		Email:     "jefe@e2e.test",
		FirstName: "Jefa",
		LastName:  "Taller",
		Rol:       "jefe_taller",
		Activo:    true,
	}
	require.NoError(t, db.Create(user).Error)

	workshop := &model.Workshop{Name: "Taller E2E", Address: "Av. Siempreviva 742", Activo: true}
	require.NoError(t, db.Create(workshop).Error)

	vehicle := &model.Vehicle{
		LicensePlate: "TTRX99",
		Brand:        "Mercedes-Benz",
		Model:        "Actros",
		Year:         2022,
		VehicleType:  "camion",
		Status:       "operativo",
	}
	require.NoError(t, db.Create(vehicle).Error)

	r := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{
		server:     srv,
		token:      mintToken(t, user.ID, "jefe_taller"),
		vehicleID:  vehicle.ID.String(),
		workshopID: workshop.ID.String(),
		userID:     user.ID,
	}
}

func (env *testEnv) createEntry(t *testing.T) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/ingresos",
		jsonBody(t, map[string]any{
			"vehicle_id":  env.vehicleID,
			"workshop_id": env.workshopID,
			"driver_rut":  "12.345.678-9",
			"driver_name": "Pedro Conductor",
			"entry_km":    120500,
			"fuel_level":  "1/2",
			"has_keys":    true,
			"key_location": "Casillero 3",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var entry struct {
		ID        string `json:"id"`
		EntryCode string `json:"entry_code"`
	}
	decodeJSON(t, resp, &entry)
	assert.Regexp(t, `^ING-\d{8}-\d{4}$`, entry.EntryCode)
	return entry.ID
}

func (env *testEnv) createOrder(t *testing.T, entryID string) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/ordenes",
		jsonBody(t, map[string]any{
			"vehicle_id":  env.vehicleID,
			"entry_id":    entryID,
			"workshop_id": env.workshopID,
			"work_type":   "correctivo",
			"description": "Reemplazo de embrague completo",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order struct {
		ID          string `json:"id"`
		OrderNumber string `json:"order_number"`
	}
	decodeJSON(t, resp, &order)
	assert.Regexp(t, `^OT-\d{8}-\d{4}$`, order.OrderNumber)
	return order.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_WorkOrderLifecycle(t *testing.T) {
	env := setupTestEnv(t)

	entryID := env.createEntry(t)
	orderID := env.createOrder(t, entryID)

	// Start work
	resp := do(t, env.server, "PATCH", "/v1/ordenes/"+orderID+"/estado",
		jsonBody(t, map[string]any{"status": "en_progreso"}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var order struct {
		CurrentStatus string  `json:"current_status"`
		StartedAt     *string `json:"started_at"`
		CompletedAt   *string `json:"completed_at"`
		TotalHours    *string `json:"total_hours"`
		Statuses      []struct {
			Status string `json:"status"`
		} `json:"statuses"`
		Pauses []struct {
			ResumedAt *string `json:"resumed_at"`
			Duration  *int    `json:"duration_minutes"`
		} `json:"pauses"`
	}
	decodeJSON(t, resp, &order)
	assert.Equal(t, "en_progreso", order.CurrentStatus)
	require.NotNil(t, order.StartedAt)

	// Pause
	resp = do(t, env.server, "POST", "/v1/ordenes/"+orderID+"/pausar",
		jsonBody(t, map[string]any{"reason": "Esperando repuesto"}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &order)
	assert.Equal(t, "pausado", order.CurrentStatus)

	// A second pause conflicts
	resp = do(t, env.server, "POST", "/v1/ordenes/"+orderID+"/pausar",
		jsonBody(t, map[string]any{"reason": "Otra pausa"}), env.token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Resume
	resp = do(t, env.server, "POST", "/v1/ordenes/"+orderID+"/reanudar", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &order)
	assert.Equal(t, "en_progreso", order.CurrentStatus)
	require.Len(t, order.Pauses, 1)
	assert.NotNil(t, order.Pauses[0].ResumedAt)
	assert.NotNil(t, order.Pauses[0].Duration)

	// Complete
	resp = do(t, env.server, "PATCH", "/v1/ordenes/"+orderID+"/estado",
		jsonBody(t, map[string]any{"status": "completado", "observations": "Trabajo terminado"}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &order)
	assert.Equal(t, "completado", order.CurrentStatus)
	require.NotNil(t, order.CompletedAt)
	require.NotNil(t, order.TotalHours)

	// Full audit trail: pendiente, en_progreso, completado
	assert.Len(t, order.Statuses, 3)
}

func TestE2E_SparePartStockFlow(t *testing.T) {
	env := setupTestEnv(t)

	// Create part with initial stock
	resp := do(t, env.server, "POST", "/v1/repuestos",
		jsonBody(t, map[string]any{
			"code":            "emb-100",
			"name":            "Kit de embrague",
			"category":        "transmision",
			"unit_of_measure": "unidad",
			"unit_price":      decimal.NewFromFloat(185000),
			"current_stock":   10,
			"min_stock":       2,
			"max_stock":       20,
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var part struct {
		ID           string `json:"id"`
		Code         string `json:"code"`
		CurrentStock int    `json:"current_stock"`
		Movements    []struct {
			MovementType  string `json:"movement_type"`
			PreviousStock int    `json:"previous_stock"`
			NewStock      int    `json:"new_stock"`
			Reason        string `json:"reason"`
		} `json:"movements"`
	}
	decodeJSON(t, resp, &part)
	assert.Equal(t, "EMB-100", part.Code)
	require.Len(t, part.Movements, 1)
	assert.Equal(t, "Stock inicial", part.Movements[0].Reason)

	// salida 3 → 7
	resp = do(t, env.server, "PATCH", "/v1/repuestos/"+part.ID+"/stock",
		jsonBody(t, map[string]any{"quantity": 3, "movement_type": "salida", "reason": "Consumo interno"}),
		env.token,
	)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &part)
	assert.Equal(t, 7, part.CurrentStock)

	// salida 8 on 7 → conflict, stock intact
	resp = do(t, env.server, "PATCH", "/v1/repuestos/"+part.ID+"/stock",
		jsonBody(t, map[string]any{"quantity": 8, "movement_type": "salida", "reason": "Consumo interno"}),
		env.token,
	)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, "GET", "/v1/repuestos/"+part.ID, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &part)
	assert.Equal(t, 7, part.CurrentStock)

	// Public stock check, no auth
	resp = do(t, env.server, "GET", "/v1/stock/emb-100", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var consulta struct {
		Code         string `json:"code"`
		CurrentStock int    `json:"current_stock"`
	}
	decodeJSON(t, resp, &consulta)
	assert.Equal(t, "EMB-100", consulta.Code)
	assert.Equal(t, 7, consulta.CurrentStock)
}

func TestE2E_SparePartDelivery(t *testing.T) {
	env := setupTestEnv(t)

	entryID := env.createEntry(t)
	orderID := env.createOrder(t, entryID)

	resp := do(t, env.server, "POST", "/v1/repuestos",
		jsonBody(t, map[string]any{
			"code":            "FRE-200",
			"name":            "Pastillas de freno",
			"category":        "frenos",
			"unit_of_measure": "juego",
			"unit_price":      decimal.NewFromFloat(45000),
			"current_stock":   5,
			"min_stock":       1,
			"max_stock":       10,
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var part struct {
		ID           string `json:"id"`
		CurrentStock int    `json:"current_stock"`
	}
	decodeJSON(t, resp, &part)

	// Request 5 — stock is untouched until delivery
	resp = do(t, env.server, "POST", "/v1/solicitudes",
		jsonBody(t, map[string]any{
			"work_order_id": orderID,
			"spare_part_id": part.ID,
			"quantity":      5,
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var request struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeJSON(t, resp, &request)
	assert.Equal(t, "pendiente", request.Status)

	// Deliver 5 → stock 0, request entregado
	resp = do(t, env.server, "POST", "/v1/solicitudes/"+request.ID+"/entregar",
		jsonBody(t, map[string]any{"quantity_delivered": 5}),
		env.token,
	)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &part)
	assert.Equal(t, 0, part.CurrentStock)

	// Second delivery conflicts
	resp = do(t, env.server, "POST", "/v1/solicitudes/"+request.ID+"/entregar",
		jsonBody(t, map[string]any{"quantity_delivered": 5}),
		env.token,
	)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_RoleEnforcement(t *testing.T) {
	env := setupTestEnv(t)

	// A guardia cannot create work orders.
	guardToken := mintToken(t, env.userID, "guardia")
	resp := do(t, env.server, "POST", "/v1/ordenes",
		jsonBody(t, map[string]any{
			"vehicle_id":  env.vehicleID,
			"entry_id":    uuid.NewString(),
			"workshop_id": env.workshopID,
			"work_type":   "correctivo",
			"description": "No deberia poder crear esto",
		}),
		guardToken,
	)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// No token at all.
	resp = do(t, env.server, "GET", "/v1/ordenes", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
