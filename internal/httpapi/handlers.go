package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"slimmom.org/internal/auth"
	"slimmom.org/internal/obs"
	"slimmom.org/internal/product"
)

// ReadyProbe reports whether downstream dependencies answer.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer over the auth and product services.
type API struct {
	mux        *http.ServeMux
	auth       *auth.Service
	products   *product.Service
	readyProbe ReadyProbe
	version    string

	rateBurst  int
	ratePerSec int
}

func New(rp ReadyProbe, version string, authSvc *auth.Service, productSvc *product.Service) *API {
	a := &API{
		mux:        http.NewServeMux(),
		auth:       authSvc,
		products:   productSvc,
		readyProbe: rp,
		version:    version,
		rateBurst:  20,
		ratePerSec: 10,
	}

	// health/ready/info
	a.mux.HandleFunc("GET /healthz", a.Healthz)
	a.mux.HandleFunc("GET /readyz", a.Ready)
	a.mux.HandleFunc("GET /v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("GET /metrics", obs.Handler())

	// auth lifecycle
	a.mux.HandleFunc("POST /api/auth/register", a.handleRegister)
	a.mux.HandleFunc("POST /api/auth/verify-otp", a.handleVerifyOTP)
	a.mux.HandleFunc("POST /api/auth/resend-otp", a.handleResendOTP)
	a.mux.HandleFunc("POST /api/auth/login", a.handleLogin)
	a.mux.HandleFunc("POST /api/auth/logout", a.handleLogout)
	a.mux.HandleFunc("POST /api/auth/create-admin", a.requireRole(auth.RoleAdmin, a.handleCreateAdmin))

	// session
	a.mux.HandleFunc("POST /api/session/refresh-token", a.handleRefreshToken)

	// product catalog and consumption log
	a.mux.HandleFunc("GET /api/products", a.handleListProducts)
	a.mux.HandleFunc("POST /api/products", a.requireRole(auth.RoleAdmin, a.handleCreateProduct))
	a.mux.HandleFunc("GET /api/products/search", a.handleSearchProducts)
	a.mux.HandleFunc("GET /api/products/daily-intake", a.handleDailyIntake)
	a.mux.HandleFunc("POST /api/products/daily-intake", a.requireAuth(a.handleRecordDailyIntake))
	a.mux.HandleFunc("POST /api/products/consumed", a.requireAuth(a.handleAddConsumed))
	a.mux.HandleFunc("DELETE /api/products/consumed/{id}", a.requireAuth(a.handleDeleteConsumed))
	a.mux.HandleFunc("GET /api/products/day-info", a.requireAuth(a.handleDayInfo))

	// calorie profile
	a.mux.HandleFunc("POST /api/calorie-info/save-calorie-info", a.requireAuth(a.handleSaveCalorieInfo))
	a.mux.HandleFunc("GET /api/calorie-info/get-calorie-info", a.requireAuth(a.handleGetCalorieInfo))

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped handler for the server.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = MaxBodyBytes(h, 1<<20)
	h = SecurityHeaders(h)
	h = CORS(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- Handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "slimmom-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "slimmom-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}
