package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/phoneshop-pos/internal/application/service"
	"github.com/sangkips/phoneshop-pos/internal/config"
	"github.com/sangkips/phoneshop-pos/internal/domain/entity"
	"github.com/sangkips/phoneshop-pos/internal/domain/enum"
	"github.com/sangkips/phoneshop-pos/internal/infrastructure/database"
	"github.com/sangkips/phoneshop-pos/internal/infrastructure/repository"
	"github.com/sangkips/phoneshop-pos/internal/presentation/http/handler"
	"github.com/sangkips/phoneshop-pos/internal/presentation/http/middleware"
	"github.com/sangkips/phoneshop-pos/pkg/currency"
	"github.com/sangkips/phoneshop-pos/pkg/printer"
	"github.com/sangkips/phoneshop-pos/pkg/realtime"
	"github.com/sangkips/phoneshop-pos/pkg/utils"
	"github.com/shopspring/decimal"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	hub    *realtime.Hub
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.NewDB(&config.DatabaseConfig{
		Driver:   "sqlite",
		DSNValue: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		App:       config.AppConfig{Name: "phoneshop-pos-test"},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 1},
	}

	tx := repository.NewTransactor(db)
	users := repository.NewUserRepository(db)
	profiles := repository.NewProfileRepository(db)
	products := repository.NewProductRepository(db)
	customers := repository.NewCustomerRepository(db)
	loans := repository.NewLoanTransactionRepository(db)
	sales := repository.NewSaleRepository(db)
	losses := repository.NewLossRepository(db)
	hub := realtime.NewHub(16)
	jwtManager := utils.NewJWTManager("test-secret", cfg.App.Name, time.Hour, 24*time.Hour)

	handlers := &Handlers{
		Auth:     handler.NewAuthHandler(service.NewAuthService(tx, users, profiles, jwtManager)),
		Profile:  handler.NewProfileHandler(service.NewProfileService(profiles)),
		Product:  handler.NewProductHandler(service.NewProductService(products, hub)),
		Customer: handler.NewCustomerHandler(service.NewCustomerService(tx, customers, loans, hub)),
		Sale:     handler.NewSaleHandler(service.NewSaleService(tx, products, customers, loans, sales, hub)),
		Loss:     handler.NewLossHandler(service.NewLossService(losses, products, hub)),
		Report:   handler.NewReportHandler(service.NewReportService(products, sales, customers, losses)),
		Receipt: handler.NewReceiptHandler(service.NewReceiptService(
			printer.NewNullPrinter(), sales, users, profiles, currency.MustNew("TZS"),
			service.ReceiptOptions{PrinterType: "none"},
		)),
		Realtime: handler.NewRealtimeHandler(hub, time.Second),
		User:     handler.NewUserHandler(service.NewUserService(users)),
	}

	limiter := NewRateLimiter(&cfg.RateLimit)
	t.Cleanup(limiter.Stop)

	router := Setup(handlers, &Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
		RateLimiter:     limiter,
	})

	hashed, err := utils.HashPassword("admin-pass")
	if err != nil {
		t.Fatal(err)
	}
	if err := users.Create(t.Context(), &entity.User{
		Name: "Admin", Email: "admin@shop.test", Password: hashed, Role: enum.RoleAdmin,
	}); err != nil {
		t.Fatal(err)
	}

	return &testServer{t: t, router: router, hub: hub}
}

func (s *testServer) do(method, path, token string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) decode(w *httptest.ResponseRecorder, wantStatus int, out interface{}) envelope {
	s.t.Helper()

	if w.Code != wantStatus {
		s.t.Fatalf("status = %d, want %d: %s", w.Code, wantStatus, w.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		s.t.Fatalf("decode envelope: %v: %s", err, w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			s.t.Fatalf("decode data: %v: %s", err, env.Data)
		}
	}
	return env
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()

	var out struct {
		AccessToken string `json:"access_token"`
	}
	s.decode(s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": email, "password": password,
	}, nil), http.StatusOK, &out)
	return out.AccessToken
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", "", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/products", "", nil, nil)
	s.decode(w, http.StatusUnauthorized, nil)

	w = s.do(http.MethodGet, "/api/v1/products", "not-a-token", nil, nil)
	s.decode(w, http.StatusUnauthorized, nil)
}

func TestRegisterAndRoles(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "Neema", "email": "neema@shop.test", "password": "short", "password_confirm": "short",
	}, nil)
	env := s.decode(w, http.StatusUnprocessableEntity, nil)
	if !strings.Contains(string(env.Errors), "password") {
		t.Errorf("errors = %s, want a password field error", env.Errors)
	}

	w = s.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "Neema", "email": "neema@shop.test", "password": "cashier-pass",
		"password_confirm": "cashier-pass", "shop_name": "Neema Phones",
	}, nil)
	s.decode(w, http.StatusCreated, nil)

	cashier := s.login("neema@shop.test", "cashier-pass")

	var profile entity.UserProfile
	s.decode(s.do(http.MethodGet, "/api/v1/profile", cashier, nil, nil), http.StatusOK, &profile)
	if profile.ShopName != "Neema Phones" {
		t.Errorf("shop name = %q", profile.ShopName)
	}

	s.decode(s.do(http.MethodGet, "/api/v1/users", cashier, nil, nil), http.StatusForbidden, nil)

	admin := s.login("admin@shop.test", "admin-pass")
	var page struct {
		Items []entity.User `json:"items"`
	}
	s.decode(s.do(http.MethodGet, "/api/v1/users", admin, nil, nil), http.StatusOK, &page)
	if len(page.Items) != 2 {
		t.Errorf("users = %d, want 2", len(page.Items))
	}
}

func TestCheckoutWithLoanIsIdempotent(t *testing.T) {
	s := newTestServer(t)
	token := s.login("admin@shop.test", "admin-pass")

	var product entity.Product
	s.decode(s.do(http.MethodPost, "/api/v1/products", token, gin.H{
		"name": "Galaxy A15", "brand": "Samsung", "category": "Phones",
		"buying_price": 150000, "selling_price": 200000, "pieces": 3, "low_stock_alert": 1,
	}, nil), http.StatusCreated, &product)

	var customer entity.Customer
	s.decode(s.do(http.MethodPost, "/api/v1/customers", token, gin.H{
		"name": "Asha", "phone": "0712000000",
	}, nil), http.StatusCreated, &customer)

	s.decode(s.do(http.MethodPost, "/api/v1/cart/items", token, gin.H{"product_id": product.ID}, nil), http.StatusOK, nil)
	s.decode(s.do(http.MethodPut, "/api/v1/cart/items/"+product.ID.String()+"/discount", token, gin.H{"discount": 5}, nil), http.StatusOK, nil)

	var quote struct {
		Total      decimal.Decimal `json:"total"`
		LoanAmount decimal.Decimal `json:"loan_amount"`
	}
	s.decode(s.do(http.MethodPut, "/api/v1/cart/items/"+product.ID.String()+"/loan", token, gin.H{"use_loan": true}, nil), http.StatusOK, &quote)
	if !quote.Total.Equal(decimal.NewFromInt(190000)) || !quote.LoanAmount.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("quote total = %s loan = %s", quote.Total, quote.LoanAmount)
	}

	checkout := gin.H{"cash_received": 200000, "customer_id": customer.ID}
	key := map[string]string{middleware.IdempotencyKeyHeader: "till-1-0001"}

	var first struct {
		Sale          entity.Sale `json:"sale"`
		ReceiptNumber string      `json:"receipt_number"`
	}
	s.decode(s.do(http.MethodPost, "/api/v1/cart/checkout", token, checkout, key), http.StatusCreated, &first)
	if !first.Sale.Change.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("change = %s, want 10000", first.Sale.Change)
	}
	if !strings.HasPrefix(first.ReceiptNumber, "RCP-") {
		t.Errorf("receipt number = %q", first.ReceiptNumber)
	}

	w := s.do(http.MethodPost, "/api/v1/cart/checkout", token, checkout, key)
	var replay struct {
		Sale entity.Sale `json:"sale"`
	}
	s.decode(w, http.StatusCreated, &replay)
	if w.Header().Get(middleware.IdempotencyReplayedHeader) != "true" {
		t.Error("second checkout was not served from the idempotency store")
	}
	if replay.Sale.ID != first.Sale.ID {
		t.Errorf("replayed sale %s, want %s", replay.Sale.ID, first.Sale.ID)
	}

	w = s.do(http.MethodPost, "/api/v1/cart/checkout", token, gin.H{"cash_received": 1}, key)
	s.decode(w, http.StatusUnprocessableEntity, nil)

	var stored entity.Product
	s.decode(s.do(http.MethodGet, "/api/v1/products/"+product.ID.String(), token, nil, nil), http.StatusOK, &stored)
	if stored.Pieces != 2 {
		t.Errorf("pieces = %d, want 2", stored.Pieces)
	}

	var owed entity.Customer
	s.decode(s.do(http.MethodGet, "/api/v1/customers/"+customer.ID.String(), token, nil, nil), http.StatusOK, &owed)
	if !owed.LoanBalance.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("loan balance = %s, want 10000", owed.LoanBalance)
	}

	s.decode(s.do(http.MethodPost, "/api/v1/customers/"+customer.ID.String()+"/payments", token, gin.H{"amount": 20000}, nil), http.StatusBadRequest, nil)
	s.decode(s.do(http.MethodPost, "/api/v1/customers/"+customer.ID.String()+"/payments", token, gin.H{"amount": 10000}, nil), http.StatusOK, &owed)
	if !owed.LoanBalance.IsZero() {
		t.Errorf("loan balance after payment = %s, want 0", owed.LoanBalance)
	}

	var history []entity.LoanTransaction
	s.decode(s.do(http.MethodGet, "/api/v1/customers/"+customer.ID.String()+"/loans", token, nil, nil), http.StatusOK, &history)
	if len(history) != 2 {
		t.Errorf("history entries = %d, want 2", len(history))
	}

	var printed struct {
		Warning string `json:"warning"`
	}
	s.decode(s.do(http.MethodPost, "/api/v1/printer/print", token, gin.H{"sale_id": first.Sale.ID}, nil), http.StatusOK, &printed)
	if printed.Warning == "" {
		t.Error("printing without a printer should warn")
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	s := newTestServer(t)
	token := s.login("admin@shop.test", "admin-pass")

	w := s.do(http.MethodPost, "/api/v1/cart/checkout", token, gin.H{"cash_received": 1000}, nil)
	env := s.decode(w, http.StatusBadRequest, nil)
	if env.Message != "Cart is empty" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestReports(t *testing.T) {
	s := newTestServer(t)
	token := s.login("admin@shop.test", "admin-pass")

	s.decode(s.do(http.MethodGet, "/api/v1/reports?period=fortnight", token, nil, nil), http.StatusUnprocessableEntity, nil)

	var rep struct {
		Period string `json:"period"`
	}
	s.decode(s.do(http.MethodGet, "/api/v1/reports?period=week", token, nil, nil), http.StatusOK, &rep)
	if rep.Period != "week" {
		t.Errorf("period = %q", rep.Period)
	}

	w := s.do(http.MethodGet, "/api/v1/reports/export?period=month", token, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/vnd.openxmlformats") {
		t.Errorf("content type = %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("PK")) {
		t.Error("export is not a zip container")
	}
}

func TestListSalesRejectsBadDates(t *testing.T) {
	s := newTestServer(t)
	token := s.login("admin@shop.test", "admin-pass")

	s.decode(s.do(http.MethodGet, "/api/v1/sales?start_date=yesterday", token, nil, nil), http.StatusUnprocessableEntity, nil)
	s.decode(s.do(http.MethodGet, "/api/v1/sales?start_date=2026-03-10&end_date=2026-03-01", token, nil, nil), http.StatusUnprocessableEntity, nil)

	var page struct {
		Items []entity.Sale `json:"items"`
	}
	s.decode(s.do(http.MethodGet, "/api/v1/sales?start_date=2026-03-01&end_date=2026-03-01", token, nil, nil), http.StatusOK, &page)
	if len(page.Items) != 0 {
		t.Errorf("items = %d", len(page.Items))
	}
}

func TestRealtimeStreamEndsWhenHubCloses(t *testing.T) {
	s := newTestServer(t)
	token := s.login("admin@shop.test", "admin-pass")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/realtime?tables=products&access_token="+token, nil)
	w := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		s.router.ServeHTTP(w, req)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for s.hub.Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.hub.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream still open after the hub closed")
	}
	if !strings.Contains(w.Body.String(), "event:ready") {
		t.Errorf("body = %q, want a ready event", w.Body.String())
	}
}
