package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"cashtrackr/internal/auth"
	"cashtrackr/internal/mail"
	"cashtrackr/internal/service"
	"cashtrackr/internal/storage/sqlite"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// captureSender records notifications so tests can read action tokens back.
type captureSender struct {
	mu            sync.Mutex
	notifications []mail.Notification
}

func (s *captureSender) SendConfirmation(ctx context.Context, n mail.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
	return nil
}

func (s *captureSender) SendPasswordReset(ctx context.Context, n mail.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
	return nil
}

func (s *captureSender) lastToken(t *testing.T) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.notifications) == 0 {
		t.Fatal("Expected an email to have been sent")
	}
	return s.notifications[len(s.notifications)-1].Token
}

func newTestRouter(t *testing.T) (*gin.Engine, *captureSender) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "cashtrackr-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	sender := &captureSender{}
	logger := slog.Default()
	jwtManager := auth.NewJWTManager(testSecret, time.Hour)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	router := NewRouter(Deps{
		Accounts:   service.NewAccountService(store, hasher, jwtManager, sender, 15*time.Minute, logger),
		Budgets:    service.NewBudgetService(store, logger),
		Expenses:   service.NewExpenseService(store, logger),
		JWTManager: jwtManager,
	})
	return router, sender
}

// doJSON performs a request against the router. An empty token leaves the
// Authorization header off.
func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

// signUp registers, confirms and logs in a user, returning the session token.
func signUp(t *testing.T, router *gin.Engine, sender *captureSender, name, email, password string) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/auth/create-account", "", gin.H{
		"name": name, "email": email, "password": password,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create-account returned %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/auth/confirm-account", "", gin.H{
		"token": sender.lastToken(t),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("confirm-account returned %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": email, "password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, w, &resp)
	return resp.Token
}

// createBudget creates a budget for the token's user and returns its ID.
func createBudget(t *testing.T, router *gin.Engine, token, name string, amount float64) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/api/budgets", token, gin.H{
		"name": name, "amount": amount,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create budget returned %d: %s", w.Code, w.Body.String())
	}

	var budget struct {
		ID string `json:"id"`
	}
	decodeBody(t, w, &budget)
	return budget.ID
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

func TestAccountLifecycle(t *testing.T) {
	router, sender := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/auth/create-account", "", gin.H{
		"name": "Alice", "email": "alice@example.com", "password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created map[string]any
	decodeBody(t, w, &created)
	if created["email"] != "alice@example.com" || created["confirmed"] != false {
		t.Errorf("Unexpected account body: %v", created)
	}
	// Secrets never leave the server.
	for _, key := range []string{"password_hash", "action_token", "action_kind"} {
		if _, ok := created[key]; ok {
			t.Errorf("Response leaks %q: %v", key, created)
		}
	}

	t.Run("duplicate email", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/auth/create-account", "", gin.H{
			"name": "Mallory", "email": "alice@example.com", "password": "password456",
		})
		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("login before confirmation", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
			"email": "alice@example.com", "password": "password123",
		})
		if w.Code != http.StatusForbidden {
			t.Errorf("Expected 403, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("wrong confirmation code", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/auth/confirm-account", "", gin.H{
			"token": "000000",
		})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d: %s", w.Code, w.Body.String())
		}
	})

	w = doJSON(t, router, http.MethodPost, "/api/auth/confirm-account", "", gin.H{
		"token": sender.lastToken(t),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	t.Run("login with unknown email", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
			"email": "nobody@example.com", "password": "password123",
		})
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("login with wrong password", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
			"email": "alice@example.com", "password": "wrong-password",
		})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d: %s", w.Code, w.Body.String())
		}
	})

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, w, &login)

	t.Run("current user", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/auth/user", login.Token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var principal auth.Principal
		decodeBody(t, w, &principal)
		if principal.Email != "alice@example.com" || principal.Name != "Alice" {
			t.Errorf("Unexpected principal: %+v", principal)
		}
	})
}

func TestAuthGate(t *testing.T) {
	router, sender := newTestRouter(t)
	signUp(t, router, sender, "Alice", "alice@example.com", "password123")

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"bearer with no token", "Bearer"},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/budgets", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401, got %d: %s", w.Code, w.Body.String())
			}
		})
	}

	t.Run("token signed with a different secret", func(t *testing.T) {
		forged, err := auth.NewJWTManager("other-secret", time.Hour).Generate(uuid.NewString())
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		w := doJSON(t, router, http.MethodGet, "/api/budgets", forged, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("valid token for a vanished user", func(t *testing.T) {
		stale, err := auth.NewJWTManager(testSecret, time.Hour).Generate(uuid.NewString())
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		w := doJSON(t, router, http.MethodGet, "/api/budgets", stale, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestBudgetCRUD(t *testing.T) {
	router, sender := newTestRouter(t)
	token := signUp(t, router, sender, "Alice", "alice@example.com", "password123")

	budgetID := createBudget(t, router, token, "Groceries", 500)

	t.Run("list", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/budgets", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var budgets []map[string]any
		decodeBody(t, w, &budgets)
		if len(budgets) != 1 || budgets[0]["name"] != "Groceries" {
			t.Errorf("Unexpected budget list: %v", budgets)
		}
	})

	t.Run("update", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/api/budgets/"+budgetID, token, gin.H{
			"name": "Food", "amount": 650.5,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var budget map[string]any
		decodeBody(t, w, &budget)
		if budget["name"] != "Food" || budget["amount"] != 650.5 {
			t.Errorf("Unexpected budget after update: %v", budget)
		}
	})

	t.Run("get includes expenses", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/budgets/"+budgetID+"/expenses", token, gin.H{
			"name": "Milk", "amount": 3.5,
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		w = doJSON(t, router, http.MethodGet, "/api/budgets/"+budgetID, token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var budget struct {
			Expenses []map[string]any `json:"expenses"`
		}
		decodeBody(t, w, &budget)
		if len(budget.Expenses) != 1 || budget.Expenses[0]["name"] != "Milk" {
			t.Errorf("Unexpected expenses: %v", budget.Expenses)
		}
	})

	t.Run("delete empties the list", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/api/budgets/"+budgetID, token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		w = doJSON(t, router, http.MethodGet, "/api/budgets", token, nil)
		var budgets []map[string]any
		decodeBody(t, w, &budgets)
		if budgets == nil || len(budgets) != 0 {
			t.Errorf("Expected an empty array, got %s", w.Body.String())
		}
	})
}

func TestBudgetOwnership(t *testing.T) {
	router, sender := newTestRouter(t)
	aliceToken := signUp(t, router, sender, "Alice", "alice@example.com", "password123")
	bobToken := signUp(t, router, sender, "Bob", "bob@example.com", "password456")

	budgetID := createBudget(t, router, aliceToken, "Groceries", 500)

	for _, tc := range []struct {
		name   string
		method string
		body   any
	}{
		{"read", http.MethodGet, nil},
		{"update", http.MethodPut, gin.H{"name": "Hijacked", "amount": 1}},
		{"delete", http.MethodDelete, nil},
	} {
		t.Run(tc.name+" someone else's budget", func(t *testing.T) {
			w := doJSON(t, router, tc.method, "/api/budgets/"+budgetID, bobToken, tc.body)
			if w.Code != http.StatusForbidden {
				t.Errorf("Expected 403, got %d: %s", w.Code, w.Body.String())
			}
		})
	}

	t.Run("budget survives untouched", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/budgets/"+budgetID, aliceToken, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var budget map[string]any
		decodeBody(t, w, &budget)
		if budget["name"] != "Groceries" {
			t.Errorf("Budget was modified: %v", budget)
		}
	})

	t.Run("malformed budget id", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/budgets/not-a-uuid", aliceToken, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("unknown budget id", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/budgets/"+uuid.NewString(), aliceToken, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestExpenseNesting(t *testing.T) {
	router, sender := newTestRouter(t)
	token := signUp(t, router, sender, "Alice", "alice@example.com", "password123")

	groceries := createBudget(t, router, token, "Groceries", 500)
	travel := createBudget(t, router, token, "Travel", 2000)

	w := doJSON(t, router, http.MethodPost, "/api/budgets/"+groceries+"/expenses", token, gin.H{
		"name": "Milk", "amount": 3.5,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var expense struct {
		ID string `json:"id"`
	}
	decodeBody(t, w, &expense)

	t.Run("read and update through the owning budget", func(t *testing.T) {
		path := "/api/budgets/" + groceries + "/expenses/" + expense.ID

		w := doJSON(t, router, http.MethodGet, path, token, nil)
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		w = doJSON(t, router, http.MethodPut, path, token, gin.H{
			"name": "Oat milk", "amount": 4.25,
		})
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("expense through the wrong budget path", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/budgets/"+travel+"/expenses/"+expense.ID, token, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("malformed expense id", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/budgets/"+groceries+"/expenses/not-a-uuid", token, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("unknown expense id", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/budgets/"+groceries+"/expenses/"+uuid.NewString(), token, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("delete", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/api/budgets/"+groceries+"/expenses/"+expense.ID, token, nil)
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		w = doJSON(t, router, http.MethodGet, "/api/budgets/"+groceries+"/expenses/"+expense.ID, token, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404 after delete, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestValidation(t *testing.T) {
	router, sender := newTestRouter(t)

	t.Run("register with bad fields", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/auth/create-account", "", gin.H{
			"name": "", "email": "not-an-email", "password": "short",
		})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}

		var resp struct {
			Errors map[string]string `json:"errors"`
		}
		decodeBody(t, w, &resp)
		for _, field := range []string{"name", "email", "password"} {
			if resp.Errors[field] == "" {
				t.Errorf("Expected a message for %q, got %v", field, resp.Errors)
			}
		}
	})

	t.Run("confirmation code of the wrong length", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/auth/confirm-account", "", gin.H{
			"token": "123",
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("reset with a short token in the path", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/auth/reset-password/123", "", gin.H{
			"password": "password123",
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("budget without a positive amount", func(t *testing.T) {
		token := signUp(t, router, sender, "Alice", "alice@example.com", "password123")
		w := doJSON(t, router, http.MethodPost, "/api/budgets", token, gin.H{
			"name": "Groceries", "amount": 0,
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestPasswordRecoveryFlow(t *testing.T) {
	router, sender := newTestRouter(t)
	signUp(t, router, sender, "Alice", "alice@example.com", "old-password")

	w := doJSON(t, router, http.MethodPost, "/api/auth/forgot-password", "", gin.H{
		"email": "alice@example.com",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resetToken := sender.lastToken(t)

	w = doJSON(t, router, http.MethodPost, "/api/auth/validate-token", "", gin.H{
		"token": resetToken,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/auth/reset-password/"+resetToken, "", gin.H{
		"password": "new-password",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "old-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with the old password, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "new-password",
	})
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 with the new password, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPasswordEndpoints(t *testing.T) {
	router, sender := newTestRouter(t)
	token := signUp(t, router, sender, "Alice", "alice@example.com", "password123")

	t.Run("check password", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/auth/check-password", token, gin.H{
			"password": "password123",
		})
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		w = doJSON(t, router, http.MethodPost, "/api/auth/check-password", token, gin.H{
			"password": "wrong-password",
		})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("update password rejects a wrong current password", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/auth/update-password", token, gin.H{
			"current_password": "wrong-password", "password": "brand-new-password",
		})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("update password", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/auth/update-password", token, gin.H{
			"current_password": "password123", "password": "brand-new-password",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		w = doJSON(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
			"email": "alice@example.com", "password": "brand-new-password",
		})
		if w.Code != http.StatusOK {
			t.Errorf("Expected login with the new password to succeed, got %d: %s", w.Code, w.Body.String())
		}
	})
}
