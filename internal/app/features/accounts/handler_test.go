package accounts_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/workifyhq/workify/internal/app/features/accounts"
	"github.com/workifyhq/workify/internal/app/system/ratelimit"
	"github.com/workifyhq/workify/internal/domain/models"
	"github.com/workifyhq/workify/internal/testutil"
)

func newRouter(t *testing.T) (*testutil.Corpus, chi.Router) {
	t.Helper()
	c := testutil.NewCorpus(t)
	h := accounts.NewHandler(c.Users, ratelimit.NewLoginLimiter(), zap.NewNop())
	return c, accounts.Routes(h, c.Users)
}

func TestRegister(t *testing.T) {
	_, r := newRouter(t)

	body := `{"username":"alice","name":"Alice","surname":"Smith","password":"password123","role":"VOLUNTEER","skills":["first-aid"]}`
	req := httptest.NewRequest("POST", "/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("register: got status %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	// Duplicate registration is a conflict, not an overwrite.
	req = httptest.NewRequest("POST", "/register", strings.NewReader(body))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register: got status %d, want 409", rec.Code)
	}
}

func TestRegister_Validation(t *testing.T) {
	_, r := newRouter(t)

	for name, body := range map[string]string{
		"short username": `{"username":"al","password":"password123","role":"VOLUNTEER"}`,
		"short password": `{"username":"alice","password":"pw","role":"VOLUNTEER"}`,
		"bad role":       `{"username":"alice","password":"password123","role":"ADMIN"}`,
		"not json":       `username=alice`,
	} {
		req := httptest.NewRequest("POST", "/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: got status %d, want 400", name, rec.Code)
		}
	}
}

func TestLogin_RotatesToken(t *testing.T) {
	c, r := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	registered := c.CreateUser(ctx, "alice", models.RoleVolunteer, "password123")

	req := httptest.NewRequest("POST", "/login", nil)
	req.SetBasicAuth("alice", "password123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login: got status %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		Status   string `json:"status"`
		Username string `json:"username"`
		Role     string `json:"role"`
		Token    string `json:"token"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Username != "alice" || resp.Role != "VOLUNTEER" {
		t.Errorf("login identity: got %s/%s", resp.Username, resp.Role)
	}
	if !strings.HasPrefix(resp.Token, "vol_") {
		t.Errorf("token: got %q, want vol_ prefix", resp.Token)
	}
	if resp.Token == registered.Token {
		t.Error("login did not rotate the bearer token")
	}

	// The issued token resolves back to alice.
	u, err := c.Users.FindByToken(ctx, resp.Token)
	if err != nil {
		t.Fatalf("issued token does not resolve: %v", err)
	}
	if u.Username != "alice" || u.Role != models.RoleVolunteer {
		t.Errorf("token resolves to %s/%s, want alice/VOLUNTEER", u.Username, u.Role)
	}
}

func TestLogin_WrongPasswordKeepsToken(t *testing.T) {
	c, r := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	registered := c.CreateUser(ctx, "alice", models.RoleVolunteer, "password123")

	req := httptest.NewRequest("POST", "/login", nil)
	req.SetBasicAuth("alice", "wrong-password")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: got status %d, want 401", rec.Code)
	}

	// A failed login must not rotate the victim's token.
	u, err := c.Users.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if u.Token != registered.Token {
		t.Error("failed login rotated the stored token")
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	_, r := newRouter(t)

	req := httptest.NewRequest("POST", "/login", nil)
	req.SetBasicAuth("ghost", "password123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown user: got status %d, want 401", rec.Code)
	}

	req = httptest.NewRequest("POST", "/login", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing credentials: got status %d, want 401", rec.Code)
	}
}

func TestLogin_Throttled(t *testing.T) {
	c := testutil.NewCorpus(t)
	limits := ratelimit.NewLoginLimiterWithConfig(100, time.Minute, 2, time.Minute)
	h := accounts.NewHandler(c.Users, limits, zap.NewNop())
	r := accounts.Routes(h, c.Users)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	c.CreateUser(ctx, "alice", models.RoleVolunteer, "password123")

	attempt := func(password string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/login", nil)
		req.SetBasicAuth("alice", password)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	attempt("wrong")
	attempt("wrong")
	if rec := attempt("password123"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("throttled login: got status %d, want 429", rec.Code)
	}

	// The window blocks before any credential work, so the stored token
	// is untouched.
	u, err := c.Users.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if u.Token == "" {
		t.Error("stored token lost during throttling")
	}
}

func TestProfile(t *testing.T) {
	c, r := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	alice := c.CreateVolunteer(ctx, "alice")

	req := httptest.NewRequest("GET", "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+alice.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("profile: got status %d, want 200", rec.Code)
	}
	var resp map[string]any
	testutil.DecodeJSON(t, rec, &resp)
	if resp["username"] != "alice" {
		t.Errorf("username: got %v", resp["username"])
	}
	// Credentials never leave the service.
	for _, secret := range []string{"password_hash", "salt", "token"} {
		if _, leaked := resp[secret]; leaked {
			t.Errorf("profile response leaks %q", secret)
		}
	}

	req = httptest.NewRequest("GET", "/profile", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("profile without token: got status %d, want 401", rec.Code)
	}
}

func TestUpdateProfile(t *testing.T) {
	c, r := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	alice := c.CreateVolunteer(ctx, "alice")

	body := `{"name":"Alicia","skills":["gardening"]}`
	req := httptest.NewRequest("PATCH", "/profile", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+alice.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("update profile: got status %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	testutil.DecodeJSON(t, rec, &resp)
	if resp["name"] != "Alicia" {
		t.Errorf("name: got %v, want Alicia", resp["name"])
	}
	// Untouched field survives.
	if resp["surname"] != "alice" {
		t.Errorf("surname: got %v, want alice", resp["surname"])
	}

	stored, err := c.Users.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Name != "Alicia" {
		t.Errorf("stored name: got %q, want Alicia", stored.Name)
	}
	if len(stored.Skills) != 1 || stored.Skills[0] != "gardening" {
		t.Errorf("stored skills: got %v", stored.Skills)
	}
}

func TestChangePassword(t *testing.T) {
	c, r := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	alice := c.CreateUser(ctx, "alice", models.RoleVolunteer, "password123")

	// Wrong old password: 401, credentials untouched.
	req := httptest.NewRequest("POST", "/password",
		strings.NewReader(`{"old_password":"nope","new_password":"brand-new-pass"}`))
	req.Header.Set("Authorization", "Bearer "+alice.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong old password: got status %d, want 401", rec.Code)
	}

	// Correct old password.
	req = httptest.NewRequest("POST", "/password",
		strings.NewReader(`{"old_password":"password123","new_password":"brand-new-pass"}`))
	req.Header.Set("Authorization", "Bearer "+alice.Token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("change password: got status %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	mgr := c.Users.Manager("alice", models.RoleVolunteer)
	if !mgr.Verify(ctx, "brand-new-pass") {
		t.Error("new password does not verify after change")
	}
	if mgr.Verify(ctx, "password123") {
		t.Error("old password still verifies after change")
	}
}
