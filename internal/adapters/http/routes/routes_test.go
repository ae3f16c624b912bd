package routes

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "shelfwise/docs"
	"shelfwise/internal/adapters/persistence/models"
	"shelfwise/internal/config"
	"shelfwise/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))

	cfg := &config.Config{
		AppMode:   "dev",
		UploadDir: t.TempDir(),
		Session:   config.SessionConfig{TTLHours: 24},
		Cookie:    config.CookieConfig{SameSite: "Lax"},
	}
	config.AppConfig = cfg

	app := fiber.New()
	Setup(app, db, cfg)
	return app, db
}

func seedMember(t *testing.T, db *gorm.DB, username, email, role string) *models.User {
	t.Helper()

	hashed, err := password.Hash("password123")
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashed,
		Role:     role,
		Level:    1,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// login returns the session cookie for the given account
func login(t *testing.T, app *fiber.App, email string) *http.Cookie {
	t.Helper()

	resp, err := app.Test(jsonRequest("POST", "/login",
		fmt.Sprintf(`{"email":%q,"password":"password123"}`, email)), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == "session_token" {
			require.True(t, c.HttpOnly)
			return c
		}
	}
	t.Fatal("no session cookie in login response")
	return nil
}

func TestRegisterLoginLogout(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonRequest("POST", "/register",
		`{"username":"alice","email":"alice@test.local","password":"password123"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	cookie := login(t, app, "alice@test.local")

	// Session works
	req := httptest.NewRequest("GET", "/profile", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Logout kills it
	req = httptest.NewRequest("GET", "/logout", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/profile", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProfileRequiresAuth(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/profile", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBorrowReturnFlow(t *testing.T) {
	app, db := newTestApp(t)

	seedMember(t, db, "alice", "alice@test.local", models.RoleMember)
	book := &models.Book{
		Title:  "Dune",
		Author: "Frank Herbert",
		Copies: []models.BookCopy{{IsAvailable: true}},
	}
	require.NoError(t, db.Create(book).Error)

	cookie := login(t, app, "alice@test.local")

	// Borrow redirects to the profile page
	req := httptest.NewRequest("POST", fmt.Sprintf("/book/%d/borrow", book.ID), nil)
	req.AddCookie(cookie)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/profile", resp.Header.Get("Location"))

	// A second borrow finds the shelf empty
	req = httptest.NewRequest("POST", fmt.Sprintf("/book/%d/borrow", book.ID), nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var loan models.Loan
	require.NoError(t, db.First(&loan).Error)

	// Return redirects back to the profile too
	req = httptest.NewRequest("POST", fmt.Sprintf("/return/%d", loan.ID), nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	// Returning again reports the loan as closed
	req = httptest.NewRequest("POST", fmt.Sprintf("/return/%d", loan.ID), nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestBookDetailPublic(t *testing.T) {
	app, db := newTestApp(t)

	book := &models.Book{Title: "Dune", Author: "Frank Herbert"}
	require.NoError(t, db.Create(book).Error)

	resp, err := app.Test(httptest.NewRequest("GET", fmt.Sprintf("/book/%d", book.ID), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Book struct {
				Title string `json:"title"`
			} `json:"book"`
			Stock int64 `json:"stock"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "Dune", envelope.Data.Book.Title)
	assert.Zero(t, envelope.Data.Stock)

	resp, err = app.Test(httptest.NewRequest("GET", "/book/9999", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminGate(t *testing.T) {
	app, db := newTestApp(t)

	seedMember(t, db, "alice", "alice@test.local", models.RoleMember)
	seedMember(t, db, "root", "root@test.local", models.RoleAdmin)

	// Members are turned away from the dashboard
	memberCookie := login(t, app, "alice@test.local")
	req := httptest.NewRequest("GET", "/admin/", nil)
	req.AddCookie(memberCookie)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Admins get in
	adminCookie := login(t, app, "root@test.local")
	req = httptest.NewRequest("GET", "/admin/", nil)
	req.AddCookie(adminCookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// And can manage stock
	book := &models.Book{Title: "Dune", Author: "Frank Herbert"}
	require.NoError(t, db.Create(book).Error)

	req = httptest.NewRequest("POST", fmt.Sprintf("/admin/book/%d/add-copy", book.ID), nil)
	req.AddCookie(adminCookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var copies int64
	require.NoError(t, db.Model(&models.BookCopy{}).Where("book_id = ?", book.ID).Count(&copies).Error)
	assert.EqualValues(t, 1, copies)
}

func TestSwaggerDocServed(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/swagger/doc.json", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var doc struct {
		Swagger string `json:"swagger"`
		Info    struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(body, &doc))

	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "Shelfwise Library API", doc.Info.Title)
	assert.Contains(t, doc.Paths, "/books")
	assert.Contains(t, doc.Paths, "/book/{id}/borrow")
	assert.Contains(t, doc.Paths, "/admin")
}
