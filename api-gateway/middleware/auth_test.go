package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/renkteks/kartela/pkg/auth"
)

func signToken(t *testing.T, role string, secret string) string {
	t.Helper()
	claims := auth.Claims{
		UserID:   7,
		Username: "operator",
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func newAdminGatedApp() *fiber.App {
	app := fiber.New()
	app.Get("/gateway/stats", AuthMiddleware(), AdminMiddleware(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func TestAdminRoute_RejectsMissingToken(t *testing.T) {
	app := newAdminGatedApp()

	req := httptest.NewRequest("GET", "/gateway/stats", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestAdminRoute_RejectsOperatorRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := newAdminGatedApp()

	req := httptest.NewRequest("GET", "/gateway/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "operator", "test-secret"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestAdminRoute_AllowsAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	app := newAdminGatedApp()

	req := httptest.NewRequest("GET", "/gateway/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "admin", "test-secret"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
