package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/nexusarena/tournament-service/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testSecret = []byte("auth-test-secret")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticator(t *testing.T) {
	userID := primitive.NewObjectID()
	valid := signToken(t, testSecret, jwt.MapClaims{
		"user_id": userID.Hex(),
		"role":    string(models.RoleUser),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	expired := signToken(t, testSecret, jwt.MapClaims{
		"user_id": userID.Hex(),
		"role":    string(models.RoleUser),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, []byte("some-other-secret"), jwt.MapClaims{
		"user_id": userID.Hex(),
		"role":    string(models.RoleUser),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	cases := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong signing key", "Bearer " + wrongKey, http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
	}

	handler := Authenticator(testSecret)(okHandler())
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tc.wantStatus)
			}
			if tc.wantStatus != http.StatusOK && !strings.Contains(rec.Body.String(), `"message"`) {
				t.Errorf("error body missing message envelope: %s", rec.Body.String())
			}
		})
	}
}

func TestAuthenticatorExposesClaims(t *testing.T) {
	userID := primitive.NewObjectID()
	token := signToken(t, testSecret, jwt.MapClaims{
		"user_id": userID.Hex(),
		"role":    string(models.RoleAdmin),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	var gotID primitive.ObjectID
	var gotRole models.UserRole
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		gotID, err = GetUserIDFromContext(r.Context())
		if err != nil {
			t.Errorf("GetUserIDFromContext: %v", err)
		}
		gotRole, err = GetUserRoleFromContext(r.Context())
		if err != nil {
			t.Errorf("GetUserRoleFromContext: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	Authenticator(testSecret)(inner).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if gotID != userID {
		t.Errorf("user id: got %s, want %s", gotID.Hex(), userID.Hex())
	}
	if gotRole != models.RoleAdmin {
		t.Errorf("role: got %q, want admin", gotRole)
	}
}

func TestAuthorize(t *testing.T) {
	makeToken := func(role models.UserRole) string {
		return signToken(t, testSecret, jwt.MapClaims{
			"user_id": primitive.NewObjectID().Hex(),
			"role":    string(role),
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
	}

	cases := []struct {
		name       string
		role       models.UserRole
		allowed    []models.UserRole
		wantStatus int
	}{
		{"admin allowed", models.RoleAdmin, []models.UserRole{models.RoleAdmin}, http.StatusOK},
		{"user forbidden", models.RoleUser, []models.UserRole{models.RoleAdmin}, http.StatusForbidden},
		{"user allowed among several", models.RoleUser, []models.UserRole{models.RoleAdmin, models.RoleUser}, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := Authenticator(testSecret)(Authorize(tc.allowed...)(okHandler()))
			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set("Authorization", "Bearer "+makeToken(tc.role))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}

func TestAuthorizeWithoutAuthentication(t *testing.T) {
	handler := Authorize(models.RoleAdmin)(okHandler())
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
