package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lumenfilms/lumen-media-service/config"
)

func testRouter(cfg *config.EnvConfig) (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var seenUserID string
	r.GET("/protected", AuthMiddleware(cfg), func(c *gin.Context) {
		seenUserID = c.GetString("user_id")
		c.Status(http.StatusOK)
	})
	return r, &seenUserID
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.EnvConfig{}
	cfg.JWT.SecretKey = "test-secret"
	userID := uuid.New().String()

	valid := signToken(t, cfg.JWT.SecretKey, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	wrongKey := signToken(t, "other-secret", jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	badClaims := signToken(t, cfg.JWT.SecretKey, jwt.MapClaims{
		"user_id": "not-a-uuid",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name       string
		setup      func(req *http.Request)
		wantStatus int
	}{
		{
			name:       "missing token",
			setup:      func(req *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "bearer header",
			setup: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+valid)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "cookie token",
			setup: func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: valid})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "query token",
			setup: func(req *http.Request) {
				q := req.URL.Query()
				q.Set("access_token", valid)
				req.URL.RawQuery = q.Encode()
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "wrong signing key",
			setup: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+wrongKey)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "non-uuid user_id claim",
			setup: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+badClaims)
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, seenUserID := testRouter(cfg)
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			tt.setup(req)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus == http.StatusOK && *seenUserID != userID {
				t.Errorf("injected user_id = %q, want %q", *seenUserID, userID)
			}
		})
	}
}
