package controller

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func formContext(t *testing.T, body string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/v1/media/upload", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c
}

func TestResolveUploadID(t *testing.T) {
	// A client-supplied id is honored so the progress endpoint can be polled
	// while the synchronous upload is still running.
	supplied := uuid.New().String()
	c := formContext(t, "upload_id="+supplied)
	id, err := resolveUploadID(c)
	if err != nil {
		t.Fatalf("resolveUploadID() error: %v", err)
	}
	if id != supplied {
		t.Errorf("resolveUploadID() = %q, want client-supplied %q", id, supplied)
	}

	// Without one, a fresh id is generated.
	c = formContext(t, "")
	id, err = resolveUploadID(c)
	if err != nil {
		t.Fatalf("resolveUploadID() error: %v", err)
	}
	if _, parseErr := uuid.Parse(id); parseErr != nil {
		t.Errorf("generated id %q is not a uuid", id)
	}

	// A malformed id is rejected rather than silently replaced.
	c = formContext(t, "upload_id=not-a-uuid")
	if _, err := resolveUploadID(c); err == nil {
		t.Error("resolveUploadID() accepted a malformed id")
	}
}

func TestParseProgress(t *testing.T) {
	percent, err := parseProgress("42")
	if err != nil {
		t.Fatalf("parseProgress(42) error: %v", err)
	}
	if percent != 42 {
		t.Errorf("parseProgress(42) = %d", percent)
	}

	if _, err := parseProgress("garbage"); err == nil {
		t.Error("parseProgress accepted a corrupt value")
	}
}
