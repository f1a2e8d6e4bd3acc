package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mmdatafocus/gmcalc_backend/utils"
)

func TestCustomErrorLoggerIncludesCorrelationId(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := utils.SetCorrelationIdInContext(c.Request.Context(), "cid-123")
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	r.Use(customErrorLogger(logger))
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.Status(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["correlation_id"] != "cid-123" {
		t.Errorf("correlation_id: got %v, want cid-123", entry["correlation_id"])
	}
	msg, _ := entry["msg"].(string)
	if !strings.Contains(msg, "boom") {
		t.Errorf("log message %q does not mention the handler error", msg)
	}
}
