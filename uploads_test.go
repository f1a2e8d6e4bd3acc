package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mmdatafocus/gmcalc_backend/workflow"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// multipartFile builds a multipart body with a single file part carrying
// the given content type.
func multipartFile(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

// emptyMultipart builds a well-formed multipart body with no file parts.
func emptyMultipart(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func postUpload(t *testing.T, route string, handler gin.HandlerFunc, url string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.POST(route, handler)
	req := httptest.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return resp["error"]
}

func TestMonthlyUploadRejectsMissingFile(t *testing.T) {
	clock := workflow.SystemClock
	handlers := map[string]gin.HandlerFunc{
		"staffing": uploadStaffingHandler(clock),
		"salary":   uploadSalaryHandler(clock),
		"revenue":  uploadRevenueHandler(clock),
	}
	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			body, contentType := emptyMultipart(t)
			rec := postUpload(t, "/upload", handler, "/upload", body, contentType)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if msg := errorMessage(t, rec); msg != msgMissingFile {
				t.Errorf("error: got %q, want %q", msg, msgMissingFile)
			}
		})
	}
}

func TestMonthlyUploadRejectsNonExcelFile(t *testing.T) {
	body, contentType := multipartFile(t, "file", "staffing.txt", "text/plain", []byte("not a workbook"))
	rec := postUpload(t, "/upload", uploadStaffingHandler(workflow.SystemClock), "/upload", body, contentType)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if msg := errorMessage(t, rec); msg != msgInvalidFileType {
		t.Errorf("error: got %q, want %q", msg, msgInvalidFileType)
	}
}

func TestProjectSheetsUploadRequiresAllThreeFiles(t *testing.T) {
	body, contentType := emptyMultipart(t)
	rec := postUpload(t, "/projects/:id/upload-sheets", uploadProjectSheetsHandler(), "/projects/1/upload-sheets", body, contentType)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if msg := errorMessage(t, rec); msg != msgMissingThree {
		t.Errorf("error: got %q, want %q", msg, msgMissingThree)
	}
}

func TestProjectSheetsUploadRejectsNonExcelFile(t *testing.T) {
	body, contentType := multipartFile(t, "file1", "finance.txt", "text/plain", []byte("not a workbook"))
	rec := postUpload(t, "/projects/:id/upload-sheets", uploadProjectSheetsHandler(), "/projects/1/upload-sheets", body, contentType)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if msg := errorMessage(t, rec); msg != msgInvalidFileType {
		t.Errorf("error: got %q, want %q", msg, msgInvalidFileType)
	}
}
