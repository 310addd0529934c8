package documents_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"mineaction-backend/internal/bootstrap"
	"mineaction-backend/internal/shared/config"
)

func buildTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
		MaxUploadBytes:  10 << 20,
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func multipartUpload(t *testing.T, content []byte, fileName, docType string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", "text/plain")
	fileWriter, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write(content); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if docType != "" {
		if err := writer.WriteField("type", docType); err != nil {
			t.Fatalf("write type field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "test-guest")
}

func TestDocumentsUploadAndFetch(t *testing.T) {
	router := buildTestRouter(t)

	body, contentType := multipartUpload(t, []byte("hello minefield survey"), "notes.txt", "FIELD_REPORT")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		Success    bool   `json:"success"`
		DocumentID string `json:"documentId"`
		Status     string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if !created.Success || created.DocumentID == "" {
		t.Fatalf("expected success with documentId, got %+v", created)
	}
	// No collaborator credentials in tests, so the single extraction attempt
	// fails and the document lands in FAILED. The upload itself succeeded.
	if created.Status != "FAILED" {
		t.Fatalf("expected FAILED status without collaborator, got %s", created.Status)
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+created.DocumentID, nil)
	addGuestHeader(reqGet)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)

	if respGet.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respGet.Code)
	}
	var fetched struct {
		Document struct {
			DocumentID    string         `json:"documentId"`
			Title         string         `json:"title"`
			Content       string         `json:"content"`
			Status        string         `json:"status"`
			ExtractedData map[string]any `json:"extractedData"`
		} `json:"document"`
	}
	if err := json.NewDecoder(respGet.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode document response: %v", err)
	}
	if fetched.Document.Title != "notes.txt" {
		t.Fatalf("expected title notes.txt, got %s", fetched.Document.Title)
	}
	if fetched.Document.Content != "hello minefield survey" {
		t.Fatalf("expected parsed content in document response, got %q", fetched.Document.Content)
	}
	if fetched.Document.ExtractedData["error"] != "AI extraction failed" {
		t.Fatalf("expected failure payload, got %v", fetched.Document.ExtractedData)
	}
}

func TestUploadRejectsInvalidType(t *testing.T) {
	router := buildTestRouter(t)

	body, contentType := multipartUpload(t, []byte("hello"), "notes.txt", "GROCERY_LIST")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestUploadOversizeReportsConfiguredLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
		MaxUploadBytes:  1 << 20,
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}

	payload := bytes.Repeat([]byte("a"), (1<<20)+4096)
	body, contentType := multipartUpload(t, payload, "big.txt", "FIELD_REPORT")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "maximum size is 1MB") {
		t.Fatalf("expected configured limit in message, got %s", resp.Body.String())
	}
}

func TestUploadRequiresIdentity(t *testing.T) {
	router := buildTestRouter(t)

	body, contentType := multipartUpload(t, []byte("hello"), "notes.txt", "FIELD_REPORT")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestStatusEndpointThrottlesPolling(t *testing.T) {
	router := buildTestRouter(t)

	body, contentType := multipartUpload(t, []byte("hello"), "notes.txt", "FIELD_REPORT")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var created struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	statusURL := "/api/v1/documents/" + created.DocumentID + "/status"

	first := httptest.NewRecorder()
	reqStatus := httptest.NewRequest(http.MethodGet, statusURL, nil)
	addGuestHeader(reqStatus)
	router.ServeHTTP(first, reqStatus)
	if first.Code != http.StatusOK {
		t.Fatalf("expected status 200 on first poll, got %d", first.Code)
	}
	var status struct {
		DocumentID string `json:"documentId"`
		Status     string `json:"status"`
	}
	if err := json.NewDecoder(first.Body).Decode(&status); err != nil {
		t.Fatalf("decode status response: %v", err)
	}
	if status.Status == "" {
		t.Fatalf("expected status in poll payload")
	}

	second := httptest.NewRecorder()
	reqAgain := httptest.NewRequest(http.MethodGet, statusURL, nil)
	addGuestHeader(reqAgain)
	router.ServeHTTP(second, reqAgain)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429 on rapid re-poll, got %d", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header on 429")
	}
}

func TestListAndDelete(t *testing.T) {
	router := buildTestRouter(t)

	body, contentType := multipartUpload(t, []byte("hello"), "notes.txt", "INCIDENT_LOG")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	var created struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	reqList := httptest.NewRequest(http.MethodGet, "/api/v1/documents?type=INCIDENT_LOG", nil)
	addGuestHeader(reqList)
	respList := httptest.NewRecorder()
	router.ServeHTTP(respList, reqList)
	if respList.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respList.Code)
	}
	var listed struct {
		Documents []struct {
			DocumentID string `json:"documentId"`
		} `json:"documents"`
	}
	if err := json.NewDecoder(respList.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed.Documents) != 1 || listed.Documents[0].DocumentID != created.DocumentID {
		t.Fatalf("expected uploaded document in list, got %+v", listed.Documents)
	}

	reqDel := httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+created.DocumentID, nil)
	addGuestHeader(reqDel)
	respDel := httptest.NewRecorder()
	router.ServeHTTP(respDel, reqDel)
	if respDel.Code != http.StatusOK {
		t.Fatalf("expected status 200 on delete, got %d", respDel.Code)
	}

	reqGone := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+created.DocumentID, nil)
	addGuestHeader(reqGone)
	respGone := httptest.NewRecorder()
	router.ServeHTTP(respGone, reqGone)
	if respGone.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 after delete, got %d", respGone.Code)
	}
}
