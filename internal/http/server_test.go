package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"hrtool/internal/cache"
	"hrtool/internal/charts"
	"hrtool/internal/dataset"
	"hrtool/internal/dataset/memory"
	"hrtool/internal/log"
	"hrtool/internal/services"
)

func newTestServer(t *testing.T, opts Options) (*Server, *memory.Store) {
	t.Helper()
	logger := log.New(log.Config{Level: slog.LevelError, Handler: slog.NewTextHandler(io.Discard, nil)})
	backend := memory.New()
	dash := cache.NewLRUCache[charts.Dashboard](8, time.Minute)
	svc := services.NewEmployeeService(dataset.NewStore(backend), nil, dash, logger)

	opts.Logger = logger
	if opts.DatasetLocation == "" {
		opts.DatasetLocation = "data/hr_dataset.csv"
	}
	opts.Now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }

	s, err := NewServer(":0", svc, opts)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	t.Cleanup(func() { s.rateLimiter.Stop() })
	if s.templates == nil {
		t.Fatal("templates not loaded")
	}
	return s, backend
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler.ServeHTTP(w, req)
	return w
}

func multipartRequest(t *testing.T, target, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func employeeForm(first, last string) url.Values {
	return url.Values{
		"first_name":     {first},
		"last_name":      {last},
		"residence":      {"Ticino"},
		"department":     {"IT"},
		"seniority":      {"Mid"},
		"age":            {"35"},
		"workload":       {"80"},
		"vacation_taken": {"4"},
		"hire_date":      {"2024-03-01"},
	}
}

func assertContains(t *testing.T, body string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(body, p) {
			t.Errorf("body missing %q", p)
		}
	}
}

func TestServer_IndexEmpty(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	w := do(t, s, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	assertContains(t, w.Body.String(),
		"Upload or Manage Data",
		"Current Data Preview",
		"Rows: 0",
		"➕ Add New Employee",
		"Vacation entitlement at 60%: 15 days",
		`value="2025-06-01"`,
	)
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected request id header")
	}
	if w.Header().Get("Content-Security-Policy") == "" {
		t.Error("expected security headers")
	}
}

func TestServer_Upload(t *testing.T) {
	s, backend := newTestServer(t, Options{})

	csv := "First Name,Last Name,Department,Notes\nAnna,Rossi,IT,x\n"
	w := do(t, s, multipartRequest(t, "/upload", "file", "people.csv", []byte(csv)))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	assertContains(t, w.Body.String(),
		"Uploaded file missing columns: [&#39;Age&#39;, &#39;Hire Date&#39;, &#39;Residence&#39;",
		"File uploaded and saved to data/hr_dataset.csv",
	)
	if !strings.Contains(w.Header().Get("HX-Trigger"), `"dataset:changed":{"rows":1}`) {
		t.Errorf("HX-Trigger = %s", w.Header().Get("HX-Trigger"))
	}

	raw, _ := backend.Read(context.Background())
	if len(raw.Header) != 10 || raw.Len() != 1 {
		t.Fatalf("stored table = %+v", raw)
	}

	preview := do(t, s, httptest.NewRequest(http.MethodGet, "/ui/preview", nil))
	assertContains(t, preview.Body.String(), "Anna", "Rows: 1")
}

func TestServer_UploadErrors(t *testing.T) {
	s, _ := newTestServer(t, Options{UploadLimit: 256})

	w := do(t, s, multipartRequest(t, "/upload", "", "", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("no file: status = %d", w.Code)
	}

	big := bytes.Repeat([]byte("a,b\n"), 200)
	w = do(t, s, multipartRequest(t, "/upload", "file", "big.csv", big))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("too large: status = %d", w.Code)
	}

	w = do(t, s, multipartRequest(t, "/upload", "file", "notes.txt", []byte("hello")))
	if w.Code != http.StatusBadRequest {
		t.Errorf("unsupported: status = %d", w.Code)
	}

	w = do(t, s, multipartRequest(t, "/upload", "file", "empty.csv", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty: status = %d", w.Code)
	}
}

func TestServer_AddEmployee(t *testing.T) {
	s, backend := newTestServer(t, Options{})

	w := do(t, s, postForm("/employees", employeeForm("", "Rossi")))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", w.Code)
	}
	assertContains(t, w.Body.String(), "First Name and Last Name are required.")
	if backend.Writes() != 0 {
		t.Fatal("invalid form must not write")
	}

	w = do(t, s, postForm("/employees", employeeForm("Anna", "Rossi")))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	assertContains(t, w.Body.String(), "Employee Anna Rossi added. Total rows: 1")
	trigger := w.Header().Get("HX-Trigger")
	assertContains(t, trigger, `"dataset:changed"`, `"form:reset"`)

	raw, _ := backend.Read(context.Background())
	if got := strings.Join(raw.Rows[0], ","); got != "Anna,Rossi,Ticino,35,IT,Mid,80%,20,4,2024-03-01" {
		t.Errorf("stored row = %s", got)
	}

	over := employeeForm("Luca", "Bianchi")
	over.Set("vacation_taken", "21")
	w = do(t, s, postForm("/employees", over))
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("vacation over entitlement: status = %d", w.Code)
	}

	bad := employeeForm("Luca", "Bianchi")
	bad.Set("age", "abc")
	w = do(t, s, postForm("/employees", bad))
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad age: status = %d", w.Code)
	}
}

func TestServer_Entitlement(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	w := do(t, s, httptest.NewRequest(http.MethodGet, "/ui/entitlement?workload=90&vacation_taken=30", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	assertContains(t, w.Body.String(), "Vacation entitlement at 90%: 22 days", `max="22"`, `value="22"`)
}

func TestServer_PreviewShowAll(t *testing.T) {
	s, _ := newTestServer(t, Options{PreviewRows: 1})
	for _, name := range []string{"Anna", "Luca"} {
		if w := do(t, s, postForm("/employees", employeeForm(name, "Rossi"))); w.Code != http.StatusOK {
			t.Fatalf("add %s: status = %d", name, w.Code)
		}
	}

	head := do(t, s, httptest.NewRequest(http.MethodGet, "/ui/preview", nil)).Body.String()
	if strings.Contains(head, "Luca") || !strings.Contains(head, "Rows: 2") {
		t.Errorf("head preview should show one row of two")
	}
	all := do(t, s, httptest.NewRequest(http.MethodGet, "/ui/preview?all=1", nil)).Body.String()
	assertContains(t, all, "Anna", "Luca")
}

func TestServer_Visualizations(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	w := do(t, s, httptest.NewRequest(http.MethodGet, "/visualizations", nil))
	assertContains(t, w.Body.String(), "HR Visualizations", "No data available. Upload or add employees in the Data tab.")

	do(t, s, postForm("/employees", employeeForm("Anna", "Rossi")))
	hr := employeeForm("Luca", "Bianchi")
	hr.Set("department", "HR")
	do(t, s, postForm("/employees", hr))

	w = do(t, s, httptest.NewRequest(http.MethodGet, "/visualizations", nil))
	body := w.Body.String()
	assertContains(t, body, "Headcount by Department", "Age Distribution", "Vacation Days Taken by Department", `id="dashboard-data"`)
	if strings.Contains(body, "No data available") {
		t.Error("unexpected empty state")
	}

	w = do(t, s, httptest.NewRequest(http.MethodGet, "/api/dashboard?department=IT", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var d charts.Dashboard
	if err := json.Unmarshal(w.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.KPIs.Headcount != 1 || d.Total != 2 || d.KPIs.AvgWorkload != "80%" {
		t.Errorf("dashboard = %+v", d.KPIs)
	}
}

func TestServer_Export(t *testing.T) {
	s, _ := newTestServer(t, Options{})
	do(t, s, postForm("/employees", employeeForm("Anna", "Rossi")))

	w := do(t, s, httptest.NewRequest(http.MethodGet, "/export.csv", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	assertContains(t, w.Body.String(), "First Name,Last Name,Residence,Age", "Anna,Rossi")
	assertContains(t, w.Header().Get("Content-Disposition"), "hr_dataset.csv")

	w = do(t, s, httptest.NewRequest(http.MethodGet, "/export.xlsx", nil))
	if w.Code != http.StatusOK || !bytes.HasPrefix(w.Body.Bytes(), []byte("PK")) {
		t.Errorf("xlsx export: status = %d", w.Code)
	}
}

func TestServer_Assistant(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	w := do(t, s, httptest.NewRequest(http.MethodGet, "/assistant", nil))
	assertContains(t, w.Body.String(), "HR Assistant (RAG - Mock)", "Step 1: Upload a PDF", "Please upload a PDF to continue.")

	w = do(t, s, multipartRequest(t, "/assistant/upload", "document", "policy.txt", []byte("%PDF-1.4")))
	if w.Code != http.StatusBadRequest {
		t.Errorf("wrong extension: status = %d", w.Code)
	}
	w = do(t, s, multipartRequest(t, "/assistant/upload", "document", "fake.pdf", []byte("hello")))
	if w.Code != http.StatusBadRequest {
		t.Errorf("wrong magic: status = %d", w.Code)
	}

	w = do(t, s, multipartRequest(t, "/assistant/upload", "document", "policy.pdf", []byte("%PDF-1.4\n...")))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	assertContains(t, w.Body.String(), "📄 Uploaded: policy.pdf", assistantUploaded, "Step 2: (Mock) Ask a question")

	w = do(t, s, postForm("/assistant/ask", url.Values{"question": {"How many days?"}}))
	assertContains(t, w.Body.String(), assistantNeedsPDF)

	w = do(t, s, postForm("/assistant/ask", url.Values{"document": {"policy.pdf"}, "question": {"How many days?"}}))
	assertContains(t, w.Body.String(), assistantMockAnswer)

	w = do(t, s, postForm("/assistant/ask", url.Values{"document": {"policy.pdf"}}))
	if w.Code != http.StatusOK || w.Body.Len() != 0 {
		t.Errorf("empty question: status = %d body = %q", w.Code, w.Body.String())
	}

	long := strings.Repeat("why ", askBodyLimit/4+1)
	w = do(t, s, postForm("/assistant/ask", url.Values{"document": {"policy.pdf"}, "question": {long}}))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized question: status = %d", w.Code)
	}
	assertContains(t, w.Body.String(), "Question is too long.")
}

func TestServer_HealthAndRouting(t *testing.T) {
	s, _ := newTestServer(t, Options{})

	if w := do(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil)); w.Code != http.StatusOK {
		t.Errorf("healthz status = %d", w.Code)
	}

	w := do(t, s, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("readyz status = %d body = %s", w.Code, w.Body.String())
	}
	var ready map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &ready); err != nil || ready["status"] != "ready" {
		t.Errorf("readyz = %s", w.Body.String())
	}

	if w := do(t, s, httptest.NewRequest(http.MethodGet, "/metrics", nil)); w.Code != http.StatusOK {
		t.Errorf("metrics status = %d", w.Code)
	}
	if w := do(t, s, httptest.NewRequest(http.MethodGet, "/static/style.css", nil)); w.Code != http.StatusOK {
		t.Errorf("static status = %d", w.Code)
	}
	if w := do(t, s, httptest.NewRequest(http.MethodGet, "/missing", nil)); w.Code != http.StatusNotFound {
		t.Errorf("unknown path status = %d", w.Code)
	}
	if w := do(t, s, httptest.NewRequest(http.MethodGet, "/upload", nil)); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /upload status = %d", w.Code)
	}
}

func TestServer_RateLimitsPosts(t *testing.T) {
	s, _ := newTestServer(t, Options{RateLimit: 2})

	for i := 0; i < 2; i++ {
		do(t, s, postForm("/employees", employeeForm("", "")))
	}
	w := do(t, s, postForm("/employees", employeeForm("", "")))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", w.Code)
	}
	if w := do(t, s, httptest.NewRequest(http.MethodGet, "/", nil)); w.Code != http.StatusOK {
		t.Errorf("GET should not be limited, status = %d", w.Code)
	}
}
