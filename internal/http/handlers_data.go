package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"hrtool/internal/core"
	"hrtool/internal/log"
	"hrtool/internal/middleware/security"
	"hrtool/internal/services"
	"hrtool/internal/tabfile"
)

type previewView struct {
	Columns []string
	Rows    [][]string
	Total   int
	ShowAll bool
}

type formView struct {
	Form            core.EmployeeForm
	HireDate        string
	Departments     []string
	SeniorityLevels []string
	Workloads       []int
	MinAge          int
	MaxAge          int
	Entitlement     entitlementView
}

type entitlementView struct {
	Caption       string
	Max           int
	VacationTaken int
}

type dataPage struct {
	Tab     string
	Preview previewView
	Form    formView
}

func (s *Server) today() core.Date {
	now := s.opts.Now()
	return core.NewDate(now.Year(), int(now.Month()), now.Day())
}

func (s *Server) preview(t core.Table, showAll bool) previewView {
	shown := t
	if !showAll {
		shown = t.Head(s.opts.PreviewRows)
	}
	return previewView{
		Columns: core.ColumnNames(),
		Rows:    shown.Raw().Rows,
		Total:   t.Len(),
		ShowAll: showAll,
	}
}

func newEntitlementView(workload, taken int) entitlementView {
	limit := core.Entitlement(workload)
	if taken > limit {
		taken = limit
	}
	if taken < 0 {
		taken = 0
	}
	return entitlementView{Caption: entitlementCaption(workload), Max: limit, VacationTaken: taken}
}

func (s *Server) formView() formView {
	f := core.DefaultForm(s.today())
	return formView{
		Form:            f,
		HireDate:        f.HireDate.String(),
		Departments:     core.Departments,
		SeniorityLevels: core.SeniorityLevels,
		Workloads:       core.Workloads,
		MinAge:          core.MinAge,
		MaxAge:          core.MaxAge,
		Entitlement:     newEntitlementView(f.Workload, 0),
	}
}

func showAll(r *http.Request) bool {
	v := r.URL.Query().Get("all")
	return v == "1" || v == "true" || v == "on"
}

// handleIndex renders the data tab: upload form, preview and add form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Dataset(r.Context())
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to load dataset", log.FieldError, err)
		InternalServerError("Could not load the dataset").Write(w)
		return
	}
	s.render(w, r, "index.html", dataPage{
		Tab:     "data",
		Preview: s.preview(t, showAll(r)),
		Form:    s.formView(),
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Dataset(r.Context())
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to load dataset", log.FieldError, err)
		InternalServerError("Could not load the dataset").Write(w)
		return
	}
	s.render(w, r, "preview", s.preview(t, showAll(r)))
}

func (s *Server) handleEntitlement(w http.ResponseWriter, r *http.Request) {
	workload := ParseWorkload(r.URL.Query())
	taken, _ := intField(r.URL.Query(), "vacation_taken", 0)
	s.render(w, r, "entitlement", newEntitlementView(workload, taken))
}

// handleUpload replaces the dataset with an uploaded table. Missing schema
// columns produce a warning but the file is still saved.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.UploadLimit)

	file, header, err := r.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			logger.WarnContext(ctx, "Upload exceeds size limit", "limit_bytes", s.opts.UploadLimit)
			ErrorResponse(http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File is larger than the %d MB upload limit.", s.opts.UploadLimit>>20)).Write(w)
			return
		}
		BadRequestError("Please choose a file to upload.").Write(w)
		return
	}
	defer file.Close()

	name := security.SafeFilename(header.Filename)
	res, err := s.svc.Upload(ctx, file, name)
	if err != nil {
		switch {
		case errors.Is(err, tabfile.ErrUnsupported):
			BadRequestError("Unsupported file type. Upload a .csv, .csv.xz, .xlsx, .xls or .dbf file.").Write(w)
		case errors.Is(err, services.ErrUnreadableFile):
			logger.WarnContext(ctx, "Unreadable upload", log.FieldFilename, name, log.FieldError, err)
			BadRequestError("Could not read the uploaded file.").Write(w)
		default:
			logger.ErrorContext(ctx, "Failed to save upload", log.FieldFilename, name, log.FieldError, err)
			InternalServerError("Could not save the uploaded file.").Write(w)
		}
		return
	}

	var body strings.Builder
	resp := NewHTMXResponse().TriggerDatasetChanged(res.Table.Len())
	if len(res.Missing) > 0 {
		warning := "Uploaded file missing columns: " + quotedList(res.Missing)
		body.WriteString(messageHTML(NotificationWarning, warning))
	}
	success := "File uploaded and saved to " + s.opts.DatasetLocation
	body.WriteString(messageHTML(NotificationSuccess, success))
	resp.TriggerSuccessNotification(success).BodyHTML(body.String()).Write(w)
}

// handleAddEmployee validates the add form and appends one record.
func (s *Server) handleAddEmployee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	form, err := ParseEmployeeForm(r.PostForm, s.today())
	if err != nil {
		UnprocessableEntityError(capitalize(err.Error())).Write(w)
		return
	}

	e, table, err := s.svc.AddEmployee(ctx, form)
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			UnprocessableEntityError(msg).Write(w)
			return
		}
		log.FromContext(ctx).ErrorContext(ctx, "Failed to add employee", log.FieldError, err)
		InternalServerError("Could not save the employee.").Write(w)
		return
	}

	msg := fmt.Sprintf("Employee %s %s added. Total rows: %d", e.FirstName, e.LastName, table.Len())
	NewHTMXResponse().
		TriggerDatasetChanged(table.Len()).
		TriggerFormReset().
		TriggerSuccessNotification(msg).
		Message(NotificationSuccess, msg).
		Write(w)
}

// validationMessage maps form validation errors to user-facing text.
func validationMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, core.ErrNameRequired):
		return "First Name and Last Name are required.", true
	case errors.Is(err, core.ErrInvalidDepartment):
		return "Please choose one of the listed departments.", true
	case errors.Is(err, core.ErrInvalidSeniority):
		return "Please choose one of the listed seniority levels.", true
	case errors.Is(err, core.ErrInvalidAge):
		return fmt.Sprintf("Age must be between %d and %d.", core.MinAge, core.MaxAge), true
	case errors.Is(err, core.ErrInvalidWorkload):
		return "Please choose one of the listed workloads.", true
	case errors.Is(err, core.ErrInvalidVacation):
		return "Vacation days taken must be between 0 and the entitlement.", true
	}
	return "", false
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, tabfile.FormatCSV, "text/csv; charset=utf-8", "hr_dataset.csv")
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, tabfile.FormatXLSX,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "hr_dataset.xlsx")
}

func (s *Server) export(w http.ResponseWriter, r *http.Request, format tabfile.Format, contentType, filename string) {
	ctx := r.Context()
	var buf bytes.Buffer
	if err := s.svc.Export(ctx, &buf, format); err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Export failed", log.FieldFormat, string(format), log.FieldError, err)
		InternalServerError("Could not export the dataset").Write(w)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(buf.Bytes())
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
