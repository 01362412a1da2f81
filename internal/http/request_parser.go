// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data:
// the add-employee form, dashboard filters and mixed JSON/form bodies.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"hrtool/internal/core"
)

// ParseEmployeeForm reads the add-employee fields. Blank fields take the
// defaults the page shows; malformed numbers or dates are errors.
func ParseEmployeeForm(form url.Values, today core.Date) (core.EmployeeForm, error) {
	f := core.DefaultForm(today)
	f.FirstName = sanitizeInput(form.Get("first_name"))
	f.LastName = sanitizeInput(form.Get("last_name"))
	if form.Has("residence") {
		f.Residence = sanitizeInput(form.Get("residence"))
	}
	if v := sanitizeInput(form.Get("department")); v != "" {
		f.Department = v
	}
	if v := sanitizeInput(form.Get("seniority")); v != "" {
		f.Seniority = v
	}

	var err error
	if f.Age, err = intField(form, "age", f.Age); err != nil {
		return f, err
	}
	if f.Workload, err = intField(form, "workload", f.Workload); err != nil {
		return f, err
	}
	if f.VacationTaken, err = intField(form, "vacation_taken", f.VacationTaken); err != nil {
		return f, err
	}
	if v := sanitizeInput(form.Get("hire_date")); v != "" {
		d, err := parseDate(v)
		if err != nil {
			return f, fmt.Errorf("invalid hire date %q", v)
		}
		f.HireDate = d
	}
	return f, nil
}

func intField(form url.Values, key string, def int) (int, error) {
	v := sanitizeInput(form.Get(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q", strings.ReplaceAll(key, "_", " "), v)
	}
	return n, nil
}

// ParseFilter reads repeated department and seniority parameters. Absent
// parameters leave that dimension unfiltered.
func ParseFilter(query url.Values) core.Filter {
	return core.Filter{
		Departments: nonEmpty(query["department"]),
		Seniority:   nonEmpty(query["seniority"]),
	}
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = sanitizeInput(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ParseWorkload reads the workload query parameter, falling back to the
// first offered workload.
func ParseWorkload(query url.Values) int {
	w, err := strconv.Atoi(strings.TrimSpace(query.Get("workload")))
	if err != nil || !core.ValidWorkload(w) {
		return core.Workloads[0]
	}
	return w
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}

	p.body, p.err = io.ReadAll(r.Body)
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	// Try JSON first if content looks like JSON
	if p.body[0] == '{' || p.body[0] == '[' {
		p.jsonData = make(map[string]interface{})
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrorResponse(http.StatusRequestEntityTooLarge, "Request too large")
		}
		return BadRequestError("Invalid request format")
	}
	return nil
}
