package http

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"hrtool/internal/log"
	"hrtool/internal/middleware/security"
)

// The assistant is a placeholder: uploads are validated and acknowledged,
// questions get a fixed answer. Nothing is extracted or indexed yet.
const (
	assistantUploaded   = "✅ PDF uploaded successfully. Text extraction and indexing will happen here later."
	assistantMockAnswer = "🤖 Mock Answer: This is where the chatbot will respond once OpenAI is connected."
	assistantNeedsPDF   = "Please upload a PDF to continue."
)

// askBodyLimit bounds the question form.
const askBodyLimit = 64 << 10

var pdfMagic = []byte("%PDF-")

type assistantPage struct {
	Tab      string
	Document string
}

type assistantUpload struct {
	Document string
	Message  string
}

type assistantAnswer struct {
	Question string
	Answer   string
}

func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "assistant.html", assistantPage{Tab: "assistant"})
}

// handleAssistantUpload accepts a single PDF and discards its content.
func (s *Server) handleAssistantUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, pdfUploadLimit)

	file, header, err := r.FormFile("document")
	if err != nil {
		if isTooLarge(err) {
			ErrorResponse(http.StatusRequestEntityTooLarge, "PDF is too large.").Write(w)
			return
		}
		BadRequestError("Choose a PDF file to analyze.").Write(w)
		return
	}
	defer file.Close()

	name := security.SafeFilename(header.Filename)
	head := make([]byte, len(pdfMagic))
	n, _ := io.ReadFull(file, head)
	if !strings.EqualFold(filepath.Ext(name), ".pdf") || !bytes.Equal(head[:n], pdfMagic) {
		BadRequestError("Only PDF files are accepted.").Write(w)
		return
	}

	log.FromContext(ctx).InfoContext(ctx, "Assistant document received",
		log.FieldFilename, name, "size_bytes", header.Size)
	s.render(w, r, "assistant-uploaded", assistantUpload{Document: name, Message: assistantUploaded})
}

// handleAssistantAsk answers with the placeholder once a document is known.
// An empty question renders nothing.
func (s *Server) handleAssistantAsk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, askBodyLimit)
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		if isTooLarge(err) {
			NewHTMXResponse().
				Status(http.StatusRequestEntityTooLarge).
				Message(NotificationError, "Question is too long.").
				Write(w)
			return
		}
		BadRequestError("Invalid request format").Write(w)
		return
	}

	if parser.Get("document") == "" {
		NewHTMXResponse().Message(NotificationInfo, assistantNeedsPDF).Write(w)
		return
	}
	question := parser.Get("question")
	if question == "" {
		w.WriteHeader(http.StatusOK)
		return
	}
	s.render(w, r, "assistant-answer", assistantAnswer{Question: question, Answer: assistantMockAnswer})
}
