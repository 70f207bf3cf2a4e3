package http

import (
	"io"
	"log/slog"
	"net/http"
)

const maxReceiptBytes = 10 << 20 // 10 MiB uploads

// handleParseReceipt accepts a multipart upload under the "receipt" field and
// returns the model's transaction draft. The category list sent to the model
// is the caller's own, so the draft can only reference categories they have.
func (s *Server) handleParseReceipt(w http.ResponseWriter, r *http.Request) {
	user, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if s.deps.Receipts == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorDTO{Error: "receipt parsing is not configured"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxReceiptBytes)
	file, header, err := r.FormFile("receipt")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorDTO{Error: "missing receipt file"})
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	categories, err := s.deps.Categories.Categories(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	parsed, err := s.deps.Receipts.Parse(r.Context(), imageData, mimeType, categories)
	if err != nil {
		slog.ErrorContext(r.Context(), "Receipt parsing failed",
			"user_id", user, "file_size", header.Size, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorDTO{Error: "failed to parse receipt"})
		return
	}

	writeJSON(w, http.StatusOK, parsed)
}
