package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gaurav-prasanna/storypipe/core"
	"github.com/gaurav-prasanna/storypipe/core/audit"
)

// parseRequest is the JSON form of a parse request.
type parseRequest struct {
	Text           string   `json:"text"`
	RequiredBlocks []string `json:"required_blocks,omitempty"`
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.parser.Config())
}

// handleParse segments a story sent either as text/plain or as JSON.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}

	req := parseRequest{Text: string(body)}
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "application/json" {
		req = parseRequest{}
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			jsonError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	doc, err := s.parser.Parse(r.Context(), req.Text)
	if err != nil {
		s.log.Error("parse failed", "error", err)
		jsonError(w, "parse failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	required := req.RequiredBlocks
	if len(required) == 0 {
		required = doc.Names()
	}
	writeJSON(w, http.StatusOK, core.ParseResult{
		Blocks:     doc,
		Validation: audit.Assess(doc, required),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		jsonError(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
