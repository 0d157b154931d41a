package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/biorefs/refmatch/matchapi"
	"github.com/biorefs/refmatch/parsing"
	"github.com/biorefs/refmatch/render"
)

// maxUploadSize bounds both the raw-body and the multipart file-field
// path the same way, mirroring the MAX_FILE_FIELD_SIZE/MAX_TEXT_FIELD_SIZE
// limits the reference web server enforces against memory-exhaustion
// uploads.
const maxUploadSize = 32 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// readUploadedHeader extracts the header text to parse from the request:
// a multipart/form-data body with a "file" field when the request
// declares that content type, otherwise the raw request body. The
// multipart field's own filename (when present) overrides ?name= for
// format auto-detection.
func readUploadedHeader(r *http.Request) (name string, body []byte, err error) {
	name = r.URL.Query().Get("name")
	if name == "" {
		name = "upload"
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "multipart/") {
		body, err = io.ReadAll(io.LimitReader(r.Body, maxUploadSize))
		return name, body, err
	}

	if err = r.ParseMultipartForm(maxUploadSize); err != nil {
		return name, nil, err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return name, nil, err
	}
	defer file.Close()

	if header.Filename != "" {
		name = header.Filename
	}
	body, err = io.ReadAll(io.LimitReader(file, maxUploadSize))
	return name, body, err
}

// maxMatches parses ?max_matches=N, returning -1 (no cap) when the
// parameter is absent or not a positive integer.
func maxMatches(r *http.Request) int {
	raw := r.URL.Query().Get("max_matches")
	if raw == "" {
		return -1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return -1
	}
	return n
}

func truncateResults(results []matchapi.MatchResult, max int) []matchapi.MatchResult {
	if max < 0 || max >= len(results) {
		return results
	}
	return results[:max]
}

// handleIdentify serves POST /api/identify: the body is raw header text
// or a multipart file upload (field "file"), plus query params
// ?format=json|text|tsv and ?max_matches=N.
func (s *Server) handleIdentify(w http.ResponseWriter, r *http.Request) {
	name, body, err := readUploadedHeader(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body: "+err.Error())
		return
	}

	query, err := parsing.Parse(name, bytes.NewReader(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := matchapi.FindMatches(query, s.Index, s.Config)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeResults(w, r, query, truncateResults(results, maxMatches(r)))
}

// handleScore serves POST /api/score: the reference_id query parameter
// names exactly one catalog reference to score the uploaded header text
// against directly, bypassing candidate selection.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	refID := r.URL.Query().Get("reference_id")
	if refID == "" {
		writeError(w, http.StatusBadRequest, "reference_id query parameter is required")
		return
	}

	var ref *matchapi.KnownReference
	for _, candidate := range s.Catalog {
		if candidate.ID == refID {
			ref = candidate
			break
		}
	}
	if ref == nil {
		writeError(w, http.StatusNotFound, "unknown reference_id: "+refID)
		return
	}

	name, body, err := readUploadedHeader(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body: "+err.Error())
		return
	}

	query, err := parsing.Parse(name, bytes.NewReader(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := matchapi.Score(query, ref, s.Config)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeResults(w, r, query, truncateResults([]matchapi.MatchResult{result}, maxMatches(r)))
}

type catalogEntry struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Assembly    string `json:"assembly"`
	Source      string `json:"source"`
	ContigCount int    `json:"contig_count"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	entries := make([]catalogEntry, 0, len(s.Catalog))
	for _, ref := range s.Catalog {
		entries = append(entries, catalogEntry{
			ID:          ref.ID,
			DisplayName: ref.DisplayName,
			Assembly:    ref.Assembly,
			Source:      ref.Source,
			ContigCount: len(ref.Contigs),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

func writeResults(w http.ResponseWriter, r *http.Request, query *matchapi.QueryHeader, results []matchapi.MatchResult) {
	switch r.URL.Query().Get("format") {
	case "tsv":
		w.Header().Set("Content-Type", "text/tab-separated-values")
		render.TSV(w, results)
	case "text":
		w.Header().Set("Content-Type", "text/plain")
		render.Text(w, query, results)
	default:
		w.Header().Set("Content-Type", "application/json")
		render.JSON(w, results)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
