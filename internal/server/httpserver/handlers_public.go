package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/knowledgehub/internal/server/models"
	"github.com/gorilla/mux"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := s.catalog.Classes(r.Context())
	if err != nil {
		writeError(r.Context(), s.logger, w, err, "Not found", "Failed to load classes")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"classes": classes})
}

func (s *Server) handleClassPage(w http.ResponseWriter, r *http.Request) {
	page, err := s.catalog.ClassPage(r.Context(), mux.Vars(r)["class_slug"])
	if err != nil {
		writeError(r.Context(), s.logger, w, err, "Class not found", "Failed to load class")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleSubjectPage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	page, err := s.catalog.SubjectPage(r.Context(), vars["class_slug"], vars["subject_slug"])
	if err != nil {
		writeError(r.Context(), s.logger, w, err, "Subject not found", "Failed to load subject notes")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// handleSubjects answers {"class_id": "3"} or {"class_id": 3}. A missing or
// unparsable id yields an empty list, not an error.
func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ClassID json.RawMessage `json:"class_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	subjects := []*models.Subject{}
	if classID, ok := parseClassID(body.ClassID); ok {
		found, err := s.catalog.SubjectsByClass(r.Context(), classID)
		if err != nil {
			writeError(r.Context(), s.logger, w, err, "Not found", "Failed to fetch subjects")
			return
		}
		if found != nil {
			subjects = found
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"subjects": subjects})
}

func parseClassID(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, n > 0
	}
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, n > 0
}

// handleDownload redirects to the object. It is public: anyone with a note
// id can fetch the file.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	noteID, err := strconv.ParseInt(mux.Vars(r)["note_id"], 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid note ID")
		return
	}

	url, err := s.notes.DownloadURL(r.Context(), noteID)
	if err != nil {
		writeError(r.Context(), s.logger, w, err, "Note not found", "Failed to generate download URL")
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}
