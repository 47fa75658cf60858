package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/knowledgehub/internal/server/services"
)

// multipartMemory is how much of an upload ParseMultipartForm keeps in RAM
// before spilling to a temp file.
const multipartMemory = 8 << 20

func formInt(r *http.Request, name string) int64 {
	n, err := strconv.ParseInt(r.FormValue(name), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := s.notes.Dashboard(r.Context())
	if err != nil {
		writeError(r.Context(), s.logger, w, err, "Not found", "Failed to load dashboard")
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	page, err := s.notes.FilesPage(r.Context())
	if err != nil {
		writeError(r.Context(), s.logger, w, err, "Not found", "Failed to load data")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleUploadPage(w http.ResponseWriter, r *http.Request) {
	page, err := s.notes.UploadPage(r.Context(), formInt(r, "class_id"), formInt(r, "subject_id"))
	if err != nil {
		writeError(r.Context(), s.logger, w, err, "Not found", "Failed to load data")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	in := services.NoteUpdateInput{
		ID:             formInt(r, "id"),
		DisplayName:    r.PostFormValue("displayName"),
		ClassID:        formInt(r, "classId"),
		SubjectID:      formInt(r, "subjectId"),
		FileTypeID:     formInt(r, "fileTypeId"),
		HasReplacement: r.PostFormValue("hasReplacement") == "true",
		NewObjectKey:   r.PostFormValue("newObjectKey"),
	}

	if err := s.notes.Update(r.Context(), in); err != nil {
		writeError(r.Context(), s.logger, w, err, "File not found", "Failed to update file")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true})
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	if err := s.notes.Delete(r.Context(), formInt(r, "id")); err != nil {
		writeError(r.Context(), s.logger, w, err, "File not found", "Failed to delete file")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true})
}

func (s *Server) handleSaveMetadata(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	in := services.NoteInput{
		DisplayName: r.PostFormValue("display_name"),
		ClassID:     formInt(r, "class_id"),
		SubjectID:   formInt(r, "subject_id"),
		FileTypeID:  formInt(r, "file_type_id"),
		ObjectKey:   r.PostFormValue("object_key"),
	}

	note, err := s.notes.SaveMetadata(r.Context(), in)
	if err != nil {
		writeError(r.Context(), s.logger, w, err, "Not found", "Failed to save file information")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "note": note})
}

type uploadURLResponse struct {
	Success   bool   `json:"success"`
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

func (s *Server) handleUploadURL(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FileName string `json:"fileName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	key, url, err := s.notes.UploadURL(r.Context(), body.FileName)
	if err != nil {
		writeError(r.Context(), s.logger, w, err, "Not found", "Failed to generate upload URL")
		return
	}
	writeJSON(w, http.StatusOK, uploadURLResponse{Success: true, UploadURL: url, ObjectKey: key})
}

// handleUpload proxies a multipart file to the object store for clients that
// cannot PUT to the pre-signed URL themselves.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMessage(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File size must be less than %dMB", s.maxUploadSize>>20))
			return
		}
		writeMessage(w, http.StatusBadRequest, "File and key are required")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "File and key are required")
		return
	}
	defer file.Close()

	err = s.notes.Upload(r.Context(), r.FormValue("key"), file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		writeError(r.Context(), s.logger, w, err, "Not found", "Failed to upload file")
		return
	}
	writeMessage(w, http.StatusOK, "File uploaded successfully")
}
