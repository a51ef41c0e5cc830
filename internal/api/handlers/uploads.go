package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/rohits-web03/zipdrop/internal/api/middleware"
	"github.com/rohits-web03/zipdrop/internal/archive"
	"github.com/rohits-web03/zipdrop/internal/models"
	"github.com/rohits-web03/zipdrop/internal/utils"
)

type UploadRecordResponse struct {
	ID         uint                `json:"id"`
	Filename   string              `json:"filename"`
	UploadTime time.Time           `json:"upload_time"`
	Status     models.UploadStatus `json:"status"`
}

func toRecordResponse(rec models.UploadRecord) UploadRecordResponse {
	return UploadRecordResponse{
		ID:         rec.ID,
		Filename:   rec.Filename,
		UploadTime: rec.UploadTime,
		Status:     rec.Status,
	}
}

// POST /uploadfile/
// UploadFile godoc
// @Summary Upload a ZIP archive
// @Description The archive <name>.zip must contain <name>/A.txt and <name>/B.txt. Rejected archives are recorded with status Fail.
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "ZIP archive"
// @Success 200 {object} UploadRecordResponse
// @Failure 400 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Failure 500 {object} utils.Payload
// @Router /uploadfile/ [post]
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		middleware.Unauthorized(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.ErrorResponse(w, http.StatusBadRequest, "File exceeds the upload size limit")
			return
		}
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid file upload form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if !archive.HasZipExtension(header.Filename) {
		h.writeServiceError(w, r, archive.ErrNotZip)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	record, err := h.uploads.Upload(r.Context(), user, header.Filename, data)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, toRecordResponse(*record))
}

// GET /uploadrecords/
// GetUploadRecords godoc
// @Summary List upload records
// @Description Lists the caller's upload attempts in upload order. The optional user must be the caller.
// @Tags Uploads
// @Produce json
// @Security BearerAuth
// @Param user query string false "Username whose records to list"
// @Success 200 {array} UploadRecordResponse
// @Failure 401 {object} utils.Payload
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload "No records found"
// @Router /uploadrecords/ [get]
func (h *Handler) GetUploadRecords(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		middleware.Unauthorized(w)
		return
	}

	records, err := h.uploads.ListRecords(r.Context(), user, r.URL.Query().Get("user"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	out := make([]UploadRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toRecordResponse(rec))
	}
	utils.JSONResponse(w, http.StatusOK, out)
}

// GET /uploadrecords/{id}/archive
// DownloadArchive godoc
// @Summary Download a stored archive
// @Tags Uploads
// @Produce application/zip
// @Security BearerAuth
// @Param id path int true "Upload record id"
// @Success 200 {file} binary
// @Failure 400 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /uploadrecords/{id}/archive [get]
func (h *Handler) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		middleware.Unauthorized(w)
		return
	}

	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid record id")
		return
	}

	record, err := h.uploads.Archive(r.Context(), user, uint(id))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": record.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(record.Archive)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(record.Archive)
}
