// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/unicode/norm"

	"github.com/danielhkuo/calon-vote/cliparse"
	"github.com/danielhkuo/calon-vote/metrics"
	"github.com/danielhkuo/calon-vote/middleware"
	"github.com/danielhkuo/calon-vote/models"
	"github.com/danielhkuo/calon-vote/photo"
	"github.com/danielhkuo/calon-vote/store"
)

// multipart framing and the calonId field on top of the photo itself
const uploadOverhead = 1 << 20

type CandidateHandler struct {
	repo    store.CandidateRepository
	photos  photo.Store
	metrics *metrics.Metrics
	cfg     cliparse.Config
}

func NewCandidateHandler(repo store.CandidateRepository, photos photo.Store, m *metrics.Metrics, cfg cliparse.Config) *CandidateHandler {
	return &CandidateHandler{repo: repo, photos: photos, metrics: m, cfg: cfg}
}

// Save handles POST /saveCandidate
func (h *CandidateHandler) Save(w http.ResponseWriter, r *http.Request) {
	// An inline photo travels base64-encoded inside the JSON body
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxPhotoBytes*2+uploadOverhead)

	var req models.SaveCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	id, err := models.ParseCandidateID(req.CalonID)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid calon")
		return
	}

	fields := models.CandidateFields{
		Nama:      normalize(req.Nama),
		VisiMisi:  normalize(req.VisiMisi),
		PhotoPath: req.PhotoPath,
		PhotoData: req.PhotoData,
	}

	ctx, cancel := storeContext(r, h.cfg)
	defer cancel()

	if err := h.repo.Upsert(ctx, id, fields); err != nil {
		writeStoreError(w, r, h.metrics, "upsert_candidate", err)
		return
	}

	slog.Info("candidate saved", "calon_id", id)
	middleware.TextResponse(w, http.StatusOK, "Saved")
}

// Get handles GET /getCandidate?id=
func (h *CandidateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseCandidateID(r.URL.Query().Get("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid calon")
		return
	}

	ctx, cancel := storeContext(r, h.cfg)
	defer cancel()

	c, err := h.repo.Get(ctx, id)
	if err != nil {
		writeStoreError(w, r, h.metrics, "get_candidate", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, c)
}

// UploadPhoto handles POST /uploadPhoto (multipart: photo, calonId)
func (h *CandidateHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	maxSize := h.cfg.MaxPhotoBytes
	if r.ContentLength > maxSize+uploadOverhead {
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+uploadOverhead)

	if err := r.ParseMultipartForm(maxSize + uploadOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
			return
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	id, err := models.ParseCandidateID(r.FormValue("calonId"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid calon")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Size > maxSize {
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Failed to read file")
		return
	}

	ctx, cancel := storeContext(r, h.cfg)
	defer cancel()

	handle, err := h.photos.Put(ctx, id, data, header.Header.Get("Content-Type"), maxSize)
	if errors.Is(err, photo.ErrPayloadTooLarge) {
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
		return
	}
	if err != nil {
		h.metrics.StoreError("put_photo")
		slog.Error("photo upload failed", "calon_id", id, "backend", h.photos.Name(), "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	// Record the handle so the candidate points at the new photo
	if err := h.repo.Upsert(ctx, id, handle.Fields()); err != nil {
		writeStoreError(w, r, h.metrics, "upsert_candidate", err)
		return
	}

	slog.Info("photo uploaded",
		"calon_id", id,
		"backend", h.photos.Name(),
		"size", humanize.IBytes(uint64(len(data))),
	)

	if handle.Inline() {
		middleware.JSONResponse(w, http.StatusOK, models.UploadPhotoResponse{PhotoData: handle.DataURI})
		return
	}
	middleware.TextResponse(w, http.StatusOK, handle.Key)
}

// Photo handles GET /photo?id= for object-backed photo strategies
func (h *CandidateHandler) Photo(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseCandidateID(r.URL.Query().Get("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid calon")
		return
	}

	ctx, cancel := storeContext(r, h.cfg)
	defer cancel()

	rc, contentType, err := h.photos.Open(ctx, id)
	if errors.Is(err, photo.ErrInline) || errors.Is(err, photo.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Photo not found")
		return
	}
	if err != nil {
		h.metrics.StoreError("open_photo")
		slog.Error("photo read failed", "calon_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Photo unavailable")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("photo stream interrupted", "calon_id", id, "error", err)
	}
}

// Delete handles POST /deleteCandidate
func (h *CandidateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req models.CandidateIDRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	id, err := models.ParseCandidateID(req.CalonID)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid calon")
		return
	}

	ctx, cancel := storeContext(r, h.cfg)
	defer cancel()

	if err := h.repo.Delete(ctx, id); err != nil {
		writeStoreError(w, r, h.metrics, "delete_candidate", err)
		return
	}

	// Best effort: a stale photo never fails the delete
	if err := h.photos.Delete(ctx, id); err != nil {
		slog.Warn("failed to delete candidate photo", "calon_id", id, "backend", h.photos.Name(), "error", err)
	}

	slog.Info("candidate deleted", "calon_id", id)
	middleware.TextResponse(w, http.StatusOK, "Deleted")
}

func (h *CandidateHandler) tooLargeMessage() string {
	return fmt.Sprintf("File too large. Maximum %s.", humanize.IBytes(uint64(h.cfg.MaxPhotoBytes)))
}

// normalize stores text in NFC so visually equal names compare equal
func normalize(s *string) *string {
	if s == nil {
		return nil
	}
	v := norm.NFC.String(*s)
	return &v
}
