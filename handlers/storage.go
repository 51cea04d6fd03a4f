// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/validtot/validtot/auth"
	"github.com/validtot/validtot/cliparse"
	"github.com/validtot/validtot/middleware"
	"github.com/validtot/validtot/models"
)

const (
	uploadURLTTL   = time.Hour
	maxUploadBytes = 10 << 20 // 10 MiB
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type StorageHandler struct {
	cfg cliparse.Config
}

func NewStorageHandler(cfg cliparse.Config) *StorageHandler {
	return &StorageHandler{cfg: cfg}
}

// CreateUploadURL handles POST /storage/upload-url
// Issues a signed, time-limited PUT URL plus the eventual public URL.
func (h *StorageHandler) CreateUploadURL(w http.ResponseWriter, r *http.Request) {
	var req models.UploadURLRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !allowedImageTypes[strings.ToLower(req.ContentType)] {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			"Invalid file type. Only JPEG, PNG, GIF, and WebP images are allowed.")
		return
	}

	// Server-generated object name; the client filename contributes only
	// its extension
	ext := strings.ToLower(filepath.Ext(req.Filename))
	if ext == "" || len(ext) > 6 || strings.ContainsAny(ext, "/\\") {
		ext = ".bin"
	}
	objectName := uuid.New().String() + ext

	expires := time.Now().Add(uploadURLTTL).Unix()
	sig := auth.SignUpload(objectName, expires, h.cfg.UploadSalt)

	uploadURL := h.cfg.PublicBaseURL + "/storage/upload/" + objectName +
		"?expires=" + strconv.FormatInt(expires, 10) + "&sig=" + url.QueryEscape(sig)
	publicURL := h.cfg.PublicBaseURL + "/storage/images/" + objectName

	middleware.JSONResponse(w, http.StatusOK, models.UploadURLResponse{
		UploadURL: uploadURL,
		PublicURL: publicURL,
	})
}

// ReceiveUpload handles PUT /storage/upload/{name}
func (h *StorageHandler) ReceiveUpload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !validObjectName(name) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid object name")
		return
	}

	expires, err := strconv.ParseInt(r.URL.Query().Get("expires"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid expiry")
		return
	}
	if time.Now().Unix() > expires {
		middleware.ErrorResponse(w, http.StatusForbidden, "Upload URL has expired")
		return
	}
	if err := auth.VerifyUpload(name, expires, r.URL.Query().Get("sig"), h.cfg.UploadSalt); err != nil {
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid upload signature")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Upload too large")
		return
	}
	defer r.Body.Close()

	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		slog.Error("failed to create upload dir", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}
	if err := os.WriteFile(filepath.Join(h.cfg.UploadDir, name), body, 0o644); err != nil {
		slog.Error("failed to write upload", "error", err, "object", name)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}

	slog.Info("upload stored", "object", name, "bytes", len(body))

	w.WriteHeader(http.StatusCreated)
}

// ServeImage handles GET /storage/images/{name}
func (h *StorageHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !validObjectName(name) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid object name")
		return
	}

	http.ServeFile(w, r, filepath.Join(h.cfg.UploadDir, name))
}

// validObjectName rejects anything that could escape the upload directory.
func validObjectName(name string) bool {
	return name != "" &&
		!strings.ContainsAny(name, "/\\") &&
		!strings.Contains(name, "..")
}
