package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/pinboard/internal/apperror"
	"github.com/sakif/pinboard/internal/model"
	"github.com/sakif/pinboard/internal/service"
)

// maxUploadMemory caps how much of a multipart body is buffered in memory
// before spilling to temp files (the standard library enforces no total
// size limit — that's inherited from the hosting environment, as documented).
const maxUploadMemory = 32 << 20 // 32 MB

// PinHandler exposes the pins API: public listing plus admin-gated
// creation and deletion.
type PinHandler struct {
	pins   *service.PinService
	logger *slog.Logger
}

// NewPinHandler creates a PinHandler.
func NewPinHandler(pins *service.PinService, logger *slog.Logger) *PinHandler {
	return &PinHandler{pins: pins, logger: logger}
}

// HandleList returns all pins as a JSON array.
//
// HTTP: GET /api/pins (public, no auth)
//
// RESPONSE FORMAT (key order fixed by the model.Pin field order):
//
//	[
//	  {"id":1,"name":"spot","lat":"48.85","lng":"2.29",
//	   "description":"","photo_filename":null,"date":"2024-01-01"},
//	  ...
//	]
//
// photo_filename is null for pins without a photo. An empty table returns [].
func (h *PinHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	pins, err := h.pins.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list pins", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pins)
}

// HandleAdd creates a new pin from a multipart form.
//
// HTTP: POST /api/pins/add (behind RequireAPIAuth — anonymous callers get 403
// before this runs)
//
// FORM FIELDS: name, lat, lng, description, date — all free text, stored
// verbatim. Optional file field "photo"; an empty file input (no filename)
// means no photo.
//
// On success the browser is redirected back to the admin dashboard, because
// the dashboard's form posts here directly.
func (h *PinHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.logger.Warn("pin add: malformed multipart form", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("form", "malformed multipart form"))
		return
	}

	pin := &model.Pin{
		Name:        r.PostFormValue("name"),
		Lat:         r.PostFormValue("lat"),
		Lng:         r.PostFormValue("lng"),
		Description: r.PostFormValue("description"),
		Date:        r.PostFormValue("date"),
	}

	// FormFile returns ErrMissingFile when the field is absent entirely;
	// a present-but-empty file input arrives with an empty filename, which
	// the service treats as "no photo".
	var upload *service.PhotoUpload
	file, header, err := r.FormFile("photo")
	if err == nil {
		defer file.Close()
		upload = &service.PhotoUpload{Filename: header.Filename, Data: file}
	} else if !errors.Is(err, http.ErrMissingFile) {
		h.logger.Warn("pin add: reading photo part", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("photo", "unreadable photo upload"))
		return
	}

	if err := h.pins.Create(r.Context(), pin, upload); err != nil {
		h.logger.Error("failed to create pin", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	http.Redirect(w, r, "/admin", http.StatusFound)
}

// HandleDelete removes a pin by id.
//
// HTTP: POST /api/pins/delete/{id} (behind RequireAPIAuth)
//
// Deleting an id that doesn't exist is NOT an error — the redirect happens
// either way, and the listing is simply unchanged. The photo file, if any,
// stays on disk (see internal/storage for why).
func (h *PinHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, apperror.ValidationFailed("id", "pin id must be an integer"))
		return
	}

	if err := h.pins.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete pin", slog.Int64("id", id), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	http.Redirect(w, r, "/admin", http.StatusFound)
}
