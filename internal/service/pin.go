// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → orchestrates stores, enforces rules
//	Repository (Data layer)  → reads/writes the database
//
// Handlers never touch the database; repositories never see HTTP. The service
// in the middle is testable with plain function calls and fake dependencies.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sakif/pinboard/internal/model"
	"github.com/sakif/pinboard/internal/repository"
)

// PhotoSaver is the slice of the photo store the pin service needs.
//
// ACCEPT INTERFACES, RETURN STRUCTS:
// Declaring the interface HERE (at the consumer) rather than in the storage
// package means tests can swap in a two-line fake, and the service never
// imports the filesystem code at all.
type PhotoSaver interface {
	Save(declaredName string, r io.Reader) (string, error)
}

// PinService handles business logic for map pins.
type PinService struct {
	repo   repository.PinRepository
	photos PhotoSaver
	logger *slog.Logger
}

// NewPinService creates a PinService.
//
// CONSTRUCTOR PATTERN IN GO:
// Go doesn't have constructors like Java/Python. Instead, we use "New"
// functions that take all dependencies as parameters — the caller decides
// WHICH implementations to use (sqlite + disk store, or fakes for tests).
func NewPinService(repo repository.PinRepository, photos PhotoSaver, logger *slog.Logger) *PinService {
	return &PinService{
		repo:   repo,
		photos: photos,
		logger: logger,
	}
}

// PhotoUpload describes an optional uploaded photo: the browser-declared
// filename plus a reader over the file bytes.
type PhotoUpload struct {
	Filename string
	Data     io.Reader
}

// Create persists an optional photo and inserts the pin row.
//
// FIELDS ARE STORED VERBATIM:
// name, lat, lng, description and date are free text from the form. There is
// no numeric check on the coordinates and no format check on the date — the
// permissive behaviour is intentional and documented. The only processing
// that happens is filename sanitization inside the photo store.
//
// NOT ATOMIC AS A PAIR:
// The photo write and the row insert are two independent operations. A crash
// between them leaves an orphaned file with no referencing row; that file is
// harmless and may be reclaimed by a later upload of the same name.
//
// A photo with an empty declared filename is treated as "no photo", matching
// how browsers submit an empty file input.
func (s *PinService) Create(ctx context.Context, pin *model.Pin, photo *PhotoUpload) error {
	if photo != nil && photo.Filename != "" {
		name, err := s.photos.Save(photo.Filename, photo.Data)
		if err != nil {
			return fmt.Errorf("service/pin: saving photo: %w", err)
		}
		pin.PhotoFilename = &name
	}

	if err := s.repo.Create(ctx, pin); err != nil {
		return fmt.Errorf("service/pin: creating pin: %w", err)
	}

	s.logger.Info("pin created",
		slog.Int64("id", pin.ID),
		slog.String("name", pin.Name),
		slog.Bool("hasPhoto", pin.PhotoFilename != nil),
	)

	return nil
}

// List returns every pin in storage order. No pagination — the public map
// loads the full set.
func (s *PinService) List(ctx context.Context) ([]model.Pin, error) {
	pins, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/pin: listing pins: %w", err)
	}
	return pins, nil
}

// Delete removes a pin by id. A nonexistent id is a no-op, and the photo
// file (if any) stays on disk — see the retention note in internal/storage.
func (s *PinService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service/pin: deleting pin %d: %w", id, err)
	}

	s.logger.Info("pin deleted", slog.Int64("id", id))

	return nil
}
