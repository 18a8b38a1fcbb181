package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/pinboard/internal/model"
	"github.com/sakif/pinboard/internal/repository"
)

// PinRepo provides pin storage over the shared connection pool.
// Obtain one from DB.Pins(); it holds no state of its own.
type PinRepo struct {
	conn *sql.DB
}

// COMPILE-TIME INTERFACE CHECK:
// This line verifies AT COMPILE TIME that *PinRepo implements
// repository.PinRepository.
//
// How it works:
//   - `var _ X = (*Y)(nil)` creates a nil pointer of type *Y
//   - It assigns it to a variable of type X (the interface)
//   - If *Y doesn't implement X, the compiler errors immediately
//   - The `_` means we don't actually use the variable — it's just a check
var _ repository.PinRepository = (*PinRepo)(nil)

// Create inserts a new pin into the database.
//
// KEY CONCEPTS:
//
// 1. AUTOINCREMENT IDs:
//    The pins table assigns integer IDs itself. After the INSERT we read
//    LastInsertId() from the result and write it back through the pointer,
//    so the caller's struct carries the assigned ID.
//
// 2. PARAMETERIZED QUERIES (the ? placeholders):
//    NEVER build SQL strings with fmt.Sprintf or string concatenation!
//    That creates SQL injection vulnerabilities:
//      BAD:  "WHERE id = '" + userInput + "'"   ← attacker sends: ' OR 1=1 --
//      GOOD: "WHERE id = ?", userInput           ← driver safely escapes the value
//
// 3. NULLABLE COLUMNS:
//    pin.PhotoFilename is a *string. Passing a nil pointer stores SQL NULL,
//    which is exactly what a pin without a photo should have.
func (r *PinRepo) Create(ctx context.Context, pin *model.Pin) error {
	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO pins (name, lat, lng, description, photo_filename, date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		pin.Name,
		pin.Lat,
		pin.Lng,
		pin.Description,
		pin.PhotoFilename,
		pin.Date,
	)
	if err != nil {
		// ERROR WRAPPING:
		// The %w verb (not %v!) preserves the error chain so callers can use
		// errors.Is() to check the underlying cause. The "sqlite:" prefix
		// tells us WHERE the error happened when reading logs.
		return fmt.Errorf("sqlite: creating pin: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading pin id: %w", err)
	}
	pin.ID = id

	return nil
}

// List returns every pin in storage order (ascending rowid).
//
// There is deliberately no pagination or filtering — the public map loads all
// pins in one request.
//
// rows MUST BE CLOSED:
// sql.Rows holds a database connection until Close() is called. The deferred
// Close plus the rows.Err() check at the end is the canonical iteration shape.
func (r *PinRepo) List(ctx context.Context) ([]model.Pin, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, name, lat, lng, description, photo_filename, date FROM pins`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing pins: %w", err)
	}
	defer rows.Close()

	// Start with an empty (non-nil) slice so an empty table serializes to
	// JSON [] rather than null.
	pins := []model.Pin{}
	for rows.Next() {
		var (
			p     model.Pin
			photo sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Lat, &p.Lng, &p.Description, &photo, &p.Date); err != nil {
			return nil, fmt.Errorf("sqlite: scanning pin: %w", err)
		}
		if photo.Valid {
			p.PhotoFilename = &photo.String
		}
		pins = append(pins, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating pins: %w", err)
	}

	return pins, nil
}

// Delete removes the pin with the given id.
//
// Deleting a nonexistent id is a NO-OP, not an error — the DELETE simply
// matches zero rows. Callers that care can't tell the difference, and that
// is intentional: the admin dashboard redirects either way.
//
// The associated photo file (if any) is NOT removed; see internal/storage
// for the retention policy.
func (r *PinRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.conn.ExecContext(ctx, `DELETE FROM pins WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting pin %d: %w", id, err)
	}
	return nil
}
