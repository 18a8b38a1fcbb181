// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

// Pin represents a single map annotation: a location plus its metadata and an
// optional photo.
//
// The `json:"..."` tags tell Go's encoding/json package how to serialize this
// struct. Field order here IS the order keys appear in the /api/pins response,
// because encoding/json emits struct fields in declaration order.
//
// WHY ARE Lat AND Lng STRINGS?
// The submitting form sends them as free text and the app stores them verbatim,
// with no server-side validation or parsing. Keeping them as strings preserves
// exactly what was submitted (including values that don't parse as numbers).
// The map frontend hands them to Leaflet, which accepts numeric strings.
//
// WHY *string FOR PhotoFilename?
// The photo is optional and the column is nullable. A pointer lets us
// distinguish "no photo" (nil → JSON null) from an empty filename.
type Pin struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Lat           string  `json:"lat"`
	Lng           string  `json:"lng"`
	Description   string  `json:"description"`
	PhotoFilename *string `json:"photo_filename"`
	Date          string  `json:"date"`
}
