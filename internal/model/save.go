// Package model defines domain types for discovered saved games.
package model

import "time"

// SizeUnknown marks a save whose size could not be read.
const SizeUnknown int64 = -1

// Epoch is the placeholder date for saves whose modified time is unknown.
var Epoch = time.Unix(0, 0).UTC()

// Save is one discovered saved game within a save folder.
type Save struct {
	ID      string    // unique within the folder, usually the file name
	Paths   []string  // relative to the save folder
	Date    time.Time // last modified
	Size    int64
	Details *Details // set by full parse only
	Errors  []SaveError
}

// Details holds the content-derived data a full parse extracts.
type Details struct {
	Name    string
	Summary string
	Image   string
	Extra   map[string]string
}

// SaveError describes why a save could not be fully processed.
type SaveError struct {
	Message string
	Cause   error
}

func (e SaveError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

// DisplayName returns the parsed save name, falling back to the ID.
func (s Save) DisplayName() string {
	if s.Details != nil && s.Details.Name != "" {
		return s.Details.Name
	}
	return s.ID
}

// Summary returns the parsed summary or an empty string.
func (s Save) Summary() string {
	if s.Details == nil {
		return ""
	}
	return s.Details.Summary
}

// Failed reports whether the save carries any errors.
func (s Save) Failed() bool {
	return len(s.Errors) > 0
}

// WithError returns a copy of s with an error appended.
func (s Save) WithError(message string, cause error) Save {
	errs := make([]SaveError, 0, len(s.Errors)+1)
	errs = append(errs, s.Errors...)
	s.Errors = append(errs, SaveError{Message: message, Cause: cause})
	return s
}

// IDs returns the ids of saves in order.
func IDs(saves []Save) []string {
	ids := make([]string, len(saves))
	for i, s := range saves {
		ids[i] = s.ID
	}
	return ids
}
