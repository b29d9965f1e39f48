// Package docstore talks to the external document-management service. The
// adapter only ever sees immutable Document snapshots fetched at startup;
// unlike filesystem probes, service failures surface as errors rather than
// degrading to empty results.
package docstore

import (
	"context"
	"errors"
)

// ErrNotFound reports that the service has no document with the given id.
var ErrNotFound = errors.New("document not found")

// Document is a snapshot of one managed document. Timestamps stay in the
// service's own string rendering; the adapter exposes them verbatim.
type Document struct {
	ID                  int64  `json:"id"`
	Title               string `json:"title"`
	Content             string `json:"content"`
	Created             string `json:"created"`
	Added               string `json:"added"`
	ArchiveSerialNumber *int64 `json:"archive_serial_number"`
}

// Service is the narrow read interface tessera requires from a document
// backend.
type Service interface {
	// Fetch retrieves one document by id. Returns ErrNotFound when the
	// service has no such document.
	Fetch(ctx context.Context, id int64) (Document, error)
	// List retrieves every document, ordered by id.
	List(ctx context.Context) ([]Document, error)
}
