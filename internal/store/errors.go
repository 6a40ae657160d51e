package store

import (
	"github.com/allisson/magentadb/internal/errors"
)

// Domain-specific errors surfaced by store operations. These wrap the generic
// sentinels in internal/errors so callers can branch with errors.Is against
// either the specific or the general case.
var (
	// ErrDocumentNotFound indicates the requested document does not exist.
	ErrDocumentNotFound = errors.Wrap(errors.ErrNotFound, "document not found")

	// ErrFieldNotFound indicates the requested field does not exist on an
	// otherwise-present document.
	ErrFieldNotFound = errors.Wrap(errors.ErrNotFound, "field not found")

	// ErrDocIDRequired describes an empty doc_id. Insert does not return this
	// sentinel: it reports an empty doc_id as a validation error wrapping
	// errors.ErrInvalidInput.
	ErrDocIDRequired = errors.Wrap(errors.ErrInvalidInput, "doc_id is required")
)
