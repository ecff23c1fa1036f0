package persistence

import (
	"fmt"
	"regexp"

	"github.com/zenGate-Global/wedding-marketplace/platform/go/docstore"
)

// documentIDPattern accepts Firestore auto ids, Firebase uids, UUIDs and fixed ids like "content".
var documentIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]{0,127}$`)

// checkDocumentID rejects ids no stored document can carry. Lookups report them as not found.
func checkDocumentID(collection, id string, lookup bool) error {
	if documentIDPattern.MatchString(id) {
		return nil
	}
	if lookup {
		return fmt.Errorf("%s/%s: %w", collection, id, docstore.ErrNotFound)
	}
	return fmt.Errorf("invalid document id %q", id)
}
