package backendcache

import "github.com/flexiformal/flams-core/internal/artifact"

// DocData is the in-memory form of a loaded document artifact: the checked
// Document tree plus the CSS list and rendered body needed to serve it
// without re-reading the file (§4.5 get_document).
type DocData struct {
	Document artifact.Document
	CSS      []artifact.CSS
	Body     string
	Path     string // source artifact path, kept for later ReadResource calls
}
