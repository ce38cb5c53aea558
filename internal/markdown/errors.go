package markdown

import "errors"

var (
	ErrDateInvalid      = errors.New("markdown: front matter date is not recognised")
	ErrSlugMissing      = errors.New("markdown importer: document has no usable slug")
	ErrPostsRequired    = errors.New("markdown importer: post service is required")
	ErrImporterRequired = errors.New("markdown service: importer is not configured")
	ErrDocumentRequired = errors.New("markdown importer: nil document")
	ErrWatchDirRequired = errors.New("markdown watcher: directory is required")
)
