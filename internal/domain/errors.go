package domain

import "errors"

// Error taxonomy for a crawl/enrich run. Only ErrMissingConfig is fatal;
// everything else is isolated to one query or one record and accumulated
// into the run summary.
var (
	ErrMissingConfig = errors.New("missing required configuration")
	ErrProvider      = errors.New("grounding provider failed")
	ErrExtraction    = errors.New("no parseable JSON in model output")
	ErrPersistence   = errors.New("store rejected write")
)
