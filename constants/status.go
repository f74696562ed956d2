package constants

// DocStatus is the canonical status for rows in documents.
type DocStatus string

// Stable values (store these exact strings in DB).
const (
	DocStatusQueued     DocStatus = "QUEUED"     // staged, waiting for processing
	DocStatusRunning    DocStatus = "RUNNING"    // in progress
	DocStatusRecognized DocStatus = "RECOGNIZED" // stage 1 completed (text recognized)
	DocStatusAnalyzed   DocStatus = "ANALYZED"   // stage 2 completed (fields extracted)
	DocStatusFiled      DocStatus = "FILED"      // confirmed and moved to destination
	DocStatusFailed     DocStatus = "FAILED"     // terminal failure
)
