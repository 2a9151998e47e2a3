// Package receipt provides stable evidence artifacts for audit/compliance.
package receipt

// ReceiptSchemaVersion current
const ReceiptSchemaVersion = "1.0"

// Receipt structure
type Receipt struct {
	SchemaVersion string       `json:"schema_version"`
	OpID          string       `json:"op_id"`
	TsStart       string       `json:"ts_start"`
	TsEnd         string       `json:"ts_end"`
	Command       string       `json:"command"`
	Args          []string     `json:"args"`
	ArgsRedacted  bool         `json:"args_redacted,omitempty"` // true if any args were sanitized
	Result        Result       `json:"result"`
	Lint          *LintSummary `json:"lint,omitempty"`
}

// Result status
type Result struct {
	Status string `json:"status"` // "success" or "fail"
	Error  string `json:"error,omitempty"`
}

// LintSummary detail
type LintSummary struct {
	FilesLinted int           `json:"files_linted"`
	FilesFailed int           `json:"files_failed"`
	ErrorCount  int           `json:"error_count"`
	Failures    []FileFailure `json:"failures,omitempty"`
}

// FileFailure detail
type FileFailure struct {
	Path   string `json:"path"`
	Errors int    `json:"errors"`
}
