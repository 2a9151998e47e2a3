package policy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LintFile reads, decodes, and validates a single policy file. Every fault
// kind is reported through the returned messages; nothing escapes as an
// error or panic, so one bad file never aborts a multi-file run.
func LintFile(path string) (errs []string) {
	defer func() {
		if r := recover(); r != nil {
			errs = append(errs, fmt.Sprintf("%s: Unexpected error: %v", path, r))
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return []string{fmt.Sprintf("%s: File not found", path)}
		case errors.Is(err, fs.ErrPermission):
			return []string{fmt.Sprintf("%s: Permission denied", path)}
		default:
			return []string{fmt.Sprintf("%s: Unexpected error: %v", path, err)}
		}
	}

	var document any
	if err := yaml.Unmarshal(data, &document); err != nil {
		return []string{fmt.Sprintf("%s: YAML parsing error: %v", path, err)}
	}

	if document == nil {
		return []string{fmt.Sprintf("%s: Empty or invalid YAML file", path)}
	}

	errs = append(errs, ValidateStructure(document, path)...)
	errs = append(errs, ValidateContent(document, path)...)
	return errs
}

// IsPolicyFile reports whether a path names a lintable policy file.
// Only .yaml and .yml extensions count, case-insensitively.
func IsPolicyFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
