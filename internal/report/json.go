package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/loykin/apicheck/internal/runner"
)

// WriteJSON serializes the run summary to path, creating parent directories
// as needed.
func WriteJSON(path string, res *runner.RunResult) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	clean := filepath.Clean(path)
	if dir := filepath.Dir(clean); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	return os.WriteFile(clean, data, 0o600)
}
