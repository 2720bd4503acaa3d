package testcases

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
)

const STATUS_FILE = "status.json"

type Status struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WriteStatus replaces <dir>/status.json.
func WriteStatus(dir string, success bool, message string) error {
	if err := os.MkdirAll(dir, DEFAULT_PERM); err != nil {
		return fmt.Errorf("unable to create status directory: %w", err)
	}
	b, err := jsoniter.Marshal(Status{Success: success, Message: message})
	if err != nil {
		return fmt.Errorf("unable to encode status: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, STATUS_FILE), b, 0644); err != nil {
		return fmt.Errorf("unable to write status: %w", err)
	}
	return nil
}

func ReadStatus(dir string) (Status, error) {
	var s Status
	b, err := os.ReadFile(filepath.Join(dir, STATUS_FILE))
	if err != nil {
		return s, fmt.Errorf("unable to read status: %w", err)
	}
	if err := jsoniter.Unmarshal(b, &s); err != nil {
		return s, fmt.Errorf("unable to decode status: %w", err)
	}
	return s, nil
}
