package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"payrollcli/internal/timesheet"
)

// WriteJSON writes the whole result as indented JSON.
func WriteJSON(filePath string, result *timesheet.Result) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(filePath, append(data, '\n'), 0644)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
