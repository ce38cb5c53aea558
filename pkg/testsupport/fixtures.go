package testsupport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// LoadFixture reads a file relative to the calling test's package directory,
// usually under testdata/.
func LoadFixture(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: fixture %s: %w", path, err)
	}
	return data, nil
}

// LoadGolden decodes a JSON golden file into v. Unknown fields are rejected.
func LoadGolden(path string, v any) error {
	data, err := LoadFixture(path)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("testsupport: golden %s: %w", path, err)
	}
	return nil
}
