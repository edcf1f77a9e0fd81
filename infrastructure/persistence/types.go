package persistence

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Float64Slice stores an embedding vector as a JSON array. SQLite has no
// native array type and the Postgres deployment already stores vectors as
// JSONB, so one codec serves both drivers.
type Float64Slice []float64

// Scan implements sql.Scanner.
func (f *Float64Slice) Scan(value any) error {
	if value == nil {
		*f = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Float64Slice", value)
	}

	return json.Unmarshal(data, f)
}

// Value implements driver.Valuer.
func (f Float64Slice) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// StringMap stores a language-keyed description map as a JSON object.
type StringMap map[string]string

// Scan implements sql.Scanner.
func (m *StringMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringMap", value)
	}

	return json.Unmarshal(data, m)
}

// Value implements driver.Valuer.
func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// JSONDoc stores an arbitrary JSON object, used for settings values.
type JSONDoc map[string]any

// Scan implements sql.Scanner.
func (d *JSONDoc) Scan(value any) error {
	if value == nil {
		*d = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONDoc", value)
	}

	return json.Unmarshal(data, d)
}

// Value implements driver.Valuer.
func (d JSONDoc) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}
