// internal/models/jsoncolumn.go
// Reusable sql.Scanner/driver.Valuer JSON column types, following the
// teacher's per-field Scan/Value convention (see tournament.go in the
// original module) but centralized since several records need them.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a []string persisted as a JSON array column.
type StringList []string

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	return json.Unmarshal(bytes, l)
}

func (l StringList) Value() (driver.Value, error) {
	return json.Marshal([]string(l))
}

// StringMap is a map[string]string persisted as a JSON object column.
type StringMap map[string]string

func (m *StringMap) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into StringMap", value)
	}
	return json.Unmarshal(bytes, m)
}

func (m StringMap) Value() (driver.Value, error) {
	return json.Marshal(map[string]string(m))
}

// RotationList is a []Rotation persisted as a JSON array column, used
// to store a game's full rotation history alongside its GameRecord.
type RotationList []Rotation

func (r *RotationList) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into RotationList", value)
	}
	return json.Unmarshal(bytes, r)
}

func (r RotationList) Value() (driver.Value, error) {
	return json.Marshal([]Rotation(r))
}
