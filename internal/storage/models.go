package storage

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Well is the persisted form of a parsed LAS file.
type Well struct {
	ID          string  `gorm:"primaryKey;type:varchar(36)"`
	Name        *string `gorm:"type:varchar(255)"`
	StartDepth  *float64
	StopDepth   *float64
	Step        *float64
	FileName    string `gorm:"type:varchar(255)"`
	FileKey     string `gorm:"type:varchar(512)"`
	FileURL     string `gorm:"type:varchar(1024)"`
	CurveCount  int
	RowCount    int
	DroppedRows int
	CreatedAt   time.Time `gorm:"index"`
}

// Curve is one declared curve of a well. Ordinal 0 is the depth column.
type Curve struct {
	ID      uint   `gorm:"primaryKey"`
	WellID  string `gorm:"type:varchar(36);index:idx_curves_well_ordinal,priority:1;not null"`
	Ordinal int    `gorm:"index:idx_curves_well_ordinal,priority:2"`
	Name    string `gorm:"type:varchar(64);not null"`
	Unit    string `gorm:"type:varchar(64)"`
}

// LogRow is one depth sample of a well.
type LogRow struct {
	ID     uint     `gorm:"primaryKey"`
	WellID string   `gorm:"type:varchar(36);index:idx_rows_well_depth,priority:1;not null"`
	Depth  float64  `gorm:"index:idx_rows_well_depth,priority:2"`
	Values Readings `gorm:"type:text"`
}

// Readings maps curve names to values. NaN readings are encoded as JSON null and decode
// back to NaN; the -9999 sentinel is stored verbatim.
type Readings map[string]float64

// MarshalJSON implements json.Marshaler.
func (r Readings) MarshalJSON() ([]byte, error) {
	raw := make(map[string]*float64, len(r))
	for k, v := range r {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			raw[k] = nil
			continue
		}
		v := v
		raw[k] = &v
	}
	return json.Marshal(raw)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Readings) UnmarshalJSON(data []byte) error {
	var raw map[string]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Readings, len(raw))
	for k, v := range raw {
		if v == nil {
			out[k] = math.NaN()
			continue
		}
		out[k] = *v
	}
	*r = out
	return nil
}

// Value implements driver.Valuer.
func (r Readings) Value() (driver.Value, error) {
	if r == nil {
		return "{}", nil
	}
	b, err := r.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (r *Readings) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*r = Readings{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("readings: unsupported column type %T", src)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		*r = Readings{}
		return nil
	}
	return r.UnmarshalJSON(data)
}
