package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JSONMap stores free-form questionnaire answers as a JSON column.
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONMap: %T", value)
	}

	out := JSONMap{}
	if err := json.Unmarshal(bytes, &out); err != nil {
		return err
	}
	*m = out
	return nil
}

// ConsultationForm is one submitted anamnesis questionnaire.
type ConsultationForm struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey"`
	PatientID uuid.UUID `gorm:"type:varchar(36);not null;index"`
	Data      JSONMap   `gorm:"type:text"`
	CreatedAt time.Time
}

func (f *ConsultationForm) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ConsultationForm model
func (ConsultationForm) TableName() string {
	return "consultation_forms"
}

// MarshalJSON renders the answers flat, next to the form id and creation date.
func (f ConsultationForm) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(f.Data)+2)
	for k, v := range f.Data {
		out[k] = v
	}
	out["_id"] = f.ID
	out["dataCriacao"] = f.CreatedAt
	return json.Marshal(out)
}
