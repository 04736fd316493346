package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nutriconsulta/backend/internal/types"
)

// Patient is a person under nutritional follow-up, identified by CPF.
type Patient struct {
	ID                  uuid.UUID          `gorm:"type:varchar(36);primarykey" json:"id"`
	CPF                 string             `gorm:"size:14;not null;uniqueIndex" json:"cpf"`
	Name                string             `gorm:"not null" json:"nome"`
	FatSecretUserID     *string            `gorm:"size:64" json:"fatSecretUserId,omitempty"`
	// user-level token pair from profile.create; nil when none was returned
	FatSecretAuthToken  *string            `gorm:"size:128" json:"-"`
	FatSecretAuthSecret *string            `gorm:"size:128" json:"-"`
	Forms               []ConsultationForm `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"forms"`
	Recipes             []PatientRecipe    `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"receita"`
	CreatedAt           time.Time          `json:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt"`
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Patient model
func (Patient) TableName() string {
	return "patients"
}

// PatientRecipe is a recipe suggestion stored on the patient record along
// with the preferences it was generated for.
type PatientRecipe struct {
	ID          uuid.UUID                `gorm:"type:varchar(36);primarykey" json:"_id"`
	PatientID   uuid.UUID                `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_patient_recipes_patient_position,priority:1" json:"-"`
	Position    int                      `gorm:"not null;default:0;uniqueIndex:idx_patient_recipes_patient_position,priority:2" json:"-"`
	RecipeID    string                   `gorm:"size:64;not null" json:"recipeId"`
	Name        string                   `gorm:"not null" json:"nome"`
	Description string                   `gorm:"type:text" json:"descricao"`
	ImageURL    string                   `json:"imagem,omitempty"`
	Calories    *float64                 `json:"calorias,omitempty"`
	Preferences types.DietaryPreferences `gorm:"type:text" json:"preferences"`
	CreatedAt   time.Time                `json:"dataCriacao"`
}

func (r *PatientRecipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PatientRecipe model
func (PatientRecipe) TableName() string {
	return "patient_recipes"
}

// All lists the models managed by auto-migration, in dependency order.
func All() []interface{} {
	return []interface{}{
		&Patient{},
		&ConsultationForm{},
		&PatientRecipe{},
	}
}
