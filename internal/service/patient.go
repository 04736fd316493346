package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nutriconsulta/backend/internal/models"
)

// FormsAndRecipes is the questionnaire and recipe history of one patient.
type FormsAndRecipes struct {
	Forms   []models.ConsultationForm `json:"forms"`
	Recipes []models.PatientRecipe    `json:"receitas"`
}

// PatientService handles patient record operations
type PatientService struct {
	db        *gorm.DB
	fatsecret FatSecretAPI
}

// Ensure PatientService implements IPatientService
var _ IPatientService = (*PatientService)(nil)

// NewPatientService creates a new PatientService instance. fatsecret may be
// nil, in which case no upstream profile is created for new patients.
func NewPatientService(db *gorm.DB, fatsecret FatSecretAPI) *PatientService {
	return &PatientService{
		db:        db,
		fatsecret: fatsecret,
	}
}

func (s *PatientService) withHistory(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Forms", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Recipes", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		})
}

// List returns every patient with forms and recipes, oldest first
func (s *PatientService) List(ctx context.Context) ([]models.Patient, error) {
	var patients []models.Patient
	if err := s.withHistory(ctx).Order("created_at ASC").Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

// GetByID retrieves a patient by ID
func (s *PatientService) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	patientID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}

	var patient models.Patient
	if err := s.withHistory(ctx).First(&patient, "id = ?", patientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "patient", ID: id}
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

// GetByCPF retrieves a patient by CPF
func (s *PatientService) GetByCPF(ctx context.Context, cpf string) (*models.Patient, error) {
	if cpf == "" {
		return nil, &ValidationError{Field: "cpf", Message: "is required"}
	}

	var patient models.Patient
	if err := s.withHistory(ctx).First(&patient, "cpf = ?", cpf).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "patient", ID: cpf}
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

// GetFormsAndRecipes returns the forms and stored recipes of a patient
func (s *PatientService) GetFormsAndRecipes(ctx context.Context, id string) (*FormsAndRecipes, error) {
	patient, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &FormsAndRecipes{
		Forms:   nonNilForms(patient.Forms),
		Recipes: nonNilRecipes(patient.Recipes),
	}, nil
}

// GetRecipeEntry returns one stored recipe of a patient
func (s *PatientService) GetRecipeEntry(ctx context.Context, patientID, entryID string) (*models.PatientRecipe, error) {
	pid, err := parseID("id", patientID)
	if err != nil {
		return nil, err
	}
	eid, err := parseID("recipeId", entryID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Patient{}).Where("id = ?", pid).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	if count == 0 {
		return nil, &NotFoundError{Resource: "patient", ID: patientID}
	}

	var entry models.PatientRecipe
	err = s.db.WithContext(ctx).First(&entry, "id = ? AND patient_id = ?", eid, pid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "recipe", ID: entryID}
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &entry, nil
}

// Create stores a new patient with its initial forms. A FatSecret profile is
// requested under a freshly generated user id; if that call fails the
// patient is stored anyway with the same id.
func (s *PatientService) Create(ctx context.Context, cpf, name string, forms []models.ConsultationForm) (*models.Patient, error) {
	userID, err := newFatSecretUserID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate fatsecret user id: %w", err)
	}

	patient := &models.Patient{
		CPF:             cpf,
		Name:            name,
		FatSecretUserID: &userID,
		Forms:           nonNilForms(forms),
		Recipes:         []models.PatientRecipe{},
	}

	if s.fatsecret != nil {
		creds, err := s.fatsecret.CreateProfile(ctx, userID)
		switch {
		case err != nil:
			log.Printf("[PatientService] FatSecret profile creation failed for %s: %v", userID, err)
		case !creds.Valid():
			log.Printf("[PatientService] FatSecret profile created for %s without a token pair", userID)
		default:
			patient.FatSecretAuthToken = &creds.AuthToken
			patient.FatSecretAuthSecret = &creds.AuthSecret
			log.Printf("[PatientService] FatSecret profile created for %s", userID)
		}
	}

	if err := s.db.WithContext(ctx).Create(patient).Error; err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

// AppendForm adds a form to an existing patient
func (s *PatientService) AppendForm(ctx context.Context, patientID uuid.UUID, form *models.ConsultationForm) error {
	form.PatientID = patientID
	if err := s.db.WithContext(ctx).Create(form).Error; err != nil {
		return fmt.Errorf("failed to append form: %w", err)
	}
	return nil
}

// AppendRecipes adds entries after the ones already stored, keeping the
// given order.
func (s *PatientService) AppendRecipes(ctx context.Context, patientID uuid.UUID, entries []models.PatientRecipe) error {
	if len(entries) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the patient row lock holds concurrent appends until commit
		owner := tx
		if tx.Dialector.Name() == "postgres" {
			owner = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var patient models.Patient
		if err := owner.Select("id").Where("id = ?", patientID).First(&patient).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "patient", ID: patientID.String()}
			}
			return fmt.Errorf("failed to lock patient: %w", err)
		}

		var next struct{ Max *int }
		if err := tx.Model(&models.PatientRecipe{}).
			Select("MAX(position) AS max").
			Where("patient_id = ?", patientID).
			Scan(&next).Error; err != nil {
			return fmt.Errorf("failed to read recipe position: %w", err)
		}
		start := 0
		if next.Max != nil {
			start = *next.Max + 1
		}

		for i := range entries {
			entries[i].PatientID = patientID
			entries[i].Position = start + i
		}
		if err := tx.Create(&entries).Error; err != nil {
			return fmt.Errorf("failed to append recipes: %w", err)
		}
		return nil
	})
}

func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, &ValidationError{Field: field, Message: "must be a valid UUID"}
	}
	return id, nil
}

// newFatSecretUserID returns 16 random bytes, hex encoded.
func newFatSecretUserID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func nonNilForms(forms []models.ConsultationForm) []models.ConsultationForm {
	if forms == nil {
		return []models.ConsultationForm{}
	}
	return forms
}

func nonNilRecipes(recipes []models.PatientRecipe) []models.PatientRecipe {
	if recipes == nil {
		return []models.PatientRecipe{}
	}
	return recipes
}
