package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nutriconsulta/backend/internal/models"
	"github.com/nutriconsulta/backend/internal/types"
)

// FormService handles questionnaire submissions
type FormService struct {
	patients *PatientService
}

// Ensure FormService implements IFormService
var _ IFormService = (*FormService)(nil)

// NewFormService creates a new FormService instance
func NewFormService(patients *PatientService) *FormService {
	return &FormService{patients: patients}
}

// CreateForm stores the submitted form on the patient identified by CPF,
// registering the patient first when the CPF is unknown. The boolean result
// reports whether a new patient was created.
func (s *FormService) CreateForm(ctx context.Context, req *types.CreateFormRequest) (*models.Patient, bool, error) {
	cpf := strings.TrimSpace(req.CPF)
	if cpf == "" {
		return nil, false, &ValidationError{Field: "cpf", Message: "is required"}
	}

	form := models.ConsultationForm{Data: models.JSONMap(req.Forms)}
	if form.Data == nil {
		form.Data = models.JSONMap{}
	}

	existing, err := s.patients.GetByCPF(ctx, cpf)
	if err != nil && !IsNotFound(err) {
		return nil, false, err
	}

	if existing == nil {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			return nil, false, &ValidationError{Field: "nome", Message: "is required"}
		}
		patient, err := s.patients.Create(ctx, cpf, name, []models.ConsultationForm{form})
		if err != nil {
			return nil, false, err
		}
		return patient, true, nil
	}

	if err := s.patients.AppendForm(ctx, existing.ID, &form); err != nil {
		return nil, false, err
	}

	updated, err := s.patients.GetByCPF(ctx, cpf)
	if err != nil {
		return nil, false, fmt.Errorf("failed to reload patient: %w", err)
	}
	return updated, false, nil
}
