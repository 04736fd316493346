package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nutriconsulta/backend/internal/models"
)

// DefaultExportLinkTTL is the lifetime of the link returned for an export.
const DefaultExportLinkTTL = 15 * time.Minute

// ExportResult points at an uploaded patient dossier.
type ExportResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type patientDossier struct {
	ExportedAt time.Time       `json:"exportedAt"`
	Patient    *models.Patient `json:"user"`
}

// ExportService uploads patient dossiers to object storage
type ExportService struct {
	patients *PatientService
	store    ObjectStore
	linkTTL  time.Duration
	now      func() time.Time
}

// Ensure ExportService implements IExportService
var _ IExportService = (*ExportService)(nil)

// NewExportService creates a new ExportService instance
func NewExportService(patients *PatientService, store ObjectStore, linkTTL time.Duration) *ExportService {
	if linkTTL <= 0 {
		linkTTL = DefaultExportLinkTTL
	}
	return &ExportService{
		patients: patients,
		store:    store,
		linkTTL:  linkTTL,
		now:      time.Now,
	}
}

// ExportPatient writes the patient with forms and recipes as JSON and returns
// a presigned download link.
func (s *ExportService) ExportPatient(ctx context.Context, id string) (*ExportResult, error) {
	patient, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	body, err := json.MarshalIndent(patientDossier{ExportedAt: now, Patient: patient}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal patient: %w", err)
	}

	key := fmt.Sprintf("exports/patients/%s/%s.json", patient.ID, now.Format("20060102T150405Z"))
	if err := s.store.PutObject(ctx, key, body, "application/json"); err != nil {
		return nil, fmt.Errorf("failed to upload export: %w", err)
	}

	url, err := s.store.GeneratePresignedURL(ctx, key, s.linkTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign export: %w", err)
	}

	return &ExportResult{Key: key, URL: url, ExpiresAt: now.Add(s.linkTTL)}, nil
}
