package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nutriconsulta/backend/internal/fatsecret"
	"github.com/nutriconsulta/backend/internal/models"
	"github.com/nutriconsulta/backend/internal/service"
	"github.com/nutriconsulta/backend/internal/testhelpers"
)

func TestExportService_ExportPatient(t *testing.T) {
	patients, api := setupPatientService(t)
	api.On("CreateProfile", mock.Anything, mock.Anything).Return(fatsecret.ProfileCredentials{}, nil)
	ctx := context.Background()

	patient, err := patients.Create(ctx, "123", "Maria", []models.ConsultationForm{{Data: models.JSONMap{"peso": 70}}})
	require.NoError(t, err)

	store := new(testhelpers.MockObjectStore)
	isPatientKey := mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "exports/patients/"+patient.ID.String()+"/") && strings.HasSuffix(key, ".json")
	})
	store.On("PutObject", mock.Anything, isPatientKey, mock.Anything, "application/json").Return(nil).Once()
	store.On("GeneratePresignedURL", mock.Anything, isPatientKey, 10*time.Minute).
		Return("https://bucket.example/exports/x?sig=1", nil).Once()

	svc := service.NewExportService(patients, store, 10*time.Minute)
	result, err := svc.ExportPatient(ctx, patient.ID.String())
	require.NoError(t, err)
	store.AssertExpectations(t)

	assert.Equal(t, "https://bucket.example/exports/x?sig=1", result.URL)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	body := store.Calls[0].Arguments.Get(2).([]byte)
	var dossier map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &dossier))
	user := dossier["user"].(map[string]interface{})
	assert.Equal(t, "Maria", user["nome"])
	assert.Len(t, user["forms"], 1)
}

func TestExportService_Errors(t *testing.T) {
	patients, api := setupPatientService(t)
	api.On("CreateProfile", mock.Anything, mock.Anything).Return(fatsecret.ProfileCredentials{}, nil)
	ctx := context.Background()

	t.Run("unknown patient", func(t *testing.T) {
		store := new(testhelpers.MockObjectStore)
		_, err := service.NewExportService(patients, store, 0).ExportPatient(ctx, uuid.NewString())
		assert.True(t, service.IsNotFound(err))
		store.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("upload failure", func(t *testing.T) {
		patient, err := patients.Create(ctx, "1", "Ana", nil)
		require.NoError(t, err)

		store := new(testhelpers.MockObjectStore)
		store.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("access denied"))

		_, err = service.NewExportService(patients, store, 0).ExportPatient(ctx, patient.ID.String())
		assert.ErrorContains(t, err, "access denied")
	})
}
