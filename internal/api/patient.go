package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutriconsulta/backend/internal/models"
	"github.com/nutriconsulta/backend/internal/service"
)

// PatientHandler serves the /users routes
type PatientHandler struct {
	patients service.IPatientService
	exports  service.IExportService
}

// NewPatientHandler creates a handler; exports may be nil when object
// storage is not configured.
func NewPatientHandler(patients service.IPatientService, exports service.IExportService) *PatientHandler {
	return &PatientHandler{
		patients: patients,
		exports:  exports,
	}
}

func (h *PatientHandler) RegisterRoutes(router gin.IRouter) {
	users := router.Group("/users")
	{
		users.GET("", h.ListPatients)
		users.GET("/:id", h.GetPatient)
		users.GET("/:id/forms-receitas", h.GetFormsAndRecipes)
		users.GET("/:id/receita/:recipeId", h.GetRecipeEntry)
		if h.exports != nil {
			users.GET("/:id/export", h.ExportPatient)
		}
	}
}

// ListPatients returns all patients, or the one matching ?cpf=
func (h *PatientHandler) ListPatients(c *gin.Context) {
	if cpf, ok := c.GetQuery("cpf"); ok {
		patient, err := h.patients.GetByCPF(c.Request.Context(), cpf)
		if err != nil {
			if service.IsNotFound(err) {
				c.JSON(http.StatusOK, gin.H{"users": []models.Patient{}})
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": []models.Patient{*patient}})
		return
	}

	patients, err := h.patients.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if patients == nil {
		patients = []models.Patient{}
	}
	c.JSON(http.StatusOK, gin.H{"users": patients})
}

func (h *PatientHandler) GetPatient(c *gin.Context) {
	patient, err := h.patients.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": patient})
}

func (h *PatientHandler) GetFormsAndRecipes(c *gin.Context) {
	result, err := h.patients.GetFormsAndRecipes(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PatientHandler) GetRecipeEntry(c *gin.Context) {
	entry, err := h.patients.GetRecipeEntry(c.Request.Context(), c.Param("id"), c.Param("recipeId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Recipe found",
		"receita": entry,
	})
}

func (h *PatientHandler) ExportPatient(c *gin.Context) {
	result, err := h.exports.ExportPatient(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"export": result})
}
