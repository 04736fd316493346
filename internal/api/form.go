package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nutriconsulta/backend/internal/service"
	"github.com/nutriconsulta/backend/internal/types"
)

// FormHandler serves questionnaire submissions
type FormHandler struct {
	forms service.IFormService
}

func NewFormHandler(forms service.IFormService) *FormHandler {
	return &FormHandler{forms: forms}
}

func (h *FormHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/forms", h.CreateForm)
}

// CreateForm answers 201 when the submission registered a new patient and
// 200 when it was appended to an existing one.
func (h *FormHandler) CreateForm(c *gin.Context) {
	var req types.CreateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patient, isNew, err := h.forms.CreateForm(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	if isNew {
		c.JSON(http.StatusCreated, gin.H{
			"message": "Patient created and form added",
			"user":    patient,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Form added",
		"user":    patient,
	})
}
