package controller

import (
	"care_program_backend/internal/service"
	"care_program_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	Assessments *service.AssessmentService
}

func NewAssessmentController(assessments *service.AssessmentService) *AssessmentController {
	return &AssessmentController{Assessments: assessments}
}

// List godoc
// @Summary List questionnaire battery versions
// @Tags assessment-admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/v1/admin/assessments [get]
func (ctl *AssessmentController) List(c *gin.Context) {
	defs, err := ctl.Assessments.List()
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, defs)
}

// Get godoc
// @Summary Get one battery version with sections, questions and ranges
// @Tags assessment-admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Definition id"
// @Success 200 {object} util.Response{data=model.AssessmentDefinition}
// @Failure 404 {object} util.Response
// @Router /api/v1/admin/assessments/{id} [get]
func (ctl *AssessmentController) Get(c *gin.Context) {
	def, err := ctl.Assessments.Get(util.MustParseUint(c.Param("id")))
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, def)
}

type createDraftRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateDraft godoc
// @Summary Open a new battery draft version
// @Tags assessment-admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createDraftRequest true "Battery name"
// @Success 201 {object} util.Response{data=model.AssessmentDefinition}
// @Router /api/v1/admin/assessments [post]
func (ctl *AssessmentController) CreateDraft(c *gin.Context) {
	var req createDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	def, err := ctl.Assessments.CreateDraft(req.Name)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Created(c, def)
}

// AddSection godoc
// @Summary Add a section to a draft version
// @Tags assessment-admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Definition id"
// @Param request body service.SectionRequest true "Section data"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/admin/assessments/{id}/sections [post]
func (ctl *AssessmentController) AddSection(c *gin.Context) {
	var req service.SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	section, err := ctl.Assessments.AddSection(util.MustParseUint(c.Param("id")), &req)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Created(c, section)
}

// AddQuestion godoc
// @Summary Add a question with its options to a draft version
// @Tags assessment-admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Definition id"
// @Param request body service.QuestionRequest true "Question data"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/admin/assessments/{id}/questions [post]
func (ctl *AssessmentController) AddQuestion(c *gin.Context) {
	var req service.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	question, err := ctl.Assessments.AddQuestion(util.MustParseUint(c.Param("id")), &req)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Created(c, question)
}

// DeleteQuestion godoc
// @Summary Delete a question from a draft version
// @Tags assessment-admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Definition id"
// @Param questionId path string true "Question id"
// @Success 200 {object} util.Response
// @Router /api/v1/admin/assessments/{id}/questions/{questionId} [delete]
func (ctl *AssessmentController) DeleteQuestion(c *gin.Context) {
	if err := ctl.Assessments.DeleteQuestion(util.MustParseUint(c.Param("id")), c.Param("questionId")); err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}

// AddRange godoc
// @Summary Add a score range to a draft version
// @Tags assessment-admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Definition id"
// @Param request body service.RangeRequest true "Range data"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/admin/assessments/{id}/ranges [post]
func (ctl *AssessmentController) AddRange(c *gin.Context) {
	var req service.RangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	sr, err := ctl.Assessments.AddRange(util.MustParseUint(c.Param("id")), &req)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Created(c, sr)
}

// DeleteRange godoc
// @Summary Delete a score range from a draft version
// @Tags assessment-admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Definition id"
// @Param rangeId path int true "Range id"
// @Success 200 {object} util.Response
// @Router /api/v1/admin/assessments/{id}/ranges/{rangeId} [delete]
func (ctl *AssessmentController) DeleteRange(c *gin.Context) {
	if err := ctl.Assessments.DeleteRange(util.MustParseUint(c.Param("id")), util.MustParseUint(c.Param("rangeId"))); err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}

// Activate godoc
// @Summary Publish a battery version
// @Description Validates that every axis has questions and that its ranges are disjoint and cover the attainable score domain, then retires the previously active version.
// @Tags assessment-admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Definition id"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/admin/assessments/{id}/activate [post]
func (ctl *AssessmentController) Activate(c *gin.Context) {
	if err := ctl.Assessments.Activate(util.MustParseUint(c.Param("id"))); err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}
