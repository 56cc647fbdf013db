package controller

import (
	"encoding/json"

	"care_program_backend/internal/program"
	"care_program_backend/internal/service"
	"care_program_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgramController struct {
	Programs    *service.ProgramService
	Assessments *service.AssessmentService
}

func NewProgramController(programs *service.ProgramService, assessments *service.AssessmentService) *ProgramController {
	return &ProgramController{Programs: programs, Assessments: assessments}
}

// GetProgram godoc
// @Summary Get the authenticated participant's program dashboard
// @Description Time-triggered transitions (day unlocks, retake opening) that came due are applied during this read.
// @Tags program
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.ProgramView}
// @Failure 404 {object} util.Response
// @Router /api/v1/program [get]
func (ctl *ProgramController) GetProgram(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	view, err := ctl.Programs.GetProgramView(claims.UserID)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, view)
}

// GetDay godoc
// @Summary Get one day of the participant's program
// @Tags program
// @Produce json
// @Security BearerAuth
// @Param day path int true "Program day"
// @Success 200 {object} util.Response{data=service.DayView}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/program/days/{day} [get]
func (ctl *ProgramController) GetDay(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	day := util.ParseDay(c.Param("day"))
	if day < 0 {
		util.BadRequest(c, "invalid day")
		return
	}
	view, err := ctl.Programs.GetProgramView(claims.UserID)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	for i := range view.Days {
		if view.Days[i].Day == day {
			util.Success(c, view.Days[i])
			return
		}
	}
	util.NotFound(c)
}

type progressRequest struct {
	Progress int `json:"progress" binding:"min=0,max=100"`
}

// RecordProgress godoc
// @Summary Record partial progress on one content item
// @Tags program
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param day path int true "Program day"
// @Param contentId path string true "Content item id"
// @Param request body progressRequest true "Progress percentage"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/program/days/{day}/contents/{contentId}/progress [put]
func (ctl *ProgramController) RecordProgress(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	day := util.ParseDay(c.Param("day"))
	if day < 0 {
		util.BadRequest(c, "invalid day")
		return
	}
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	if err := ctl.Programs.RecordContentProgress(claims.UserID, day, c.Param("contentId"), req.Progress); err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}

type completeRequest struct {
	Metadata json.RawMessage `json:"metadata"`
}

// CompleteContent godoc
// @Summary Mark one content item completed
// @Description Completing the last item of a day completes the day, starts the next day's wait window and advances the program.
// @Tags program
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param day path int true "Program day"
// @Param contentId path string true "Content item id"
// @Param request body completeRequest false "Optional completion metadata (quiz answers, watch time)"
// @Success 200 {object} util.Response{data=service.ProgramView}
// @Failure 400 {object} util.Response
// @Router /api/v1/program/days/{day}/contents/{contentId}/complete [post]
func (ctl *ProgramController) CompleteContent(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	day := util.ParseDay(c.Param("day"))
	if day < 0 {
		util.BadRequest(c, "invalid day")
		return
	}
	var req completeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.BadRequest(c, err.Error())
			return
		}
	}
	if err := ctl.Programs.CompleteContent(claims.UserID, day, c.Param("contentId"), req.Metadata); err != nil {
		util.HandleServiceError(c, err)
		return
	}
	view, err := ctl.Programs.GetProgramView(claims.UserID)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, view)
}

// GetQuestionnaire godoc
// @Summary Get the active questionnaire battery
// @Description Questions and option labels only; scores and category ranges are never exposed to participants.
// @Tags program
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.QuestionnaireView}
// @Failure 404 {object} util.Response
// @Router /api/v1/program/questionnaire [get]
func (ctl *ProgramController) GetQuestionnaire(c *gin.Context) {
	view, err := ctl.Assessments.ActiveQuestionnaire()
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, view)
}

type submitRequest struct {
	Answers []program.SubmittedAnswer `json:"answers" binding:"required,min=1,dive"`
}

// SubmitAssessment godoc
// @Summary Submit the questionnaire battery
// @Description Records a new attempt or edits an existing one, decided by the attempt ledger and retake state. The body is decoded strictly; unknown fields are rejected.
// @Tags program
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body submitRequest true "Answers, one option per question"
// @Success 200 {object} util.Response{data=service.SubmissionResult}
// @Failure 400 {object} util.Response
// @Router /api/v1/program/assessment [post]
func (ctl *ProgramController) SubmitAssessment(c *gin.Context) {
	claims := util.GetUserFromContext(c)

	// strict decode: a submission carrying fields this version does not know
	// must fail, not silently drop data
	var req submitRequest
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	if len(req.Answers) == 0 {
		util.BadRequest(c, "answers must not be empty")
		return
	}
	for _, a := range req.Answers {
		if a.QuestionID == "" || a.OptionID == "" {
			util.BadRequest(c, "every answer needs questionId and optionId")
			return
		}
	}

	result, err := ctl.Programs.SubmitAssessment(claims.UserID, req.Answers)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, result)
}
