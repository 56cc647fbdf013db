package controller

import (
	"time"

	"care_program_backend/internal/model"
	"care_program_backend/internal/service"
	"care_program_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	Programs  *service.ProgramService
	Users     *service.UserService
	WaitTimes *service.WaitTimeService
}

func NewAdminController(programs *service.ProgramService, users *service.UserService, waitTimes *service.WaitTimeService) *AdminController {
	return &AdminController{Programs: programs, Users: users, WaitTimes: waitTimes}
}

// ListParticipants godoc
// @Summary List user accounts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role (caregiver, patient)"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/v1/admin/users [get]
func (ctl *AdminController) ListParticipants(c *gin.Context) {
	page := util.QueryInt(c, "page", 1)
	limit := util.QueryInt(c, "limit", 20)
	role := model.UserRole(c.Query("role"))

	users, total, err := ctl.Users.List(role, page, limit)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}

type createPairRequest struct {
	CaregiverID uint `json:"caregiverId" binding:"required"`
	PatientID   uint `json:"patientId" binding:"required"`
}

// CreatePair godoc
// @Summary Pair a caregiver with a patient and create both programs
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createPairRequest true "User ids to pair"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/v1/admin/pairs [post]
func (ctl *AdminController) CreatePair(c *gin.Context) {
	var req createPairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	pair, err := ctl.Programs.CreatePair(req.CaregiverID, req.PatientID)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Created(c, pair)
}

// ListPrograms godoc
// @Summary List participant programs
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/v1/admin/programs [get]
func (ctl *AdminController) ListPrograms(c *gin.Context) {
	page := util.QueryInt(c, "page", 1)
	limit := util.QueryInt(c, "limit", 20)
	programs, total, err := ctl.Programs.ListPrograms(page, limit)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, util.PageResponse{List: programs, Total: total, Page: page, Limit: limit})
}

// GetProgram godoc
// @Summary Get one program dashboard by program id
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Program id"
// @Success 200 {object} util.Response{data=service.ProgramView}
// @Failure 404 {object} util.Response
// @Router /api/v1/admin/programs/{id} [get]
func (ctl *AdminController) GetProgram(c *gin.Context) {
	view, err := ctl.Programs.GetProgramViewByProgramID(util.MustParseUint(c.Param("id")))
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, view)
}

// GetParticipantProgram godoc
// @Summary Get one participant's program dashboard
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User id"
// @Success 200 {object} util.Response{data=service.ProgramView}
// @Failure 404 {object} util.Response
// @Router /api/v1/admin/participants/{userId}/program [get]
func (ctl *AdminController) GetParticipantProgram(c *gin.Context) {
	userID := util.MustParseUint(c.Param("userId"))
	view, err := ctl.Programs.GetProgramView(userID)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, view)
}

type scheduleRetakeRequest struct {
	ScheduledFor time.Time `json:"scheduledFor" binding:"required"`
}

// ScheduleRetake godoc
// @Summary Schedule a participant's assessment retake
// @Description Requires exactly one submitted attempt. Disables the questionnaire until the scheduled moment arrives.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User id"
// @Param request body scheduleRetakeRequest true "Retake moment, UTC, strictly in the future"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/admin/participants/{userId}/retake [post]
func (ctl *AdminController) ScheduleRetake(c *gin.Context) {
	userID := util.MustParseUint(c.Param("userId"))
	var req scheduleRetakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	if err := ctl.Programs.ScheduleRetake(userID, req.ScheduledFor); err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}

// CancelRetake godoc
// @Summary Cancel a scheduled retake
// @Description The questionnaire stays disabled; re-enable it explicitly if the participant should submit again.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User id"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/admin/participants/{userId}/retake [delete]
func (ctl *AdminController) CancelRetake(c *gin.Context) {
	userID := util.MustParseUint(c.Param("userId"))
	if err := ctl.Programs.CancelRetake(userID); err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}

// EnableQuestionnaire godoc
// @Summary Re-enable a participant's questionnaire
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User id"
// @Success 200 {object} util.Response
// @Router /api/v1/admin/participants/{userId}/questionnaire/enable [post]
func (ctl *AdminController) EnableQuestionnaire(c *gin.Context) {
	userID := util.MustParseUint(c.Param("userId"))
	if err := ctl.Programs.EnableQuestionnaire(userID); err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}

type dayLockRequest struct {
	Lock model.AdminLockState `json:"lock" binding:"omitempty,oneof=locked unlocked"`
}

// SetDayLock godoc
// @Summary Force-lock or force-unlock one program day
// @Description An admin lock overrides the time gate in both directions. An empty lock value clears the override.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User id"
// @Param day path int true "Program day"
// @Param request body dayLockRequest true "locked, unlocked, or empty to clear"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/admin/participants/{userId}/days/{day}/lock [put]
func (ctl *AdminController) SetDayLock(c *gin.Context) {
	userID := util.MustParseUint(c.Param("userId"))
	day := util.ParseDay(c.Param("day"))
	if day < 0 {
		util.BadRequest(c, "invalid day")
		return
	}
	var req dayLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	if err := ctl.Programs.AdminSetDayLock(userID, day, req.Lock); err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}

type resetDayRequest struct {
	IncludeAssessment bool `json:"includeAssessment"`
}

// ResetDay godoc
// @Summary Reset one program day
// @Description Clears the day's completion state and re-materializes its content against the participant's current category. With includeAssessment the attempt ledger, categories and retake state are wiped too.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User id"
// @Param day path int true "Program day"
// @Param request body resetDayRequest false "Reset options"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/admin/participants/{userId}/days/{day}/reset [post]
func (ctl *AdminController) ResetDay(c *gin.Context) {
	userID := util.MustParseUint(c.Param("userId"))
	day := util.ParseDay(c.Param("day"))
	if day < 0 {
		util.BadRequest(c, "invalid day")
		return
	}
	var req resetDayRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.BadRequest(c, err.Error())
			return
		}
	}
	if err := ctl.Programs.AdminResetDay(userID, day, req.IncludeAssessment); err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}

// GetGlobalWaitTimes godoc
// @Summary Get the global wait-hour defaults
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.WaitTimeConfig}
// @Router /api/v1/admin/wait-times [get]
func (ctl *AdminController) GetGlobalWaitTimes(c *gin.Context) {
	cfg, err := ctl.WaitTimes.Global()
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, cfg)
}

type waitTimeRequest struct {
	Day0ToDay1Hours  int `json:"day0ToDay1Hours" binding:"min=0"`
	BetweenDaysHours int `json:"betweenDaysHours" binding:"min=0"`
}

// UpdateGlobalWaitTimes godoc
// @Summary Update the global wait-hour defaults
// @Description Affects windows computed after the change; already-scheduled unlock times keep the value they were computed with.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body waitTimeRequest true "Wait hours, zero means immediate unlock"
// @Success 200 {object} util.Response{data=model.WaitTimeConfig}
// @Failure 400 {object} util.Response
// @Router /api/v1/admin/wait-times [put]
func (ctl *AdminController) UpdateGlobalWaitTimes(c *gin.Context) {
	var req waitTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	cfg, err := ctl.WaitTimes.UpdateGlobal(req.Day0ToDay1Hours, req.BetweenDaysHours)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, cfg)
}

// GetWaitTimeOverride godoc
// @Summary Get one participant's effective wait-hour policy
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User id"
// @Success 200 {object} util.Response{data=service.WaitTimeView}
// @Router /api/v1/admin/participants/{userId}/wait-times [get]
func (ctl *AdminController) GetWaitTimeOverride(c *gin.Context) {
	userID := util.MustParseUint(c.Param("userId"))
	view, err := ctl.WaitTimes.ForParticipant(userID)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, view)
}

type overrideRequest struct {
	Day0ToDay1Hours  *int `json:"day0ToDay1Hours"`
	BetweenDaysHours *int `json:"betweenDaysHours"`
}

// SetWaitTimeOverride godoc
// @Summary Set a per-participant wait-hour override
// @Description Absent fields keep falling through to the global default field by field.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User id"
// @Param request body overrideRequest true "Override fields, nullable"
// @Success 200 {object} util.Response{data=service.WaitTimeView}
// @Failure 400 {object} util.Response
// @Router /api/v1/admin/participants/{userId}/wait-times [put]
func (ctl *AdminController) SetWaitTimeOverride(c *gin.Context) {
	userID := util.MustParseUint(c.Param("userId"))
	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	view, err := ctl.WaitTimes.SetOverride(userID, req.Day0ToDay1Hours, req.BetweenDaysHours)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, view)
}

// DeleteWaitTimeOverride godoc
// @Summary Remove a per-participant wait-hour override
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User id"
// @Success 200 {object} util.Response
// @Router /api/v1/admin/participants/{userId}/wait-times [delete]
func (ctl *AdminController) DeleteWaitTimeOverride(c *gin.Context) {
	userID := util.MustParseUint(c.Param("userId"))
	if err := ctl.WaitTimes.ClearOverride(userID); err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}
