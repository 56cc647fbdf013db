package controller

import (
	"errors"

	"care_program_backend/internal/service"
	"care_program_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Auth  *service.AuthService
	Users *service.UserService
}

func NewAuthController(auth *service.AuthService, users *service.UserService) *AuthController {
	return &AuthController{Auth: auth, Users: users}
}

// Register godoc
// @Summary Register a caregiver or patient account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterRequest true "Registration data"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/v1/auth/register [post]
func (ctl *AuthController) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	user, err := ctl.Auth.Register(&req)
	if err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Conflict(c, err.Error())
			return
		}
		util.HandleServiceError(c, err)
		return
	}
	util.Created(c, user)
}

// Login godoc
// @Summary Log in and obtain a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginRequest true "Credentials"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/v1/auth/login [post]
func (ctl *AuthController) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	resp, err := ctl.Auth.Login(&req)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) || errors.Is(err, util.ErrPermissionDenied) {
			util.Unauthorized(c)
			return
		}
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, resp)
}

// Profile godoc
// @Summary Get the authenticated user's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/v1/auth/profile [get]
func (ctl *AuthController) Profile(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}
	user, err := ctl.Users.Get(claims.UserID)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, user)
}
