package controller

import (
	"care_program_backend/internal/model"
	"care_program_backend/internal/service"
	"care_program_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	Contents *service.ContentService
}

func NewContentController(contents *service.ContentService) *ContentController {
	return &ContentController{Contents: contents}
}

// List godoc
// @Summary List content catalog entries
// @Tags content-admin
// @Produce json
// @Security BearerAuth
// @Param day query int false "Filter by day"
// @Param role query string false "Filter by role"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/v1/admin/contents [get]
func (ctl *ContentController) List(c *gin.Context) {
	page := util.QueryInt(c, "page", 1)
	limit := util.QueryInt(c, "limit", 20)
	day := util.QueryInt(c, "day", -1)
	role := model.UserRole(c.Query("role"))

	items, total, err := ctl.Contents.List(day, role, page, limit)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, util.PageResponse{List: items, Total: total, Page: page, Limit: limit})
}

// Create godoc
// @Summary Create a content catalog entry
// @Tags content-admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ContentItemRequest true "Catalog entry"
// @Success 201 {object} util.Response{data=model.ContentItem}
// @Failure 400 {object} util.Response
// @Router /api/v1/admin/contents [post]
func (ctl *ContentController) Create(c *gin.Context) {
	var req service.ContentItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	item, err := ctl.Contents.Create(&req)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Created(c, item)
}

// Update godoc
// @Summary Update a content catalog entry
// @Description Catalog changes affect future materializations only; already-materialized day modules keep their frozen content list.
// @Tags content-admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Content item id"
// @Param request body service.ContentItemRequest true "Catalog entry"
// @Success 200 {object} util.Response{data=model.ContentItem}
// @Failure 404 {object} util.Response
// @Router /api/v1/admin/contents/{id} [put]
func (ctl *ContentController) Update(c *gin.Context) {
	var req service.ContentItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	item, err := ctl.Contents.Update(c.Param("id"), &req)
	if err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, item)
}

// Delete godoc
// @Summary Delete a content catalog entry
// @Tags content-admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Content item id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/admin/contents/{id} [delete]
func (ctl *ContentController) Delete(c *gin.Context) {
	if err := ctl.Contents.Delete(c.Param("id")); err != nil {
		util.HandleServiceError(c, err)
		return
	}
	util.Success(c, nil)
}
