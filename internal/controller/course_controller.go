package controller

import (
	"errors"

	"lms_backend/internal/middleware"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

func (c *CourseController) handleCourseError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrSectionNotFound),
		errors.Is(err, util.ErrItemNotFound):
		util.NotFound(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

// Create godoc
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CourseRequest true "Course"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/instructor/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Create(claims.UserID, middleware.FranchiseIDFromContext(ctx), req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, course)
}

// Get godoc
// @Summary Get a course
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	course, err := c.CourseService.Get(id)
	if err != nil {
		c.handleCourseError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// Update godoc
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param body body service.CourseRequest true "Course fields"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/instructor/courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	course, err := c.CourseService.Update(id, req)
	if err != nil {
		c.handleCourseError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// Delete godoc
// @Summary Delete a course and its sections and items
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Router /api/instructor/courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.CourseService.Delete(id); err != nil {
		c.handleCourseError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Publish godoc
// @Summary Publish a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/instructor/courses/{id}/publish [post]
func (c *CourseController) Publish(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	course, err := c.CourseService.Publish(id)
	if err != nil {
		c.handleCourseError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// Unpublish godoc
// @Summary Unpublish a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/instructor/courses/{id}/unpublish [post]
func (c *CourseController) Unpublish(ctx *gin.Context) {
	id, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	course, err := c.CourseService.Unpublish(id)
	if err != nil {
		c.handleCourseError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// Catalog godoc
// @Summary Published course catalog
// @Tags courses
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/courses [get]
func (c *CourseController) Catalog(ctx *gin.Context) {
	page, limit := pagination(ctx)
	courses, total, err := c.CourseService.Catalog(middleware.FranchiseIDFromContext(ctx), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: courses, Total: total, Page: page, Limit: limit})
}

// List godoc
// @Summary List all courses including drafts
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/instructor/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	courses, total, err := c.CourseService.List(middleware.FranchiseIDFromContext(ctx), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: courses, Total: total, Page: page, Limit: limit})
}

// CreateSection godoc
// @Summary Add a section to a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param body body service.SectionRequest true "Section"
// @Success 201 {object} util.Response{data=model.CourseSection}
// @Router /api/instructor/courses/{id}/sections [post]
func (c *CourseController) CreateSection(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	var req service.SectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	section, err := c.CourseService.CreateSection(courseID, req)
	if err != nil {
		c.handleCourseError(ctx, err)
		return
	}
	util.Created(ctx, section)
}

// UpdateSection godoc
// @Summary Update a section
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sectionId path int true "Section ID"
// @Param body body service.SectionRequest true "Section"
// @Success 200 {object} util.Response{data=model.CourseSection}
// @Router /api/instructor/sections/{sectionId} [put]
func (c *CourseController) UpdateSection(ctx *gin.Context) {
	sectionID, ok := uintParam(ctx, "sectionId")
	if !ok {
		return
	}
	var req service.SectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	section, err := c.CourseService.UpdateSection(sectionID, req)
	if err != nil {
		c.handleCourseError(ctx, err)
		return
	}
	util.Success(ctx, section)
}

// DeleteSection godoc
// @Summary Delete a section and its items
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param sectionId path int true "Section ID"
// @Success 200 {object} util.Response
// @Router /api/instructor/sections/{sectionId} [delete]
func (c *CourseController) DeleteSection(ctx *gin.Context) {
	sectionID, ok := uintParam(ctx, "sectionId")
	if !ok {
		return
	}
	if err := c.CourseService.DeleteSection(sectionID); err != nil {
		c.handleCourseError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListSections godoc
// @Summary Sections of a course
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response{data=[]model.CourseSection}
// @Router /api/courses/{id}/sections [get]
func (c *CourseController) ListSections(ctx *gin.Context) {
	courseID, ok := uintParam(ctx, "id")
	if !ok {
		return
	}
	sections, err := c.CourseService.ListSections(courseID)
	if err != nil {
		c.handleCourseError(ctx, err)
		return
	}
	util.Success(ctx, sections)
}

// CreateItem godoc
// @Summary Add an item to a section
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sectionId path int true "Section ID"
// @Param body body service.SectionItemRequest true "Item"
// @Success 201 {object} util.Response{data=model.SectionItem}
// @Router /api/instructor/sections/{sectionId}/items [post]
func (c *CourseController) CreateItem(ctx *gin.Context) {
	sectionID, ok := uintParam(ctx, "sectionId")
	if !ok {
		return
	}
	var req service.SectionItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	item, err := c.CourseService.CreateItem(sectionID, req)
	if err != nil {
		if errors.Is(err, util.ErrSectionNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Created(ctx, item)
}

// UpdateItem godoc
// @Summary Update a section item
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param itemId path int true "Item ID"
// @Param body body service.SectionItemRequest true "Item"
// @Success 200 {object} util.Response{data=model.SectionItem}
// @Router /api/instructor/items/{itemId} [put]
func (c *CourseController) UpdateItem(ctx *gin.Context) {
	itemID, ok := uintParam(ctx, "itemId")
	if !ok {
		return
	}
	var req service.SectionItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	item, err := c.CourseService.UpdateItem(itemID, req)
	if err != nil {
		c.handleCourseError(ctx, err)
		return
	}
	util.Success(ctx, item)
}

// DeleteItem godoc
// @Summary Delete a section item
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param itemId path int true "Item ID"
// @Success 200 {object} util.Response
// @Router /api/instructor/items/{itemId} [delete]
func (c *CourseController) DeleteItem(ctx *gin.Context) {
	itemID, ok := uintParam(ctx, "itemId")
	if !ok {
		return
	}
	if err := c.CourseService.DeleteItem(itemID); err != nil {
		c.handleCourseError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListItems godoc
// @Summary Items of a section
// @Tags courses
// @Produce json
// @Param sectionId path int true "Section ID"
// @Success 200 {object} util.Response{data=[]model.SectionItem}
// @Router /api/sections/{sectionId}/items [get]
func (c *CourseController) ListItems(ctx *gin.Context) {
	sectionID, ok := uintParam(ctx, "sectionId")
	if !ok {
		return
	}
	items, err := c.CourseService.ListItems(sectionID)
	if err != nil {
		c.handleCourseError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

type reorderRequest struct {
	OrderedIDs []uint `json:"orderedIds" binding:"required,min=1"`
}

// ReorderItems godoc
// @Summary Reorder the items of a section
// @Description Applies the full ordering atomically; unknown item ids fail the whole request
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sectionId path int true "Section ID"
// @Param body body reorderRequest true "Ordered item ids"
// @Success 200 {object} util.Response
// @Router /api/instructor/sections/{sectionId}/reorder [put]
func (c *CourseController) ReorderItems(ctx *gin.Context) {
	sectionID, ok := uintParam(ctx, "sectionId")
	if !ok {
		return
	}
	var req reorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.CourseService.ReorderItems(sectionID, req.OrderedIDs); err != nil {
		c.handleCourseError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
