package controller

import (
	"errors"

	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TicketController struct {
	TicketService *service.TicketService
}

func NewTicketController(ticketService *service.TicketService) *TicketController {
	return &TicketController{TicketService: ticketService}
}

// Open godoc
// @Summary Open a support ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.OpenTicketRequest true "Subject and first message"
// @Success 201 {object} util.Response{data=model.Ticket}
// @Router /api/tickets [post]
func (c *TicketController) Open(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	var req service.OpenTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	ticket, err := c.TicketService.Open(claims.UserID, middleware.FranchiseIDFromContext(ctx), req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, ticket)
}

// Get godoc
// @Summary Ticket with its message thread
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Success 200 {object} util.Response
// @Router /api/tickets/{id} [get]
func (c *TicketController) Get(ctx *gin.Context) {
	ticket, messages, err := c.TicketService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrTicketNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims != nil && claims.Role == model.Student && ticket.StudentID != claims.UserID {
		util.Forbidden(ctx)
		return
	}
	util.Success(ctx, gin.H{"ticket": ticket, "messages": messages})
}

type replyRequest struct {
	Body string `json:"body" binding:"required"`
}

// Reply godoc
// @Summary Reply to a ticket
// @Description Staff replies mark the ticket answered, student replies reopen it
// @Tags tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Param body body replyRequest true "Message"
// @Success 201 {object} util.Response{data=model.TicketMessage}
// @Failure 409 {object} util.Response "ticket is closed"
// @Router /api/tickets/{id}/messages [post]
func (c *TicketController) Reply(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	var req replyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	isStaff := claims.Role == model.Instructor || claims.Role == model.Admin
	message, err := c.TicketService.Reply(ctx.Param("id"), claims.UserID, isStaff, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTicketNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrTicketClosed):
			util.Conflict(ctx, "ticket is closed")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, message)
}

// Close godoc
// @Summary Close a ticket
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Success 200 {object} util.Response{data=model.Ticket}
// @Router /api/tickets/{id}/close [post]
func (c *TicketController) Close(ctx *gin.Context) {
	ticket, err := c.TicketService.Close(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrTicketNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, ticket)
}

// MyTickets godoc
// @Summary List own tickets
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Ticket}
// @Router /api/tickets [get]
func (c *TicketController) MyTickets(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	tickets, err := c.TicketService.ListByStudent(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tickets)
}

// List godoc
// @Summary List tickets for staff
// @Tags tickets
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (open, answered, closed)"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/tickets [get]
func (c *TicketController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	tickets, total, err := c.TicketService.List(middleware.FranchiseIDFromContext(ctx), ctx.Query("status"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: tickets, Total: total, Page: page, Limit: limit})
}
