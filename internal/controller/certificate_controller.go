package controller

import (
	"errors"

	"lms_backend/internal/middleware"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{CertificateService: certificateService}
}

// MyCertificates godoc
// @Summary Own certificates
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Certificate}
// @Router /api/certificates [get]
func (c *CertificateController) MyCertificates(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	certificates, err := c.CertificateService.ListByStudent(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, certificates)
}

// Verify godoc
// @Summary Verify a certificate number
// @Description Public endpoint used by the QR link printed on the certificate
// @Tags certificates
// @Produce json
// @Param number path string true "Certificate number"
// @Success 200 {object} util.Response{data=service.VerificationResult}
// @Failure 404 {object} util.Response
// @Router /api/certificates/verify/{number} [get]
func (c *CertificateController) Verify(ctx *gin.Context) {
	number := ctx.Param("number")
	if number == "" {
		util.BadRequest(ctx, "certificate number is required")
		return
	}

	result, err := c.CertificateService.Verify(number)
	if err != nil {
		if errors.Is(err, util.ErrCertificateNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// List godoc
// @Summary List issued certificates
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/certificates [get]
func (c *CertificateController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	certificates, total, err := c.CertificateService.List(middleware.FranchiseIDFromContext(ctx), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: certificates, Total: total, Page: page, Limit: limit})
}

// IssueMissing godoc
// @Summary Issue certificates for completed enrollments that lack one
// @Description Same pass the background sweep runs, triggered on demand
// @Tags certificates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/admin/certificates/issue-missing [post]
func (c *CertificateController) IssueMissing(ctx *gin.Context) {
	issued, err := c.CertificateService.IssueMissing()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"issued": issued})
}
