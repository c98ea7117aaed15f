package controller

import (
	"eduplay_backend/internal/model"
	"eduplay_backend/internal/service"
	"eduplay_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TeacherController struct {
	AnalyticsService *service.AnalyticsService
}

func NewTeacherController(analyticsService *service.AnalyticsService) *TeacherController {
	return &TeacherController{AnalyticsService: analyticsService}
}

// GetDashboard godoc
// @Summary Teacher dashboard
// @Tags teachers
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/teachers/dashboard [get]
func (c *TeacherController) GetDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	dashboard, err := c.AnalyticsService.GetTeacherDashboard(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// ListClasses godoc
// @Summary Classes owned by the teacher
// @Tags teachers
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/teachers/classes [get]
func (c *TeacherController) ListClasses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	classes, err := c.AnalyticsService.ListClasses(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, classes)
}

// CreateClass godoc
// @Summary Create a class
// @Tags teachers
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ClassRequest true "class payload"
// @Success 201 {object} util.Response
// @Router /api/teachers/classes [post]
func (c *TeacherController) CreateClass(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	class, err := c.AnalyticsService.CreateClass(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, class)
}

// GetClassStudents godoc
// @Summary Roster of one class
// @Tags teachers
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "class id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teachers/classes/{id}/students [get]
func (c *TeacherController) GetClassStudents(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	classID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid class id")
		return
	}

	students, err := c.AnalyticsService.ClassStudents(uint(classID), claims.UserID, claims.Role == model.Admin)
	if err != nil {
		c.renderClassError(ctx, err)
		return
	}
	util.Success(ctx, students)
}

// GetClassAnalytics godoc
// @Summary Class progress analytics
// @Tags teachers
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "class id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teachers/analytics/classes/{id} [get]
func (c *TeacherController) GetClassAnalytics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	classID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid class id")
		return
	}

	overview, err := c.AnalyticsService.GetClassOverview(uint(classID), claims.UserID, claims.Role == model.Admin)
	if err != nil {
		c.renderClassError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// GetStudentAnalytics godoc
// @Summary One student's summary
// @Tags teachers
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "student id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/teachers/analytics/students/{id} [get]
func (c *TeacherController) GetStudentAnalytics(ctx *gin.Context) {
	studentID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid student id")
		return
	}

	summary, err := c.AnalyticsService.GetStudentSummary(uint(studentID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx, "unknown student")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, summary)
}

// GetSubjectAnalytics godoc
// @Summary Platform-wide subject performance
// @Tags teachers
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/teachers/analytics/subjects [get]
func (c *TeacherController) GetSubjectAnalytics(ctx *gin.Context) {
	rows, err := c.AnalyticsService.GetSubjectPerformance()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

func (c *TeacherController) renderClassError(ctx *gin.Context, err error) {
	if errors.Is(err, util.ErrUnknownClass) {
		util.NotFound(ctx, "unknown class")
		return
	}
	util.LogInternalError(ctx, err)
}
