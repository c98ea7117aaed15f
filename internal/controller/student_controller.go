package controller

import (
	"eduplay_backend/internal/service"
	"eduplay_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type StudentController struct {
	ProgressService    *service.ProgressService
	PointsService      *service.PointsService
	AchievementService *service.AchievementService
	DashboardService   *service.DashboardService
}

func NewStudentController(
	progressService *service.ProgressService,
	pointsService *service.PointsService,
	achievementService *service.AchievementService,
	dashboardService *service.DashboardService,
) *StudentController {
	return &StudentController{
		ProgressService:    progressService,
		PointsService:      pointsService,
		AchievementService: achievementService,
		DashboardService:   dashboardService,
	}
}

// GetDashboard godoc
// @Summary Student dashboard
// @Tags students
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/students/dashboard [get]
func (c *StudentController) GetDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	dashboard, err := c.DashboardService.GetStudentDashboard(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// GetSubjects godoc
// @Summary Per-subject overview
// @Tags students
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/students/subjects [get]
func (c *StudentController) GetSubjects(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	summaries, err := c.ProgressService.SubjectOverview(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summaries)
}

// GetSubjectTopics godoc
// @Summary Topic progress for one subject
// @Tags students
// @Produce  json
// @Security BearerAuth
// @Param   subject path string true "subject"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/students/subjects/{subject} [get]
func (c *StudentController) GetSubjectTopics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	records, err := c.ProgressService.TopicsForSubject(claims.UserID, ctx.Param("subject"))
	if err != nil {
		if errors.Is(err, util.ErrUnknownSubject) {
			util.NotFound(ctx, "unknown subject")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, records)
}

// SubmitProgress godoc
// @Summary Record topic progress
// @Description Upserts the progress row, awards points and reports any
// @Description newly unlocked achievements.
// @Tags students
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ProgressRequest true "progress payload"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/students/progress [post]
func (c *StudentController) SubmitProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	response, err := c.ProgressService.SubmitProgress(claims.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrUnknownSubject) {
			util.BadRequest(ctx, "unknown subject")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, response)
}

// GetAchievements godoc
// @Summary Achievement catalog with unlock state
// @Tags students
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/students/achievements [get]
func (c *StudentController) GetAchievements(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	list, err := c.AchievementService.ListForUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// GetLeaderboard godoc
// @Summary Points leaderboard
// @Tags students
// @Produce  json
// @Security BearerAuth
// @Param   subject query string false "subject (empty ranks by total)"
// @Param   limit query int false "entries to return" default(10)
// @Success 200 {object} util.Response
// @Router /api/students/leaderboard [get]
func (c *StudentController) GetLeaderboard(ctx *gin.Context) {
	limit := 10
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	rows, err := c.PointsService.Leaderboard(ctx.Query("subject"), limit)
	if err != nil {
		if errors.Is(err, util.ErrUnknownSubject) {
			util.BadRequest(ctx, "unknown subject")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, rows)
}

// GetPoints godoc
// @Summary Current points account
// @Tags students
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/students/points [get]
func (c *StudentController) GetPoints(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	account, err := c.PointsService.GetAccount(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"totalPoints":      account.TotalPoints,
		"currentLevel":     account.CurrentLevel,
		"subjectPoints":    account.SubjectPoints(),
		"streakDays":       account.StreakDays,
		"lastActivityDate": account.LastActivityDate,
	})
}
