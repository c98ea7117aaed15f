package controller

import (
	"eduplay_backend/internal/service"
	"eduplay_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type GameController struct {
	GameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{GameService: gameService}
}

// ListGames godoc
// @Summary Game catalog
// @Tags games
// @Produce  json
// @Security BearerAuth
// @Param   subject query string false "filter by subject"
// @Success 200 {object} util.Response
// @Router /api/games [get]
func (c *GameController) ListGames(ctx *gin.Context) {
	games, err := c.GameService.ListGames(ctx.Query("subject"))
	if err != nil {
		if errors.Is(err, util.ErrUnknownSubject) {
			util.NotFound(ctx, "unknown subject")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, games)
}

// GetGame godoc
// @Summary One game's metadata
// @Tags games
// @Produce  json
// @Security BearerAuth
// @Param   subject path string true "subject"
// @Param   gameId path string true "game id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/games/{subject}/{gameId} [get]
func (c *GameController) GetGame(ctx *gin.Context) {
	game, err := c.GameService.GetGame(ctx.Param("subject"), ctx.Param("gameId"))
	if err != nil {
		c.renderGameError(ctx, err)
		return
	}
	util.Success(ctx, game)
}

// GetPackage godoc
// @Summary Offline asset bundle URL
// @Description Resolves a download URL for the game's offline content
// @Description pack so clients can cache it ahead of losing connectivity.
// @Tags games
// @Produce  json
// @Security BearerAuth
// @Param   subject path string true "subject"
// @Param   gameId path string true "game id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/games/{subject}/{gameId}/package [get]
func (c *GameController) GetPackage(ctx *gin.Context) {
	url, err := c.GameService.PackageURL(ctx.Request.Context(), ctx.Param("subject"), ctx.Param("gameId"))
	if err != nil {
		c.renderGameError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}

// PublishPackage godoc
// @Summary Publish a game's offline content pack
// @Description Teachers upload the asset bundle clients download for
// @Description offline play. Replaces any previously published bundle.
// @Tags games
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   subject path string true "subject"
// @Param   gameId path string true "game id"
// @Param   package formData file true "asset bundle"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/games/{subject}/{gameId}/package [post]
func (c *GameController) PublishPackage(ctx *gin.Context) {
	header, err := ctx.FormFile("package")
	if err != nil {
		util.BadRequest(ctx, "package file is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	defer file.Close()

	url, err := c.GameService.PublishPackage(
		ctx.Request.Context(),
		ctx.Param("subject"),
		ctx.Param("gameId"),
		file,
		header.Size,
		header.Header.Get("Content-Type"),
	)
	if err != nil {
		c.renderGameError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}

// SubmitScore godoc
// @Summary Record a game attempt
// @Tags games
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   subject path string true "subject"
// @Param   gameId path string true "game id"
// @Param   body body service.ScoreRequest true "score payload"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/games/{subject}/{gameId}/score [post]
func (c *GameController) SubmitScore(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ScoreRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	response, err := c.GameService.SubmitScore(claims.UserID, ctx.Param("subject"), ctx.Param("gameId"), req)
	if err != nil {
		c.renderGameError(ctx, err)
		return
	}
	util.Success(ctx, response)
}

func (c *GameController) renderGameError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrUnknownSubject):
		util.NotFound(ctx, "unknown subject")
	case errors.Is(err, util.ErrUnknownGame):
		util.NotFound(ctx, "unknown game")
	default:
		util.LogInternalError(ctx, err)
	}
}
