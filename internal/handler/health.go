package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/challenge-hub/backend/internal/model"
)

// 헬스체크 엔드포인트
//
// @Summary Ping
// @Tags health
// @Produce json
// @Success 200 {object} model.PingResponse
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, model.PingResponse{Message: "pong"})
}

// 루트 엔드포인트
//
// @Summary Service status
// @Tags health
// @Produce json
// @Success 200 {object} model.RootResponse
// @Router / [get]
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, model.RootResponse{
		Status:  "ok",
		Message: "challenge-hub API server is running",
	})
}
