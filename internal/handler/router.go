package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/ernexus/internal/pkg/response"
)

type RouterDeps struct {
	QA *QAHandler
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/qa/query", deps.QA.Query)
	api.GET("/corpus/stats", deps.QA.Stats)
	api.GET("/health", func(c *gin.Context) {
		response.Success(c, map[string]string{"status": "ok"})
	})
}
