package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/ernexus/internal/pkg/errcode"
	apperr "github.com/xxxsen/ernexus/internal/pkg/errors"
	"github.com/xxxsen/ernexus/internal/pkg/response"
)

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	switch {
	case apperr.IsNotFound(err):
		response.Error(c, errcode.ErrNotFound, "not found")
	case apperr.IsUnavailable(err):
		response.Error(c, errcode.ErrAIUnavailable, "collaborator unavailable")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
