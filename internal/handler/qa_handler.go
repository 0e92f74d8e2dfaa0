package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/ernexus/internal/pkg/errcode"
	"github.com/xxxsen/ernexus/internal/pkg/response"
	"github.com/xxxsen/ernexus/internal/service"
)

type qaRequest struct {
	Question string `json:"question"`
}

type QAHandler struct {
	qa *service.QAService
}

func NewQAHandler(qa *service.QAService) *QAHandler {
	return &QAHandler{qa: qa}
}

func (h *QAHandler) Query(c *gin.Context) {
	var req qaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request body")
		return
	}
	result := h.qa.Answer(c.Request.Context(), req.Question)
	response.Success(c, result)
}

func (h *QAHandler) Stats(c *gin.Context) {
	stats, err := h.qa.Stats()
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, stats)
}
