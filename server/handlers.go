package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/gorunnable/errors"
	"github.com/kbukum/gorunnable/logger"
	"github.com/kbukum/gorunnable/runnable"
)

// InvokeRequest is the body of POST /v1/pipelines/:name/invoke.
type InvokeRequest struct {
	Input runnable.Value `json:"input"`
}

// InvokeResponse is the data of a successful invocation.
type InvokeResponse struct {
	Pipeline string         `json:"pipeline"`
	Output   runnable.Value `json:"output"`
}

func (s *Server) listPipelines(c *gin.Context) {
	RespondOK(c, s.catalog.List())
}

func (s *Server) invokePipeline(c *gin.Context) {
	name := c.Param("name")
	stage, ok := s.catalog.Get(name)
	if !ok {
		RespondWithError(c, apperrors.NotFound("pipeline", name))
		return
	}

	var req InvokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondWithError(c, apperrors.PayloadTooLarge(tooLarge.Limit))
			return
		}
		RespondWithError(c, apperrors.InvalidInput("body", err.Error()))
		return
	}

	ctx := c.Request.Context()
	if d := s.config.invokeTimeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	out, err := runnable.Invoke(ctx, stage, req.Input)
	if err != nil {
		appErr := ToAppError(err)
		s.log.WithContext(ctx).Warn("Pipeline invocation failed", map[string]interface{}{
			logger.FieldPipeline: name,
			logger.FieldError:    err.Error(),
			"code":               appErr.Code,
		})
		RespondWithError(c, appErr)
		return
	}
	RespondOK(c, InvokeResponse{Pipeline: name, Output: out})
}
