package http

import (
	"net/http"

	"github.com/aescanero/analysis-api/pkg/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnalyzeRequest is the POST /analyze body.
// Pointers tell a missing or null field apart from an empty string.
type AnalyzeRequest struct {
	Repo    *string `json:"repo" binding:"required"`
	Path    *string `json:"path" binding:"required"`
	Content *string `json:"content" binding:"required"`
}

func (r *AnalyzeRequest) toDomain() domain.AnalysisRequest {
	return domain.AnalysisRequest{
		Repo:    *r.Repo,
		Path:    *r.Path,
		Content: *r.Content,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error codes
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeAnalysisFailed   = "ANALYSIS_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, domain.HealthStatus{Status: domain.HealthStatusOK})
}

// handleAnalyze handles file analysis
func (s *Server) handleAnalyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := bindJSONStrict(c, &req); err != nil {
		s.respondBindError(c, err)
		return
	}

	resp, err := s.analysis.Analyze(c.Request.Context(), req.toDomain())
	if err != nil {
		s.logger.Error("failed to analyze file",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{
				Code:    CodeAnalysisFailed,
				Message: "Analysis failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// respondBindError turns a binding error into a 422 or 400 response
func (s *Server) respondBindError(c *gin.Context, err error) {
	verr := classifyBindError(err)
	if verr == nil {
		s.logger.Debug("malformed request body",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    CodeInvalidRequest,
				Message: "Request body is not valid JSON",
				Details: []domain.FieldError{{Field: bodyField, Reason: errMalformedBody.Error()}},
			},
		})
		return
	}

	for _, f := range verr.Fields {
		if s.metrics != nil {
			s.metrics.RecordValidationFailure(f.Field)
		}
	}
	s.logger.Debug("request validation failed",
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.Error(verr))

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error: ErrorDetail{
			Code:    CodeValidationFailed,
			Message: verr.Error(),
			Details: verr.Fields,
		},
	})
}

func (s *Server) handleNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{
		Error: ErrorDetail{
			Code:    CodeNotFound,
			Message: "Route not found",
		},
	})
}

func (s *Server) handleMethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, ErrorResponse{
		Error: ErrorDetail{
			Code:    CodeMethodNotAllowed,
			Message: "Method not allowed",
		},
	})
}
