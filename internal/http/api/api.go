package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/panduan-shalat/internal/http/middleware"
)

type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string { return e.Message }

func NewError(code int, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

type HandlerFunc func(ctx *gin.Context) (any, *APIError)

// ResolveEndpoint writes the handler's result as JSON, or its error as {"error": msg}.
func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return ResolveEndpointWithStatus(http.StatusOK, h)
}

func ResolveEndpointWithStatus(status int, h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			if apiErr.Code >= http.StatusInternalServerError {
				log.Error().Str("path", ctx.FullPath()).Int("status", apiErr.Code).Msg(apiErr.Message)
			}
			ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}

		ctx.JSON(status, result)
	}
}

type HandlerFuncWithOperator func(ctx *gin.Context, operator string) (any, *APIError)

// ResolveEndpointWithOperator runs h with the operator set by JWTMiddleware.
func ResolveEndpointWithOperator(status int, h HandlerFuncWithOperator) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		operator, ok := middleware.GetOperator(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ResolveEndpointWithStatus(status, func(ctx *gin.Context) (any, *APIError) {
			return h(ctx, operator)
		})(ctx)
	}
}
