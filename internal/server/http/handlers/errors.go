package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/server/http/dto"
)

const (
	codeInvalidInput       = "invalid_input"
	codeNotFound           = "not_found"
	codeOutOfStock         = "out_of_stock"
	codeProductUnavailable = "product_unavailable"
	codeGatewayError       = "gateway_error"
	codeInternalError      = "internal_error"
)

// respondError maps a domain error to its status and body. Details of
// gateway and internal failures stay in the logs.
func respondError(c *gin.Context, err error) {
	status, code, message := http.StatusInternalServerError, codeInternalError, "internal error"

	var validation *domainErrors.ValidationError
	switch {
	case errors.As(err, &validation):
		status, code, message = http.StatusBadRequest, codeInvalidInput, validation.Error()
	case errors.Is(err, domainErrors.ErrInvalidInput):
		status, code, message = http.StatusBadRequest, codeInvalidInput, err.Error()
	case errors.Is(err, domainErrors.ErrNotFound):
		status, code, message = http.StatusNotFound, codeNotFound, "not found"
	case errors.Is(err, domainErrors.ErrOutOfStock):
		status, code, message = http.StatusConflict, codeOutOfStock, err.Error()
	case errors.Is(err, domainErrors.ErrProductUnavailable):
		status, code, message = http.StatusBadRequest, codeProductUnavailable, err.Error()
	case errors.Is(err, domainErrors.ErrUpstreamUnavailable):
		status, code, message = http.StatusBadGateway, codeGatewayError, "payment gateway unavailable"
	}

	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: code, Message: message})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: codeInvalidInput, Message: message})
}
