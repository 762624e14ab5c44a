package api

import (
	"errors"
	"net/http"

	"auto_builder_go/orm"

	"github.com/gin-gonic/gin"
)

// writeError 把核心错误类型映射为HTTP状态码和统一错误结构
func writeError(c *gin.Context, err error) {
	var vErr *orm.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error_code": vErr.Rule,
			"field":      vErr.Field,
			"error":      vErr.Message,
		})
		return
	}
	var eErr *orm.ExtractionError
	if errors.As(err, &eErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error_code": eErr.Kind,
			"error":      eErr.Message,
		})
		return
	}
	var cErr *orm.ConfigurationError
	if errors.As(err, &cErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error_code": "bad_configuration",
			"field":      cErr.Key,
			"error":      cErr.Message,
		})
		return
	}
	var sErr *orm.ExternalServiceError
	if errors.As(err, &sErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error_code": "external_service_error",
			"provider":   sErr.Provider,
			"error":      sErr.Error(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
