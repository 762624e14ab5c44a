package api

import (
	"encoding/json"
	"net/http"

	"auto_builder_go/service"

	"github.com/gin-gonic/gin"
)

type generateRequest struct {
	EntityName string          `json:"entity_name" binding:"required"`
	Config     json.RawMessage `json:"config" binding:"required"`
}

// POST /api/generate
// 同步生成，?backend=rule 时强制用本地规则后端
func GenerateHandler(ormService, ruleService *service.OrmService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req generateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "请求体需要entity_name和config字段"})
			return
		}

		svc := ormService
		if c.Query("backend") == "rule" {
			svc = ruleService
		}
		result, err := svc.GenerateOrm(req.EntityName, req.Config)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"xml":         result.Xml,
			"entity_name": result.EntityName,
			"table_name":  result.TableName,
		})
	}
}
