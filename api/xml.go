package api

import (
	"net/http"

	"auto_builder_go/service"

	"github.com/gin-gonic/gin"
)

type mergeRequest struct {
	XmlType string `json:"xml_type"`
	Xml     string `json:"xml" binding:"required"`
	Source  string `json:"source"`
	TaskID  string `json:"task_id"`
}

// POST /api/xml/merge
// 把片段合并进xml_type对应的模型文件
func MergeXmlHandler(xmlService *service.XmlService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req mergeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "请求体需要xml字段"})
			return
		}
		if req.XmlType == "" {
			req.XmlType = "orm"
		}
		result, err := xmlService.Merge(req.XmlType, req.Xml)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"identifier": result.Identifier,
			"action":     result.Action,
		})
	}
}

// POST /api/orm/entity
// 旧版兼容端点，等价于 xml_type=orm 的合并
func MergeOrmEntityHandler(xmlService *service.XmlService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req mergeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "请求体需要xml字段"})
			return
		}
		result, err := xmlService.Merge("orm", req.Xml)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"identifier": result.Identifier,
			"action":     result.Action,
		})
	}
}
