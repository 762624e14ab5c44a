package api

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"auto_builder_go/model"
	"auto_builder_go/service"

	"github.com/gin-gonic/gin"
)

// 上传的配置文件大小上限
const maxUploadSize = 2 << 20

// POST /api/upload
// multipart表单，file字段为表格配置JSON文件
func UploadHandler(tasks *service.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "缺少file字段"})
			return
		}
		if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".json") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "仅支持.json配置文件"})
			return
		}
		if fileHeader.Size > maxUploadSize {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "配置文件过大"})
			return
		}

		src, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "读取上传文件失败"})
			return
		}
		defer src.Close()
		data, err := io.ReadAll(src)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "读取上传文件失败"})
			return
		}

		task, err := tasks.SubmitTask(fileHeader.Filename, data)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{
			"task_id": task.ID,
			"status":  task.Status,
		})
	}
}

// GET /api/tasks
func ListTasksHandler(tasks *service.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := tasks.ListTasks()
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tasks": list, "total": len(list)})
	}
}

// GET /api/tasks/:id
func GetTaskHandler(tasks *service.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		task, err := tasks.GetTask(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		if task == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "任务不存在"})
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

// GET /api/tasks/:id/result
// 仅当任务成功时返回生成的XML
func GetTaskResultHandler(tasks *service.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		task, err := tasks.GetTask(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		if task == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "任务不存在"})
			return
		}
		if task.Status != model.TaskStatusSuccess {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "任务尚未成功完成",
				"status": task.Status,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"xml":         task.ResultXml,
			"entity_name": task.EntityName,
			"table_name":  task.TargetTable,
		})
	}
}

// DELETE /api/tasks/:id
func DeleteTaskHandler(tasks *service.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := tasks.DeleteTask(c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
