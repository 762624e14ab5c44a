package api

import (
	"io"
	"net/http"

	"auto_builder_go/service"

	"github.com/gin-gonic/gin"
)

type createConversationRequest struct {
	Title string `json:"title"`
}

type sendMessageRequest struct {
	Content string   `json:"content" binding:"required"`
	FileIDs []string `json:"file_ids"`
}

// POST /api/conversations
func CreateConversationHandler(convs *service.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "非法的请求体"})
			return
		}
		if req.Title == "" {
			req.Title = "新对话"
		}
		conv, err := convs.CreateConversation(req.Title)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, conv)
	}
}

// GET /api/conversations
func ListConversationsHandler(convs *service.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := convs.ListConversations()
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"conversations": list, "total": len(list)})
	}
}

// GET /api/conversations/:id
func GetConversationHandler(convs *service.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		conv, err := convs.GetConversation(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		if conv == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "对话不存在"})
			return
		}
		c.JSON(http.StatusOK, conv)
	}
}

// PUT /api/conversations/:id
func RenameConversationHandler(convs *service.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "请求体需要title字段"})
			return
		}
		conv, err := convs.RenameConversation(c.Param("id"), req.Title)
		if err != nil {
			writeError(c, err)
			return
		}
		if conv == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "对话不存在"})
			return
		}
		c.JSON(http.StatusOK, conv)
	}
}

// DELETE /api/conversations/:id
func DeleteConversationHandler(convs *service.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := convs.DeleteConversation(c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

// GET /api/conversations/:id/messages
func ListMessagesHandler(convs *service.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		messages, err := convs.ListMessages(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": messages, "total": len(messages)})
	}
}

// POST /api/conversations/:id/messages
// 发送用户消息并同步返回助手回复
func SendMessageHandler(convs *service.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "请求体需要content字段"})
			return
		}
		conv, err := convs.GetConversation(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		if conv == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "对话不存在"})
			return
		}
		reply, err := convs.SendMessage(conv.ID, req.Content, req.FileIDs)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, reply)
	}
}

// POST /api/conversations/:id/files
// multipart表单，file字段为附件
func UploadConversationFileHandler(convs *service.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		conv, err := convs.GetConversation(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		if conv == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "对话不存在"})
			return
		}
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "缺少file字段"})
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
		file, err := convs.UploadFile(conv.ID, fileHeader.Filename, data)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, file)
	}
}

// GET /api/conversations/:id/files
func ListConversationFilesHandler(convs *service.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		files, err := convs.ListFiles(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"files": files, "total": len(files)})
	}
}
