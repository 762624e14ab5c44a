package api

import (
	"net/http"

	"auto_builder_go/service"

	"github.com/gin-gonic/gin"
)

// Services 路由依赖的服务集合
type Services struct {
	Orm          *service.OrmService
	RuleOrm      *service.OrmService
	Task         *service.TaskService
	Xml          *service.XmlService
	Conversation *service.ConversationService
	Provider     service.LlmService
}

// NewRouter 注册全部路由
func NewRouter(s *Services) *gin.Engine {
	r := gin.Default()

	// GET /
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "auto_builder",
			"usage":   "POST /api/upload 上传表格配置，GET /api/tasks/:id 轮询结果",
		})
	})

	// GET /health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"provider":  s.Provider.ProviderName(),
			"available": s.Provider.Available(),
		})
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/upload", UploadHandler(s.Task))
		apiGroup.GET("/tasks", ListTasksHandler(s.Task))
		apiGroup.GET("/tasks/:id", GetTaskHandler(s.Task))
		apiGroup.GET("/tasks/:id/result", GetTaskResultHandler(s.Task))
		apiGroup.DELETE("/tasks/:id", DeleteTaskHandler(s.Task))

		apiGroup.POST("/generate", GenerateHandler(s.Orm, s.RuleOrm))
		apiGroup.POST("/xml/merge", MergeXmlHandler(s.Xml))
		apiGroup.POST("/orm/entity", MergeOrmEntityHandler(s.Xml))

		apiGroup.POST("/conversations", CreateConversationHandler(s.Conversation))
		apiGroup.GET("/conversations", ListConversationsHandler(s.Conversation))
		apiGroup.GET("/conversations/:id", GetConversationHandler(s.Conversation))
		apiGroup.PUT("/conversations/:id", RenameConversationHandler(s.Conversation))
		apiGroup.DELETE("/conversations/:id", DeleteConversationHandler(s.Conversation))
		apiGroup.GET("/conversations/:id/messages", ListMessagesHandler(s.Conversation))
		apiGroup.POST("/conversations/:id/messages", SendMessageHandler(s.Conversation))
		apiGroup.GET("/conversations/:id/files", ListConversationFilesHandler(s.Conversation))
		apiGroup.POST("/conversations/:id/files", UploadConversationFileHandler(s.Conversation))
	}

	return r
}
