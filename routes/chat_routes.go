package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/riaddisiena/backend/controllers/chat_controller"
	middleware "github.com/riaddisiena/backend/middlewares"
)

func RegisterChatRoutes(router *gin.Engine, cc *chat_controller.ChatController) {
	router.POST("/chat", middleware.NewRateLimiter("20-1m", "chat"), cc.Chat)
}
