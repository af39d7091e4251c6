package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/riaddisiena/backend/controllers/legal_controller"
)

func RegisterLegalRoutes(router *gin.Engine, lc *legal_controller.LegalController) {
	router.GET("/legal", lc.GetLegalPage)
	router.GET("/footer", lc.GetFooter)
}
