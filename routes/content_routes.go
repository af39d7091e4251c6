package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/riaddisiena/backend/controllers/content_controller"
)

func RegisterContentRoutes(router *gin.Engine, cc *content_controller.ContentController) {
	router.GET("/rooms", cc.GetRooms)
	router.GET("/douaria-rooms", cc.GetDouariaRooms)
	router.GET("/desert-tents", cc.GetDesertTents)
	router.GET("/kasbah-experience", cc.GetExperiences)
	router.GET("/amenities", cc.GetAmenities)
	router.GET("/testimonials", cc.GetTestimonials)
	router.GET("/faq", cc.GetFAQ)
	router.GET("/booking-conditions", cc.GetBookingConditions)
	router.GET("/settings", cc.GetSettings)
	router.GET("/directions", cc.GetDirections)
	router.GET("/directions-settings", cc.GetDirectionsSettings)
	router.GET("/journeys", cc.GetJourneys)

	// Per-page lists and single-row hero blocks.
	router.GET("/douaria-content", cc.GetDouariaContent)
	router.GET("/kasbah-gallery", cc.GetKasbahGallery)
	router.GET("/farm-produce", cc.GetFarmProduce)
	router.GET("/beyond-the-walls", cc.GetBeyondTheWalls)
	router.GET("/beyond-the-walls-hero", cc.GetBeyondTheWallsHero)
	router.GET("/desert-hero", cc.GetDesertHero)

	// Text pages served as ordered sections.
	router.GET("/disclaimer", cc.GetDisclaimer)
	router.GET("/house-rules", cc.GetHouseRules)
	router.GET("/privacy", cc.GetPrivacyPolicy)

	// Keyed page-section tabs. Each marketing page has its own content tab.
	router.GET("/home", cc.GetHome)
	router.GET("/the-riad", cc.GetPage("The_Riad"))
	router.GET("/philosophy", cc.GetPage("Philosophy"))
}
