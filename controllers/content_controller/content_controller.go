// Package content_controller serves the read-side entity endpoints. Every
// handler is the same shape: fetch a table, map rows through the typed
// record constructors, sort by the numeric Order column, return a list or a
// keyed object. Any upstream failure degrades to an empty payload with a
// non-2xx status so pages render empty sections instead of crashing.
package content_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/riaddisiena/backend/logger"
	"github.com/riaddisiena/backend/models/content_models"
	"github.com/riaddisiena/backend/store"
)

type ContentController struct {
	Store store.Tables
}

func NewContentController(tables store.Tables) *ContentController {
	return &ContentController{Store: tables}
}

// listOf fetches a table and returns the mapped, Order-sorted list.
func listOf[T any](c *gin.Context, tables store.Tables, table string, from func(store.Record) T, order func(T) int) {
	rows, err := tables.ReadTable(c.Request.Context(), table)
	if err != nil {
		logger.ErrorLogger.Errorf("Error fetching %s: %v", table, err)
		c.JSON(http.StatusInternalServerError, []T{})
		return
	}

	records := store.RowsToRecords(rows)
	items := make([]T, 0, len(records))
	for _, rec := range records {
		items = append(items, from(rec))
	}
	content_models.SortByOrder(items, order)
	c.JSON(http.StatusOK, items)
}

func (cc *ContentController) GetRooms(c *gin.Context) {
	listOf(c, cc.Store, "Rooms", content_models.RoomFromRecord, func(r content_models.Room) int { return r.Order })
}

func (cc *ContentController) GetDouariaRooms(c *gin.Context) {
	listOf(c, cc.Store, "Douaria_Rooms", content_models.RoomFromRecord, func(r content_models.Room) int { return r.Order })
}

func (cc *ContentController) GetDesertTents(c *gin.Context) {
	listOf(c, cc.Store, "Desert_Tents", content_models.TentFromRecord, func(t content_models.Tent) int { return t.Order })
}

func (cc *ContentController) GetExperiences(c *gin.Context) {
	listOf(c, cc.Store, "Kasbah_Experience", content_models.ExperienceFromRecord, func(e content_models.Experience) int { return e.Order })
}

func (cc *ContentController) GetAmenities(c *gin.Context) {
	listOf(c, cc.Store, "Amenities", content_models.AmenityFromRecord, func(a content_models.Amenity) int { return a.Order })
}

func (cc *ContentController) GetTestimonials(c *gin.Context) {
	listOf(c, cc.Store, "Testimonials", content_models.TestimonialFromRecord, func(t content_models.Testimonial) int { return t.Order })
}

func (cc *ContentController) GetFAQ(c *gin.Context) {
	listOf(c, cc.Store, "FAQ", content_models.FAQFromRecord, func(f content_models.FAQItem) int { return f.Order })
}

func (cc *ContentController) GetBookingConditions(c *gin.Context) {
	listOf(c, cc.Store, "Booking_Conditions", content_models.ConditionFromRecord, func(b content_models.Condition) int { return b.Order })
}

func (cc *ContentController) GetDouariaContent(c *gin.Context) {
	listOf(c, cc.Store, "Douaria_Content", content_models.ParagraphFromRecord, func(p content_models.Paragraph) int { return p.Order })
}

func (cc *ContentController) GetBeyondTheWalls(c *gin.Context) {
	listOf(c, cc.Store, "Beyond_the_Walls", content_models.AffiliatedPropertyFromRecord, func(p content_models.AffiliatedProperty) int { return p.Order })
}

func (cc *ContentController) GetKasbahGallery(c *gin.Context) {
	listOf(c, cc.Store, "Kasbah_Gallery", content_models.GalleryImageFromRecord, func(g content_models.GalleryImage) int { return g.Order })
}

func (cc *ContentController) GetFarmProduce(c *gin.Context) {
	listOf(c, cc.Store, "Farm_Produce", content_models.ProduceFromRecord, func(p content_models.Produce) int { return p.Order })
}

func (cc *ContentController) GetDisclaimer(c *gin.Context) {
	listOf(c, cc.Store, "Disclaimer", content_models.InfoSectionFromRecord, func(s content_models.InfoSection) int { return s.Order })
}

func (cc *ContentController) GetHouseRules(c *gin.Context) {
	listOf(c, cc.Store, "House_Rules", content_models.InfoSectionFromRecord, func(s content_models.InfoSection) int { return s.Order })
}

func (cc *ContentController) GetPrivacyPolicy(c *gin.Context) {
	listOf(c, cc.Store, "Privacy_Policy", content_models.InfoSectionFromRecord, func(s content_models.InfoSection) int { return s.Order })
}

// GetDesertHero returns the first row of the Desert_Hero tab as one object.
func (cc *ContentController) GetDesertHero(c *gin.Context) {
	rows, err := cc.Store.ReadTable(c.Request.Context(), "Desert_Hero")
	if err != nil {
		logger.ErrorLogger.Errorf("Error fetching Desert_Hero: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{})
		return
	}

	records := store.RowsToRecords(rows)
	if len(records) == 0 {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, content_models.DesertHeroFromRecord(records[0]))
}

// GetBeyondTheWallsHero returns the hero block, or the built-in default when
// the tab is empty or unreachable.
func (cc *ContentController) GetBeyondTheWallsHero(c *gin.Context) {
	rows, err := cc.Store.ReadTable(c.Request.Context(), "Beyond_the_Walls_Hero")
	if err != nil {
		logger.ErrorLogger.Errorf("Error fetching Beyond_the_Walls_Hero: %v", err)
		c.JSON(http.StatusOK, content_models.DefaultBeyondHero())
		return
	}

	records := store.RowsToRecords(rows)
	if len(records) == 0 {
		c.JSON(http.StatusOK, content_models.DefaultBeyondHero())
		return
	}
	c.JSON(http.StatusOK, content_models.BeyondHeroFromRecord(records[0]))
}

// GetDirectionsSettings returns the localized directions labels keyed by
// their Key column.
func (cc *ContentController) GetDirectionsSettings(c *gin.Context) {
	rows, err := cc.Store.ReadTable(c.Request.Context(), "Directions_Settings")
	if err != nil {
		logger.ErrorLogger.Errorf("Error fetching Directions_Settings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{})
		return
	}

	settings := make(map[string]content_models.DirectionsSetting)
	for _, rec := range store.RowsToRecords(rows) {
		s := content_models.DirectionsSettingFromRecord(rec)
		if s.Key != "" {
			settings[s.Key] = s
		}
	}
	c.JSON(http.StatusOK, settings)
}

// GetHome returns the Home tab keyed by Section.
func (cc *ContentController) GetHome(c *gin.Context) {
	cc.keyedSections(c, "Home")
}

// GetPage returns any per-page content tab keyed by Section; the tab name
// comes from the route registration.
func (cc *ContentController) GetPage(table string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cc.keyedSections(c, table)
	}
}

func (cc *ContentController) keyedSections(c *gin.Context, table string) {
	rows, err := cc.Store.ReadTable(c.Request.Context(), table)
	if err != nil {
		logger.ErrorLogger.Errorf("Error fetching %s: %v", table, err)
		c.JSON(http.StatusInternalServerError, gin.H{})
		return
	}

	sections := make(map[string]content_models.PageSection)
	for _, rec := range store.RowsToRecords(rows) {
		s := content_models.PageSectionFromRecord(rec)
		if s.Section != "" {
			sections[s.Section] = s
		}
	}
	c.JSON(http.StatusOK, sections)
}

// GetJourneys returns the single-row Journeys_Page tab as one object.
func (cc *ContentController) GetJourneys(c *gin.Context) {
	rows, err := cc.Store.ReadTable(c.Request.Context(), "Journeys_Page")
	if err != nil {
		logger.ErrorLogger.Errorf("Error fetching Journeys_Page: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{})
		return
	}

	records := store.RowsToRecords(rows)
	if len(records) == 0 {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, content_models.PageSectionFromRecord(records[0]))
}

// GetSettings returns the Settings tab as a Key -> Value map.
func (cc *ContentController) GetSettings(c *gin.Context) {
	settings, err := store.AllSettings(c.Request.Context(), cc.Store)
	if err != nil {
		logger.ErrorLogger.Errorf("Error fetching settings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// GetDirections returns the walking directions grouped by building and
// ordered by step number.
func (cc *ContentController) GetDirections(c *gin.Context) {
	rows, err := cc.Store.ReadTable(c.Request.Context(), "Directions")
	if err != nil {
		logger.ErrorLogger.Errorf("Error fetching directions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"main": []content_models.Direction{}, "annex": []content_models.Direction{}})
		return
	}

	main := []content_models.Direction{}
	annex := []content_models.Direction{}
	for _, rec := range store.RowsToRecords(rows) {
		d := content_models.DirectionFromRecord(rec)
		switch d.Building {
		case "main":
			main = append(main, d)
		case "annex":
			annex = append(annex, d)
		}
	}
	content_models.SortByOrder(main, func(d content_models.Direction) int { return d.StepNumber })
	content_models.SortByOrder(annex, func(d content_models.Direction) int { return d.StepNumber })

	c.JSON(http.StatusOK, gin.H{"main": main, "annex": annex})
}
