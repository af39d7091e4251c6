package legal_controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/riaddisiena/backend/logger"
	"github.com/riaddisiena/backend/nexus"
)

type LegalController struct {
	Nexus *nexus.Client
}

func NewLegalController(n *nexus.Client) *LegalController {
	return &LegalController{Nexus: n}
}

// GetLegalPage serves GET /legal?page=<pageId>.
func (lc *LegalController) GetLegalPage(c *gin.Context) {
	pageID := c.Query("page")
	if pageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing page parameter"})
		return
	}

	page, err := lc.Nexus.LegalPage(c.Request.Context(), pageID)
	if err != nil {
		logger.ErrorLogger.Errorf("Error fetching legal page %s: %v", pageID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch content"})
		return
	}
	if page == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetFooter serves the shared footer, currency and language data the layout
// renders on every page.
func (lc *LegalController) GetFooter(c *gin.Context) {
	ctx := c.Request.Context()

	siteInfo := gin.H{
		"name":     "Riad di Siena",
		"address1": "37 Derb Jdid, Riad Laarous",
		"address2": "Marrakech Medina, Morocco",
		"phone":    "+212 600 000 000",
		"whatsapp": "+212 600 000 000",
		"email":    "happy@riaddisiena.com",
	}
	if cfg := lc.Nexus.SiteConfig(ctx); cfg != nil {
		siteInfo = gin.H{
			"name":     cfg.SiteName,
			"address1": cfg.AddressLine1,
			"address2": cfg.AddressLine2,
			"phone":    cfg.ContactPhone,
			"whatsapp": cfg.WhatsApp,
			"email":    cfg.ContactEmail,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"footer": gin.H{
			"columns":  lc.Nexus.FooterColumns(ctx),
			"siteInfo": siteInfo,
		},
		"currencies": lc.Nexus.Currencies(ctx),
		"languages":  lc.Nexus.Languages(ctx),
	})
}
