// Package nexus reads the shared brand spreadsheet ("Nexus"): site
// configuration, legal page sections, footer links, currencies and
// languages. Legal text carries {{placeholder}} variables substituted from
// the site config.
package nexus

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/karlseguin/ccache/v3"

	"github.com/riaddisiena/backend/config"
	"github.com/riaddisiena/backend/logger"
	"github.com/riaddisiena/backend/store"
)

const (
	siteConfigTTL = time.Hour
	legalPageTTL  = time.Hour
)

// SiteConfig is one row of the Nexus Sites tab.
type SiteConfig struct {
	SiteID              string `json:"site_id"`
	SiteName            string `json:"site_name"`
	SiteURL             string `json:"site_url"`
	LegalEntity         string `json:"legal_entity"`
	ContactEmail        string `json:"contact_email"`
	ContactPhone        string `json:"contact_phone"`
	WhatsApp            string `json:"whatsapp"`
	JurisdictionCountry string `json:"jurisdiction_country"`
	JurisdictionCity    string `json:"jurisdiction_city"`
	AddressLine1        string `json:"address_line1"`
	AddressLine2        string `json:"address_line2"`
	YearFounded         string `json:"year_founded"`
	CurrencyDefault     string `json:"currency_default"`
	LanguageDefault     string `json:"language_default"`
}

// LegalSection is one rendered section of a legal page.
type LegalSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// LegalPage is an assembled legal page.
type LegalPage struct {
	Title    string         `json:"title"`
	Sections []LegalSection `json:"sections"`
}

// FooterLink is one link of the shared footer.
type FooterLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
	Type  string `json:"type"`
}

// FooterColumn groups footer links under a heading.
type FooterColumn struct {
	Title string       `json:"title"`
	Links []FooterLink `json:"links"`
}

// Currency is one selectable display currency.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Label  string `json:"label"`
}

// Language is one selectable site language.
type Language struct {
	Code   string `json:"code"`
	Label  string `json:"label"`
	Native string `json:"native"`
	RTL    bool   `json:"rtl"`
}

// Client reads Nexus tabs. The site-config cache is the one piece of
// process-wide mutable state: a read-through {value, fetchedAt} pair with a
// fixed TTL and an injected clock. Staleness within the TTL is acceptable.
type Client struct {
	tables store.Tables
	siteID string
	now    func() time.Time

	mu        sync.Mutex
	cached    *SiteConfig
	fetchedAt time.Time

	legalPages *ccache.Cache[*LegalPage]
}

// New builds the client from the environment. When NEXUS_SHEET_ID is unset
// every method degrades to its fallback instead of failing.
func New(ctx context.Context) *Client {
	var tables store.Tables
	if sheetID := os.Getenv("NEXUS_SHEET_ID"); sheetID != "" {
		client, err := store.NewClientForSheet(ctx, sheetID)
		if err != nil {
			logger.ErrorLogger.Errorf("Nexus sheet client unavailable: %v", err)
		} else {
			tables = client
		}
	} else {
		logger.WarnLogger.Warn("NEXUS_SHEET_ID not configured, Nexus content disabled")
	}

	return NewWithDeps(tables, config.GetEnv("SITE_ID", "riad-di-siena"), time.Now)
}

// NewWithDeps wires explicit collaborators; tests inject a fake table source
// and a fixed clock.
func NewWithDeps(tables store.Tables, siteID string, now func() time.Time) *Client {
	return &Client{
		tables:     tables,
		siteID:     siteID,
		now:        now,
		legalPages: ccache.New(ccache.Configure[*LegalPage]().MaxSize(100)),
	}
}

// SiteConfig returns the config row for this site, served from cache while
// fresh. nil when Nexus is not configured or the site row is missing.
func (c *Client) SiteConfig(ctx context.Context) *SiteConfig {
	if c.tables == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && c.now().Sub(c.fetchedAt) < siteConfigTTL {
		return c.cached
	}

	rows, err := c.tables.ReadTable(ctx, "Sites")
	if err != nil {
		logger.ErrorLogger.Errorf("Error fetching site config: %v", err)
		return c.cached // stale beats nothing
	}

	for _, rec := range store.RowsToRecords(rows) {
		if rec["site_id"] != c.siteID {
			continue
		}
		cfg := siteConfigFromRecord(rec)
		c.cached = cfg
		c.fetchedAt = c.now()
		return cfg
	}
	return c.cached
}

func siteConfigFromRecord(rec store.Record) *SiteConfig {
	return &SiteConfig{
		SiteID:              rec["site_id"],
		SiteName:            rec["site_name"],
		SiteURL:             rec["site_url"],
		LegalEntity:         rec["legal_entity"],
		ContactEmail:        rec["contact_email"],
		ContactPhone:        rec["contact_phone"],
		WhatsApp:            rec["whatsapp"],
		JurisdictionCountry: rec["jurisdiction_country"],
		JurisdictionCity:    rec["jurisdiction_city"],
		AddressLine1:        rec["address_line1"],
		AddressLine2:        rec["address_line2"],
		YearFounded:         rec["year_founded"],
		CurrencyDefault:     rec["currency_default"],
		LanguageDefault:     rec["language_default"],
	}
}

// templateVars maps {{placeholder}} names to config fields. Env-var
// fallbacks cover the case where Nexus is unreachable.
func (c *Client) templateVars(ctx context.Context) map[string]string {
	if cfg := c.SiteConfig(ctx); cfg != nil {
		return map[string]string{
			"{{site_name}}":            cfg.SiteName,
			"{{site_url}}":             cfg.SiteURL,
			"{{legal_entity}}":         cfg.LegalEntity,
			"{{contact_email}}":        cfg.ContactEmail,
			"{{contact_phone}}":        cfg.ContactPhone,
			"{{whatsapp}}":             cfg.WhatsApp,
			"{{jurisdiction_country}}": cfg.JurisdictionCountry,
			"{{jurisdiction_city}}":    cfg.JurisdictionCity,
			"{{address_line1}}":        cfg.AddressLine1,
			"{{address_line2}}":        cfg.AddressLine2,
			"{{year_founded}}":         cfg.YearFounded,
		}
	}

	return map[string]string{
		"{{site_name}}":            config.GetEnv("SITE_NAME", "Riad di Siena"),
		"{{site_url}}":             config.GetEnv("SITE_URL", "https://riaddisiena.com"),
		"{{legal_entity}}":         config.GetEnv("LEGAL_ENTITY", "Riad di Siena"),
		"{{contact_email}}":        config.GetEnv("CONTACT_EMAIL", "happy@riaddisiena.com"),
		"{{jurisdiction_country}}": config.GetEnv("JURISDICTION_COUNTRY", "Morocco"),
		"{{jurisdiction_city}}":    config.GetEnv("JURISDICTION_CITY", "Marrakech"),
		"{{address_line1}}":        config.GetEnv("ADDRESS_LINE1", "35 Derb Fhal Zfriti, Kennaria"),
		"{{address_line2}}":        config.GetEnv("ADDRESS_LINE2", "Marrakech 40000, Morocco"),
	}
}

// ReplaceTemplateVariables substitutes {{placeholder}} variables in content.
func (c *Client) ReplaceTemplateVariables(ctx context.Context, content string) string {
	for placeholder, value := range c.templateVars(ctx) {
		content = strings.ReplaceAll(content, placeholder, value)
	}
	return content
}

// LegalPage assembles a legal page from its sections, ordered and with
// template variables substituted. Assembled pages are cached for an hour.
// Returns nil when the page is unknown.
func (c *Client) LegalPage(ctx context.Context, pageID string) (*LegalPage, error) {
	if c.tables == nil {
		return nil, fmt.Errorf("nexus not configured")
	}

	if item := c.legalPages.Get(pageID); item != nil && !item.Expired() {
		return item.Value(), nil
	}

	rows, err := c.tables.ReadTable(ctx, "Nexus_Legal_Pages")
	if err != nil {
		return nil, err
	}

	type section struct {
		order   int
		title   string
		content string
	}

	var title string
	var sections []section
	for _, rec := range store.RowsToRecords(rows) {
		if rec["page_id"] != pageID {
			continue
		}
		if title == "" {
			title = rec["page_title"]
		}
		sections = append(sections, section{
			order:   rec.Order("section_order"),
			title:   rec["section_title"],
			content: c.ReplaceTemplateVariables(ctx, rec["section_content"]),
		})
	}

	if len(sections) == 0 {
		return nil, nil
	}

	sort.SliceStable(sections, func(i, j int) bool { return sections[i].order < sections[j].order })

	page := &LegalPage{Title: title, Sections: make([]LegalSection, 0, len(sections))}
	for _, s := range sections {
		page.Sections = append(page.Sections, LegalSection{Title: s.title, Content: s.content})
	}

	c.legalPages.Set(pageID, page, legalPageTTL)
	return page, nil
}

// FooterColumns reads the footer link columns for this site. Falls back to
// the built-in footer when Nexus is not configured or unreachable.
func (c *Client) FooterColumns(ctx context.Context) []FooterColumn {
	if c.tables == nil {
		return defaultFooterColumns()
	}

	rows, err := c.tables.ReadTable(ctx, "Nexus_Footer_Links")
	if err != nil {
		logger.ErrorLogger.Errorf("Error fetching footer links: %v", err)
		return defaultFooterColumns()
	}

	type keyed struct {
		column int
		order  int
		title  string
		link   FooterLink
	}
	var links []keyed
	for _, rec := range store.RowsToRecords(rows) {
		if rec["brand_id"] != c.siteID {
			continue
		}
		links = append(links, keyed{
			column: rec.Order("column_number"),
			order:  rec.Order("link_order"),
			title:  rec["column_title"],
			link: FooterLink{
				Label: rec["link_label"],
				Href:  rec["link_href"],
				Type:  rec["link_type"],
			},
		})
	}
	if len(links) == 0 {
		return defaultFooterColumns()
	}

	sort.SliceStable(links, func(i, j int) bool {
		if links[i].column != links[j].column {
			return links[i].column < links[j].column
		}
		return links[i].order < links[j].order
	})

	var columns []FooterColumn
	for _, l := range links {
		if len(columns) == 0 || columns[len(columns)-1].Title != l.title {
			columns = append(columns, FooterColumn{Title: l.title})
		}
		last := &columns[len(columns)-1]
		last.Links = append(last.Links, l.link)
	}
	return columns
}

// Currencies reads the selectable currencies; built-in set when unavailable.
func (c *Client) Currencies(ctx context.Context) []Currency {
	if c.tables != nil {
		rows, err := c.tables.ReadTable(ctx, "Nexus_Currencies")
		if err == nil {
			var currencies []Currency
			for _, rec := range store.RowsToRecords(rows) {
				currencies = append(currencies, Currency{
					Code:   rec["currency_code"],
					Symbol: rec["currency_symbol"],
					Label:  rec["currency_label"],
				})
			}
			if len(currencies) > 0 {
				return currencies
			}
		}
	}
	return []Currency{
		{Code: "EUR", Symbol: "€", Label: "Euro"},
		{Code: "USD", Symbol: "$", Label: "US Dollar"},
		{Code: "GBP", Symbol: "£", Label: "British Pound"},
		{Code: "MAD", Symbol: "DH", Label: "Moroccan Dirham"},
	}
}

// Languages reads the selectable languages; English-only when unavailable.
func (c *Client) Languages(ctx context.Context) []Language {
	if c.tables != nil {
		rows, err := c.tables.ReadTable(ctx, "Nexus_Languages")
		if err == nil {
			var languages []Language
			for _, rec := range store.RowsToRecords(rows) {
				languages = append(languages, Language{
					Code:   rec["language_code"],
					Label:  rec["language_label"],
					Native: rec["native_label"],
					RTL:    strings.EqualFold(rec["rtl"], "true"),
				})
			}
			if len(languages) > 0 {
				return languages
			}
		}
	}
	return []Language{{Code: "EN", Label: "English", Native: "English"}}
}

func defaultFooterColumns() []FooterColumn {
	return []FooterColumn{
		{Title: "Stay", Links: []FooterLink{
			{Label: "Rooms", Href: "/rooms", Type: "internal"},
			{Label: "The Douaria", Href: "/the-douaria", Type: "internal"},
			{Label: "The Kasbah", Href: "/the-kasbah", Type: "internal"},
			{Label: "The Desert Camp", Href: "/the-desert-camp", Type: "internal"},
		}},
		{Title: "Explore", Links: []FooterLink{
			{Label: "The Riad", Href: "/the-riad", Type: "internal"},
			{Label: "Philosophy", Href: "/philosophy", Type: "internal"},
			{Label: "Beyond the Walls", Href: "/beyond-the-walls", Type: "internal"},
		}},
		{Title: "Information", Links: []FooterLink{
			{Label: "Directions", Href: "/directions", Type: "internal"},
			{Label: "FAQ", Href: "/faq", Type: "internal"},
			{Label: "Contact", Href: "/contact", Type: "internal"},
		}},
	}
}
