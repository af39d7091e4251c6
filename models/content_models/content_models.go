// Package content_models maps raw sheet rows onto the typed shapes the
// content endpoints return. All mapping is header-driven; unknown columns are
// ignored and missing columns read as "".
package content_models

import (
	"sort"
	"strings"

	"github.com/riaddisiena/backend/store"
)

// Room is a bookable room of the main house or the Douaria annex.
type Room struct {
	RoomID      string   `json:"Room_ID"`
	Name        string   `json:"Name"`
	Description string   `json:"Description"`
	PriceEUR    string   `json:"Price_EUR"`
	Features    []string `json:"features"`
	ImageURL    string   `json:"Image_URL"`
	WidgetID    string   `json:"Widget_ID,omitempty"`
	ICalURL     string   `json:"iCal_URL,omitempty"`
	Bookable    string   `json:"Bookable,omitempty"`
	Order       int      `json:"Order"`
}

func RoomFromRecord(rec store.Record) Room {
	return Room{
		RoomID:      rec["Room_ID"],
		Name:        rec["Name"],
		Description: rec["Description"],
		PriceEUR:    rec["Price_EUR"],
		Features:    SplitList(rec["Features"]),
		ImageURL:    store.ConvertDriveURL(rec["Image_URL"]),
		WidgetID:    rec["Widget_ID"],
		ICalURL:     rec["iCal_URL"],
		Bookable:    rec["Bookable"],
		Order:       rec.Order("Order"),
	}
}

// Tent is a desert camp tent tier.
type Tent struct {
	TentID         string   `json:"Tent_ID"`
	Level          string   `json:"Level"`
	Name           string   `json:"Name"`
	Description    string   `json:"Description"`
	PriceEUR       string   `json:"Price_EUR"`
	ExtraPersonEUR string   `json:"Extra_Person_EUR"`
	Features       []string `json:"features"`
	ICalURL        string   `json:"iCal_URL,omitempty"`
	Order          int      `json:"Order"`
}

func TentFromRecord(rec store.Record) Tent {
	return Tent{
		TentID:         rec["Tent_ID"],
		Level:          rec["Level"],
		Name:           rec["Name"],
		Description:    rec["Description"],
		PriceEUR:       rec["Price_EUR"],
		ExtraPersonEUR: rec["Extra_Person_EUR"],
		Features:       SplitList(rec["Features"]),
		ICalURL:        rec["iCal_URL"],
		Order:          rec.Order("Order"),
	}
}

// Experience is a fixed-duration package at the Kasbah.
type Experience struct {
	PackageID           string   `json:"Package_ID"`
	Name                string   `json:"Name"`
	Description         string   `json:"Description"`
	PriceEUR            string   `json:"Price_EUR"`
	ExtraPersonEUR      string   `json:"Extra_Person_EUR"`
	SingleSupplementEUR string   `json:"Single_Supplement_EUR,omitempty"`
	Duration            string   `json:"Duration"`
	Includes            []string `json:"includes"`
	MinGuests           string   `json:"Min_Guests"`
	Order               int      `json:"Order"`
}

func ExperienceFromRecord(rec store.Record) Experience {
	return Experience{
		PackageID:           rec["Package_ID"],
		Name:                rec["Name"],
		Description:         rec["Description"],
		PriceEUR:            rec["Price_EUR"],
		ExtraPersonEUR:      rec["Extra_Person_EUR"],
		SingleSupplementEUR: rec["Single_Supplement_EUR"],
		Duration:            rec["Duration"],
		Includes:            SplitList(rec["Includes"]),
		MinGuests:           rec["Min_Guests"],
		Order:               rec.Order("Order"),
	}
}

// Amenity is one entry of the amenities grid.
type Amenity struct {
	AmenityID string `json:"Amenity_ID"`
	Title     string `json:"Title"`
	Subtitle  string `json:"Subtitle"`
	ImageURL  string `json:"Image_URL"`
	Order     int    `json:"Order"`
}

func AmenityFromRecord(rec store.Record) Amenity {
	return Amenity{
		AmenityID: rec["Amenity_ID"],
		Title:     rec["Title"],
		Subtitle:  rec["Subtitle"],
		ImageURL:  store.ConvertDriveURL(rec["Image_URL"]),
		Order:     rec.Order("Order"),
	}
}

// Testimonial is a guest quote.
type Testimonial struct {
	TestimonialID string `json:"Testimonial_ID"`
	GuestName     string `json:"Guest_Name"`
	Quote         string `json:"Quote"`
	Source        string `json:"Source"`
	Date          string `json:"Date"`
	Featured      string `json:"Featured"`
	Order         int    `json:"Order"`
}

func TestimonialFromRecord(rec store.Record) Testimonial {
	return Testimonial{
		TestimonialID: rec["Testimonial_ID"],
		GuestName:     rec["Guest_Name"],
		Quote:         rec["Quote"],
		Source:        rec["Source"],
		Date:          rec["Date"],
		Featured:      rec["Featured"],
		Order:         rec.Order("Order"),
	}
}

// FAQItem is one question of the FAQ page.
type FAQItem struct {
	Section  string `json:"Section"`
	Question string `json:"Question"`
	Answer   string `json:"Answer"`
	Order    int    `json:"Order"`
}

func FAQFromRecord(rec store.Record) FAQItem {
	return FAQItem{
		Section:  rec["Section"],
		Question: rec["Question"],
		Answer:   rec["Answer"],
		Order:    rec.Order("Order"),
	}
}

// Condition is one section of the booking conditions page.
type Condition struct {
	Section string `json:"Section"`
	Title   string `json:"Title"`
	Content string `json:"Content"`
	Order   int    `json:"Order"`
}

func ConditionFromRecord(rec store.Record) Condition {
	return Condition{
		Section: rec["Section"],
		Title:   rec["Title"],
		Content: rec["Content"],
		Order:   rec.Order("Order"),
	}
}

// PageSection is a keyed content block of a page tab (Home and the per-page
// content tabs share this shape).
type PageSection struct {
	Section    string `json:"Section"`
	Title      string `json:"Title"`
	Subtitle   string `json:"Subtitle"`
	Body       string `json:"Body"`
	ImageURL   string `json:"Image_URL"`
	ButtonText string `json:"Button_Text,omitempty"`
	ButtonLink string `json:"Button_Link,omitempty"`
	Order      int    `json:"Order"`
}

func PageSectionFromRecord(rec store.Record) PageSection {
	return PageSection{
		Section:    rec["Section"],
		Title:      rec["Title"],
		Subtitle:   rec["Subtitle"],
		Body:       rec["Body"],
		ImageURL:   store.ConvertDriveURL(rec["Image_URL"]),
		ButtonText: rec["Button_Text"],
		ButtonLink: rec["Button_Link"],
		Order:      rec.Order("Order"),
	}
}

// Direction is one illustrated step of the walking directions.
type Direction struct {
	StepNumber int    `json:"Step_Number"`
	Building   string `json:"Building"`
	Caption    string `json:"Caption"`
	ImageURL   string `json:"Image_URL"`
}

func DirectionFromRecord(rec store.Record) Direction {
	return Direction{
		StepNumber: rec.Order("Step_Number"),
		Building:   rec["Building"],
		Caption:    rec["Caption"],
		ImageURL:   store.ConvertDriveURL(rec["Image_URL"]),
	}
}

// Paragraph is one body paragraph of the Douaria story page.
type Paragraph struct {
	Paragraph string `json:"Paragraph"`
	Content   string `json:"Content"`
	Order     int    `json:"Order"`
}

func ParagraphFromRecord(rec store.Record) Paragraph {
	return Paragraph{
		Paragraph: rec["Paragraph"],
		Content:   rec["Content"],
		Order:     rec.Order("Order"),
	}
}

// AffiliatedProperty is a sister property listed on the Beyond the Walls page.
type AffiliatedProperty struct {
	PropertyID  string `json:"Property_ID"`
	Name        string `json:"Name"`
	Tagline     string `json:"Tagline"`
	Description string `json:"Description"`
	ImageURL    string `json:"Image_URL"`
	Link        string `json:"Link"`
	Order       int    `json:"Order"`
}

func AffiliatedPropertyFromRecord(rec store.Record) AffiliatedProperty {
	return AffiliatedProperty{
		PropertyID:  rec["Property_ID"],
		Name:        rec["Name"],
		Tagline:     rec["Tagline"],
		Description: rec["Description"],
		ImageURL:    store.ConvertDriveURL(rec["Image_URL"]),
		Link:        rec["Link"],
		Order:       rec.Order("Order"),
	}
}

// GalleryImage is one image of the Kasbah gallery.
type GalleryImage struct {
	ImageID  string `json:"Image_ID"`
	ImageURL string `json:"Image_URL"`
	Caption  string `json:"Caption"`
	Order    int    `json:"Order"`
}

func GalleryImageFromRecord(rec store.Record) GalleryImage {
	return GalleryImage{
		ImageID:  rec["Image_ID"],
		ImageURL: store.ConvertDriveURL(rec["Image_URL"]),
		Caption:  rec["Caption"],
		Order:    rec.Order("Order"),
	}
}

// Produce is one entry of the farm produce list.
type Produce struct {
	ProduceID   string `json:"Produce_ID"`
	Name        string `json:"Name"`
	Description string `json:"Description"`
	Season      string `json:"Season"`
	Order       int    `json:"Order"`
}

func ProduceFromRecord(rec store.Record) Produce {
	return Produce{
		ProduceID:   rec["Produce_ID"],
		Name:        rec["Name"],
		Description: rec["Description"],
		Season:      rec["Season"],
		Order:       rec.Order("Order"),
	}
}

// DesertHero is the single-row hero block of the desert camp page.
type DesertHero struct {
	Title    string `json:"Title"`
	Subtitle string `json:"Subtitle"`
	Location string `json:"Location"`
	ImageURL string `json:"Image_URL"`
}

func DesertHeroFromRecord(rec store.Record) DesertHero {
	return DesertHero{
		Title:    rec["Title"],
		Subtitle: rec["Subtitle"],
		Location: rec["Location"],
		ImageURL: store.ConvertDriveURL(rec["Image_URL"]),
	}
}

// BeyondHero is the single-row hero block of the Beyond the Walls page.
type BeyondHero struct {
	Title    string `json:"Title"`
	Subtitle string `json:"Subtitle"`
	Intro    string `json:"Intro"`
	ImageURL string `json:"Image_URL"`
}

func BeyondHeroFromRecord(rec store.Record) BeyondHero {
	return BeyondHero{
		Title:    rec["Title"],
		Subtitle: rec["Subtitle"],
		Intro:    rec["Intro"],
		ImageURL: store.ConvertDriveURL(rec["Image_URL"]),
	}
}

// DefaultBeyondHero is served when the tab is empty or unreachable so the
// page always has a headline.
func DefaultBeyondHero() BeyondHero {
	return BeyondHero{Title: "Beyond the Walls", Subtitle: "Where the sanctuary continues"}
}

// InfoSection is one ordered section of a text page (disclaimer, house
// rules, privacy policy).
type InfoSection struct {
	Section string `json:"Section,omitempty"`
	Title   string `json:"Title"`
	Content string `json:"Content"`
	Order   int    `json:"Order"`
}

func InfoSectionFromRecord(rec store.Record) InfoSection {
	return InfoSection{
		Section: rec["Section"],
		Title:   rec["Title"],
		Content: rec["Content"],
		Order:   rec.Order("Order"),
	}
}

// DirectionsSetting is one localized label of the directions page, keyed by
// its Key column.
type DirectionsSetting struct {
	Key string `json:"Key"`
	EN  string `json:"EN"`
	FR  string `json:"FR"`
	ES  string `json:"ES"`
	IT  string `json:"IT"`
	PT  string `json:"PT"`
	AR  string `json:"AR"`
}

func DirectionsSettingFromRecord(rec store.Record) DirectionsSetting {
	return DirectionsSetting{
		Key: rec["Key"],
		EN:  rec["EN"],
		FR:  rec["FR"],
		ES:  rec["ES"],
		IT:  rec["IT"],
		PT:  rec["PT"],
		AR:  rec["AR"],
	}
}

// TrainingItem is one row of the Chatbot_Training tab. Localized answer
// columns fall back to the English answer.
type TrainingItem struct {
	Category string
	Question string
	Answer   string
	Answers  map[string]string
	Keywords []string
}

func TrainingFromRecord(rec store.Record) TrainingItem {
	return TrainingItem{
		Category: rec["Category"],
		Question: rec["Question"],
		Answer:   rec["Answer"],
		Answers: map[string]string{
			"fr": rec["Answer_FR"],
			"es": rec["Answer_ES"],
			"it": rec["Answer_IT"],
			"pt": rec["Answer_PT"],
			"ar": rec["Answer_AR"],
		},
		Keywords: SplitList(strings.ToLower(rec["Keywords"])),
	}
}

// LocalizedAnswer returns the answer for the requested language, falling
// back to English.
func (t TrainingItem) LocalizedAnswer(language string) string {
	if a := t.Answers[language]; a != "" {
		return a
	}
	return t.Answer
}

// SplitList splits a comma-separated cell into trimmed entries. An empty
// cell yields an empty (non-nil) slice so JSON renders [] instead of null.
func SplitList(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return []string{}
	}
	parts := strings.Split(cell, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// SortByOrder sorts ascending by the extracted numeric order key. Stable so
// rows with equal keys keep storage order.
func SortByOrder[T any](items []T, key func(T) int) {
	sort.SliceStable(items, func(i, j int) bool {
		return key(items[i]) < key(items[j])
	})
}
