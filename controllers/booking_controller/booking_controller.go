package booking_controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/riaddisiena/backend/calendar"
	"github.com/riaddisiena/backend/config"
	"github.com/riaddisiena/backend/logger"
	middleware "github.com/riaddisiena/backend/middlewares"
	"github.com/riaddisiena/backend/models/booking_models"
	"github.com/riaddisiena/backend/pricing"
	"github.com/riaddisiena/backend/store"
	"github.com/riaddisiena/backend/utils"
	"github.com/riaddisiena/backend/utils/mail"
)

const bookingsTable = "Bookings"

// CalendarSource fetches external availability feeds. Satisfied by
// *calendar.Checker; tests substitute a fake.
type CalendarSource interface {
	FetchEvents(ctx context.Context, url string) ([]calendar.Event, error)
}

// BookingController holds the collaborators of the booking flow.
type BookingController struct {
	Store    store.Tables
	Mailer   mail.Sender
	Calendar CalendarSource

	// now is injected so tests can pin booking IDs and timestamps.
	now       func() time.Time
	maxGuests int
}

// NewBookingController wires the production collaborators.
func NewBookingController(tables store.Tables, mailer mail.Sender, cal CalendarSource) *BookingController {
	maxGuests, err := strconv.Atoi(config.GetEnv("MAX_GUESTS_CEILING", "12"))
	if err != nil {
		maxGuests = 12
	}
	return &BookingController{
		Store:     tables,
		Mailer:    mailer,
		Calendar:  cal,
		now:       time.Now,
		maxGuests: maxGuests,
	}
}

// WithClock overrides the controller's clock. Test hook.
func (bc *BookingController) WithClock(now func() time.Time) *BookingController {
	bc.now = now
	return bc
}

// ListBookings returns every stored booking in canonical form.
func (bc *BookingController) ListBookings(c *gin.Context) {
	rows, err := bc.Store.ReadTable(c.Request.Context(), bookingsTable)
	if err != nil {
		logger.ErrorLogger.Errorf("Error fetching bookings: %v", err)
		c.JSON(http.StatusInternalServerError, []booking_models.BookingRecord{})
		return
	}

	records := store.RowsToRecords(rows)
	bookings := make([]booking_models.BookingRecord, 0, len(records))
	for _, rec := range records {
		bookings = append(bookings, booking_models.Normalize(rec))
	}
	c.JSON(http.StatusOK, bookings)
}

// CreateBooking is the public intake endpoint. Sequence: validate, assign
// identity, price when the caller sent no total, check the unit's external
// calendar, append the row, then fire the confirmation email. Email failure
// never changes the result determined by the append.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var sub booking_models.BookingSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	if err := sub.Validate(bc.maxGuests); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	now := bc.now()
	bookingID := "RDS-" + strconv.FormatInt(now.UnixMilli(), 10)
	rec := sub.ToRecord(bookingID, now.UTC().Format(time.RFC3339))

	ctx := c.Request.Context()
	unit := bc.lookupUnit(ctx, rec.Accommodation)

	// A client-supplied total is trusted as-is; the schedule prices only
	// submissions that arrive without one.
	if rec.Pricing.Total == 0 && unit.found {
		quote, err := pricing.Quote(rec.Accommodation.Kind, unit.schedule, rec.Stay.Nights, rec.Stay.Guests)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		rec.Pricing.Total = quote.Total
	}

	if conflict := bc.datesConflict(ctx, unit, rec); conflict {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Selected dates are no longer available"})
		return
	}

	if err := bc.Store.AppendRows(ctx, bookingsTable, [][]string{rec.SheetRow()}); err != nil {
		logger.ErrorLogger.Errorf("Error creating booking %s (request %s): %v", bookingID, middleware.GetRequestID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save booking"})
		return
	}

	if rec.Payment.Status == booking_models.PaymentCompleted && rec.Guest.Email != "" {
		bc.dispatchConfirmation(rec)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "bookingId": bookingID})
}

// dispatchConfirmation sends the email off the request path. Failures are
// logged and swallowed.
func (bc *BookingController) dispatchConfirmation(rec booking_models.BookingRecord) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorLogger.Errorf("Panic sending confirmation for %s: %v", rec.BookingID, r)
			}
		}()
		if err := bc.Mailer.SendBookingConfirmation(rec); err != nil {
			logger.ErrorLogger.Errorf("%v for %s: %v", utils.ErrNotificationFailure, rec.BookingID, err)
		}
	}()
}

// datesConflict checks the unit's external iCal feed, when one is
// configured, for events overlapping the stay. Best-effort: a feed that
// fails to load never blocks the booking.
func (bc *BookingController) datesConflict(ctx context.Context, unit unitInfo, rec booking_models.BookingRecord) bool {
	if bc.Calendar == nil || !unit.found || unit.icalURL == "" || !rec.Accommodation.Kind.DateRanged() {
		return false
	}

	checkIn, err1 := time.Parse("2006-01-02", rec.Stay.CheckIn)
	checkOut, err2 := time.Parse("2006-01-02", rec.Stay.CheckOut)
	if err1 != nil || err2 != nil {
		return false
	}

	events, err := bc.Calendar.FetchEvents(ctx, unit.icalURL)
	if err != nil {
		logger.WarnLogger.Warnf("Calendar check skipped for %s: %v", rec.Accommodation.Name, err)
		return false
	}

	conflicts := calendar.Conflicts(events, checkIn, checkOut)
	if len(conflicts) > 0 {
		logger.InfoLogger.Infof("Calendar conflict for %s %s-%s (%d events)",
			rec.Accommodation.Name, rec.Stay.CheckIn, rec.Stay.CheckOut, len(conflicts))
		return true
	}
	return false
}

// unitInfo is what the accommodation tables know about a bookable unit.
type unitInfo struct {
	found    bool
	icalURL  string
	schedule pricing.FeeSchedule
}

// unitTables maps an accommodation kind to the tables that may hold it and
// their identifier column.
var unitTables = map[pricing.Kind][]struct{ table, idColumn string }{
	pricing.KindRoom:       {{"Rooms", "Room_ID"}, {"Douaria_Rooms", "Room_ID"}},
	pricing.KindTent:       {{"Desert_Tents", "Tent_ID"}},
	pricing.KindExperience: {{"Kasbah_Experience", "Package_ID"}},
}

func (bc *BookingController) lookupUnit(ctx context.Context, acc booking_models.Accommodation) unitInfo {
	if acc.ID == "" && acc.Name == "" {
		return unitInfo{}
	}

	for _, t := range unitTables[acc.Kind] {
		rows, err := bc.Store.ReadTable(ctx, t.table)
		if err != nil {
			logger.WarnLogger.Warnf("Unit lookup skipped table %s: %v", t.table, err)
			continue
		}
		for _, rec := range store.RowsToRecords(rows) {
			if (acc.ID != "" && rec[t.idColumn] == acc.ID) || (acc.ID == "" && rec["Name"] == acc.Name) {
				return unitInfo{
					found:    true,
					icalURL:  rec["iCal_URL"],
					schedule: bc.feeSchedule(ctx, rec),
				}
			}
		}
	}
	return unitInfo{}
}

// feeSchedule builds the schedule from the unit row plus site-wide settings.
func (bc *BookingController) feeSchedule(ctx context.Context, rec store.Record) pricing.FeeSchedule {
	sched := pricing.FeeSchedule{
		BaseNightlyRate:    parseFloat(rec["Price_EUR"]),
		ExtraPersonFee:     parseFloat(rec["Extra_Person_EUR"]),
		BaseGuestsIncluded: 2,
	}

	settings, err := store.AllSettings(ctx, bc.Store)
	if err != nil {
		logger.WarnLogger.Warnf("Settings unavailable for fee schedule: %v", err)
		return sched
	}
	if v := settings["Base_Guests_Included"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			sched.BaseGuestsIncluded = n
		}
	}
	sched.CityTaxPerNightPerGuest = parseFloat(settings["City_Tax_Per_Night_Per_Guest"])
	return sched
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// Availability reports whether a unit's external calendar is free for a
// date range. Units without a feed are reported available; the booking
// widget is the source of truth for those.
func (bc *BookingController) Availability(c *gin.Context) {
	unitID := c.Query("unit")
	checkInStr := c.Query("checkIn")
	checkOutStr := c.Query("checkOut")
	if unitID == "" || checkInStr == "" || checkOutStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit, checkIn and checkOut are required"})
		return
	}

	checkIn, err := time.Parse("2006-01-02", checkInStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid checkIn date"})
		return
	}
	checkOut, err := time.Parse("2006-01-02", checkOutStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid checkOut date"})
		return
	}

	ctx := c.Request.Context()
	var unit unitInfo
	for _, kind := range []pricing.Kind{pricing.KindRoom, pricing.KindTent} {
		unit = bc.lookupUnit(ctx, booking_models.Accommodation{Kind: kind, ID: unitID})
		if unit.found {
			break
		}
	}
	if !unit.found {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown unit"})
		return
	}
	if unit.icalURL == "" || bc.Calendar == nil {
		c.JSON(http.StatusOK, gin.H{"available": true, "conflicts": []calendar.Event{}})
		return
	}

	events, err := bc.Calendar.FetchEvents(ctx, unit.icalURL)
	if err != nil {
		logger.ErrorLogger.Errorf("Availability check failed for %s: %v", unitID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "calendar feed unavailable"})
		return
	}

	conflicts := calendar.Conflicts(events, checkIn, checkOut)
	if conflicts == nil {
		conflicts = []calendar.Event{}
	}
	c.JSON(http.StatusOK, gin.H{"available": len(conflicts) == 0, "conflicts": conflicts})
}

// AdminListBookings returns normalized bookings for the dashboard.
func (bc *BookingController) AdminListBookings(c *gin.Context) {
	rows, err := bc.Store.ReadTable(c.Request.Context(), bookingsTable)
	if err != nil {
		logger.ErrorLogger.Errorf("Error fetching bookings for admin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"bookings": []booking_models.BookingRecord{}, "error": "Failed to fetch bookings"})
		return
	}

	records := store.RowsToRecords(rows)
	bookings := make([]booking_models.BookingRecord, 0, len(records))
	for _, rec := range records {
		bookings = append(bookings, booking_models.Normalize(rec))
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// AdminCreateBooking records a manual booking (phone or walk-in). Payment
// defaults to COMPLETED since the innkeeper enters these after the fact.
func (bc *BookingController) AdminCreateBooking(c *gin.Context) {
	var sub booking_models.BookingSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	if sub.Source == "" {
		sub.Source = "manual"
	}
	if sub.PayPalStatus == "" {
		sub.PayPalStatus = booking_models.PaymentCompleted
	}
	if err := sub.Validate(bc.maxGuests); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	now := bc.now()
	bookingID := "MANUAL-" + strconv.FormatInt(now.UnixMilli(), 10)
	rec := sub.ToRecord(bookingID, now.UTC().Format(time.RFC3339))

	if err := bc.Store.AppendRows(c.Request.Context(), bookingsTable, [][]string{rec.SheetRow()}); err != nil {
		logger.ErrorLogger.Errorf("Error creating manual booking %s (request %s): %v", bookingID, middleware.GetRequestID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save booking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "bookingId": bookingID})
}

// AdminUpdateBooking overwrites one stored row with a corrected record. This
// is the single mutation path after intake; rowIndex is 0-based over data
// rows as returned by the list endpoints.
func (bc *BookingController) AdminUpdateBooking(c *gin.Context) {
	rowIndex, err := strconv.Atoi(c.Param("rowIndex"))
	if err != nil || rowIndex < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid row index"})
		return
	}

	var rec booking_models.BookingRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	if rec.BookingID == "" {
		rec.BookingID = "MANUAL-" + strconv.FormatInt(bc.now().UnixMilli(), 10)
	}
	if rec.Timestamp == "" {
		rec.Timestamp = bc.now().UTC().Format(time.RFC3339)
	}

	if err := bc.Store.UpdateRow(c.Request.Context(), bookingsTable, rowIndex, rec.SheetRow()); err != nil {
		logger.ErrorLogger.Errorf("Error updating booking row %d (request %s): %v", rowIndex, middleware.GetRequestID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update booking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "bookingId": rec.BookingID})
}
