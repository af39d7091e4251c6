package booking_controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riaddisiena/backend/calendar"
	"github.com/riaddisiena/backend/logger"
	"github.com/riaddisiena/backend/models/booking_models"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.InitLoggers()
	os.Exit(m.Run())
}

// fakeTables is an in-memory store.Tables.
type fakeTables struct {
	mu        sync.Mutex
	tables    map[string][][]string
	appendErr error
	readErr   error
	updateErr error
	updates   []struct {
		table    string
		rowIndex int
		cells    []string
	}
}

func newFakeTables() *fakeTables {
	return &fakeTables{tables: map[string][][]string{
		"Bookings": {bookingHeader()},
	}}
}

func bookingHeader() []string {
	return []string{"Booking_ID", "Timestamp", "First_Name", "Last_Name", "Email", "Phone",
		"Check_In", "Check_Out", "Guests", "Total", "PayPal_Status", "PayPal_Order_ID",
		"Accommodation", "Property", "Booking_Data"}
}

func (f *fakeTables) ReadTable(_ context.Context, name string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	rows, ok := f.tables[name]
	if !ok {
		return nil, fmt.Errorf("table %s not found", name)
	}
	return rows, nil
}

func (f *fakeTables) AppendRows(_ context.Context, name string, rows [][]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.tables[name] = append(f.tables[name], rows...)
	return nil
}

func (f *fakeTables) UpdateRow(_ context.Context, name string, rowIndex int, cells []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, struct {
		table    string
		rowIndex int
		cells    []string
	}{name, rowIndex, cells})
	return nil
}

// fakeSender records confirmation attempts and reports them on a channel.
type fakeSender struct {
	err  error
	sent chan booking_models.BookingRecord
}

func newFakeSender(err error) *fakeSender {
	return &fakeSender{err: err, sent: make(chan booking_models.BookingRecord, 4)}
}

func (f *fakeSender) SendBookingConfirmation(rec booking_models.BookingRecord) error {
	f.sent <- rec
	return f.err
}

// fakeCalendar serves canned events per feed URL.
type fakeCalendar struct {
	events map[string][]calendar.Event
	err    error
}

func (f *fakeCalendar) FetchEvents(_ context.Context, url string) ([]calendar.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events[url], nil
}

func fixedClock(millis int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(millis).UTC() }
}

func newRouter(bc *BookingController) *gin.Engine {
	r := gin.New()
	r.GET("/bookings", bc.ListBookings)
	r.POST("/bookings", bc.CreateBooking)
	r.GET("/availability", bc.Availability)
	r.GET("/admin/bookings", bc.AdminListBookings)
	r.POST("/admin/bookings", bc.AdminCreateBooking)
	r.PUT("/admin/bookings/:rowIndex", bc.AdminUpdateBooking)
	return r
}

func postJSON(r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBookingPersistsAndResponds(t *testing.T) {
	tables := newFakeTables()
	sender := newFakeSender(nil)
	bc := NewBookingController(tables, sender, nil).WithClock(fixedClock(1700000000000))
	r := newRouter(bc)

	w := postJSON(r, "/bookings", gin.H{
		"name":     "Jane Doe",
		"email":    "jane@example.com",
		"room":     "Siena Suite",
		"checkIn":  "2026-09-01",
		"checkOut": "2026-09-04",
		"guests":   2,
		"total":    360,
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "RDS-1700000000000", resp["bookingId"])

	// Row is visible on a subsequent read, normalized.
	listW := httptest.NewRecorder()
	listReq, _ := http.NewRequest(http.MethodGet, "/bookings", nil)
	r.ServeHTTP(listW, listReq)
	require.Equal(t, http.StatusOK, listW.Code)

	var bookings []booking_models.BookingRecord
	require.NoError(t, json.Unmarshal(listW.Body.Bytes(), &bookings))
	require.Len(t, bookings, 1)
	assert.Equal(t, "Jane", bookings[0].Guest.FirstName)
	assert.Equal(t, "Doe", bookings[0].Guest.LastName)
	assert.Equal(t, 360.0, bookings[0].Pricing.Total)

	// Payment still pending, so no confirmation email.
	select {
	case <-sender.sent:
		t.Fatal("no email expected for a pending booking")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCreateBookingMalformedBody(t *testing.T) {
	bc := NewBookingController(newFakeTables(), newFakeSender(nil), nil)
	r := newRouter(bc)

	req, _ := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestCreateBookingValidationFailure(t *testing.T) {
	bc := NewBookingController(newFakeTables(), newFakeSender(nil), nil)
	r := newRouter(bc)

	// Room booking without dates.
	w := postJSON(r, "/bookings", gin.H{"name": "Jane Doe", "room": "Siena Suite"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBookingAppendFailure(t *testing.T) {
	tables := newFakeTables()
	tables.appendErr = fmt.Errorf("sheet unavailable")
	bc := NewBookingController(tables, newFakeSender(nil), nil)
	r := newRouter(bc)

	w := postJSON(r, "/bookings", gin.H{
		"name": "Jane Doe", "room": "Suite", "checkIn": "2026-09-01", "checkOut": "2026-09-02",
	})

	// The guest must never see a false confirmation.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	// And no record is visible on a subsequent read.
	listW := httptest.NewRecorder()
	listReq, _ := http.NewRequest(http.MethodGet, "/bookings", nil)
	r.ServeHTTP(listW, listReq)
	var bookings []booking_models.BookingRecord
	require.NoError(t, json.Unmarshal(listW.Body.Bytes(), &bookings))
	assert.Empty(t, bookings)
}

func TestCompletedBookingTriggersConfirmation(t *testing.T) {
	tables := newFakeTables()
	sender := newFakeSender(nil)
	bc := NewBookingController(tables, sender, nil).WithClock(fixedClock(1700000000000))
	r := newRouter(bc)

	w := postJSON(r, "/bookings", gin.H{
		"firstName": "Jane", "lastName": "Doe", "email": "jane@example.com",
		"room": "Suite", "checkIn": "2026-09-01", "checkOut": "2026-09-04",
		"paypalStatus": "COMPLETED", "paypalOrderId": "PP-9", "total": 300,
	})
	require.Equal(t, http.StatusOK, w.Code)

	select {
	case rec := <-sender.sent:
		assert.Equal(t, "jane@example.com", rec.Guest.Email)
		assert.Equal(t, "PP-9", rec.Payment.OrderID)
	case <-time.After(time.Second):
		t.Fatal("confirmation email was not dispatched")
	}
}

func TestNotificationFailureDoesNotAffectResult(t *testing.T) {
	tables := newFakeTables()
	sender := newFakeSender(fmt.Errorf("smtp down"))
	bc := NewBookingController(tables, sender, nil)
	r := newRouter(bc)

	w := postJSON(r, "/bookings", gin.H{
		"name": "Jane Doe", "email": "jane@example.com",
		"room": "Suite", "checkIn": "2026-09-01", "checkOut": "2026-09-02",
		"paypalStatus": "COMPLETED", "total": 100,
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)

	select {
	case <-sender.sent:
	case <-time.After(time.Second):
		t.Fatal("confirmation email was not attempted")
	}
}

func TestResubmissionCreatesDuplicateRows(t *testing.T) {
	// Idempotence is NOT promised: identical payloads at different times
	// create two rows with distinct IDs. Designed behavior.
	tables := newFakeTables()
	bc := NewBookingController(tables, newFakeSender(nil), nil)
	r := newRouter(bc)

	payload := gin.H{"name": "Jane Doe", "room": "Suite", "checkIn": "2026-09-01", "checkOut": "2026-09-02"}

	bc.WithClock(fixedClock(1700000000000))
	w1 := postJSON(r, "/bookings", payload)
	bc.WithClock(fixedClock(1700000000001))
	w2 := postJSON(r, "/bookings", payload)

	require.Equal(t, http.StatusOK, w1.Code)
	require.Equal(t, http.StatusOK, w2.Code)

	var r1, r2 map[string]any
	require.NoError(t, json.Unmarshal(w1.Body.Bytes(), &r1))
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &r2))
	assert.NotEqual(t, r1["bookingId"], r2["bookingId"])

	assert.Len(t, tables.tables["Bookings"], 3) // header + 2 duplicates
}

func TestCreateBookingPricesWhenTotalAbsent(t *testing.T) {
	tables := newFakeTables()
	tables.tables["Rooms"] = [][]string{
		{"Room_ID", "Name", "Price_EUR", "Extra_Person_EUR", "iCal_URL", "Order"},
		{"R1", "Siena Suite", "100", "20", "", "1"},
	}
	tables.tables["Settings"] = [][]string{
		{"Key", "Value"},
		{"Base_Guests_Included", "2"},
	}
	bc := NewBookingController(tables, newFakeSender(nil), nil)
	r := newRouter(bc)

	w := postJSON(r, "/bookings", gin.H{
		"name": "Jane Doe", "roomId": "R1", "room": "Siena Suite",
		"checkIn": "2026-09-01", "checkOut": "2026-09-04", "guests": 3,
	})
	require.Equal(t, http.StatusOK, w.Code)

	listW := httptest.NewRecorder()
	listReq, _ := http.NewRequest(http.MethodGet, "/bookings", nil)
	r.ServeHTTP(listW, listReq)
	var bookings []booking_models.BookingRecord
	require.NoError(t, json.Unmarshal(listW.Body.Bytes(), &bookings))
	require.Len(t, bookings, 1)
	assert.Equal(t, 360.0, bookings[0].Pricing.Total) // 3x100 + 1 extra x20x3
}

func TestCreateBookingTrustsSuppliedTotal(t *testing.T) {
	tables := newFakeTables()
	tables.tables["Rooms"] = [][]string{
		{"Room_ID", "Name", "Price_EUR", "Order"},
		{"R1", "Siena Suite", "100", "1"},
	}
	bc := NewBookingController(tables, newFakeSender(nil), nil)
	r := newRouter(bc)

	w := postJSON(r, "/bookings", gin.H{
		"name": "Jane Doe", "roomId": "R1",
		"checkIn": "2026-09-01", "checkOut": "2026-09-04", "total": 5,
	})
	require.Equal(t, http.StatusOK, w.Code)

	listW := httptest.NewRecorder()
	listReq, _ := http.NewRequest(http.MethodGet, "/bookings", nil)
	r.ServeHTTP(listW, listReq)
	var bookings []booking_models.BookingRecord
	require.NoError(t, json.Unmarshal(listW.Body.Bytes(), &bookings))
	require.Len(t, bookings, 1)
	assert.Equal(t, 5.0, bookings[0].Pricing.Total) // stored as-is, never recomputed
}

func TestCreateBookingCalendarConflict(t *testing.T) {
	tables := newFakeTables()
	tables.tables["Rooms"] = [][]string{
		{"Room_ID", "Name", "Price_EUR", "iCal_URL", "Order"},
		{"R1", "Siena Suite", "100", "https://cal.example.com/r1.ics", "1"},
	}
	cal := &fakeCalendar{events: map[string][]calendar.Event{
		"https://cal.example.com/r1.ics": {{
			UID:   "busy-1",
			Start: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		}},
	}}
	bc := NewBookingController(tables, newFakeSender(nil), cal)
	r := newRouter(bc)

	w := postJSON(r, "/bookings", gin.H{
		"name": "Jane Doe", "roomId": "R1",
		"checkIn": "2026-09-01", "checkOut": "2026-09-04", "total": 300,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestCreateBookingProceedsWhenFeedUnavailable(t *testing.T) {
	tables := newFakeTables()
	tables.tables["Rooms"] = [][]string{
		{"Room_ID", "Name", "Price_EUR", "iCal_URL", "Order"},
		{"R1", "Siena Suite", "100", "https://cal.example.com/r1.ics", "1"},
	}
	cal := &fakeCalendar{err: fmt.Errorf("feed timeout")}
	bc := NewBookingController(tables, newFakeSender(nil), cal)
	r := newRouter(bc)

	w := postJSON(r, "/bookings", gin.H{
		"name": "Jane Doe", "roomId": "R1",
		"checkIn": "2026-09-01", "checkOut": "2026-09-04", "total": 300,
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAvailabilityEndpoint(t *testing.T) {
	tables := newFakeTables()
	tables.tables["Rooms"] = [][]string{
		{"Room_ID", "Name", "Price_EUR", "iCal_URL", "Order"},
		{"R1", "Siena Suite", "100", "https://cal.example.com/r1.ics", "1"},
	}
	cal := &fakeCalendar{events: map[string][]calendar.Event{
		"https://cal.example.com/r1.ics": {{
			UID:   "busy-1",
			Start: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		}},
	}}
	bc := NewBookingController(tables, newFakeSender(nil), cal)
	r := newRouter(bc)

	get := func(q string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/availability"+q, nil)
		r.ServeHTTP(w, req)
		return w
	}

	w := get("?unit=R1&checkIn=2026-09-01&checkOut=2026-09-04")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"available":true`)

	w = get("?unit=R1&checkIn=2026-09-11&checkOut=2026-09-13")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"available":false`)

	w = get("?unit=R1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get("?unit=unknown&checkIn=2026-09-01&checkOut=2026-09-02")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminCreateBookingDefaults(t *testing.T) {
	tables := newFakeTables()
	bc := NewBookingController(tables, newFakeSender(nil), nil).WithClock(fixedClock(1700000000000))
	r := newRouter(bc)

	w := postJSON(r, "/admin/bookings", gin.H{
		"name": "Walk In", "room": "Suite", "checkIn": "2026-09-01", "checkOut": "2026-09-02",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "MANUAL-1700000000000")

	rows := tables.tables["Bookings"]
	require.Len(t, rows, 2)
	rec := booking_models.Normalize(map[string]string{"Booking_Data": rows[1][14]})
	assert.Equal(t, "manual", rec.Source)
	assert.Equal(t, booking_models.PaymentCompleted, rec.Payment.Status)
}

func TestAdminUpdateBookingWritesRow(t *testing.T) {
	tables := newFakeTables()
	bc := NewBookingController(tables, newFakeSender(nil), nil)
	r := newRouter(bc)

	rec := booking_models.BookingRecord{
		BookingID: "RDS-7",
		Timestamp: "2026-08-30T10:00:00Z",
		Guest:     booking_models.Guest{FirstName: "Jane", LastName: "Doe"},
	}
	body, _ := json.Marshal(rec)
	req, _ := http.NewRequest(http.MethodPut, "/admin/bookings/3", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, tables.updates, 1)
	assert.Equal(t, "Bookings", tables.updates[0].table)
	assert.Equal(t, 3, tables.updates[0].rowIndex)
	assert.Equal(t, "RDS-7", tables.updates[0].cells[0])

	// Bad index is rejected before touching the store.
	req, _ = http.NewRequest(http.MethodPut, "/admin/bookings/abc", bytes.NewBuffer(body))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminUpdateBookingStoreFailure(t *testing.T) {
	tables := newFakeTables()
	tables.updateErr = fmt.Errorf("sheet unavailable")
	bc := NewBookingController(tables, newFakeSender(nil), nil)
	r := newRouter(bc)

	rec := booking_models.BookingRecord{BookingID: "RDS-7", Timestamp: "2026-08-30T10:00:00Z"}
	body, _ := json.Marshal(rec)
	req, _ := http.NewRequest(http.MethodPut, "/admin/bookings/0", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestListBookingsUpstreamFailure(t *testing.T) {
	tables := newFakeTables()
	tables.readErr = fmt.Errorf("upstream unavailable")
	bc := NewBookingController(tables, newFakeSender(nil), nil)
	r := newRouter(bc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/bookings", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}
