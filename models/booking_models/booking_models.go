package booking_models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riaddisiena/backend/pricing"
	"github.com/riaddisiena/backend/store"
	"github.com/riaddisiena/backend/utils"
)

// DefaultProperty is used when a submission or stored row names no property.
const DefaultProperty = "Riad di Siena"

// BlobColumn holds the full booking as one JSON cell alongside the mirrored
// flat columns.
const BlobColumn = "Booking_Data"

// PaymentStatus values as stored. Anything else a client sends is stored
// verbatim; the enum is what this system itself writes.
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
)

// Guest identifies who is booking.
type Guest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Stay is the date range and party size. Experiences are fixed-duration
// packages and may omit the date range.
type Stay struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	Nights   int    `json:"nights"`
	Guests   int    `json:"guests"`
}

// Accommodation is the booked unit.
type Accommodation struct {
	Kind     pricing.Kind `json:"kind"`
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Property string       `json:"property"`
}

// Pricing is the amount due. Totals are stored in EUR.
type Pricing struct {
	Total float64 `json:"total"`
}

// Payment is the client-reported payment outcome. The provider order ID and
// status are stored as submitted; there is no server-side verification
// against the provider.
type Payment struct {
	Status  string `json:"status"`
	OrderID string `json:"orderId,omitempty"`
}

// BookingRecord is the canonical, normalized representation of one
// reservation attempt. Created at intake, never mutated afterwards except by
// the admin row correction endpoint.
type BookingRecord struct {
	BookingID     string        `json:"bookingId"`
	Timestamp     string        `json:"timestamp"`
	Guest         Guest         `json:"guest"`
	Stay          Stay          `json:"stay"`
	Accommodation Accommodation `json:"accommodation"`
	Pricing       Pricing       `json:"pricing"`
	Payment       Payment       `json:"payment"`
	Source        string        `json:"source"`
	Notes         string        `json:"notes,omitempty"`
}

// FlexInt tolerates both "2" and 2 in historical JSON blobs.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(int(n))
	return nil
}

// FlexFloat tolerates both "120.50" and 120.5 in historical JSON blobs.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(n)
	return nil
}

// blobPayload is the JSON shape stored in the blob column. Keys match the
// historical rows written by earlier versions of the site, so old and new
// rows stay mutually readable.
type blobPayload struct {
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Message        string    `json:"message,omitempty"`
	Guests         FlexInt   `json:"guests"`
	Total          FlexFloat `json:"total"`
	Room           string    `json:"room,omitempty"`
	RoomID         string    `json:"roomId,omitempty"`
	CheckIn        string    `json:"checkIn,omitempty"`
	CheckOut       string    `json:"checkOut,omitempty"`
	Nights         FlexInt   `json:"nights,omitempty"`
	Property       string    `json:"property"`
	Tent           string    `json:"tent,omitempty"`
	TentID         string    `json:"tentId,omitempty"`
	TentLevel      string    `json:"tentLevel,omitempty"`
	Experience     string    `json:"experience,omitempty"`
	ExperienceID   string    `json:"experienceId,omitempty"`
	PayPalOrderID  string    `json:"paypalOrderId,omitempty"`
	PayPalStatus   string    `json:"paypalStatus,omitempty"`
	RoomPreference string    `json:"roomPreference,omitempty"`
	Source         string    `json:"source,omitempty"`
	Notes          string    `json:"notes,omitempty"`
}

// Flat-shape alias chains, evaluated first non-empty. The first entry is the
// current column name, later entries are legacy spellings. Adding another
// legacy alias means extending a list here, not touching extraction logic.
var (
	aliasFirstName      = []string{"firstName", "First_Name"}
	aliasLastName       = []string{"lastName", "Last_Name"}
	aliasEmail          = []string{"email", "Email"}
	aliasPhone          = []string{"phone", "Phone"}
	aliasCheckIn        = []string{"checkIn", "Check_In"}
	aliasCheckOut       = []string{"checkOut", "Check_Out"}
	aliasGuests         = []string{"guests", "Guests"}
	aliasTotal          = []string{"total", "Total"}
	aliasPaymentStatus  = []string{"paypalStatus", "PayPal_Status", "Status"}
	aliasPaymentOrderID = []string{"paypalOrderId", "PayPal_Order_ID"}
	aliasAccommodation  = []string{"room", "Room", "Accommodation"}
	aliasProperty       = []string{"property", "Property"}
	aliasSource         = []string{"source", "Source"}
	aliasNotes          = []string{"notes", "Notes", "message", "Message"}
)

// Normalize converts one raw stored row into the canonical record. It never
// fails: when the blob column is present and parseable its fields win,
// otherwise the flat columns are read through the alias chains, and every
// missing field gets its zero default.
func Normalize(rec store.Record) BookingRecord {
	bookingID := rec.Get("Booking_ID", "bookingId")
	timestamp := rec.Get("Timestamp", "timestamp")

	if raw := rec[BlobColumn]; raw != "" {
		var blob blobPayload
		if err := json.Unmarshal([]byte(raw), &blob); err == nil {
			return fromBlob(bookingID, timestamp, blob)
		}
		// Unparseable blob: fall through to the flat columns of the same row.
	}

	r := BookingRecord{
		BookingID: bookingID,
		Timestamp: timestamp,
		Guest: Guest{
			FirstName: rec.Get(aliasFirstName...),
			LastName:  rec.Get(aliasLastName...),
			Email:     rec.Get(aliasEmail...),
			Phone:     rec.Get(aliasPhone...),
		},
		Stay: Stay{
			CheckIn:  rec.Get(aliasCheckIn...),
			CheckOut: rec.Get(aliasCheckOut...),
			Guests:   atoiOrZero(rec.Get(aliasGuests...)),
		},
		Accommodation: Accommodation{
			Name:     rec.Get(aliasAccommodation...),
			Property: rec.Get(aliasProperty...),
		},
		Pricing: Pricing{Total: atofOrZero(rec.Get(aliasTotal...))},
		Payment: Payment{
			Status:  rec.Get(aliasPaymentStatus...),
			OrderID: rec.Get(aliasPaymentOrderID...),
		},
		Source: rec.Get(aliasSource...),
		Notes:  rec.Get(aliasNotes...),
	}
	applyDefaults(&r)
	return r
}

func fromBlob(bookingID, timestamp string, blob blobPayload) BookingRecord {
	accommodation := firstNonEmpty(blob.Room, blob.Tent, blob.Experience, blob.RoomPreference)

	r := BookingRecord{
		BookingID: bookingID,
		Timestamp: timestamp,
		Guest: Guest{
			FirstName: blob.FirstName,
			LastName:  blob.LastName,
			Email:     blob.Email,
			Phone:     blob.Phone,
		},
		Stay: Stay{
			CheckIn:  blob.CheckIn,
			CheckOut: blob.CheckOut,
			Nights:   int(blob.Nights),
			Guests:   int(blob.Guests),
		},
		Accommodation: Accommodation{
			Kind:     kindOf(blob.Room, blob.Tent, blob.Experience, blob.RoomPreference),
			ID:       firstNonEmpty(blob.RoomID, blob.TentID, blob.ExperienceID),
			Name:     accommodation,
			Property: blob.Property,
		},
		Pricing: Pricing{Total: float64(blob.Total)},
		Payment: Payment{Status: blob.PayPalStatus, OrderID: blob.PayPalOrderID},
		Source:  blob.Source,
		Notes:   firstNonEmpty(blob.Notes, blob.Message),
	}
	applyDefaults(&r)
	return r
}

func applyDefaults(r *BookingRecord) {
	if r.Payment.Status == "" {
		r.Payment.Status = PaymentPending
	}
	if r.Accommodation.Property == "" {
		r.Accommodation.Property = DefaultProperty
	}
	if r.Accommodation.Kind == "" {
		r.Accommodation.Kind = pricing.KindRoom
	}
	if r.Stay.Nights == 0 && r.Stay.CheckIn != "" && r.Stay.CheckOut != "" {
		if n, err := NightsBetween(r.Stay.CheckIn, r.Stay.CheckOut); err == nil {
			r.Stay.Nights = n
		}
	}
}

// SheetRow serializes the record as the mirrored flat columns plus the JSON
// blob, in the column order of the Bookings tab.
func (r BookingRecord) SheetRow() []string {
	blob := blobPayload{
		FirstName:     r.Guest.FirstName,
		LastName:      r.Guest.LastName,
		Email:         r.Guest.Email,
		Phone:         r.Guest.Phone,
		Guests:        FlexInt(r.Stay.Guests),
		Total:         FlexFloat(r.Pricing.Total),
		CheckIn:       r.Stay.CheckIn,
		CheckOut:      r.Stay.CheckOut,
		Nights:        FlexInt(r.Stay.Nights),
		Property:      r.Accommodation.Property,
		PayPalOrderID: r.Payment.OrderID,
		PayPalStatus:  r.Payment.Status,
		Source:        r.Source,
		Notes:         r.Notes,
	}
	switch r.Accommodation.Kind {
	case pricing.KindTent:
		blob.Tent = r.Accommodation.Name
		blob.TentID = r.Accommodation.ID
	case pricing.KindExperience:
		blob.Experience = r.Accommodation.Name
		blob.ExperienceID = r.Accommodation.ID
	default:
		blob.Room = r.Accommodation.Name
		blob.RoomID = r.Accommodation.ID
	}

	encoded, _ := json.Marshal(blob)

	return []string{
		r.BookingID,
		r.Timestamp,
		r.Guest.FirstName,
		r.Guest.LastName,
		r.Guest.Email,
		r.Guest.Phone,
		r.Stay.CheckIn,
		r.Stay.CheckOut,
		itoaOrEmpty(r.Stay.Guests),
		ftoaOrEmpty(r.Pricing.Total),
		r.Payment.Status,
		r.Payment.OrderID,
		r.Accommodation.Name,
		r.Accommodation.Property,
		string(encoded),
	}
}

// NightsBetween returns the whole-day difference between two YYYY-MM-DD
// dates.
func NightsBetween(checkIn, checkOut string) (int, error) {
	in, err := time.Parse("2006-01-02", checkIn)
	if err != nil {
		return 0, fmt.Errorf("invalid check-in date %q: %w", checkIn, err)
	}
	out, err := time.Parse("2006-01-02", checkOut)
	if err != nil {
		return 0, fmt.Errorf("invalid check-out date %q: %w", checkOut, err)
	}
	return int(out.Sub(in).Hours() / 24), nil
}

func kindOf(room, tent, experience, roomPreference string) pricing.Kind {
	switch {
	case tent != "":
		return pricing.KindTent
	case experience != "":
		return pricing.KindExperience
	case room != "" || roomPreference != "":
		return pricing.KindRoom
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func atofOrZero(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func itoaOrEmpty(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func ftoaOrEmpty(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// --- submissions ---

// BookingSubmission is the loosely-typed intake payload. It accepts every
// field name the site's forms have ever sent; resolution into the canonical
// record happens in ToRecord.
type BookingSubmission struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Name      string  `json:"name"` // legacy single full-name field
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Message   string  `json:"message"`
	Notes     string  `json:"notes"`
	Guests    FlexInt `json:"guests"`

	Total FlexFloat `json:"total"`

	Room     string  `json:"room"`
	RoomID   string  `json:"roomId"`
	CheckIn  string  `json:"checkIn"`
	CheckOut string  `json:"checkOut"`
	Nights   FlexInt `json:"nights"`

	Property string `json:"property"`

	Tent      string `json:"tent"`
	TentID    string `json:"tentId"`
	TentLevel string `json:"tentLevel"`

	Experience   string `json:"experience"`
	ExperienceID string `json:"experienceId"`

	PayPalOrderID string `json:"paypalOrderId"`
	PayPalStatus  string `json:"paypalStatus"`

	// Legacy fields
	RoomPreference string `json:"roomPreference"`

	Source string `json:"source"`
}

// Kind discriminates the submission by which identifier fields are present.
func (s BookingSubmission) Kind() pricing.Kind {
	if k := kindOf(firstNonEmpty(s.Room, s.RoomID), firstNonEmpty(s.Tent, s.TentID),
		firstNonEmpty(s.Experience, s.ExperienceID), s.RoomPreference); k != "" {
		return k
	}
	return pricing.KindRoom
}

// Validate rejects submissions that cannot become a stored booking. Guest
// overflow is priced, not rejected, up to the absolute ceiling.
func (s BookingSubmission) Validate(maxGuests int) error {
	if s.FirstName == "" && s.Name == "" {
		return fmt.Errorf("%w: guest name is required", utils.ErrInvalidRequest)
	}
	if s.Email != "" && !strings.Contains(s.Email, "@") {
		return fmt.Errorf("%w: invalid email address", utils.ErrInvalidRequest)
	}
	if int(s.Guests) < 0 {
		return fmt.Errorf("%w: guest count must be positive", utils.ErrInvalidRequest)
	}
	if maxGuests > 0 && int(s.Guests) > maxGuests {
		return fmt.Errorf("%w: guest count exceeds the maximum of %d", utils.ErrInvalidRequest, maxGuests)
	}

	if s.Kind().DateRanged() {
		if s.CheckIn == "" || s.CheckOut == "" {
			return fmt.Errorf("%w: check-in and check-out dates are required", utils.ErrInvalidRequest)
		}
		nights, err := NightsBetween(s.CheckIn, s.CheckOut)
		if err != nil {
			return fmt.Errorf("%w: %v", utils.ErrInvalidRequest, err)
		}
		if nights < 1 {
			return fmt.Errorf("%w: check-out must be after check-in", utils.ErrInvalidRequest)
		}
	}
	return nil
}

// ToRecord builds the canonical record from the submission. The caller
// supplies identity and intake time so tests can pin them.
func (s BookingSubmission) ToRecord(bookingID, timestamp string) BookingRecord {
	firstName := s.FirstName
	lastName := s.LastName
	if firstName == "" && s.Name != "" {
		parts := strings.Fields(s.Name)
		firstName = parts[0]
		if len(parts) > 1 {
			lastName = strings.Join(parts[1:], " ")
		}
	}

	guests := int(s.Guests)
	if guests < 1 {
		guests = 1
	}

	nights := int(s.Nights)
	if nights == 0 && s.CheckIn != "" && s.CheckOut != "" {
		if n, err := NightsBetween(s.CheckIn, s.CheckOut); err == nil {
			nights = n
		}
	}

	source := s.Source
	if source == "" {
		source = "website"
	}

	r := BookingRecord{
		BookingID: bookingID,
		Timestamp: timestamp,
		Guest: Guest{
			FirstName: firstName,
			LastName:  lastName,
			Email:     s.Email,
			Phone:     s.Phone,
		},
		Stay: Stay{
			CheckIn:  s.CheckIn,
			CheckOut: s.CheckOut,
			Nights:   nights,
			Guests:   guests,
		},
		Accommodation: Accommodation{
			Kind:     s.Kind(),
			ID:       firstNonEmpty(s.RoomID, s.TentID, s.ExperienceID),
			Name:     firstNonEmpty(s.Room, s.Tent, s.Experience, s.RoomPreference),
			Property: firstNonEmpty(s.Property, DefaultProperty),
		},
		Pricing: Pricing{Total: float64(s.Total)},
		Payment: Payment{
			Status:  firstNonEmpty(s.PayPalStatus, PaymentPending),
			OrderID: s.PayPalOrderID,
		},
		Source: source,
		Notes:  firstNonEmpty(s.Notes, s.Message),
	}
	return r
}
