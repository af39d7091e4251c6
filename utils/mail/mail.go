package mail

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"strconv"

	gomail "gopkg.in/gomail.v2"

	"github.com/riaddisiena/backend/config"
	"github.com/riaddisiena/backend/logger"
	"github.com/riaddisiena/backend/models/booking_models"
)

const bookingConfirmationTemplate = "templates/email/booking_confirmation.html"

var templates *template.Template

func init() {
	config.LoadEnv()
}

// InitTemplates parses the email templates from the embedded filesystem.
// Called once from main before any email is sent.
func InitTemplates(fsys fs.FS) {
	t, err := template.ParseFS(fsys, "templates/email/*.html")
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to parse email templates: %v", err)
		return
	}
	templates = t
}

// Sender delivers the booking confirmation. Invoked at most once per
// completed booking; the caller treats it as fire-and-forget.
type Sender interface {
	SendBookingConfirmation(rec booking_models.BookingRecord) error
}

// SMTPSender sends confirmations over SMTP with gomail.
type SMTPSender struct{}

func NewSMTPSender() *SMTPSender {
	return &SMTPSender{}
}

type confirmationData struct {
	BookingID     string
	FirstName     string
	LastName      string
	Property      string
	Accommodation string
	CheckIn       string
	CheckOut      string
	Nights        int
	Guests        int
	Total         string
	OrderID       string
	Notes         string
}

// SendBookingConfirmation emails the guest and sends a copy to the house
// inbox. A failure here must never roll back the already-persisted booking.
func (s *SMTPSender) SendBookingConfirmation(rec booking_models.BookingRecord) error {
	if templates == nil {
		return fmt.Errorf("email templates not initialized")
	}
	if rec.Guest.Email == "" {
		return fmt.Errorf("booking %s has no guest email", rec.BookingID)
	}

	data := confirmationData{
		BookingID:     rec.BookingID,
		FirstName:     rec.Guest.FirstName,
		LastName:      rec.Guest.LastName,
		Property:      rec.Accommodation.Property,
		Accommodation: rec.Accommodation.Name,
		CheckIn:       rec.Stay.CheckIn,
		CheckOut:      rec.Stay.CheckOut,
		Nights:        rec.Stay.Nights,
		Guests:        rec.Stay.Guests,
		Total:         fmt.Sprintf("%.2f", rec.Pricing.Total),
		OrderID:       rec.Payment.OrderID,
		Notes:         rec.Notes,
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, "booking_confirmation.html", data); err != nil {
		return fmt.Errorf("failed to execute confirmation template: %w", err)
	}

	subject := fmt.Sprintf("Your booking at %s is confirmed (%s)", data.Property, data.BookingID)

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("FROM_EMAIL"))
	m.SetHeader("To", rec.Guest.Email)
	if houseEmail := os.Getenv("HOUSE_EMAIL"); houseEmail != "" {
		m.SetHeader("Bcc", houseEmail)
	}
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	port, err := strconv.Atoi(config.GetEnv("SMTP_PORT", "587"))
	if err != nil {
		return fmt.Errorf("invalid SMTP port: %w", err)
	}
	smtpHost := os.Getenv("SMTP_HOST")

	dialer := gomail.NewDialer(smtpHost, port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))
	dialer.TLSConfig = &tls.Config{ServerName: smtpHost}

	if err := dialer.DialAndSend(m); err != nil {
		logger.ErrorLogger.Errorf("Failed to send confirmation for %s to %s: %v", rec.BookingID, rec.Guest.Email, err)
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	logger.InfoLogger.Infof("Confirmation for %s sent to %s", rec.BookingID, rec.Guest.Email)
	return nil
}
