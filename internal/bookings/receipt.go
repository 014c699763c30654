package bookings

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// Receipts renders printable booking receipts whose QR code carries a
// signed payload the front desk can verify
type Receipts struct {
	secret []byte
	now    func() time.Time
}

func NewReceipts(secret string) *Receipts {
	return &Receipts{secret: []byte(secret), now: time.Now}
}

// Payload returns bookingID|tableID|seatID|start|issuedAt|signature
func (r *Receipts) Payload(b Booking) string {
	data := fmt.Sprintf("%s|%s|%s|%d|%d", b.ID, b.TableID, b.SeatID, b.StartTime.Unix(), r.now().Unix())
	return data + "|" + r.sign(data)
}

// Verify checks a payload produced by Payload and returns its booking id
func (r *Receipts) Verify(payload string) (string, bool) {
	i := strings.LastIndex(payload, "|")
	if i < 0 {
		return "", false
	}
	data, sig := payload[:i], payload[i+1:]
	if !hmac.Equal([]byte(sig), []byte(r.sign(data))) {
		return "", false
	}
	id, _, _ := strings.Cut(data, "|")
	return id, true
}

func (r *Receipts) sign(data string) string {
	h := hmac.New(sha256.New, r.secret)
	h.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// Render builds the PDF receipt for b
func (r *Receipts) Render(b Booking, username string) ([]byte, error) {
	qrPNG, err := qrcode.Encode(r.Payload(b), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("generate qr code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "GameSpace Booking")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	lines := []string{
		"Booking ID: " + b.ID,
		"Name: " + username,
		"Table: " + b.TableID,
	}
	if b.SeatID != "" {
		lines = append(lines, "Seat: "+b.SeatID)
	} else {
		lines = append(lines, "Seat: Full Table")
	}
	lines = append(lines,
		"When: "+b.TimeRange(),
		"Players: "+strconv.Itoa(b.NumberOfPlayers),
		"Status: "+b.Status.String(),
	)
	if b.TotalPrice > 0 {
		lines = append(lines, "Total: $"+strconv.FormatFloat(b.TotalPrice, 'f', 2, 64))
	}
	for _, line := range lines {
		pdf.Cell(0, 10, line)
		pdf.Ln(8)
	}

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
