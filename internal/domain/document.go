package domain

import "time"

type DocumentType string

const (
	DocBookingConfirmation DocumentType = "BookingConfirmation.pdf"
	DocInvoice             DocumentType = "Invoice.pdf"
	DocCancellationReceipt DocumentType = "CancellationReceipt.pdf"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocBookingConfirmation, DocInvoice, DocCancellationReceipt:
		return true
	}
	return false
}

type Document struct {
	ID           int64        `json:"id" gorm:"primaryKey"`
	BookingID    int64        `json:"booking_id" gorm:"not null;uniqueIndex:idx_document_booking_type"`
	DocumentType DocumentType `json:"document_type" gorm:"size:64;not null;uniqueIndex:idx_document_booking_type"`
	Content      []byte       `json:"-" gorm:"not null"`
	CreatedAt    time.Time    `json:"created_at"`
}
