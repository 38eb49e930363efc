package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel/internal/domain"
)

// DocumentRepository keeps generated PDFs in the documents table, one row per
// booking and document type.
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Store inserts the document or replaces the content stored under the same
// booking and type.
func (r *DocumentRepository) Store(ctx context.Context, bookingID int64, docType domain.DocumentType, content []byte) error {
	doc := domain.Document{
		BookingID:    bookingID,
		DocumentType: docType,
		Content:      content,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "booking_id"}, {Name: "document_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"content"}),
	}).Create(&doc).Error
}

func (r *DocumentRepository) Retrieve(ctx context.Context, bookingID int64, docType domain.DocumentType) ([]byte, error) {
	var doc domain.Document
	err := r.db.WithContext(ctx).
		Where("booking_id = ? AND document_type = ?", bookingID, docType).
		First(&doc).Error
	if err != nil {
		return nil, notFound(err, "document", fmt.Sprintf("%d/%s", bookingID, docType))
	}
	return doc.Content, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, bookingID int64, docType domain.DocumentType) error {
	return r.db.WithContext(ctx).
		Where("booking_id = ? AND document_type = ?", bookingID, docType).
		Delete(&domain.Document{}).Error
}
