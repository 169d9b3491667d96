package extraction

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/zombor/docverify/internal/document"
	"github.com/zombor/docverify/internal/scanning"
)

const (
	archiveTimestamp = "20060102_150405"
	signatureQuality = 90
)

// Signature region of a cheque as percentages of its width and height
const (
	signatureLeft   = 75
	signatureRight  = 100
	signatureTop    = 57
	signatureBottom = 92
)

// Archiver stores source images, signature crops and reports. Failures are
// logged and never stop processing.
type Archiver struct {
	storage    Storage
	timeSource TimeSource
	logger     *slog.Logger
}

// NewArchiver creates an Archiver writing to storage
func NewArchiver(storage Storage, timeSource TimeSource, logger *slog.Logger) *Archiver {
	if timeSource == nil {
		timeSource = systemTime{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{storage: storage, timeSource: timeSource, logger: logger}
}

// ArchiveDocument saves the prepared JPEG and, for cheques, the signature crop
func (a *Archiver) ArchiveDocument(ctx context.Context, id string, kind document.Kind, jpegData []byte) Locations {
	var locations Locations

	sourceKey := fmt.Sprintf("processed/%s_%s.jpg", kind, id)
	location, err := a.storage.Save(ctx, sourceKey, jpegData, "image/jpeg")
	if err != nil {
		a.logger.Error("Failed to archive document", "key", sourceKey, "error", err)
	} else {
		locations.Source = location
	}

	if kind != document.KindCheque {
		return locations
	}

	signature, err := signatureCrop(jpegData)
	if err != nil {
		a.logger.Error("Failed to crop signature", "id", id, "error", err)
		return locations
	}
	sigKey := fmt.Sprintf("signatures/signature_%s_%s.jpg", a.timeSource.Now().Format(archiveTimestamp), id)
	location, err = a.storage.Save(ctx, sigKey, signature, "image/jpeg")
	if err != nil {
		a.logger.Error("Failed to archive signature", "key", sigKey, "error", err)
		return locations
	}
	locations.Signature = location
	return locations
}

// ArchiveReport saves a generated workbook
func (a *Archiver) ArchiveReport(ctx context.Context, workbook []byte) (string, error) {
	key := fmt.Sprintf("excel_reports/document_report_%s.xlsx", a.timeSource.Now().Format(archiveTimestamp))
	location, err := a.storage.Save(ctx, key, workbook, WorkbookContentType)
	if err != nil {
		return "", fmt.Errorf("archiving report: %w", err)
	}
	return location, nil
}

func signatureCrop(jpegData []byte) ([]byte, error) {
	img, err := scanning.DecodeImage(jpegData, "image/jpeg")
	if err != nil {
		return nil, err
	}
	crop, err := CropSignature(img)
	if err != nil {
		return nil, err
	}
	return scanning.EncodeJPEG(crop, signatureQuality)
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// CropSignature returns the lower-right region of a cheque where the drawer signs
func CropSignature(img image.Image) (image.Image, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	rect := image.Rect(
		b.Min.X+w*signatureLeft/100,
		b.Min.Y+h*signatureTop/100,
		b.Min.X+w*signatureRight/100,
		b.Min.Y+h*signatureBottom/100,
	)
	if rect.Empty() {
		return nil, fmt.Errorf("image too small to crop signature: %dx%d", b.Dx(), b.Dy())
	}

	si, ok := img.(subImager)
	if !ok {
		return nil, fmt.Errorf("image type %T does not support cropping", img)
	}
	return si.SubImage(rect), nil
}
