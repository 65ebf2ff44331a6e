package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/scholarship-portal-api/internal/models"
	"github.com/noah-isme/scholarship-portal-api/internal/observability"
)

var (
	// ErrUploadTooLarge indicates the payload exceeded the configured limit.
	ErrUploadTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrUploadTypeNotAllowed indicates the MIME type is not permitted.
	ErrUploadTypeNotAllowed = errors.New("file type not allowed")
	// ErrUploadScanFailed indicates validation of the file failed.
	ErrUploadScanFailed = errors.New("file scanning failed")
)

// FileStorage abstracts upload destinations.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// FileRemover is implemented by stores that can delete what they wrote.
type FileRemover interface {
	Remove(ctx context.Context, location string) error
}

// DocumentUploader validates supporting documents and writes them to the file store.
type DocumentUploader struct {
	storage FileStorage
	logger  zerolog.Logger
	maxSize int64
	tracer  trace.Tracer
}

// NewDocumentUploader constructs an uploader with a per-file size limit.
func NewDocumentUploader(storage FileStorage, maxSizeMB int, logger zerolog.Logger) *DocumentUploader {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &DocumentUploader{
		storage: storage,
		logger:  logger.With().Str("component", "document_uploader").Logger(),
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		tracer:  otel.Tracer("github.com/noah-isme/scholarship-portal-api/internal/service/upload"),
	}
}

// Store validates one document and returns the record to attach to the application.
func (u *DocumentUploader) Store(ctx context.Context, documentType string, file *multipart.FileHeader) (models.ApplicationDocument, error) {
	ctx, span := u.tracer.Start(ctx, "upload.store_document")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("upload.max_bytes", u.maxSize),
		attribute.String("upload.document_type", documentType),
	)

	start := time.Now()
	defer func() {
		observability.UploadLatency().Observe(time.Since(start).Seconds())
	}()

	if file == nil {
		err := fmt.Errorf("%s: file is required: %w", documentType, ErrMissingDocuments)
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return models.ApplicationDocument{}, err
	}
	span.SetAttributes(
		attribute.String("upload.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("upload.request_size", file.Size),
	)

	if file.Size > u.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return models.ApplicationDocument{}, fmt.Errorf("%s: %w", documentType, ErrUploadTooLarge)
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return models.ApplicationDocument{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, u.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return models.ApplicationDocument{}, err
	}
	if int64(buf.Len()) > u.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return models.ApplicationDocument{}, fmt.Errorf("%s: %w", documentType, ErrUploadTooLarge)
	}

	detected := mimetype.Detect(buf.Bytes())
	fileType := normalizeMime(detected.String())
	span.SetAttributes(attribute.String("upload.detected_mime", fileType))
	if !isAllowedType(fileType) {
		observability.UploadRejected().WithLabelValues("type").Inc()
		span.RecordError(ErrUploadTypeNotAllowed)
		span.SetStatus(codes.Error, "type not allowed")
		return models.ApplicationDocument{}, fmt.Errorf("%s: %w", documentType, ErrUploadTypeNotAllowed)
	}

	if err := scanDocument(buf.Bytes(), fileType); err != nil {
		observability.UploadRejected().WithLabelValues("scan").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "scan failed")
		return models.ApplicationDocument{}, fmt.Errorf("%s: %w", documentType, err)
	}

	checksum := sha256.Sum256(buf.Bytes())
	sanitizedName := sanitizeFileName(file.Filename, detected.Extension())

	location, err := u.storage.Upload(ctx, documentType+"/"+sanitizedName, bytes.NewReader(buf.Bytes()))
	if err != nil {
		observability.UploadRejected().WithLabelValues("storage").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return models.ApplicationDocument{}, err
	}

	observability.UploadRequests().WithLabelValues(fileType).Inc()
	span.SetStatus(codes.Ok, "stored")

	return models.ApplicationDocument{
		DocumentType: documentType,
		FileName:     sanitizedName,
		Path:         location,
		MimeType:     detected.String(),
		SizeBytes:    int64(buf.Len()),
		Checksum:     hex.EncodeToString(checksum[:]),
	}, nil
}

// Discard removes documents stored for a submission that did not commit.
func (u *DocumentUploader) Discard(ctx context.Context, documents []models.ApplicationDocument) {
	remover, ok := u.storage.(FileRemover)
	if !ok {
		return
	}
	for _, doc := range documents {
		if err := remover.Remove(ctx, doc.Path); err != nil {
			u.logger.Warn().Err(err).Str("location", doc.Path).Msg("failed to discard stored document")
		}
	}
}

// scanDocument rejects PDFs that carry active content.
func scanDocument(payload []byte, fileType string) error {
	if fileType != "application/pdf" {
		return nil
	}
	for _, marker := range [][]byte{[]byte("/JavaScript"), []byte("/Launch"), []byte("/EmbeddedFile")} {
		if bytes.Contains(payload, marker) {
			return fmt.Errorf("pdf contains %s: %w", marker, ErrUploadScanFailed)
		}
	}
	return nil
}

func sanitizeFileName(name, detectedExt string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.ToLower(base)
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		if r == '-' || r == '_' {
			return r
		}
		return '-'
	}, base)
	base = strings.Trim(base, "-")
	if base == "" {
		base = fmt.Sprintf("document-%d", time.Now().Unix())
	}
	ext := strings.ToLower(detectedExt)
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(name))
	}
	if ext == "" {
		ext = ".bin"
	}
	return base + ext
}

func normalizeMime(m string) string {
	lower := strings.ToLower(strings.TrimSpace(m))
	if idx := strings.Index(lower, ";"); idx >= 0 {
		lower = strings.TrimSpace(lower[:idx])
	}
	if strings.HasPrefix(lower, "image/") {
		return "image"
	}
	return lower
}

func isAllowedType(m string) bool {
	return m == "image" || m == "application/pdf"
}
