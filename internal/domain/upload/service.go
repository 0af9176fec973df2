// internal/domain/upload/service.go
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/your-org/tapecar-backend/internal/config"
)

var (
	// ErrFileTooLarge is returned when the upload exceeds the
	// configured size limit.
	ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")

	// ErrUnsupportedType is returned for extensions outside the
	// configured allow-list.
	ErrUnsupportedType = errors.New("file type is not allowed")
)

// UploadedImage is the hosted result handed back to the admin editor,
// ready to be attached to a product.
type UploadedImage struct {
	URL          string `json:"url"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
}

// Service validates admin image uploads and forwards them to the
// external image host. Files are never written to local disk.
type Service struct {
	config     *config.Config
	httpClient *http.Client
}

// NewService creates a new upload service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// UploadImage validates the file and streams it to the image host,
// returning the hosted URL.
func (s *Service) UploadImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*UploadedImage, error) {
	if err := s.validate(header); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", header.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.External.ImageHost.UploadURL, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.config.External.ImageHost.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image host unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("image host returned status %d: %s", resp.StatusCode, string(data))
	}

	var hosted struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&hosted); err != nil {
		return nil, fmt.Errorf("failed to decode image host response: %w", err)
	}
	if hosted.URL == "" {
		return nil, fmt.Errorf("image host returned no URL")
	}

	return &UploadedImage{
		URL:          hosted.URL,
		OriginalName: header.Filename,
		Size:         header.Size,
	}, nil
}

func (s *Service) validate(header *multipart.FileHeader) error {
	if header.Size > s.config.Upload.MaxSize {
		return ErrFileTooLarge
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	for _, allowed := range s.config.Upload.AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return ErrUnsupportedType
}
