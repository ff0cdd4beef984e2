// Package documents stores the identity documents attached to bookings.
//
// Documents normally go through the backend's upload endpoint. Deployments
// that keep documents in their own bucket can use the S3 store instead.
package documents

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
	"github.com/dmitrijs2005/hoteldesk/internal/client/validate"
)

// Store uploads documents and deletes them again by public id.
type Store interface {
	Upload(ctx context.Context, f models.DocumentFile) (*models.UploadedDocument, error)
	Delete(ctx context.Context, publicID string) error
}

// Uploader is the upload part of the backend client.
type Uploader interface {
	UploadDocument(ctx context.Context, f models.DocumentFile) (*models.UploadedDocument, error)
	DeleteDocument(ctx context.Context, publicID string) error
}

// APIStore keeps documents with the backend.
type APIStore struct {
	api Uploader
}

func NewAPIStore(u Uploader) *APIStore {
	return &APIStore{api: u}
}

func (s *APIStore) Upload(ctx context.Context, f models.DocumentFile) (*models.UploadedDocument, error) {
	if err := validate.Document(f); err != nil {
		return nil, err
	}
	doc, err := s.api.UploadDocument(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", f.Name, err)
	}
	return doc, nil
}

func (s *APIStore) Delete(ctx context.Context, publicID string) error {
	return s.api.DeleteDocument(ctx, publicID)
}

var readFile = os.ReadFile

// LoadFile reads a document from disk and checks that it can be uploaded.
func LoadFile(path string) (models.DocumentFile, error) {
	content, err := readFile(path)
	if err != nil {
		return models.DocumentFile{}, err
	}
	f := models.DocumentFile{
		Name:        filepath.Base(path),
		ContentType: contentType(path),
		Content:     content,
	}
	if err := validate.Document(f); err != nil {
		return models.DocumentFile{}, err
	}
	return f, nil
}

func contentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".jpg" {
		return "image/jpeg"
	}
	ct := mime.TypeByExtension(ext)
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}
