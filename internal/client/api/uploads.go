package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
)

// UploadDocument stores an identity document through the backend and
// returns its URL and public id. The file goes in the "document" form
// field.
func (c *Client) UploadDocument(ctx context.Context, f models.DocumentFile) (*models.UploadedDocument, error) {
	body, err := encodeDocument(f)
	if err != nil {
		return nil, err
	}

	env, err := c.do(ctx, http.MethodPost, "/upload/document", nil, body)
	if err != nil {
		return nil, err
	}

	var doc models.UploadedDocument
	if err := decodeData(env, "", &doc); err != nil {
		return nil, err
	}
	if doc.URL == "" || doc.PublicID == "" {
		return nil, fmt.Errorf("%w: upload response without url or publicId", ErrInvalidResponse)
	}
	return &doc, nil
}

// DeleteDocument removes a previously uploaded document.
func (c *Client) DeleteDocument(ctx context.Context, publicID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/upload/document/"+url.PathEscape(publicID), nil, nil)
	return err
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeDocument(f models.DocumentFile) (*multipartBody, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	contentType := f.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(f.Content)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="document"; filename="%s"`, quoteEscaper.Replace(f.Name)))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := part.Write(f.Content); err != nil {
		return nil, fmt.Errorf("write multipart part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}
	return &multipartBody{contentType: w.FormDataContentType(), data: buf.Bytes()}, nil
}
