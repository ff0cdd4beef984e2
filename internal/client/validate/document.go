package validate

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/hoteldesk/internal/client/models"
)

// MaxDocumentSize is the largest identity document accepted for upload.
const MaxDocumentSize = 5 << 20

var documentTypes = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".pdf":  {"application/pdf"},
}

// Document checks an identity document before upload: jpeg, png or pdf by
// both extension and content, non-empty and at most 5 MiB.
func Document(f models.DocumentFile) error {
	ext := strings.ToLower(filepath.Ext(f.Name))
	allowed, ok := documentTypes[ext]
	if !ok {
		return ValidationErrors{{Field: "document", Message: "only JPEG, PNG and PDF files are allowed"}}
	}
	if len(f.Content) == 0 {
		return ValidationErrors{{Field: "document", Message: "file is empty"}}
	}
	if len(f.Content) > MaxDocumentSize {
		return ValidationErrors{{Field: "document", Message: fmt.Sprintf("file is larger than %d MB", MaxDocumentSize>>20)}}
	}

	sniffed, _, _ := strings.Cut(http.DetectContentType(f.Content), ";")
	for _, a := range allowed {
		if sniffed == a {
			return nil
		}
	}
	return ValidationErrors{{Field: "document", Message: fmt.Sprintf("content is %s, not %s", sniffed, allowed[0])}}
}
