package models

// DocumentFile is an identity document picked by the operator, held in
// memory until it is uploaded.
type DocumentFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// UploadedDocument is what the document store returns for a stored file.
type UploadedDocument struct {
	URL          string `json:"url"`
	PublicID     string `json:"publicId"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	Format       string `json:"format"`
}
