// Package document manages uploaded reference documents: binaries on
// local disk, metadata rows in the documents sheet.
package document

import (
	"errors"
	"strings"
)

// Metadata is one row of the documents sheet (columns A:I).
type Metadata struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Category         string `json:"category"`
	Description      string `json:"description"`
	StoredFilename   string `json:"filename"`
	OriginalFilename string `json:"originalName"`
	Size             string `json:"fileSize"`
	UploadedBy       string `json:"uploadedBy"`
	UploadDate       string `json:"uploadDate"`
}

// View is a metadata row plus the caller-specific delete permission.
type View struct {
	Metadata
	CanDelete bool `json:"canDelete"`
}

// UploadDTO carries the multipart form fields of an upload.
type UploadDTO struct {
	Title       string
	Category    string
	Description string
}

func (dto UploadDTO) Validate() error {
	if strings.TrimSpace(dto.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(dto.Category) == "" {
		return errors.New("category is required")
	}
	return nil
}

// allowedExtensions are the only accepted upload formats.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
}

func ExtensionAllowed(ext string) bool {
	return allowedExtensions[strings.ToLower(ext)]
}
