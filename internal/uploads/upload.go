// Package uploads issues presigned URLs that let clients write objects
// directly to blob storage.
package uploads

import "time"

// PresignCommand requests an upload slot for a content type.
type PresignCommand struct {
	ContentType string `json:"content_type" validate:"required,max=128"`
}

// Presigned is an upload slot. Filename is the storage key the client
// reports back once the upload completes.
type Presigned struct {
	UploadURL string            `json:"upload_url"`
	Filename  string            `json:"filename"`
	ExpiresAt time.Time         `json:"expires_at"`
	Headers   map[string]string `json:"headers,omitempty"`
}
