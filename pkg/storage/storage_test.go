package storage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/keepsake/pkg/apperror"
	"github.com/JaimeStill/keepsake/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=keepsakestore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/keepsakestore;"

func newSystem(t *testing.T) storage.System {
	t.Helper()
	cfg := &storage.Config{ConnectionString: azuriteConnString}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	sys, err := storage.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return sys
}

func TestNewInvalidConnectionString(t *testing.T) {
	cfg := &storage.Config{ContainerName: "keepsake", ConnectionString: "not-a-connection-string"}
	if _, err := storage.New(cfg, slog.Default()); err == nil {
		t.Fatal("expected error for invalid connection string, got nil")
	}
}

func TestRandomFilename(t *testing.T) {
	sys := newSystem(t)

	tests := []struct {
		contentType string
		prefix      string
		suffix      string
	}{
		{"image/png", "images/", ".png"},
		{"image/jpeg", "images/", ".jpg"},
		{"video/mp4", "videos/", ".mp4"},
		{"application/pdf; charset=binary", "files/", ".pdf"},
		{"IMAGE/WEBP", "images/", ".webp"},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			name, err := sys.RandomFilename(tt.contentType)
			if err != nil {
				t.Fatalf("RandomFilename() error = %v", err)
			}
			if !strings.HasPrefix(name, tt.prefix) || !strings.HasSuffix(name, tt.suffix) {
				t.Errorf("RandomFilename() = %q, want %s<uuid>%s", name, tt.prefix, tt.suffix)
			}
		})
	}

	a, _ := sys.RandomFilename("image/png")
	b, _ := sys.RandomFilename("image/png")
	if a == b {
		t.Error("filenames should not repeat")
	}
	if !storage.UploadKey(a) {
		t.Errorf("UploadKey(%q) = false, want true", a)
	}
}

func TestUploadKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"images/3f1c6f5e-8c2a-4a57-9d8e-0b6b1f2a9c11.png", true},
		{"videos/3f1c6f5e-8c2a-4a57-9d8e-0b6b1f2a9c11.mov", true},
		{"images/3f1c6f5e-8c2a-4a57-9d8e-0b6b1f2a9c11.pdf", false},
		{"images/avatar.png", false},
		{"backups/3f1c6f5e-8c2a-4a57-9d8e-0b6b1f2a9c11.zip", false},
		{"images/sub/3f1c6f5e-8c2a-4a57-9d8e-0b6b1f2a9c11.png", false},
		{"3f1c6f5e-8c2a-4a57-9d8e-0b6b1f2a9c11.png", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := storage.UploadKey(tt.key); got != tt.want {
				t.Errorf("UploadKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestRandomFilenameUnsupported(t *testing.T) {
	_, err := newSystem(t).RandomFilename("text/html")
	if !errors.Is(err, storage.ErrUnsupportedContentType) {
		t.Errorf("RandomFilename() = %v, want ErrUnsupportedContentType", err)
	}
	if !apperror.Is(err, apperror.Validation) {
		t.Error("unsupported content type should be a validation error")
	}
}

func TestUploadURLEmbedsKey(t *testing.T) {
	sys := newSystem(t)
	key, _ := sys.RandomFilename("image/png")

	before := time.Now()
	signed, err := sys.UploadURL(key, "image/png")
	if err != nil {
		t.Fatalf("UploadURL() error = %v", err)
	}

	u, err := url.Parse(signed.URL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if !strings.HasSuffix(u.Path, "/keepsake/"+key) {
		t.Errorf("path %q does not end with key %q", u.Path, key)
	}

	q := u.Query()
	if q.Get("sig") == "" {
		t.Error("signed url missing sig")
	}
	if sp := q.Get("sp"); sp != "cw" {
		t.Errorf("permissions = %q, want cw", sp)
	}
	if signed.Key != key {
		t.Errorf("Key = %q, want %q", signed.Key, key)
	}
	if signed.ExpiresAt.Before(before.Add(14 * time.Minute)) {
		t.Errorf("ExpiresAt = %v, want about 15m ahead", signed.ExpiresAt)
	}
	if signed.Headers["x-ms-blob-type"] != "BlockBlob" || signed.Headers["Content-Type"] != "image/png" {
		t.Errorf("headers = %v", signed.Headers)
	}
}

func TestSignedURLRead(t *testing.T) {
	signed, err := newSystem(t).SignedURL("images/avatar.png", storage.Read)
	if err != nil {
		t.Fatalf("SignedURL() error = %v", err)
	}
	if signed.URL == "images/avatar.png" {
		t.Fatal("signed url must differ from the key")
	}

	u, _ := url.Parse(signed.URL)
	if sp := u.Query().Get("sp"); sp != "r" {
		t.Errorf("permissions = %q, want r", sp)
	}
}

func TestSignedURLRejectsBadKeys(t *testing.T) {
	sys := newSystem(t)

	tests := []struct {
		name string
		key  string
		want error
	}{
		{"empty", "", storage.ErrEmptyKey},
		{"traversal", "images/../secret", storage.ErrInvalidKey},
		{"absolute", "/images/a.png", storage.ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sys.SignedURL(tt.key, storage.Read); !errors.Is(err, tt.want) {
				t.Errorf("SignedURL(%q) = %v, want %v", tt.key, err, tt.want)
			}
		})
	}
}

func TestDeleteExistsValidateKey(t *testing.T) {
	sys := newSystem(t)
	ctx := context.Background()

	if err := sys.Delete(ctx, ""); !errors.Is(err, storage.ErrEmptyKey) {
		t.Errorf("Delete(empty) = %v, want ErrEmptyKey", err)
	}
	if _, err := sys.Exists(ctx, "a/../b"); !errors.Is(err, storage.ErrInvalidKey) {
		t.Errorf("Exists(traversal) = %v, want ErrInvalidKey", err)
	}
}

func TestSupported(t *testing.T) {
	if !storage.Supported("video/quicktime") {
		t.Error("video/quicktime should be supported")
	}
	if storage.Supported("application/x-msdownload") {
		t.Error("executables should not be supported")
	}
}
