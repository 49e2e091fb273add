// Package storage provides object storage operations and signed URL issuance
// with an Azure Blob Storage implementation.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
	"github.com/google/uuid"

	"github.com/JaimeStill/keepsake/pkg/lifecycle"
)

// Mode is the access a signed URL grants.
type Mode string

const (
	Read  Mode = "read"
	Write Mode = "write"
)

// clockSkew backdates signed URL start times.
const clockSkew = 5 * time.Minute

// Signed is a time-limited URL for a single object.
type Signed struct {
	URL       string
	Key       string
	ExpiresAt time.Time
	// Headers must accompany a request made with the URL.
	Headers map[string]string
}

// System manages object storage operations and lifecycle coordination.
type System interface {
	// Start registers a startup hook that initializes the storage container.
	Start(lc *lifecycle.Coordinator) error
	Ready() bool
	// RandomFilename derives a collision-resistant key scoped by content type,
	// e.g. images/<uuid>.png. Returns ErrUnsupportedContentType for unknown types.
	RandomFilename(contentType string) (string, error)
	// UploadURL signs a create/write URL for key.
	UploadURL(key, contentType string) (Signed, error)
	// SignedURL signs a URL for key with the given access mode.
	SignedURL(key string, mode Mode) (Signed, error)
	// Delete removes the blob at key. Returns ErrNotFound if the blob does not exist.
	Delete(ctx context.Context, key string) error
	// Exists reports whether a blob exists at key.
	Exists(ctx context.Context, key string) (bool, error)
}

type azure struct {
	container *container.Client
	name      string
	uploadTTL time.Duration
	readTTL   time.Duration
	logger    *slog.Logger
	now       func() time.Time
	ready     atomic.Bool
}

// New creates a storage system from the given configuration.
// It validates the connection string and creates the Azure client
// but does not contact the service until Start is called.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &azure{
		container: client.ServiceClient().NewContainerClient(cfg.ContainerName),
		name:      cfg.ContainerName,
		uploadTTL: cfg.UploadTTLDuration(),
		readTTL:   cfg.ReadTTLDuration(),
		logger:    logger.With("system", "storage"),
		now:       time.Now,
	}, nil
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting storage system")
	lc.Track("storage", a)

	lc.OnStartup(func() {
		_, err := a.container.Create(lc.Context(), nil)
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			a.logger.Error("storage container initialization failed", "error", err)
			return
		}

		a.ready.Store(true)
		a.logger.Info("storage container ready", "container", a.name)
	})

	return nil
}

func (a *azure) Ready() bool {
	return a.ready.Load()
}

func (a *azure) RandomFilename(contentType string) (string, error) {
	kind, ok := contentTypes[normalize(contentType)]
	if !ok {
		return "", ErrUnsupportedContentType
	}
	return kind.folder + "/" + uuid.NewString() + kind.ext, nil
}

func (a *azure) UploadURL(key, contentType string) (Signed, error) {
	signed, err := a.sign(key, sas.BlobPermissions{Create: true, Write: true}, a.uploadTTL)
	if err != nil {
		return Signed{}, err
	}

	signed.Headers = map[string]string{
		"x-ms-blob-type": "BlockBlob",
		"Content-Type":   normalize(contentType),
	}
	return signed, nil
}

func (a *azure) SignedURL(key string, mode Mode) (Signed, error) {
	switch mode {
	case Read:
		return a.sign(key, sas.BlobPermissions{Read: true}, a.readTTL)
	case Write:
		return a.sign(key, sas.BlobPermissions{Create: true, Write: true}, a.uploadTTL)
	default:
		return Signed{}, fmt.Errorf("unknown signing mode %q", mode)
	}
}

func (a *azure) sign(key string, perms sas.BlobPermissions, ttl time.Duration) (Signed, error) {
	if err := validateKey(key); err != nil {
		return Signed{}, err
	}

	now := a.now().UTC()
	expires := now.Add(ttl)

	url, err := a.container.NewBlobClient(key).GetSASURL(perms, expires, &blob.GetSASURLOptions{
		StartTime: to.Ptr(now.Add(-clockSkew)),
	})
	if err != nil {
		return Signed{}, fmt.Errorf("sign blob %s: %w", key, err)
	}

	return Signed{URL: url, Key: key, ExpiresAt: expires}, nil
}

func (a *azure) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	_, err := a.container.NewBlobClient(key).Delete(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete blob %s: %w", key, err)
	}

	return nil
}

func (a *azure) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	_, err := a.container.NewBlobClient(key).GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check blob existence %s: %w", key, err)
	}

	return true, nil
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	return nil
}
