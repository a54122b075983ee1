package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"eduportal/internal/util"
	"eduportal/pkg/domain"
)

// ListResources returns the caller's library resources, newest first.
func (a *App) ListResources(user domain.User) ([]domain.Resource, error) {
	return a.store.ListResourcesByOwner(user.ID)
}

// UploadResource stores the file payload in object storage and its
// metadata in the document store.
func (a *App) UploadResource(ctx context.Context, user domain.User, title, fileName, contentType string, size int64, r io.Reader) (domain.Resource, error) {
	if a.objects == nil {
		return domain.Resource{}, ErrStorageNotConfigured
	}
	fileName = filepath.Base(strings.TrimSpace(fileName))
	if fileName == "" || fileName == "." {
		return domain.Resource{}, fmt.Errorf("file name is required")
	}
	if size <= 0 {
		return domain.Resource{}, fmt.Errorf("empty upload")
	}
	if size > a.maxUploadBytes {
		return domain.Resource{}, ErrUploadTooLarge
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = fileName
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fmt.Sprintf("library/%s/%s%s", user.ID, uuid.NewString(), filepath.Ext(fileName))
	if err := a.objects.Put(ctx, key, r, size, contentType); err != nil {
		return domain.Resource{}, fmt.Errorf("store file: %w", err)
	}
	resource := domain.Resource{
		ID:          util.NewID(),
		OwnerID:     user.ID,
		Title:       title,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
		StorageKey:  key,
		CreatedAt:   time.Now().UTC(),
	}
	if err := a.store.SaveResource(resource); err != nil {
		// Orphaned objects are cheaper than dangling metadata.
		_ = a.objects.Delete(ctx, key)
		return domain.Resource{}, fmt.Errorf("save resource: %w", err)
	}
	return resource, nil
}

// ResourceDownloadURL returns a presigned URL for one of the caller's files.
func (a *App) ResourceDownloadURL(ctx context.Context, user domain.User, id string) (string, error) {
	if a.objects == nil {
		return "", ErrStorageNotConfigured
	}
	resource, ok, err := a.store.GetResource(id)
	if err != nil {
		return "", fmt.Errorf("fetch resource: %w", err)
	}
	if !ok || resource.OwnerID != user.ID {
		return "", ErrNotFound
	}
	url, err := a.objects.PresignGet(ctx, resource.StorageKey, resource.FileName, defaultPresignTTL)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return url, nil
}

// DeleteResource removes the object then the metadata document.
func (a *App) DeleteResource(ctx context.Context, user domain.User, id string) error {
	resource, ok, err := a.store.GetResource(id)
	if err != nil {
		return fmt.Errorf("fetch resource: %w", err)
	}
	if !ok || resource.OwnerID != user.ID {
		return ErrNotFound
	}
	if a.objects != nil {
		if err := a.objects.Delete(ctx, resource.StorageKey); err != nil {
			return fmt.Errorf("delete file: %w", err)
		}
	}
	if err := a.store.DeleteResource(id); err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	return nil
}
