package storage

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"

	"task-gateway/domain"
)

// ImageStore keeps task photos as blobs in a single container.
type ImageStore struct {
	container *container.Client
	name      string
}

// NewImageStore wraps a container client; name is reported back to callers.
func NewImageStore(c *container.Client, name string) *ImageStore {
	return &ImageStore{container: c, name: name}
}

// Container returns the container name.
func (s *ImageStore) Container() string {
	return s.name
}

// Upload writes data under key and returns the blob URL.
func (s *ImageStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	bc := s.container.NewBlockBlobClient(key)
	_, err := bc.UploadBuffer(ctx, data, &blockblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return "", err
	}
	return bc.URL(), nil
}

// List returns every blob whose name starts with prefix.
func (s *ImageStore) List(ctx context.Context, prefix string) ([]domain.Image, error) {
	pager := s.container.NewListBlobsFlatPager(&container.ListBlobsFlatOptions{Prefix: &prefix})
	images := []domain.Image{}
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		if resp.Segment == nil {
			continue
		}
		for _, item := range resp.Segment.BlobItems {
			if item == nil || item.Name == nil {
				continue
			}
			images = append(images, s.toImage(item))
		}
	}
	return images, nil
}

func (s *ImageStore) toImage(item *container.BlobItem) domain.Image {
	img := domain.Image{
		Key: *item.Name,
		URL: s.container.NewBlobClient(*item.Name).URL(),
	}
	if p := item.Properties; p != nil {
		if p.ContentLength != nil {
			img.Size = *p.ContentLength
		}
		if p.LastModified != nil {
			img.LastModified = p.LastModified.UTC()
		}
	}
	return img
}
