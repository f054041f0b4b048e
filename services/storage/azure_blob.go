package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"photos/config"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
)

// AzureBlobStorage implements ObjectStore on an Azure Blob Storage container.
// Signed URLs are service SAS tokens signed with the account shared key.
type AzureBlobStorage struct {
	client        *azblob.Client
	credential    *azblob.SharedKeyCredential
	containerName string
	logger        *log.Logger
}

// NewAzureBlobStorage creates a container-scoped blob client from the
// account connection string. No request is made until first use.
func NewAzureBlobStorage(cfg config.AzureConfig, containerName string, logger *log.Logger) (*AzureBlobStorage, error) {
	if logger == nil {
		logger = log.New(log.Writer(), "[AZBLOB] ", log.LstdFlags)
	}

	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("azure blob: failed to create client: %w", err)
	}

	credential, err := azblob.NewSharedKeyCredential(cfg.AccountName, cfg.AccountKey)
	if err != nil {
		return nil, fmt.Errorf("azure blob: invalid shared key credential: %w", err)
	}

	return &AzureBlobStorage{
		client:        client,
		credential:    credential,
		containerName: containerName,
		logger:        logger,
	}, nil
}

// PutObject uploads a block blob, overwriting any blob of the same name.
func (s *AzureBlobStorage) PutObject(ctx context.Context, name string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.UploadStream(ctx, s.containerName, name, reader, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: to.Ptr(contentType),
		},
	})
	if err != nil {
		return fmt.Errorf("azure blob: failed to upload %q: %w", name, err)
	}
	return nil
}

// ListObjects walks every page of the container listing.
func (s *AzureBlobStorage) ListObjects(ctx context.Context) ([]ObjectInfo, error) {
	pager := s.client.NewListBlobsFlatPager(s.containerName, nil)

	var objects []ObjectInfo
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("azure blob: error listing blobs: %w", err)
		}
		if page.Segment == nil {
			continue
		}

		for _, item := range page.Segment.BlobItems {
			if item == nil || item.Name == nil {
				continue
			}
			info := ObjectInfo{Name: *item.Name}
			if p := item.Properties; p != nil {
				if p.ContentLength != nil {
					info.Size = *p.ContentLength
				}
				if p.LastModified != nil {
					info.LastModified = *p.LastModified
				}
				if p.ContentType != nil {
					info.ContentType = *p.ContentType
				}
			}
			objects = append(objects, info)
		}
	}

	return objects, nil
}

// SignedURL builds https://<account>.blob.core.windows.net/<container>/<name>?<sas>
// with read-only permission, HTTPS only, expiring ttl from now.
func (s *AzureBlobStorage) SignedURL(_ context.Context, name string, ttl time.Duration) (string, error) {
	values := sas.BlobSignatureValues{
		Protocol:      sas.ProtocolHTTPS,
		ExpiryTime:    time.Now().UTC().Add(ttl),
		Permissions:   to.Ptr(sas.BlobPermissions{Read: true}).String(),
		ContainerName: s.containerName,
		BlobName:      name,
	}

	query, err := values.SignWithSharedKey(s.credential)
	if err != nil {
		return "", fmt.Errorf("azure blob: failed to sign URL for %q: %w", name, err)
	}

	blobURL := s.client.ServiceClient().NewContainerClient(s.containerName).NewBlobClient(name).URL()
	return blobURL + "?" + query.Encode(), nil
}

// Name returns a label for the backend
func (s *AzureBlobStorage) Name() string {
	return "azure-blob:" + s.containerName
}
