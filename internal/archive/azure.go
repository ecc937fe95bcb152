// Package archive mirrors generated reports to Azure Blob Storage as dated
// JSON blobs. The archive is optional; when no storage account is
// configured the scheduler simply skips it. The Cosmos/Mongo manager stays
// the system of record.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/sirupsen/logrus"

	"github.com/ultrarslanoglu/gs-analytics/internal/models"
)

// blobTimeLayout encodes a report's creation time into its blob name so
// retention can be decided from the listing alone.
const blobTimeLayout = "2006-01-02-15-04-05"

// BlobArchive stores report snapshots in one blob container.
type BlobArchive struct {
	client        *azblob.Client
	containerName string
}

// NewBlobArchive creates the archive client using managed identity and
// ensures the container exists.
func NewBlobArchive(accountName, containerName string) (*BlobArchive, error) {
	if accountName == "" {
		return nil, fmt.Errorf("storage account name is required")
	}

	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)
	client, err := azblob.NewClient(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure blob client: %w", err)
	}

	a := &BlobArchive{
		client:        client,
		containerName: containerName,
	}

	if err := a.ensureContainer(); err != nil {
		return nil, fmt.Errorf("failed to ensure container exists: %w", err)
	}

	return a, nil
}

func (a *BlobArchive) ensureContainer() error {
	ctx := context.Background()

	_, err := a.client.CreateContainer(ctx, a.containerName, nil)
	if err != nil {
		if !strings.Contains(err.Error(), "ContainerAlreadyExists") {
			return fmt.Errorf("failed to create container: %w", err)
		}
		logrus.Debugf("Container %s already exists", a.containerName)
	} else {
		logrus.Infof("Created container %s", a.containerName)
	}

	return nil
}

// StoreReport uploads a report as a dated JSON blob and returns its name.
func (a *BlobArchive) StoreReport(ctx context.Context, report *models.Report) (string, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	name := fmt.Sprintf("reports/%s/%s.json", report.ReportType, report.CreatedAt.Format(blobTimeLayout))
	_, err = a.client.UploadBuffer(ctx, a.containerName, name, data, &azblob.UploadBufferOptions{
		BlockSize:   int64(1024 * 1024),
		Concurrency: 3,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload blob %s: %w", name, err)
	}

	logrus.Infof("Archived report to %s", name)
	return name, nil
}

// Retrieve downloads one archived report blob.
func (a *BlobArchive) Retrieve(ctx context.Context, name string) (*models.Report, error) {
	response, err := a.client.DownloadStream(ctx, a.containerName, name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob %s: %w", name, err)
	}
	defer response.Body.Close()

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob content: %w", err)
	}

	var report models.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", name, err)
	}
	return &report, nil
}

// List returns archived blob names under the prefix.
func (a *BlobArchive) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	pager := a.client.NewListBlobsFlatPager(a.containerName, &azblob.ListBlobsFlatOptions{
		Prefix: &prefix,
	})

	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs: %w", err)
		}
		for _, blob := range page.Segment.BlobItems {
			if blob.Name != nil {
				names = append(names, *blob.Name)
			}
		}
	}

	return names, nil
}

// blobTimestamp recovers the creation time encoded in an archived blob
// name. Blobs whose names do not carry a timestamp are reported as not ok
// and left alone by retention.
func blobTimestamp(name string) (time.Time, bool) {
	stamp := strings.TrimSuffix(name[strings.LastIndex(name, "/")+1:], ".json")
	created, err := time.Parse(blobTimeLayout, stamp)
	return created, err == nil
}

// Prune deletes archived reports older than the retention window.
func (a *BlobArchive) Prune(ctx context.Context, prefix string, olderThan time.Time) (int, error) {
	names, err := a.List(ctx, prefix)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, name := range names {
		created, ok := blobTimestamp(name)
		if !ok {
			continue
		}
		if created.Before(olderThan) {
			if _, err := a.client.DeleteBlob(ctx, a.containerName, name, nil); err != nil {
				logrus.Errorf("Failed to delete blob %s: %v", name, err)
				continue
			}
			deleted++
		}
	}

	return deleted, nil
}
