package storage

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
	log "github.com/sirupsen/logrus"
)

// Resources names the table, queue and blob container the gateway uses.
type Resources struct {
	TasksTable      string
	TaskQueue       string
	ImagesContainer string
}

// Provision creates every named resource that does not exist yet. The images
// container is created with public read access on blobs.
func Provision(ctx context.Context, connStr string, res Resources) error {
	if res.TasksTable != "" {
		svc, err := aztables.NewServiceClientFromConnectionString(connStr, nil)
		if err != nil {
			return err
		}
		if _, err := svc.NewClient(res.TasksTable).CreateTable(ctx, nil); err != nil && !hasCode(err, tableAlreadyExists) {
			return fmt.Errorf("create table %s: %w", res.TasksTable, err)
		}
		log.WithField("table", res.TasksTable).Info("table ready")
	}

	if res.TaskQueue != "" {
		q, err := azqueue.NewQueueClientFromConnectionString(connStr, res.TaskQueue, nil)
		if err != nil {
			return err
		}
		if _, err := q.Create(ctx, nil); err != nil && !hasCode(err, queueAlreadyExists) {
			return fmt.Errorf("create queue %s: %w", res.TaskQueue, err)
		}
		log.WithField("queue", res.TaskQueue).Info("queue ready")
	}

	if res.ImagesContainer != "" {
		cc, err := container.NewClientFromConnectionString(connStr, res.ImagesContainer, nil)
		if err != nil {
			return err
		}
		_, err = cc.Create(ctx, &container.CreateOptions{Access: to.Ptr(container.PublicAccessTypeBlob)})
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return fmt.Errorf("create container %s: %w", res.ImagesContainer, err)
		}
		log.WithField("container", res.ImagesContainer).Info("container ready")
	}
	return nil
}
