package storage

import (
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
)

// Storage groups the gateways backed by a single storage account.
type Storage struct {
	Tasks  *TaskTable
	Queue  *TaskQueue
	Images *ImageStore
}

// New creates the table, queue and blob gateways from the given connection string.
// None of the named resources are created; they must already exist.
func New(connStr, tasksTable, taskQueue, imagesContainer string) (*Storage, error) {
	tablesClientOptions := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: transportRetry(3, time.Minute*3, time.Second*15),
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &tablesClientOptions)
	if err != nil {
		return nil, err
	}
	queueClientOptions := azqueue.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: transportRetry(5, time.Minute*5, time.Second*60),
		},
	}
	qs, err := azqueue.NewServiceClientFromConnectionString(connStr, &queueClientOptions)
	if err != nil {
		return nil, err
	}
	containerClientOptions := container.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: transportRetry(3, time.Minute*5, time.Second*15),
		},
	}
	cc, err := container.NewClientFromConnectionString(connStr, imagesContainer, &containerClientOptions)
	if err != nil {
		return nil, err
	}
	return &Storage{
		Tasks:  NewTaskTable(svc.NewClient(tasksTable)),
		Queue:  NewTaskQueue(qs, taskQueue),
		Images: NewImageStore(cc, imagesContainer),
	}, nil
}

func transportRetry(maxRetries int32, tryTimeout, maxDelay time.Duration) policy.RetryOptions {
	return policy.RetryOptions{
		MaxRetries:    maxRetries,
		TryTimeout:    tryTimeout,
		RetryDelay:    time.Second * 1,
		MaxRetryDelay: maxDelay,
		StatusCodes:   []int{408, 429, 500, 502, 503, 504},
	}
}
