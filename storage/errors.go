package storage

import (
	"errors"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue/queueerror"

	"task-gateway/domain"
)

// ErrNotFound is returned when the requested record or message does not exist.
var ErrNotFound = domain.ErrNotFound

const (
	entityNotFound     = string(aztables.ResourceNotFound)
	tableAlreadyExists = string(aztables.TableAlreadyExists)
	messageNotFound    = string(queueerror.MessageNotFound)
	queueAlreadyExists = string(queueerror.QueueAlreadyExists)
)

// hasCode reports whether err carries the given storage service error code.
func hasCode(err error, code string) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.ErrorCode == code
}
