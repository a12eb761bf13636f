package types

import "errors"

var (
	ErrWorkerNotFound   = errors.New("worker not found")
	ErrScanInProgress   = errors.New("a compliance scan is already in progress")
	ErrInvalidDateRange = errors.New("end date is before start date")
)
