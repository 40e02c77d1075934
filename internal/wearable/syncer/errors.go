package syncer

import "errors"

var (
	// ErrSyncInProgress means another sync holds the user's lock.
	ErrSyncInProgress = errors.New("sync already in progress")
	// ErrNothingFetched means every metric fetch of a sync failed.
	ErrNothingFetched = errors.New("no metrics could be fetched")
)
