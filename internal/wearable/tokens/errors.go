package tokens

import (
	"errors"
	"fmt"

	"github.com/2beens/wearsync/internal/wearable"
)

// ErrTokenRevoked means the user has to go through the OAuth flow again.
var ErrTokenRevoked = errors.New("authorization revoked, please reconnect")

// RefreshError is a transient refresh failure; the connection stays active
// and the next sync tries again.
type RefreshError struct {
	Provider wearable.Provider
	Err      error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refresh %s token: %s", e.Provider, e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}
