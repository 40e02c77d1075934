package wearable

import "errors"

var (
	ErrNoActiveConnection = errors.New("no active connection")
	ErrUnknownProvider    = errors.New("unknown provider")
	ErrUnknownMetric      = errors.New("unknown metric")
)
