package broadcast

import "errors"

// ErrSubscriberClosed is returned by Next once the subscriber is closed and drained.
var ErrSubscriberClosed = errors.New("broadcast: subscriber is closed")
