package messaging

import "errors"

// ErrClosed signals a fully drained, closed queue — the consumer's normal
// end-of-stream condition, not a failure.
var ErrClosed = errors.New("messaging: queue closed")
