package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrStaleSession is returned by SessionRepository.Update when the stored
// session no longer carries the caller's handle, i.e. the session was reset
// while the caller's operation was in flight.
var ErrStaleSession = goerr.New("session handle is stale")
