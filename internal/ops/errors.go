package ops

import "errors"

// Handler errors for missing collaborators.
var (
	ErrNoDocument   = errors.New("ops: no document")
	ErrNoNotifier   = errors.New("ops: no notifier")
	ErrNoNavigator  = errors.New("ops: no navigator")
	ErrNoDispatcher = errors.New("ops: no dispatcher")
)
