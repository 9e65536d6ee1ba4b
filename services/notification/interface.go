package notification

import (
	"context"
	"errors"
	"strings"

	"eclinic/models"
)

// ErrPushDisabled is returned by senders when push delivery is switched off.
var ErrPushDisabled = errors.New("push notifications are disabled")

// InvalidPushError lists the required fields a push request is missing.
type InvalidPushError struct {
	Missing []string
}

func (e InvalidPushError) Error() string {
	return "Missing fields: " + strings.Join(e.Missing, ", ")
}

// Validate returns an InvalidPushError when any required field is empty.
func Validate(req models.PushRequest) error {
	if missing := req.MissingFields(); len(missing) > 0 {
		return InvalidPushError{Missing: missing}
	}
	return nil
}

// Sender delivers one push notification and reports the provider's message id.
type Sender interface {
	Send(ctx context.Context, req models.PushRequest) (string, error)
}

// Notifier dispatches a push without reporting the outcome to the caller.
// Failures are logged by the implementation.
type Notifier interface {
	Notify(ctx context.Context, req models.PushRequest)
}
