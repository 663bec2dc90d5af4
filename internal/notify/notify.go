// Package notify delivers the best-effort email notification for a validated
// date-plan submission. Delivery failures are reported as a typed Result and
// logged; they never become errors the caller has to handle.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/pmartell/datenight/backend/internal/domain"
)

// Sender is the one external capability the notifier depends on. It sends a
// rendered message and returns the provider's message ID on success.
// Defining the interface here (in the consumer package) lets tests inject a
// stub without any network access.
type Sender interface {
	Send(ctx context.Context, msg domain.EmailMessage) (string, error)
}

// Result is the outcome of a Notify call. Notify has no error return: the
// gateway inspects Sent and reports it to the client as a soft flag, while
// Err exists only for logging.
type Result struct {
	Sent      bool
	Attempts  int
	MessageID string
	Err       error
}

// Notifier sends submission notifications with bounded retries.
type Notifier struct {
	sender   Sender
	from, to string
	log      *slog.Logger

	// backoffBase is the first retry delay; it doubles per attempt
	// (2s, then 4s). Tests shrink it to keep runs fast.
	backoffBase time.Duration
	maxRetries  uint64
}

// New constructs a Notifier with the production retry policy: three attempts
// total, exponential backoff starting at two seconds.
func New(sender Sender, from, to string, log *slog.Logger) *Notifier {
	return &Notifier{
		sender:      sender,
		from:        from,
		to:          to,
		log:         log,
		backoffBase: 2 * time.Second,
		maxRetries:  2,
	}
}

// NewWithBackoff is New with an overridden base delay, for tests.
func NewWithBackoff(sender Sender, from, to string, log *slog.Logger, base time.Duration) *Notifier {
	n := New(sender, from, to, log)
	n.backoffBase = base
	return n
}

// Notify renders and sends the notification email for sub.
//
// On failure it retries with exponential backoff until the attempt budget is
// spent, then gives up and reports Sent=false. The submission is already
// acknowledged to the user by the time this runs, so nothing here can or
// should fail the request.
func (n *Notifier) Notify(ctx context.Context, sub domain.PlanSubmission) Result {
	msg := domain.EmailMessage{
		From:    n.from,
		To:      n.to,
		Subject: renderSubject(sub),
		HTML:    renderHTML(sub),
	}

	start := time.Now()
	res := Result{}

	backoff := retry.WithMaxRetries(n.maxRetries, retry.NewExponential(n.backoffBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		res.Attempts++
		id, err := n.sender.Send(ctx, msg)
		if err != nil {
			n.log.Warn("email send attempt failed",
				"attempt", res.Attempts,
				"error", err,
			)
			return retry.RetryableError(err)
		}
		res.MessageID = id
		return nil
	})

	elapsed := time.Since(start)
	if err != nil {
		res.Err = err
		n.log.Error("email delivery failed",
			"attempts", res.Attempts,
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return res
	}

	res.Sent = true
	n.log.Info("email delivered",
		"attempts", res.Attempts,
		"duration_ms", elapsed.Milliseconds(),
		"message_id", res.MessageID,
	)
	return res
}
