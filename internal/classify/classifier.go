// Package classify maps a candidate activity (title + description) onto
// a temporal category. A remote inference collaborator does the real
// work when it is reachable; a deterministic local keyword scorer takes
// over whenever the remote path fails, times out, or returns something
// that does not validate. The caller always gets a category back.
package classify

import (
	"context"
	"strings"
	"time"

	appLog "calassist/internal/log"
	"calassist/internal/model"
)

// defaultTimeout bounds the remote wait when the caller configures none.
const defaultTimeout = 5 * time.Second

// Classifier orchestrates the remote call with the local fallback.
type Classifier struct {
	remote  RemoteClient
	timeout time.Duration
}

// New builds a Classifier. remote may be nil, in which case every call
// goes straight to the local scorer.
func New(remote RemoteClient, timeout time.Duration) *Classifier {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Classifier{
		remote:  remote,
		timeout: timeout,
	}
}

// Classify returns a Classification for the activity. The only error it
// can return is fail-fast input validation; remote failure is absorbed
// into the local fallback and never surfaced.
func (c *Classifier) Classify(ctx context.Context, title, description string, asOf time.Time) (model.Classification, error) {
	if strings.TrimSpace(title) == "" {
		return model.Classification{}, model.ErrEmptyTitle
	}

	if c.remote == nil {
		return classifyLocal(title, description), nil
	}

	type remoteResult struct {
		cls model.Classification
		err error
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// Buffered so a late reply never blocks the goroutine; once the
	// fallback has been returned the reply is simply discarded.
	ch := make(chan remoteResult, 1)
	go func() {
		cls, err := c.remote.Classify(callCtx, Request{
			Title:       title,
			Description: description,
			AsOf:        asOf,
		})
		ch <- remoteResult{cls: cls, err: err}
	}()

	select {
	case res := <-ch:
		if res.err == nil {
			return res.cls, nil
		}
		appLog.Warn("remote classification failed, using local fallback",
			"title", title, "reason", res.err.Error())
	case <-callCtx.Done():
		appLog.Warn("remote classification timed out, using local fallback",
			"title", title, "timeout", c.timeout.String())
	}

	return classifyLocal(title, description), nil
}
