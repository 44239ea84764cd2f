package holiday

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/telekom/punch-reminder/pkg/version"
)

// RemoteSource downloads calendar data in the same YAML format as the
// embedded file, so a new year's schedule can be published without a release.
type RemoteSource struct {
	url    string
	client *resty.Client
	log    *zap.SugaredLogger
}

func NewRemoteSource(url string, timeout time.Duration, log *zap.SugaredLogger) *RemoteSource {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", version.UserAgent()).
		SetHeader("Accept", "application/yaml, text/yaml, text/plain")
	return &RemoteSource{url: url, client: client, log: log.Named("holiday-remote")}
}

// Fetch downloads and decodes the remote calendar. Every error wraps
// ErrDataUnavailable.
func (r *RemoteSource) Fetch(ctx context.Context) (Data, error) {
	r.log.Debugw("Fetching holiday data", "url", r.url)
	resp, err := r.client.R().SetContext(ctx).Get(r.url)
	if err != nil {
		return Data{}, fmt.Errorf("%w: fetching %s: %v", ErrDataUnavailable, r.url, err)
	}
	if resp.IsError() {
		return Data{}, fmt.Errorf("%w: fetching %s: unexpected status %d", ErrDataUnavailable, r.url, resp.StatusCode())
	}
	data, err := ParseData(resp.Body())
	if err != nil {
		return Data{}, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	r.log.Infow("Fetched holiday data", "url", r.url, "years", data.SortedYears())
	return data, nil
}

// Load returns the Oracle the dispatcher should use. Without dataURL it is
// the embedded calendar. With dataURL the remote years replace embedded ones;
// if the remote data cannot be fetched or is invalid, the result is an
// Unavailable oracle so every lookup comes back Unknown.
func Load(ctx context.Context, dataURL string, timeout time.Duration, log *zap.SugaredLogger) Oracle {
	data, err := EmbeddedData()
	if err != nil {
		log.Errorw("Embedded holiday data is invalid", "error", err)
		return Unavailable{Cause: fmt.Errorf("%w: %v", ErrDataUnavailable, err)}
	}

	if dataURL != "" {
		remote, err := NewRemoteSource(dataURL, timeout, log).Fetch(ctx)
		if err != nil {
			log.Warnw("Holiday data could not be fetched", "url", dataURL, "error", err)
			return Unavailable{Cause: err}
		}
		data = data.Merge(remote)
	}

	c, err := NewCalendar(data)
	if err != nil {
		log.Warnw("Holiday data rejected", "error", err)
		return Unavailable{Cause: fmt.Errorf("%w: %v", ErrDataUnavailable, err)}
	}
	return c
}
