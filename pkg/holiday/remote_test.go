package holiday

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/telekom/punch-reminder/pkg/system"
)

const remote2027 = `
region: CN
years:
  2027:
    holidays:
      - {name: 元旦, from: 2027-01-01, to: 2027-01-03}
    workdays:
      - {date: 2027-01-09, name: 元旦调休}
`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("User-Agent"), "punch-reminder/"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteSourceFetch(t *testing.T) {
	srv := serve(t, http.StatusOK, remote2027)

	data, err := NewRemoteSource(srv.URL, time.Second, zaptest.NewLogger(t).Sugar()).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2027}, data.SortedYears())
}

func TestRemoteSourceFetchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "oops"},
		{name: "not found", status: http.StatusNotFound, body: ""},
		{name: "garbage body", status: http.StatusOK, body: "years: ["},
		{name: "empty calendar", status: http.StatusOK, body: "region: CN\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body)
			_, err := NewRemoteSource(srv.URL, time.Second, zaptest.NewLogger(t).Sugar()).Fetch(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDataUnavailable), "got %v", err)
		})
	}
}

func TestRemoteSourceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewRemoteSource(url, 200*time.Millisecond, zaptest.NewLogger(t).Sugar()).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestLoadEmbeddedOnly(t *testing.T) {
	oracle := Load(context.Background(), "", time.Second, system.NewTestLogger())

	c, ok := oracle.(*Calendar)
	require.True(t, ok, "expected *Calendar, got %T", oracle)
	assert.True(t, c.covers(2026))
	assert.False(t, c.covers(2027))
}

func TestLoadMergesRemoteYears(t *testing.T) {
	srv := serve(t, http.StatusOK, remote2027)

	oracle := Load(context.Background(), srv.URL, time.Second, system.NewTestLogger())

	assert.Equal(t, Workday, oracle.Lookup(context.Background(), date(2026, time.October, 19)).Status, "embedded years survive")
	assert.Equal(t, NonWorkday, oracle.Lookup(context.Background(), date(2027, time.January, 1)).Status)
	assert.Equal(t, Workday, oracle.Lookup(context.Background(), date(2027, time.January, 9)).Status)
}

func TestLoadRemoteFailureIsUnavailable(t *testing.T) {
	srv := serve(t, http.StatusBadGateway, "")

	oracle := Load(context.Background(), srv.URL, time.Second, system.NewTestLogger())

	_, ok := oracle.(Unavailable)
	require.True(t, ok, "expected Unavailable, got %T", oracle)
	v := oracle.Lookup(context.Background(), date(2026, time.October, 19))
	assert.Equal(t, Unknown, v.Status)
	assert.ErrorIs(t, v.Cause, ErrDataUnavailable)
}

func TestLoadRemoteInvalidCalendarIsUnavailable(t *testing.T) {
	srv := serve(t, http.StatusOK, `
years:
  2027:
    holidays:
      - {name: x, from: 2027-05-05, to: 2027-05-01}
`)

	oracle := Load(context.Background(), srv.URL, time.Second, system.NewTestLogger())

	v := oracle.Lookup(context.Background(), date(2027, time.May, 3))
	assert.Equal(t, Unknown, v.Status)
	assert.ErrorIs(t, v.Cause, ErrDataUnavailable)
}
