package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GitCommit)
	assert.NotEmpty(t, info.BuildDate)
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Platform)
}

func TestGetBuildInfo_ParsesValidDate(t *testing.T) {
	originalBuildDate := BuildDate
	defer func() { BuildDate = originalBuildDate }()

	validDate := "2026-01-13T20:00:00Z"
	BuildDate = validDate

	info := GetBuildInfo()

	expectedTime, _ := time.Parse(time.RFC3339, validDate)
	assert.True(t, info.BuildTime.Equal(expectedTime), "BuildTime = %v, want %v", info.BuildTime, expectedTime)
}

func TestGetBuildInfo_IgnoresInvalidDate(t *testing.T) {
	originalBuildDate := BuildDate
	defer func() { BuildDate = originalBuildDate }()

	BuildDate = "yesterday"
	assert.True(t, GetBuildInfo().BuildTime.IsZero())
}

func TestBuildInfoString(t *testing.T) {
	info := BuildInfo{Version: "1.2.3", GitCommit: "abc123", BuildDate: "2026-01-13"}
	assert.Equal(t, "punch-reminder 1.2.3 (commit: abc123, built: 2026-01-13)", info.String())
}

func TestUserAgent(t *testing.T) {
	originalVersion := Version
	defer func() { Version = originalVersion }()

	Version = "0.4.0"
	assert.Equal(t, "punch-reminder/0.4.0", UserAgent())
}
