package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInjectedValuesWin(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldVersion, oldCommit, oldDate })

	Version, Commit, Date = "v1.2.3", "abc1234", "2025-03-09 08:30:00"

	info := GetBuildInfo()
	assert.Equal(t, "v1.2.3", info.Version)
	assert.Equal(t, "abc1234", info.Commit)
	assert.Equal(t, "v1.2.3, commit abc1234, built at 2025-03-09 08:30:00", GetVersionString())
	assert.True(t, strings.HasPrefix(info.GoVersion, "go"))
}
