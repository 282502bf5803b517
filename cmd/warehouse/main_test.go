package main

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestBuildVersion(t *testing.T) {
	t.Cleanup(func() { Version, CommitSHA = "", "" })

	Version, CommitSHA = "", ""
	assert.Equal(t, "dev", buildVersion())

	Version, CommitSHA = "1.2.0", "abc1234"
	assert.Equal(t, "1.2.0 (abc1234)", buildVersion())
}
