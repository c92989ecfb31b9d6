package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/tools/go/analysis/analysistest"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"honnef.co/go/tools/quickfix"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"
)

func TestSignedURLLogAnalyzer(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), SignedURLLogAnalyzer, "signedurl")
}

func TestCopylockFixture(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), copylock.Analyzer, "copylock")
}

func checkNames() map[string]bool {
	return map[string]bool{
		"ST1005": true,
		"ST1000": true,
		"ST1020": true,
		"ST1013": true,
		"S1008":  true,
		"S1021":  true,
	}
}

func names() map[string]bool {
	out := make(map[string]bool, len(mychecks))
	for _, a := range mychecks {
		out[a.Name] = true
	}
	return out
}

func TestAppendChecks(t *testing.T) {
	mychecks = nil
	appendChecks(staticcheck.Analyzers, checkNames())
	appendChecks(stylecheck.Analyzers, checkNames())
	appendChecks(simple.Analyzers, checkNames())
	appendChecks(quickfix.Analyzers, checkNames())

	got := names()
	assert.True(t, got["SA1000"])
	assert.True(t, got["ST1005"])
	assert.True(t, got["S1008"])
	assert.False(t, got["ST1003"])
}

func TestAppendPassesChecks(t *testing.T) {
	appendPassesChecks()
	assert.True(t, names()["printf"])
	assert.True(t, names()["copylocks"])
}

func TestAppendOtherPublicChecks(t *testing.T) {
	mychecks = nil
	appendOtherPublicChecks()
	assert.Len(t, mychecks, 3)
}

func TestAppendStaticcheckIoChecks(t *testing.T) {
	mychecks = nil
	appendStaticcheckIoChecks(checkNames())
	assert.True(t, names()["ST1000"])
}

func TestAppendCustomSignedURLCheck(t *testing.T) {
	mychecks = nil
	appendCustomSignedURLCheck()
	assert.Equal(t, []string{"signedurllog"}, []string{mychecks[0].Name})
}

func TestLoadChecksWithoutConfig(t *testing.T) {
	assert.Empty(t, loadChecks())
}
