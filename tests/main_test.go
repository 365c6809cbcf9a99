package tests

import (
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
)

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}

func TestWebSuite(t *testing.T) {
	if serverBinPath == "" {
		t.Skip("-server-bin is not set, skipping browser tests")
	}
	t.Log("start autotests")
	suite.Run(t, &WebSuite{})
}
