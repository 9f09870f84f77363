package service

import (
	"os"
	"testing"

	"github.com/Tiag8/bible-study-sub001/internal/tester"
)

func TestMain(m *testing.M) {
	tester.Setup()
	code := m.Run()

	os.Exit(code)
}
