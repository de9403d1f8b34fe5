package testutil

import (
	"io"

	"github.com/dtroode/outagetracker/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(0, io.Discard)
}
