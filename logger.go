package auth

import (
	"fmt"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to the package Logger interface.
type ZerologLogger struct {
	log zerolog.Logger
}

var _ Logger = (*ZerologLogger)(nil)

func NewZerologLogger(log zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{log: log}
}

func (z *ZerologLogger) Debug(format string, args ...any) {
	z.log.Debug().Msg(sprintf(format, args))
}

func (z *ZerologLogger) Info(format string, args ...any) {
	z.log.Info().Msg(sprintf(format, args))
}

func (z *ZerologLogger) Warn(format string, args ...any) {
	z.log.Warn().Msg(sprintf(format, args))
}

func (z *ZerologLogger) Error(format string, args ...any) {
	z.log.Error().Msg(sprintf(format, args))
}

func sprintf(format string, args []any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
