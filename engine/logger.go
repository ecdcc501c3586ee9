package engine

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// NewLogger 按配置创建 zerolog.Logger，w 为 nil 时写 stderr。
// 不修改 zerolog 的全局级别。
func NewLogger(cfg LogConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: true}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", "hybridrec").
		Logger()
}
