package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup membuat slog.Logger dengan output JSON terstruktur.
// Jika writer diberikan, output diarahkan ke writer tersebut.
func Setup(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler)
}

// SetupDefault memasang logger JSON terstruktur sebagai logger global.
// Di produksi diasumsikan os.Stdout yang dipakai.
func SetupDefault(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	logger := Setup(w)
	slog.SetDefault(logger)
}
