package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones del logger del servicio.
type Config struct {
	Env     string    // development -> consola legible; el resto -> JSON
	Level   string    // trace, debug, info, warn, error
	Service string    // nombre del servicio, fijado como campo en cada evento
	Writer  io.Writer // destino de salida; nil = os.Stdout
}

// Logger envoltorio sobre zerolog para inyectar en el resto del motor de stock.
type Logger struct {
	zl zerolog.Logger
}

// New crea el logger estructurado: consola legible en development, JSON en el
// resto de ambientes. Cada evento lleva timestamp y el nombre del servicio,
// para poder filtrar los logs del motor entre los del resto de la plataforma.
func New(cfg Config) *Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: w}
	}

	ctx := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	zl := ctx.Logger()

	// Logger global de zerolog para paquetes que loguean sin inyección.
	log.Logger = zl

	return &Logger{zl: zl}
}

// parseLevel mapea el nivel configurado; desconocido o vacío cae en info.
func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Trace, Debug, Info, Warn, Error, Fatal delegados a zerolog.
func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With crea un sublogger con campos fijos.
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

// Zerolog devuelve el logger interno por si se necesita la API directa.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
