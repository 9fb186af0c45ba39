// Package config resolves the compiler's tunables — storage layout bounds
// and logging — from environment variables with functional-option
// overrides, the same two-layer shape the teacher's vm.Option gives
// Instance construction. It is the only package allowed to read the
// environment (§11 of SPEC_FULL.md): sema/storage/codegen all take
// fully-resolved values.
package config

import (
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/thelink2012/gta3sc-sub001/storage"
)

// Options holds every environment-tunable setting for one compile session.
type Options struct {
	Storage  storage.Options
	LogLevel zerolog.Level
	// LogPretty selects zerolog's human-readable console writer over its
	// default JSON encoding; useful at a terminal, noisy when piped.
	LogPretty bool
	// SessionID tags every log line from this compile session so concurrent
	// invocations (e.g. a build running several gta3scc processes) can be
	// told apart in aggregated logs.
	SessionID uuid.UUID
}

// Option mutates an in-construction Options, mirroring the teacher's
// `vm.Option func(*Instance) error`.
type Option func(*Options) error

// WithLogLevel overrides the minimum logged severity.
func WithLogLevel(level zerolog.Level) Option {
	return func(o *Options) error { o.LogLevel = level; return nil }
}

// WithLogPretty toggles the console log writer.
func WithLogPretty(pretty bool) Option {
	return func(o *Options) error { o.LogPretty = pretty; return nil }
}

// WithStorage overrides the storage allocator's bounds wholesale.
func WithStorage(s storage.Options) Option {
	return func(o *Options) error { o.Storage = s; return nil }
}

// WithSessionID overrides the generated session id, letting a caller tie
// several related compile sessions (e.g. a multi-file build) to one log
// correlation id instead of minting one per file.
func WithSessionID(id uuid.UUID) Option {
	return func(o *Options) error { o.SessionID = id; return nil }
}

const (
	envLogLevel  = "GTA3SCC_LOG_LEVEL"
	envLogPretty = "GTA3SCC_LOG_PRETTY"
	envFirstVar  = "GTA3SCC_FIRST_VAR_INDEX"
	envMaxVar    = "GTA3SCC_MAX_VAR_INDEX"
	envFirstLVar = "GTA3SCC_FIRST_LVAR_INDEX"
	envMaxLVar   = "GTA3SCC_MAX_LVAR_INDEX"
)

// New resolves Options from the environment, then applies opts on top,
// matching the teacher's "defaults, then opts override" construction order
// in vm.New.
func New(opts ...Option) (*Options, error) {
	o := &Options{
		Storage:   storage.DefaultOptions(),
		LogLevel:  zerolog.InfoLevel,
		LogPretty: false,
		SessionID: uuid.New(),
	}

	if v, ok := os.LookupEnv(envLogLevel); ok {
		lvl, err := zerolog.ParseLevel(v)
		if err != nil {
			return nil, errors.Wrapf(err, "config: parse %s=%q", envLogLevel, v)
		}
		o.LogLevel = lvl
	}
	if v, ok := os.LookupEnv(envLogPretty); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.Wrapf(err, "config: parse %s=%q", envLogPretty, v)
		}
		o.LogPretty = b
	}
	if err := envUint16(envFirstVar, &o.Storage.FirstVarStorageIndex); err != nil {
		return nil, err
	}
	if err := envUint16(envMaxVar, &o.Storage.MaxVarStorageIndex); err != nil {
		return nil, err
	}
	if err := envUint16(envFirstLVar, &o.Storage.FirstLVarStorageIndex); err != nil {
		return nil, err
	}
	if err := envUint16(envMaxLVar, &o.Storage.MaxLVarStorageIndex); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func envUint16(key string, dst *storage.IndexType) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 16)
	if err != nil {
		return errors.Wrapf(err, "config: parse %s=%q", key, v)
	}
	*dst = storage.IndexType(n)
	return nil
}

// NewLogger builds a zerolog.Logger honoring o.LogLevel/o.LogPretty, with
// every line tagged by o.SessionID for cross-process log correlation.
func (o *Options) NewLogger() zerolog.Logger {
	if o.LogPretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(o.LogLevel).
			With().Timestamp().Str("session_id", o.SessionID.String()).Logger()
	}
	return zerolog.New(os.Stderr).Level(o.LogLevel).
		With().Timestamp().Str("session_id", o.SessionID.String()).Logger()
}
