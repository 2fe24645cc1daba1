package config

import (
	"errors"
	"fmt"
	"maps"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read by Load when no files are given and it exists.
const DefaultEnvFile = ".env"

type options struct {
	files   []string
	prefix  string
	environ map[string]string
}

// Option configures Load.
type Option func(*options)

// WithEnvFiles reads the given dotenv files. Later files override earlier
// ones; the process environment overrides them all. A missing file is an error.
func WithEnvFiles(paths ...string) Option {
	return func(o *options) {
		o.files = append(o.files, paths...)
	}
}

// WithPrefix prepends prefix to every env tag.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithEnvironment replaces the process environment. Intended for tests.
func WithEnvironment(environ map[string]string) Option {
	return func(o *options) {
		o.environ = environ
	}
}

// Load populates v from the environment using its `env` struct tags.
//
//	var cfg struct {
//		Currency string `env:"CASHIER_CURRENCY" envDefault:"NGN"`
//		Secret   string `env:"PAYSTACK_SECRET,required"`
//	}
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	environ, err := o.environment()
	if err != nil {
		return err
	}

	if err := env.ParseWithOptions(v, env.Options{
		Prefix:      o.prefix,
		Environment: environ,
	}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad is like Load but panics on error.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

func (o *options) environment() (map[string]string, error) {
	files := o.files
	if len(files) == 0 {
		if _, err := os.Stat(DefaultEnvFile); err == nil {
			files = []string{DefaultEnvFile}
		}
	}

	out := make(map[string]string)
	for _, path := range files {
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, errors.Join(ErrReadingEnv, fmt.Errorf("%s: %w", path, err))
		}
		maps.Copy(out, values)
	}

	if o.environ != nil {
		maps.Copy(out, o.environ)
	} else {
		maps.Copy(out, env.ToMap(os.Environ()))
	}
	return out, nil
}
