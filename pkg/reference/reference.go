package reference

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// Pool names understood by WithPool.
const (
	PoolAlnum    = "alnum"
	PoolAlpha    = "alpha"
	PoolHexdec   = "hexdec"
	PoolNumeric  = "numeric"
	PoolNoZero   = "nozero"
	PoolDistinct = "distinct"
)

// DefaultLength is the length of references produced by Generate.
const DefaultLength = 25

var pools = map[string]string{
	PoolAlnum:    "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
	PoolAlpha:    "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
	PoolHexdec:   "0123456789abcdef",
	PoolNumeric:  "0123456789",
	PoolNoZero:   "123456789",
	PoolDistinct: "2345679ACDEFHJKLMNPRSTUVWXYZ",
}

// Characters returns the character set behind a pool name.
// Unknown names are returned unchanged.
func Characters(pool string) string {
	if chars, ok := pools[pool]; ok {
		return chars
	}
	return pool
}

// Generator produces references of a fixed length from a fixed pool.
// It holds no mutable state and is safe for concurrent use.
type Generator struct {
	chars  []rune
	length int
}

// Option configures a Generator.
type Option func(*Generator)

// WithPool selects a named pool or a literal character set.
func WithPool(pool string) Option {
	return func(g *Generator) {
		g.chars = []rune(Characters(pool))
	}
}

// WithLength sets the number of characters per reference.
func WithLength(n int) Option {
	return func(g *Generator) {
		g.length = n
	}
}

// New returns a Generator using PoolAlnum and DefaultLength unless overridden.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		chars:  []rune(pools[PoolAlnum]),
		length: DefaultLength,
	}
	for _, opt := range opts {
		opt(g)
	}

	if len(g.chars) == 0 {
		return nil, ErrEmptyPool
	}
	if g.length <= 0 {
		return nil, ErrInvalidLength
	}

	return g, nil
}

// Generate returns a new random reference.
func (g *Generator) Generate() (string, error) {
	size := big.NewInt(int64(len(g.chars)))

	var b strings.Builder
	b.Grow(g.length)
	for range g.length {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", errors.Join(ErrRandomSource, err)
		}
		b.WriteRune(g.chars[n.Int64()])
	}

	return b.String(), nil
}

var defaultGenerator = &Generator{
	chars:  []rune(pools[PoolAlnum]),
	length: DefaultLength,
}

// Generate returns a DefaultLength alphanumeric reference.
func Generate() (string, error) {
	return defaultGenerator.Generate()
}
