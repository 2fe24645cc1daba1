// Package reference generates unguessable transaction references for payment
// requests.
//
// Every character is drawn independently and uniformly from a character pool
// using crypto/rand, so references are safe to use as idempotency keys on the
// payment provider side.
//
// # Usage
//
//	ref, err := reference.Generate() // 25 alphanumeric characters
//
//	gen, err := reference.New(
//		reference.WithPool(reference.PoolDistinct),
//		reference.WithLength(12),
//	)
//	ref, err := gen.Generate()
//
// Named pools are PoolAlnum (default), PoolAlpha, PoolHexdec, PoolNumeric,
// PoolNoZero and PoolDistinct. Any other pool name is used literally as the set
// of characters to draw from.
package reference
