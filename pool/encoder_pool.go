package pool

import (
	"github.com/bpetok/encoders"
	"github.com/bpetok/vocab"
)

// EncoderPool checks out a span encoder per goroutine. Most encoders.New
// variants keep reusable scratch slices as instance state, so one instance
// must not be shared between concurrently running goroutines.
type EncoderPool[T vocab.TokenType] struct {
	pool *Pool[encoders.SpanEncoder[T]]
}

func NewEncoderPool[T vocab.TokenType](newFn func() encoders.SpanEncoder[T]) *EncoderPool[T] {
	return &EncoderPool[T]{pool: New(newFn)}
}

func (ep *EncoderPool[T]) Get() encoders.SpanEncoder[T]  { return ep.pool.Get() }
func (ep *EncoderPool[T]) Put(e encoders.SpanEncoder[T]) { ep.pool.Put(e) }
