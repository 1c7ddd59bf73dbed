package sepush

import "context"

// Result is the outcome of a call started with Async.
type Result[T any] struct {
	Value T
	Err   error
}

// Async runs fn in its own goroutine and delivers the single result on the
// returned channel, which is buffered so the goroutine never leaks.
//
//	ch := sepush.Async(ctx, client.Status)
//	res := <-ch
func Async[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		defer close(ch)
		v, err := fn(ctx)
		ch <- Result[T]{Value: v, Err: err}
	}()
	return ch
}
