package harness

import "context"

type sequential struct{}

func (sequential) Kind() Kind { return Sequential }

// Execute runs each operation on the calling goroutine in submission order.
// The first failure stops the run and no values are assembled.
func (sequential) Execute(ctx context.Context, b *Batch) error {
	for i := range b.Len() {
		if ctx.Err() != nil {
			b.discard()
			return b.joinError(ctx)
		}
		if err := b.Execute(ctx, i, 0); err != nil {
			b.discard()
			return b.settle(ctx, nil)
		}
	}
	return nil
}
