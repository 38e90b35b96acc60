package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Chain tries extractors strictly in order and returns the first result with
// non-empty normalized content. Extractor errors never escape the chain.
type Chain struct {
	Extractors []Extractor
}

// NewChain returns a chain over the given extractors, in priority order.
func NewChain(extractors ...Extractor) *Chain {
	return &Chain{Extractors: extractors}
}

// Extract runs the strategies until one yields content. When all of them fail
// the error wraps ErrNoContent.
func (c *Chain) Extract(ctx context.Context, rawURL string) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	for _, e := range c.Extractors {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoContent, err)
		}
		start := time.Now()
		res, err := e.Extract(ctx, rawURL)
		if err != nil {
			logger.Debug().Err(err).Str("method", string(e.Method())).Str("url", rawURL).Dur("took", time.Since(start)).Msg("extraction strategy failed")
			continue
		}
		if res == nil {
			logger.Debug().Str("method", string(e.Method())).Str("url", rawURL).Msg("extraction strategy returned nothing")
			continue
		}
		out := *res
		out.Content = Normalize(out.Content)
		if out.Content == "" {
			logger.Debug().Str("method", string(e.Method())).Str("url", rawURL).Msg("extraction strategy returned empty content")
			continue
		}
		if out.Method == "" {
			out.Method = e.Method()
		}
		logger.Info().Str("method", string(out.Method)).Int("chars", len(out.Content)).Dur("took", time.Since(start)).Msg("content extracted")
		return &out, nil
	}
	return nil, fmt.Errorf("%w: %d strategies exhausted for %s", ErrNoContent, len(c.Extractors), rawURL)
}
