package engines

import (
	"context"
	"iter"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/kokoro-tts/internal/cache"
	"github.com/dgnsrekt/kokoro-tts/tts"
	"github.com/dgnsrekt/kokoro-tts/tts/sentence"
)

// CachedEngine splits text into chunks itself and only asks the wrapped
// pipeline for chunks the cache doesn't already hold. Each chunk becomes
// exactly one segment.
type CachedEngine struct {
	inner    tts.Pipeline
	store    cache.Cache
	splitter *sentence.Splitter
}

// NewCachedEngine wraps inner with store. maxChars should match what the
// wrapped pipeline uses so a chunk maps to a single backend request.
func NewCachedEngine(inner tts.Pipeline, store cache.Cache, maxChars int) *CachedEngine {
	return &CachedEngine{
		inner:    inner,
		store:    store,
		splitter: sentence.New(maxChars),
	}
}

// Name implements tts.Pipeline.
func (c *CachedEngine) Name() string { return c.inner.Name() }

// SampleRate implements tts.Pipeline.
func (c *CachedEngine) SampleRate() int { return c.inner.SampleRate() }

// IsAvailable forwards to the wrapped pipeline.
func (c *CachedEngine) IsAvailable(ctx context.Context) bool {
	return probe(ctx, c.inner)
}

// Generate implements tts.Pipeline.
func (c *CachedEngine) Generate(ctx context.Context, req tts.Request) iter.Seq2[tts.Segment, error] {
	return func(yield func(tts.Segment, error) bool) {
		index := 0
		for _, chunk := range c.splitter.Split(req.Text) {
			if err := ctx.Err(); err != nil {
				yield(tts.Segment{}, err)
				return
			}

			key := cache.Key{
				Engine: c.inner.Name(),
				Voice:  req.Voice,
				Lang:   req.Lang,
				Speed:  req.Speed,
				Text:   chunk,
			}.String()

			samples, ok := c.lookup(key)
			if !ok {
				var err error
				samples, err = c.synthesize(ctx, req, chunk)
				if err != nil {
					yield(tts.Segment{}, err)
					return
				}
				if len(samples) == 0 {
					continue
				}
				if err := c.store.Put(key, tts.Float32ToPCM16(samples)); err != nil {
					log.Debug("Could not cache chunk", "err", err)
				}
			}

			if !yield(tts.Segment{Index: index, Graphemes: chunk, Samples: samples}, nil) {
				return
			}
			index++
		}
	}
}

func (c *CachedEngine) lookup(key string) ([]float32, bool) {
	data, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	samples, err := tts.PCM16ToFloat32(data)
	if err != nil || len(samples) == 0 {
		return nil, false
	}
	log.Debug("Cache hit", "engine", c.inner.Name(), "samples", len(samples))
	return samples, true
}

func (c *CachedEngine) synthesize(ctx context.Context, req tts.Request, chunk string) ([]float32, error) {
	sub := req
	sub.Text = chunk

	var samples []float32
	for seg, err := range c.inner.Generate(ctx, sub) {
		if err != nil {
			return nil, err
		}
		samples = append(samples, seg.Samples...)
	}
	return samples, nil
}
