package server

import (
	"context"
	"time"

	"github.com/simplylegal/simplylegal/internal/apperrors"
	"github.com/simplylegal/simplylegal/internal/metrics"
	"github.com/simplylegal/simplylegal/internal/provider"
	"github.com/simplylegal/simplylegal/internal/speech"
)

// measuredProvider records call count and latency around every
// completion. Name and Model pass through from the wrapped client.
type measuredProvider struct {
	provider.Client
	metrics *metrics.Metrics
}

func (p *measuredProvider) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	reply, err := p.Client.Complete(ctx, prompt)
	p.metrics.ProviderCallSeconds.WithLabelValues(p.Name()).Observe(time.Since(start).Seconds())
	p.metrics.ProviderCallsTotal.WithLabelValues(p.Name(), outcomeLabel(err)).Inc()
	return reply, err
}

// measuredSynthesizer records call count and latency around every
// synthesis run.
type measuredSynthesizer struct {
	inner   speech.Synthesizer
	metrics *metrics.Metrics
}

func (s *measuredSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	start := time.Now()
	audio, err := s.inner.Synthesize(ctx, text)
	s.metrics.SynthesisSeconds.Observe(time.Since(start).Seconds())
	s.metrics.SynthesisTotal.WithLabelValues(outcomeLabel(err)).Inc()
	return audio, err
}

// outcomeLabel keeps metric label cardinality bounded: "ok", a known
// error kind, or "error".
func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if kind, ok := apperrors.KindOf(err); ok {
		return string(kind)
	}
	return "error"
}
