package insight

import (
	"context"
	"strings"
	"time"

	"github.com/mohiniBalmiki/taxwise/internal/cache"
	"github.com/mohiniBalmiki/taxwise/internal/calculation"
	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

// cachedSet is a model result tagged with the calculation revision it
// was generated for.
type cachedSet struct {
	revision string
	set      InsightSet
}

// Service produces insight sets, preferring the model and falling back to
// rule-based cards when the model is not configured or misbehaves.
type Service struct {
	client ChatClient
	cache  *cache.TTLCache[string, cachedSet]
	logger calculation.Logger
	now    func() time.Time
}

// NewService wires a Service. client may be nil.
func NewService(client ChatClient, ttl time.Duration, logger calculation.Logger) *Service {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Service{
		client: client,
		cache:  cache.New[string, cachedSet](ttl),
		logger: logger,
		now:    time.Now,
	}
}

// ForCalculation returns insights for a calculation. Model results are
// cached per user and financial year; an entry generated for an older
// revision of the calculation is replaced.
func (s *Service) ForCalculation(ctx context.Context, calc *domain.Calculation) InsightSet {
	key, rev := cacheKey(calc), revision(calc)
	if cached, ok := s.cache.Get(key); ok && cached.revision == rev {
		s.logger.Debugf("insight cache hit for %s", calc.ID)
		return cached.set
	}
	set := s.Generate(ctx, &calc.Result)
	set.FinancialYear = calc.FinancialYear
	if set.Source == SourceLLM {
		s.cache.Set(key, cachedSet{revision: rev, set: set})
	} else {
		s.cache.Delete(key)
	}
	return set
}

// Generate asks the model for insights about result. Any client or parse
// failure degrades to FallbackInsights.
func (s *Service) Generate(ctx context.Context, result *domain.CalculationResult) InsightSet {
	set := InsightSet{GeneratedAt: s.now().UTC()}

	if s.client == nil {
		set.Insights, set.Source = FallbackInsights(result), SourceFallback
		return set
	}

	text, err := s.client.Complete(ctx, BuildPrompt(result))
	if err != nil {
		s.logger.Warnf("insight provider failed, using fallback: %v", err)
		set.Insights, set.Source = FallbackInsights(result), SourceFallback
		return set
	}

	insights, err := ParseInsights(text)
	if err != nil {
		s.logger.Warnf("insight reply rejected, using fallback: %v", err)
		set.Insights, set.Source = FallbackInsights(result), SourceFallback
		return set
	}

	set.Insights, set.Source = insights, SourceLLM
	return set
}

// CacheStats exposes cache counters for the readiness endpoint.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// StartJanitor purges expired entries every interval until ctx is done.
// A non-positive interval starts nothing.
func (s *Service) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.cache.Purge(); n > 0 {
					s.logger.Debugf("purged %d expired insight sets", n)
				}
			}
		}
	}()
}

func cacheKey(calc *domain.Calculation) string {
	return calc.UserID + "|" + calc.FinancialYear
}

func revision(calc *domain.Calculation) string {
	return strings.Join([]string{
		calc.ID.String(),
		calc.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}, "|")
}
