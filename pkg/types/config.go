package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "litradar/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call the completion service.
type AIConfig struct {
	// Model is the model identifier (e.g. "gemini-2.5-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the completion API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of extra attempts for failed API calls (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// VerifyMode selects how the verifier treats records with no grounding match.
type VerifyMode string

const (
	// VerifyStrict discards any record without a matching citation.
	VerifyStrict VerifyMode = "strict"

	// VerifyLenient keeps unmatched records, marked unverified and with a
	// constructed search URL in place of any model-supplied link.
	VerifyLenient VerifyMode = "lenient"
)

// VerifyConfig holds settings for the grounding verifier.
type VerifyConfig struct {
	// Mode is the unmatched-record policy (default strict).
	Mode VerifyMode `json:"mode" yaml:"mode"`

	// OverlapThreshold is the minimum fraction of record-title tokens that
	// must appear in a citation's title or snippet (default 0.4).
	OverlapThreshold float64 `json:"overlap_threshold" yaml:"overlap_threshold"`
}

// DiscoveryConfig holds settings for the swarm orchestrator.
type DiscoveryConfig struct {
	// Parallel dispatches all agents concurrently. When false, agents run
	// sequentially with InterAgentDelay between calls.
	Parallel bool `json:"parallel" yaml:"parallel"`

	// InterAgentDelay throttles sequential dispatch (default 500ms).
	InterAgentDelay time.Duration `json:"inter_agent_delay" yaml:"inter_agent_delay"`

	// FingerprintLen is the normalized-title prefix length used as the
	// deduplication key (default 24).
	FingerprintLen int `json:"fingerprint_len" yaml:"fingerprint_len"`

	// CutoffWindow rejects records older than now minus this window
	// (default 30 days).
	CutoffWindow time.Duration `json:"cutoff_window" yaml:"cutoff_window"`
}

// CacheConfig holds settings for the response cache.
type CacheConfig struct {
	// Path is the SQLite database file. Empty selects the in-memory store.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// TTLLive, TTLAI, and TTLPatent are per-variant entry lifetimes
	// (defaults 15m, 6h, 72h).
	TTLLive   time.Duration `json:"ttl_live" yaml:"ttl_live"`
	TTLAI     time.Duration `json:"ttl_ai" yaml:"ttl_ai"`
	TTLPatent time.Duration `json:"ttl_patent" yaml:"ttl_patent"`
}

// TTL returns the configured lifetime for a feed variant.
func (c CacheConfig) TTL(variant FeedVariant) time.Duration {
	switch variant {
	case FeedLive:
		if c.TTLLive > 0 {
			return c.TTLLive
		}
		return 15 * time.Minute
	case FeedPatent:
		if c.TTLPatent > 0 {
			return c.TTLPatent
		}
		return 72 * time.Hour
	default:
		if c.TTLAI > 0 {
			return c.TTLAI
		}
		return 6 * time.Hour
	}
}

// LiveFeedConfig holds settings for the journal RSS source.
type LiveFeedConfig struct {
	HTTPConfig `yaml:",inline"`

	// FeedURLs lists the RSS/Atom feeds polled for the live variant.
	FeedURLs []string `json:"feed_urls" yaml:"feed_urls"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	HTTP      HTTPConfig      `json:"http" yaml:"http"`
	AI        AIConfig        `json:"ai" yaml:"ai"`
	Verify    VerifyConfig    `json:"verify" yaml:"verify"`
	Discovery DiscoveryConfig `json:"discovery" yaml:"discovery"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
	LiveFeed  LiveFeedConfig  `json:"live_feed" yaml:"live_feed"`
}
