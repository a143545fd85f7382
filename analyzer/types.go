package analyzer

// MissingTopic is a question sentence the answer does not cover.
type MissingTopic struct {
	Topic           string  `json:"topic"`
	MaxSimilarity   float64 `json:"max_similarity"`
	Confidence      float64 `json:"confidence"`
	SuggestionEN    string  `json:"suggestion_en"`
	SuggestionLocal string  `json:"suggestion_local"`
}

// AnalysisResult is the record returned for one (question, answer) pair.
// Field names are the wire contract shared with existing clients.
type AnalysisResult struct {
	DetectedUserLang string         `json:"detected_user_lang"`
	OutputLanguage   string         `json:"output_language"`
	Summary          string         `json:"summary"`
	QualityScore     float64        `json:"quality_score"`
	MissingTopics    []MissingTopic `json:"missing_topics"`
	FollowUpPrompts  []string       `json:"follow_up_prompts"`
	ImprovedAnswer   string         `json:"improved_answer"`
}

// Provider selects the embedding backend.
type Provider string

const (
	// ProviderOrt runs a local ONNX model.
	ProviderOrt Provider = "ort"
	// ProviderVoyage calls the Voyage AI embeddings API.
	ProviderVoyage Provider = "voyage"
	// ProviderOpenAI calls the OpenAI embeddings API.
	ProviderOpenAI Provider = "openai"
)

// Thresholds tune the gap detector and scorer.
type Thresholds struct {
	Similarity     float64 `json:"similarity" yaml:"similarity"`
	MinSentenceLen int     `json:"minSentenceLen" yaml:"minSentenceLen"`
	MinAnswerWords int     `json:"minAnswerWords" yaml:"minAnswerWords"`
}

// EmbedderConfig wraps the configuration for the embedding provider and cache.
type EmbedderConfig struct {
	Provider      Provider `json:"provider" yaml:"provider"`
	OrtDLL        string   `json:"ortDll" yaml:"ortDll"`
	ModelPath     string   `json:"modelPath" yaml:"modelPath"`
	TokenizerPath string   `json:"tokenizerPath" yaml:"tokenizerPath"`
	MaxSeqLen     int      `json:"maxSeqLen" yaml:"maxSeqLen"`
	CacheDir      string   `json:"cacheDir" yaml:"cacheDir"`
	ModelID       string   `json:"modelId" yaml:"modelId"`
	RemoteModel   string   `json:"remoteModel" yaml:"remoteModel"`
	Dimensions    int      `json:"dimensions" yaml:"dimensions"`
	BaseURL       string   `json:"baseUrl" yaml:"baseUrl"`
	APIKey        string   `json:"-" yaml:"-"`
}

// RedisConfig enables the shared vector cache when Addr is set.
type RedisConfig struct {
	Addr       string `json:"addr" yaml:"addr"`
	Password   string `json:"-" yaml:"-"`
	DB         int    `json:"db" yaml:"db"`
	TTLSeconds int    `json:"ttlSeconds" yaml:"ttlSeconds"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr           string `json:"addr" yaml:"addr"`
	TimeoutSeconds int    `json:"timeoutSeconds" yaml:"timeoutSeconds"`
}

// Config aggregates runtime settings persisted to config.json or config.yaml.
type Config struct {
	Thresholds Thresholds     `json:"thresholds" yaml:"thresholds"`
	Embedder   EmbedderConfig `json:"embedder" yaml:"embedder"`
	Redis      RedisConfig    `json:"redis" yaml:"redis"`
	Server     ServerConfig   `json:"server" yaml:"server"`
}

// Clone returns a copy callers can mutate. Config holds no reference types.
func (c Config) Clone() Config {
	return c
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Thresholds.Similarity == 0 {
		c.Thresholds.Similarity = 0.55
	}
	if c.Thresholds.MinSentenceLen <= 0 {
		c.Thresholds.MinSentenceLen = 3
	}
	if c.Thresholds.MinAnswerWords <= 0 {
		c.Thresholds.MinAnswerWords = 15
	}
	if c.Embedder.Provider == "" {
		c.Embedder.Provider = ProviderOrt
	}
	if c.Embedder.MaxSeqLen == 0 {
		c.Embedder.MaxSeqLen = 128
	}
	if c.Redis.TTLSeconds == 0 {
		c.Redis.TTLSeconds = 7 * 24 * 60 * 60
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Server.TimeoutSeconds == 0 {
		c.Server.TimeoutSeconds = 120
	}
}
