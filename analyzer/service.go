package analyzer

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// EmptyPromptFollowUp is the only follow-up returned when the question has
// no usable sentences.
const EmptyPromptFollowUp = "Please provide a more detailed user prompt."

// Service analyzes (question, answer) pairs against a shared embedder.
// It is safe for concurrent use; the embedder must be too.
type Service struct {
	embedder   Embedder
	detector   LanguageDetector
	translator Translator
	recorder   Recorder

	cfgMu sync.RWMutex
	cfg   Config

	logger *log.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithDetector replaces the default script based language detector.
func WithDetector(d LanguageDetector) Option {
	return func(s *Service) {
		if d != nil {
			s.detector = d
		}
	}
}

// WithTranslator replaces the pass-through translator.
func WithTranslator(t Translator) Option {
	return func(s *Service) {
		if t != nil {
			s.translator = t
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewService constructs a service with the given embedder and configuration.
func NewService(embedder Embedder, cfg Config, logger *log.Logger, opts ...Option) (*Service, error) {
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	cfg.ApplyDefaults()
	s := &Service{
		embedder:   embedder,
		detector:   ScriptDetector{},
		translator: PassthroughTranslator{},
		recorder:   nopRecorder{},
		cfg:        cfg,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases embedder resources.
func (s *Service) Close() error {
	if s.embedder != nil {
		return s.embedder.Close()
	}
	return nil
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg.Clone()
}

// UpdateConfig replaces the configuration. In-flight analyses keep the
// snapshot they started with.
func (s *Service) UpdateConfig(cfg Config) {
	cfg.ApplyDefaults()
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
}

// ModelID reports the embedder in use.
func (s *Service) ModelID() string {
	return s.embedder.ModelID()
}

// Analyze compares aiResponse against userPrompt. outputLanguage is "auto"
// (or empty) to follow the prompt's language, otherwise one of en, hi, mr
// or es; anything else becomes en. It never fails: embedding problems are
// logged and scored as an uninformative answer.
func (s *Service) Analyze(ctx context.Context, userPrompt, aiResponse, outputLanguage string) AnalysisResult {
	start := time.Now()
	cfg := s.Config()

	detected := s.detector.Detect(userPrompt).OrElse(DefaultLanguage)
	if detected == "" {
		detected = DefaultLanguage
	}
	lang := resolveOutputLanguage(outputLanguage, detected)

	questions := FilterInstructions(Segment(userPrompt, cfg.Thresholds.MinSentenceLen))
	answers := Segment(aiResponse, cfg.Thresholds.MinSentenceLen)

	if len(questions) == 0 {
		s.recorder.ObserveAnalysis(OutcomeEmptyPrompt, time.Since(start), 0, 0)
		return AnalysisResult{
			DetectedUserLang: detected,
			OutputLanguage:   lang,
			MissingTopics:    []MissingTopic{},
			FollowUpPrompts:  []string{EmptyPromptFollowUp},
		}
	}

	short := tooShort(aiResponse, cfg.Thresholds.MinAnswerWords)
	penalized := short || len(answers) == 0

	var (
		qVecs [][]float32
		index *SentenceIndex
	)
	if !penalized {
		var err error
		qVecs, index, err = s.embedPair(ctx, questions, answers)
		if err != nil {
			s.logf("embedding failed, scoring as uninformative: %v", err)
			s.recorder.EmbeddingFailed()
			penalized = true
		}
	}

	missing, followUps := detectGaps(ctx, gapInput{
		questions:  questions,
		vectors:    qVecs,
		answers:    index,
		penalized:  penalized,
		threshold:  cfg.Thresholds.Similarity,
		lang:       lang,
		translator: s.translator,
	})
	score := qualityScore(qVecs, index, penalized)

	outcome := OutcomeScored
	if penalized {
		outcome = OutcomePenalized
	}
	s.recorder.ObserveAnalysis(outcome, time.Since(start), len(missing), score)

	return AnalysisResult{
		DetectedUserLang: detected,
		OutputLanguage:   lang,
		Summary:          Summary(score, penalized, lang),
		QualityScore:     score,
		MissingTopics:    missing,
		FollowUpPrompts:  followUps,
		ImprovedAnswer:   BuildImprovedAnswerLocal(aiResponse, missing, lang),
	}
}

func (s *Service) embedPair(ctx context.Context, questions, answers []string) ([][]float32, *SentenceIndex, error) {
	qOpt, err := embedSentences(ctx, s.embedder, questions)
	if err != nil {
		return nil, nil, err
	}
	aOpt, err := embedSentences(ctx, s.embedder, answers)
	if err != nil {
		return nil, nil, err
	}
	qVecs, ok := qOpt.Get()
	if !ok {
		return nil, nil, errors.New("no question embeddings")
	}
	aVecs, ok := aOpt.Get()
	if !ok {
		return nil, nil, errors.New("no answer embeddings")
	}
	if err := checkVectors(qVecs, aVecs); err != nil {
		return nil, nil, err
	}
	return qVecs, NewSentenceIndex(answers, aVecs), nil
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
