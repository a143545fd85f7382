// Package emb runs a sentence-embedding model exported to ONNX.
//
// The encoder tokenizes with a HuggingFace tokenizer.json, runs the
// transformer once per text and mean-pools the last hidden state over the
// attention mask. Vectors are L2-normalized so cosine similarity reduces to a
// dot product, although callers should not rely on that.
package emb

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

const defaultMaxSeqLen = 128

const (
	inputIDs      = "input_ids"
	attentionMask = "attention_mask"
	tokenTypeIDs  = "token_type_ids"
	hiddenState   = "last_hidden_state"
)

// Config describes where the runtime, model and tokenizer live.
type Config struct {
	OrtDLL        string
	ModelPath     string
	TokenizerPath string
	MaxSeqLen     int
}

// Encoder owns one ORT session. Encode is serialized; the tokenizer is not
// documented as safe for concurrent use.
type Encoder struct {
	mu        sync.Mutex
	tk        *tokenizer.Tokenizer
	session   *ort.DynamicAdvancedSession
	inputs    []string
	output    string
	hidden    int
	maxSeqLen int
}

var (
	envOnce sync.Once
	envErr  error
)

// initEnvironment loads the shared library once per process.
func initEnvironment(dll string) error {
	envOnce.Do(func() {
		if dll != "" {
			ort.SetSharedLibraryPath(dll)
		}
		envErr = ort.InitializeEnvironment()
	})
	return envErr
}

// Init loads the tokenizer and creates the inference session.
func (e *Encoder) Init(cfg Config) error {
	if cfg.ModelPath == "" {
		return errors.New("model path is required")
	}
	if cfg.TokenizerPath == "" {
		return errors.New("tokenizer path is required")
	}
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = defaultMaxSeqLen
	}
	if err := initEnvironment(cfg.OrtDLL); err != nil {
		return fmt.Errorf("init onnxruntime: %w", err)
	}
	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return fmt.Errorf("load tokenizer: %w", err)
	}
	inInfo, outInfo, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		return fmt.Errorf("inspect model: %w", err)
	}
	inputs := make([]string, 0, 3)
	for _, info := range inInfo {
		switch info.Name {
		case inputIDs, attentionMask, tokenTypeIDs:
			inputs = append(inputs, info.Name)
		}
	}
	if len(inputs) == 0 {
		return fmt.Errorf("model %s has no recognised text inputs", cfg.ModelPath)
	}
	output, hidden, err := pickOutput(outInfo)
	if err != nil {
		return err
	}
	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, inputs, []string{output}, nil)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	e.tk = tk
	e.session = session
	e.inputs = inputs
	e.output = output
	e.hidden = hidden
	e.maxSeqLen = cfg.MaxSeqLen
	return nil
}

func pickOutput(outInfo []ort.InputOutputInfo) (string, int, error) {
	if len(outInfo) == 0 {
		return "", 0, errors.New("model has no outputs")
	}
	chosen := outInfo[0]
	for _, info := range outInfo {
		if info.Name == hiddenState {
			chosen = info
			break
		}
	}
	dims := chosen.Dimensions
	if len(dims) != 3 || dims[2] <= 0 {
		return "", 0, fmt.Errorf("output %s has unsupported shape %v", chosen.Name, dims)
	}
	return chosen.Name, int(dims[2]), nil
}

// Dimensions reports the size of produced vectors.
func (e *Encoder) Dimensions() int {
	return e.hidden
}

// Encode embeds a single text.
func (e *Encoder) Encode(text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil, errors.New("encoder is not initialized")
	}
	enc, err := e.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	// Keep the closing [SEP] / </s> when cutting long inputs.
	keepLast := endsWithSpecial(enc.SpecialTokenMask, len(enc.Ids))
	ids := truncate(enc.Ids, e.maxSeqLen, keepLast)
	if len(ids) == 0 {
		return nil, errors.New("tokenizer produced no tokens")
	}
	seq := len(ids)
	mask := truncate(enc.AttentionMask, e.maxSeqLen, keepLast)
	if len(mask) != seq {
		mask = ones(seq)
	}
	types := truncate(enc.TypeIds, e.maxSeqLen, keepLast)
	if len(types) != seq {
		types = make([]int, seq)
	}

	feeds := map[string][]int64{
		inputIDs:      toInt64(ids),
		attentionMask: toInt64(mask),
		tokenTypeIDs:  toInt64(types),
	}
	shape := ort.NewShape(1, int64(seq))
	values := make([]ort.Value, 0, len(e.inputs))
	defer func() {
		for _, v := range values {
			v.Destroy()
		}
	}()
	for _, name := range e.inputs {
		t, err := ort.NewTensor(shape, feeds[name])
		if err != nil {
			return nil, fmt.Errorf("create %s tensor: %w", name, err)
		}
		values = append(values, t)
	}
	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(seq), int64(e.hidden)))
	if err != nil {
		return nil, fmt.Errorf("create output tensor: %w", err)
	}
	defer out.Destroy()
	if err := e.session.Run(values, []ort.Value{out}); err != nil {
		return nil, fmt.Errorf("run session: %w", err)
	}
	vec := MeanPool(out.GetData(), feeds[attentionMask], seq, e.hidden)
	Normalize(vec)
	return vec, nil
}

// Close releases the session. The shared ORT environment stays alive for
// other encoders in the process.
func (e *Encoder) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		_ = e.session.Destroy()
		e.session = nil
	}
}

// truncate cuts v to n entries. With keepLast the final entry replaces the
// n-th so a trailing special token survives.
func truncate(v []int, n int, keepLast bool) []int {
	if len(v) <= n {
		return v
	}
	if !keepLast || n < 2 {
		return v[:n]
	}
	out := make([]int, n)
	copy(out, v[:n-1])
	out[n-1] = v[len(v)-1]
	return out
}

func endsWithSpecial(specialMask []int, n int) bool {
	return n > 0 && len(specialMask) == n && specialMask[n-1] == 1
}

func ones(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func toInt64(v []int) []int64 {
	out := make([]int64, len(v))
	for i, x := range v {
		out[i] = int64(x)
	}
	return out
}
