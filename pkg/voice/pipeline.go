package voice

import (
	"context"
	"errors"
	"fmt"
)

// Common errors returned by pipelines.
var (
	ErrNotConnected   = errors.New("voice: pipeline not connected")
	ErrAlreadyStarted = errors.New("voice: pipeline already started")
	ErrMissingAPIKey  = errors.New("voice: missing API key")
)

// Pipeline is the speech-to-speech dialogue loop the assistant talks
// through. It consumes microphone PCM, emits speaker PCM, and invokes
// registered tools when the model decides to act on the cart.
type Pipeline interface {
	// Lifecycle

	// Start establishes the connection and begins processing.
	// Register tools and callbacks before calling this.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the pipeline.
	Stop() error

	// IsConnected returns true if the pipeline is connected and ready.
	IsConnected() bool

	// Audio I/O

	// SendAudio sends 16kHz mono PCM16 audio to the pipeline.
	SendAudio(pcm16 []byte) error

	// OnAudioOut sets the callback for synthesized audio output.
	OnAudioOut(fn func(pcm16 []byte))

	// Events

	// OnSpeechStart is called when the user starts speaking.
	OnSpeechStart(fn func())

	// OnSpeechEnd is called when the user stops speaking.
	OnSpeechEnd(fn func())

	// OnTranscript is called with the user's transcribed speech.
	OnTranscript(fn func(text string, isFinal bool))

	// OnResponse is called with the assistant's text response.
	OnResponse(fn func(text string, isFinal bool))

	// OnError is called when an error occurs.
	OnError(fn func(err error))

	// Tools

	// RegisterTool adds a tool the model can invoke. Call before Start.
	RegisterTool(tool Tool)

	// OnToolCall sets the callback for tool invocations. When unset, the
	// pipeline runs the registered handler itself and submits the result.
	OnToolCall(fn func(call ToolCall))

	// SubmitToolResult returns a tool call result to the model.
	SubmitToolResult(callID string, result string) error

	// Control

	// Interrupt stops the current response (barge-in).
	Interrupt() error

	// Metrics & Config

	// Metrics returns current latency metrics.
	Metrics() Metrics

	// Config returns the current configuration.
	Config() Config
}

// PipelineFactory creates a Pipeline for one provider.
type PipelineFactory func(cfg Config) (Pipeline, error)

// factories holds the registered provider implementations,
// populated by the bundled package in init().
var factories = make(map[Provider]PipelineFactory)

// Register installs a pipeline factory for a provider.
func Register(p Provider, f PipelineFactory) {
	factories[p] = f
}

// New creates a Pipeline for the configured provider.
func New(cfg Config) (Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f, ok := factories[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("voice: no pipeline registered for provider %q", cfg.Provider)
	}
	return f(cfg)
}

// Callbacks groups pipeline callbacks so a caller can wire them in one shot.
type Callbacks struct {
	OnAudioOut    func(pcm16 []byte)
	OnSpeechStart func()
	OnSpeechEnd   func()
	OnTranscript  func(text string, isFinal bool)
	OnResponse    func(text string, isFinal bool)
	OnToolCall    func(call ToolCall)
	OnError       func(err error)
}

// Apply sets all non-nil callbacks on a pipeline.
func (c *Callbacks) Apply(p Pipeline) {
	if c.OnAudioOut != nil {
		p.OnAudioOut(c.OnAudioOut)
	}
	if c.OnSpeechStart != nil {
		p.OnSpeechStart(c.OnSpeechStart)
	}
	if c.OnSpeechEnd != nil {
		p.OnSpeechEnd(c.OnSpeechEnd)
	}
	if c.OnTranscript != nil {
		p.OnTranscript(c.OnTranscript)
	}
	if c.OnResponse != nil {
		p.OnResponse(c.OnResponse)
	}
	if c.OnToolCall != nil {
		p.OnToolCall(c.OnToolCall)
	}
	if c.OnError != nil {
		p.OnError(c.OnError)
	}
}
