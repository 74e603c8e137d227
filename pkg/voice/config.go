package voice

import (
	"errors"
	"time"
)

// Provider identifies the voice pipeline provider.
type Provider string

const (
	// ProviderGemini uses Google's Gemini Live API: VAD, ASR, LLM, and TTS
	// in one bidirectional stream.
	ProviderGemini Provider = "gemini"
)

// Config holds all tunable parameters for voice pipelines,
// organized by stage.
type Config struct {
	// Provider selection
	Provider Provider

	// API keys (provider-specific)
	GoogleAPIKey string

	// Audio settings
	InputSampleRate  int           // Input audio sample rate (default: 16000)
	OutputSampleRate int           // Output audio sample rate (default: 24000)
	BufferDuration   time.Duration // Audio buffer before sending (default: 100ms)

	// VAD (Voice Activity Detection) settings
	VADThreshold       float64       // Activation threshold 0.0-1.0 (default: 0.5)
	VADSilenceDuration time.Duration // Silence to detect end of speech (default: 500ms)

	// ASR settings
	ASRLanguage string // Language hint (default: "en")

	// LLM settings
	LLMModel       string  // Model name (default: provider-specific)
	LLMTemperature float64 // Response randomness 0.0-2.0 (default: 0.8)
	SystemPrompt   string  // System instructions for the assistant

	// TTS settings
	TTSVoice string // Voice name (Gemini voices: Puck, Charon, Kore, Fenrir, Aoede)

	// Debug settings
	Debug          bool // Enable debug logging
	ProfileLatency bool // Log per-turn latency breakdown
}

// DefaultConfig returns a Config with sensible defaults for Gemini Live.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderGemini,

		InputSampleRate:  16000,
		OutputSampleRate: 24000,
		BufferDuration:   100 * time.Millisecond,

		VADThreshold:       0.5,
		VADSilenceDuration: 500 * time.Millisecond,

		ASRLanguage: "en",

		LLMModel:       "models/gemini-2.0-flash-exp",
		LLMTemperature: 0.8,

		TTSVoice: "Puck",
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini:
		if c.GoogleAPIKey == "" {
			return errors.New("voice: Google API key required")
		}
	default:
		return errors.New("voice: unknown provider: " + string(c.Provider))
	}

	if c.InputSampleRate <= 0 || c.OutputSampleRate <= 0 {
		return errors.New("voice: sample rates must be positive")
	}
	if c.VADThreshold < 0 || c.VADThreshold > 1 {
		return errors.New("voice: VAD threshold must be between 0 and 1")
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		return errors.New("voice: LLM temperature must be between 0 and 2")
	}
	return nil
}

// WithSystemPrompt returns a copy with the system prompt set.
func (c Config) WithSystemPrompt(prompt string) Config {
	c.SystemPrompt = prompt
	return c
}

// WithDebug returns a copy with debug enabled.
func (c Config) WithDebug(debug bool) Config {
	c.Debug = debug
	return c
}
