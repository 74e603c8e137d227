package voice

import (
	"fmt"
	"sync"
	"time"
)

// Metrics tracks latency at each stage of a conversation turn.
// All durations are measured from the moment the user stops talking.
type Metrics struct {
	SpeechEndTime    time.Time // When VAD detected end of speech
	TranscriptTime   time.Time // When ASR completed transcription
	FirstTokenTime   time.Time // When the LLM produced its first token
	FirstAudioTime   time.Time // When TTS produced its first audio chunk
	ResponseDoneTime time.Time // When the response fully delivered

	ASRLatency    time.Duration // Time to complete transcription
	LLMFirstToken time.Duration // Time to first LLM token
	TTSFirstAudio time.Duration // Time to first audio chunk
	TotalLatency  time.Duration // Total end-to-end latency

	AudioChunksIn  int // Audio chunks received this turn
	AudioChunksOut int // Audio chunks sent this turn
}

// FormatLatency renders the per-stage breakdown for logs.
func (m Metrics) FormatLatency() string {
	return fmt.Sprintf("asr=%dms first_token=%dms first_audio=%dms total=%dms",
		m.ASRLatency.Milliseconds(),
		m.LLMFirstToken.Milliseconds(),
		m.TTSFirstAudio.Milliseconds(),
		m.TotalLatency.Milliseconds())
}

// MetricsCollector collects latency metrics during a conversation turn.
// It is goroutine-safe and can be used from multiple callbacks.
type MetricsCollector struct {
	mu      sync.Mutex
	current Metrics
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

// MarkSpeechEnd records when the user stopped speaking and resets the turn.
// This is the reference point for all latency measurements.
func (m *MetricsCollector) MarkSpeechEnd() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Metrics{SpeechEndTime: time.Now()}
}

// MarkTranscript records when transcription completed.
func (m *MetricsCollector) MarkTranscript() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.TranscriptTime = time.Now()
	if !m.current.SpeechEndTime.IsZero() {
		m.current.ASRLatency = m.current.TranscriptTime.Sub(m.current.SpeechEndTime)
	}
}

// MarkFirstToken records when the LLM generated its first token.
func (m *MetricsCollector) MarkFirstToken() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.current.FirstTokenTime.IsZero() {
		return
	}
	m.current.FirstTokenTime = time.Now()
	if !m.current.SpeechEndTime.IsZero() {
		m.current.LLMFirstToken = m.current.FirstTokenTime.Sub(m.current.SpeechEndTime)
	}
}

// MarkFirstAudio records when the first synthesized audio chunk arrived.
func (m *MetricsCollector) MarkFirstAudio() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.current.FirstAudioTime.IsZero() {
		return
	}
	m.current.FirstAudioTime = time.Now()
	if !m.current.SpeechEndTime.IsZero() {
		m.current.TTSFirstAudio = m.current.FirstAudioTime.Sub(m.current.SpeechEndTime)
	}
}

// MarkResponseDone records when the response finished.
func (m *MetricsCollector) MarkResponseDone() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.ResponseDoneTime = time.Now()
	if !m.current.SpeechEndTime.IsZero() {
		m.current.TotalLatency = m.current.ResponseDoneTime.Sub(m.current.SpeechEndTime)
	}
}

// IncrementAudioIn counts one received audio chunk.
func (m *MetricsCollector) IncrementAudioIn() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.AudioChunksIn++
}

// IncrementAudioOut counts one sent audio chunk.
func (m *MetricsCollector) IncrementAudioOut() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.AudioChunksOut++
}

// Current returns a snapshot of the current turn's metrics.
func (m *MetricsCollector) Current() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}
