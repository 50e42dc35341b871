// Package config provides the configuration schema and loader for the
// aria daemon. All scalar settings the pipeline needs at startup live
// here; components receive plain values, never the config itself.
package config

import "time"

// Config is the root configuration, loaded from a YAML file with [Load].
type Config struct {
	Audio   AudioConfig   `yaml:"audio"`
	Wake    WakeConfig    `yaml:"wake_word"`
	STT     STTConfig     `yaml:"stt"`
	LLM     LLMConfig     `yaml:"llm"`
	Router  RouterConfig  `yaml:"router"`
	TTS     TTSConfig     `yaml:"tts"`
	Control ControlConfig `yaml:"control"`
	Events  EventsConfig  `yaml:"events"`
	Debug   DebugConfig   `yaml:"debug"`
}

// AudioConfig drives the capture pipeline and the utterance recorder.
type AudioConfig struct {
	SampleRate      int     `yaml:"sample_rate"`
	Channels        int     `yaml:"channels"`
	ChunkDurationMS int     `yaml:"chunk_duration_ms"`
	HighpassHz      float64 `yaml:"highpass_hz"`
	QueueSize       int     `yaml:"queue_size"`

	// SilenceThreshold is the RMS level separating speech from silence.
	SilenceThreshold float64 `yaml:"silence_threshold"`

	MinRecordingSeconds  float64 `yaml:"min_recording_seconds"`
	SilenceStopSeconds   float64 `yaml:"silence_duration_to_stop"`
	MaxRecordingSeconds  float64 `yaml:"max_recording_seconds"`
	NoSpeechGraceSeconds float64 `yaml:"no_speech_grace_seconds"`
}

// ChunkDuration returns the chunk interval as a duration.
func (a AudioConfig) ChunkDuration() time.Duration {
	return time.Duration(a.ChunkDurationMS) * time.Millisecond
}

// WakeConfig drives wake-phrase detection.
type WakeConfig struct {
	TriggerPhrases    []string `yaml:"trigger_phrases"`
	ListenDurationSec float64  `yaml:"listen_duration_sec"`
	MinRMS            float64  `yaml:"min_rms"`
	PeakRMS           float64  `yaml:"peak_rms"`
}

// STTConfig selects the whisper model.
type STTConfig struct {
	ModelPath string `yaml:"model_path"`
	Language  string `yaml:"language"`
	Threads   int    `yaml:"threads"`
}

// LLMConfig points at the OpenAI-compatible text-generation endpoint used
// for both chat and stage-2 classification.
type LLMConfig struct {
	BaseURL       string  `yaml:"base_url"`
	APIKeyEnv     string  `yaml:"api_key_env"`
	Model         string  `yaml:"model"`
	FallbackModel string  `yaml:"fallback_model"`
	Temperature   float64 `yaml:"temperature"`
	MaxTokens     int     `yaml:"max_tokens"`
	SystemPrompt  string  `yaml:"system_prompt"`

	// ProxyAddr, when set, routes LLM traffic through a SOCKS5 proxy.
	ProxyAddr string `yaml:"proxy_addr"`

	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// RouterConfig tunes the stage-2 classification call.
type RouterConfig struct {
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// TTSConfig selects the speech synthesizer invocation.
type TTSConfig struct {
	Command string `yaml:"command"`
	Voice   string `yaml:"voice"`
	Rate    int    `yaml:"rate"`
}

// ControlConfig locates the unix control socket.
type ControlConfig struct {
	SocketPath string `yaml:"socket_path"`
}

// EventsConfig enables the websocket dashboard feed when ListenAddr is set.
type EventsConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// DebugConfig holds developer aids.
type DebugConfig struct {
	// DumpWAVDir, when set, writes every captured utterance there.
	DumpWAVDir string `yaml:"dump_wav_dir"`
}

// Default returns the configuration used when a field (or the whole file)
// is absent.
func Default() *Config {
	return &Config{
		Audio: AudioConfig{
			SampleRate:           16000,
			Channels:             1,
			ChunkDurationMS:      80,
			HighpassHz:           85,
			QueueSize:            64,
			SilenceThreshold:     30,
			MinRecordingSeconds:  2.0,
			SilenceStopSeconds:   2.0,
			MaxRecordingSeconds:  30,
			NoSpeechGraceSeconds: 8,
		},
		Wake: WakeConfig{
			TriggerPhrases:    []string{"aria", "hey aria", "hi aria", "okay aria"},
			ListenDurationSec: 2.5,
			MinRMS:            15,
			PeakRMS:           80,
		},
		STT: STTConfig{
			ModelPath: "models/ggml-base.en.bin",
			Language:  "en",
		},
		LLM: LLMConfig{
			BaseURL:        "http://localhost:11434/v1",
			APIKeyEnv:      "ARIA_API_KEY",
			Model:          "phi3:mini",
			FallbackModel:  "llama3.2:3b",
			Temperature:    0.7,
			MaxTokens:      256,
			SystemPrompt:   "You are Aria, a concise voice assistant. Answer in one or two short spoken sentences.",
			TimeoutSeconds: 60,
		},
		Router: RouterConfig{
			Temperature:    0.1,
			MaxTokens:      100,
			TimeoutSeconds: 15,
		},
		TTS: TTSConfig{
			Command: "espeak-ng",
			Voice:   "en-gb",
			Rate:    170,
		},
		Control: ControlConfig{
			SocketPath: "/tmp/aria.sock",
		},
	}
}
