package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultsAreValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestLoadFromReaderOverridesDefaults(t *testing.T) {
	in := `
audio:
  sample_rate: 16000
  channels: 1
  chunk_duration_ms: 80
  highpass_hz: 85
  silence_threshold: 30
  min_recording_seconds: 2.0
  silence_duration_to_stop: 2.0
  max_recording_seconds: 30
  no_speech_grace_seconds: 8
wake_word:
  trigger_phrases: ["computer", "hey computer"]
  listen_duration_sec: 2.5
  min_rms: 15
  peak_rms: 80
llm:
  model: "qwen2.5:3b"
`
	cfg, err := LoadFromReader(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Wake.TriggerPhrases[0] != "computer" {
		t.Errorf("trigger phrases not overridden: %v", cfg.Wake.TriggerPhrases)
	}
	if cfg.LLM.Model != "qwen2.5:3b" {
		t.Errorf("llm model not overridden: %q", cfg.LLM.Model)
	}
	// Untouched sections keep defaults.
	if cfg.TTS.Command != "espeak-ng" {
		t.Errorf("expected default tts command, got %q", cfg.TTS.Command)
	}
	if cfg.Audio.ChunkDuration() != 80*time.Millisecond {
		t.Errorf("unexpected chunk duration: %v", cfg.Audio.ChunkDuration())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Audio.SampleRate = 0
	cfg.Wake.TriggerPhrases = nil
	cfg.STT.ModelPath = ""

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	for _, want := range []string{"sample_rate", "trigger_phrases", "model_path"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestLoadFromReaderRejectsUnknownFields(t *testing.T) {
	in := `
audio:
  sample_rate: 16000
  bogus_knob: true
`
	if _, err := LoadFromReader(strings.NewReader(in)); err == nil {
		t.Fatal("expected unknown-field error")
	}
}
