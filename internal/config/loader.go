package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration at path on top of [Default] and
// validates the result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over the defaults and validates it.
// Useful in tests where configs come from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg holds a coherent set of values and returns a
// joined error listing every failure found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sample_rate must be positive, got %d", cfg.Audio.SampleRate))
	}
	if cfg.Audio.Channels != 1 {
		errs = append(errs, fmt.Errorf("audio.channels must be 1 (mono capture), got %d", cfg.Audio.Channels))
	}
	if cfg.Audio.ChunkDurationMS <= 0 {
		errs = append(errs, fmt.Errorf("audio.chunk_duration_ms must be positive, got %d", cfg.Audio.ChunkDurationMS))
	}
	if cfg.Audio.HighpassHz <= 0 {
		errs = append(errs, fmt.Errorf("audio.highpass_hz must be positive, got %f", cfg.Audio.HighpassHz))
	}
	if cfg.Audio.MinRecordingSeconds < 0 || cfg.Audio.SilenceStopSeconds <= 0 {
		errs = append(errs, errors.New("audio silence/min-recording durations must be positive"))
	}
	if cfg.Audio.MaxRecordingSeconds <= cfg.Audio.MinRecordingSeconds {
		errs = append(errs, fmt.Errorf("audio.max_recording_seconds (%f) must exceed min_recording_seconds (%f)",
			cfg.Audio.MaxRecordingSeconds, cfg.Audio.MinRecordingSeconds))
	}

	if len(cfg.Wake.TriggerPhrases) == 0 {
		errs = append(errs, errors.New("wake_word.trigger_phrases must not be empty"))
	}
	if cfg.Wake.ListenDurationSec <= 0 {
		errs = append(errs, fmt.Errorf("wake_word.listen_duration_sec must be positive, got %f", cfg.Wake.ListenDurationSec))
	}

	if cfg.STT.ModelPath == "" {
		errs = append(errs, errors.New("stt.model_path must be set"))
	}

	if cfg.LLM.Model == "" {
		errs = append(errs, errors.New("llm.model must be set"))
	}

	return errors.Join(errs...)
}
