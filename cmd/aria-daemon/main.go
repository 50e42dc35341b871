// aria-daemon is the always-on voice assistant front end: it listens for a
// wake phrase, records one utterance, transcribes it, routes it to a tool
// or the chat fallback, and speaks the answer.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"aria/internal/audio"
	"aria/internal/chat"
	"aria/internal/config"
	"aria/internal/events"
	"aria/internal/ipc"
	"aria/internal/proxy"
	"aria/internal/router"
	"aria/internal/tools"
	"aria/internal/tts"
	"aria/internal/wake"
	"aria/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	configFile := cli.StringP("config", "c", "config/aria.yaml", "Config file path")
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)

	cfg, err := config.Load(*configFile)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn("Config file not found, using defaults", "path", *configFile)
		cfg = config.Default()
		err = nil
	}
	if err != nil {
		log.Error("Failed to load config", "err", err)
		os.Exit(1)
	}

	client, err := newLLMClient(cfg)
	if err != nil {
		log.Error("Failed to build LLM client", "err", err)
		os.Exit(1)
	}

	capture := audio.NewCapture(audio.CaptureConfig{
		SampleRate:    cfg.Audio.SampleRate,
		Channels:      cfg.Audio.Channels,
		ChunkDuration: cfg.Audio.ChunkDuration(),
		CutoffHz:      cfg.Audio.HighpassHz,
		QueueSize:     cfg.Audio.QueueSize,
	})
	if err := capture.Start(); err != nil {
		log.Error("Failed to open audio device", "err", err)
		os.Exit(1)
	}
	defer capture.Close()

	transcriber, err := stt.NewTranscriber(cfg.STT.ModelPath)
	if err != nil {
		log.Error("Failed to load whisper model", "path", cfg.STT.ModelPath, "err", err)
		os.Exit(1)
	}
	defer transcriber.Close()

	log.Info("Boot up - successful")

	a := newAssistant(cfg, capture, transcriber, client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ipcServer, err := ipc.StartServer(cfg.Control.SocketPath, func(cmd ipc.Command) {
		switch cmd.Name {
		case "trigger":
			a.ForceTrigger()
		case "flush":
			capture.Flush()
		case "shutdown":
			cancel()
		default:
			log.Warn("Unknown control command", "cmd", cmd.Name)
		}
	})
	if err != nil {
		log.Error("Failed to start control socket", "err", err)
		os.Exit(1)
	}
	defer ipcServer.Close()

	if cfg.Events.ListenAddr != "" {
		go func() {
			if err := a.hub.Listen(cfg.Events.ListenAddr); err != nil && err != http.ErrServerClosed {
				log.Error("Events hub stopped", "err", err)
			}
		}()
		log.Info("Events hub listening", "addr", cfg.Events.ListenAddr)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("Shutting down")
		cancel()
	}()

	a.Run(ctx)
}

// newLLMClient builds the OpenAI-compatible client both classification and
// chat share, optionally routed through a SOCKS proxy. One bounded retry
// covers transient network failures.
func newLLMClient(cfg *config.Config) (openai.Client, error) {
	apiKey := os.Getenv(cfg.LLM.APIKeyEnv)
	if apiKey == "" {
		// Local OpenAI-compatible endpoints ignore the key entirely.
		apiKey = "local"
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(1),
	}
	if cfg.LLM.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.LLM.BaseURL))
	}
	if cfg.LLM.ProxyAddr != "" {
		httpClient, err := proxy.NewSocksClient(cfg.LLM.ProxyAddr)
		if err != nil {
			return openai.Client{}, err
		}
		opts = append(opts, option.WithHTTPClient(httpClient))
		log.Debug("LLM traffic routed through proxy", "proxy", cfg.LLM.ProxyAddr)
	}

	return openai.NewClient(opts...), nil
}

// newAssistant wires the pipeline components together.
func newAssistant(cfg *config.Config, capture *audio.Capture, transcriber *stt.Transcriber, client openai.Client) *assistant {
	listener := wake.New(capture, transcriber, wake.Config{
		SampleRate:     cfg.Audio.SampleRate,
		ChunkDuration:  cfg.Audio.ChunkDuration(),
		ListenDuration: secs(cfg.Wake.ListenDurationSec),
		TriggerPhrases: cfg.Wake.TriggerPhrases,
		MinRMS:         cfg.Wake.MinRMS,
		PeakRMS:        cfg.Wake.PeakRMS,
		Language:       cfg.STT.Language,
		Threads:        cfg.STT.Threads,
	})

	recorder := audio.NewRecorder(capture, audio.RecorderConfig{
		SampleRate:       cfg.Audio.SampleRate,
		SilenceThreshold: cfg.Audio.SilenceThreshold,
		MinRecording:     secs(cfg.Audio.MinRecordingSeconds),
		SilenceStop:      secs(cfg.Audio.SilenceStopSeconds),
		MaxRecording:     secs(cfg.Audio.MaxRecordingSeconds),
		NoSpeechGrace:    secs(cfg.Audio.NoSpeechGraceSeconds),
	})

	speech := tts.NewEngine(cfg.TTS.Command, cfg.TTS.Voice, cfg.TTS.Rate)

	rt := router.New(router.NewLLMClassifier(client, router.LLMClassifierConfig{
		Model:       cfg.LLM.Model,
		Temperature: cfg.Router.Temperature,
		MaxTokens:   cfg.Router.MaxTokens,
		Timeout:     time.Duration(cfg.Router.TimeoutSeconds) * time.Second,
	}))
	rt.Register("system_info", tools.NewSystemInfo())
	rt.Register("reminder", tools.NewReminders(func(text string) {
		if err := speech.Speak(context.Background(), text); err != nil {
			log.Error("Failed to announce timer", "err", err)
		}
	}))

	talk := chat.New(client, chat.Config{
		Model:         cfg.LLM.Model,
		FallbackModel: cfg.LLM.FallbackModel,
		SystemPrompt:  cfg.LLM.SystemPrompt,
		Temperature:   cfg.LLM.Temperature,
		MaxTokens:     cfg.LLM.MaxTokens,
		Timeout:       time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	})

	return &assistant{
		cfg:      cfg,
		capture:  capture,
		wake:     listener,
		recorder: recorder,
		stt:      transcriber,
		router:   rt,
		chat:     talk,
		tts:      speech,
		hub:      events.NewHub(),
		force:    make(chan struct{}, 1),
	}
}

func secs(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
