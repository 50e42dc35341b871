// Package notify plays the short acknowledgment tone heard right after a
// wake trigger, before the assistant starts recording.
package notify

import (
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/generators"
	"github.com/faiface/beep/speaker"
)

const (
	toneSampleRate = beep.SampleRate(44100)
	toneFreq       = 880
	toneDuration   = 150 * time.Millisecond
)

// initSpeaker opens the output device; swappable in tests.
var initSpeaker = func() error {
	return speaker.Init(toneSampleRate, toneSampleRate.N(time.Second/10))
}

// The init outcome is cached: a failed open must fail every subsequent
// call too, because playing into an uninitialized speaker would block
// forever waiting on a playback callback that never runs.
var (
	speakerOnce sync.Once
	speakerErr  error
)

// Tone plays a short sine beep and blocks until it finishes.
func Tone() error {
	speakerOnce.Do(func() {
		speakerErr = initSpeaker()
	})
	if speakerErr != nil {
		return fmt.Errorf("speaker init: %w", speakerErr)
	}

	tone, err := generators.SinTone(toneSampleRate, toneFreq)
	if err != nil {
		return fmt.Errorf("generate tone: %w", err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(
		beep.Take(toneSampleRate.N(toneDuration), tone),
		beep.Callback(func() { close(done) }),
	))
	<-done

	return nil
}
