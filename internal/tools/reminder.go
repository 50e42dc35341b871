package tools

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

// maxTimerDuration caps how far out a timer may be set.
const maxTimerDuration = 2 * time.Hour

// Reminders runs background timers and reminders that announce through the
// assistant's speech output. Each timer owns its own cancellation channel;
// cancellation and natural completion race safely on a channel close
// instead of a shared flag.
type Reminders struct {
	speak func(string)

	mu      sync.Mutex
	timers  map[string]*timer
	counter int
}

type timer struct {
	id     string
	name   string
	endsAt time.Time
	cancel chan struct{}
}

// NewReminders returns the built-in reminder handler. speak is called from
// a timer goroutine when one fires.
func NewReminders(speak func(string)) *Reminders {
	if speak == nil {
		speak = func(string) {}
	}
	return &Reminders{speak: speak, timers: make(map[string]*timer)}
}

// Execute implements Handler.
func (r *Reminders) Execute(action string, params map[string]any) (string, error) {
	switch action {
	case "timer", "countdown", "set_timer", "set":
		return r.setTimer(params), nil
	case "reminder", "set_reminder", "remind":
		return r.setReminder(params), nil
	case "list", "list_timers", "active":
		return r.list(), nil
	case "cancel", "cancel_all", "stop":
		return r.cancelAll(), nil
	}
	if _, ok := ParamInt(params, "minutes"); ok {
		return r.setTimer(params), nil
	}
	if _, ok := ParamInt(params, "seconds"); ok {
		return r.setTimer(params), nil
	}
	return "I can set timers, countdowns, and reminders. Just tell me how long.", nil
}

func (r *Reminders) setTimer(params map[string]any) string {
	d := extractDuration(params)
	if d <= 0 {
		return "How long should I set the timer for?"
	}
	if d > maxTimerDuration {
		return "I can set timers up to 2 hours. How long would you like?"
	}

	spoken := spokenDuration(d)
	r.start("Timer ("+spoken+")", d, fmt.Sprintf("Timer complete. %s is up.", spoken))
	return fmt.Sprintf("Timer set for %s. I'll let you know when it's done.", spoken)
}

func (r *Reminders) setReminder(params map[string]any) string {
	d := extractDuration(params)
	if d <= 0 {
		return "When should I remind you?"
	}
	if d > maxTimerDuration {
		return "I can set reminders up to 2 hours. When would you like?"
	}

	spoken := spokenDuration(d)
	message, _ := ParamString(params, "message")
	announcement := fmt.Sprintf("Hey, this is your reminder. %s has passed.", spoken)
	if message != "" {
		announcement = "Reminder: " + message
	}

	r.start("Reminder ("+spoken+")", d, announcement)
	return fmt.Sprintf("Reminder set for %s from now.", spoken)
}

// start registers a timer and launches its goroutine.
func (r *Reminders) start(name string, d time.Duration, announcement string) {
	r.mu.Lock()
	r.counter++
	t := &timer{
		id:     fmt.Sprintf("timer_%d", r.counter),
		name:   name,
		endsAt: time.Now().Add(d),
		cancel: make(chan struct{}),
	}
	r.timers[t.id] = t
	r.mu.Unlock()

	slog.Info("timer set", "id", t.id, "duration", d)

	go func() {
		tick := time.NewTimer(d)
		defer tick.Stop()

		select {
		case <-tick.C:
			r.remove(t.id)
			r.speak(announcement)
		case <-t.cancel:
			r.remove(t.id)
		}
	}()
}

func (r *Reminders) remove(id string) {
	r.mu.Lock()
	delete(r.timers, id)
	r.mu.Unlock()
}

func (r *Reminders) list() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.timers) == 0 {
		return "You have no active timers."
	}

	names := make([]string, 0, len(r.timers))
	for _, t := range r.timers {
		remaining := time.Until(t.endsAt).Round(time.Second)
		if remaining < 0 {
			remaining = 0
		}
		names = append(names, fmt.Sprintf("%s with %s left", t.name, spokenDuration(remaining)))
	}
	sort.Strings(names)

	return fmt.Sprintf("You have %d active: %s.", len(names), strings.Join(names, ", "))
}

func (r *Reminders) cancelAll() string {
	r.mu.Lock()
	cancelled := len(r.timers)
	for _, t := range r.timers {
		close(t.cancel)
	}
	r.timers = make(map[string]*timer)
	r.mu.Unlock()

	if cancelled == 0 {
		return "There were no timers to cancel."
	}
	return fmt.Sprintf("Cancelled %d timers.", cancelled)
}

// Active reports how many timers are currently running.
func (r *Reminders) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// extractDuration builds a duration from minutes/seconds/hours parameters.
func extractDuration(params map[string]any) time.Duration {
	var d time.Duration
	if h, ok := ParamInt(params, "hours"); ok {
		d += time.Duration(h) * time.Hour
	}
	if m, ok := ParamInt(params, "minutes"); ok {
		d += time.Duration(m) * time.Minute
	}
	if s, ok := ParamInt(params, "seconds"); ok {
		d += time.Duration(s) * time.Second
	}
	return d
}

// spokenDuration formats a duration the way it should be read aloud.
func spokenDuration(d time.Duration) string {
	d = d.Round(time.Second)

	var parts []string
	if h := int(d.Hours()); h > 0 {
		parts = append(parts, plural(h, "hour"))
		d -= time.Duration(h) * time.Hour
	}
	if m := int(d.Minutes()); m > 0 {
		parts = append(parts, plural(m, "minute"))
		d -= time.Duration(m) * time.Minute
	}
	if s := int(d.Seconds()); s > 0 || len(parts) == 0 {
		parts = append(parts, plural(s, "second"))
	}
	return strings.Join(parts, " and ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
