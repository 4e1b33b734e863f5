// Package engine implements timed colour transitions and the programs catalogue.
package engine

import (
	"math/rand"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/providers"
	"github.com/bulbd/bulbd/systems/bulb"
	"github.com/bulbd/bulbd/systems/color"
)

const (
	// Logger system.
	logSystem = "engine"
)

// PollInterval is the longest sleep between cancellation checks.
const PollInterval = 500 * time.Millisecond

// Config describes a single program variant.
type Config struct {
	// Steps per transition, 1 means direct colour change.
	Steps int
	// Transition is the time of a single transition.
	Transition time.Duration
	// Policy generates waypoint colours.
	Policy color.Policy
}

// StepDelay returns the pause after each step.
func (c Config) StepDelay() time.Duration {
	if c.Steps <= 0 {
		return c.Transition
	}

	return c.Transition / time.Duration(c.Steps)
}

// Observer receives engine progress.
type Observer interface {
	Applied(c color.RGB)
	Finished(state State, transitions int)
}

// ConstructEngine has data required for a new engine.
type ConstructEngine struct {
	Logger   common.ILoggerProvider
	Config   Config
	Observer Observer
	// Random source, nil seeds from the clock.
	Rand *rand.Rand
	// Extra log fields.
	LogFields []string
}

// Engine drives bulbs through interpolated colour transitions.
// It runs once.
type Engine struct {
	logger     common.ILoggerProvider
	controller *bulb.Controller
	config     Config
	observer   Observer
	rnd        *rand.Rand
	fields     []string
	state      int32
}

// NewEngine constructs a new engine.
func NewEngine(ctor *ConstructEngine) *Engine {
	rnd := ctor.Rand
	if nil == rnd {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	cfg := ctor.Config
	if cfg.Steps <= 0 {
		cfg.Steps = 1
	}

	return &Engine{
		logger:     ctor.Logger,
		controller: bulb.NewController(ctor.Logger),
		config:     cfg,
		observer:   ctor.Observer,
		rnd:        rnd,
		fields:     append([]string{common.LogSystemToken, logSystem}, ctor.LogFields...),
	}
}

// State returns current engine state.
func (e *Engine) State() State {
	return State(atomic.LoadInt32(&e.state))
}

// Run blocks until duration is exhausted or token is cancelled.
// Device failures are logged and never stop the loop.
func (e *Engine) Run(bulbs []*providers.NamedBulb, duration time.Duration, token *CancelToken) State {
	if !atomic.CompareAndSwapInt32(&e.state, int32(StateIdle), int32(StateRunning)) {
		e.logger.Warn("Engine was already started", e.fields...)
		return e.State()
	}

	if nil == token {
		token = NewCancelToken()
	}

	start := time.Now()
	e.logger.Info("Starting program", e.with("bulbs", strconv.Itoa(len(bulbs)),
		"duration", duration.String(), "policy", e.config.Policy.String())...)

	for _, b := range bulbs {
		e.controller.TurnOn(b)
	}

	current := e.config.Policy.Generate(e.rnd)
	e.apply(bulbs, current)
	e.logger.Info("Initial color applied", e.with(common.LogColorToken, current.String())...)

	transitions := 0
	delay := e.config.StepDelay()

	for !token.Cancelled() && time.Since(start) < duration {
		transitions++
		target := e.config.Policy.Generate(e.rnd)
		e.logger.Debug("Transition started", e.with("transition", strconv.Itoa(transitions),
			common.LogColorToken, target.String())...)

		for step := 1; step <= e.config.Steps; step++ {
			if token.Cancelled() {
				break
			}

			e.apply(bulbs, color.Interpolate(current, target, step, e.config.Steps))
			if !sleep(delay, token) {
				break
			}
		}

		current = target
	}

	final := StateCompleted
	if token.Cancelled() {
		final = StateCancelled
	}

	atomic.StoreInt32(&e.state, int32(final))
	e.logger.Info("Program ended", e.with("state", final.String(),
		"transitions", strconv.Itoa(transitions), "elapsed", time.Since(start).Round(time.Millisecond).String())...)

	if nil != e.observer {
		e.observer.Finished(final, transitions)
	}

	return final
}

// Applies colour to every bulb, failures affect only the failing bulb.
func (e *Engine) apply(bulbs []*providers.NamedBulb, c color.RGB) {
	for _, b := range bulbs {
		res := e.controller.SetColor(b, c.R, c.G, c.B)
		if !res.OK {
			e.logger.Warn("Failed to apply color", e.with(common.LogBulbToken, b.Name,
				common.LogColorToken, c.String())...)
		}
	}

	if nil != e.observer {
		e.observer.Applied(c)
	}
}

func (e *Engine) with(fields ...string) []string {
	return append(append([]string{}, e.fields...), fields...)
}

// Sleeps in PollInterval slices, returns false if cancelled.
func sleep(d time.Duration, token *CancelToken) bool {
	deadline := time.Now().Add(d)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return !token.Cancelled()
		}

		if remaining > PollInterval {
			remaining = PollInterval
		}

		timer := time.NewTimer(remaining)
		select {
		case <-token.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
	}
}
