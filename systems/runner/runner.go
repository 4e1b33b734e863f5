// Package runner keeps track of running programs.
package runner

import (
	"sort"
	"sync"
	"time"

	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/providers"
	"github.com/bulbd/bulbd/systems/color"
	"github.com/bulbd/bulbd/systems/engine"
	"github.com/bulbd/bulbd/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// Logger system.
	logSystem = "runner"
)

// DefaultJoinTimeout is the longest wait for a previous run of the same key.
const DefaultJoinTimeout = 2 * time.Second

// ConstructRunner has data required for a new runner.
type ConstructRunner struct {
	Logger   common.ILoggerProvider
	Registry providers.IRegistryProvider
	FanOut   providers.IFanOutProvider
	// Optional history storage.
	Storage providers.IStorageProvider
	// Optional external notifications.
	Notifier providers.INotificationProvider
	// Optional scheduler, required if schedules are set.
	Cron        providers.ICronProvider
	Schedules   []*providers.ScheduleSettings
	JoinTimeout time.Duration
}

// Single program run.
type run struct {
	info  *providers.RunInfo
	token *engine.CancelToken
	done  chan struct{}
}

// Runner implementation.
type runner struct {
	sync.Mutex

	logger   common.ILoggerProvider
	registry providers.IRegistryProvider
	fanOut   providers.IFanOutProvider
	storage  providers.IStorageProvider
	notifier providers.INotificationProvider
	cron     providers.ICronProvider

	joinTimeout time.Duration
	runs        map[string]*run
	keyLocks    map[string]*sync.Mutex
	cronIDs     []int
}

// Key returns registry key of a bulb and program pair.
func Key(bulb string, program string) string {
	return bulb + "_" + program
}

// NewRunner constructs a new runner and registers configured schedules.
func NewRunner(ctor *ConstructRunner) (providers.IRunnerProvider, error) {
	r := &runner{
		logger:      ctor.Logger,
		registry:    ctor.Registry,
		fanOut:      ctor.FanOut,
		storage:     ctor.Storage,
		notifier:    ctor.Notifier,
		cron:        ctor.Cron,
		joinTimeout: ctor.JoinTimeout,
		runs:        make(map[string]*run),
		keyLocks:    make(map[string]*sync.Mutex),
		cronIDs:     make([]int, 0),
	}

	if r.joinTimeout <= 0 {
		r.joinTimeout = DefaultJoinTimeout
	}

	for _, v := range ctor.Schedules {
		if err := r.schedule(v); err != nil {
			r.removeSchedules()
			return nil, err
		}
	}

	return r, nil
}

// Start launches a program, replacing the previous run of the same key.
// Returns run ID.
func (r *runner) Start(bulb string, program string, duration time.Duration) (string, error) {
	prog, err := engine.Lookup(program)
	if err != nil {
		return "", err
	}

	return r.start(bulb, prog, duration)
}

func (r *runner) start(bulb string, prog *engine.Program, duration time.Duration) (string, error) {
	bulb = utils.NormalizeBulbName(bulb)
	bulbs, err := r.registry.Resolve(bulb)
	if err != nil {
		return "", err
	}

	if duration <= 0 {
		duration = prog.Duration
	}

	key := Key(bulb, prog.Name)
	lock := r.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	r.Lock()
	old := r.runs[key]
	r.Unlock()

	if nil != old {
		r.logger.Info("Stopping previous run", common.LogSystemToken, logSystem,
			common.LogRunIDToken, old.info.RunID, common.LogProgramToken, prog.Name, common.LogBulbToken, bulb)
		old.token.Cancel()
		if !wait(old.done, r.joinTimeout) {
			r.logger.Warn("Previous run didn't stop in time", common.LogSystemToken, logSystem,
				common.LogRunIDToken, old.info.RunID, common.LogProgramToken, prog.Name, common.LogBulbToken, bulb)
		}
	}

	rn := &run{
		info: &providers.RunInfo{
			RunID:    uuid.New().String(),
			Bulb:     bulb,
			Program:  prog.Name,
			Started:  time.Now(),
			Duration: duration.Seconds(),
		},
		token: engine.NewCancelToken(),
		done:  make(chan struct{}),
	}

	r.Lock()
	r.runs[key] = rn
	r.Unlock()

	r.publish(&common.MsgProgramStatus{
		RunID:    rn.info.RunID,
		Bulb:     bulb,
		Program:  prog.Name,
		Status:   common.ProgramRunning,
		Duration: rn.info.Duration,
	})

	go r.execute(key, rn, prog, bulbs, duration)
	return rn.info.RunID, nil
}

// Stop cancels a run and waits for its termination up to join timeout.
func (r *runner) Stop(bulb string, program string) error {
	key := Key(utils.NormalizeBulbName(bulb), program)
	lock := r.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	r.Lock()
	rn, ok := r.runs[key]
	r.Unlock()

	if !ok {
		return &ErrProgramNotRunning{Key: key}
	}

	rn.token.Cancel()
	if !wait(rn.done, r.joinTimeout) {
		r.logger.Warn("Program didn't stop in time", common.LogSystemToken, logSystem,
			common.LogRunIDToken, rn.info.RunID, common.LogProgramToken, program)
	}

	return nil
}

// IsRunning returns whether there is an active run.
func (r *runner) IsRunning(bulb string, program string) bool {
	r.Lock()
	defer r.Unlock()

	_, ok := r.runs[Key(utils.NormalizeBulbName(bulb), program)]
	return ok
}

// Running returns active runs ordered by start time.
func (r *runner) Running() []*providers.RunInfo {
	r.Lock()
	defer r.Unlock()

	out := make([]*providers.RunInfo, 0, len(r.runs))
	for _, v := range r.runs {
		cp := *v.info
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Started.Before(out[j].Started)
	})

	return out
}

// StopAll removes schedules, cancels every run and waits for each up to timeout.
func (r *runner) StopAll(timeout time.Duration) {
	r.removeSchedules()

	r.Lock()
	runs := make([]*run, 0, len(r.runs))
	for _, v := range r.runs {
		runs = append(runs, v)
	}
	r.Unlock()

	for _, v := range runs {
		v.token.Cancel()
	}

	for _, v := range runs {
		if !wait(v.done, timeout) {
			r.logger.Warn("Program didn't stop in time", common.LogSystemToken, logSystem,
				common.LogRunIDToken, v.info.RunID, common.LogProgramToken, v.info.Program)
		}
	}
}

// Runs engine loop and reports the outcome.
func (r *runner) execute(key string, rn *run, prog *engine.Program, bulbs []*providers.NamedBulb,
	duration time.Duration) {
	status := &common.MsgProgramStatus{
		RunID:    rn.info.RunID,
		Bulb:     rn.info.Bulb,
		Program:  prog.Name,
		Duration: rn.info.Duration,
	}

	defer func() {
		if rec := recover(); rec != nil {
			err := errors.Errorf("program panicked: %v", rec)
			r.logger.Error("Program failed", err, common.LogSystemToken, logSystem,
				common.LogRunIDToken, rn.info.RunID, common.LogProgramToken, prog.Name)
			status.Status = common.ProgramError
			status.Error = err.Error()
		}

		r.Lock()
		if r.runs[key] == rn {
			delete(r.runs, key)
		}
		r.Unlock()

		status.Elapsed = time.Since(rn.info.Started).Seconds()
		r.publish(status)
		close(rn.done)
	}()

	e := engine.NewEngine(&engine.ConstructEngine{
		Logger:   r.logger,
		Config:   prog.Config,
		Observer: &observer{fanOut: r.fanOut, bulbs: bulbs, program: prog.Name},
		LogFields: []string{common.LogRunIDToken, rn.info.RunID, common.LogProgramToken, prog.Name,
			common.LogBulbToken, rn.info.Bulb},
	})

	if engine.StateCancelled == e.Run(bulbs, duration, rn.token) {
		status.Status = common.ProgramStopped
	} else {
		status.Status = common.ProgramCompleted
	}
}

// Sends status to every consumer.
func (r *runner) publish(msg *common.MsgProgramStatus) {
	r.logger.Info("Program status", common.LogSystemToken, logSystem, common.LogRunIDToken, msg.RunID,
		common.LogProgramToken, msg.Program, common.LogBulbToken, msg.Bulb, "status", string(msg.Status))

	if nil != r.fanOut {
		r.fanOut.ChannelInProgramUpdates() <- msg
	}

	if nil != r.storage {
		if err := r.storage.Record(msg); err != nil {
			r.logger.Error("Failed to record program status", err, common.LogSystemToken, logSystem,
				common.LogRunIDToken, msg.RunID)
		}
	}

	if nil != r.notifier {
		r.notifier.ProgramStatus(msg)
	}
}

func (r *runner) keyLock(key string) *sync.Mutex {
	r.Lock()
	defer r.Unlock()

	l, ok := r.keyLocks[key]
	if !ok {
		l = &sync.Mutex{}
		r.keyLocks[key] = l
	}

	return l
}

// Waits for channel to close, returns false on timeout.
func wait(done chan struct{}, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}

// Pushes live colours to bulb updates.
type observer struct {
	fanOut  providers.IFanOutProvider
	bulbs   []*providers.NamedBulb
	program string
}

// Applied sends colour of every bulb, updates are dropped if nobody reads them.
func (o *observer) Applied(c color.RGB) {
	if nil == o.fanOut {
		return
	}

	for _, b := range o.bulbs {
		msg := &common.MsgBulbUpdate{
			Bulb:   b.Name,
			Status: map[string]interface{}{"rgb": c, "program": o.program},
		}

		select {
		case o.fanOut.ChannelInBulbUpdates() <- msg:
		default:
		}
	}
}

// Finished does nothing, the runner reports the outcome.
func (o *observer) Finished(engine.State, int) {
}
