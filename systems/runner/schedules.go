package runner

import (
	"github.com/bulbd/bulbd/common"
	"github.com/bulbd/bulbd/providers"
	"github.com/bulbd/bulbd/systems/engine"
	"github.com/pkg/errors"
)

// Registers a cron job starting a program.
func (r *runner) schedule(s *providers.ScheduleSettings) error {
	prog, err := engine.Lookup(s.Program)
	if err != nil {
		return err
	}

	if nil == r.cron {
		return errors.New("cron is not configured")
	}

	id, err := r.cron.AddFunc(s.Cron, func() {
		r.logger.Info("Starting scheduled program", common.LogSystemToken, logSystem,
			common.LogScheduleToken, s.Cron, common.LogProgramToken, prog.Name, common.LogBulbToken, s.Bulb)

		if _, err := r.start(s.Bulb, prog, s.Duration); err != nil {
			r.logger.Error("Failed to start scheduled program", err, common.LogSystemToken, logSystem,
				common.LogScheduleToken, s.Cron, common.LogProgramToken, prog.Name, common.LogBulbToken, s.Bulb)
			r.publish(&common.MsgProgramStatus{
				Bulb:    s.Bulb,
				Program: prog.Name,
				Status:  common.ProgramError,
				Error:   err.Error(),
			})
		}
	})

	if err != nil {
		return errors.Wrapf(err, "wrong cron spec %s", s.Cron)
	}

	r.Lock()
	r.cronIDs = append(r.cronIDs, id)
	r.Unlock()

	r.logger.Info("Program scheduled", common.LogSystemToken, logSystem,
		common.LogScheduleToken, s.Cron, common.LogProgramToken, prog.Name, common.LogBulbToken, s.Bulb)
	return nil
}

func (r *runner) removeSchedules() {
	r.Lock()
	ids := r.cronIDs
	r.cronIDs = make([]int, 0)
	r.Unlock()

	for _, id := range ids {
		r.cron.RemoveFunc(id)
	}
}
