//+build !release

package mocks

import "sync"

// FakeCron records scheduled jobs and allows to fire them manually.
type FakeCron struct {
	sync.Mutex
	jobs    map[int]func()
	specs   map[int]string
	nextID  int
	stopped bool
}

// AddFunc records a new job.
func (f *FakeCron) AddFunc(spec string, cmd func()) (int, error) {
	f.Lock()
	defer f.Unlock()

	f.nextID++
	f.jobs[f.nextID] = cmd
	f.specs[f.nextID] = spec
	return f.nextID, nil
}

// RemoveFunc removes a recorded job.
func (f *FakeCron) RemoveFunc(id int) {
	f.Lock()
	defer f.Unlock()

	delete(f.jobs, id)
	delete(f.specs, id)
}

// Stop marks cron as stopped.
func (f *FakeCron) Stop() {
	f.Lock()
	defer f.Unlock()

	f.stopped = true
}

// Specs returns specs of all recorded jobs.
func (f *FakeCron) Specs() []string {
	f.Lock()
	defer f.Unlock()

	specs := make([]string, 0, len(f.specs))
	for _, v := range f.specs {
		specs = append(specs, v)
	}

	return specs
}

// FireAll synchronously invokes every recorded job.
func (f *FakeCron) FireAll() {
	f.Lock()
	jobs := make([]func(), 0, len(f.jobs))
	for _, v := range f.jobs {
		jobs = append(jobs, v)
	}
	f.Unlock()

	for _, v := range jobs {
		v()
	}
}

// IsStopped returns whether Stop was called.
func (f *FakeCron) IsStopped() bool {
	f.Lock()
	defer f.Unlock()

	return f.stopped
}

// FakeNewCron creates a fake cron provider.
func FakeNewCron() *FakeCron {
	return &FakeCron{
		jobs:  make(map[int]func()),
		specs: make(map[int]string),
	}
}
