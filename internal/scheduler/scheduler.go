package scheduler

import (
	"sync"
	"time"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("texsense.scheduler")

type Task struct {
	Name    string
	Execute func() error
}

// Scheduler runs tasks one at a time on a single worker. Debounced tasks
// sharing a name collapse into the last one scheduled.
type Scheduler struct {
	taskQueue chan Task
	stopChan  chan struct{}
	wg        sync.WaitGroup

	mu      sync.Mutex
	stopped bool
	timers  map[string]*time.Timer
	gen     map[string]uint64 // bumped on every Debounce and Cancel
}

// NewScheduler creates a new Scheduler with the specified queue size
func NewScheduler(queueSize int) *Scheduler {
	return &Scheduler{
		taskQueue: make(chan Task, max(queueSize, 1)),
		stopChan:  make(chan struct{}),
		timers:    make(map[string]*time.Timer),
		gen:       make(map[string]uint64),
	}
}

// RunScheduler starts the worker loop.
func (s *Scheduler) RunScheduler() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case task := <-s.taskQueue:
				s.execute(task)
			case <-s.stopChan:
				// Drain what was queued before the stop.
				for {
					select {
					case task := <-s.taskQueue:
						s.execute(task)
					default:
						return
					}
				}
			}
		}
	}()
}

func (s *Scheduler) execute(task Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("task %s panicked: %v", task.Name, r)
		}
	}()
	if err := task.Execute(); err != nil {
		log.Errorf("task %s failed: %s", task.Name, err)
	}
}

// Schedule queues a task without blocking. It reports false when the queue
// is full or the scheduler was stopped.
func (s *Scheduler) Schedule(task Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	select {
	case s.taskQueue <- task:
		return true
	default:
		log.Warningf("skipped scheduling %s, queue is full", task.Name)
		return false
	}
}

// Debounce queues task after delay unless another task with the same name
// is debounced first, in which case only the later one runs.
func (s *Scheduler) Debounce(delay time.Duration, task Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if t, ok := s.timers[task.Name]; ok {
		t.Stop()
	}
	s.gen[task.Name]++
	gen := s.gen[task.Name]
	s.timers[task.Name] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		current := s.gen[task.Name] == gen
		if current {
			delete(s.timers, task.Name)
		}
		s.mu.Unlock()
		if current {
			s.Schedule(task)
		}
	})
}

// Cancel drops a debounced task that has not been queued yet.
func (s *Scheduler) Cancel(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen[name]++
	if t, ok := s.timers[name]; ok {
		t.Stop()
		delete(s.timers, name)
	}
}

// StopScheduler cancels debounced tasks, runs the queued ones and waits for
// the worker to exit. It is safe to call more than once.
func (s *Scheduler) StopScheduler() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	for name, t := range s.timers {
		t.Stop()
		delete(s.timers, name)
	}
	s.mu.Unlock()

	log.Info("stopping scheduler")
	close(s.stopChan)
	s.wg.Wait()
}
