package worker

import (
	"log"
	"sync"
	"time"
)

// stopTimeout - предел ожидания завершения воркеров при остановке
const stopTimeout = 10 * time.Second

type Worker interface {
	Name() string
	Start()
	Stop()
}

// Scheduler запускает и останавливает фоновых воркеров
type Scheduler struct {
	workers []Worker
	wg      sync.WaitGroup
	stopped bool
	mu      sync.RWMutex
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		workers: make([]Worker, 0),
	}
}

func (s *Scheduler) AddWorker(worker Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workers = append(s.workers, worker)
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	for _, worker := range s.workers {
		log.Printf("Scheduler: starting worker %q", worker.Name())
		s.wg.Add(1)
		go func(w Worker) {
			defer s.wg.Done()
			w.Start()
		}(worker)
	}
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	for _, worker := range s.workers {
		log.Printf("Scheduler: stopping worker %q", worker.Name())
		worker.Stop()
	}

	// Ждем завершения с таймаутом
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Scheduler stopped gracefully")
	case <-time.After(stopTimeout):
		log.Println("Scheduler stop timeout")
	}
}

func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.stopped
}
