package worker

import (
	"context"
	"log"
	"time"

	"lostfound/internal/service"
)

// MatchWorker периодически запускает пакетный подбор совпадений.
// Полное декартово произведение может работать долго, поэтому на
// каждый прогон ставится свой таймаут.
type MatchWorker struct {
	service   service.MatchService
	interval  time.Duration
	timeout   time.Duration
	stopChan  chan struct{}
	isRunning bool
}

func NewMatchWorker(service service.MatchService, interval time.Duration) *MatchWorker {
	return &MatchWorker{
		service:  service,
		interval: interval,
		timeout:  10 * time.Minute,
		stopChan: make(chan struct{}),
	}
}

func (w *MatchWorker) Name() string {
	return "batch-matching"
}

func (w *MatchWorker) Start() {
	if w.isRunning {
		return
	}

	w.isRunning = true
	log.Printf("Match Worker started with interval %v", w.interval)

	go w.run()
}

func (w *MatchWorker) Stop() {
	if !w.isRunning {
		return
	}

	close(w.stopChan)
	w.isRunning = false
	log.Println("Match Worker stopped")
}

func (w *MatchWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Первый запуск сразу
	w.runBatchMatching()

	for {
		select {
		case <-ticker.C:
			w.runBatchMatching()
		case <-w.stopChan:
			return
		}
	}
}

func (w *MatchWorker) runBatchMatching() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	result, err := w.service.MatchAll(ctx)
	if err != nil {
		log.Printf("Match Worker error: %v", err)
		return
	}

	log.Printf("Match Worker: %d lost items processed, %d new matches created",
		result.LostItemsProcessed, result.NewMatchesCreated)
}
