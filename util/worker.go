package util

import (
	"sync"

	"github.com/mohitkumar/screenflow/logger"
	"go.uber.org/zap"
)

type Task any

// Worker runs handler for every task on a single goroutine. Tasks are
// buffered; Submit never blocks the caller.
type Worker struct {
	name     string
	stop     chan struct{}
	wg       *sync.WaitGroup
	handler  func(Task) error
	taskChan chan Task
}

func NewWorker(name string, wg *sync.WaitGroup, handler func(Task) error, capacity int) *Worker {
	if capacity <= 0 {
		capacity = 1
	}
	return &Worker{
		name:     name,
		wg:       wg,
		stop:     make(chan struct{}),
		handler:  handler,
		taskChan: make(chan Task, capacity),
	}
}

func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case task := <-w.taskChan:
				w.handle(task)
			case <-w.stop:
				w.drain()
				logger.Info("stopping worker", zap.String("worker", w.name))
				return
			}
		}
	}()
}

func (w *Worker) handle(task Task) {
	if err := w.handler(task); err != nil {
		logger.Error("error in executing task in worker", zap.String("worker", w.name), zap.Any("task", task), zap.Error(err))
	}
}

// drain handles what was already buffered when Stop was called.
func (w *Worker) drain() {
	for {
		select {
		case task := <-w.taskChan:
			w.handle(task)
		default:
			return
		}
	}
}

// Submit queues task and reports false, dropping it, when the buffer is full.
func (w *Worker) Submit(task Task) bool {
	select {
	case w.taskChan <- task:
		return true
	default:
		logger.Warn("worker buffer full, dropping task", zap.String("worker", w.name))
		return false
	}
}

func (w *Worker) Stop() {
	close(w.stop)
}
