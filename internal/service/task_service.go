package service

import (
	"context"
	"errors"
	"time"

	"studyboard/internal/domain"
	"studyboard/internal/tasks"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	StoreOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_store_operations_total",
			Help: "Remote task store calls by operation and result",
		},
		[]string{"op", "result"},
	)
	StoreLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "task_store_operation_seconds",
			Help:    "Latency of remote task store calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(StoreOps)
	prometheus.MustRegister(StoreLatency)
}

// TaskSource hands out remote stores scoped to one owner.
type TaskSource interface {
	ForOwner(ownerID string) tasks.RemoteStore
}

// TaskService builds per-owner task stores over the configured backend.
type TaskService struct {
	source TaskSource
}

func NewTaskService(source TaskSource) *TaskService {
	return &TaskService{source: source}
}

// StoreFor returns a fresh store bound to ownerID. Stores are not shared
// between callers.
func (s *TaskService) StoreFor(ownerID string) *tasks.Store {
	remote := &instrumentedStore{next: s.source.ForOwner(ownerID)}
	return tasks.NewStoreForOwner(remote, ownerID)
}

type instrumentedStore struct {
	next tasks.RemoteStore
}

func (s *instrumentedStore) Create(ctx context.Context, ownerID string, f domain.TaskFields) (string, error) {
	defer observe("create", time.Now())
	id, err := s.next.Create(ctx, ownerID, f)
	count("create", err)
	return id, err
}

func (s *instrumentedStore) List(ctx context.Context, ownerID string) ([]domain.Task, error) {
	defer observe("list", time.Now())
	list, err := s.next.List(ctx, ownerID)
	count("list", err)
	return list, err
}

func (s *instrumentedStore) Update(ctx context.Context, id string, f domain.TaskFields) error {
	defer observe("update", time.Now())
	err := s.next.Update(ctx, id, f)
	count("update", err)
	return err
}

func (s *instrumentedStore) Delete(ctx context.Context, id string) error {
	defer observe("delete", time.Now())
	err := s.next.Delete(ctx, id)
	count("delete", err)
	return err
}

func observe(op string, start time.Time) {
	StoreLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func count(op string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrTaskNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	StoreOps.WithLabelValues(op, result).Inc()
}
