package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "taskwell"

// Metrics holds all Taskwell metric instruments.
type Metrics struct {
	TasksCreated      metric.Int64Counter
	TasksCompleted    metric.Int64Counter
	ProjectsCompleted metric.Int64Counter
	Rollbacks         metric.Int64Counter
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.TasksCreated, err = meter.Int64Counter("taskwell.tasks.created",
		metric.WithDescription("Number of tasks created"))
	if err != nil {
		return nil, err
	}

	m.TasksCompleted, err = meter.Int64Counter("taskwell.tasks.completed",
		metric.WithDescription("Number of tasks completed"))
	if err != nil {
		return nil, err
	}

	m.ProjectsCompleted, err = meter.Int64Counter("taskwell.projects.completed",
		metric.WithDescription("Number of projects completed"))
	if err != nil {
		return nil, err
	}

	m.Rollbacks, err = meter.Int64Counter("taskwell.rollbacks",
		metric.WithDescription("Number of compensating rollbacks executed"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// AddTaskCreated increments the created-tasks counter. Safe on a nil receiver.
func (m *Metrics) AddTaskCreated(ctx context.Context) {
	if m != nil {
		m.TasksCreated.Add(ctx, 1)
	}
}

// AddTaskCompleted increments the completed-tasks counter. Safe on a nil receiver.
func (m *Metrics) AddTaskCompleted(ctx context.Context) {
	if m != nil {
		m.TasksCompleted.Add(ctx, 1)
	}
}

// AddProjectCompleted increments the completed-projects counter. Safe on a nil receiver.
func (m *Metrics) AddProjectCompleted(ctx context.Context) {
	if m != nil {
		m.ProjectsCompleted.Add(ctx, 1)
	}
}

// AddRollback increments the rollback counter. Safe on a nil receiver.
func (m *Metrics) AddRollback(ctx context.Context) {
	if m != nil {
		m.Rollbacks.Add(ctx, 1)
	}
}
