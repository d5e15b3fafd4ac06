package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TasksCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maintdesk_tasks_created_total",
			Help: "Total number of tasks created by type and priority.",
		},
		[]string{"type", "priority"},
	)

	TaskStatusTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maintdesk_task_status_transitions_total",
			Help: "Total number of task status transitions by target status.",
		},
		[]string{"status"},
	)

	TaskAssignmentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "maintdesk_task_assignments_total",
			Help: "Total number of task assignment changes.",
		},
	)

	TaskNotesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "maintdesk_task_notes_total",
			Help: "Total number of notes added to tasks.",
		},
	)

	TaskAttachmentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "maintdesk_task_attachments_total",
			Help: "Total number of attachments recorded on tasks.",
		},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maintdesk_logins_total",
			Help: "Total number of login attempts by result.",
		},
		[]string{"result"},
	)
)

// Register registers all custom maintdesk metrics with the default
// Prometheus registry.
func Register() {
	prometheus.MustRegister(
		TasksCreatedTotal,
		TaskStatusTransitionsTotal,
		TaskAssignmentsTotal,
		TaskNotesTotal,
		TaskAttachmentsTotal,
		LoginsTotal,
	)
}
