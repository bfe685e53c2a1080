package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TasksCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tasks_created_total",
			Help: "Total tasks added to lists",
		},
	)
	TaskCompletionChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_completion_changes_total",
			Help: "Total task completion changes by resulting state",
		},
		[]string{"completed"},
	)
	ListsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lists_created_total",
			Help: "Total task lists created",
		},
	)
	ListsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lists_deleted_total",
			Help: "Total task lists deleted",
		},
	)
	ActiveSubscriptions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "live_subscriptions_active",
			Help: "Live list and profile subscriptions currently open",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(TasksCreated)
	prometheus.MustRegister(TaskCompletionChanges)
	prometheus.MustRegister(ListsCreated)
	prometheus.MustRegister(ListsDeleted)
	prometheus.MustRegister(ActiveSubscriptions)
}
