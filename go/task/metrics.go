package task

import "github.com/prometheus/client_golang/prometheus"

var (
	tasksStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chunkport",
		Name:      "tasks_started_total",
		Help:      "Tracked tasks started.",
	})
	tasksFinished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chunkport",
		Name:      "tasks_finished_total",
		Help:      "Tracked tasks finished, by terminal state.",
	}, []string{"state"})
	subtasks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chunkport",
		Name:      "subtasks_total",
		Help:      "Sub-tasks run, by result.",
	}, []string{"result"})
	subtaskWeight = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chunkport",
		Name:      "subtask_weight_total",
		Help:      "Sub-task weight submitted and credited.",
	}, []string{"kind"})
	subtasksInflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "chunkport",
		Name:      "subtasks_inflight",
		Help:      "Sub-tasks currently running.",
	})
)

func init() {
	prometheus.MustRegister(tasksStarted, tasksFinished, subtasks, subtaskWeight, subtasksInflight)
}
