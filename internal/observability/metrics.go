package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Business metrics, exported on /metrics next to the HTTP collectors.
var (
	UsersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_users_created_total",
			Help: "Total users created",
		},
	)

	ConversationsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_conversations_started_total",
			Help: "Total start-conversation calls",
		},
		[]string{"outcome"}, // "created" or "existing"
	)

	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_messages_sent_total",
			Help: "Total messages sent",
		},
	)
)
