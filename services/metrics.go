package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	investmentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travest_investments_created_total",
		Help: "Investments created, by canonical type.",
	}, []string{"type"})

	complianceRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "travest_compliance_rejections_total",
		Help: "Rejected investment proposals, by reason.",
	}, []string{"reason"})
)
