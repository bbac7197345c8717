package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters del motor de protección. Se exponen en /metrics desde pkg/web.
var (
	// Verdicts cuenta los veredictos de violación por categoría de filtro.
	Verdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pancyguard",
		Name:      "automod_verdicts_total",
		Help:      "Veredictos de violación del automod por categoría",
	}, []string{"category"})

	// Enforcements cuenta las sanciones ejecutadas por acción y origen
	// (automod o manual).
	Enforcements = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pancyguard",
		Name:      "enforcements_total",
		Help:      "Sanciones ejecutadas por acción y origen",
	}, []string{"action", "origin"})

	// GateDenials cuenta los rechazos de la puerta de autoridad por motivo.
	GateDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pancyguard",
		Name:      "gate_denials_total",
		Help:      "Rechazos de la puerta de autoridad por motivo",
	}, []string{"reason"})

	// SweepReversals cuenta las sanciones revertidas por el reconciliador.
	SweepReversals = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pancyguard",
		Name:      "reconciler_reversals_total",
		Help:      "Sanciones expiradas revertidas por el reconciliador",
	})

	// SweepFailures cuenta los registros que un barrido no pudo procesar.
	SweepFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pancyguard",
		Name:      "reconciler_failures_total",
		Help:      "Fallos por registro durante los barridos del reconciliador",
	})

	// RetentionDeletes cuenta los documentos podados por la limpieza de
	// retención, por colección.
	RetentionDeletes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pancyguard",
		Name:      "retention_deleted_total",
		Help:      "Documentos eliminados por la limpieza de retención",
	}, []string{"collection"})

	// NotifyFailures cuenta las notificaciones por DM que no se pudieron
	// entregar. Nunca bloquean una sanción.
	NotifyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pancyguard",
		Name:      "notifications_failed_total",
		Help:      "Notificaciones al usuario que fallaron",
	})

	// PanicsRecovered cuenta los panics atrapados por el watchdog.
	PanicsRecovered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pancyguard",
		Name:      "panics_recovered_total",
		Help:      "Panics recuperados por el watchdog de errores",
	})
)
