package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/automod"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/metrics"
	"github.com/PancyStudios/PancyGuardGo/pkg/moderation"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/PancyStudios/PancyGuardGo/pkg/mqtt"
)

const (
	defaultSweepInterval   = time.Minute
	defaultCleanupInterval = 24 * time.Hour
	defaultRetention       = 90 * 24 * time.Hour

	// windowIdleAfter debe superar la ventana configurable más larga, o la
	// poda borraría eventos que un detector todavía puede contar.
	windowIdleAfter = time.Hour
)

// Reconciler revierte las sanciones temporales expiradas y poda los registros
// antiguos. La base de datos manda: si el estado de la plataforma ya coincide
// (rol quitado a mano, veto levantado por fuera), la reversión sigue siendo
// un éxito y los registros se cierran igual.
type Reconciler struct {
	platform moderation.Platform
	records  moderation.Records

	sweepEvery   time.Duration
	cleanupEvery time.Duration
	retainFor    time.Duration
	now          func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

var (
	reconcilerInstance *Reconciler
	reconcilerOnce     sync.Once
)

// Init wires the global reconciler once at startup
func Init(p moderation.Platform, r moderation.Records) *Reconciler {
	reconcilerOnce.Do(func() {
		reconcilerInstance = New(p, r)
	})
	return reconcilerInstance
}

// Get returns the reconciler, or nil before Init runs
func Get() *Reconciler {
	return reconcilerInstance
}

// New builds a reconciler with the default intervals
func New(p moderation.Platform, r moderation.Records) *Reconciler {
	return &Reconciler{
		platform:     p,
		records:      r,
		sweepEvery:   defaultSweepInterval,
		cleanupEvery: defaultCleanupInterval,
		retainFor:    defaultRetention,
		now:          time.Now,
	}
}

// Start lanza los barridos periódicos. El primero corre de inmediato para
// cerrar lo que expiró con el bot apagado.
func (rc *Reconciler) Start(ctx context.Context) {
	ctx, rc.cancel = context.WithCancel(ctx)
	rc.done = make(chan struct{})
	go rc.loop(ctx)
	logger.Get().Info(fmt.Sprintf("⏱️ Reconciliador activo: expiraciones cada %s, retención cada %s", rc.sweepEvery, rc.cleanupEvery), "RECONCILER")
}

// Stop detiene los barridos y espera a que el ciclo en curso termine.
func (rc *Reconciler) Stop() {
	if rc.cancel == nil {
		return
	}
	rc.cancel()
	<-rc.done
	logger.Get().Info("Reconciliador detenido", "RECONCILER")
}

func (rc *Reconciler) loop(ctx context.Context) {
	defer close(rc.done)

	sweep := time.NewTicker(rc.sweepEvery)
	defer sweep.Stop()
	cleanup := time.NewTicker(rc.cleanupEvery)
	defer cleanup.Stop()

	rc.RunExpirySweep(rc.now())

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-sweep.C:
			rc.RunExpirySweep(t)
		case t := <-cleanup.C:
			rc.RunRetentionCleanup(t)
			rc.pruneWindows(t)
		}
	}
}

// pruneWindows poda las ventanas de automod de sujetos que llevan tiempo
// callados, para que las claves no se acumulen sin límite
func (rc *Reconciler) pruneWindows(now time.Time) {
	if n := automod.Get().Store().Sweep(now, windowIdleAfter); n > 0 {
		logger.Get().Debug(fmt.Sprintf("%d ventanas de automod podadas", n), "RECONCILER")
	}
}

// RunExpirySweep revierte todas las sanciones cuya expiración ya pasó. Cada
// registro falla por separado: uno corrupto no frena a los demás.
func (rc *Reconciler) RunExpirySweep(now time.Time) (reverted, failed int) {
	for _, kind := range []models.SanctionKind{models.SanctionMute, models.SanctionTempBan} {
		expired, err := rc.records.ExpiredSanctions(kind, now)
		if err != nil {
			logger.Get().Warn(fmt.Sprintf("No se pudieron leer las sanciones de %s: %v", kind, err), "RECONCILER")
			continue
		}
		for _, s := range expired {
			if err := rc.revert(s); err != nil {
				failed++
				metrics.SweepFailures.Inc()
				logger.Get().Warn(fmt.Sprintf("No se pudo revertir la sanción %s (%s de %s): %v", s.ID, s.Kind, s.UserID, err), "RECONCILER")
				continue
			}
			reverted++
			metrics.SweepReversals.Inc()
		}
	}

	if n, err := rc.records.DeactivateExpiredInfractions(now); err != nil {
		logger.Get().Warn(fmt.Sprintf("No se pudieron cerrar las infracciones expiradas: %v", err), "RECONCILER")
	} else if n > 0 {
		logger.Get().Debug(fmt.Sprintf("%d infracciones expiradas cerradas", n), "RECONCILER")
	}

	if reverted > 0 || failed > 0 {
		logger.Get().Info(fmt.Sprintf("Barrido: %d sanciones revertidas, %d fallos", reverted, failed), "RECONCILER")
		mqtt.PublishSweep(mqtt.SweepEvent{Reverted: reverted, Failed: failed, At: now})
	}
	return reverted, failed
}

// revert deshace el efecto de plataforma de una sanción expirada y desactiva
// su registro. Un servidor o miembro ausente no impide la desactivación.
func (rc *Reconciler) revert(s *models.Sanction) error {
	switch s.Kind {
	case models.SanctionMute:
		if err := rc.removeMutedRole(s); err != nil {
			return err
		}
	case models.SanctionTempBan:
		if err := rc.liftBan(s); err != nil {
			return err
		}
	default:
		logger.Get().Warn(fmt.Sprintf("Sanción %s de tipo desconocido %q, solo se desactiva", s.ID, s.Kind), "RECONCILER")
	}

	changed, err := rc.records.DeactivateSanction(s.ID)
	if err != nil {
		return err
	}
	if !changed {
		// Otro barrido u otra réplica llegó antes. No pasa nada.
		logger.Get().Debug(fmt.Sprintf("La sanción %s ya estaba desactivada", s.ID), "RECONCILER")
		return nil
	}

	rc.notifyExpiry(s)
	return nil
}

// notifyExpiry avisa al usuario de que su sanción terminó. Es pura
// cortesía: un DM cerrado no convierte la reversión en fallo.
func (rc *Reconciler) notifyExpiry(s *models.Sanction) {
	var title, body string
	switch s.Kind {
	case models.SanctionMute:
		title = "🔊 Silencio expirado"
		body = fmt.Sprintf("Tu silencio en **%s** ha expirado. Ya puedes volver a escribir.", rc.platform.GuildName(s.GuildID))
	case models.SanctionTempBan:
		title = "🔓 Baneo temporal expirado"
		body = fmt.Sprintf("Tu baneo temporal en **%s** ha expirado.", rc.platform.GuildName(s.GuildID))
	default:
		return
	}

	if err := rc.platform.NotifyUser(s.UserID, title, body); err != nil {
		metrics.NotifyFailures.Inc()
		logger.Get().Debug(fmt.Sprintf("No se pudo avisar a %s del fin de su sanción: %v", s.UserID, err), "RECONCILER")
	}
}

func (rc *Reconciler) removeMutedRole(s *models.Sanction) error {
	if !rc.platform.GuildExists(s.GuildID) {
		logger.Get().Debug(fmt.Sprintf("Servidor %s ausente, se cierra el mute %s sin tocar roles", s.GuildID, s.ID), "RECONCILER")
		return nil
	}
	if !rc.platform.MemberExists(s.GuildID, s.UserID) {
		logger.Get().Debug(fmt.Sprintf("Miembro %s ausente de %s, se cierra el mute %s", s.UserID, s.GuildID, s.ID), "RECONCILER")
		return nil
	}
	roleID, ok := rc.platform.MutedRoleID(s.GuildID)
	if !ok || !rc.platform.MemberHasRole(s.GuildID, s.UserID, roleID) {
		return nil
	}

	err := rc.platform.RemoveRole(s.GuildID, s.UserID, roleID, "Silencio expirado")
	if err == nil {
		logger.Get().Debug(fmt.Sprintf("Silencio de %s en %s expirado, rol retirado", s.UserID, s.GuildID), "RECONCILER")
		return nil
	}
	err = errors.Classify(err)
	if errors.IsNotFound(err) {
		return nil
	}
	return err
}

func (rc *Reconciler) liftBan(s *models.Sanction) error {
	if !rc.platform.GuildExists(s.GuildID) {
		logger.Get().Debug(fmt.Sprintf("Servidor %s ausente, se cierra el tempban %s sin tocar vetos", s.GuildID, s.ID), "RECONCILER")
		return nil
	}

	err := rc.platform.Unban(s.GuildID, s.UserID, "Baneo temporal expirado")
	if err == nil {
		logger.Get().Debug(fmt.Sprintf("Baneo temporal de %s en %s expirado, veto levantado", s.UserID, s.GuildID), "RECONCILER")
		return nil
	}
	err = errors.Classify(err)
	if errors.IsNotFound(err) {
		// El veto ya no existía: mismo estado final, mismo éxito
		return nil
	}
	return err
}

// RunRetentionCleanup poda las infracciones inactivas y los eventos de
// automod más viejos que la ventana de retención.
func (rc *Reconciler) RunRetentionCleanup(now time.Time) (infractions, events int64) {
	cutoff := now.Add(-rc.retainFor)

	infractions, err := rc.records.DeleteInactiveInfractionsBefore(cutoff)
	if err != nil {
		logger.Get().Warn(fmt.Sprintf("Limpieza de infracciones fallida: %v", err), "RECONCILER")
	} else if infractions > 0 {
		metrics.RetentionDeletes.WithLabelValues("infractions").Add(float64(infractions))
	}

	events, err = rc.records.DeleteAutomodEventsBefore(cutoff)
	if err != nil {
		logger.Get().Warn(fmt.Sprintf("Limpieza de eventos de automod fallida: %v", err), "RECONCILER")
	} else if events > 0 {
		metrics.RetentionDeletes.WithLabelValues("automod_events").Add(float64(events))
	}

	if infractions > 0 || events > 0 {
		logger.Get().Info(fmt.Sprintf("🧹 Retención aplicada: %d infracciones y %d eventos eliminados", infractions, events), "RECONCILER")
	}
	return infractions, events
}
