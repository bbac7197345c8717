package moderation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/automod"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/metrics"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/PancyStudios/PancyGuardGo/pkg/mqtt"
)

// SystemModeratorID marca las sanciones ejecutadas por el propio bot.
const SystemModeratorID = "system"

// retryBackoff separa los dos intentos ante un fallo transitorio.
var retryBackoff = 750 * time.Millisecond

// Dispatcher ejecuta sanciones. Todas las acciones, manuales o del automod,
// pasan por aquí: efectos de plataforma, persistencia, notificación y
// métricas en un solo camino.
type Dispatcher struct {
	platform Platform
	records  Records
	now      func() time.Time
}

var (
	dispatcherInstance *Dispatcher
	dispatcherOnce     sync.Once
)

// InitDispatcher wires the enforcement dispatcher once at startup
func InitDispatcher(p Platform, r Records) *Dispatcher {
	dispatcherOnce.Do(func() {
		dispatcherInstance = NewDispatcher(p, r)
		logger.Get().Info("⚖️ Dispatcher de sanciones inicializado", "GUARD")
	})
	return dispatcherInstance
}

// GetDispatcher returns the dispatcher, or nil before InitDispatcher runs
func GetDispatcher() *Dispatcher {
	return dispatcherInstance
}

// NewDispatcher builds a dispatcher without touching the singleton
func NewDispatcher(p Platform, r Records) *Dispatcher {
	return &Dispatcher{platform: p, records: r, now: time.Now}
}

// Outcome resume lo que una ejecución hizo de verdad.
type Outcome struct {
	Applied        bool
	Action         models.ActionType
	Infraction     *models.Infraction
	Sanction       *models.Sanction
	Purged         int
	RevokedInvites int
	Notified       bool
	DenyMessage    string
}

// Enforce aplica la acción configurada para un veredicto de automod sobre un
// mensaje. El borrado del mensaje ofensivo corre por cuenta del caller; aquí
// van la purga, la sanción, el registro y la notificación. Un rechazo de la
// puerta de autoridad corta sin efectos y sin error.
func (d *Dispatcher) Enforce(guildID, channelID, userID string, v automod.Verdict, cfg *models.GuildConfig) (*Outcome, error) {
	out := &Outcome{Action: v.Action}
	if !v.Violation {
		return out, nil
	}

	metrics.Verdicts.WithLabelValues(string(v.Category)).Inc()
	d.recordAutomodEvent(guildID, userID, v)

	if res := d.authorizeSystem(guildID, userID, string(v.Action), cfg); !res.Allowed {
		metrics.GateDenials.WithLabelValues(string(res.Reason)).Inc()
		logger.Get().Debug(fmt.Sprintf("Automod no puede sancionar a %s en %s: %s", userID, guildID, res.Message), "GUARD")
		out.DenyMessage = res.Message
		return out, nil
	}

	if v.PurgeCount > 0 {
		n, err := d.platform.PurgeUserMessages(channelID, userID, v.PurgeCount)
		if err != nil {
			logger.Get().Warn(fmt.Sprintf("Purga incompleta en %s: %v", channelID, err), "GUARD")
		}
		out.Purged = n
	}

	switch v.Action {
	case models.ActionWarn:
		applied, err := d.Warn(guildID, userID, SystemModeratorID, v.Reason, cfg)
		return mergeOutcome(out, applied), err
	case models.ActionMute:
		applied, err := d.Mute(guildID, userID, SystemModeratorID, v.Reason, v.Duration, cfg)
		return mergeOutcome(out, applied), err
	case models.ActionKick:
		applied, err := d.Kick(guildID, userID, SystemModeratorID, v.Reason, cfg)
		return mergeOutcome(out, applied), err
	case models.ActionBan:
		applied, err := d.Ban(guildID, userID, SystemModeratorID, v.Reason, 0, 0, cfg)
		return mergeOutcome(out, applied), err
	default:
		// delete: el mensaje ya no existe, no queda sanción que aplicar
		metrics.Enforcements.WithLabelValues(string(models.ActionDelete), "automod").Inc()
		out.Applied = true
		return out, nil
	}
}

// Warn registra una advertencia permanente y notifica al usuario.
func (d *Dispatcher) Warn(guildID, userID, moderatorID, reason string, cfg *models.GuildConfig) (*Outcome, error) {
	reason = reasonOrDefault(reason)
	inf, err := d.records.AddInfraction(&models.Infraction{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Type:        models.InfractionWarn,
		Reason:      reason,
		CreatedAt:   d.now(),
	})
	if err != nil {
		return nil, err
	}

	out := &Outcome{Applied: true, Action: models.ActionWarn, Infraction: inf}
	body := fmt.Sprintf("Has sido advertido en **%s**.\n**Razón:** %s", d.platform.GuildName(guildID), reason)
	out.Notified = d.notify(userID, "⚠️ Advertencia", body, cfg)
	d.logAction(guildID, userID, moderatorID, "warn", reason)
	metrics.Enforcements.WithLabelValues("warn", originOf(moderatorID)).Inc()
	return out, nil
}

// Mute asigna el rol de silencio y persiste la sanción con su expiración.
// duration <= 0 silencia indefinidamente, sin fila de sanción que expirar.
func (d *Dispatcher) Mute(guildID, userID, moderatorID, reason string, duration time.Duration, cfg *models.GuildConfig) (*Outcome, error) {
	reason = reasonOrDefault(reason)
	roleID, err := d.platform.EnsureMutedRole(guildID)
	if err != nil {
		return nil, errors.Classify(err)
	}
	if err := d.retryOnce(func() error { return d.platform.AddRole(guildID, userID, roleID, reason) }); err != nil {
		return nil, err
	}

	now := d.now()
	out := &Outcome{Applied: true, Action: models.ActionMute}

	inf := &models.Infraction{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Type:        models.InfractionMute,
		Reason:      reason,
		CreatedAt:   now,
	}
	if duration > 0 {
		inf.ExpiresAt = now.Add(duration)
		sanction, err := d.records.AddSanction(&models.Sanction{
			GuildID:     guildID,
			UserID:      userID,
			ModeratorID: moderatorID,
			Kind:        models.SanctionMute,
			Reason:      reason,
			CreatedAt:   now,
			ExpiresAt:   now.Add(duration),
		})
		if err != nil {
			// Sin fila de sanción el mute jamás expiraría solo
			return nil, fmt.Errorf("mute aplicado pero sin registro de expiración: %w", err)
		}
		out.Sanction = sanction
	}

	if inf, err = d.records.AddInfraction(inf); err != nil {
		logger.Get().Warn(fmt.Sprintf("No se pudo registrar la infracción de mute para %s: %v", userID, err), "GUARD")
	} else {
		out.Infraction = inf
	}

	body := fmt.Sprintf("Has sido silenciado en **%s** durante %s.\n**Razón:** %s",
		d.platform.GuildName(guildID), FormatDuration(duration), reason)
	if duration <= 0 {
		body = fmt.Sprintf("Has sido silenciado en **%s** indefinidamente.\n**Razón:** %s",
			d.platform.GuildName(guildID), reason)
	}
	out.Notified = d.notify(userID, "🔇 Silencio", body, cfg)
	d.logAction(guildID, userID, moderatorID, "mute", reason)
	metrics.Enforcements.WithLabelValues("mute", originOf(moderatorID)).Inc()
	return out, nil
}

// Unmute retira el rol de silencio y desactiva todas las sanciones e
// infracciones de mute activas. Tolera duplicados y miembros ya ausentes.
func (d *Dispatcher) Unmute(guildID, userID, moderatorID, reason string) (*Outcome, error) {
	reason = reasonOrDefault(reason)

	roleID, roleKnown := d.platform.MutedRoleID(guildID)
	wasMuted := roleKnown && d.platform.MemberHasRole(guildID, userID, roleID)
	if wasMuted {
		err := d.retryOnce(func() error { return d.platform.RemoveRole(guildID, userID, roleID, reason) })
		if err != nil && !errors.IsNotFound(err) {
			return nil, err
		}
	}

	sanctions, err := d.records.DeactivateUserSanctions(guildID, userID, models.SanctionMute)
	if err != nil {
		return nil, err
	}
	infractions, err := d.records.DeactivateUserInfractions(guildID, userID, []models.InfractionType{models.InfractionMute})
	if err != nil {
		return nil, err
	}
	if !wasMuted && sanctions == 0 && infractions == 0 {
		return nil, errors.New("el usuario no está silenciado")
	}

	d.logAction(guildID, userID, moderatorID, "unmute", reason)
	metrics.Enforcements.WithLabelValues("unmute", originOf(moderatorID)).Inc()
	return &Outcome{Applied: true}, nil
}

// Kick registra la infracción, avisa por DM antes de perder el canal y
// expulsa. Si la expulsión falla de forma definitiva, la infracción se
// desactiva para no dejar un registro fantasma.
func (d *Dispatcher) Kick(guildID, userID, moderatorID, reason string, cfg *models.GuildConfig) (*Outcome, error) {
	reason = reasonOrDefault(reason)
	inf, err := d.records.AddInfraction(&models.Infraction{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Type:        models.InfractionKick,
		Reason:      reason,
		CreatedAt:   d.now(),
	})
	if err != nil {
		return nil, err
	}

	out := &Outcome{Action: models.ActionKick, Infraction: inf}
	body := fmt.Sprintf("Has sido expulsado de **%s**.\n**Razón:** %s", d.platform.GuildName(guildID), reason)
	out.Notified = d.notify(userID, "👢 Expulsión", body, cfg)

	if err := d.retryOnce(func() error { return d.platform.Kick(guildID, userID, reason) }); err != nil {
		if errors.IsNotFound(err) {
			logger.Get().Debug(fmt.Sprintf("%s ya no estaba en %s al expulsarlo", userID, guildID), "GUARD")
		} else {
			if _, derr := d.records.DeactivateInfraction(inf.ID); derr != nil {
				logger.Get().Warn(fmt.Sprintf("No se pudo anular la infracción %s: %v", inf.ID, derr), "GUARD")
			}
			return nil, err
		}
	}

	out.Applied = true
	d.logAction(guildID, userID, moderatorID, "kick", reason)
	metrics.Enforcements.WithLabelValues("kick", originOf(moderatorID)).Inc()
	return out, nil
}

// Ban veta al usuario. duration > 0 lo convierte en un baneo temporal con su
// fila de sanción para el reconciliador; purgeDays se recorta a 0..7.
func (d *Dispatcher) Ban(guildID, userID, moderatorID, reason string, purgeDays int, duration time.Duration, cfg *models.GuildConfig) (*Outcome, error) {
	reason = reasonOrDefault(reason)
	purgeDays = clampPurgeDays(purgeDays)
	now := d.now()

	inf := &models.Infraction{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Type:        models.InfractionBan,
		Reason:      reason,
		CreatedAt:   now,
	}
	if duration > 0 {
		inf.Type = models.InfractionTempBan
		inf.ExpiresAt = now.Add(duration)
	}
	inf, err := d.records.AddInfraction(inf)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Action: models.ActionBan, Infraction: inf}
	body := fmt.Sprintf("Has sido baneado de **%s**.\n**Razón:** %s", d.platform.GuildName(guildID), reason)
	if duration > 0 {
		body = fmt.Sprintf("Has sido baneado de **%s** durante %s.\n**Razón:** %s",
			d.platform.GuildName(guildID), FormatDuration(duration), reason)
	}
	out.Notified = d.notify(userID, "🔨 Baneo", body, cfg)

	if err := d.retryOnce(func() error { return d.platform.Ban(guildID, userID, purgeDays, reason) }); err != nil {
		if _, derr := d.records.DeactivateInfraction(inf.ID); derr != nil {
			logger.Get().Warn(fmt.Sprintf("No se pudo anular la infracción %s: %v", inf.ID, derr), "GUARD")
		}
		return nil, err
	}

	if duration > 0 {
		sanction, err := d.records.AddSanction(&models.Sanction{
			GuildID:     guildID,
			UserID:      userID,
			ModeratorID: moderatorID,
			Kind:        models.SanctionTempBan,
			Reason:      reason,
			CreatedAt:   now,
			ExpiresAt:   now.Add(duration),
		})
		if err != nil {
			logger.Get().Error(fmt.Sprintf("Baneo temporal de %s sin registro de expiración: %v", userID, err), "GUARD")
		} else {
			out.Sanction = sanction
		}
	}

	out.Applied = true
	action := "ban"
	if duration > 0 {
		action = "tempban"
	}
	d.logAction(guildID, userID, moderatorID, action, reason)
	metrics.Enforcements.WithLabelValues(action, originOf(moderatorID)).Inc()
	return out, nil
}

// Unban levanta el veto y desactiva todas las infracciones de ban o tempban
// activas. Un usuario que nunca estuvo baneado produce un error de uso.
func (d *Dispatcher) Unban(guildID, userID, moderatorID, reason string) (*Outcome, error) {
	reason = reasonOrDefault(reason)

	notBanned := false
	err := d.retryOnce(func() error { return d.platform.Unban(guildID, userID, reason) })
	switch {
	case err == nil:
	case errors.IsNotFound(err):
		notBanned = true
	default:
		return nil, err
	}

	sanctions, err := d.records.DeactivateUserSanctions(guildID, userID, models.SanctionTempBan)
	if err != nil {
		return nil, err
	}
	infractions, err := d.records.DeactivateUserInfractions(guildID, userID,
		[]models.InfractionType{models.InfractionBan, models.InfractionTempBan})
	if err != nil {
		return nil, err
	}
	if notBanned && sanctions == 0 && infractions == 0 {
		return nil, errors.New("el usuario no está baneado")
	}

	d.logAction(guildID, userID, moderatorID, "unban", reason)
	metrics.Enforcements.WithLabelValues("unban", originOf(moderatorID)).Inc()
	return &Outcome{Applied: true}, nil
}

// Purge borra mensajes recientes del canal. userID vacío borra de cualquier
// autor.
func (d *Dispatcher) Purge(guildID, channelID, userID, moderatorID string, limit int) (*Outcome, error) {
	n, err := d.platform.PurgeUserMessages(channelID, userID, limit)
	if err != nil {
		return nil, errors.Classify(err)
	}
	d.logAction(guildID, userID, moderatorID, "purge", fmt.Sprintf("%d mensajes en <#%s>", n, channelID))
	metrics.Enforcements.WithLabelValues("purge", originOf(moderatorID)).Inc()
	return &Outcome{Applied: true, Purged: n}, nil
}

// HandleRaid reacciona a un veredicto de raid: registra el evento, revoca las
// invitaciones activas si el bloqueo automático está encendido y avisa en el
// canal de registro.
func (d *Dispatcher) HandleRaid(guildID string, v automod.Verdict, cfg *models.GuildConfig) (*Outcome, error) {
	out := &Outcome{}
	if !v.Violation {
		return out, nil
	}

	metrics.Verdicts.WithLabelValues(string(v.Category)).Inc()
	d.recordAutomodEvent(guildID, "", v)
	logger.Get().Warn(fmt.Sprintf("%s (servidor %s)", v.Reason, guildID), "GUARD")

	body := v.Reason
	if v.Lockdown {
		n, err := d.platform.RevokeInvites(guildID, "Protección anti raid")
		if err != nil {
			logger.Get().Error(fmt.Sprintf("No se pudieron revocar las invitaciones de %s: %v", guildID, errors.Classify(err)), "GUARD")
		}
		out.RevokedInvites = n
		body += fmt.Sprintf("\nSe revocaron %d invitaciones activas.", n)
	}

	d.alert(guildID, cfg, "🚨 Posible raid detectado", body)
	out.Applied = true
	return out, nil
}

// HandleNuke reacciona a una mutación masiva de canales o roles: identifica
// al responsable por el registro de auditoría si puede y avisa en el canal de
// registro. No sanciona automáticamente.
func (d *Dispatcher) HandleNuke(guildID string, v automod.Verdict, cfg *models.GuildConfig) (*Outcome, error) {
	out := &Outcome{}
	if !v.Violation {
		return out, nil
	}

	metrics.Verdicts.WithLabelValues(string(v.Category)).Inc()

	actor, found := d.platform.RecentAuditActor(guildID, v.Category)
	if !found {
		actor = ""
	}
	d.recordAutomodEvent(guildID, actor, v)
	logger.Get().Warn(fmt.Sprintf("%s (servidor %s)", v.Reason, guildID), "GUARD")

	body := v.Reason
	if actor != "" {
		body += fmt.Sprintf("\nResponsable aparente: <@%s>", actor)
	} else {
		body += "\nNo se pudo identificar al responsable."
	}
	d.alert(guildID, cfg, "💣 Posible nuke detectado", body)
	out.Applied = true
	return out, nil
}

// authorizeSystem evalúa la puerta de autoridad con el bot como actor.
func (d *Dispatcher) authorizeSystem(guildID, targetID, action string, cfg *models.GuildConfig) Result {
	sysID := d.platform.SystemUserID()
	ownerID, err := d.platform.GuildOwnerID(guildID)
	if err != nil {
		logger.Get().Debug(fmt.Sprintf("No se pudo resolver el dueño de %s: %v", guildID, err), "GUARD")
	}
	targetRank, _ := d.platform.MemberRank(guildID, targetID)
	sysRank, _ := d.platform.MemberRank(guildID, sysID)
	caps, _ := d.platform.MemberCapabilities(guildID, sysID)

	hierarchy := true
	if cfg != nil {
		hierarchy = cfg.Permissions.HierarchyCheck
	}
	return Authorize(AuthRequest{
		ActorID:        sysID,
		TargetID:       targetID,
		OwnerID:        ownerID,
		ActorRank:      sysRank,
		TargetRank:     targetRank,
		SystemRank:     sysRank,
		HierarchyCheck: hierarchy,
		Capabilities:   caps,
		Required:       RequiredFor(action),
	})
}

func (d *Dispatcher) recordAutomodEvent(guildID, userID string, v automod.Verdict) {
	err := d.records.LogAutomodEvent(&models.AutomodEvent{
		GuildID:   guildID,
		UserID:    userID,
		Category:  string(v.Category),
		Action:    string(v.Action),
		Reason:    v.Reason,
		CreatedAt: d.now(),
	})
	if err != nil {
		logger.Get().Warn(fmt.Sprintf("No se pudo registrar el evento de automod: %v", err), "GUARD")
	}
}

// logAction publica la sanción en el broker y, cuando la ejecutó un moderador
// humano, la deja en el historial de acciones. Las del automod ya quedaron
// registradas como evento de automod.
func (d *Dispatcher) logAction(guildID, userID, moderatorID, action, reason string) {
	mqtt.PublishEnforcement(mqtt.EnforcementEvent{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Action:      action,
		Reason:      reason,
		At:          d.now(),
	})

	if moderatorID == SystemModeratorID {
		return
	}
	err := d.records.LogModAction(&models.ActionLog{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Action:      action,
		Reason:      reason,
		CreatedAt:   d.now(),
	})
	if err != nil {
		logger.Get().Warn(fmt.Sprintf("No se pudo registrar la acción %s: %v", action, err), "GUARD")
	}
}

// notify envía el DM de cortesía. Nunca bloquea ni revierte una sanción.
func (d *Dispatcher) notify(userID, title, body string, cfg *models.GuildConfig) bool {
	if cfg == nil || !cfg.Messaging.NotifyOnAction {
		return false
	}
	if cfg.Messaging.IncludeAppealInfo {
		body += "\n\nPuedes apelar esta sanción con el comando `/appeal`."
	}
	if err := d.platform.NotifyUser(userID, title, body); err != nil {
		metrics.NotifyFailures.Inc()
		logger.Get().Debug(fmt.Sprintf("No se pudo notificar a %s: %v", userID, err), "GUARD")
		return false
	}
	return true
}

func (d *Dispatcher) alert(guildID string, cfg *models.GuildConfig, title, body string) {
	if cfg == nil || !cfg.Logging.Enabled || cfg.Logging.ChannelID == "" || !cfg.Logging.LogActions {
		return
	}
	if err := d.platform.SendAlert(guildID, cfg.Logging.ChannelID, title, body); err != nil {
		logger.Get().Debug(fmt.Sprintf("No se pudo enviar la alerta a <#%s>: %v", cfg.Logging.ChannelID, err), "GUARD")
	}
}

// retryOnce ejecuta op y reintenta una sola vez si el fallo es transitorio.
// El error devuelto ya viene clasificado.
func (d *Dispatcher) retryOnce(op func() error) error {
	err := op()
	if err == nil {
		return nil
	}
	classified := errors.Classify(err)
	if !errors.IsTransient(classified) {
		return classified
	}
	time.Sleep(retryBackoff)
	if err := op(); err != nil {
		return errors.Classify(err)
	}
	return nil
}

func mergeOutcome(base, applied *Outcome) *Outcome {
	if applied == nil {
		return base
	}
	applied.Purged = base.Purged
	return applied
}

func reasonOrDefault(reason string) string {
	if strings.TrimSpace(reason) == "" {
		return "Sin razón especificada"
	}
	return reason
}

func originOf(moderatorID string) string {
	if moderatorID == SystemModeratorID {
		return "automod"
	}
	return "manual"
}

func clampPurgeDays(days int) int {
	if days < 0 {
		return 0
	}
	if days > 7 {
		return 7
	}
	return days
}
