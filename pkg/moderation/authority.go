package moderation

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
)

// Capability nombra un permiso de plataforma que una acción exige al actor.
type Capability string

const (
	CapBanMembers      Capability = "ban_members"
	CapKickMembers     Capability = "kick_members"
	CapModerateMembers Capability = "moderate_members"
	CapManageMessages  Capability = "manage_messages"
	CapManageChannels  Capability = "manage_channels"
	CapManageRoles     Capability = "manage_roles"
)

// Label returns the human readable Spanish name shown in denial messages
func (c Capability) Label() string {
	switch c {
	case CapBanMembers:
		return "Banear miembros"
	case CapKickMembers:
		return "Expulsar miembros"
	case CapModerateMembers:
		return "Moderar miembros"
	case CapManageMessages:
		return "Gestionar mensajes"
	case CapManageChannels:
		return "Gestionar canales"
	case CapManageRoles:
		return "Gestionar roles"
	}
	return string(c)
}

// actionCapabilities maps each moderation action to the capabilities the
// acting moderator must hold. The automated actor is checked against the
// same table with the bot's own permissions.
var actionCapabilities = map[string][]Capability{
	"ban":         {CapBanMembers},
	"tempban":     {CapBanMembers},
	"unban":       {CapBanMembers},
	"kick":        {CapKickMembers},
	"mute":        {CapModerateMembers},
	"unmute":      {CapModerateMembers},
	"warn":        {CapKickMembers},
	"removewarn":  {CapKickMembers},
	"warnings":    {CapKickMembers},
	"infractions": {CapKickMembers},
	"purge":       {CapManageMessages},
	"slowmode":    {CapManageChannels},
	"lock":        {CapManageChannels},
	"unlock":      {CapManageChannels},
}

// RequiredFor returns the capabilities an action demands, or nil when the
// action carries no capability requirement.
func RequiredFor(action string) []Capability {
	return actionCapabilities[action]
}

// DenyReason clasifica por qué la puerta de autoridad rechazó una acción.
type DenyReason string

const (
	DenySelfTarget             DenyReason = "self_target"
	DenyTargetIsOwner          DenyReason = "target_is_owner"
	DenyInsufficientRank       DenyReason = "insufficient_rank"
	DenySystemInsufficientRank DenyReason = "system_insufficient_rank"
	DenyMissingCapability      DenyReason = "missing_capability"
)

// AuthRequest reúne todo lo que la puerta necesita para decidir. Los rangos
// son posiciones de rol; el actor automático usa el rango del propio bot.
type AuthRequest struct {
	ActorID        string
	TargetID       string
	OwnerID        string
	ActorRank      int
	TargetRank     int
	SystemRank     int
	SuperAdmin     bool
	HierarchyCheck bool
	Capabilities   map[Capability]bool
	Required       []Capability
}

// Result es la decisión de la puerta. Message se muestra tal cual al actor
// cuando Allowed es false.
type Result struct {
	Allowed bool
	Reason  DenyReason
	Message string
}

// Err converts a denial into a HierarchyError. Returns nil when allowed.
func (r Result) Err() error {
	if r.Allowed {
		return nil
	}
	return errors.NewHierarchyError(string(r.Reason), "%s", r.Message)
}

func deny(reason DenyReason, format string, args ...interface{}) Result {
	return Result{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// Authorize evalúa las reglas de autoridad en orden fijo. La primera regla
// que aplica decide; un super admin global salta todas las comprobaciones.
func Authorize(req AuthRequest) Result {
	if req.SuperAdmin {
		return Result{Allowed: true}
	}
	if req.ActorID != "" && req.ActorID == req.TargetID {
		return deny(DenySelfTarget, "No puedes aplicarte acciones de moderación a ti mismo")
	}
	if req.OwnerID != "" && req.TargetID == req.OwnerID {
		return deny(DenyTargetIsOwner, "No se pueden aplicar acciones de moderación al dueño del servidor")
	}
	if req.HierarchyCheck && req.ActorRank <= req.TargetRank {
		return deny(DenyInsufficientRank, "No puedes sancionar a ese usuario: su rol es igual o superior al tuyo")
	}
	if req.SystemRank <= req.TargetRank {
		return deny(DenySystemInsufficientRank, "No puedo sancionar a ese usuario: su rol es igual o superior al mío")
	}
	if missing := missingCapabilities(req.Capabilities, req.Required); len(missing) > 0 {
		return deny(DenyMissingCapability, "Faltan permisos para esta acción: %s", joinLabels(missing))
	}
	return Result{Allowed: true}
}

func missingCapabilities(held map[Capability]bool, required []Capability) []Capability {
	var missing []Capability
	for _, c := range required {
		if !held[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

func joinLabels(caps []Capability) string {
	labels := make([]string, len(caps))
	for i, c := range caps {
		labels[i] = c.Label()
	}
	return strings.Join(labels, ", ")
}
