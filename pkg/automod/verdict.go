package automod

import (
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
)

// Category identifies the abuse class a verdict belongs to
type Category string

const (
	CategorySpam        Category = "spam"
	CategoryLink        Category = "link"
	CategoryInvite      Category = "invite"
	CategoryWord        Category = "word"
	CategoryAttachment  Category = "attachment"
	CategoryJoinRaid    Category = "join_raid"
	CategoryChannelNuke Category = "channel_nuke"
	CategoryRoleNuke    Category = "role_nuke"
)

// Verdict is the result of classifying one event. The zero value means the
// event is clean. Classifiers only describe what happened and what the guild
// policy recommends; persistence, notification and the platform side effect
// happen downstream in the dispatcher.
type Verdict struct {
	Violation bool
	Category  Category

	// Reason es el texto que aparece en logs y notificaciones al usuario
	Reason string

	// Action is the enforcement the guild policy configured for the category
	Action models.ActionType

	// Duration bounds time-limited actions. Zero means permanent.
	Duration time.Duration

	// Evidence holds the surviving window payloads or matched fragments
	Evidence []string

	// PurgeCount asks the dispatcher to remove that many recent messages
	// of the subject in the originating channel
	PurgeCount int

	// Lockdown asks the dispatcher to revoke the guild's invites
	Lockdown bool
}

// Clean returns the no-violation verdict
func Clean() Verdict {
	return Verdict{}
}
