package models

import "time"

// ActionType is the enforcement action configured for an automod category
type ActionType string

const (
	ActionDelete ActionType = "delete"
	ActionWarn   ActionType = "warn"
	ActionMute   ActionType = "mute"
	ActionKick   ActionType = "kick"
	ActionBan    ActionType = "ban"
)

// SpamConfig controls the near-duplicate flood detector
type SpamConfig struct {
	Enabled         bool       `bson:"enabled" json:"enabled"`
	MaxMessages     int        `bson:"max_messages" json:"maxMessages" validate:"min=2,max=50"`
	WindowSeconds   int        `bson:"window_seconds" json:"windowSeconds" validate:"min=1,max=3600"`
	Action          ActionType `bson:"action" json:"action" validate:"oneof=delete warn mute kick ban"`
	DurationSeconds int64      `bson:"duration_seconds" json:"durationSeconds" validate:"min=0"`
}

// LinkFilterConfig controls the URL filter. BlockedDomains always fires;
// AllowedDomains, when non-empty, turns the filter into an allow list.
type LinkFilterConfig struct {
	Enabled         bool       `bson:"enabled" json:"enabled"`
	BlockedDomains  []string   `bson:"blocked_domains" json:"blockedDomains"`
	AllowedDomains  []string   `bson:"allowed_domains" json:"allowedDomains"`
	Action          ActionType `bson:"action" json:"action" validate:"oneof=delete warn mute kick ban"`
	DurationSeconds int64      `bson:"duration_seconds" json:"durationSeconds" validate:"min=0"`
}

// InviteFilterConfig controls the server-invite filter
type InviteFilterConfig struct {
	Enabled         bool       `bson:"enabled" json:"enabled"`
	AllowedCodes    []string   `bson:"allowed_codes" json:"allowedCodes"`
	Action          ActionType `bson:"action" json:"action" validate:"oneof=delete warn mute kick ban"`
	DurationSeconds int64      `bson:"duration_seconds" json:"durationSeconds" validate:"min=0"`
}

// WordFilterConfig controls the blocked-word filter
type WordFilterConfig struct {
	Enabled         bool       `bson:"enabled" json:"enabled"`
	BlockedWords    []string   `bson:"blocked_words" json:"blockedWords"`
	Action          ActionType `bson:"action" json:"action" validate:"oneof=delete warn mute kick ban"`
	DurationSeconds int64      `bson:"duration_seconds" json:"durationSeconds" validate:"min=0"`
}

// AttachmentFilterConfig controls the attachment filter
type AttachmentFilterConfig struct {
	Enabled           bool       `bson:"enabled" json:"enabled"`
	BlockedExtensions []string   `bson:"blocked_extensions" json:"blockedExtensions"`
	MaxSizeBytes      int64      `bson:"max_size_bytes" json:"maxSizeBytes" validate:"min=0"`
	Action            ActionType `bson:"action" json:"action" validate:"oneof=delete warn mute kick ban"`
	DurationSeconds   int64      `bson:"duration_seconds" json:"durationSeconds" validate:"min=0"`
}

// AntiRaidConfig controls the mass-join detector
type AntiRaidConfig struct {
	Enabled       bool `bson:"enabled" json:"enabled"`
	JoinThreshold int  `bson:"join_threshold" json:"joinThreshold" validate:"min=2,max=100"`
	WindowSeconds int  `bson:"window_seconds" json:"windowSeconds" validate:"min=1,max=3600"`
	AutoLockdown  bool `bson:"auto_lockdown" json:"autoLockdown"`
}

// AntiNukeConfig controls the structural-change detector
type AntiNukeConfig struct {
	Enabled          bool `bson:"enabled" json:"enabled"`
	ChannelThreshold int  `bson:"channel_threshold" json:"channelThreshold" validate:"min=2,max=50"`
	RoleThreshold    int  `bson:"role_threshold" json:"roleThreshold" validate:"min=2,max=50"`
	WindowSeconds    int  `bson:"window_seconds" json:"windowSeconds" validate:"min=1,max=3600"`
}

// PermissionsConfig controls moderator-side authority checks
type PermissionsConfig struct {
	ModRoleID      string `bson:"mod_role_id" json:"modRoleId"`
	HierarchyCheck bool   `bson:"hierarchy_check" json:"hierarchyCheck"`
}

// MessagingConfig controls how sanctioned users are notified
type MessagingConfig struct {
	NotifyOnAction    bool `bson:"notify_on_action" json:"notifyOnAction"`
	IncludeAppealInfo bool `bson:"include_appeal_info" json:"includeAppealInfo"`
}

// LoggingConfig controls the moderation log channel and which event mirrors
// are written to it
type LoggingConfig struct {
	Enabled    bool   `bson:"enabled" json:"enabled"`
	ChannelID  string `bson:"channel_id" json:"channelId"`
	LogActions bool   `bson:"log_actions" json:"logActions"`
	LogDeletes bool   `bson:"log_deletes" json:"logDeletes"`
	LogEdits   bool   `bson:"log_edits" json:"logEdits"`
}

// GuildConfig es la política de moderación completa de un servidor.
// Cada sección tiene un valor por defecto seguro: un documento parcial o
// ausente nunca produce una referencia nil.
type GuildConfig struct {
	GuildID string `bson:"_id" json:"guildId"`

	// AutomodEnabled apaga todos los filtros de mensajes de golpe sin perder
	// la configuración por categoría
	AutomodEnabled bool `bson:"automod_enabled" json:"automodEnabled"`

	Spam        SpamConfig             `bson:"spam" json:"spam"`
	Links       LinkFilterConfig       `bson:"links" json:"links"`
	Invites     InviteFilterConfig     `bson:"invites" json:"invites"`
	Words       WordFilterConfig       `bson:"words" json:"words"`
	Attachments AttachmentFilterConfig `bson:"attachments" json:"attachments"`
	AntiRaid    AntiRaidConfig         `bson:"anti_raid" json:"antiRaid"`
	AntiNuke    AntiNukeConfig         `bson:"anti_nuke" json:"antiNuke"`
	Permissions PermissionsConfig      `bson:"permissions" json:"permissions"`
	Messaging   MessagingConfig        `bson:"messaging" json:"messaging"`
	Logging     LoggingConfig          `bson:"logging" json:"logging"`

	// EscalationEnabled está reservado: la escalada automática por número de
	// infracciones no está implementada y el flag no tiene efecto.
	EscalationEnabled bool `bson:"escalation_enabled" json:"escalationEnabled"`

	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// DefaultGuildConfig returns the compiled-in policy used when a guild has no
// stored configuration or a stored section is missing
func DefaultGuildConfig(guildID string) *GuildConfig {
	return &GuildConfig{
		GuildID:        guildID,
		AutomodEnabled: true,
		Spam: SpamConfig{
			Enabled:         true,
			MaxMessages:     5,
			WindowSeconds:   5,
			Action:          ActionMute,
			DurationSeconds: 300,
		},
		Links: LinkFilterConfig{
			Enabled:         true,
			Action:          ActionWarn,
			DurationSeconds: 300,
		},
		Invites: InviteFilterConfig{
			Enabled:         true,
			Action:          ActionDelete,
			DurationSeconds: 300,
		},
		Words: WordFilterConfig{
			Enabled:         true,
			Action:          ActionWarn,
			DurationSeconds: 300,
		},
		Attachments: AttachmentFilterConfig{
			Enabled:           false,
			BlockedExtensions: []string{".exe", ".bat", ".cmd", ".scr", ".com"},
			MaxSizeBytes:      8 * 1024 * 1024,
			Action:            ActionDelete,
			DurationSeconds:   300,
		},
		AntiRaid: AntiRaidConfig{
			Enabled:       true,
			JoinThreshold: 10,
			WindowSeconds: 60,
			AutoLockdown:  true,
		},
		AntiNuke: AntiNukeConfig{
			Enabled:          true,
			ChannelThreshold: 5,
			RoleThreshold:    5,
			WindowSeconds:    60,
		},
		Permissions: PermissionsConfig{
			HierarchyCheck: true,
		},
		Messaging: MessagingConfig{
			NotifyOnAction:    true,
			IncludeAppealInfo: true,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			LogActions: true,
		},
		UpdatedAt: time.Now(),
	}
}
