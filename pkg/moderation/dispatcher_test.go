package moderation

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/automod"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
)

var dispatchBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fakePlatform implementa Platform en memoria y registra el orden de los
// efectos en calls.
type fakePlatform struct {
	systemID   string
	ownerID    string
	guildName  string
	mutedRole  string
	ranks      map[string]int
	caps       map[string]map[Capability]bool
	roles      map[string]map[string]bool
	members    map[string]bool
	auditActor string

	calls       []string
	alertBodies []string
	dms         []string
	revoked     int

	kickErr     error
	kickErrOnce bool
	banErr      error
	unbanErr    error
	dmErr       error
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		systemID:  "bot",
		ownerID:   "owner",
		guildName: "Servidor de Pruebas",
		mutedRole: "muted-role",
		ranks:     map[string]int{"bot": 50, "mod": 10, "target": 1, "owner": 40},
		caps: map[string]map[Capability]bool{
			"bot": {
				CapBanMembers:      true,
				CapKickMembers:     true,
				CapModerateMembers: true,
				CapManageMessages:  true,
				CapManageRoles:     true,
			},
		},
		roles:   map[string]map[string]bool{},
		members: map[string]bool{"bot": true, "mod": true, "target": true, "owner": true},
	}
}

func (f *fakePlatform) SystemUserID() string                { return f.systemID }
func (f *fakePlatform) GuildExists(string) bool             { return true }
func (f *fakePlatform) MemberExists(_, id string) bool      { return f.members[id] }
func (f *fakePlatform) GuildOwnerID(string) (string, error) { return f.ownerID, nil }
func (f *fakePlatform) GuildName(string) string             { return f.guildName }

func (f *fakePlatform) MemberRank(_, userID string) (int, error) {
	if r, ok := f.ranks[userID]; ok {
		return r, nil
	}
	return -1, nil
}

func (f *fakePlatform) MemberCapabilities(_, userID string) (map[Capability]bool, error) {
	return f.caps[userID], nil
}

func (f *fakePlatform) MemberHasRole(_, userID, roleID string) bool {
	return f.roles[userID][roleID]
}

func (f *fakePlatform) EnsureMutedRole(string) (string, error) { return f.mutedRole, nil }

func (f *fakePlatform) MutedRoleID(string) (string, bool) {
	return f.mutedRole, f.mutedRole != ""
}

func (f *fakePlatform) AddRole(_, userID, roleID, _ string) error {
	if f.roles[userID] == nil {
		f.roles[userID] = map[string]bool{}
	}
	f.roles[userID][roleID] = true
	f.calls = append(f.calls, "addrole:"+userID)
	return nil
}

func (f *fakePlatform) RemoveRole(_, userID, roleID, _ string) error {
	delete(f.roles[userID], roleID)
	f.calls = append(f.calls, "removerole:"+userID)
	return nil
}

func (f *fakePlatform) Kick(_, userID, _ string) error {
	if f.kickErr != nil {
		err := f.kickErr
		if f.kickErrOnce {
			f.kickErr = nil
		}
		return err
	}
	delete(f.members, userID)
	f.calls = append(f.calls, "kick:"+userID)
	return nil
}

func (f *fakePlatform) Ban(_, userID string, _ int, _ string) error {
	if f.banErr != nil {
		return f.banErr
	}
	f.calls = append(f.calls, "ban:"+userID)
	return nil
}

func (f *fakePlatform) Unban(_, userID, _ string) error {
	if f.unbanErr != nil {
		return f.unbanErr
	}
	f.calls = append(f.calls, "unban:"+userID)
	return nil
}

func (f *fakePlatform) DeleteMessage(_, _ string) error { return nil }

func (f *fakePlatform) PurgeUserMessages(_, _ string, limit int) (int, error) {
	f.calls = append(f.calls, fmt.Sprintf("purge:%d", limit))
	return limit, nil
}

func (f *fakePlatform) RevokeInvites(string, string) (int, error) {
	f.revoked++
	f.calls = append(f.calls, "revoke")
	return 3, nil
}

func (f *fakePlatform) NotifyUser(userID, title, _ string) error {
	if f.dmErr != nil {
		return f.dmErr
	}
	f.dms = append(f.dms, userID+":"+title)
	f.calls = append(f.calls, "dm:"+userID)
	return nil
}

func (f *fakePlatform) SendAlert(_, channelID, title, body string) error {
	f.calls = append(f.calls, "alert:"+channelID+":"+title)
	f.alertBodies = append(f.alertBodies, body)
	return nil
}

func (f *fakePlatform) RecentAuditActor(string, automod.Category) (string, bool) {
	return f.auditActor, f.auditActor != ""
}

// fakeRecords implementa Records en memoria.
type fakeRecords struct {
	infractions []*models.Infraction
	sanctions   []*models.Sanction
	actions     []*models.ActionLog
	events      []*models.AutomodEvent
	nextID      int

	infractionErr error
	sanctionErr   error
}

func (r *fakeRecords) id() string {
	r.nextID++
	return fmt.Sprintf("id-%d", r.nextID)
}

func (r *fakeRecords) AddInfraction(inf *models.Infraction) (*models.Infraction, error) {
	if r.infractionErr != nil {
		return nil, r.infractionErr
	}
	cp := *inf
	if cp.ID == "" {
		cp.ID = r.id()
	}
	cp.Active = true
	r.infractions = append(r.infractions, &cp)
	return &cp, nil
}

func (r *fakeRecords) DeactivateInfraction(id string) (bool, error) {
	for _, inf := range r.infractions {
		if inf.ID == id && inf.Active {
			inf.Active = false
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRecords) DeactivateUserInfractions(guildID, userID string, types []models.InfractionType) (int64, error) {
	var n int64
	for _, inf := range r.infractions {
		if inf.GuildID != guildID || inf.UserID != userID || !inf.Active {
			continue
		}
		for _, ty := range types {
			if inf.Type == ty {
				inf.Active = false
				n++
				break
			}
		}
	}
	return n, nil
}

func (r *fakeRecords) DeactivateExpiredInfractions(now time.Time) (int64, error) {
	var n int64
	for _, inf := range r.infractions {
		if inf.Active && !inf.ExpiresAt.IsZero() && !inf.ExpiresAt.After(now) {
			inf.Active = false
			n++
		}
	}
	return n, nil
}

func (r *fakeRecords) AddSanction(s *models.Sanction) (*models.Sanction, error) {
	if r.sanctionErr != nil {
		return nil, r.sanctionErr
	}
	cp := *s
	if cp.ID == "" {
		cp.ID = r.id()
	}
	cp.Active = true
	r.sanctions = append(r.sanctions, &cp)
	return &cp, nil
}

func (r *fakeRecords) DeactivateSanction(id string) (bool, error) {
	for _, s := range r.sanctions {
		if s.ID == id && s.Active {
			s.Active = false
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRecords) DeactivateUserSanctions(guildID, userID string, kind models.SanctionKind) (int64, error) {
	var n int64
	for _, s := range r.sanctions {
		if s.GuildID == guildID && s.UserID == userID && s.Kind == kind && s.Active {
			s.Active = false
			n++
		}
	}
	return n, nil
}

func (r *fakeRecords) ExpiredSanctions(kind models.SanctionKind, now time.Time) ([]*models.Sanction, error) {
	var out []*models.Sanction
	for _, s := range r.sanctions {
		if s.Kind == kind && s.Active && s.Expired(now) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRecords) LogModAction(l *models.ActionLog) error {
	r.actions = append(r.actions, l)
	return nil
}

func (r *fakeRecords) LogAutomodEvent(e *models.AutomodEvent) error {
	r.events = append(r.events, e)
	return nil
}

func (r *fakeRecords) DeleteInactiveInfractionsBefore(cutoff time.Time) (int64, error) {
	var kept []*models.Infraction
	var n int64
	for _, inf := range r.infractions {
		if !inf.Active && inf.CreatedAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, inf)
	}
	r.infractions = kept
	return n, nil
}

func (r *fakeRecords) DeleteAutomodEventsBefore(cutoff time.Time) (int64, error) {
	var kept []*models.AutomodEvent
	var n int64
	for _, e := range r.events {
		if e.CreatedAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, e)
	}
	r.events = kept
	return n, nil
}

func newTestDispatcher() (*Dispatcher, *fakePlatform, *fakeRecords) {
	p := newFakePlatform()
	r := &fakeRecords{}
	d := NewDispatcher(p, r)
	d.now = func() time.Time { return dispatchBase }
	return d, p, r
}

func zeroBackoff(t *testing.T) {
	t.Helper()
	old := retryBackoff
	retryBackoff = 0
	t.Cleanup(func() { retryBackoff = old })
}

func spamVerdict() automod.Verdict {
	return automod.Verdict{
		Violation:  true,
		Category:   automod.CategorySpam,
		Reason:     "Spam detectado: 5 mensajes en 5s",
		Action:     models.ActionMute,
		Duration:   5 * time.Minute,
		PurgeCount: 5,
	}
}

func TestEnforceMuteCreatesSanction(t *testing.T) {
	d, p, r := newTestDispatcher()
	cfg := models.DefaultGuildConfig("g1")

	out, err := d.Enforce("g1", "chan", "target", spamVerdict(), cfg)
	if err != nil {
		t.Fatalf("Enforce: %v", err)
	}
	if !out.Applied {
		t.Fatal("Applied = false")
	}
	if out.Purged != 5 {
		t.Errorf("Purged = %d, want 5", out.Purged)
	}
	if !p.roles["target"]["muted-role"] {
		t.Error("el rol de silencio no se asignó")
	}

	if len(r.sanctions) != 1 {
		t.Fatalf("sanciones = %d, want 1", len(r.sanctions))
	}
	s := r.sanctions[0]
	if s.Kind != models.SanctionMute || !s.Active || s.ModeratorID != SystemModeratorID {
		t.Errorf("sanción inesperada: %+v", s)
	}
	if want := dispatchBase.Add(5 * time.Minute); !s.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", s.ExpiresAt, want)
	}

	if len(r.infractions) != 1 || r.infractions[0].Type != models.InfractionMute {
		t.Errorf("infracciones inesperadas: %+v", r.infractions)
	}
	if len(r.events) != 1 || r.events[0].Category != string(automod.CategorySpam) {
		t.Errorf("eventos inesperados: %+v", r.events)
	}
	if !out.Notified || len(p.dms) != 1 || p.dms[0] != "target:🔇 Silencio" {
		t.Errorf("notificación inesperada: %v", p.dms)
	}
	// Las acciones del automod no generan entrada en el log de moderadores
	if len(r.actions) != 0 {
		t.Errorf("acciones manuales = %d, want 0", len(r.actions))
	}
}

func TestEnforceGateDeniesOwnerTarget(t *testing.T) {
	d, p, r := newTestDispatcher()
	cfg := models.DefaultGuildConfig("g1")

	out, err := d.Enforce("g1", "chan", "owner", spamVerdict(), cfg)
	if err != nil {
		t.Fatalf("Enforce: %v", err)
	}
	if out.Applied {
		t.Error("Applied = true para el dueño")
	}
	if out.DenyMessage == "" {
		t.Error("DenyMessage vacío")
	}
	if len(p.calls) != 0 {
		t.Errorf("hubo efectos de plataforma: %v", p.calls)
	}
	// El veredicto queda registrado aunque la sanción no proceda
	if len(r.events) != 1 {
		t.Errorf("eventos = %d, want 1", len(r.events))
	}
	if len(r.sanctions) != 0 || len(r.infractions) != 0 {
		t.Error("se persistió una sanción pese al rechazo")
	}
}

func TestEnforceGateDeniesTargetAboveBot(t *testing.T) {
	d, p, _ := newTestDispatcher()
	p.ranks["target"] = 100
	cfg := models.DefaultGuildConfig("g1")

	out, err := d.Enforce("g1", "chan", "target", spamVerdict(), cfg)
	if err != nil {
		t.Fatalf("Enforce: %v", err)
	}
	if out.Applied || out.DenyMessage == "" {
		t.Errorf("out = %+v, quería un rechazo", out)
	}
}

func TestEnforceCleanVerdictIsNoop(t *testing.T) {
	d, p, r := newTestDispatcher()
	out, err := d.Enforce("g1", "chan", "target", automod.Verdict{}, models.DefaultGuildConfig("g1"))
	if err != nil {
		t.Fatalf("Enforce: %v", err)
	}
	if out.Applied || len(p.calls) != 0 || len(r.events) != 0 {
		t.Error("un veredicto limpio produjo efectos")
	}
}

func TestEnforceDeleteOnlyPurges(t *testing.T) {
	d, _, r := newTestDispatcher()
	v := automod.Verdict{
		Violation:  true,
		Category:   automod.CategorySpam,
		Reason:     "Spam detectado",
		Action:     models.ActionDelete,
		PurgeCount: 5,
	}
	out, err := d.Enforce("g1", "chan", "target", v, models.DefaultGuildConfig("g1"))
	if err != nil {
		t.Fatalf("Enforce: %v", err)
	}
	if !out.Applied || out.Purged != 5 {
		t.Errorf("out = %+v", out)
	}
	if len(r.infractions) != 0 || len(r.sanctions) != 0 {
		t.Error("delete no debe dejar sanciones")
	}
	if len(r.events) != 1 {
		t.Errorf("eventos = %d, want 1", len(r.events))
	}
}

func TestWarnRecordsAndLogs(t *testing.T) {
	d, p, r := newTestDispatcher()
	cfg := models.DefaultGuildConfig("g1")

	out, err := d.Warn("g1", "target", "mod", "flood en #general", cfg)
	if err != nil {
		t.Fatalf("Warn: %v", err)
	}
	if !out.Applied || out.Infraction == nil || out.Infraction.Type != models.InfractionWarn {
		t.Errorf("out = %+v", out)
	}
	if len(r.actions) != 1 || r.actions[0].Action != "warn" || r.actions[0].ModeratorID != "mod" {
		t.Errorf("log de acción inesperado: %+v", r.actions)
	}
	if len(p.dms) != 1 || !strings.HasPrefix(p.dms[0], "target:") {
		t.Errorf("DM inesperado: %v", p.dms)
	}
}

func TestWarnEmptyReasonGetsDefault(t *testing.T) {
	d, _, r := newTestDispatcher()
	if _, err := d.Warn("g1", "target", "mod", "  ", models.DefaultGuildConfig("g1")); err != nil {
		t.Fatalf("Warn: %v", err)
	}
	if r.infractions[0].Reason != "Sin razón especificada" {
		t.Errorf("Reason = %q", r.infractions[0].Reason)
	}
}

func TestMuteThenUnmute(t *testing.T) {
	d, p, r := newTestDispatcher()
	cfg := models.DefaultGuildConfig("g1")

	if _, err := d.Mute("g1", "target", "mod", "spam", 10*time.Minute, cfg); err != nil {
		t.Fatalf("Mute: %v", err)
	}
	out, err := d.Unmute("g1", "target", "mod", "apelación aceptada")
	if err != nil {
		t.Fatalf("Unmute: %v", err)
	}
	if !out.Applied {
		t.Fatal("Applied = false")
	}
	if p.roles["target"]["muted-role"] {
		t.Error("el rol de silencio sigue puesto")
	}
	if r.sanctions[0].Active || r.infractions[0].Active {
		t.Error("los registros siguen activos tras el unmute")
	}

	// Repetir la reversión sobre un usuario limpio es un error de uso
	if _, err := d.Unmute("g1", "target", "mod", ""); err == nil {
		t.Error("el segundo Unmute no devolvió error")
	}
}

func TestUnmuteDepartedMemberStillDeactivates(t *testing.T) {
	d, p, r := newTestDispatcher()
	cfg := models.DefaultGuildConfig("g1")

	if _, err := d.Mute("g1", "target", "mod", "spam", 10*time.Minute, cfg); err != nil {
		t.Fatalf("Mute: %v", err)
	}
	// El usuario se va del servidor y pierde sus roles
	delete(p.roles, "target")
	delete(p.members, "target")
	calls := len(p.calls)

	out, err := d.Unmute("g1", "target", "mod", "")
	if err != nil {
		t.Fatalf("Unmute: %v", err)
	}
	if !out.Applied {
		t.Fatal("Applied = false")
	}
	if r.sanctions[0].Active {
		t.Error("la sanción sigue activa")
	}
	for _, c := range p.calls[calls:] {
		if strings.HasPrefix(c, "removerole:") {
			t.Error("se intentó quitar un rol a un miembro ausente")
		}
	}
}

func TestKickNotifiesBeforeKicking(t *testing.T) {
	d, p, r := newTestDispatcher()
	out, err := d.Kick("g1", "target", "mod", "troll", models.DefaultGuildConfig("g1"))
	if err != nil {
		t.Fatalf("Kick: %v", err)
	}
	if !out.Applied {
		t.Fatal("Applied = false")
	}
	if got := strings.Join(p.calls, ","); got != "dm:target,kick:target" {
		t.Errorf("orden de efectos = %q, want dm antes del kick", got)
	}
	if len(r.infractions) != 1 || r.infractions[0].Type != models.InfractionKick {
		t.Errorf("infracciones = %+v", r.infractions)
	}
}

func TestKickFailureRollsBackInfraction(t *testing.T) {
	d, p, r := newTestDispatcher()
	p.kickErr = errors.New("falló de verdad")

	if _, err := d.Kick("g1", "target", "mod", "troll", models.DefaultGuildConfig("g1")); err == nil {
		t.Fatal("Kick no devolvió error")
	}
	if len(r.infractions) != 1 || r.infractions[0].Active {
		t.Errorf("la infracción fantasma sigue activa: %+v", r.infractions)
	}
}

func TestKickRetriesTransientFailure(t *testing.T) {
	zeroBackoff(t)
	d, p, _ := newTestDispatcher()
	p.kickErr = fmt.Errorf("%w: rate limit", errors.ErrPlatformTransient)
	p.kickErrOnce = true

	out, err := d.Kick("g1", "target", "mod", "troll", models.DefaultGuildConfig("g1"))
	if err != nil {
		t.Fatalf("Kick: %v", err)
	}
	if !out.Applied {
		t.Error("Applied = false tras el reintento")
	}
}

func TestKickGoneMemberTreatedAsDone(t *testing.T) {
	d, p, r := newTestDispatcher()
	p.kickErr = fmt.Errorf("%w: 404", errors.ErrNotFound)

	out, err := d.Kick("g1", "target", "mod", "troll", models.DefaultGuildConfig("g1"))
	if err != nil {
		t.Fatalf("Kick: %v", err)
	}
	if !out.Applied {
		t.Error("Applied = false para un miembro ya ausente")
	}
	if len(r.infractions) != 1 || !r.infractions[0].Active {
		t.Error("la infracción no quedó registrada")
	}
}

func TestTempBanCreatesSanction(t *testing.T) {
	d, p, r := newTestDispatcher()
	out, err := d.Ban("g1", "target", "mod", "raid", 3, 2*time.Hour, models.DefaultGuildConfig("g1"))
	if err != nil {
		t.Fatalf("Ban: %v", err)
	}
	if !out.Applied || out.Sanction == nil {
		t.Fatalf("out = %+v", out)
	}
	if out.Sanction.Kind != models.SanctionTempBan {
		t.Errorf("Kind = %q", out.Sanction.Kind)
	}
	if want := dispatchBase.Add(2 * time.Hour); !out.Sanction.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", out.Sanction.ExpiresAt, want)
	}
	if r.infractions[0].Type != models.InfractionTempBan {
		t.Errorf("Type = %q", r.infractions[0].Type)
	}
	if len(r.actions) != 1 || r.actions[0].Action != "tempban" {
		t.Errorf("acción = %+v", r.actions)
	}
	if !strings.Contains(strings.Join(p.calls, ","), "ban:target") {
		t.Errorf("no se ejecutó el ban: %v", p.calls)
	}
}

func TestPermanentBanHasNoSanction(t *testing.T) {
	d, _, r := newTestDispatcher()
	out, err := d.Ban("g1", "target", "mod", "raid", 0, 0, models.DefaultGuildConfig("g1"))
	if err != nil {
		t.Fatalf("Ban: %v", err)
	}
	if out.Sanction != nil || len(r.sanctions) != 0 {
		t.Error("un ban permanente no lleva fila de sanción")
	}
	if r.infractions[0].Type != models.InfractionBan {
		t.Errorf("Type = %q", r.infractions[0].Type)
	}
}

func TestBanFailureRollsBackInfraction(t *testing.T) {
	d, p, r := newTestDispatcher()
	p.banErr = errors.New("sin permisos")

	if _, err := d.Ban("g1", "target", "mod", "raid", 0, time.Hour, models.DefaultGuildConfig("g1")); err == nil {
		t.Fatal("Ban no devolvió error")
	}
	if len(r.sanctions) != 0 {
		t.Error("se persistió la sanción de un ban fallido")
	}
	if r.infractions[0].Active {
		t.Error("la infracción fantasma sigue activa")
	}
}

func TestUnbanDeactivatesAllBanRecords(t *testing.T) {
	d, _, r := newTestDispatcher()
	cfg := models.DefaultGuildConfig("g1")

	if _, err := d.Ban("g1", "target", "mod", "raid", 0, time.Hour, cfg); err != nil {
		t.Fatalf("Ban: %v", err)
	}
	// Registro duplicado: un ban permanente previo que nadie cerró
	if _, err := r.AddInfraction(&models.Infraction{
		GuildID: "g1", UserID: "target", ModeratorID: "otro",
		Type: models.InfractionBan, Reason: "antiguo", CreatedAt: dispatchBase,
	}); err != nil {
		t.Fatalf("AddInfraction: %v", err)
	}

	out, err := d.Unban("g1", "target", "mod", "apelación aceptada")
	if err != nil {
		t.Fatalf("Unban: %v", err)
	}
	if !out.Applied {
		t.Fatal("Applied = false")
	}
	for _, inf := range r.infractions {
		if inf.Active {
			t.Errorf("infracción %s sigue activa", inf.ID)
		}
	}
	for _, s := range r.sanctions {
		if s.Active {
			t.Errorf("sanción %s sigue activa", s.ID)
		}
	}
}

func TestUnbanUnknownUserIsError(t *testing.T) {
	d, p, _ := newTestDispatcher()
	p.unbanErr = fmt.Errorf("%w: 404", errors.ErrNotFound)

	if _, err := d.Unban("g1", "desconocido", "mod", ""); err == nil {
		t.Error("Unban de un usuario sin veto no devolvió error")
	}
}

func TestHandleRaidRevokesInvitesOnLockdown(t *testing.T) {
	d, p, r := newTestDispatcher()
	cfg := models.DefaultGuildConfig("g1")
	cfg.Logging.ChannelID = "log-chan"

	v := automod.Verdict{
		Violation: true,
		Category:  automod.CategoryJoinRaid,
		Reason:    "Posible raid: 10 entradas en 60s",
		Lockdown:  true,
	}
	out, err := d.HandleRaid("g1", v, cfg)
	if err != nil {
		t.Fatalf("HandleRaid: %v", err)
	}
	if out.RevokedInvites != 3 {
		t.Errorf("RevokedInvites = %d, want 3", out.RevokedInvites)
	}
	joined := strings.Join(p.calls, ",")
	if !strings.Contains(joined, "revoke") || !strings.Contains(joined, "alert:log-chan") {
		t.Errorf("efectos = %q", joined)
	}
	if len(r.events) != 1 || r.events[0].Category != string(automod.CategoryJoinRaid) {
		t.Errorf("eventos = %+v", r.events)
	}
}

func TestHandleRaidWithoutLockdownOnlyAlerts(t *testing.T) {
	d, p, _ := newTestDispatcher()
	cfg := models.DefaultGuildConfig("g1")
	cfg.Logging.ChannelID = "log-chan"

	v := automod.Verdict{Violation: true, Category: automod.CategoryJoinRaid, Reason: "Posible raid"}
	out, err := d.HandleRaid("g1", v, cfg)
	if err != nil {
		t.Fatalf("HandleRaid: %v", err)
	}
	if out.RevokedInvites != 0 || p.revoked != 0 {
		t.Error("se revocaron invitaciones sin bloqueo automático")
	}
}

func TestHandleNukeNamesAuditActor(t *testing.T) {
	d, p, r := newTestDispatcher()
	p.auditActor = "nuker"
	cfg := models.DefaultGuildConfig("g1")
	cfg.Logging.ChannelID = "log-chan"

	v := automod.Verdict{
		Violation: true,
		Category:  automod.CategoryChannelNuke,
		Reason:    "Cambio masivo de canales: 5 en 60s",
	}
	if _, err := d.HandleNuke("g1", v, cfg); err != nil {
		t.Fatalf("HandleNuke: %v", err)
	}
	if len(p.alertBodies) != 1 || !strings.Contains(p.alertBodies[0], "<@nuker>") {
		t.Errorf("la alerta no nombra al responsable: %v", p.alertBodies)
	}
	if r.events[0].UserID != "nuker" {
		t.Errorf("UserID del evento = %q", r.events[0].UserID)
	}
}

func TestHandleNukeUnknownActor(t *testing.T) {
	d, p, _ := newTestDispatcher()
	cfg := models.DefaultGuildConfig("g1")
	cfg.Logging.ChannelID = "log-chan"

	v := automod.Verdict{Violation: true, Category: automod.CategoryRoleNuke, Reason: "Cambio masivo de roles"}
	if _, err := d.HandleNuke("g1", v, cfg); err != nil {
		t.Fatalf("HandleNuke: %v", err)
	}
	if len(p.alertBodies) != 1 || !strings.Contains(p.alertBodies[0], "No se pudo identificar") {
		t.Errorf("alerta = %v", p.alertBodies)
	}
}

func TestNotificationFailureNeverRollsBack(t *testing.T) {
	d, p, r := newTestDispatcher()
	p.dmErr = errors.New("DMs cerrados")

	out, err := d.Warn("g1", "target", "mod", "spam", models.DefaultGuildConfig("g1"))
	if err != nil {
		t.Fatalf("Warn: %v", err)
	}
	if out.Notified {
		t.Error("Notified = true con los DMs cerrados")
	}
	if len(r.infractions) != 1 || !r.infractions[0].Active {
		t.Error("la advertencia no quedó registrada")
	}
}

func TestNotifyDisabledByConfig(t *testing.T) {
	d, p, _ := newTestDispatcher()
	cfg := models.DefaultGuildConfig("g1")
	cfg.Messaging.NotifyOnAction = false

	out, err := d.Warn("g1", "target", "mod", "spam", cfg)
	if err != nil {
		t.Fatalf("Warn: %v", err)
	}
	if out.Notified || len(p.dms) != 0 {
		t.Error("se envió un DM con las notificaciones apagadas")
	}
}

func TestClampPurgeDays(t *testing.T) {
	tests := []struct{ in, want int }{{-1, 0}, {0, 0}, {3, 3}, {7, 7}, {30, 7}}
	for _, tt := range tests {
		if got := clampPurgeDays(tt.in); got != tt.want {
			t.Errorf("clampPurgeDays(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
