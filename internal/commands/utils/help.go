package utils

import (
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

// createHelpCommand creates the /utils help subcommand
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Muestra información de ayuda",
		"utils",
		helpHandler,
	)
}

// helpHandler handles the /utils help command
func helpHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		embed := &discordgo.MessageEmbed{
			Title: "📖 Ayuda de PancyGuard",
			Color: discord.ColorInfo,
			Fields: []*discordgo.MessageEmbedField{
				{
					Name: "🔨 Moderación",
					Value: "• `/mod ban <usuario> [razón] [días]` - Banea a un usuario\n" +
						"• `/mod tempban <usuario> <duración>` - Baneo temporal\n" +
						"• `/mod unban <id>` - Levanta un baneo\n" +
						"• `/mod kick <usuario> [razón]` - Expulsa a un usuario\n" +
						"• `/mod mute <usuario> [duración]` - Silencia a un usuario\n" +
						"• `/mod unmute <usuario>` - Retira el silencio\n" +
						"• `/mod warn <usuario> <razón>` - Advierte a un usuario\n" +
						"• `/mod warns [usuario]` - Lista las advertencias activas\n" +
						"• `/mod removewarn <usuario> <id>` - Elimina una advertencia\n" +
						"• `/mod infractions [usuario]` - Historial completo\n" +
						"• `/mod purge <cantidad> [usuario]` - Borra mensajes\n" +
						"• `/mod slowmode <segundos>` - Modo lento del canal\n" +
						"• `/mod lock` / `/mod unlock` - Bloquea el canal",
				},
				{
					Name: "⚙️ Configuración",
					Value: "• `/config ver` - Muestra la política del servidor\n" +
						"• `/config automod <on/off>` - Interruptor general\n" +
						"• `/config filtro <módulo>` - Ajusta un filtro\n" +
						"• `/config palabras` - Lista de palabras bloqueadas\n" +
						"• `/config antiraid` / `/config antinuke` - Detectores\n" +
						"• `/config logs <canal>` - Canal de registro\n" +
						"• `/config modrole <rol>` - Rol de moderador\n" +
						"• `/config avisos` - Avisos por DM",
				},
				{
					Name: "📨 Apelaciones",
					Value: "• `/appeal enviar <mensaje>` - Apela una sanción\n" +
						"• `/appeal lista` - [STAFF] Apelaciones pendientes",
				},
				{
					Name: "🔧 Utilidad",
					Value: "• `/utils ping` - Comprueba la latencia\n" +
						"• `/utils status` - Estado del bot\n" +
						"• `/utils stats` - Estadísticas del bot",
				},
			},
			Footer: &discordgo.MessageEmbedFooter{
				Text: "💫 - PancyGuard",
			},
		}

		ctx.ReplyEmbed(embed)
	}()
	return nil
}
