package events

import (
	"fmt"

	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// Discord corta los campos de embed en 1024 caracteres
const maxFieldLen = 1024

// sendMirror publica un embed espejo en el canal de logs del servidor. Un
// canal borrado o sin permisos no es un error del bot.
func sendMirror(s *discordgo.Session, channelID string, embed *discordgo.MessageEmbed) {
	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		logger.Debug(fmt.Sprintf("No se pudo publicar en el canal de logs %s: %v", channelID, err), "Mirror")
	}
}

func truncateField(content string) string {
	runes := []rune(content)
	if len(runes) <= maxFieldLen {
		return content
	}
	return string(runes[:maxFieldLen-1]) + "…"
}
