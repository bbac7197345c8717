package dev

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/config"
	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// CreateEvalCommand crea el comando /dev eval
func CreateEvalCommand() *discord.Command {
	return discord.NewCommand(
		"eval",
		"Evalúa código Go y muestra estructuras internas (Peligroso)",
		"dev",
		evalHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "codigo",
			Description: "Código o expresión Go a evaluar",
			Required:    true,
		},
	)
}

// evalHandler runs the snippet inside a fresh yaegi interpreter with the
// bot's live objects exported as globals (Ctx, Bot, Session, DB, Config).
func evalHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		if !isDev(commandUserID(ctx)) {
			sendErrorEmbed(ctx, "Acceso denegado", "Este comando es solo para el equipo de desarrollo.")
			return
		}

		// Compilar el script puede tardar más que la ventana de respuesta
		ctx.Defer()

		code := strings.TrimSpace(ctx.GetStringOption("codigo"))
		code = strings.TrimPrefix(code, "```go")
		code = strings.TrimPrefix(code, "```")
		code = strings.TrimSuffix(code, "```")
		code = strings.TrimSpace(code)

		i := interp.New(interp.Options{})
		if err := i.Use(stdlib.Symbols); err != nil {
			ctx.EditReply(fmt.Sprintf("❌ Error cargando stdlib: %v", err))
			return
		}

		exports := map[string]reflect.Value{
			"Ctx":     reflect.ValueOf(ctx),
			"Bot":     reflect.ValueOf(ctx.Client),
			"Session": reflect.ValueOf(ctx.Session),
			"DB":      reflect.ValueOf(database.Get()),
			"Config":  reflect.ValueOf(config.Get()),
		}
		if err := i.Use(interp.Exports{
			"github.com/PancyStudios/PancyGuardGo/internal/commands/dev/dev": exports,
		}); err != nil {
			ctx.EditReply(fmt.Sprintf("❌ Error registrando variables: %v", err))
			return
		}
		if _, err := i.Eval(`import . "github.com/PancyStudios/PancyGuardGo/internal/commands/dev"`); err != nil {
			ctx.EditReply(fmt.Sprintf("❌ Error importando variables: %v", err))
			return
		}

		start := time.Now()
		res, err := i.Eval(code)
		elapsed := time.Since(start)

		if err != nil {
			ctx.EditReply(fmt.Sprintf("❌ **Error de ejecución:**\n```go\n%v\n```", err))
			return
		}

		// %#v muestra la estructura interna completa, no el String()
		resStr := "nil"
		if res.IsValid() {
			resStr = fmt.Sprintf("%#v", res.Interface())
		}
		if len(resStr) > 1900 {
			resStr = resStr[:1900] + "... (truncado)"
		}

		logger.Debug(fmt.Sprintf("Eval de %s completado en %s", getUserName(ctx), elapsed), "DevEval")
		ctx.EditReply(fmt.Sprintf("✅ **Resultado** (%s):\n```go\n%s\n```", elapsed.Round(time.Microsecond), resStr))
	}()
	return nil
}
