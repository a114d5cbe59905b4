package controller

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/tvcampos/availability_bot/internal/controller/callbacks"
	"github.com/tvcampos/availability_bot/internal/controller/handlers"
	"github.com/tvcampos/availability_bot/internal/controller/state"
	"github.com/tvcampos/availability_bot/internal/service"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	userService *service.UserService,
	periodService *service.PeriodService,
	configService *service.ConfigService,
	availabilityService *service.AvailabilityService,
	logger *zap.Logger,
) *BotController {
	// One state manager shared by dialogs and callbacks.
	stateManager := state.NewManager()

	cmdHandlers := handlers.NewHandlers(
		userService,
		periodService,
		configService,
		availabilityService,
		stateManager,
		logger,
	)

	callbackHandler := callbacks.NewHandler(
		userService,
		periodService,
		configService,
		availabilityService,
		stateManager,
		logger,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers wires every command, dialog and callback handler.
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/grid", bot.MatchTypeExact, c.handlers.HandleGrid)

	// Commands with arguments match by prefix.
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/view", bot.MatchTypePrefix, c.handlers.HandleView)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addperiod", bot.MatchTypePrefix, c.handlers.HandleAddPeriod)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/role", bot.MatchTypePrefix, c.handlers.HandleRole)

	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/config", bot.MatchTypeExact, c.handlers.HandleConfig)

	// Free-form text feeds the active dialog.
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Inline button presses.
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands publishes the bot's command menu.
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Start working with the bot"},
		{Command: "grid", Description: "📅 Fill in my availability grid"},
		{Command: "view", Description: "👀 View a professor's grid (coordinator)"},
		{Command: "config", Description: "⚙️ Schedule configuration (admin)"},
		{Command: "addperiod", Description: "➕ Create an academic period (admin)"},
		{Command: "cancel", Description: "✖️ Abort the current dialog"},
		{Command: "help", Description: "❓ Command reference"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start runs the long-polling loop until the context is cancelled.
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
