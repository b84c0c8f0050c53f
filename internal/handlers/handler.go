package handlers

import (
	"log/slog"

	"upwatch/internal/config"
	"upwatch/internal/services"
)

type Handler struct {
	cfg            config.Config
	logger         *slog.Logger
	accountService *services.AccountService
	tokenService   *services.TokenService
	checkService   *services.CheckService
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	accountService *services.AccountService,
	tokenService *services.TokenService,
	checkService *services.CheckService,
) *Handler {
	return &Handler{
		cfg:            cfg,
		logger:         logger,
		accountService: accountService,
		tokenService:   tokenService,
		checkService:   checkService,
	}
}
