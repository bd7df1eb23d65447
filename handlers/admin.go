package handlers

import (
	"chess-escrow-service/middleware"
	"chess-escrow-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App, treasuryService *services.TreasuryService, ledgerService *services.LedgerService) {
	// 🔐 Admin surface: gateway role check on top of user context
	admin := app.Group("/admin", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	admin.Post("/config", treasuryService.InitConfig)
	admin.Post("/treasury/withdraw", treasuryService.WithdrawTreasury)
	admin.Get("/treasury", treasuryService.TreasuryReport)

	// Faucet credit for player accounts (deposits normally come from the
	// external payment rail)
	admin.Post("/accounts/:id/deposit", ledgerService.Deposit)
}
