package handlers

import (
	"chess-escrow-service/middleware"
	"chess-escrow-service/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMatchRoutes(app *fiber.App, escrowService *services.EscrowService, ledgerService *services.LedgerService) {
	// 🔐 All escrow operations act on behalf of a gateway-authenticated user
	secured := app.Group("/", middleware.UserContextMiddleware())

	// Ledger accounts
	secured.Post("/accounts", ledgerService.CreateAccount)
	secured.Get("/accounts/:id/balance", ledgerService.GetBalance)

	// Match lifecycle
	secured.Post("/matches", escrowService.CreateMatch)
	secured.Get("/matches", escrowService.ListMatches)
	secured.Get("/matches/:id", escrowService.GetMatch)
	secured.Post("/matches/:id/accept", escrowService.AcceptMatch)
	secured.Post("/matches/:id/cancel", escrowService.CancelMatch)
	secured.Post("/matches/:id/settle", escrowService.SettleMatch)
}
