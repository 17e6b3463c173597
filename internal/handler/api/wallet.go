package api

import (
	"net/http"
	"strconv"

	resdto "stoodioz/internal/handler/dto/response"
	"stoodioz/internal/handler/middleware"
	"stoodioz/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletQueries queries.WalletQueries
}

func NewWalletHandler(walletQueries queries.WalletQueries) *WalletHandler {
	return &WalletHandler{walletQueries: walletQueries}
}

// @Summary List wallet transactions
// @Description List the current user's ledger entries with the running balance
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max entries to return (default 50)"
// @Success 200 {object} resdto.WalletTransactionsResponse
// @Failure 401 {object} map[string]string
// @Router /wallet/transactions [get]
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var limit int32
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit parameter",
			})
			return
		}
		limit = int32(parsed)
	}

	transactions, err := h.walletQueries.ListTransactions(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	balance, err := h.walletQueries.Balance(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.WalletTransactionsResponse{
		BalanceCents: balance,
		Transactions: transactions,
	})
}
