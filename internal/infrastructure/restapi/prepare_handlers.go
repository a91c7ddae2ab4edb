package restapi

import (
	"fmt"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"

	"txprepare/internal/app/port"
	"txprepare/internal/domain/entity"
	"txprepare/internal/pkg/utils"
)

// PrepareHandler handles HTTP requests for transaction preparation.
type PrepareHandler struct {
	preparer port.Preparer
	registry port.TokenRegistry
	networks map[string]entity.NetworkDefinition
	logger   port.Logger
}

// NewPrepareHandler creates a new PrepareHandler.
func NewPrepareHandler(preparer port.Preparer, registry port.TokenRegistry, networks map[string]entity.NetworkDefinition, logger port.Logger) *PrepareHandler {
	return &PrepareHandler{
		preparer: preparer,
		registry: registry,
		networks: networks,
		logger:   logger,
	}
}

type transactionPayload struct {
	From            string `json:"from" binding:"required"`
	To              string `json:"to"`
	Data            string `json:"data,omitempty"`
	Value           string `json:"value,omitempty"`
	Gas             uint64 `json:"gas,omitempty"`
	EstimatedGasUse uint64 `json:"estimatedGasUse,omitempty"`
}

type prepareRequest struct {
	Origin          string               `json:"origin" binding:"required"`
	NetworkID       string               `json:"networkId" binding:"required"`
	SpendTokenID    string               `json:"spendTokenId,omitempty"`
	SpendAmount     string               `json:"spendAmount,omitempty"` // smallest units
	IsGasSubsidized bool                 `json:"isGasSubsidized,omitempty"`
	Transactions    []transactionPayload `json:"transactions" binding:"required"`
}

type tokenResponse struct {
	TokenID  string `json:"tokenId"`
	Symbol   string `json:"symbol"`
	Address  string `json:"address,omitempty"`
	Decimals uint8  `json:"decimals"`
	Balance  string `json:"balance"`
	IsNative bool   `json:"isNative"`
}

type preparedTransactionResponse struct {
	From                 string `json:"from"`
	To                   string `json:"to"`
	Data                 string `json:"data,omitempty"`
	Value                string `json:"value,omitempty"`
	Gas                  uint64 `json:"gas"`
	MaxFeePerGas         string `json:"maxFeePerGas"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas"`
	FeeCurrency          string `json:"feeCurrency,omitempty"`
	EstimatedGasUse      uint64 `json:"estimatedGasUse,omitempty"`
	BaseFeePerGas        string `json:"baseFeePerGas"`
}

type prepareResponse struct {
	Type                 string                        `json:"type"`
	Transactions         []preparedTransactionResponse `json:"transactions,omitempty"`
	FeeCurrency          *tokenResponse                `json:"feeCurrency,omitempty"`
	FeeCurrencies        []tokenResponse               `json:"feeCurrencies,omitempty"`
	MaxGasFee            string                        `json:"maxGasFee,omitempty"`
	EstimatedGasFee      string                        `json:"estimatedGasFee,omitempty"`
	DecreasedSpendAmount string                        `json:"decreasedSpendAmount,omitempty"`
}

// PrepareHandler handles POST /api/v1/prepare.
func (h *PrepareHandler) PrepareHandler(c *gin.Context) {
	ctx := c.Request.Context()

	var req prepareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	netDef, ok := h.networks[req.NetworkID]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown network %q", req.NetworkID)})
		return
	}

	params, err := h.buildParams(req, netDef)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.preparer.PrepareTransactions(ctx, params)
	if err != nil {
		h.logger.Error("Preparation failed", "origin", req.Origin, "network", req.NetworkID, "error", err)
		preparationErrors.WithLabelValues(req.Origin).Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := renderResult(result)
	preparationResults.WithLabelValues(response.Type, req.Origin).Inc()
	c.JSON(http.StatusOK, response)
}

func (h *PrepareHandler) buildParams(req prepareRequest, netDef entity.NetworkDefinition) (port.PrepareParams, error) {
	feeCurrencies, err := h.registry.FeeCurrencies(netDef)
	if err != nil {
		return port.PrepareParams{}, fmt.Errorf("failed to load fee currencies: %w", err)
	}

	params := port.PrepareParams{
		Origin:          req.Origin,
		FeeCurrencies:   feeCurrencies,
		IsGasSubsidized: req.IsGasSubsidized,
	}

	if req.SpendTokenID != "" {
		spendToken, err := h.registry.TokenByID(netDef, req.SpendTokenID)
		if err != nil {
			return port.PrepareParams{}, err
		}
		params.SpendToken = &spendToken
	}
	if req.SpendAmount != "" {
		amount, ok := new(big.Int).SetString(req.SpendAmount, 10)
		if !ok || amount.Sign() < 0 {
			return port.PrepareParams{}, fmt.Errorf("spendAmount %q is not a non-negative integer", req.SpendAmount)
		}
		params.SpendTokenAmount = amount
	}

	txs := make([]entity.TransactionRequest, 0, len(req.Transactions))
	for i, payload := range req.Transactions {
		tx, err := payload.toEntity()
		if err != nil {
			return port.PrepareParams{}, fmt.Errorf("transaction %d: %w", i, err)
		}
		txs = append(txs, tx)
	}
	params.Transactions = txs
	return params, nil
}

func (p transactionPayload) toEntity() (entity.TransactionRequest, error) {
	if !common.IsHexAddress(p.From) {
		return entity.TransactionRequest{}, fmt.Errorf("from %q is not a hex address", p.From)
	}
	tx := entity.TransactionRequest{
		From:            common.HexToAddress(p.From),
		Gas:             p.Gas,
		EstimatedGasUse: p.EstimatedGasUse,
	}
	if p.To != "" {
		if !common.IsHexAddress(p.To) {
			return entity.TransactionRequest{}, fmt.Errorf("to %q is not a hex address", p.To)
		}
		tx.To = common.HexToAddress(p.To)
	}
	if p.Data != "" {
		data, err := hexutil.Decode(p.Data)
		if err != nil {
			return entity.TransactionRequest{}, fmt.Errorf("data is not valid hex: %w", err)
		}
		tx.Data = data
	}
	if p.Value != "" {
		value, ok := new(big.Int).SetString(p.Value, 10)
		if !ok || value.Sign() < 0 {
			return entity.TransactionRequest{}, fmt.Errorf("value %q is not a non-negative integer", p.Value)
		}
		tx.Value = value
	}
	return tx, nil
}

func renderResult(result entity.PreparedTransactionsResult) prepareResponse {
	switch r := result.(type) {
	case entity.PreparedPossible:
		out := prepareResponse{Type: "possible"}
		for _, tx := range r.Transactions {
			out.Transactions = append(out.Transactions, renderTransaction(tx))
		}
		feeCurrency := renderToken(r.FeeCurrency)
		out.FeeCurrency = &feeCurrency
		return out
	case entity.PreparedNeedDecreaseSpendAmount:
		feeCurrency := renderToken(r.FeeCurrency)
		return prepareResponse{
			Type:                 "need-decrease-spend-amount-for-gas",
			FeeCurrency:          &feeCurrency,
			MaxGasFee:            utils.FormatRat(r.MaxGasFeeInDecimal, r.FeeCurrency.Decimals),
			EstimatedGasFee:      utils.FormatRat(r.EstimatedGasFeeInDecimal, r.FeeCurrency.Decimals),
			DecreasedSpendAmount: utils.FormatRat(r.DecreasedSpendAmount, r.FeeCurrency.Decimals),
		}
	case entity.PreparedNotEnoughBalance:
		out := prepareResponse{Type: "not-enough-balance-for-gas", FeeCurrencies: []tokenResponse{}}
		for _, token := range r.FeeCurrencies {
			out.FeeCurrencies = append(out.FeeCurrencies, renderToken(token))
		}
		return out
	}
	// The result union has exactly three variants; reaching this is a bug.
	return prepareResponse{Type: "unknown"}
}

func renderTransaction(tx entity.TransactionRequest) preparedTransactionResponse {
	out := preparedTransactionResponse{
		From:            tx.From.Hex(),
		To:              tx.To.Hex(),
		Gas:             tx.Gas,
		EstimatedGasUse: tx.EstimatedGasUse,
	}
	if len(tx.Data) > 0 {
		out.Data = hexutil.Encode(tx.Data)
	}
	if tx.Value != nil {
		out.Value = tx.Value.String()
	}
	if tx.MaxFeePerGas != nil {
		out.MaxFeePerGas = tx.MaxFeePerGas.String()
	}
	if tx.MaxPriorityFeePerGas != nil {
		out.MaxPriorityFeePerGas = tx.MaxPriorityFeePerGas.String()
	}
	if tx.BaseFeePerGas != nil {
		out.BaseFeePerGas = tx.BaseFeePerGas.String()
	}
	if tx.FeeCurrency != nil {
		out.FeeCurrency = tx.FeeCurrency.Hex()
	}
	return out
}

func renderToken(token entity.TokenBalance) tokenResponse {
	balance := "0"
	if token.Balance != nil {
		balance = utils.FormatRat(token.Balance, token.Decimals)
	}
	return tokenResponse{
		TokenID:  token.TokenID,
		Symbol:   token.Symbol,
		Address:  token.Address,
		Decimals: token.Decimals,
		Balance:  balance,
		IsNative: token.IsNative,
	}
}
