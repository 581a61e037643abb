package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-management/internal/config"
	"github.com/iliyamo/hotel-management/internal/model"
	"github.com/iliyamo/hotel-management/internal/repository"
)

// POSHandler serves the bar and restaurant tills, the stock they sell
// from and the sales they record.
type POSHandler struct {
	Cfg          config.Config
	Accounts     *repository.AccountRepo
	Items        *repository.InventoryRepo
	Transactions *repository.TransactionRepo
}

func NewPOSHandler(cfg config.Config, a *repository.AccountRepo, i *repository.InventoryRepo, s *repository.TransactionRepo) *POSHandler {
	return &POSHandler{Cfg: cfg, Accounts: a, Items: i, Transactions: s}
}

// ----- DTOs -----

type accountReq struct {
	AccountName string `json:"account_name" validate:"required"`
	Password    string `json:"password"`
}
type posLoginReq struct {
	AccountType string `json:"account_type" validate:"required"`
	AccountName string `json:"account_name" validate:"required"`
	Password    string `json:"password" validate:"required"`
}
type itemReq struct {
	Name       string `json:"name" validate:"required,max=100"`
	Quantity   int64  `json:"quantity" validate:"max=4294967295"` // INT UNSIGNED
	PriceCents int64  `json:"price_cents"`
}
type itemPatch struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=100"`
	Quantity   *int64  `json:"quantity" validate:"omitempty,max=4294967295"`
	PriceCents *int64  `json:"price_cents"`
}
type saleReq struct {
	ItemID       uint64  `json:"item_id" validate:"required"`
	QuantitySold int64   `json:"quantity_sold" validate:"gte=1"`
	AccountType  *string `json:"account_type" validate:"omitempty,oneof=bar restaurant"`
	AccountID    *uint64 `json:"account_id"`
}

const dupAccountName = "account with this account name already exists."

// ----- accounts -----

func (h *POSHandler) ListAccounts(kind model.AccountKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := reqCtx(c)
		defer cancel()

		out, err := h.Accounts.List(ctx, kind)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}
}

func (h *POSHandler) GetAccount(kind model.AccountKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		ctx, cancel := reqCtx(c)
		defer cancel()

		a, err := h.Accounts.GetByID(ctx, kind, id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, a)
	}
}

func (h *POSHandler) CreateAccount(kind model.AccountKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req accountReq
		if err := bindValid(c, &req); err != nil {
			return respondError(c, err)
		}
		if err := model.ValidateAccount(req.AccountName, req.Password, true); err != nil {
			return respondError(c, err)
		}
		ctx, cancel := reqCtx(c)
		defer cancel()

		a := &model.Account{Kind: kind, AccountName: req.AccountName}
		if err := h.Accounts.Create(ctx, a, req.Password, h.Cfg.BcryptCost); err != nil {
			return respondError(c, fieldOn(err, repository.ErrDuplicate, "account_name", dupAccountName))
		}
		return c.JSON(http.StatusCreated, a)
	}
}

// UpdateAccount renames an account and optionally replaces its password.
// The balance cannot be written by clients.
func (h *POSHandler) UpdateAccount(kind model.AccountKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		ctx, cancel := reqCtx(c)
		defer cancel()

		a, err := h.Accounts.GetByID(ctx, kind, id)
		if err != nil {
			return respondError(c, err)
		}
		req := accountReq{AccountName: a.AccountName}
		if err := bindValid(c, &req); err != nil {
			return respondError(c, err)
		}
		if err := model.ValidateAccount(req.AccountName, req.Password, false); err != nil {
			return respondError(c, err)
		}
		a.AccountName = req.AccountName
		if err := h.Accounts.Update(ctx, a, req.Password, h.Cfg.BcryptCost); err != nil {
			return respondError(c, fieldOn(err, repository.ErrDuplicate, "account_name", dupAccountName))
		}
		return c.JSON(http.StatusOK, a)
	}
}

func (h *POSHandler) DeleteAccount(kind model.AccountKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		ctx, cancel := reqCtx(c)
		defer cancel()

		if err := h.Accounts.Delete(ctx, kind, id); err != nil {
			return respondError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// Sales totals every transaction rung up under kind.
func (h *POSHandler) Sales(kind model.AccountKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := reqCtx(c)
		defer cancel()

		total, err := h.Accounts.SalesTotal(ctx, kind)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"account_type": kind, "total_sales_cents": total})
	}
}

// Login checks a till's credentials against its stored hash.
func (h *POSHandler) Login(c echo.Context) error {
	var req posLoginReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	kind, ok := model.ParseAccountKind(req.AccountType)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid account type"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Accounts.Authenticate(ctx, kind, req.AccountName, req.Password)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid credentials"})
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Login successful", "account": a})
}

// ----- inventory -----

func (h *POSHandler) ListItems(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Items.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *POSHandler) GetItem(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	it, err := h.Items.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, it)
}

func (h *POSHandler) CreateItem(c echo.Context) error {
	var req itemReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	it := &model.InventoryItem{Name: req.Name, Quantity: req.Quantity, PriceCents: req.PriceCents}
	if err := it.Validate(); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Items.Create(ctx, it); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, it)
}

// UpdateItem serves PUT and PATCH.  The stored row is read under lock so
// a PATCH that leaves quantity out keeps the live stock level.
func (h *POSHandler) UpdateItem(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var apply func(*model.InventoryItem)
	if c.Request().Method == http.MethodPatch {
		var req itemPatch
		if err := bindValid(c, &req); err != nil {
			return respondError(c, err)
		}
		apply = func(it *model.InventoryItem) {
			if req.Name != nil {
				it.Name = *req.Name
			}
			if req.Quantity != nil {
				it.Quantity = *req.Quantity
			}
			if req.PriceCents != nil {
				it.PriceCents = *req.PriceCents
			}
		}
	} else {
		var req itemReq
		if err := bindValid(c, &req); err != nil {
			return respondError(c, err)
		}
		apply = func(it *model.InventoryItem) {
			it.Name, it.Quantity, it.PriceCents = req.Name, req.Quantity, req.PriceCents
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	it, err := h.Items.Edit(ctx, id, func(it *model.InventoryItem) error {
		apply(it)
		return it.Validate()
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, it)
}

func (h *POSHandler) DeleteItem(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Items.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- transactions -----

// RecordSale sells stock on behalf of the caller.  The stock check,
// decrement and optional account credit commit together or not at all.
func (h *POSHandler) RecordSale(c echo.Context) error {
	var req saleReq
	if err := bindValid(c, &req); err != nil {
		return respondError(c, err)
	}
	t := &model.Transaction{
		ItemID:       req.ItemID,
		UserID:       callerID(c),
		QuantitySold: req.QuantitySold,
		AccountID:    req.AccountID,
	}
	if req.AccountType != nil {
		kind := model.AccountKind(*req.AccountType)
		t.AccountType = &kind
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Transactions.Record(ctx, t); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *POSHandler) ListSales(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Transactions.List(ctx, scope(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *POSHandler) GetSale(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Transactions.GetByID(ctx, id, scope(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// DeleteSale removes the record only.  Stock and balances are not
// restored.
func (h *POSHandler) DeleteSale(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Transactions.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
