package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/directory"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/guard"
)

var ErrUpsertShopCommandIsNotConstructed = errors.New(
	"UpsertShopCommand must be created via NewUpsertShopCommand constructor",
)

// UpsertShopCommand mirrors a shop record from the shop directory.
type UpsertShopCommand struct {
	shop  *directory.Shop
	guard guard.ConstructorGuard
}

func NewUpsertShopCommand(shopID kernel.UUID, name string, address kernel.Address) (UpsertShopCommand, error) {
	s, err := directory.NewShop(shopID, name, address)
	if err != nil {
		return UpsertShopCommand{}, err
	}
	return UpsertShopCommand{shop: s, guard: guard.NewConstructorGuard()}, nil
}

func (c UpsertShopCommand) Validate() error {
	return c.guard.Validate(ErrUpsertShopCommandIsNotConstructed)
}

type UpsertShopCommandHandler struct {
	shops ports.ShopDirectory
}

func NewUpsertShopCommandHandler(shops ports.ShopDirectory) UpsertShopCommandHandler {
	return UpsertShopCommandHandler{shops: shops}
}

func (h *UpsertShopCommandHandler) Handle(ctx context.Context, cmd UpsertShopCommand) (*directory.Shop, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := h.shops.Upsert(ctx, cmd.shop); err != nil {
		return nil, err
	}
	return cmd.shop, nil
}
