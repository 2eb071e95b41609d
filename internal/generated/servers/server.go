package servers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /health)
	GetHealth(ctx echo.Context) error
	// (GET /notifications)
	ListNotifications(ctx echo.Context, params ListNotificationsParams) error
	// (POST /notifications/{notificationId}/read)
	MarkNotificationRead(ctx echo.Context, notificationId openapi_types.UUID, params MarkNotificationReadParams) error
	// (GET /orders)
	ListOrders(ctx echo.Context, params ListOrdersParams) error
	// (POST /orders)
	CreateOrder(ctx echo.Context) error
	// (GET /orders/{orderId})
	GetOrder(ctx echo.Context, orderId openapi_types.UUID) error
	// (GET /orders/{orderId}/candidates)
	GetOrderCandidates(ctx echo.Context, orderId openapi_types.UUID, params GetOrderCandidatesParams) error
	// (POST /orders/{orderId}/location)
	ReportLocation(ctx echo.Context, orderId openapi_types.UUID) error
	// (GET /orders/{orderId}/stream)
	StreamOrder(ctx echo.Context, orderId openapi_types.UUID) error
	// (GET /orders/{orderId}/track)
	GetOrderTrack(ctx echo.Context, orderId openapi_types.UUID) error
	// (POST /orders/{orderId}/transition)
	TransitionOrder(ctx echo.Context, orderId openapi_types.UUID) error
	// (PUT /partners/{partnerId})
	UpsertPartner(ctx echo.Context, partnerId openapi_types.UUID) error
	// (GET /shops/nearby)
	GetNearbyShops(ctx echo.Context, params GetNearbyShopsParams) error
	// (PUT /shops/{shopId})
	UpsertShop(ctx echo.Context, shopId openapi_types.UUID) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) GetHealth(ctx echo.Context) error {
	return w.Handler.GetHealth(ctx)
}

func (w *ServerInterfaceWrapper) ListNotifications(ctx echo.Context) error {
	var params ListNotificationsParams

	err := runtime.BindQueryParameter("form", true, true, "recipientId", ctx.QueryParams(), &params.RecipientId)
	if err != nil {
		return badParameter("recipientId", err)
	}
	err = runtime.BindQueryParameter("form", true, false, "unreadOnly", ctx.QueryParams(), &params.UnreadOnly)
	if err != nil {
		return badParameter("unreadOnly", err)
	}

	return w.Handler.ListNotifications(ctx, params)
}

func (w *ServerInterfaceWrapper) MarkNotificationRead(ctx echo.Context) error {
	notificationId, err := pathUUID(ctx, "notificationId")
	if err != nil {
		return err
	}

	var params MarkNotificationReadParams
	err = runtime.BindQueryParameter("form", true, true, "recipientId", ctx.QueryParams(), &params.RecipientId)
	if err != nil {
		return badParameter("recipientId", err)
	}

	return w.Handler.MarkNotificationRead(ctx, notificationId, params)
}

func (w *ServerInterfaceWrapper) ListOrders(ctx echo.Context) error {
	var params ListOrdersParams

	err := runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status)
	if err != nil {
		return badParameter("status", err)
	}
	err = runtime.BindQueryParameter("form", true, false, "customerId", ctx.QueryParams(), &params.CustomerId)
	if err != nil {
		return badParameter("customerId", err)
	}
	err = runtime.BindQueryParameter("form", true, false, "shopId", ctx.QueryParams(), &params.ShopId)
	if err != nil {
		return badParameter("shopId", err)
	}
	err = runtime.BindQueryParameter("form", true, false, "partnerId", ctx.QueryParams(), &params.PartnerId)
	if err != nil {
		return badParameter("partnerId", err)
	}
	err = runtime.BindQueryParameter("form", true, false, "unassigned", ctx.QueryParams(), &params.Unassigned)
	if err != nil {
		return badParameter("unassigned", err)
	}
	err = runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit)
	if err != nil {
		return badParameter("limit", err)
	}

	return w.Handler.ListOrders(ctx, params)
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	orderId, err := pathUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) GetOrderCandidates(ctx echo.Context) error {
	orderId, err := pathUUID(ctx, "orderId")
	if err != nil {
		return err
	}

	var params GetOrderCandidatesParams
	err = runtime.BindQueryParameter("form", true, false, "radiusKm", ctx.QueryParams(), &params.RadiusKm)
	if err != nil {
		return badParameter("radiusKm", err)
	}

	return w.Handler.GetOrderCandidates(ctx, orderId, params)
}

func (w *ServerInterfaceWrapper) ReportLocation(ctx echo.Context) error {
	orderId, err := pathUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.ReportLocation(ctx, orderId)
}

func (w *ServerInterfaceWrapper) StreamOrder(ctx echo.Context) error {
	orderId, err := pathUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.StreamOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) GetOrderTrack(ctx echo.Context) error {
	orderId, err := pathUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.GetOrderTrack(ctx, orderId)
}

func (w *ServerInterfaceWrapper) TransitionOrder(ctx echo.Context) error {
	orderId, err := pathUUID(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.TransitionOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) UpsertPartner(ctx echo.Context) error {
	partnerId, err := pathUUID(ctx, "partnerId")
	if err != nil {
		return err
	}
	return w.Handler.UpsertPartner(ctx, partnerId)
}

func (w *ServerInterfaceWrapper) GetNearbyShops(ctx echo.Context) error {
	var params GetNearbyShopsParams

	err := runtime.BindQueryParameter("form", true, true, "lat", ctx.QueryParams(), &params.Lat)
	if err != nil {
		return badParameter("lat", err)
	}
	err = runtime.BindQueryParameter("form", true, true, "lng", ctx.QueryParams(), &params.Lng)
	if err != nil {
		return badParameter("lng", err)
	}
	err = runtime.BindQueryParameter("form", true, false, "radiusKm", ctx.QueryParams(), &params.RadiusKm)
	if err != nil {
		return badParameter("radiusKm", err)
	}

	return w.Handler.GetNearbyShops(ctx, params)
}

func (w *ServerInterfaceWrapper) UpsertShop(ctx echo.Context) error {
	shopId, err := pathUUID(ctx, "shopId")
	if err != nil {
		return err
	}
	return w.Handler.UpsertShop(ctx, shopId)
}

func pathUUID(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, badParameter(name, err)
	}
	return id, nil
}

func badParameter(name string, err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
}

// EchoRouter is the subset of echo.Echo and echo.Group the handlers are
// registered on.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers the handlers under baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/health", wrapper.GetHealth)
	router.GET(baseURL+"/notifications", wrapper.ListNotifications)
	router.POST(baseURL+"/notifications/:notificationId/read", wrapper.MarkNotificationRead)
	router.GET(baseURL+"/orders", wrapper.ListOrders)
	router.POST(baseURL+"/orders", wrapper.CreateOrder)
	router.GET(baseURL+"/orders/:orderId", wrapper.GetOrder)
	router.GET(baseURL+"/orders/:orderId/candidates", wrapper.GetOrderCandidates)
	router.POST(baseURL+"/orders/:orderId/location", wrapper.ReportLocation)
	router.GET(baseURL+"/orders/:orderId/stream", wrapper.StreamOrder)
	router.GET(baseURL+"/orders/:orderId/track", wrapper.GetOrderTrack)
	router.POST(baseURL+"/orders/:orderId/transition", wrapper.TransitionOrder)
	router.PUT(baseURL+"/partners/:partnerId", wrapper.UpsertPartner)
	router.GET(baseURL+"/shops/nearby", wrapper.GetNearbyShops)
	router.PUT(baseURL+"/shops/:shopId", wrapper.UpsertShop)
}
