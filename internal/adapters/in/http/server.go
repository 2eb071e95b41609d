package http

import (
	"errors"
	"net/http"

	"dispatch/internal/core/application/coordinator"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/generated/servers"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/sirupsen/logrus"
)

// Handlers are the use cases the server exposes. The order lifecycle goes
// through the coordinator; reads and directory writes use their handlers
// directly.
type Handlers struct {
	Coordinator *coordinator.Coordinator

	UpsertPartner    commands.UpsertPartnerCommandHandler
	UpsertShop       commands.UpsertShopCommandHandler
	MarkRead         commands.MarkNotificationReadCommandHandler
	GetOrder         queries.GetOrderQueryHandler
	GetOrderTrack    queries.GetOrderTrackQueryHandler
	ListOrders       queries.ListOrdersQueryHandler
	NearbyShops      queries.GetNearbyShopsQueryHandler
	Candidates       queries.GetPartnerCandidatesQueryHandler
	ListNotification queries.ListNotificationsQueryHandler
}

// Server implements servers.ServerInterface.
type Server struct {
	h        Handlers
	upgrader websocket.Upgrader
	log      *logrus.Entry
}

var _ servers.ServerInterface = (*Server)(nil)

func NewServer(h Handlers, log *logrus.Entry) *Server {
	return &Server{
		h: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Watchers are browsers and mobile apps on other origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log,
	}
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// CreateOrder handles POST /orders - places an order in pending.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body servers.CreateOrderJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := newCreateOrderCommand(body)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	o, err := s.h.Coordinator.CreateOrder(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, toOrder(o, false))
}

// ListOrders handles GET /orders.
func (s *Server) ListOrders(ctx echo.Context, params servers.ListOrdersParams) error {
	filter, err := toOrderFilter(params)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	q, err := queries.NewListOrdersQuery(filter)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	orders, err := s.h.ListOrders.Handle(ctx.Request().Context(), q)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]servers.Order, len(orders))
	for i, o := range orders {
		response[i] = toOrder(o, false)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /orders/{orderId}, history included.
func (s *Server) GetOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := kernel.FromGoogleUUID(orderId)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	q, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	o, err := s.h.GetOrder.Handle(ctx.Request().Context(), q)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrder(o, true))
}

// TransitionOrder handles POST /orders/{orderId}/transition.
func (s *Server) TransitionOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	var body servers.TransitionOrderJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := newTransitionCommand(orderId, body)
	if err != nil {
		return badRequest(ctx, "Invalid transition: "+err.Error())
	}

	outcome, err := s.h.Coordinator.Transition(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toTransitionResult(outcome))
}

// ReportLocation handles POST /orders/{orderId}/location. A sample that is
// stale, out of order or a duplicate is answered with accepted=false.
func (s *Server) ReportLocation(ctx echo.Context, orderId openapi_types.UUID) error {
	var body servers.ReportLocationJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := newReportPositionCommand(orderId, body)
	if err != nil {
		return badRequest(ctx, "Invalid location: "+err.Error())
	}

	outcome, err := s.h.Coordinator.ReportPosition(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toLocationResult(outcome))
}

// GetOrderTrack handles GET /orders/{orderId}/track.
func (s *Server) GetOrderTrack(ctx echo.Context, orderId openapi_types.UUID) error {
	id, err := kernel.FromGoogleUUID(orderId)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	q, err := queries.NewGetOrderTrackQuery(id)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	samples, err := s.h.GetOrderTrack.Handle(ctx.Request().Context(), q)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]servers.Sample, len(samples))
	for i, sample := range samples {
		response[i] = toSample(sample)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetOrderCandidates handles GET /orders/{orderId}/candidates. An empty range
// is not an error: it comes back as noPartnersNearby.
func (s *Server) GetOrderCandidates(
	ctx echo.Context,
	orderId openapi_types.UUID,
	params servers.GetOrderCandidatesParams,
) error {
	id, err := kernel.FromGoogleUUID(orderId)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	radius := s.h.Coordinator.Config().DispatchRadiusKm
	if params.RadiusKm != nil {
		radius = *params.RadiusKm
	}
	q, err := queries.NewGetPartnerCandidatesQuery(id, radius)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	resp, err := s.h.Candidates.Handle(ctx.Request().Context(), q)
	noneNearby := errors.Is(err, services.ErrNoCandidatesFound)
	if err != nil && !noneNearby {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.Candidates{
		OrderId:          orderId,
		Status:           servers.Status(resp.Order.Status().String()),
		Candidates:       toCandidates(resp.Candidates),
		NoPartnersNearby: noneNearby,
	})
}

// GetNearbyShops handles GET /shops/nearby.
func (s *Server) GetNearbyShops(ctx echo.Context, params servers.GetNearbyShopsParams) error {
	origin, err := kernel.NewGeoPoint(params.Lat, params.Lng)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	radius := s.h.Coordinator.Config().ShopRadiusKm
	if params.RadiusKm != nil {
		radius = *params.RadiusKm
	}
	q, err := queries.NewGetNearbyShopsQuery(origin, radius)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	shops, err := s.h.NearbyShops.Handle(ctx.Request().Context(), q)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]servers.NearbyShop, len(shops))
	for i, c := range shops {
		response[i] = servers.NearbyShop{Shop: toShop(c.Shop), DistanceKm: c.DistanceKm}
	}
	return ctx.JSON(http.StatusOK, response)
}

// UpsertShop handles PUT /shops/{shopId}.
func (s *Server) UpsertShop(ctx echo.Context, shopId openapi_types.UUID) error {
	var body servers.UpsertShopJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := newUpsertShopCommand(shopId, body)
	if err != nil {
		return badRequest(ctx, "Invalid shop data: "+err.Error())
	}

	shop, err := s.h.UpsertShop.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toShop(shop))
}

// UpsertPartner handles PUT /partners/{partnerId}: presence and position
// updates from the partner app.
func (s *Server) UpsertPartner(ctx echo.Context, partnerId openapi_types.UUID) error {
	var body servers.UpsertPartnerJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := newUpsertPartnerCommand(partnerId, body)
	if err != nil {
		return badRequest(ctx, "Invalid partner data: "+err.Error())
	}

	partner, err := s.h.UpsertPartner.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toPartner(partner))
}

// ListNotifications handles GET /notifications.
func (s *Server) ListNotifications(ctx echo.Context, params servers.ListNotificationsParams) error {
	recipient, err := kernel.FromGoogleUUID(params.RecipientId)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	unreadOnly := params.UnreadOnly != nil && *params.UnreadOnly

	list, err := s.h.ListNotification.Handle(ctx.Request().Context(), recipient, unreadOnly)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]servers.Notification, len(list))
	for i, n := range list {
		response[i] = toNotification(n)
	}
	return ctx.JSON(http.StatusOK, response)
}

// MarkNotificationRead handles POST /notifications/{notificationId}/read.
func (s *Server) MarkNotificationRead(
	ctx echo.Context,
	notificationId openapi_types.UUID,
	params servers.MarkNotificationReadParams,
) error {
	id, err := kernel.FromGoogleUUID(notificationId)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	recipient, err := kernel.FromGoogleUUID(params.RecipientId)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	n, err := s.h.MarkRead.Handle(ctx.Request().Context(), id, recipient)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toNotification(n))
}

func toOrderFilter(params servers.ListOrdersParams) (ports.OrderFilter, error) {
	var filter ports.OrderFilter
	var err error

	if params.Status != nil {
		for _, raw := range *params.Status {
			st, parseErr := order.ParseStatus(string(raw))
			if parseErr != nil {
				return filter, parseErr
			}
			filter.Statuses = append(filter.Statuses, st)
		}
	}
	if filter.CustomerID, err = optionalID(params.CustomerId); err != nil {
		return filter, err
	}
	if filter.ShopID, err = optionalID(params.ShopId); err != nil {
		return filter, err
	}
	if filter.PartnerID, err = optionalID(params.PartnerId); err != nil {
		return filter, err
	}
	if params.Unassigned != nil {
		filter.Unassigned = *params.Unassigned
	}
	if params.Limit != nil {
		filter.Limit = *params.Limit
	}
	return filter, nil
}

func optionalID(raw *openapi_types.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // absent filter
	}
	id, err := kernel.FromGoogleUUID(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
