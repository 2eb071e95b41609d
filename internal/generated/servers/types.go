// Package servers holds the HTTP contract of the dispatcher: wire types, the
// server interface and the echo wrapper that binds path and query parameters.
// It mirrors internal/adapters/in/http/openapi/openapi.yaml.
package servers

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Status defines model for Status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusPickedUp  Status = "picked_up"
	StatusOnTheWay  Status = "on_the_way"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Location defines model for Location.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Address defines model for Address.
type Address struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Street string  `json:"street"`
}

// Item defines model for Item.
type Item struct {
	ProductId openapi_types.UUID `json:"productId"`
	Quantity  int                `json:"quantity"`
	UnitPrice int64              `json:"unitPrice"`
}

// NewOrder defines model for NewOrder.
type NewOrder struct {
	CustomerId openapi_types.UUID `json:"customerId"`
	Dropoff    Address            `json:"dropoff"`
	Items      []Item             `json:"items"`
	Pickup     Address            `json:"pickup"`
	ShopId     openapi_types.UUID `json:"shopId"`
}

// StatusChange defines model for StatusChange.
type StatusChange struct {
	Action  string             `json:"action"`
	Actor   string             `json:"actor"`
	ActorId openapi_types.UUID `json:"actorId"`
	At      time.Time          `json:"at"`
	From    Status             `json:"from"`
	To      Status             `json:"to"`
}

// Order defines model for Order.
type Order struct {
	CreatedAt           time.Time           `json:"createdAt"`
	CustomerId          openapi_types.UUID  `json:"customerId"`
	Dropoff             Address             `json:"dropoff"`
	EstimatedDeliveryAt *time.Time          `json:"estimatedDeliveryAt,omitempty"`
	History             *[]StatusChange     `json:"history,omitempty"`
	Id                  openapi_types.UUID  `json:"id"`
	Items               []Item              `json:"items"`
	PartnerId           *openapi_types.UUID `json:"partnerId,omitempty"`
	Pickup              Address             `json:"pickup"`
	ShopId              openapi_types.UUID  `json:"shopId"`
	Status              Status              `json:"status"`
	Total               int64               `json:"total"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

// TransitionRequest defines model for TransitionRequest.
type TransitionRequest struct {
	Action  string             `json:"action"`
	Actor   string             `json:"actor"`
	ActorId openapi_types.UUID `json:"actorId"`
}

// Candidate defines model for Candidate.
type Candidate struct {
	DistanceKm float64            `json:"distanceKm"`
	Name       string             `json:"name"`
	PartnerId  openapi_types.UUID `json:"partnerId"`
}

// TransitionResult defines model for TransitionResult.
type TransitionResult struct {
	Applied          bool         `json:"applied"`
	Candidates       *[]Candidate `json:"candidates,omitempty"`
	NoPartnersNearby bool         `json:"noPartnersNearby"`
	Order            Order        `json:"order"`
}

// Candidates defines model for Candidates.
type Candidates struct {
	Candidates       []Candidate        `json:"candidates"`
	NoPartnersNearby bool               `json:"noPartnersNearby"`
	OrderId          openapi_types.UUID `json:"orderId"`
	Status           Status             `json:"status"`
}

// LocationReport defines model for LocationReport.
type LocationReport struct {
	Lat        float64            `json:"lat"`
	Lng        float64            `json:"lng"`
	PartnerId  openapi_types.UUID `json:"partnerId"`
	RecordedAt *time.Time         `json:"recordedAt,omitempty"`
}

// Sample defines model for Sample.
type Sample struct {
	Id         openapi_types.UUID `json:"id"`
	Lat        float64            `json:"lat"`
	Lng        float64            `json:"lng"`
	OrderId    openapi_types.UUID `json:"orderId"`
	PartnerId  openapi_types.UUID `json:"partnerId"`
	RecordedAt time.Time          `json:"recordedAt"`
	Status     Status             `json:"status"`
}

// LocationResult defines model for LocationResult.
type LocationResult struct {
	Accepted bool    `json:"accepted"`
	Reason   *string `json:"reason,omitempty"`
	Sample   *Sample `json:"sample,omitempty"`
}

// Shop defines model for Shop.
type Shop struct {
	Address Address            `json:"address"`
	Id      openapi_types.UUID `json:"id"`
	Name    string             `json:"name"`
}

// NearbyShop defines model for NearbyShop.
type NearbyShop struct {
	DistanceKm float64 `json:"distanceKm"`
	Shop       Shop    `json:"shop"`
}

// ShopInput defines model for ShopInput.
type ShopInput struct {
	Address Address `json:"address"`
	Name    string  `json:"name"`
}

// Partner defines model for Partner.
type Partner struct {
	Id         openapi_types.UUID `json:"id"`
	LastSeenAt time.Time          `json:"lastSeenAt"`
	Location   Location           `json:"location"`
	Name       string             `json:"name"`
	Online     bool               `json:"online"`
}

// PartnerInput defines model for PartnerInput.
type PartnerInput struct {
	Location Location `json:"location"`
	Name     *string  `json:"name,omitempty"`
	Online   bool     `json:"online"`
}

// Notification defines model for Notification.
type Notification struct {
	CreatedAt   time.Time               `json:"createdAt"`
	Id          openapi_types.UUID      `json:"id"`
	Message     string                  `json:"message"`
	Payload     *map[string]interface{} `json:"payload,omitempty"`
	Read        bool                    `json:"read"`
	RecipientId openapi_types.UUID      `json:"recipientId"`
	Title       string                  `json:"title"`
	Type        string                  `json:"type"`
}

// StatusEvent defines model for StatusEvent.
type StatusEvent struct {
	Action    string              `json:"action"`
	Actor     string              `json:"actor"`
	At        time.Time           `json:"at"`
	From      Status              `json:"from"`
	OrderId   openapi_types.UUID  `json:"orderId"`
	PartnerId *openapi_types.UUID `json:"partnerId,omitempty"`
	To        Status              `json:"to"`
}

// StreamEventType defines model for StreamEvent.Type.
type StreamEventType string

const (
	StreamEventTypePosition StreamEventType = "position"
	StreamEventTypeStatus   StreamEventType = "status"
)

// StreamEvent One websocket frame of an order stream.
type StreamEvent struct {
	Sample *Sample         `json:"sample,omitempty"`
	Status *StatusEvent    `json:"status,omitempty"`
	Type   StreamEventType `json:"type"`
}

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ListOrdersParams defines parameters for ListOrders.
type ListOrdersParams struct {
	Status     *[]Status           `form:"status,omitempty" json:"status,omitempty"`
	CustomerId *openapi_types.UUID `form:"customerId,omitempty" json:"customerId,omitempty"`
	ShopId     *openapi_types.UUID `form:"shopId,omitempty" json:"shopId,omitempty"`
	PartnerId  *openapi_types.UUID `form:"partnerId,omitempty" json:"partnerId,omitempty"`
	Unassigned *bool               `form:"unassigned,omitempty" json:"unassigned,omitempty"`
	Limit      *int                `form:"limit,omitempty" json:"limit,omitempty"`
}

// GetOrderCandidatesParams defines parameters for GetOrderCandidates.
type GetOrderCandidatesParams struct {
	RadiusKm *float64 `form:"radiusKm,omitempty" json:"radiusKm,omitempty"`
}

// GetNearbyShopsParams defines parameters for GetNearbyShops.
type GetNearbyShopsParams struct {
	Lat      float64  `form:"lat" json:"lat"`
	Lng      float64  `form:"lng" json:"lng"`
	RadiusKm *float64 `form:"radiusKm,omitempty" json:"radiusKm,omitempty"`
}

// ListNotificationsParams defines parameters for ListNotifications.
type ListNotificationsParams struct {
	RecipientId openapi_types.UUID `form:"recipientId" json:"recipientId"`
	UnreadOnly  *bool              `form:"unreadOnly,omitempty" json:"unreadOnly,omitempty"`
}

// MarkNotificationReadParams defines parameters for MarkNotificationRead.
type MarkNotificationReadParams struct {
	RecipientId openapi_types.UUID `form:"recipientId" json:"recipientId"`
}

// CreateOrderJSONRequestBody defines body for CreateOrder for application/json ContentType.
type CreateOrderJSONRequestBody = NewOrder

// TransitionOrderJSONRequestBody defines body for TransitionOrder for application/json ContentType.
type TransitionOrderJSONRequestBody = TransitionRequest

// ReportLocationJSONRequestBody defines body for ReportLocation for application/json ContentType.
type ReportLocationJSONRequestBody = LocationReport

// UpsertPartnerJSONRequestBody defines body for UpsertPartner for application/json ContentType.
type UpsertPartnerJSONRequestBody = PartnerInput

// UpsertShopJSONRequestBody defines body for UpsertShop for application/json ContentType.
type UpsertShopJSONRequestBody = ShopInput
