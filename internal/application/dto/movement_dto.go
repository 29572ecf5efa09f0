package dto

import "time"

// RegisterMovementRequest body para POST /api/movements.
// IntentID es opcional: el cliente puede fijarlo para reintentar la misma
// intención sin riesgo de doble aplicación.
type RegisterMovementRequest struct {
	IntentID  string `json:"intent_id,omitempty"`
	ItemID    int64  `json:"item_id" validate:"required,gt=0"`
	ItemKind  string `json:"item_kind" validate:"required,oneof=product consumable"`
	Direction string `json:"direction" validate:"required,oneof=entrada salida"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
	Reason    string `json:"reason" validate:"required"`
}

// ReconcileResponse resultado de una conciliación de stock.
// Warning va presente solo en cumplimiento parcial (clamp-and-report).
type ReconcileResponse struct {
	MovementID int64  `json:"movement_id"`
	IntentID   string `json:"intent_id"`
	NewStock   int64  `json:"new_stock"`
	Replayed   bool   `json:"replayed,omitempty"`
	Warning    string `json:"warning,omitempty"`
}

// MovementResponse representación HTTP de una entrada del libro de movimientos.
type MovementResponse struct {
	ID             int64     `json:"id"`
	IntentID       string    `json:"intent_id"`
	ItemID         int64     `json:"item_id"`
	ItemKind       string    `json:"item_kind"`
	Direction      string    `json:"direction"`
	Quantity       int64     `json:"quantity"`
	Reason         string    `json:"reason"`
	PreviousStock  int64     `json:"previous_stock"`
	ResultingStock int64     `json:"resulting_stock"`
	Date           time.Time `json:"date"`
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Movements []MovementResponse `json:"movements"`
	Page      PageResponse       `json:"page"`
}
