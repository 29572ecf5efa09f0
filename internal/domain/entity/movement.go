package entity

import "time"

// Direcciones de movimiento de stock. Se persisten tal cual en movimientos.tipo
// (esquema heredado de la consola: 'entrada' | 'salida').
const (
	DirectionEntry = "entrada"
	DirectionExit  = "salida"
)

// ValidDirection reporta si direction es una dirección conocida.
func ValidDirection(direction string) bool {
	return direction == DirectionEntry || direction == DirectionExit
}

// Movement es una entrada del libro de movimientos: registro inmutable y
// append-only de cada cambio de stock con su justificación. Las correcciones
// se hacen con movimientos compensatorios, nunca editando el historial.
//
// IntentID es la clave de idempotencia aportada por el caller: repetir la misma
// intención después de un éxito confirmado no vuelve a aplicar el delta.
// PreviousStock y ResultingStock guardan el stock antes y después del
// movimiento: un replay responde con el resultado original y una salida
// limitada a 0 (clamp) se reconoce sin ambigüedad.
type Movement struct {
	ID             int64
	IntentID       string
	ItemID         int64
	ItemKind       string
	Direction      string
	Quantity       int64
	Reason         string
	PreviousStock  int64
	ResultingStock int64
	Date           time.Time
}
