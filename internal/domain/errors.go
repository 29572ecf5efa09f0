package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// ErrTransientStore marca fallas de I/O recuperables contra la base de datos
	// (conexión caída, serialización). El reconciliador las reintenta con límite.
	ErrTransientStore = errors.New("falla transitoria del almacén")

	// ErrReconciliationFailed se retorna cuando una conciliación de stock agotó
	// sus reintentos sin poder confirmar la transacción.
	ErrReconciliationFailed = errors.New("conciliación de stock fallida")

	// ErrSaleNotPending indica un intento de transicionar una venta que ya está
	// en estado terminal (completada o fallida).
	ErrSaleNotPending = errors.New("la venta no está pendiente")
)
