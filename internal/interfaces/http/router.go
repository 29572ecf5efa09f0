package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tallerpro/taller-api/internal/application/inventory"
	"github.com/tallerpro/taller-api/internal/application/sales"
	"github.com/tallerpro/taller-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	ConsumableUC  *usecase.ConsumableUseCase
	CustomerUC    *usecase.CustomerUseCase
	VehicleUC     *usecase.VehicleUseCase
	ServiceUC     *usecase.ServiceUseCase
	AppointmentUC *usecase.AppointmentUseCase
	ReconcileUC   *inventory.ReconcileUseCase
	HistoryUC     *inventory.HistoryUseCase
	CheckoutUC    *sales.CheckoutUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/barcode/:code", productHandler.GetByBarcode)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Consumables
	consumables := api.Group("/consumables")
	consumableHandler := NewConsumableHandler(deps.ConsumableUC)
	consumables.Post("/", consumableHandler.Create)
	consumables.Get("/", consumableHandler.List)
	consumables.Get("/:id", consumableHandler.GetByID)
	consumables.Put("/:id", consumableHandler.Update)
	consumables.Delete("/:id", consumableHandler.Delete)

	// Inventory: registro de movimientos, disponibilidad e historial
	inventoryHandler := NewInventoryHandler(deps.ReconcileUC, deps.HistoryUC)
	movements := api.Group("/movements")
	movements.Post("/", inventoryHandler.RegisterMovement)
	movements.Get("/", inventoryHandler.ListMovements)
	movements.Get("/:kind/:id", inventoryHandler.ItemHistory)
	api.Get("/inventory/availability", inventoryHandler.CheckAvailability)

	// Sales (punto de venta)
	salesGroup := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.CheckoutUC)
	salesGroup.Post("/", saleHandler.Checkout)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)

	// Customers y sus vehículos
	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC, deps.VehicleUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)
	customers.Get("/:id/vehicles", customerHandler.ListVehicles)

	// Vehicles
	vehicles := api.Group("/vehicles")
	vehicleHandler := NewVehicleHandler(deps.VehicleUC)
	vehicles.Post("/", vehicleHandler.Create)
	vehicles.Get("/:id", vehicleHandler.GetByID)
	vehicles.Put("/:id", vehicleHandler.Update)
	vehicles.Delete("/:id", vehicleHandler.Delete)

	// Services (catálogo)
	services := api.Group("/services")
	serviceHandler := NewServiceHandler(deps.ServiceUC)
	services.Post("/", serviceHandler.Create)
	services.Get("/", serviceHandler.List)
	services.Get("/:id", serviceHandler.GetByID)
	services.Put("/:id", serviceHandler.Update)
	services.Delete("/:id", serviceHandler.Delete)

	// Appointments
	appointments := api.Group("/appointments")
	appointmentHandler := NewAppointmentHandler(deps.AppointmentUC)
	appointments.Post("/", appointmentHandler.Create)
	appointments.Get("/", appointmentHandler.List)
	appointments.Get("/:id", appointmentHandler.GetByID)
	appointments.Put("/:id", appointmentHandler.Update)
	appointments.Patch("/:id/status", appointmentHandler.UpdateStatus)
	appointments.Delete("/:id", appointmentHandler.Delete)
}
