package handlers

import (
	"time"

	"github.com/arzan03/productsdb-api/internal/middleware"
	"github.com/arzan03/productsdb-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
)

const healthMessage = "products is sitting"

// Deps are the services the HTTP layer is wired to.
type Deps struct {
	Products       *services.ProductService
	Users          *services.UserService
	Tasks          *services.TaskService
	Payments       *services.PaymentService
	Tokens         *services.TokenService
	RequestTimeout time.Duration
}

// NewApp builds the Fiber app with middleware and every route registered.
func NewApp(deps Deps, logger *zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "productsdb-api",
		Immutable:             true,
		UnescapePath:          true,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(logger))
	app.Use(recover.New())
	app.Use(cors.New())
	if deps.RequestTimeout > 0 {
		app.Use(middleware.RequestContext(deps.RequestTimeout))
	}

	Register(app, deps, logger)
	return app
}

// Register mounts the routes on router.
func Register(router fiber.Router, deps Deps, logger *zerolog.Logger) {
	products := NewProductHandler(deps.Products, logger)
	users := NewUserHandler(deps.Users, logger)
	tasks := NewTaskHandler(deps.Tasks, logger)
	payments := NewPaymentHandler(deps.Payments, logger)
	auth := NewAuthHandler(deps.Tokens, logger)

	router.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(healthMessage)
	})

	// Product Routes
	router.Get("/products", products.List)
	router.Get("/allproducts", products.List)
	router.Get("/paginatedproducts", products.Paginated)
	router.Get("/productCount", products.Count)
	router.Get("/products/:name", products.SearchByName)
	router.Get("/filteredproducts", products.Filtered)
	router.Get("/categories", products.Categories)
	router.Get("/brands", products.Brands)

	// Auth Routes
	// Issues a token for any well-formed email. The caller is not authenticated.
	router.Post("/jwt", auth.IssueToken)

	// User Routes
	router.Get("/users", users.List)
	router.Get("/users/admin/:email", middleware.VerifyToken(deps.Tokens), users.IsAdmin)
	router.Post("/users", users.Create)
	router.Patch("/users/admin/:id", users.MakeAdmin)
	router.Delete("/users/:id", users.Delete)

	// Employee Routes
	router.Get("/employees", users.Employees)
	router.Patch("/employees/verify", users.Verify)
	router.Patch("/employees/makeHr", users.MakeHR)
	router.Patch("/updateSalary", users.UpdateSalary)
	router.Get("/verifiedList", users.VerifiedList)

	// Task Routes
	router.Post("/tasks", tasks.Create)
	router.Get("/tasks", tasks.List)

	// Payment Routes
	router.Post("/payments", payments.Record)
	router.Get("/details", payments.Details)
	router.Get("/payments/:id/receipt", payments.Receipt)
}
