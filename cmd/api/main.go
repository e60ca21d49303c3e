package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go-apotek-pos/internal/handler"
	"go-apotek-pos/internal/job"
	"go-apotek-pos/internal/middleware"
	"go-apotek-pos/internal/model"
	"go-apotek-pos/internal/repository"
	"go-apotek-pos/internal/service"
	"go-apotek-pos/internal/ws"
	"go-apotek-pos/pkg/database"
	"go-apotek-pos/pkg/mailer"

	"github.com/go-co-op/gocron"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func main() {
	// 1. Load env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Supplier{}, &model.Product{},
		&model.PurchaseOrder{}, &model.PurchaseOrderItem{},
		&model.Transaction{}, &model.TransactionItem{},
		&model.StockLog{}, &model.AuditLog{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	)

	// 3. Seed default privileges, roles, and owner user
	seedPrivilegesRolesAndOwner(db)

	// 4. Setup WebSocket hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	lowStockThreshold := 10
	if v, err := strconv.Atoi(os.Getenv("LOW_STOCK_THRESHOLD")); err == nil && v > 0 {
		lowStockThreshold = v
	}

	// 5. Dependency injection (wiring layers)
	productRepo := repository.NewProductRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	poRepo := repository.NewPurchaseOrderRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	invService := service.NewInventoryService(productRepo, supplierRepo, db, wsHub)
	poService := service.NewPurchaseOrderService(poRepo, productRepo, supplierRepo, db, wsHub)
	cashierService := service.NewCashierService(productRepo, txRepo, db, wsHub)
	dashService := service.NewDashboardService(txRepo, lowStockThreshold)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	invHandler := handler.NewInventoryHandler(invService)
	poHandler := handler.NewPurchaseOrderHandler(poService)
	cashierHandler := handler.NewCashierHandler(cashierService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)
	auditHandler := handler.NewAuditHandler(auditRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Apotek POS v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Request logging
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	middleware.InitMetrics()
	app.Use(middleware.PrometheusMiddleware())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetDashboardStats)
	protected.Get("/dashboard/sales-summary", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetSalesSummary)

	// Products
	protected.Get("/products", invHandler.GetProducts)
	protected.Get("/products/:id", invHandler.GetProduct)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), invHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), invHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePrivilege("product:delete"), invHandler.DeleteProduct)
	protected.Post("/products/:id/adjust-stock", middleware.RequirePrivilege("product:adjust_stock"), invHandler.AdjustStock)

	// Suppliers
	protected.Get("/suppliers", invHandler.GetSuppliers)
	protected.Get("/suppliers/:id", invHandler.GetSupplier)
	protected.Post("/suppliers", middleware.RequirePrivilege("supplier:create"), invHandler.CreateSupplier)
	protected.Put("/suppliers/:id", middleware.RequirePrivilege("supplier:update"), invHandler.UpdateSupplier)
	protected.Delete("/suppliers/:id", middleware.RequirePrivilege("supplier:delete"), invHandler.DeleteSupplier)

	// Purchase orders
	protected.Get("/purchase-orders", middleware.RequirePrivilege("purchase_order:view"), poHandler.GetPurchaseOrders)
	protected.Get("/purchase-orders/:id", middleware.RequirePrivilege("purchase_order:view"), poHandler.GetPurchaseOrder)
	protected.Post("/purchase-orders", middleware.RequirePrivilege("purchase_order:create"), poHandler.CreatePurchaseOrder)
	protected.Post("/purchase-orders/:id/approve", middleware.RequirePrivilege("purchase_order:approve"), poHandler.ApprovePurchaseOrder)
	protected.Post("/purchase-orders/:id/receive", middleware.RequirePrivilege("purchase_order:receive"), poHandler.ReceivePurchaseOrder)
	protected.Post("/purchase-orders/:id/cancel", middleware.RequirePrivilege("purchase_order:cancel"), poHandler.CancelPurchaseOrder)
	protected.Delete("/purchase-orders/:id", middleware.RequirePrivilege("purchase_order:delete"), poHandler.DeletePurchaseOrder)

	// Cashier
	protected.Get("/transactions", middleware.RequirePrivilege("transaction:view"), cashierHandler.GetTransactions)
	protected.Get("/transactions/:id", middleware.RequirePrivilege("transaction:view"), cashierHandler.GetTransaction)
	protected.Post("/transactions/preview", middleware.RequirePrivilege("transaction:create"), cashierHandler.PreviewCheckout)
	protected.Post("/transactions", middleware.RequirePrivilege("transaction:create"), cashierHandler.CommitCheckout)

	// User management
	protected.Get("/users", middleware.RequirePrivilege("user:view"), userHandler.GetUsers)
	protected.Get("/users/:id", middleware.RequirePrivilege("user:view"), userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Roles
	protected.Get("/roles", roleHandler.GetRoles)

	// Privileges (list all available privileges)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// Audit trails (OWNER)
	protected.Get("/audit-logs", middleware.RequirePrivilege("audit:view"), auditHandler.GetAuditLogs)
	protected.Get("/stock-logs", middleware.RequirePrivilege("audit:view"), auditHandler.GetStockLogs)

	// WebSocket route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Daily low stock sweep
	sweep := job.NewLowStockSweep(productRepo, wsHub, mailer.NewFromEnv(), lowStockThreshold)
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		loc = time.FixedZone("WIB", 7*60*60)
	}
	scheduler := gocron.NewScheduler(loc)
	scheduler.Every(1).Day().At("07:00").Do(sweep.Run)
	scheduler.StartAsync()

	// 9. Graceful shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	scheduler.Stop()
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndOwner creates default privileges, roles, and the
// owner user if they don't exist
func seedPrivilegesRolesAndOwner(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	allPrivileges, _ := privilegeRepo.FindAll()

	// OWNER gets ALL privileges
	ownerRole, err := roleRepo.FindByCode(model.RoleOwner)
	if err == nil && len(ownerRole.Privileges) == 0 {
		db.Model(&ownerRole).Association("Privileges").Replace(allPrivileges)
		log.Println("OWNER role assigned all privileges")
	}

	// PEGAWAI gets day-to-day privileges (no user management, no audit views)
	pegawaiRole, err := roleRepo.FindByCode(model.RolePegawai)
	if err == nil && len(pegawaiRole.Privileges) == 0 {
		pegawaiPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			switch p.Code {
			case "user:view", "user:create", "user:update", "user:delete", "user:update_privilege",
				"audit:view", "purchase_order:approve", "purchase_order:delete":
				continue
			}
			pegawaiPrivileges = append(pegawaiPrivileges, p)
		}
		db.Model(&pegawaiRole).Association("Privileges").Replace(pegawaiPrivileges)
		log.Println("PEGAWAI role assigned limited privileges")
	}

	// Create the default owner with the OWNER role
	ownerEmail := os.Getenv("OWNER_EMAIL")
	if ownerEmail == "" {
		ownerEmail = "owner@apotek.local"
	}
	if _, err := userRepo.FindByEmail(ownerEmail); err != nil {
		ownerRole, _ := roleRepo.FindByCode(model.RoleOwner)

		owner := &model.User{
			Email:      ownerEmail,
			FullName:   "Apotek Owner",
			RoleID:     &ownerRole.ID,
			IsActive:   true,
			Privileges: ownerRole.Privileges,
		}
		owner.CreatedBy = "system"
		owner.UpdatedBy = "system"

		password := os.Getenv("OWNER_PASSWORD")
		if password == "" {
			password = "owner123"
		}
		if err := owner.SetPassword(password); err != nil {
			log.Printf("Warning: Failed to hash owner password: %v", err)
			return
		}

		if err := userRepo.Create(owner); err != nil {
			log.Printf("Warning: Failed to create owner user: %v", err)
		} else {
			log.Printf("Owner user created: %s (OWNER)", ownerEmail)
		}
	}
}
