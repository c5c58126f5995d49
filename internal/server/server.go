// Package server exposes the JSON API consumed by the gescom front end.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/gescom/internal/client"
	clientdomain "github.com/smallbiznis/gescom/internal/client/domain"
	"github.com/smallbiznis/gescom/internal/config"
	"github.com/smallbiznis/gescom/internal/invoice"
	invoicedomain "github.com/smallbiznis/gescom/internal/invoice/domain"
	"github.com/smallbiznis/gescom/internal/numbering"
	"github.com/smallbiznis/gescom/internal/observability"
	"github.com/smallbiznis/gescom/internal/order"
	orderdomain "github.com/smallbiznis/gescom/internal/order/domain"
	"github.com/smallbiznis/gescom/internal/product"
	productdomain "github.com/smallbiznis/gescom/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	numbering.Module,
	client.Module,
	product.Module,
	order.Module,
	invoice.Module,
	fx.Provide(NewServer),
	fx.Invoke(registerRoutes),
	fx.Invoke(run),
)

func NewEngine(metrics *observability.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	return r
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	clientSvc  clientdomain.Service
	productSvc productdomain.Service
	orderSvc   orderdomain.Service
	invoiceSvc invoicedomain.Service
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	ClientSvc  clientdomain.Service
	ProductSvc productdomain.Service
	OrderSvc   orderdomain.Service
	InvoiceSvc invoicedomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		log:        p.Log.Named("http"),
		clientSvc:  p.ClientSvc,
		productSvc: p.ProductSvc,
		orderSvc:   p.OrderSvc,
		invoiceSvc: p.InvoiceSvc,
	}
}

func registerRoutes(s *Server) {
	api := s.engine.Group("/api")

	api.POST("/clients", s.CreateClient)
	api.GET("/clients", s.ListClients)
	api.GET("/clients/:id", s.GetClient)

	api.POST("/products", s.CreateProduct)
	api.GET("/products", s.ListProducts)
	api.GET("/products/:id", s.GetProduct)
	api.PUT("/products/:id", s.UpdateProduct)

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.DELETE("/orders/:id", s.DeleteOrder)
	api.POST("/orders/:id/items", s.AddOrderItem)
	api.PUT("/orders/:id/items/:itemID", s.UpdateOrderItem)
	api.DELETE("/orders/:id/items/:itemID", s.RemoveOrderItem)
	api.PUT("/orders/:id/charges", s.UpdateOrderCharges)
	api.POST("/orders/:id/status", s.TransitionOrder)
	api.POST("/orders/:id/invoice", s.CreateInvoiceFromOrder)

	api.GET("/invoices", s.ListInvoices)
	api.GET("/invoices/:id", s.GetInvoice)
	api.POST("/invoices/:id/payments", s.RecordInvoicePayment)
	api.POST("/invoices/:id/send", s.SendInvoice)
	api.POST("/invoices/:id/cancel", s.CancelInvoice)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
