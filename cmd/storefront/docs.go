package main

// @title Pickup Storefront API
// @version 1.0
// @description Order-ahead storefront: catalog, users and pay-on-pickup orders with full observability (logging, tracing, metrics)

// @contact.name API Support
// @contact.email support@example.com

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token returned by login.

// @tag.name Catalog
// @tag.description Products, categories and stock

// @tag.name Users
// @tag.description Login, registration and user management

// @tag.name Orders
// @tag.description Order placement and fulfilment

// @tag.name Health
// @tag.description Health check endpoints
