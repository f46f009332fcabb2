package main

// @title Catalog Service API
// @version 1.0
// @description Product catalog service with keyword search, featured products and full observability (logging, tracing, metrics)

// @contact.name API Support
// @contact.email support@primefinds.dev

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8081
// @BasePath /
