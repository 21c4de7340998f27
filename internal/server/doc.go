// Package server exposes the harness over HTTP for scraping and health
// checks. It serves Prometheus metrics on /metrics, a liveness probe on
// /healthz and the list of available strategies on /v1/strategies.
//
// Every response carries security headers and, when enabled, CORS
// headers for browser dashboards reading the metrics endpoint.
package server
