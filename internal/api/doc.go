// Package api provides the signed Kalshi REST client.
//
// REST endpoints:
//   - Production: https://api.elections.kalshi.com/trade-api/v2
//   - Demo: https://demo-api.kalshi.co/trade-api/v2
//
// Every request is signed over timestamp + method + path, where path keeps
// the /trade-api/v2 prefix. Calls are made once; failures are logged and
// returned, never retried.
package api
