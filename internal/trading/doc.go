// Package trading runs the round-trip order check: buy a few cents of a yes
// contract in a liquid open market, wait, then sell it back.
//
// The check runs as a dry run unless Config.DryRun is false, and live orders
// additionally require an API client built with order placement enabled.
package trading
