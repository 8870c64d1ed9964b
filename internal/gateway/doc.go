// Package gateway runs the summariser web frontend.
//
// # Overview
//
// The gateway owns the pieces behind the summariser-web binary: the
// conversation service client, the web UI handler, the HTTP server and,
// when enabled, an embedded Tailscale node.
//
//	type Gateway struct {
//	    config      *config.Config
//	    client      *api.Client
//	    web         *webui.Server
//	    httpServer  *http.Server
//	    tsnetServer *tsnet.Server
//	}
//
// # Listeners
//
// Without Tailscale the server listens on server.http_addr. With
// tailscale.enabled the node joins the tailnet under tailscale.hostname and
// serves:
//
//   - Funnel on :443 when tailscale.funnel is set (public HTTPS)
//   - HTTPS on :443 when tailscale.cert_file and tailscale.key_file are set
//   - plain HTTP on :80 otherwise
//
// The auth key comes from tailscale.auth_key or TS_AUTHKEY.
//
// # Lifecycle
//
//	gw, err := gateway.New(cfg, logger)
//	err = gw.Run(ctx) // blocks until ctx is canceled
//
// Cancelling ctx shuts the HTTP server down with a five second grace
// period, closes every browser session and leaves the tailnet.
package gateway
