/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nabbar/kestrel/certificates"
	"github.com/nabbar/kestrel/conndriver"
	"github.com/nabbar/kestrel/config"
	"github.com/nabbar/kestrel/listener"
	"github.com/nabbar/kestrel/logging"
	"github.com/nabbar/kestrel/pipeline"
	"github.com/nabbar/kestrel/proxy"
	"github.com/nabbar/kestrel/response"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "load the configuration and serve until signaled to stop",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagConfigFile == "" {
				return fmt.Errorf("--config is required")
			}
			return runServe(flagConfigFile, verbosityToLevel(flagVerbose))
		},
	}
}

// verbosityToLevel turns a -v repeat count into a logging.Level, the
// same way this module's CLI treats -v/-vv/-vvv as progressively more
// chatty: bare kestrel runs at WarnLevel, -v at InfoLevel, and so on.
func verbosityToLevel(count int) logging.Level {
	switch {
	case count <= 0:
		return logging.WarnLevel
	case count == 1:
		return logging.InfoLevel
	case count == 2:
		return logging.DebugLevel
	default:
		return logging.TraceLevel
	}
}

func runServe(path string, level logging.Level) error {
	root, cfgErr := config.Load(path)
	if cfgErr != nil {
		return cfgErr
	}

	log := logging.New(os.Stdout, level)

	engine := proxy.NewEngine(proxy.TwoRandomChoices)

	pl := &pipeline.Pipeline{
		Handlers: []pipeline.Handler{
			newStaticFileStage(),
			newProxyStage(engine),
		},
		Finalizer: response.Finalizer{
			EnableAltSvc: false,
		},
		Log: log,
	}

	entries, err := buildListenerEntries(root, pl)
	if err != nil {
		return err
	}

	pool := listener.NewPool(entries...)

	driver := conndriver.New(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		servePipeline(pl, root, w, r)
	}))

	connHandler := func(c net.Conn) {
		if e := driver.ServeConn(c); e != nil {
			log.Debugf("connection %s closed: %v", c.RemoteAddr(), e)
		}
	}

	if lerr := pool.Listen(connHandler, nil); lerr != nil {
		return lerr
	}

	ctx, cancel := context.WithCancel(context.Background())
	pool.WaitNotify(ctx, cancel)

	return nil
}

// buildListenerEntries turns every global configuration block carrying
// a "listen" entry into a listener.Entry, attaching a *tls.Config built
// from its "tls_cert"/"tls_key" entries when present.
func buildListenerEntries(root *config.Root, pl *pipeline.Pipeline) ([]*listener.Entry, error) {
	entries := make([]*listener.Entry, 0, len(root.Configurations))

	for i, cfg := range root.Configurations {
		if !cfg.Filter.IsGlobal() {
			continue
		}

		bind := cfg.GetString("listen", "")
		if bind == "" {
			continue
		}

		name := fmt.Sprintf("listener-%d", i)

		var tlsCfg *tls.Config
		certFile := cfg.GetString("tls_cert", "")
		keyFile := cfg.GetString("tls_key", "")
		if certFile != "" && keyFile != "" {
			tc := certificates.New()
			if err := tc.AddCertificatePairFile(keyFile, certFile); err != nil {
				return nil, fmt.Errorf("listener %s: loading TLS pair: %w", name, err)
			}
			tlsCfg = tc.TLS("")
		}

		entries = append(entries, listener.NewEntry(name, bind, tlsCfg))
	}

	return entries, nil
}

// servePipeline adapts net/http's handler contract to Pipeline.Serve,
// writing the resulting Response back to w.
func servePipeline(pl *pipeline.Pipeline, root *config.Root, w http.ResponseWriter, r *http.Request) {
	clientIP := clientIPFromRequest(r)
	port := portFromRequest(r)

	resp := pl.Serve(r.Context(), r, root, clientIP, r.TLS != nil, port)

	for k, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

func clientIPFromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func portFromRequest(r *http.Request) int {
	_, portStr, err := net.SplitHostPort(r.Host)
	if err != nil {
		return 0
	}
	p, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}
	return p
}
