package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/robbyt/go-logiclet"
	"github.com/robbyt/go-logiclet/bizlog"
	"github.com/robbyt/go-logiclet/options"
	"github.com/robbyt/go-logiclet/remote/call/httpcall"
	"github.com/robbyt/go-logiclet/remote/call/localcall"
	"github.com/robbyt/go-logiclet/remote/call/rediscall"
	"github.com/robbyt/go-logiclet/remote/call/wscall"
	"github.com/robbyt/go-logiclet/servant"
)

const (
	reportPath = "/_bizlog"
	wsPath     = "/_ws"
)

type serveOptions struct {
	addr        string
	routes      map[string]string
	capacity    int
	redisAddr   string
	redisQueue  string
	shutdownFor time.Duration
}

func newServeCmd(o *rootOptions) *cobra.Command {
	so := &serveOptions{}
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve scripts as servants",
		Long: `Serve every --route path=script as a servant.

Requests arrive as HTTP POSTs on the route path, as envelopes on the
WebSocket endpoint ` + wsPath + `, and, with --redis-addr, on a Redis list.
` + reportPath + ` reports the business log.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), o, so)
		},
	}
	c.Flags().StringVar(&so.addr, "addr", ":8080", "HTTP listen address")
	c.Flags().StringToStringVar(&so.routes, "route", nil, "servant path=script file or url, repeatable")
	c.Flags().IntVar(&so.capacity, "bizlog-capacity", bizlog.DefaultCapacity, "business log records kept in memory")
	c.Flags().StringVar(&so.redisAddr, "redis-addr", "", "serve the Redis queue at this address")
	c.Flags().StringVar(&so.redisQueue, "redis-queue", rediscall.DefaultQueue, "Redis request list")
	c.Flags().DurationVar(&so.shutdownFor, "shutdown-timeout", 10*time.Second, "grace period for in-flight requests")
	return c
}

// node is one served process: its servants and the transports in front of them.
type node struct {
	handler http.Handler
	router  *localcall.Router
	paths   []string
	memory  *bizlog.MemoryLogger
}

func newNode(o *rootOptions, so *serveOptions, handler slog.Handler) (*node, error) {
	memory := bizlog.NewMemoryLogger(so.capacity)
	biz := bizlog.Multi{memory, bizlog.NewSlogLogger(handler)}

	servants := servant.NewRegistry()
	dispatcher := servant.NewDispatcher(
		servant.WithLogHandler(handler),
		servant.WithBizLogger(biz),
	)
	router := localcall.NewRouter(servants, dispatcher)

	calls, err := o.callRegistry(handler, router)
	if err != nil {
		return nil, err
	}

	var errz []error
	for _, path := range slices.Sorted(maps.Keys(so.routes)) {
		s, err := o.loadScript(so.routes[path], options.WithLogHandler(handler), options.WithCalls(calls))
		if err != nil {
			errz = append(errz, fmt.Errorf("route %s: %w", path, err))
			continue
		}
		if err := servants.Register(path, logiclet.NewScriptServant(path, s)); err != nil {
			errz = append(errz, err)
		}
	}
	if err := servants.Register(reportPath, servant.NewReportServant(biz)); err != nil {
		errz = append(errz, err)
	}
	if len(errz) > 0 {
		return nil, errors.Join(errz...)
	}

	mux := http.NewServeMux()
	mux.Handle(wsPath, wscall.NewHandler(handler, router))
	mux.Handle("/", httpcall.NewHandler(handler, router))

	return &node{
		handler: mux,
		router:  router,
		paths:   servants.Paths(),
		memory:  memory,
	}, nil
}

func serve(ctx context.Context, o *rootOptions, so *serveOptions) error {
	handler := o.handler()
	logger := slog.New(handler).WithGroup("serve")

	n, err := newNode(o, so, handler)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              so.addr,
		Handler:           n.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", so.addr, "paths", n.paths)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), so.shutdownFor)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if so.redisAddr != "" {
		opts := rediscall.Options{Addr: so.redisAddr, Queue: so.redisQueue}
		rs := rediscall.NewServer(handler, opts, n.router)
		g.Go(func() error {
			logger.Info("serving redis queue", "addr", so.redisAddr, "queue", so.redisQueue)
			return rs.Serve(gctx)
		})
	}

	err = g.Wait()
	logger.Info("stopped", "error", err)
	return err
}
