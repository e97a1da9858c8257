package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof" // register handlers
	"regexp"
	"strconv"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zephyrtronium/saber/spoken"
)

func (robo *Robot) api(ctx context.Context, listen string, mux *http.ServeMux, metrics []prometheus.Collector) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(
		collectors.WithGoCollectorMemStatsMetricsDisabled(),
		collectors.WithGoCollectorRuntimeMetrics(
			collectors.GoRuntimeMetricsRule{
				Matcher: regexp.MustCompile(`^(/gc/gogc:percent|/gc/gomemlimit:bytes|/gc/heap/allocs:bytes|/gc/heap/goal:bytes|/memory/classes/total:bytes|/sched/goroutines:goroutines|/sched/latencies:seconds)$`),
			},
		),
	))
	reg.MustRegister(metrics...)
	opts := promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, opts))
	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	robo.routes(mux)
	l, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("couldn't start API server: %w", err)
	}
	srv := http.Server{
		Handler:     mux,
		ReadTimeout: 5 * time.Second,
		BaseContext: func(l net.Listener) context.Context { return ctx },
	}
	go func() {
		slog.InfoContext(ctx, "HTTP API server", slog.Any("addr", l.Addr()))
		err := srv.Serve(l)
		if err == http.ErrServerClosed {
			return
		}
		slog.ErrorContext(ctx, "HTTP API server closed", slog.Any("err", err))
	}()
	<-ctx.Done()
	// The context is now done, so it is obviously the wrong choice for
	// managing the shutdown.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// routes adds the bot's own API routes to a mux.
func (robo *Robot) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/commands", robo.apiCommands)
	mux.HandleFunc("GET /api/spoken/{channel}", robo.apiSpoken)
}

func jsonerror(w http.ResponseWriter, status int, msg string) {
	v := struct {
		Error  string `json:"error"`
		Status int    `json:"status"`
	}{
		Error:  msg,
		Status: status,
	}
	b, err := json.Marshal(&v)
	if err != nil {
		panic(err)
	}
	w.WriteHeader(status)
	w.Write(b)
}

type apiCommand struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Category    string   `json:"category,omitzero"`
	Usage       string   `json:"usage,omitzero"`
	Help        string   `json:"help,omitzero"`
	Permissions int64    `json:"permissions,omitzero"`
	OwnerOnly   bool     `json:"owner_only,omitzero"`
}

func (robo *Robot) apiCommands(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slog.With(slog.String("api", "commands"), slog.Any("trace", uuid.New()))
	log.InfoContext(ctx, "handle", slog.String("route", r.Pattern), slog.String("remote", r.RemoteAddr))
	w.Header().Set("Content-Type", "application/json")
	all := robo.commands.All()
	cmds := make([]apiCommand, 0, len(all))
	for _, c := range all {
		cmds = append(cmds, apiCommand{
			Name:        c.Name,
			Aliases:     c.Aliases,
			Category:    c.Category,
			Usage:       c.Usage,
			Help:        c.Help,
			Permissions: c.Permissions,
			OwnerOnly:   c.OwnerOnly,
		})
	}
	v := struct {
		Prefix   string       `json:"prefix"`
		Commands []apiCommand `json:"commands"`
	}{
		Prefix:   robo.prefix,
		Commands: cmds,
	}
	if err := json.MarshalWrite(w, &v); err != nil {
		log.ErrorContext(ctx, "couldn't write response", slog.Any("err", err))
	}
}

func (robo *Robot) apiSpoken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slog.With(slog.String("api", "spoken"), slog.Any("trace", uuid.New()))
	log.InfoContext(ctx, "handle", slog.String("route", r.Pattern), slog.String("remote", r.RemoteAddr))
	defer log.InfoContext(ctx, "done")
	w.Header().Set("Content-Type", "application/json")
	if robo.spoken == nil {
		jsonerror(w, http.StatusNotFound, "sent message history is disabled")
		return
	}
	channel := r.PathValue("channel")
	n := 20
	if s := r.FormValue("n"); s != "" {
		var err error
		n, err = strconv.Atoi(s)
		if err != nil || n <= 0 || n > 1000 {
			log.WarnContext(ctx, "bad request", slog.String("n", s), slog.Any("err", err))
			jsonerror(w, http.StatusBadRequest, "invalid count")
			return
		}
	}
	msgs, err := spoken.Recent(ctx, robo.spoken, channel, n)
	if err != nil {
		log.ErrorContext(ctx, "couldn't get sent messages", slog.Any("err", err))
		jsonerror(w, http.StatusInternalServerError, err.Error())
		return
	}
	v := struct {
		Messages []spoken.Message `json:"messages"`
	}{
		Messages: msgs,
	}
	if err := json.MarshalWrite(w, &v); err != nil {
		log.ErrorContext(ctx, "couldn't write response", slog.Any("err", err))
	}
}
