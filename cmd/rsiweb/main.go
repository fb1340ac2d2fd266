// Command rsiweb serves the RSI packages of a directory for previewing in a
// browser.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"runtime"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"golang.org/x/net/trace"

	"badc0de.net/pkg/go-rsi/config"
	"badc0de.net/pkg/go-rsi/web"
)

func newRouter(cfg *config.Config) http.Handler {
	h := web.NewHandler(os.DirFS(cfg.Web.Root), &web.Options{
		MaxAge:      cfg.Web.MaxAge,
		Parallelism: cfg.Parallelism,
	})
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	return handlers.CompressHandler(handlers.LoggingHandler(os.Stdout, r))
}

func debugMux() *http.ServeMux {
	m := http.NewServeMux()
	m.HandleFunc("/debug/requests", trace.Traces)
	m.HandleFunc("/debug/events", trace.Events)
	m.HandleFunc("/debug/minimetrics", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "runtime.NumGoroutine(): %d\n", runtime.NumGoroutine())
	})
	return m
}

func main() {
	cf := config.RegisterFlags(flag.CommandLine)
	flagutil.Parse()
	defer glog.Flush()

	cfg, err := config.Load(cf)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	figure.NewFigure("rsiweb", "", true).Print()
	glog.Infof("serving packages from %s on %s", cfg.Web.Root, cfg.Web.ListenAddress)

	if cfg.Web.DebugListenAddress != "" {
		// trace only answers requests from localhost.
		go func() {
			glog.Errorln(http.ListenAndServe(cfg.Web.DebugListenAddress, debugMux()))
		}()
	}

	glog.Fatal(http.ListenAndServe(cfg.Web.ListenAddress, newRouter(cfg)))
}
