// Command spriteloopweb serves a directory of frames, their sprite
// locations, crops and loops over HTTP.
package main

import (
	"flag"
	"net/http"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "golang.org/x/net/trace"

	"badc0de.net/pkg/go-spriteloop/config"
	"badc0de.net/pkg/go-spriteloop/frames"
	"badc0de.net/pkg/go-spriteloop/web"
)

var (
	listenAddress  = flag.String("listen_address", ":8080", "http listen address for spriteloopweb")
	debugWebServer = flag.String("debug_web_server_listen_address", "", "where the debug server (/debug/requests) will listen")
)

func main() {
	cfg := config.RegisterFlags(flag.CommandLine)
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if err := cfg.Validate(); err != nil {
		glog.Exitf("%v", err)
	}
	in, err := frames.List(cfg.InputDir())
	if err != nil {
		glog.Exitf("listing frames: %v", err)
	}
	glog.Infof("serving %d frames from %q on %s", len(in), cfg.InputDir(), *listenAddress)

	if *debugWebServer != "" {
		go func() {
			glog.Errorf("debug server: %v", http.ListenAndServe(*debugWebServer, nil))
		}()
	}

	r := mux.NewRouter()
	web.NewHandler(in, cfg.PipelineOptions()).RegisterRoutes(r)

	h := handlers.CompressHandler(handlers.LoggingHandler(os.Stderr, r))
	glog.Fatal(http.ListenAndServe(*listenAddress, h))
}
