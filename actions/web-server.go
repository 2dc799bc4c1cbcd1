package actions

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/relloyd/whload/helper"
	"github.com/relloyd/whload/logger"
)

const (
	urlContext4Load   = "/load"
	urlContext4Health = "/health"
	urlContext4Stop   = "/stop"
)

type WebServerConfig struct {
	LogLevel         string `errorTxt:"log level" mandatory:"yes"`
	Scheme           string `errorTxt:"scheme" mandatory:"no"`
	Addr             net.IP `errorTxt:"address" mandatory:"no"`
	Port             int    `errorTxt:"port" mandatory:"yes"`
	StackDumpOnPanic bool
}

// RunWebServer accepts trigger events over HTTP and blocks until the server is stopped.
func RunWebServer(log logger.Logger, web *WebServerConfig, h LoadHandler) error {
	if web == nil {
		return errors.New("nil pointer to web server config supplied")
	}
	if err := helper.ValidateStructIsPopulated(web); err != nil {
		return err
	}
	srv, chanStopServer := runServer(log, web, h)
	return waitForServer(log, srv, chanStopServer)
}

func newRouter(log logger.Logger, h LoadHandler, chanStopServer chan string) *mux.Router {
	r := mux.NewRouter()
	r.Path(urlContext4Health).Methods(http.MethodGet).HandlerFunc(GetHandlerHealth(log))
	r.Path(urlContext4Stop).Methods(http.MethodPost).HandlerFunc(GetHandlerStopServer(log, chanStopServer))
	r.Path(urlContext4Load).Methods(http.MethodPost).HandlerFunc(GetHandlerLoad(log, h))
	return r
}

// runServer starts a web server and returns:
// 1) the server; and
// 2) a channel that can be used to stop the web server
func runServer(log logger.Logger, web *WebServerConfig, h LoadHandler) (*http.Server, chan string) {
	chanStopServer := make(chan string, 1)
	srv := &http.Server{
		Addr:         fmt.Sprintf("%v:%v", web.Addr, web.Port),
		WriteTimeout: time.Minute * 15, // loads run inside the request
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      newRouter(log, h, chanStopServer),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			if err == http.ErrServerClosed {
				log.Info(err)
			} else {
				log.Panic(err)
			}
		}
	}()
	log.Info(fmt.Sprintf("Listening on %v://%v:%v", strings.ToLower(web.Scheme), web.Addr, web.Port))
	return srv, chanStopServer
}

func waitForServer(log logger.Logger, srv *http.Server, chanStopServer chan string) error {
	// Accept graceful shutdowns when quit via SIGINT (Ctrl+C).
	chanOS := make(chan os.Signal, 1)
	signal.Notify(chanOS, os.Interrupt)
	select {
	case <-chanStopServer:
	case <-chanOS:
	}
	log.Info("Shutting down web server...")
	// In-flight loads are given the same time to finish as a request would have.
	ctx, cancel := context.WithTimeout(context.Background(), srv.WriteTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
