// Command metaserver runs the game-discovery registry of spec §4.8 over
// UDP, plus a read-only HTTP diagnostics surface (ambient tooling, not
// gameplay -- see SPEC_FULL.md §B).
//
// Usage: metaserver [port]
//
// Grounded on main.go's wiring style (engine + actor + top-level signal
// handling), adapted from the teacher's single WebSocket HTTP server to a
// UDP actor plus a separate diagnostics HTTP mux.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/theoden8/mini-fifa-sub000/internal/bollywood"
	"github.com/theoden8/mini-fifa-sub000/internal/config"
	"github.com/theoden8/mini-fifa-sub000/internal/metaserver"
	"github.com/theoden8/mini-fifa-sub000/internal/netsock"
	"github.com/theoden8/mini-fifa-sub000/internal/wire"
)

// diagnosticsPort serves /healthz, /metrics, /games -- never gameplay
// traffic, which stays on the UDP port below.
const diagnosticsPort = 9678

func main() {
	cfg := config.Default()
	port := cfg.MetaserverPort
	if len(os.Args) > 1 {
		p, err := strconv.Atoi(os.Args[1])
		if err != nil {
			log.Fatalf("metaserver: invalid port %q: %v", os.Args[1], err)
		}
		port = p
	}

	socket, err := netsock.Bind(port, wire.MaxDatagramSize,
		netsock.WithTTL(64),
		netsock.WithRateLimit(500, 100),
	)
	if err != nil {
		log.Fatalf("metaserver: bind :%d failed: %v", port, err)
	}
	defer socket.Close()
	fmt.Printf("metaserver: listening on UDP :%d\n", socket.LocalPort())

	reg := metaserver.NewRegistry()
	engine := bollywood.NewEngine()
	pid := engine.Spawn(bollywood.NewProps(metaserver.NewProducerWithRegistry(reg, socket)))
	if pid == nil {
		log.Fatalf("metaserver: failed to spawn actor")
	}

	go serveDiagnostics(reg)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		socket.Listen(
			func() bool {
				select {
				case <-stop:
					return false
				default:
					return true
				}
			},
			func(pkt netsock.Packet) bool {
				engine.Send(pid, metaserver.PacketMessage{Packet: pkt}, nil)
				return true
			},
		)
	}()

	<-stop
	fmt.Println("metaserver: shutting down")
	engine.Shutdown(5 * time.Second)
	<-done
	os.Exit(0)
}

func serveDiagnostics(reg *metaserver.Registry) {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{AllowedOrigins: []string{"*"}}))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/games", func(w http.ResponseWriter, req *http.Request) {
		games := reg.Snapshot()
		out := make(map[string]string, len(games))
		for host, name := range games {
			out[host.String()] = name
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	})

	r.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", diagnosticsPort)
	log.Printf("metaserver: diagnostics HTTP on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Printf("metaserver: diagnostics server stopped: %v", err)
	}
}
