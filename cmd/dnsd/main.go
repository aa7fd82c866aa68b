// Command dnsd is the process entrypoint: it loads configuration,
// wires zone storage/cache/replication/resolution together, and runs
// the UDP listener and HTTP control plane side by side until a
// termination signal arrives, the way the teacher's main.go fans out
// one goroutine per listener and joins on the first error or signal.
package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/quorumzone/dnsd/internal/api"
	"github.com/quorumzone/dnsd/internal/cluster"
	"github.com/quorumzone/dnsd/internal/config"
	"github.com/quorumzone/dnsd/internal/resolver"
	"github.com/quorumzone/dnsd/internal/validator"
	"github.com/quorumzone/dnsd/internal/wire"
	"github.com/quorumzone/dnsd/internal/zonecache"
)

func main() {
	cfg := config.Load()
	start := time.Now().UTC()

	res := validator.Scan(cfg.ZonesFolder)
	log.Printf("zone scan: %d valid, %d invalid under %s", res.Valid, res.Invalid, cfg.ZonesFolder)

	replicator := cluster.New(cfg.Peers, cfg.ReplicationToken, cfg.ReplicationQuorumRatio, cfg.ReplicationTimeout)
	cache := zonecache.NewCache(cfg.ZonesFolder, replicator)
	resolv := resolver.New(cache, cfg.DefaultTTL)

	httpAPI, err := api.New(cache, cfg.ZonesFolder, cfg.NodeID, cfg.APIToken, cfg.ReplicationToken, start)
	if err != nil {
		log.Fatalf("failed to initialize http api: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() { errCh <- runUDP(ctx, cfg.DNSUDPListen, resolv) }()
	go func() { errCh <- runHTTP(ctx, cfg.HTTPListen, httpAPI.Router()) }()

	select {
	case <-ctx.Done():
		log.Printf("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("fatal server error: %v", err)
		}
	}
}

func runHTTP(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("http listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil {
		return err
	}
	return nil
}

// runUDP reads whole datagrams off a raw UDP socket and hands each one
// to the resolver, per SPEC_FULL.md §6.1 — no miekg/dns.Server here;
// the wire codec this module builds is what parses the request.
func runUDP(ctx context.Context, addr string, resolv *resolver.Resolver) error {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return err
	}

	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	log.Printf("dns/udp listening on %s", addr)

	buf := make([]byte, 65535)
	for {
		n, clientAddr, err := conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				if isClosedConnErr(err) {
					return nil
				}
				log.Printf("udp read error: %v", err)
				continue
			}
		}

		reqBytes := make([]byte, n)
		copy(reqBytes, buf[:n])
		go handleDatagram(ctx, conn, clientAddr, reqBytes, resolv)
	}
}

func handleDatagram(ctx context.Context, conn *net.UDPConn, addr *net.UDPAddr, reqBytes []byte, resolv *resolver.Resolver) {
	req, err := wire.Unpack(reqBytes)
	if err != nil {
		return // malformed request: no reply, per spec's wire error policy
	}

	resp := resolv.Resolve(ctx, req)

	out, err := resp.Pack()
	if err != nil {
		log.Printf("failed to encode dns response: %v", err)
		return
	}

	if _, err := conn.WriteToUDP(out, addr); err != nil {
		log.Printf("udp write error: %v", err)
	}
}

func isClosedConnErr(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return !netErr.Timeout() && errors.Is(err, net.ErrClosed)
	}
	return errors.Is(err, net.ErrClosed)
}
