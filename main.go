package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/ordishs/gocore"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/bsv-blockchain/spenderindex/errors"
	"github.com/bsv-blockchain/spenderindex/model"
	"github.com/bsv-blockchain/spenderindex/services/spenderindex"
	"github.com/bsv-blockchain/spenderindex/settings"
	"github.com/bsv-blockchain/spenderindex/stores/blockfile"
	"github.com/bsv-blockchain/spenderindex/stores/kv/factory"
	"github.com/bsv-blockchain/spenderindex/ulogger"
)

// Name used by build script for the binaries. (Please keep on single line)
const progname = "spenderindex"

// Version & commit strings injected at build with -ldflags -X...
var version string
var commit string

func init() {
	gocore.SetInfo(progname, version, commit)
}

func main() {
	help := flag.Bool("help", false, "Show help")
	flag.Parse()

	if help != nil && *help {
		fmt.Println("usage: spenderindex")
		fmt.Println("")
		fmt.Println("configuration is read from settings (gocore):")
		fmt.Println("    spenderindex_store           kv store URL (leveldb:// or memory://)")
		fmt.Println("    spenderindex_blockFileDir    directory holding blk*.dat files")
		fmt.Println("    spenderindex_httpAddress     HTTP listen address for queries")
		fmt.Println("    prometheusEndpoint           path to expose prometheus metrics on")

		return
	}

	tSettings := settings.NewSettings()
	logger := ulogger.New(progname, ulogger.WithLevel(tSettings.LogLevel))

	stats := gocore.Config().Stats()
	logger.Infof("STATS\n%s\nVERSION\n-------\n%s (%s)\n\n", stats, version, commit)

	go func() {
		profilerAddr, ok := gocore.Config().Get("profilerAddr")
		if ok {
			logger.Infof("Starting profile on http://%s/debug/pprof", profilerAddr)
			logger.Fatalf("%v", http.ListenAndServe(profilerAddr, nil))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	store, err := factory.NewStore(logger, tSettings.SpenderIndex.StoreURL)
	if err != nil {
		logger.Fatalf("failed to open kv store: %v", err)
	}

	defer func() {
		_ = store.Close()
	}()

	archive, err := blockfile.New(logger, tSettings.SpenderIndex.BlockFileDir, tSettings.SpenderIndex.BlockFileMaxSize)
	if err != nil {
		logger.Fatalf("failed to open block archive: %v", err)
	}

	defer func() {
		_ = archive.Close()
	}()

	server := spenderindex.New(logger, tSettings, store, archive)
	if err = server.Init(ctx); err != nil {
		logger.Fatalf("failed to initialise spender index: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler(server))
	mux.HandleFunc("/spender/", spenderHandler(logger, server))

	prometheusEndpoint, ok := gocore.Config().Get("prometheusEndpoint")
	if ok && prometheusEndpoint != "" {
		logger.Infof("Starting prometheus endpoint on %s", prometheusEndpoint)
		mux.Handle(prometheusEndpoint, promhttp.Handler())
	}

	httpAddress, _ := gocore.Config().Get("spenderindex_httpAddress", ":8091")

	httpServer := &http.Server{
		Addr:              httpAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Infof("Starting HTTP server on %s", httpAddress)

		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	select {
	case <-interrupt:
	case <-gCtx.Done():
	}

	logger.Infof("received shutdown signal")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	_ = httpServer.Shutdown(shutdownCtx)

	if err = g.Wait(); err != nil {
		logger.Errorf("server returning an error: %v", err)
		os.Exit(2)
	}
}

func healthHandler(server *spenderindex.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checkLiveness := r.URL.Query().Get("liveness") == "true"

		status, msg, _ := server.Health(r.Context(), checkLiveness)

		w.WriteHeader(status)
		_, _ = w.Write([]byte(msg))
	}
}

// spenderHandler answers GET /spender/<txid>/<vout> with the spending
// transaction, or 404 when the outpoint has no indexed spender.
func spenderHandler(logger ulogger.Logger, server *spenderindex.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/spender/"), "/"), "/")
		if len(parts) != 2 {
			http.Error(w, "expected /spender/<txid>/<vout>", http.StatusBadRequest)
			return
		}

		hash, err := chainhash.NewHashFromStr(parts[0])
		if err != nil {
			http.Error(w, "invalid txid", http.StatusBadRequest)
			return
		}

		vout, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			http.Error(w, "invalid vout", http.StatusBadRequest)
			return
		}

		tx, err := server.FindSpender(r.Context(), model.NewOutpoint(*hash, uint32(vout)))
		if err != nil {
			if errors.Is(err, errors.ErrTxNotFound) {
				http.Error(w, "no spender found", http.StatusNotFound)
				return
			}

			logger.Errorf("spender lookup failed for %s:%d: %v", hash, vout, err)
			http.Error(w, "internal error", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "application/json")

		_ = json.NewEncoder(w).Encode(map[string]string{
			"txid": tx.TxID(),
			"hex":  hex.EncodeToString(tx.Bytes()),
		})
	}
}
