// Command hashfront-movement starts the Hashfront movement planning server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, map and board directories, debug logging, version output,
// and optional ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/hashfront-movement/api"
	"github.com/wricardo/hashfront-movement/game/board"
	"github.com/wricardo/hashfront-movement/game/maps"
	"github.com/wricardo/hashfront-movement/game/service"
	"github.com/wricardo/hashfront-movement/transport/mcp"
	"github.com/wricardo/hashfront-movement/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Hashfront Movement Server"
)

// Board retention
const (
	boardMaxAge         = 24 * time.Hour
	boardCleanupEvery   = 1 * time.Hour
	filesystemSyncEvery = 5 * time.Second
)

// Configuration flags control how the server starts and which services are enabled.
var (
	port         = flag.Int("port", 8080, "HTTP server port")
	host         = flag.String("host", "localhost", "HTTP server host")
	mapsDir      = flag.String("maps-dir", getMapsDirDefault(), "Directory containing map files")
	boardsDir    = flag.String("boards-dir", "boards", "Directory where boards are persisted")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	version      = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", false, "Enable ngrok tunnel")
	ngrokAuth    = flag.String("ngrok-auth", "", "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Custom ngrok domain (optional)")
)

// getMapsDirDefault honors MAPS_DIR, then falls back to "configs/maps".
func getMapsDirDefault() string {
	if dir := os.Getenv("MAPS_DIR"); dir != "" {
		return dir
	}
	return "configs/maps"
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp-stdio        Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "  mcp              Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                          # Run HTTP server on default port 8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090               # Run HTTP server on port 9090\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -maps-dir ./maps server  # Serve maps from ./maps\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp                # Run MCP stdio server\n", os.Args[0])
	}
}

// main parses flags, initializes services, and starts the selected mode.
func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	args := flag.Args()
	mode := "server"
	if len(args) > 0 {
		mode = args[0]
	}

	log.Printf("Starting %s v%s (mode: %s)", AppName, Version, mode)

	planner, err := initializeServices()
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCPWithInternalServer(planner)

	case "server", "http":
		runHTTPServer(planner)

	default:
		log.Fatalf("Unknown mode: %s. Use 'server' (default) or 'stdio-mcp'", mode)
	}
}

// newRouter mounts the API at root and the MCP JSON-RPC endpoint at /mcp.
func newRouter(apiServer http.Handler, mcpClient *mcp.Client) *http.ServeMux {
	router := http.NewServeMux()
	router.Handle("/", apiServer)

	router.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return router
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp endpoint.
// If ngrok is enabled (via flag or environment), it also provisions a public tunnel.
func runHTTPServer(planner service.PlannerService) {
	hub := websocket.NewHub()
	go hub.Run()

	apiServer := api.NewServer(planner, hub)

	addr := fmt.Sprintf("%s:%d", *host, *port)
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))
	mainRouter := newRouter(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?board=<board_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	if ngrokShouldRun() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveNgrok(ctx, mainRouter)
		}()
	}

	sig := <-stop
	log.Printf("Received signal: %v. Shutting down...", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
}

// ngrokShouldRun reports whether the tunnel is enabled by flag or NGROK_ENABLED.
func ngrokShouldRun() bool {
	if *ngrokEnabled {
		return true
	}
	env := os.Getenv("NGROK_ENABLED")
	return env == "true" || env == "1"
}

// ngrokAuthToken resolves the auth token from the flag or either env spelling.
func ngrokAuthToken() string {
	if *ngrokAuth != "" {
		return *ngrokAuth
	}
	if token := os.Getenv("NGROK_AUTHTOKEN"); token != "" {
		return token
	}
	return os.Getenv("NGROK_AUTH_TOKEN")
}

// serveNgrok exposes handler through an ngrok tunnel until ctx is cancelled.
func serveNgrok(ctx context.Context, handler http.Handler) {
	authToken := ngrokAuthToken()
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	domain := *ngrokDomain
	if domain == "" {
		domain = os.Getenv("NGROK_DOMAIN")
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("🚀 Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?board=<board_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// initializeServices wires the map and board managers into the planner service.
// It also starts background routines that expire idle boards and drop boards
// whose files were removed.
func initializeServices() (service.PlannerService, error) {
	mapManager, err := maps.NewManager(*mapsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create map manager: %w", err)
	}

	persistence, err := board.NewFilePersistence(*boardsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create board persistence: %w", err)
	}

	boardManager := board.NewManagerWithPersistence(persistence)
	if err := boardManager.LoadPersistedBoards(); err != nil {
		log.Printf("Warning: Failed to load persisted boards: %v", err)
	}

	planner := service.NewPlannerService(boardManager, mapManager)

	go boardCleanupRoutine(boardManager)
	go filesystemSyncRoutine(boardManager, persistence)

	return planner, nil
}

// boardCleanupRoutine periodically removes boards idle for longer than boardMaxAge.
func boardCleanupRoutine(manager *board.Manager) {
	ticker := time.NewTicker(boardCleanupEvery)
	defer ticker.Stop()

	for range ticker.C {
		if removed := manager.CleanupExpiredBoards(boardMaxAge); removed > 0 {
			log.Printf("Cleaned up %d expired boards", removed)
		}
	}
}

// filesystemSyncRoutine periodically drops in-memory boards whose files were deleted.
func filesystemSyncRoutine(manager *board.Manager, persistence board.BoardPersistence) {
	ticker := time.NewTicker(filesystemSyncEvery)
	defer ticker.Stop()

	for range ticker.C {
		if n := syncWithFilesystem(manager, persistence); n > 0 {
			log.Printf("Filesystem sync: pruned %d orphaned boards from memory", n)
		}
	}
}

// syncWithFilesystem runs one pruning pass and returns the number of boards dropped.
func syncWithFilesystem(manager *board.Manager, persistence board.BoardPersistence) int {
	if persistence == nil {
		return 0
	}

	pruned := 0
	for _, b := range manager.List() {
		if persistence.Exists(b.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(b.ID); err == nil {
			pruned++
			log.Printf("Pruned board %s from memory (file deleted)", b.ID)
		}
	}
	return pruned
}

// apiAvailable reports whether a server answers url without a 5xx status
func apiAvailable(client *http.Client, url string) bool {
	resp, err := client.Get(url)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It reuses an API at http://localhost:8080 when one answers; otherwise it
// starts an internal HTTP API on a random loopback port and targets that.
func runStdioMCPWithInternalServer(planner service.PlannerService) {
	externalURL := "http://localhost:8080"
	log.Printf("Checking for external API server at %s...", externalURL)

	baseURL := externalURL
	testClient := &http.Client{Timeout: 2 * time.Second}
	if apiAvailable(testClient, externalURL+"/api/health") {
		log.Printf("External API server found at %s, using it for MCP", externalURL)
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatalf("Failed to get available port: %v", err)
		}
		internalAddr := listener.Addr().String()
		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		hub := websocket.NewHub()
		go hub.Run()

		httpServer := &http.Server{Handler: api.NewServer(planner, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Printf("MCP stdio server ready (API at %s)", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.Fatalf("MCP stdio server error: %v", err)
	}
}
