package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nickyhof/CommitFrame"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	port := flag.Int("port", 0, "TCP port to listen on (default 3306)")
	configPath := flag.String("config", "", "YAML configuration file")
	certFile := flag.String("tlsCert", "", "TLS certificate file")
	keyFile := flag.String("tlsKey", "", "TLS key file")
	jwtSecret := flag.String("jwtSecret", "", "Shared secret for JWT authentication (enables auth)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("CommitFrame Server v%s\n", Version)
		return
	}

	config := DefaultConfig()
	if *configPath != "" {
		var err error
		if config, err = LoadConfig(*configPath); err != nil {
			log.Fatalf("%v", err)
		}
		log.Printf("Loaded configuration from %s", *configPath)
	}

	// Flags override the file
	if *port != 0 {
		config.Port = *port
	}
	if *certFile != "" {
		config.TLS.CertFile = *certFile
	}
	if *keyFile != "" {
		config.TLS.KeyFile = *keyFile
	}
	if *jwtSecret != "" {
		config.Auth.Enabled = true
		config.Auth.JWTSecret = *jwtSecret
	}
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	instance := CommitFrame.Open(config.Sources)
	server := NewServerWithAuth(instance, &config.Auth)
	addr := fmt.Sprintf(":%d", config.Port)

	var err error
	if config.TLS.Enabled() {
		err = server.StartTLS(addr, config.TLS.CertFile, config.TLS.KeyFile)
	} else {
		err = server.Start(addr)
	}
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Printf("║   CommitFrame Server v%-15s  ║\n", Version)
	fmt.Println("║   In-memory Table Query Engine        ║")
	fmt.Println("╚═══════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("Listening on port %d\n", config.Port)
	if config.Auth.Enabled {
		fmt.Println("Authentication required: AUTH JWT <token>")
	}
	fmt.Println("Send statements (one per line), 'quit' to disconnect")
	fmt.Println()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	if err := server.Stop(); err != nil {
		log.Printf("Stop: %v", err)
	}
	log.Println("Server stopped")
}
