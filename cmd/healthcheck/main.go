// Package main is the container health check. It exits non-zero unless the
// checked endpoint (default /livez) answers 200.
package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/garyellow/merit-linebot-go/internal/config"
)

const (
	defaultPort  = "10000"
	checkTimeout = 5 * time.Second
)

func main() {
	path := "/livez"
	if len(os.Args) > 1 {
		path = os.Args[1] // e.g. /readyz
	}
	if !check("http://127.0.0.1:" + listenPort() + path) {
		os.Exit(1)
	}
}

func listenPort() string {
	if p := os.Getenv(config.EnvPort); p != "" {
		return p
	}
	return defaultPort
}

func check(url string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
