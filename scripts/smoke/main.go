// Command smoke probes a running deployment with a configured list of
// endpoints and reports unexpected statuses. Used after rollouts before
// traffic is shifted.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type probe struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Expected int    `json:"expected"`
	Critical bool   `json:"critical"`
}

type config struct {
	Probes []probe `json:"probes"`
}

type result struct {
	Probe    probe
	Status   int
	Duration time.Duration
	Err      error
}

func main() {
	baseURL := flag.String("base", "http://localhost:8080", "base URL of the deployment")
	configPath := flag.String("config", "scripts/smoke/probes.json", "probe definition file")
	token := flag.String("token", "", "bearer token for protected endpoints")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("load probes: %v", err)
	}

	client := &http.Client{Timeout: *timeout}
	failures := 0
	criticalFailures := 0

	for _, p := range cfg.Probes {
		r := run(client, *baseURL, *token, p)
		ok := r.Err == nil && r.Status == expectedStatus(p)
		mark := "ok"
		if !ok {
			mark = "FAIL"
			failures++
			if p.Critical {
				criticalFailures++
			}
		}
		if r.Err != nil {
			fmt.Printf("%-4s %-6s %-40s error: %v\n", mark, p.Method, p.Path, r.Err)
			continue
		}
		fmt.Printf("%-4s %-6s %-40s %d (want %d) %s\n",
			mark, p.Method, p.Path, r.Status, expectedStatus(p), r.Duration.Round(time.Millisecond))
	}

	fmt.Printf("\n%d probes, %d failures (%d critical)\n", len(cfg.Probes), failures, criticalFailures)
	if criticalFailures > 0 {
		os.Exit(1)
	}
}

func loadConfig(path string) (*config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Probes) == 0 {
		return nil, fmt.Errorf("no probes defined in %s", path)
	}
	return &cfg, nil
}

func expectedStatus(p probe) int {
	if p.Expected != 0 {
		return p.Expected
	}
	return http.StatusOK
}

func run(client *http.Client, baseURL, token string, p probe) result {
	method := strings.ToUpper(p.Method)
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequest(method, strings.TrimRight(baseURL, "/")+p.Path, nil)
	if err != nil {
		return result{Probe: p, Err: err}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return result{Probe: p, Err: err}
	}
	defer resp.Body.Close()

	return result{Probe: p, Status: resp.StatusCode, Duration: time.Since(start)}
}
