package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/Niewiaro/sensegrid"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "run":
		err = runCommand(os.Args[2:])
	case "watch":
		err = watchCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "stats":
		err = statsCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("sensegrid-hub %s: %v", cmd, err)
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "./config.yaml", "Path to hub configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	flow, err := sensegrid.Conf(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return flow.Run(ctx)
}

// watchCommand runs the hub and prints a live console view of every
// device's latest readings.
func watchCommand(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	cfgPath := fs.String("config", "./config.yaml", "Path to hub configuration file")
	interval := fs.Duration("interval", 2*time.Second, "Refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	flow, err := sensegrid.Conf(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	rt, err := flow.Build()
	if err != nil {
		return err
	}
	if err := rt.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	fmt.Printf("Watching %s (Ctrl+C to stop)\n", rt.Status().Broker)
	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return rt.Shutdown(shutdownCtx)
		case <-ticker.C:
			printDevices(rt)
		}
	}
}

func printDevices(rt *sensegrid.Runtime) {
	status := "disconnected"
	if rt.Connected() {
		status = "connected"
	}
	fmt.Printf("[%s] broker=%s devices=%d\n",
		time.Now().Format(time.RFC3339), status, rt.DeviceCount())

	for _, id := range rt.DeviceIDs() {
		snap, ok := rt.Snapshot(id)
		if !ok || snap.Latest == nil {
			continue
		}
		var parts []string
		for _, name := range snap.Latest.Fields() {
			v, _ := snap.Latest.Lookup(name)
			line := fmt.Sprintf("%s=%s", name, v)
			if d, ok := snap.Delta(name); ok {
				line += fmt.Sprintf(" (%+g)", d)
			}
			parts = append(parts, line)
		}
		fmt.Printf("  %-16s %s (updated %s ago)\n",
			id, strings.Join(parts, "  "), time.Since(snap.LastUpdate).Round(time.Second))
	}
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "./config.yaml", "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := sensegrid.LoadConfig(*cfgPath)
	if err != nil {
		return err
	}
	fmt.Printf("config %s looks good: broker=%s topic=%q\n", *cfgPath, cfg.MQTT.URL(), cfg.MQTT.Topic)
	return nil
}

func statsCommand(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	url := fs.String("url", "http://localhost:9100/metrics", "Prometheus metrics endpoint")
	interval := fs.Duration("interval", 2*time.Second, "Refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	fmt.Printf("Streaming metrics from %s (Ctrl+C to stop)\n", *url)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := printMetricsSnapshot(*url); err != nil {
				fmt.Fprintf(os.Stderr, "stats error: %v\n", err)
			}
		}
	}
}

func printMetricsSnapshot(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	targets := map[string]float64{
		"sensegrid_messages_received_total": 0,
		"sensegrid_samples_applied_total":   0,
		"sensegrid_decode_failures_total":   0,
		"sensegrid_known_devices":           0,
		"sensegrid_connection_up":           0,
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		for key := range targets {
			if strings.HasPrefix(line, key+" ") {
				var value float64
				if _, err := fmt.Sscanf(line, key+" %f", &value); err == nil {
					targets[key] = value
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	keys := make([]string, 0, len(targets))
	for key := range targets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%g", strings.TrimPrefix(key, "sensegrid_"), targets[key]))
	}
	fmt.Printf("[%s] %s\n", time.Now().Format(time.RFC3339), strings.Join(parts, " "))
	return nil
}

func printUsage() {
	fmt.Printf(`SenseGrid hub CLI

Usage:
  sensegrid-hub <command> [flags]

Commands:
  run        Start the hub using the provided config
  watch      Start the hub and print a live view of device state
  validate   Load and validate a config file without starting the hub
  stats      Poll the Prometheus metrics endpoint and print live counters

Examples:
  sensegrid-hub run -config ./config.yaml
  sensegrid-hub watch -config ./config.yaml -interval 1s
  sensegrid-hub validate -config ./config.yaml
  sensegrid-hub stats -url http://localhost:9100/metrics
`)
}
