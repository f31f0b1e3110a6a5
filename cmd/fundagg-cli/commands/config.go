package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"fundagg-backend/lib/scrapers/quantalys"
)

type Config struct {
	BaseUrl   string `json:"base_url"`
	UserAgent string `json:"user_agent"`
	// per request, 0 disables the timeout
	TimeoutSeconds   int  `json:"timeout_seconds"`
	Concurrency      int  `json:"concurrency"`
	CloudflareBypass bool `json:"cloudflare_bypass"`
	// identifiers scraped when none are given on the command line
	Isins   []string `json:"isins"`
	Out     string   `json:"out"`
	Db      string   `json:"db"`
	Verbose bool     `json:"verbose"`
}

var defaultConfig = Config{
	BaseUrl: quantalys.DefaultBaseUrl,
	Out:     "funds.csv",
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// readIsinFile reads one identifier per line, blank lines and lines
// starting with # are skipped.
func readIsinFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var isins []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		isins = append(isins, line)
	}
	return isins, scanner.Err()
}

// collectIsins gathers identifiers from the arguments and the file, falling
// back to the configured list when both are empty.
func collectIsins(args []string, file string, configured []string) ([]string, error) {
	isins := append([]string{}, args...)
	if file != "" {
		fromFile, err := readIsinFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		isins = append(isins, fromFile...)
	}
	if len(isins) == 0 {
		isins = append(isins, configured...)
	}
	if len(isins) == 0 {
		return nil, fmt.Errorf("no identifiers given")
	}
	return isins, nil
}
