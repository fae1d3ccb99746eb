// seed_problems.go loads every problem file in a directory and stores it
// through the utagms API.
//
// Usage:
//
//	go run scripts/seed_problems.go -dir internal/problem/testdata -api http://localhost:8610
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/MikeSquared-Agency/utagms/internal/problem"
)

func main() {
	dir := flag.String("dir", ".", "directory holding .yaml, .yml or .json problem files")
	apiURL := flag.String("api", "http://localhost:8610", "utagms API base URL")
	clientID := flag.String("client", "seed", "X-Client-ID header value")
	dryRun := flag.Bool("dry-run", false, "validate files without posting")
	flag.Parse()

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("read dir: %v", err)
	}

	var posted, failed int
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml" && ext != ".json") {
			continue
		}
		path := filepath.Join(*dir, e.Name())
		p, err := problem.Load(path)
		if err != nil {
			log.Printf("skip %s: %v", path, err)
			failed++
			continue
		}
		if p.Name == "" {
			p.Name = strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		}

		if *dryRun {
			fmt.Printf("[dry-run] %s: %d alternatives, %d criteria\n", p.Name, len(p.Alternatives), len(p.Criteria))
			continue
		}

		id, err := post(*apiURL, *clientID, p)
		if err != nil {
			log.Printf("post %s: %v", path, err)
			failed++
			continue
		}
		fmt.Printf("created %s (%s)\n", p.Name, id)
		posted++
	}

	fmt.Printf("\nDone: %d created, %d failed\n", posted, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func post(apiURL, clientID string, p *problem.Problem) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequest(http.MethodPost, apiURL+"/api/v1/problems", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-ID", clientID)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		ID    string `json:"problem_id"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, out.Error)
	}
	return out.ID, nil
}
