package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "farmstock-cli",
		Short: "FarmStock CLI tool",
		Long:  `A command line interface for interacting with the FarmStock API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the FarmStock API")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("FARMSTOCK_TOKEN"), "Bearer token for authentication")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Stock commands
	stockCmd := &cobra.Command{
		Use:   "stock",
		Short: "Inventory ledger operations",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency <farm-id>",
		Short: "Check a farm's ledger consistency",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency(args[0])
		},
	}

	criticalCmd := &cobra.Command{
		Use:   "critical <farm-id>",
		Short: "List a farm's critical stock items",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			listCritical(args[0])
		},
	}

	stockCmd.AddCommand(consistencyCmd)
	stockCmd.AddCommand(criticalCmd)
	rootCmd.AddCommand(stockCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func get(path string) []byte {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	return body
}

func checkConsistency(farmID string) {
	body := get("/api/v1/farms/" + farmID + "/stock/consistency")

	var result struct {
		Consistent bool `json:"consistent"`
		Checked    int  `json:"checked"`
		Mismatches []struct {
			ItemID        string `json:"itemId"`
			Quantity      string `json:"quantity"`
			LedgerBalance string `json:"ledgerBalance"`
		} `json:"mismatches"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if result.Consistent {
		fmt.Printf("Consistency check PASSED (%d items checked)\n", result.Checked)
		return
	}

	fmt.Printf("Consistency check FAILED (%d items checked, %d mismatches)\n", result.Checked, len(result.Mismatches))
	for _, m := range result.Mismatches {
		fmt.Printf("  item %s: quantity=%s ledger=%s\n", m.ItemID, m.Quantity, m.LedgerBalance)
	}
	os.Exit(1)
}

func listCritical(farmID string) {
	body := get("/api/v1/farms/" + farmID + "/items/critical")

	var items []struct {
		ID           string  `json:"id"`
		Name         string  `json:"name"`
		Unit         string  `json:"unit"`
		Quantity     string  `json:"quantity"`
		MinimumLevel *string `json:"minimumLevel"`
	}
	if err := json.Unmarshal(body, &items); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if len(items) == 0 {
		fmt.Println("No critical items.")
		return
	}

	for _, item := range items {
		minimum := "-"
		if item.MinimumLevel != nil {
			minimum = *item.MinimumLevel
		}
		fmt.Printf("%s  %s: %s %s (minimum %s)\n", item.ID, item.Name, item.Quantity, item.Unit, minimum)
	}
}
