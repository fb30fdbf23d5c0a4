// guardian-cli is a one-shot client for the validation API: it submits a
// domain and renders the verdict in the terminal.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	figure "github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"

	"github.com/miracle380301/cryptoguardian/scoring"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "validation service base URL")
	checkType := flag.String("type", "general", "request type: general or crypto")
	quiet := flag.Bool("q", false, "suppress the banner")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: guardian-cli [flags] <domain>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	domain := flag.Arg(0)

	if !*quiet {
		figure.NewFigure("CryptoGuardian", "", true).Print()
		fmt.Println()
	}

	res, err := validate(*serverURL, domain, *checkType)
	if err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}

	render(res)
	if res.Status == scoring.StatusDanger {
		os.Exit(1)
	}
}

func validate(baseURL, domain, checkType string) (*scoring.ValidationResult, error) {
	payload, err := json.Marshal(map[string]string{"domain": domain, "type": checkType})
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Post(baseURL+"/api/validate", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error != "" {
			return nil, fmt.Errorf("%s", apiErr.Error)
		}
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	var res scoring.ValidationResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

func render(res *scoring.ValidationResult) {
	statusColor := color.New(color.FgGreen, color.Bold)
	switch res.Status {
	case scoring.StatusWarning:
		statusColor = color.New(color.FgYellow, color.Bold)
	case scoring.StatusDanger:
		statusColor = color.New(color.FgRed, color.Bold)
	}

	fmt.Printf("Domain:  %s\n", res.Domain)
	fmt.Printf("Score:   %d/100\n", res.FinalScore)
	fmt.Print("Status:  ")
	statusColor.Println(string(res.Status))
	fmt.Printf("Summary: %s\n", res.Summary)

	if len(res.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range res.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}
}
