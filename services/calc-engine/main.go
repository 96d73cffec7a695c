package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"solar_payback/pkg/core/economics"
	"solar_payback/pkg/core/payback"
	"solar_payback/pkg/core/report"
	"solar_payback/pkg/core/store"
	"solar_payback/pkg/core/tariff"
	"solar_payback/pkg/core/utils"
)

// Payload is the CLI input. Config wins over Regiao.
type Payload struct {
	Input   economics.CalculationInput    `json:"input"`
	Config  *economics.TariffRegimeConfig `json:"config,omitempty"`
	Regiao  string                        `json:"regiao,omitempty"`
	Cliente string                        `json:"cliente,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("calc-engine", flag.ContinueOnError)
	fs.SetOutput(stderr)
	mode := fs.String("mode", "calculate", "Mode: calculate, check or report")
	dataStr := fs.String("data", "", "JSON payload {input, config?, regiao?}")
	file := fs.String("file", "", "Path to a JSON/HJSON payload")
	schedulePath := fs.String("schedule", "", "Fio B schedule file (yaml, hjson or json)")
	regionsPath := fs.String("regions", "", "Regional tariff file used when the payload has no config")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	raw := *dataStr
	if *file != "" {
		b, err := os.ReadFile(*file)
		if err != nil {
			fmt.Fprintf(stderr, "Error reading payload: %v\n", err)
			return 1
		}
		raw = string(b)
	}
	if raw == "" {
		fmt.Fprintln(stderr, "Error: No data provided")
		return 1
	}

	var p Payload
	if err := utils.SmartParse(raw, &p); err != nil {
		fmt.Fprintf(stderr, "Error parsing payload: %v\n", err)
		return 1
	}

	schedule := tariff.Lei14300Schedule()
	if *schedulePath != "" {
		s, err := tariff.LoadSchedule(*schedulePath)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading schedule: %v\n", err)
			return 1
		}
		schedule = s
	}
	resolver, err := tariff.NewResolver(schedule)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	svc := payback.NewService(resolver, nil)

	req, err := buildRequest(svc, p, *regionsPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	switch *mode {
	case "check":
		return runChecks(req, stdout)
	case "calculate":
		return runCalculations(svc, req, stdout, stderr)
	case "report":
		return runReport(svc, req, p.Cliente, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown mode: %s\n", *mode)
		return 2
	}
}

func buildRequest(svc *payback.Service, p Payload, regionsPath string) (payback.Request, error) {
	req := payback.Request{Input: p.Input}
	if p.Config != nil {
		req.Config = *p.Config
		req.Config.Fonte = economics.SourceRequest
		return req, nil
	}

	if p.Regiao != "" && regionsPath != "" {
		repo, err := store.LoadFileTariffRepo(regionsPath)
		if err != nil {
			return req, err
		}
		cfg, err := repo.GetRegion(context.Background(), p.Regiao)
		if err == nil {
			req.Config = cfg
			return req, nil
		}
	}

	year := p.Input.StartYear
	if year == 0 {
		year = time.Now().Year()
	}
	cfg, gap := svc.FallbackConfig(store.NormalizeUF(p.Regiao), year)
	req.Config = cfg
	req.Gaps = append(req.Gaps, gap)
	return req, nil
}

func runChecks(req payback.Request, stdout io.Writer) int {
	failed := false
	if err := req.Input.Validate(); err != nil {
		fmt.Fprintf(stdout, "Error: invalid input\n%v\n", err)
		failed = true
	}
	if err := req.Config.Validate(); err != nil {
		fmt.Fprintf(stdout, "Error: invalid tariff config\n%v\n", err)
		failed = true
	}
	if failed {
		return 1
	}
	fmt.Fprintln(stdout, "Success: input and tariff config are valid")
	return 0
}

func runCalculations(svc *payback.Service, req payback.Request, stdout, stderr io.Writer) int {
	res, err := svc.Compute(req)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		fmt.Fprintf(stderr, "Error encoding result: %v\n", err)
		return 1
	}
	return 0
}

func runReport(svc *payback.Service, req payback.Request, customer string, stdout, stderr io.Writer) int {
	res, err := svc.Compute(req)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprint(stdout, report.BuildMarkdown(res, report.Options{Customer: customer}))
	return 0
}
