package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/af-corp/llm-router/internal/auth"
)

func main() {
	env := flag.String("env", "prod", "environment prefix")
	name := flag.String("name", "", "human-friendly key name, written as a YAML comment")
	flag.Parse()

	rawKey, err := auth.GenerateKey(*env)
	if err != nil {
		log.Fatalf("failed to generate key: %v", err)
	}

	fmt.Println("=== LLM Router API Key Generated ===")
	fmt.Println()
	fmt.Printf("  Key Prefix:  %s\n", auth.KeyPrefix(rawKey))
	fmt.Printf("  Key Hash:    %s\n", auth.HashKey(rawKey))
	fmt.Println()
	fmt.Println("  API Key (save this, it will NOT be shown again):")
	fmt.Printf("  %s\n", rawKey)
	fmt.Println()
	fmt.Println("  Add it to providers.yaml:")
	fmt.Println()
	fmt.Println("  server:")
	fmt.Println("    api_keys:")
	if *name != "" {
		fmt.Printf("      # %s\n", *name)
	}
	fmt.Printf("      - %s\n", rawKey)
	fmt.Println()
	fmt.Println("====================================")
}
