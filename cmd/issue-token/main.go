package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bionicotaku/lingo-utils-devjwt"
	"github.com/google/uuid"
)

func main() {
	envPath := defaultEnvPath()
	if err := loadEnvFile(envPath); err != nil {
		log.Printf("warning: load %s: %v", envPath, err)
	}

	var (
		defaultSecret   = os.Getenv("DEVJWT_SECRET")
		defaultIssuer   = os.Getenv("DEVJWT_ISSUER")
		defaultAudience = os.Getenv("DEVJWT_AUDIENCE")
		defaultEmail    = os.Getenv("DEVJWT_EMAIL")
		defaultName     = os.Getenv("DEVJWT_NAME")
		defaultSubject  = os.Getenv("DEVJWT_SUBJECT")
		defaultTenant   = os.Getenv("DEVJWT_TENANT")
		defaultAPIBase  = os.Getenv("DEVJWT_API_BASE")
	)
	if defaultAPIBase == "" {
		defaultAPIBase = "http://localhost:8080"
	}

	secret := flag.String("secret", defaultSecret, "Signing secret; dev-only default used when empty (env DEVJWT_SECRET)")
	issuer := flag.String("issuer", defaultIssuer, "Issuer claim (env DEVJWT_ISSUER)")
	audience := flag.String("audience", defaultAudience, "Audience claim (env DEVJWT_AUDIENCE)")
	email := flag.String("email", defaultEmail, "Email claim (env DEVJWT_EMAIL)")
	name := flag.String("name", defaultName, "Display name claim (env DEVJWT_NAME)")
	subject := flag.String("subject", defaultSubject, "User id; fresh uuid when empty (env DEVJWT_SUBJECT)")
	tenant := flag.String("tenant", defaultTenant, "Tenant id; fresh uuid when empty (env DEVJWT_TENANT)")
	apiBase := flag.String("api-base", defaultAPIBase, "Base URL used in the printed curl examples (env DEVJWT_API_BASE)")
	ttl := flag.Duration("ttl", 0, "Token lifetime; 24h when zero")
	jsonOut := flag.Bool("json", false, "Print only the decoded claims as JSON")
	envFlag := flag.String("env", envPath, "Path to .env file")
	flag.Parse()

	if *envFlag != "" && *envFlag != envPath {
		if err := loadEnvFile(*envFlag); err != nil {
			log.Printf("warning: load %s: %v", *envFlag, err)
		}
		reloadDefaults(secret, issuer, audience, email, name, subject, tenant, apiBase)
	}

	devIssuer, err := devjwt.NewIssuer(devjwt.IssuerConfig{
		Secret:   *secret,
		Issuer:   *issuer,
		Audience: *audience,
		Email:    *email,
		Name:     *name,
		TTL:      *ttl,
	})
	if err != nil {
		log.Fatalf("create issuer: %v", err)
	}

	var opts []devjwt.IssueOption
	if *subject != "" {
		opts = append(opts, devjwt.WithSubject(*subject))
	}
	if *tenant != "" {
		opts = append(opts, devjwt.WithTenant(*tenant))
	}

	claims, token, err := devIssuer.Issue(opts...)
	if err != nil {
		log.Fatalf("issue token: %v", err)
	}

	if *jsonOut {
		payload, err := json.MarshalIndent(claims.Map(), "", "  ")
		if err != nil {
			log.Fatalf("encode claims: %v", err)
		}
		fmt.Println(string(payload))
		return
	}

	printToken(claims, token, strings.TrimRight(*apiBase, "/"))
}

func printToken(claims *devjwt.Claims, token, apiBase string) {
	fmt.Println("=== Test JWT Token Generated ===")
	fmt.Printf("Tenant ID: %s\n", claims.TenantID)
	fmt.Printf("User ID: %s\n", claims.Subject)
	fmt.Printf("Token: %s\n", token)
	fmt.Println()

	fmt.Println("=== Usage Examples ===")
	fmt.Println("# Create Plan:")
	fmt.Printf("curl -X POST %s/api/v1/plans \\\n", apiBase)
	fmt.Printf("  -H \"Authorization: Bearer %s\" \\\n", token)
	fmt.Println("  -H \"Content-Type: application/json\" \\")
	fmt.Printf("  -H \"Idempotency-Key: %s\" \\\n", uuid.NewString())
	fmt.Println(`  -d '{"name": "Premium Plan", "basePriceCents": 2999, "currency": "USD", "billingInterval": "month", "planType": "SUBSCRIPTION", "status": "ACTIVE"}'`)
	fmt.Println()
	fmt.Println("# Create Subscription:")
	fmt.Printf("curl -X POST %s/api/v1/subscriptions \\\n", apiBase)
	fmt.Printf("  -H \"Authorization: Bearer %s\" \\\n", token)
	fmt.Println("  -H \"Content-Type: application/json\" \\")
	fmt.Printf("  -H \"Idempotency-Key: %s\" \\\n", uuid.NewString())
	fmt.Println(`  -d '{"planId": "PLAN_ID_FROM_ABOVE", "customerEmail": "customer@example.com", "customerFirstName": "John", "customerLastName": "Doe", "paymentMethodRef": "pm_test_123"}'`)
	fmt.Println()

	fmt.Println("=== Decoded Token ===")
	payload, err := json.MarshalIndent(claims.Map(), "", "  ")
	if err != nil {
		log.Fatalf("encode claims: %v", err)
	}
	fmt.Println(string(payload))
	fmt.Println()
	fmt.Printf("Expires: %s\n", claims.ExpiresAt.Format(time.RFC3339))
}

func defaultEnvPath() string {
	if path := os.Getenv("DEVJWT_ENV_FILE"); path != "" {
		return path
	}
	return ".env"
}

func reloadDefaults(secret, issuer, audience, email, name, subject, tenant, apiBase *string) {
	if secret != nil && *secret == "" {
		*secret = os.Getenv("DEVJWT_SECRET")
	}
	if issuer != nil && *issuer == "" {
		*issuer = os.Getenv("DEVJWT_ISSUER")
	}
	if audience != nil && *audience == "" {
		*audience = os.Getenv("DEVJWT_AUDIENCE")
	}
	if email != nil && *email == "" {
		*email = os.Getenv("DEVJWT_EMAIL")
	}
	if name != nil && *name == "" {
		*name = os.Getenv("DEVJWT_NAME")
	}
	if subject != nil && *subject == "" {
		*subject = os.Getenv("DEVJWT_SUBJECT")
	}
	if tenant != nil && *tenant == "" {
		*tenant = os.Getenv("DEVJWT_TENANT")
	}
	if apiBase != nil && *apiBase == "" {
		*apiBase = os.Getenv("DEVJWT_API_BASE")
	}
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			log.Printf("warning: invalid line %d in %s", lineNum, filepath.Base(path))
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			log.Printf("warning: set env %s: %v", key, err)
		}
	}
	return scanner.Err()
}
