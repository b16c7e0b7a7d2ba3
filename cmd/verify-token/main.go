package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bionicotaku/lingo-utils-devjwt"
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
		defaultToken    = os.Getenv("DEVJWT_TOKEN")
	)

	secret := flag.String("secret", defaultSecret, "Signing secret; dev-only default used when empty (env DEVJWT_SECRET)")
	issuer := flag.String("issuer", defaultIssuer, "Expected issuer (env DEVJWT_ISSUER)")
	audience := flag.String("audience", defaultAudience, "Expected audience (env DEVJWT_AUDIENCE)")
	token := flag.String("token", defaultToken, "JWT to verify; first positional argument also accepted (env DEVJWT_TOKEN)")
	skew := flag.Duration("skew", 30*time.Second, "Acceptable clock skew")
	flag.Parse()

	if *token == "" && flag.NArg() > 0 {
		*token = flag.Arg(0)
	}
	if *token == "" {
		flag.Usage()
		log.Fatal("token is required (via flag, argument, .env, or environment variable)")
	}

	verifier, err := devjwt.NewVerifier(devjwt.VerifierConfig{
		Secret:    *secret,
		Issuer:    *issuer,
		Audience:  *audience,
		ClockSkew: *skew,
	})
	if err != nil {
		log.Fatalf("create verifier: %v", err)
	}

	claims, err := verifier.Verify(*token)
	if err != nil {
		var devErr *devjwt.Error
		if errors.As(err, &devErr) {
			log.Fatalf("verification failed (%s): %v", devErr.Code, err)
		}
		log.Fatalf("verification failed: %v", err)
	}

	printClaims(claims)
}

func printClaims(claims *devjwt.Claims) {
	fmt.Println("== Dev JWT Verified ==")
	fmt.Printf("subject      : %s\n", claims.Subject)
	fmt.Printf("tenant_id    : %s\n", claims.TenantID)
	fmt.Printf("org_id       : %s\n", claims.OrgID)
	fmt.Printf("email        : %s\n", claims.Email)
	fmt.Printf("name         : %s\n", claims.Name)
	fmt.Printf("issuer       : %s\n", claims.Issuer)
	fmt.Printf("audience     : %s\n", claims.Audience)
	if !claims.IssuedAt.IsZero() {
		fmt.Printf("issued_at    : %s\n", claims.IssuedAt.Format(time.RFC3339))
	}
	if !claims.ExpiresAt.IsZero() {
		fmt.Printf("expires_at   : %s\n", claims.ExpiresAt.Format(time.RFC3339))
	}
}

func defaultEnvPath() string {
	if path := os.Getenv("DEVJWT_ENV_FILE"); path != "" {
		return path
	}
	return ".env"
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
