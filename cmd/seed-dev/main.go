package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolbreeze/platform/internal/secrets"
)

const (
	devUserID  = "usr_dev_000000000000000000000001"
	devUser2ID = "usr_dev_000000000000000000000002"

	devSessionToken  = "dev-session-token"
	devSession2Token = "dev-session-token-2"

	devTemplateID  = "tmpl_dev_0000000000000000000001"
	devTemplate2ID = "tmpl_dev_0000000000000000000002"
)

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	encryptionKey := os.Getenv("ENCRYPTION_KEY")
	if encryptionKey == "" {
		fmt.Fprintln(os.Stderr, "ENCRYPTION_KEY is required")
		os.Exit(1)
	}

	cipher, err := secrets.NewCipher(encryptionKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init cipher: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	fmt.Println("Seeding platform database...")

	fmt.Println("  Inserting users...")
	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, email, name, nickname, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now())
		 ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email`,
		devUserID, "student@example.com", "Dev Student", "student")
	if err != nil {
		fmt.Fprintf(os.Stderr, "insert user: %v\n", err)
		os.Exit(1)
	}
	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, email, name, nickname, created_at, updated_at)
		 VALUES ($1, $2, $3, NULL, now(), now())
		 ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email`,
		devUser2ID, "author@example.com", "Dev Author")
	if err != nil {
		fmt.Fprintf(os.Stderr, "insert user: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("  Inserting sessions...")
	devGitHubToken := os.Getenv("SEED_GITHUB_TOKEN")
	if devGitHubToken == "" {
		devGitHubToken = "gho_dev_token_not_real"
	}
	if err := insertSession(ctx, pool, cipher, devUserID, devSessionToken, devGitHubToken); err != nil {
		fmt.Fprintf(os.Stderr, "insert session: %v\n", err)
		os.Exit(1)
	}
	if err := insertSession(ctx, pool, cipher, devUser2ID, devSession2Token, ""); err != nil {
		fmt.Fprintf(os.Stderr, "insert session: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("  Inserting templates...")
	_, err = pool.Exec(ctx,
		`INSERT INTO templates (id, title, description, category, kind, repo_url, demo_url, thumbnail_url,
		                        required_apis, likes_count, author_id, author_name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NULL, NULL, $7, 0, $8, $9, now(), now())
		 ON CONFLICT (id) DO NOTHING`,
		devTemplateID, "AI Chat Starter", "Next.js chat app wired up for Gemini and Supabase.",
		"ai", "source-repo", "https://github.com/schoolbreeze/ai-chat-starter",
		[]string{"gemini", "supabase"}, devUser2ID, "Dev Author")
	if err != nil {
		fmt.Fprintf(os.Stderr, "insert template: %v\n", err)
		os.Exit(1)
	}
	_, err = pool.Exec(ctx,
		`INSERT INTO templates (id, title, description, category, kind, repo_url, demo_url, thumbnail_url,
		                        required_apis, likes_count, author_id, author_name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NULL, $6, NULL, $7, 0, $8, $9, now(), now())
		 ON CONFLICT (id) DO NOTHING`,
		devTemplate2ID, "Class Portfolio", "A finished site students can browse for inspiration.",
		"showcase", "deployed-site", "https://portfolio.example.com",
		[]string{}, devUser2ID, "Dev Author")
	if err != nil {
		fmt.Fprintf(os.Stderr, "insert template: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done.")
	fmt.Println()
	fmt.Printf("Session token for %s: %s\n", "student@example.com", devSessionToken)
	fmt.Printf("Session token for %s: %s\n", "author@example.com", devSession2Token)
}

func insertSession(ctx context.Context, pool *pgxpool.Pool, cipher *secrets.Cipher, userID, token, accessToken string) error {
	sum := sha256.Sum256([]byte(token))
	tokenHash := hex.EncodeToString(sum[:])

	var ciphertext *string
	if accessToken != "" {
		ct, err := cipher.Encrypt(accessToken)
		if err != nil {
			return fmt.Errorf("encrypt access token: %w", err)
		}
		ciphertext = &ct
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, token_hash, access_token_ciphertext, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, now() + interval '30 days', now())
		 ON CONFLICT (token_hash) DO UPDATE SET expires_at = EXCLUDED.expires_at`,
		"sess_"+tokenHash[:28], userID, tokenHash, ciphertext)
	if err != nil {
		return fmt.Errorf("insert session row: %w", err)
	}
	return nil
}
