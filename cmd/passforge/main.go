// Command passforge exposes the library over a small CLI: generate
// passwords from a wordlist, analyze candidates, and hash or verify
// them. Configuration comes from PASSFORGE_* environment variables;
// per-command flags override.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"

	"github.com/passforge/passforge"
)

type envConfig struct {
	WordlistPath     string        `env:"PASSFORGE_WORDLIST"`
	WordlistEncoding string        `env:"PASSFORGE_WORDLIST_ENCODING"`
	WordLength       int           `env:"PASSFORGE_WORD_LENGTH" envDefault:"8"`
	DigitLength      int           `env:"PASSFORGE_DIGIT_LENGTH" envDefault:"3"`
	RedisAddr        string        `env:"PASSFORGE_REDIS_ADDR"`
	CacheTTL         time.Duration `env:"PASSFORGE_CACHE_TTL" envDefault:"24h"`
	AllowInsecure    bool          `env:"PASSFORGE_ALLOW_INSECURE_ENTROPY"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "parse env: %v\n", err)
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "generate":
		err = runGenerate(cfg, os.Args[2:])
	case "analyze":
		err = runAnalyze(cfg, os.Args[2:])
	case "hash":
		err = runHash(os.Args[2:])
	case "verify":
		err = runVerify(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "passforge: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: passforge <command> [flags]

commands:
  generate   pick a dictionary word and assemble a password
  analyze    score a password and check wordlist membership
  hash       hash a password read from stdin
  verify     verify a stdin password against an encoded hash`)
}

func buildEngine(cfg envConfig, wordlist string) (*passforge.Engine, func(), error) {
	ecfg := passforge.DefaultConfig()
	ecfg.Dictionary.Path = wordlist
	ecfg.Dictionary.Encoding = cfg.WordlistEncoding
	ecfg.Generate.WordLength = cfg.WordLength
	ecfg.Generate.DigitLength = cfg.DigitLength
	ecfg.Sampler.AllowInsecureFallback = cfg.AllowInsecure

	b := passforge.New().WithConfig(ecfg)

	cleanup := func() {}
	if cfg.RedisAddr != "" {
		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{cfg.RedisAddr},
		})
		ecfg.MatchCache.Enabled = true
		ecfg.MatchCache.TTL = cfg.CacheTTL
		b = b.WithConfig(ecfg).WithRedis(client)
		cleanup = func() { _ = client.Close() }
	}

	eng, err := b.Build()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return eng, func() {
		eng.Close()
		cleanup()
	}, nil
}

func runGenerate(cfg envConfig, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	wordlist := fs.String("wordlist", cfg.WordlistPath, "newline-delimited wordlist path")
	count := fs.Int("n", 1, "number of passwords to generate")
	wordLen := fs.Int("word-length", cfg.WordLength, "dictionary word length in runes")
	digitLen := fs.Int("digits", cfg.DigitLength, "numeric affix length; negative disables")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *wordlist == "" {
		return fmt.Errorf("no wordlist: set -wordlist or PASSFORGE_WORDLIST")
	}

	eng, done, err := buildEngine(cfg, *wordlist)
	if err != nil {
		return err
	}
	defer done()

	ctx := context.Background()
	for range *count {
		res, err := eng.Generate(ctx, passforge.GenerateRequest{
			WordLength:  *wordLen,
			DigitLength: *digitLen,
		})
		if err != nil {
			return err
		}
		fmt.Println(res.Password)
	}
	return nil
}

func runAnalyze(cfg envConfig, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	wordlist := fs.String("wordlist", cfg.WordlistPath, "newline-delimited wordlist path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	candidate, err := readSecret("password: ")
	if err != nil {
		return err
	}

	eng, done, err := buildEngine(cfg, *wordlist)
	if err != nil {
		return err
	}
	defer done()

	res, err := eng.Analyze(context.Background(), candidate)
	if err != nil {
		return err
	}
	fmt.Printf("score:          %d/4\n", res.Score)
	fmt.Printf("entropy:        %.1f bits\n", res.Entropy)
	fmt.Printf("dictionary hit: %t\n", res.DictionaryHit)
	fmt.Printf("acceptable:     %t\n", res.Acceptable)
	if res.Warning != "" {
		fmt.Printf("warning:        %s\n", res.Warning)
	}
	for _, s := range res.Suggestions {
		fmt.Printf("suggestion:     %s\n", s)
	}
	if !res.Acceptable {
		os.Exit(1)
	}
	return nil
}

func runHash(args []string) error {
	fs := flag.NewFlagSet("hash", flag.ExitOnError)
	scheme := fs.String("scheme", string(passforge.SchemeArgon2), "hash scheme: argon2id or digest")
	if err := fs.Parse(args); err != nil {
		return err
	}

	candidate, err := readSecret("password: ")
	if err != nil {
		return err
	}

	cfg := passforge.DefaultConfig()
	cfg.Hash.Scheme = passforge.HashScheme(*scheme)
	eng, err := passforge.New().WithConfig(cfg).Build()
	if err != nil {
		return err
	}
	defer eng.Close()

	encoded, err := eng.Hash(context.Background(), candidate)
	if err != nil {
		return err
	}
	fmt.Println(encoded)
	return nil
}

func runVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	encoded := fs.String("hash", "", "encoded hash to verify against")
	scheme := fs.String("scheme", string(passforge.SchemeArgon2), "hash scheme: argon2id or digest")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *encoded == "" {
		return fmt.Errorf("no hash: set -hash")
	}

	candidate, err := readSecret("password: ")
	if err != nil {
		return err
	}

	cfg := passforge.DefaultConfig()
	cfg.Hash.Scheme = passforge.HashScheme(*scheme)
	eng, err := passforge.New().WithConfig(cfg).Build()
	if err != nil {
		return err
	}
	defer eng.Close()

	ok, err := eng.VerifyHash(context.Background(), candidate, *encoded)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("no match")
		os.Exit(1)
	}
	fmt.Println("ok")
	return nil
}

// readSecret reads one line from stdin, prompting only when stdin is a
// terminal.
func readSecret(prompt string) (string, error) {
	if info, err := os.Stdin.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
		fmt.Fprint(os.Stderr, prompt)
	}
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("no input")
	}
	return scanner.Text(), nil
}
