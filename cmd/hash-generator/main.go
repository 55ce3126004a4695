// Command hash-generator prints bcrypt hashes for seeding users directly in
// the database. Passwords are read one per line from stdin and must satisfy
// the same length rules as registration.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/taskify-app/taskify-api/internal/domain"
	"github.com/taskify-app/taskify-api/internal/service/auth"
)

func main() {
	cost := flag.Int("cost", 12, "bcrypt cost")
	flag.Parse()

	if err := run(os.Stdin, os.Stdout, auth.NewBcryptHasher(*cost)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer, hasher auth.PasswordHasher) error {
	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		password := scanner.Text()
		if password == "" {
			continue
		}
		if err := domain.ValidatePassword(password); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		hash, err := hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := fmt.Fprintln(out, hash); err != nil {
			return err
		}
	}
	return scanner.Err()
}
