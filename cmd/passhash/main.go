package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/niksmo/vip-store/internal/core/service"
	"github.com/spf13/pflag"
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [password]\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "reads the password from stdin when no argument is given")
	}
	pflag.Parse()

	password, err := readPassword(pflag.Args())
	if err != nil {
		fallDown(err)
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		fallDown(err)
	}

	fmt.Println(hash)
	fmt.Fprintf(os.Stderr, "\nset it as auth.admin_password_hash or VIPSTORE_AUTH_ADMIN_PASSWORD_HASH=%s\n", hash)
}

func readPassword(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func fallDown(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(2)
}
