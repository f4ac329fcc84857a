// Command checksecrets exits non-zero unless both access PINs are present
// in the environment (or a .env file) and are exactly four digits.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dmitrijs2005/wardminutes/internal/secrets"
)

func main() {
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	if err := secrets.LoadEnv(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := secrets.FromEnv().Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println("secrets ok")
}
